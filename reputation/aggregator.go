package reputation

import (
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

type raterSummary struct {
	raterID    int
	contribSum float64
	contribN   int
	commSum    float64
	commN      int
	wwaSum     float64
	wwaN       int
}

// aggregate computes the weighted Reputation of target from its incoming
// ratings and the trust vector. Each rater contributes once regardless of
// how many rows they produced against this target -- the second
// de-duplication layer described alongside the Edge Collapser.
func aggregate(target int, incoming []Rating, trust TrustVector) Reputation {
	incoming = lo.Filter(incoming, func(r Rating, _ int) bool {
		return r.TargetID == target && r.RaterID != target
	})

	byRater := make(map[int]*raterSummary)
	for _, r := range incoming {
		s, ok := byRater[r.RaterID]
		if !ok {
			s = &raterSummary{raterID: r.RaterID}
			byRater[r.RaterID] = s
		}
		if r.Contribution != nil {
			s.contribSum += float64(*r.Contribution)
			s.contribN++
		}
		if r.Communication != nil {
			s.commSum += float64(*r.Communication)
			s.commN++
		}
		wwa := 0.0
		if r.WouldWorkAgain {
			wwa = 1
		}
		s.wwaSum += wwa
		s.wwaN++
	}

	var contribNum, contribDen float64
	var commNum, commDen float64
	var wwaNum, wwaDen float64

	for _, s := range byRater {
		w := trust[s.raterID]
		if w <= 0 {
			continue
		}
		if s.contribN > 0 {
			contribNum += w * (s.contribSum / float64(s.contribN))
			contribDen += w
		}
		if s.commN > 0 {
			commNum += w * (s.commSum / float64(s.commN))
			commDen += w
		}
		if s.wwaN > 0 {
			wwaNum += w * (s.wwaSum / float64(s.wwaN))
			wwaDen += w
		}
	}

	rep := Reputation{RatingCount: len(incoming)}

	if contribDen > 0 {
		rep.ContributionAvg = round2(contribNum / contribDen)
	}
	if commDen > 0 {
		rep.CommunicationAvg = round2(commNum / commDen)
	}
	if wwaDen > 0 {
		ratio := round2(wwaNum / wwaDen)
		rep.WouldWorkAgainRatio = &ratio
	}

	return rep
}

// round2 rounds v to two decimal places using shopspring/decimal so the
// emitted averages don't carry binary floating-point noise.
func round2(v float64) float64 {
	d, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return d
}
