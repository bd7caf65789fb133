package reputation

import (
	"github.com/samber/lo"
)

type edgeKey struct {
	rater  int
	target int
}

// collapseEdges folds rating rows sharing an ordered (rater, target) pair
// into a single averaged edge. Self-edges and zero-weight rows never
// accumulate, which is what makes a repeated self-rating or a string of
// zero-score rows invisible to the trust iterator.
func collapseEdges(ratings []Rating) map[edgeKey]*CollapsedEdge {
	byKey := make(map[edgeKey]*CollapsedEdge)

	for _, r := range ratings {
		if r.RaterID == r.TargetID {
			continue
		}
		local := normalize(r.Contribution, r.Communication, r.WouldWorkAgain)
		if local <= 0 {
			continue
		}

		key := edgeKey{rater: r.RaterID, target: r.TargetID}
		edge, ok := byKey[key]
		if !ok {
			edge = &CollapsedEdge{Rater: r.RaterID, Target: r.TargetID}
			byKey[key] = edge
		}

		edge.Weight = (edge.Weight*float64(edge.Count) + local) / float64(edge.Count+1)
		edge.Count++

		if r.Contribution != nil {
			edge.ContribSum += float64(*r.Contribution)
			edge.ContribN++
		}
		if r.Communication != nil {
			edge.CommSum += float64(*r.Communication)
			edge.CommN++
		}
		wwa := 0.0
		if r.WouldWorkAgain {
			wwa = 1
		}
		edge.WWASum += wwa
		edge.WWAN++
	}

	return byKey
}

// edgesByRater groups collapsed edges by their rater id, which is the
// shape the Trust Iterator wants: one row sum per outgoing rater.
func edgesByRater(edges map[edgeKey]*CollapsedEdge) map[int][]*CollapsedEdge {
	return lo.GroupBy(lo.Values(edges), func(e *CollapsedEdge) int {
		return e.Rater
	})
}
