package reputation

import (
	"context"
	"sort"
)

const (
	DefaultDamping       = 0.85
	DefaultMaxIterations = 50
	DefaultTolerance     = 1e-10
)

// TrustConfig parameterizes the power iteration. Zero values fall back to
// the package defaults via withDefaults.
type TrustConfig struct {
	Damping       float64
	MaxIterations int
	Tolerance     float64
}

func (c TrustConfig) withDefaults() TrustConfig {
	if c.Damping <= 0 {
		c.Damping = DefaultDamping
	}
	if c.MaxIterations <= 0 {
		c.MaxIterations = DefaultMaxIterations
	}
	if c.Tolerance <= 0 {
		c.Tolerance = DefaultTolerance
	}
	return c
}

// computeTrust runs damped power iteration with uniform personalization
// and uniform dangling-mass redistribution over the collapsed edge set.
// It never errors; failure to converge within MaxIterations degrades to
// a ConvergenceWarning carried back to the caller rather than aborting --
// the last vector is still renormalized and returned.
func computeTrust(ctx context.Context, userIDs []int, edges map[edgeKey]*CollapsedEdge, cfg TrustConfig) (TrustVector, int, *ConvergenceWarning) {
	n := len(userIDs)
	if n == 0 {
		return TrustVector{}, 0, nil
	}
	cfg = cfg.withDefaults()

	byRater := edgesByRater(edges)
	rowSum := make(map[int]float64, len(byRater))
	for rater, es := range byRater {
		s := 0.0
		for _, e := range es {
			s += e.Weight
		}
		rowSum[rater] = s
	}

	known := make(map[int]bool, n)
	for _, id := range userIDs {
		known[id] = true
	}

	t := make(map[int]float64, n)
	p := 1.0 / float64(n)
	for _, id := range userIDs {
		t[id] = p
	}

	var warning *ConvergenceWarning
	iterations := 0

iterate:
	for iter := 0; iter < cfg.MaxIterations; iter++ {
		select {
		case <-ctx.Done():
			warning = &ConvergenceWarning{Iterations: iterations}
			break iterate
		default:
		}

		newT := make(map[int]float64, n)
		for _, id := range userIDs {
			newT[id] = (1 - cfg.Damping) * p
		}

		dangling := 0.0
		for _, id := range userIDs {
			if rowSum[id] == 0 {
				dangling += t[id]
			}
		}
		danglingShare := cfg.Damping * dangling / float64(n)
		for _, id := range userIDs {
			newT[id] += danglingShare
		}

		for rater, es := range byRater {
			s := rowSum[rater]
			if s <= 0 {
				continue
			}
			ti := t[rater]
			for _, e := range es {
				if !known[e.Target] {
					continue
				}
				newT[e.Target] += cfg.Damping * (e.Weight / s) * ti
			}
		}

		delta := 0.0
		for _, id := range userIDs {
			delta += abs(newT[id] - t[id])
		}
		t = newT
		iterations++

		if delta < cfg.Tolerance {
			break iterate
		}
		if iter == cfg.MaxIterations-1 {
			warning = &ConvergenceWarning{Iterations: iterations, Residual: delta}
		}
	}

	total := 0.0
	for _, v := range t {
		total += v
	}
	result := make(TrustVector, n)
	if total > 0 {
		for _, id := range userIDs {
			result[id] = t[id] / total
		}
	} else {
		for _, id := range userIDs {
			result[id] = p
		}
	}
	return result, iterations, warning
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// sortedUserIDs returns ids in ascending order so iteration and any
// caller diffing is deterministic regardless of map/storage order.
func sortedUserIDs(ids []int) []int {
	out := make([]int, len(ids))
	copy(out, ids)
	sort.Ints(out)
	return out
}
