package reputation

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sumsToOne(t *testing.T, tv TrustVector) {
	t.Helper()
	total := 0.0
	for _, v := range tv {
		assert.GreaterOrEqual(t, v, 0.0)
		total += v
	}
	assert.InDelta(t, 1.0, total, 1e-9)
}

func ratingPtr(contribution, communication int, wwa bool, rater, target int) Rating {
	c, k := contribution, communication
	return Rating{RaterID: rater, TargetID: target, Contribution: &c, Communication: &k, WouldWorkAgain: wwa}
}

func TestComputeTrust_EmptyGraph(t *testing.T) {
	edges := collapseEdges(nil)
	trust, iterations, warning := computeTrust(context.Background(), []int{1, 2, 3}, edges, TrustConfig{})

	require.Nil(t, warning)
	assert.Equal(t, 1, iterations) // delta is already 0 after the first pass
	sumsToOne(t, trust)
	assert.InDelta(t, 1.0/3, trust[1], 1e-9)
	assert.InDelta(t, 1.0/3, trust[2], 1e-9)
	assert.InDelta(t, 1.0/3, trust[3], 1e-9)
}

func TestComputeTrust_Star(t *testing.T) {
	ratings := []Rating{
		ratingPtr(10, 10, true, 1, 2), // A -> B
		ratingPtr(10, 10, true, 3, 2), // C -> B
	}
	edges := collapseEdges(ratings)
	trust, _, warning := computeTrust(context.Background(), []int{1, 2, 3}, edges, TrustConfig{})

	require.Nil(t, warning)
	sumsToOne(t, trust)
	assert.Greater(t, trust[2], trust[1])
	assert.Greater(t, trust[2], trust[3])
	assert.InDelta(t, trust[1], trust[3], 1e-9)
}

func TestComputeTrust_Cycle(t *testing.T) {
	ratings := []Rating{
		ratingPtr(8, 6, true, 1, 2),
		ratingPtr(8, 6, true, 2, 3),
		ratingPtr(8, 6, true, 3, 1),
	}
	edges := collapseEdges(ratings)
	trust, _, warning := computeTrust(context.Background(), []int{1, 2, 3}, edges, TrustConfig{})

	require.Nil(t, warning)
	sumsToOne(t, trust)
	assert.InDelta(t, trust[1], trust[2], 1e-9)
	assert.InDelta(t, trust[2], trust[3], 1e-9)
}

func TestComputeTrust_Sink(t *testing.T) {
	ratings := []Rating{
		ratingPtr(10, 10, true, 1, 2), // A -> B, B has no outgoing edges
	}
	edges := collapseEdges(ratings)
	trust, _, warning := computeTrust(context.Background(), []int{1, 2}, edges, TrustConfig{})

	require.Nil(t, warning)
	sumsToOne(t, trust)
	assert.Greater(t, trust[2], trust[1])
}

func TestComputeTrust_SelfRatingImmunity(t *testing.T) {
	ratings := []Rating{
		ratingPtr(10, 10, true, 1, 2),
		ratingPtr(10, 10, true, 2, 2), // self-rating, must be dropped during collapsing
	}
	edges := collapseEdges(ratings)
	trustWith, _, _ := computeTrust(context.Background(), []int{1, 2}, edges, TrustConfig{})

	edgesWithout := collapseEdges(ratings[:1])
	trustWithout, _, _ := computeTrust(context.Background(), []int{1, 2}, edgesWithout, TrustConfig{})

	assert.InDelta(t, trustWithout[1], trustWith[1], 1e-9)
	assert.InDelta(t, trustWithout[2], trustWith[2], 1e-9)
}

func TestComputeTrust_PermutationImmunity(t *testing.T) {
	a := []Rating{
		ratingPtr(10, 10, true, 1, 2),
		ratingPtr(8, 6, true, 2, 3),
		ratingPtr(8, 6, true, 3, 1),
	}
	b := []Rating{a[2], a[0], a[1]}

	trustA, _, _ := computeTrust(context.Background(), []int{1, 2, 3}, collapseEdges(a), TrustConfig{})
	trustB, _, _ := computeTrust(context.Background(), []int{1, 2, 3}, collapseEdges(b), TrustConfig{})

	for id := range trustA {
		assert.InDelta(t, trustA[id], trustB[id], 1e-9)
	}
}

func TestComputeTrust_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	edges := collapseEdges([]Rating{ratingPtr(10, 10, true, 1, 2)})
	trust, _, warning := computeTrust(ctx, []int{1, 2}, edges, TrustConfig{})

	require.NotNil(t, warning)
	sumsToOne(t, trust)
}

func TestTrustConfig_withDefaults(t *testing.T) {
	cfg := TrustConfig{}.withDefaults()
	assert.Equal(t, DefaultDamping, cfg.Damping)
	assert.Equal(t, DefaultMaxIterations, cfg.MaxIterations)
	assert.Equal(t, DefaultTolerance, cfg.Tolerance)
}

func TestAbs(t *testing.T) {
	assert.Equal(t, 3.0, abs(-3))
	assert.Equal(t, 3.0, abs(3))
	assert.Equal(t, 0.0, abs(0))
}

func TestSortedUserIDs(t *testing.T) {
	got := sortedUserIDs([]int{3, 1, 2})
	assert.Equal(t, []int{1, 2, 3}, got)
}

func TestComputeTrust_NeverNaN(t *testing.T) {
	edges := collapseEdges(nil)
	trust, _, _ := computeTrust(context.Background(), nil, edges, TrustConfig{})
	for _, v := range trust {
		assert.False(t, math.IsNaN(v))
	}
}
