package cvt

import (
	"context"
	"math/rand/v2"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssignParallel_IdenticalToSequential(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 1))
	nodes := randomNodes(rng, 25, 100)
	points := randomNodes(rng, 1000, 100)

	for _, a := range []NearestAssigner{NewBruteForceAssigner(nodes), NewKDTree(nodes, 4)} {
		sequential := make([]int, points.Len())
		require.NoError(t, AssignParallel(context.Background(), a, points.X, points.Y, sequential, 1))

		for _, workers := range []int{2, 3, 8, 2000} {
			parallel := make([]int, points.Len())
			require.NoError(t, AssignParallel(context.Background(), a, points.X, points.Y, parallel, workers))
			assert.Equal(t, sequential, parallel, "%T workers=%d", a, workers)
		}
	}
}

func TestAssignParallel_Empty(t *testing.T) {
	a := NewBruteForceAssigner(NodeSet{X: []float64{0}, Y: []float64{0}})
	require.NoError(t, AssignParallel(context.Background(), a, nil, nil, nil, 4))
}

func TestAssignParallel_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	a := NewBruteForceAssigner(NodeSet{X: []float64{0}, Y: []float64{0}})
	xs := make([]float64, 100)
	out := make([]int, 100)
	for _, workers := range []int{1, 4} {
		err := AssignParallel(ctx, a, xs, xs, out, workers)
		assert.ErrorIs(t, err, context.Canceled, "workers=%d", workers)
	}
}

func TestParallelRanges_CoversEveryItemOnce(t *testing.T) {
	for _, n := range []int{1, 7, 100} {
		for _, workers := range []int{1, 3, 16, 200} {
			hits := make([]int32, n)
			err := parallelRanges(context.Background(), n, workers, func(_ context.Context, start, end int) error {
				for i := start; i < end; i++ {
					atomic.AddInt32(&hits[i], 1)
				}
				return nil
			})
			require.NoError(t, err)
			for i, h := range hits {
				require.Equal(t, int32(1), h, "n=%d workers=%d item=%d", n, workers, i)
			}
		}
	}
}
