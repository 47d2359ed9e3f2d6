package cvt

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// WeightedCentroid returns the equal-mass centroid of one cell: the mean of
// x and y weighted by w² (Cappellari & Copin 2003, eq. 4). An empty cell
// yields the (0, 0) sentinel; a cell whose weights are all zero yields its
// unweighted mean. x, y and w must have the same length.
func WeightedCentroid(x, y, w []float64) (float64, float64) {
	if len(x) == 0 {
		return 0, 0
	}
	w2 := make([]float64, len(w))
	floats.MulTo(w2, w, w)
	if floats.Sum(w2) == 0 {
		return stat.Mean(x, nil), stat.Mean(y, nil)
	}
	return stat.Mean(x, w2), stat.Mean(y, w2)
}

// cellAccumulator holds the per-node reduction of one recentering step.
type cellAccumulator struct {
	sumXW2, sumYW2, sumW2 []float64 // weight²-weighted sums
	sumX, sumY            []float64 // unweighted sums, for massless cells
	weight                []float64 // unsquared weight
	count                 []int
}

func newCellAccumulator(m int) *cellAccumulator {
	return &cellAccumulator{
		sumXW2: make([]float64, m),
		sumYW2: make([]float64, m),
		sumW2:  make([]float64, m),
		sumX:   make([]float64, m),
		sumY:   make([]float64, m),
		weight: make([]float64, m),
		count:  make([]int, m),
	}
}

func (a *cellAccumulator) reset() {
	for _, s := range [][]float64{a.sumXW2, a.sumYW2, a.sumW2, a.sumX, a.sumY, a.weight} {
		clear(s)
	}
	clear(a.count)
}

// accumulate reduces points into their assigned cells. Points are visited
// in index order so the sums are deterministic regardless of how the
// assignment was computed.
func (a *cellAccumulator) accumulate(points PointSet, assign []int) {
	a.reset()
	for i, j := range assign {
		x, y, w := points.X[i], points.Y[i], points.W[i]
		w2 := w * w
		a.sumXW2[j] += x * w2
		a.sumYW2[j] += y * w2
		a.sumW2[j] += w2
		a.sumX[j] += x
		a.sumY[j] += y
		a.weight[j] += w
		a.count[j]++
	}
}

// centroidsInto writes every cell's new generator position into next.
// Empty cells get the (0, 0) sentinel so they can be detected later.
func (a *cellAccumulator) centroidsInto(next NodeSet) {
	for j := range a.count {
		switch {
		case a.count[j] == 0:
			next.X[j], next.Y[j] = 0, 0
		case a.sumW2[j] == 0:
			c := float64(a.count[j])
			next.X[j], next.Y[j] = a.sumX[j]/c, a.sumY[j]/c
		default:
			next.X[j] = a.sumXW2[j] / a.sumW2[j]
			next.Y[j] = a.sumYW2[j] / a.sumW2[j]
		}
	}
}

// displacement returns the total squared movement of all nodes between two
// snapshots. scratch must have the node count's length.
func displacement(prev, next NodeSet, scratch []float64) float64 {
	floats.SubTo(scratch, next.X, prev.X)
	delta := floats.Dot(scratch, scratch)
	floats.SubTo(scratch, next.Y, prev.Y)
	return delta + floats.Dot(scratch, scratch)
}
