package cvt

import "math"

// squaredDistance is the reduced Euclidean distance used by every
// nearest-node search. Both assigners must evaluate exactly this expression
// so that ties compare bitwise equal across strategies.
func squaredDistance(ax, ay, bx, by float64) float64 {
	dx := ax - bx
	dy := ay - by
	return dx*dx + dy*dy
}

// closer reports whether candidate (d, idx) beats the current best.
// Exact ties go to the lower node index; bestIdx < 0 means no best yet.
func closer(d float64, idx int, bestD float64, bestIdx int) bool {
	return bestIdx < 0 || d < bestD || (d == bestD && idx < bestIdx)
}

// nearestBrute scans every node. Returns -1 and +Inf for an empty set.
func nearestBrute(xs, ys []float64, x, y float64) (int, float64) {
	if len(xs) == 0 {
		return -1, math.Inf(1)
	}
	best := 0
	bestD := squaredDistance(x, y, xs[0], ys[0])
	for j := 1; j < len(xs); j++ {
		d := squaredDistance(x, y, xs[j], ys[j])
		if d < bestD {
			best, bestD = j, d
		}
	}
	return best, bestD
}
