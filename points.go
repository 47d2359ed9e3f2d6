package cvt

import (
	"fmt"
	"math"
)

// PointSet is the weighted sample cloud being binned. X, Y and W must have
// the same length; weights must be finite and non-negative. The engine only
// reads a PointSet.
type PointSet struct {
	X, Y []float64
	W    []float64
}

// Len returns the number of points.
func (p PointSet) Len() int { return len(p.X) }

// Validate checks lengths, finiteness and weight signs.
func (p PointSet) Validate() error {
	n := len(p.X)
	if n == 0 {
		return fmt.Errorf("%w: point set is empty", ErrInvalidInput)
	}
	if len(p.W) != n {
		return fmt.Errorf("%w: point arrays have lengths x=%d w=%d", ErrInvalidInput, n, len(p.W))
	}
	if err := validatePositions(p.X, p.Y); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		if w := p.W[i]; !isFinite(w) || w < 0 {
			return fmt.Errorf("%w: point %d has weight %v, want finite and >= 0", ErrInvalidInput, i, w)
		}
	}
	return nil
}

// NodeSet holds generator positions. A node's identity is its index.
type NodeSet struct {
	X, Y []float64
}

// NewNodeSet returns a zeroed NodeSet with m nodes.
func NewNodeSet(m int) NodeSet {
	return NodeSet{X: make([]float64, m), Y: make([]float64, m)}
}

// Len returns the number of nodes.
func (s NodeSet) Len() int { return len(s.X) }

// Clone returns a deep copy.
func (s NodeSet) Clone() NodeSet {
	c := NewNodeSet(len(s.X))
	copy(c.X, s.X)
	copy(c.Y, s.Y)
	return c
}

// Validate checks that the set is non-empty, consistent and finite.
func (s NodeSet) Validate() error {
	m := len(s.X)
	if m == 0 {
		return fmt.Errorf("%w: node set is empty", ErrInvalidInput)
	}
	if len(s.Y) != m {
		return fmt.Errorf("%w: node arrays have lengths x=%d y=%d", ErrInvalidInput, m, len(s.Y))
	}
	for j := 0; j < m; j++ {
		if !isFinite(s.X[j]) || !isFinite(s.Y[j]) {
			return fmt.Errorf("%w: node %d has non-finite position (%v, %v)", ErrInvalidInput, j, s.X[j], s.Y[j])
		}
	}
	return nil
}

// SeedNodesFromPoints uses every point as its own generator. This is the
// fallback seeding when no pre-computed generator is available; it is only
// practical for small point sets since the engine cost is O(N*M).
func SeedNodesFromPoints(p PointSet) NodeSet {
	return NodeSet{X: append([]float64(nil), p.X...), Y: append([]float64(nil), p.Y...)}
}

// validatePositions checks that x and y pair up and are finite. A NaN
// coordinate has no nearest node, and the search strategies would each
// pick a different one.
func validatePositions(x, y []float64) error {
	if len(x) != len(y) {
		return fmt.Errorf("%w: position arrays have lengths x=%d y=%d", ErrInvalidInput, len(x), len(y))
	}
	for i := range x {
		if !isFinite(x[i]) || !isFinite(y[i]) {
			return fmt.Errorf("%w: point %d has non-finite position (%v, %v)", ErrInvalidInput, i, x[i], y[i])
		}
	}
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
