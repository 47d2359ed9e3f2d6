package cvt

import "fmt"

// Strategy selects how the assignment step finds the nearest node.
type Strategy string

const (
	StrategyAuto   Strategy = "auto"
	StrategyBrute  Strategy = "brute"
	StrategyKDTree Strategy = "kdtree"
)

// autoBruteMaxNodes is the node count up to which StrategyAuto prefers a
// linear scan over building a tree every iteration.
const autoBruteMaxNodes = 32

// NearestAssigner finds the node closest to a query position. Every
// implementation must return the lowest node index on exact distance ties,
// so that all strategies produce identical assignments.
type NearestAssigner interface {
	// Nearest returns the nearest node index and its squared distance.
	Nearest(x, y float64) (int, float64)

	// NumNodes returns the number of nodes searched.
	NumNodes() int
}

// BruteForceAssigner scans every node for every query.
type BruteForceAssigner struct {
	xs, ys []float64
}

// NewBruteForceAssigner wraps nodes without copying them; the caller must
// not mutate the node set while the assigner is in use.
func NewBruteForceAssigner(nodes NodeSet) *BruteForceAssigner {
	return &BruteForceAssigner{xs: nodes.X, ys: nodes.Y}
}

func (b *BruteForceAssigner) Nearest(x, y float64) (int, float64) {
	return nearestBrute(b.xs, b.ys, x, y)
}

func (b *BruteForceAssigner) NumNodes() int { return len(b.xs) }

// selectStrategy resolves StrategyAuto into a concrete strategy for m nodes.
func selectStrategy(s Strategy, m int) (Strategy, error) {
	switch s {
	case StrategyAuto:
		if m <= autoBruteMaxNodes {
			return StrategyBrute, nil
		}
		return StrategyKDTree, nil
	case StrategyBrute, StrategyKDTree:
		return s, nil
	default:
		return "", fmt.Errorf("%w: unknown strategy %q", ErrInvalidInput, s)
	}
}

// newAssigner builds the assigner for a resolved strategy over nodes.
func newAssigner(s Strategy, nodes NodeSet, leafSize int) NearestAssigner {
	if s == StrategyKDTree {
		return NewKDTree(nodes, leafSize)
	}
	return NewBruteForceAssigner(nodes)
}
