package cvt

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
)

// Config controls a tessellation run.
// Start with [DefaultConfig] and override the fields you need.
type Config struct {
	// Strategy selects the nearest-node search used by the assignment step.
	// "brute" scans all nodes, "kdtree" rebuilds a KD-tree over the nodes
	// every iteration, "auto" picks brute for small node counts.
	// All strategies produce identical assignments. Default: "auto".
	Strategy Strategy

	// MaxIterations caps Lloyd's iteration. Runs that have not reached the
	// termination threshold after this many iterations fail with
	// ErrConvergence. Must be >= 1. Default: 1000.
	MaxIterations int

	// Epsilon is the total squared node displacement at or below which the
	// run terminates. 0 requires an exact fixed point. Must be >= 0.
	// Default: 0.
	Epsilon float64

	// LeafSize is the max nodes per KD-tree leaf. Default: 16.
	LeafSize int

	// Workers controls the number of goroutines for the assignment step.
	// 0 means use runtime.NumCPU(). Default: 0 (auto).
	Workers int

	// Logger receives per-iteration debug records and a completion record.
	// nil discards.
	Logger *slog.Logger

	// Metrics records run outcomes. nil disables.
	Metrics *Metrics
}

// DefaultConfig returns a Config with reasonable defaults.
func DefaultConfig() Config {
	return Config{
		Strategy:      StrategyAuto,
		MaxIterations: 1000,
		LeafSize:      16,
	}
}

// applyDefaults fills in zero-valued config fields with their defaults.
func applyDefaults(cfg *Config) {
	if cfg.Strategy == "" {
		cfg.Strategy = StrategyAuto
	}
	if cfg.MaxIterations == 0 {
		cfg.MaxIterations = 1000
	}
	if cfg.LeafSize == 0 {
		cfg.LeafSize = 16
	}
	if cfg.Workers == 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
}

// validateConfig checks that cfg fields are valid and returns a descriptive error if not.
func validateConfig(cfg *Config) error {
	if cfg.MaxIterations < 1 {
		return fmt.Errorf("%w: MaxIterations must be >= 1, got %d", ErrInvalidInput, cfg.MaxIterations)
	}
	if !(cfg.Epsilon >= 0) || !isFinite(cfg.Epsilon) {
		return fmt.Errorf("%w: Epsilon must be finite and >= 0, got %v", ErrInvalidInput, cfg.Epsilon)
	}
	if cfg.LeafSize < 1 {
		return fmt.Errorf("%w: LeafSize must be >= 1, got %d", ErrInvalidInput, cfg.LeafSize)
	}
	if cfg.Workers < 0 {
		return fmt.Errorf("%w: Workers must be >= 0, got %d", ErrInvalidInput, cfg.Workers)
	}
	switch cfg.Strategy {
	case StrategyAuto, StrategyBrute, StrategyKDTree:
		// valid
	default:
		return fmt.Errorf("%w: invalid Strategy %q", ErrInvalidInput, cfg.Strategy)
	}
	return nil
}

// Result contains the frozen output of a converged tessellation.
type Result struct {
	// Nodes are the final generator positions. Nodes that own no points
	// sit at the (0, 0) sentinel.
	Nodes NodeSet

	// Assignment maps each point index to its nearest node index.
	Assignment []int

	// NodeWeights is the summed (unsquared) weight of each node's points.
	NodeWeights []float64

	// Counts is the number of points assigned to each node.
	Counts []int

	// Iterations is the number of assign/recenter rounds performed.
	Iterations int

	// Displacement is the total squared node movement of the last round.
	Displacement float64
}

// EmptyNodes returns the indices of nodes that own no points.
func (r *Result) EmptyNodes() []int {
	var empty []int
	for j, c := range r.Counts {
		if c == 0 {
			empty = append(empty, j)
		}
	}
	return empty
}

// Partition wraps the final nodes in a Voronoi Partition.
func (r *Result) Partition() (*Partition, error) {
	return NewPartition(r.Nodes)
}

// Tessellate runs Lloyd's relaxation with equal-mass (weight²) centroids,
// starting from seeds, until the total squared node displacement is at most
// cfg.Epsilon. seeds is not modified.
//
// ctx is checked between iterations and periodically during assignment;
// a cancelled run returns ctx's error.
func Tessellate(ctx context.Context, points PointSet, seeds NodeSet, cfg Config) (*Result, error) {
	applyDefaults(&cfg)
	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}
	if err := points.Validate(); err != nil {
		return nil, err
	}
	if err := seeds.Validate(); err != nil {
		return nil, err
	}

	n, m := points.Len(), seeds.Len()
	strategy, err := selectStrategy(cfg.Strategy, m)
	if err != nil {
		return nil, err
	}
	log := cfg.Logger.With("points", n, "nodes", m, "strategy", string(strategy))

	// prev is read by the assignment step; next receives the recentered
	// positions. They are swapped at the end of every iteration.
	prev := seeds.Clone()
	next := NewNodeSet(m)
	assign := make([]int, n)
	acc := newCellAccumulator(m)
	scratch := make([]float64, m)

	for iter := 1; iter <= cfg.MaxIterations; iter++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("cvt: tessellation aborted after %d iterations: %w", iter-1, err)
		}

		a := newAssigner(strategy, prev, cfg.LeafSize)
		if err := AssignParallel(ctx, a, points.X, points.Y, assign, cfg.Workers); err != nil {
			return nil, fmt.Errorf("cvt: assignment in iteration %d: %w", iter, err)
		}

		acc.accumulate(points, assign)
		acc.centroidsInto(next)
		delta := displacement(prev, next, scratch)
		log.DebugContext(ctx, "cvt iteration", "iteration", iter, "displacement", delta)

		prev, next = next, prev
		if delta <= cfg.Epsilon {
			res := &Result{
				Nodes:        prev,
				Assignment:   assign,
				NodeWeights:  acc.weight,
				Counts:       acc.count,
				Iterations:   iter,
				Displacement: delta,
			}
			empty := len(res.EmptyNodes())
			log.InfoContext(ctx, "cvt complete", "iterations", iter, "empty_nodes", empty)
			cfg.Metrics.observeConverged(iter, empty)
			return res, nil
		}
	}

	log.WarnContext(ctx, "cvt did not converge", "max_iterations", cfg.MaxIterations)
	cfg.Metrics.observeFailure()
	return nil, fmt.Errorf("%w after %d iterations", ErrConvergence, cfg.MaxIterations)
}

// Assign runs a single assignment step: every point is mapped to its
// nearest node, ties to the lowest index. Only cfg.Strategy, cfg.LeafSize
// and cfg.Workers are used.
func Assign(ctx context.Context, points PointSet, nodes NodeSet, cfg Config) ([]int, error) {
	applyDefaults(&cfg)
	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}
	if err := validatePositions(points.X, points.Y); err != nil {
		return nil, err
	}
	if err := nodes.Validate(); err != nil {
		return nil, err
	}
	strategy, err := selectStrategy(cfg.Strategy, nodes.Len())
	if err != nil {
		return nil, err
	}
	out := make([]int, points.Len())
	a := newAssigner(strategy, nodes, cfg.LeafSize)
	if err := AssignParallel(ctx, a, points.X, points.Y, out, cfg.Workers); err != nil {
		return nil, err
	}
	return out, nil
}
