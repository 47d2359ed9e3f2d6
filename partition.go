package cvt

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
)

const partitionLeafSize = 16

// Partition is a Voronoi partition over a frozen node set. It rasterises
// the partition onto a pixel grid, counts per-cell pixel areas and assigns
// arbitrary points to their nearest node. Derived maps are computed lazily
// and cached until the node set or the grid changes.
//
// A Partition is safe for concurrent use.
type Partition struct {
	mu      sync.Mutex
	workers int
	metrics *Metrics
	nodes   NodeSet
	tree    *KDTree
	grid    PixelGrid
	hasGrid bool
	segmap  *SegMap
}

// NewPartition builds a partition over a copy of nodes.
func NewPartition(nodes NodeSet) (*Partition, error) {
	p := &Partition{workers: runtime.NumCPU()}
	if err := p.SetNodes(nodes); err != nil {
		return nil, err
	}
	return p, nil
}

// SetNodes replaces the node set and drops every cached map.
func (p *Partition) SetNodes(nodes NodeSet) error {
	if err := nodes.Validate(); err != nil {
		return err
	}
	c := nodes.Clone()
	p.mu.Lock()
	defer p.mu.Unlock()
	p.nodes = c
	p.tree = NewKDTree(c, partitionLeafSize)
	p.segmap = nil
	return nil
}

// SetWorkers sets the number of goroutines used to rasterise the
// segmentation map. Values <= 1 rasterise sequentially.
func (p *Partition) SetWorkers(n int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.workers = n
}

// SetMetrics sets the collectors that count rasterised pixels; nil disables.
func (p *Partition) SetMetrics(m *Metrics) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.metrics = m
}

// SetPixelGrid sets the half-open pixel ranges [xlim[0], xlim[1]) and
// [ylim[0], ylim[1]) used by SegmentationMap and CellAreas, and drops the
// cached segmentation map.
func (p *Partition) SetPixelGrid(xlim, ylim [2]int) error {
	g := PixelGrid{XMin: xlim[0], XMax: xlim[1], YMin: ylim[0], YMax: ylim[1]}
	if err := g.Validate(); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.grid = g
	p.hasGrid = true
	p.segmap = nil
	return nil
}

// SetImageGrid is SetPixelGrid for an image of naxis1 columns and naxis2
// rows in the 1-based FITS pixel convention.
func (p *Partition) SetImageGrid(naxis1, naxis2 int) error {
	g := ImageGrid(naxis1, naxis2)
	return p.SetPixelGrid([2]int{g.XMin, g.XMax}, [2]int{g.YMin, g.YMax})
}

// Grid returns the configured pixel grid and whether one is set.
func (p *Partition) Grid() (PixelGrid, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.grid, p.hasGrid
}

// Nodes returns copies of the node coordinates.
func (p *Partition) Nodes() (x, y []float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	c := p.nodes.Clone()
	return c.X, c.Y
}

// SegmentationMap returns the nearest node of every pixel centre of the
// configured grid. The returned map is shared with the cache and must not
// be modified.
func (p *Partition) SegmentationMap(ctx context.Context) (*SegMap, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.segmentationMapLocked(ctx)
}

func (p *Partition) segmentationMapLocked(ctx context.Context) (*SegMap, error) {
	if !p.hasGrid {
		return nil, fmt.Errorf("%w: set a pixel grid before building a segmentation map", ErrPrecondition)
	}
	if p.segmap != nil {
		return p.segmap, nil
	}

	g := p.grid
	tree := p.tree
	w := g.Width()
	labels := make([]int, g.Len())
	err := parallelRanges(ctx, g.Height(), p.workers, func(ctx context.Context, start, end int) error {
		for row := start; row < end; row++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			y := float64(g.YMin + row)
			base := row * w
			for col := 0; col < w; col++ {
				labels[base+col], _ = tree.Nearest(float64(g.XMin+col), y)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	p.metrics.observeSegmentation(len(labels))
	p.segmap = &SegMap{Grid: g, Labels: labels}
	return p.segmap, nil
}

// CellAreas counts the pixels of each node's cell, indexed by node. Pixels
// flagged in flags (which may be nil) are excluded, giving usable rather
// than geometric areas. The segmentation map is built if needed.
func (p *Partition) CellAreas(ctx context.Context, flags *FlagMap) ([]int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.hasGrid {
		return nil, fmt.Errorf("%w: set a pixel grid before computing cell areas", ErrPrecondition)
	}
	if flags != nil && flags.Grid() != p.grid {
		return nil, fmt.Errorf("%w: flag map grid %+v does not match pixel grid %+v", ErrInvalidInput, flags.Grid(), p.grid)
	}

	seg, err := p.segmentationMapLocked(ctx)
	if err != nil {
		if errors.Is(err, ErrPrecondition) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: segmentation map unavailable: %w", ErrState, err)
	}

	areas := make([]int, p.nodes.Len())
	for _, j := range seg.Labels {
		areas[j]++
	}
	if flags != nil {
		it := flags.rb.Iterator()
		for it.HasNext() {
			areas[seg.Labels[it.Next()]]--
		}
	}
	return areas, nil
}

// PartitionPoints returns the nearest node index of each query point using
// the partition's KD-tree. Ties resolve to the lowest node index, so the
// result matches a brute-force scan.
func (p *Partition) PartitionPoints(x, y []float64) ([]int, error) {
	if err := validatePositions(x, y); err != nil {
		return nil, err
	}
	p.mu.Lock()
	tree := p.tree
	p.mu.Unlock()

	out := make([]int, len(x))
	for i := range x {
		out[i], _ = tree.Nearest(x[i], y[i])
	}
	return out, nil
}
