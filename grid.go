package cvt

import (
	"fmt"
	"math"
)

// PixelGrid is an integer pixel bounding box with half-open ranges
// [XMin, XMax) and [YMin, YMax), in the same frame as node positions.
// Pixel centres sit on integer coordinates.
type PixelGrid struct {
	XMin, XMax int
	YMin, YMax int
}

// ImageGrid returns the grid of an image with naxis1 columns and naxis2
// rows using the 1-based FITS pixel convention.
func ImageGrid(naxis1, naxis2 int) PixelGrid {
	return PixelGrid{XMin: 1, XMax: naxis1 + 1, YMin: 1, YMax: naxis2 + 1}
}

func (g PixelGrid) Width() int  { return g.XMax - g.XMin }
func (g PixelGrid) Height() int { return g.YMax - g.YMin }

// Len returns the number of pixels.
func (g PixelGrid) Len() int { return g.Width() * g.Height() }

// Contains reports whether pixel (x, y) lies inside the grid.
func (g PixelGrid) Contains(x, y int) bool {
	return x >= g.XMin && x < g.XMax && y >= g.YMin && y < g.YMax
}

// offset is the row-major (y slow) position of pixel (x, y).
func (g PixelGrid) offset(x, y int) int {
	return (y-g.YMin)*g.Width() + (x - g.XMin)
}

// Validate rejects empty grids and grids too large to index with uint32.
func (g PixelGrid) Validate() error {
	if g.Width() <= 0 || g.Height() <= 0 {
		return fmt.Errorf("%w: pixel grid x=[%d,%d) y=[%d,%d) is empty", ErrInvalidInput, g.XMin, g.XMax, g.YMin, g.YMax)
	}
	if uint64(g.Width()) > math.MaxUint32/uint64(g.Height()) {
		return fmt.Errorf("%w: pixel grid %dx%d exceeds %d pixels", ErrInvalidInput, g.Width(), g.Height(), uint64(math.MaxUint32))
	}
	return nil
}

// SegMap is a segmentation map: the nearest node index of every pixel
// centre, stored row-major with y as the slow axis.
type SegMap struct {
	Grid   PixelGrid
	Labels []int
}

// At returns the node index of pixel (x, y), or -1 outside the grid.
func (s *SegMap) At(x, y int) int {
	if !s.Grid.Contains(x, y) {
		return -1
	}
	return s.Labels[s.Grid.offset(x, y)]
}
