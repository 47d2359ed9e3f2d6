package cvt

import (
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"
)

// FlagMap marks pixels of a PixelGrid as unusable. Flagged pixels are left
// out of cell areas. It stores pixel offsets in a roaring bitmap, so sparse
// and run-heavy masks stay small.
type FlagMap struct {
	grid PixelGrid
	rb   *roaring.Bitmap
}

// NewFlagMap returns an empty flag map over grid.
func NewFlagMap(grid PixelGrid) (*FlagMap, error) {
	if err := grid.Validate(); err != nil {
		return nil, err
	}
	return &FlagMap{grid: grid, rb: roaring.New()}, nil
}

// FlagMapFromMask builds a flag map from a row-major (y slow) boolean mask
// with one entry per pixel of grid; true means flagged.
func FlagMapFromMask(grid PixelGrid, mask []bool) (*FlagMap, error) {
	f, err := NewFlagMap(grid)
	if err != nil {
		return nil, err
	}
	if len(mask) != grid.Len() {
		return nil, fmt.Errorf("%w: mask has %d entries, grid has %d pixels", ErrInvalidInput, len(mask), grid.Len())
	}
	for off, flagged := range mask {
		if flagged {
			f.rb.Add(uint32(off))
		}
	}
	return f, nil
}

// Grid returns the grid the flag map covers.
func (f *FlagMap) Grid() PixelGrid { return f.grid }

// Flag marks pixel (x, y).
func (f *FlagMap) Flag(x, y int) error {
	if !f.grid.Contains(x, y) {
		return fmt.Errorf("%w: pixel (%d, %d) outside flag map grid", ErrInvalidInput, x, y)
	}
	f.rb.Add(uint32(f.grid.offset(x, y)))
	return nil
}

// Flagged reports whether pixel (x, y) is flagged. Pixels outside the grid
// are never flagged.
func (f *FlagMap) Flagged(x, y int) bool {
	return f.grid.Contains(x, y) && f.rb.Contains(uint32(f.grid.offset(x, y)))
}

// Count returns the number of flagged pixels.
func (f *FlagMap) Count() int {
	return int(f.rb.GetCardinality())
}
