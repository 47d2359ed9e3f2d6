package cvt

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSquaredDistance(t *testing.T) {
	tests := []struct {
		name           string
		ax, ay, bx, by float64
		want           float64
	}{
		{"same point", 1, 2, 1, 2, 0},
		{"3-4-5", 0, 0, 3, 4, 25},
		{"negative coords", -1, -1, 2, 3, 25},
		{"symmetric", 3, 4, 0, 0, 25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, squaredDistance(tt.ax, tt.ay, tt.bx, tt.by))
		})
	}
}

func TestCloser(t *testing.T) {
	assert.True(t, closer(1, 5, 2, 0), "smaller distance wins")
	assert.False(t, closer(2, 0, 1, 5), "larger distance loses")
	assert.True(t, closer(1, 2, 1, 3), "tie goes to lower index")
	assert.False(t, closer(1, 3, 1, 2), "tie with higher index loses")
	assert.True(t, closer(math.Inf(1), 4, math.Inf(1), -1), "anything beats no best")
}

func TestNearestBrute(t *testing.T) {
	xs := []float64{0, 10, 0, 10}
	ys := []float64{0, 0, 10, 10}

	idx, d := nearestBrute(xs, ys, 1, 1)
	assert.Equal(t, 0, idx)
	assert.Equal(t, 2.0, d)

	idx, _ = nearestBrute(xs, ys, 9, 8)
	assert.Equal(t, 3, idx)

	// Centre is equidistant from all four nodes.
	idx, d = nearestBrute(xs, ys, 5, 5)
	assert.Equal(t, 0, idx)
	assert.Equal(t, 50.0, d)

	// Midpoint of the right edge ties nodes 1 and 3.
	idx, _ = nearestBrute(xs, ys, 10, 5)
	assert.Equal(t, 1, idx)

	idx, d = nearestBrute(nil, nil, 0, 0)
	assert.Equal(t, -1, idx)
	assert.True(t, math.IsInf(d, 1))
}
