package cvt

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func randomNodes(rng *rand.Rand, m int, scale float64) NodeSet {
	nodes := NewNodeSet(m)
	for j := 0; j < m; j++ {
		nodes.X[j] = rng.Float64() * scale
		nodes.Y[j] = rng.Float64() * scale
	}
	return nodes
}

// --- Construction tests ---

func TestKDTree_Construction_BasicProperties(t *testing.T) {
	nodes := NodeSet{
		X: []float64{0, 1, 2, 0, 1, 2},
		Y: []float64{0, 0, 0, 3, 3, 3},
	}
	tree := NewKDTree(nodes, 2)

	assert.Equal(t, 6, tree.NumNodes())
	assert.GreaterOrEqual(t, tree.numNodes, 3)

	// idxArray should be a permutation of 0..n-1.
	require.Len(t, tree.idxArray, 6)
	seen := make(map[int]bool)
	for _, v := range tree.idxArray {
		require.True(t, v >= 0 && v < 6, "out-of-range index %d", v)
		require.False(t, seen[v], "duplicate index %d", v)
		seen[v] = true
	}
}

func TestKDTree_Construction_LeafSize1(t *testing.T) {
	nodes := NodeSet{X: []float64{0, 1, 2, 3}, Y: []float64{0, 1, 2, 3}}
	tree := NewKDTree(nodes, 1)

	for id := 0; id < len(tree.nodes); id++ {
		nd := tree.nodes[id]
		if nd.isLeaf {
			assert.Equal(t, 1, nd.idxEnd-nd.idxStart, "leaf %d", id)
		}
	}
	assert.Equal(t, 7, tree.numNodes)
}

func TestKDTree_Construction_LeafSizeLargerThanN(t *testing.T) {
	nodes := NodeSet{X: []float64{1, 3}, Y: []float64{2, 4}}
	tree := NewKDTree(nodes, 100)

	assert.Equal(t, 1, tree.numNodes)
	assert.True(t, tree.nodes[0].isLeaf)
}

func TestKDTree_Construction_DoesNotAliasInput(t *testing.T) {
	nodes := NodeSet{X: []float64{0, 10}, Y: []float64{0, 0}}
	tree := NewKDTree(nodes, 1)
	nodes.X[0] = 100

	idx, d := tree.Nearest(1, 0)
	assert.Equal(t, 0, idx)
	assert.Equal(t, 1.0, d)
}

func TestKDTree_Empty(t *testing.T) {
	tree := NewKDTree(NodeSet{}, 4)
	idx, _ := tree.Nearest(1, 1)
	assert.Equal(t, -1, idx)
}

// --- Nearest query tests ---

func TestKDTree_Nearest_BruteForceMatch(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	for _, m := range []int{1, 2, 5, 33, 200} {
		nodes := randomNodes(rng, m, 100)
		for _, leafSize := range []int{1, 3, 16} {
			tree := NewKDTree(nodes, leafSize)
			for q := 0; q < 300; q++ {
				x, y := rng.Float64()*120-10, rng.Float64()*120-10
				wantIdx, wantD := nearestBrute(nodes.X, nodes.Y, x, y)
				gotIdx, gotD := tree.Nearest(x, y)
				require.Equal(t, wantIdx, gotIdx, "m=%d leafSize=%d query=(%v, %v)", m, leafSize, x, y)
				require.Equal(t, wantD, gotD)
			}
		}
	}
}

func TestKDTree_Nearest_TiesGoToLowestIndex(t *testing.T) {
	// Integer lattice nodes, listed in a shuffled order so that tree order
	// and index order disagree. Queries at cell corners and edge midpoints
	// are equidistant from 2 or 4 nodes.
	rng := rand.New(rand.NewPCG(3, 5))
	var nodes NodeSet
	for _, k := range rng.Perm(36) {
		nodes.X = append(nodes.X, float64(k%6)*2)
		nodes.Y = append(nodes.Y, float64(k/6)*2)
	}

	for _, leafSize := range []int{1, 2, 4} {
		tree := NewKDTree(nodes, leafSize)
		for qx := -1; qx <= 11; qx++ {
			for qy := -1; qy <= 11; qy++ {
				wantIdx, _ := nearestBrute(nodes.X, nodes.Y, float64(qx), float64(qy))
				gotIdx, _ := tree.Nearest(float64(qx), float64(qy))
				assert.Equal(t, wantIdx, gotIdx, "leafSize=%d query=(%d, %d)", leafSize, qx, qy)
			}
		}
	}
}

func TestKDTree_Nearest_DuplicateNodes(t *testing.T) {
	// Several dead nodes parked at the sentinel.
	nodes := NodeSet{
		X: []float64{50, 0, 0, 0},
		Y: []float64{50, 0, 0, 0},
	}
	tree := NewKDTree(nodes, 1)

	idx, d := tree.Nearest(1, 1)
	assert.Equal(t, 1, idx)
	assert.Equal(t, 2.0, d)
}

func TestKDTree_MinRdistPoint_LowerBound(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	nodes := randomNodes(rng, 40, 10)
	tree := NewKDTree(nodes, 2)

	for q := 0; q < 50; q++ {
		x, y := rng.Float64()*14-2, rng.Float64()*14-2
		for id := 0; id < len(tree.nodes); id++ {
			nd := tree.nodes[id]
			if nd.idxEnd == nd.idxStart {
				continue
			}
			lb := tree.minRdistPoint(id, x, y)
			for i := nd.idxStart; i < nd.idxEnd; i++ {
				j := tree.idxArray[i]
				require.LessOrEqual(t, lb, squaredDistance(x, y, nodes.X[j], nodes.Y[j]))
			}
		}
	}
}
