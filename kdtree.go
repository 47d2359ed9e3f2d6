package cvt

import (
	"math"
	"sort"
)

// KDTree is a 2-D KD-tree over node positions used for nearest-node
// queries. Nodes are reordered internally via an index permutation array;
// query results are always the caller's node indices.
//
// The tree is stored as a complete binary tree in array form:
//   - tree node i has children at 2*i+1 and 2*i+2
//   - bounding boxes are stored per tree node
type KDTree struct {
	xs, ys   []float64 // node coordinates (copied)
	n        int
	leafSize int
	idxArray []int      // permutation: tree-order position → node index
	nodes    []treeNode // one entry per tree node
	// bounds[4*node : 4*node+4] = minX, maxX, minY, maxY
	bounds   []float64
	numNodes int
}

// treeNode describes a single node of the KD-tree.
type treeNode struct {
	idxStart, idxEnd int
	isLeaf           bool
}

// NewKDTree builds a KD-tree over the given node set. leafSize controls
// the max nodes per leaf.
func NewKDTree(nodes NodeSet, leafSize int) *KDTree {
	if leafSize < 1 {
		leafSize = 1
	}
	n := nodes.Len()

	idxArray := make([]int, n)
	for i := range idxArray {
		idxArray[i] = i
	}

	maxNodes := kdMaxNodes(n, leafSize)
	c := nodes.Clone()
	t := &KDTree{
		xs:       c.X,
		ys:       c.Y,
		n:        n,
		leafSize: leafSize,
		idxArray: idxArray,
		nodes:    make([]treeNode, maxNodes),
		bounds:   make([]float64, 4*maxNodes),
	}

	if n > 0 {
		t.buildNode(0, 0, n)
	}
	return t
}

// kdMaxNodes returns an upper bound on the number of tree nodes needed for
// n points and the given leaf size.
func kdMaxNodes(n, leafSize int) int {
	if n == 0 {
		return 1
	}
	leaves := (n + leafSize - 1) / leafSize
	depth := 0
	v := 1
	for v < leaves {
		v *= 2
		depth++
	}
	return (1 << (depth + 1)) - 1 + 2
}

// buildNode recursively builds the tree for idxArray[start:end].
func (t *KDTree) buildNode(id, start, end int) {
	for id >= len(t.nodes) {
		t.nodes = append(t.nodes, treeNode{})
		t.bounds = append(t.bounds, 0, 0, 0, 0)
	}
	t.numNodes++
	t.computeBounds(id, start, end)

	count := end - start
	if count <= t.leafSize {
		t.nodes[id] = treeNode{idxStart: start, idxEnd: end, isLeaf: true}
		return
	}

	b := t.bounds[4*id : 4*id+4]
	coords := t.xs
	if b[3]-b[2] > b[1]-b[0] {
		coords = t.ys
	}
	sub := t.idxArray[start:end]
	sort.Slice(sub, func(i, j int) bool {
		return coords[sub[i]] < coords[sub[j]]
	})
	mid := start + count/2

	t.nodes[id] = treeNode{idxStart: start, idxEnd: end}
	t.buildNode(2*id+1, start, mid)
	t.buildNode(2*id+2, mid, end)
}

func (t *KDTree) computeBounds(id, start, end int) {
	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	for i := start; i < end; i++ {
		j := t.idxArray[i]
		minX = math.Min(minX, t.xs[j])
		maxX = math.Max(maxX, t.xs[j])
		minY = math.Min(minY, t.ys[j])
		maxY = math.Max(maxY, t.ys[j])
	}
	copy(t.bounds[4*id:], []float64{minX, maxX, minY, maxY})
}

// NumNodes returns the number of indexed generator nodes.
func (t *KDTree) NumNodes() int { return t.n }

// Nearest returns the index of the node closest to (x, y) and the squared
// distance to it. Exact ties resolve to the lowest node index, matching a
// brute-force scan. Returns -1 on an empty tree.
func (t *KDTree) Nearest(x, y float64) (int, float64) {
	best, bestD := -1, math.Inf(1)
	if t.n > 0 {
		t.nearestSearch(0, x, y, &best, &bestD)
	}
	return best, bestD
}

// nearestSearch descends nearer child first. A subtree is pruned only when
// its lower bound is strictly greater than the current best, so equidistant
// nodes with lower indices are still visited.
func (t *KDTree) nearestSearch(id int, x, y float64, best *int, bestD *float64) {
	node := t.nodes[id]
	if node.isLeaf {
		for i := node.idxStart; i < node.idxEnd; i++ {
			j := t.idxArray[i]
			d := squaredDistance(x, y, t.xs[j], t.ys[j])
			if closer(d, j, *bestD, *best) {
				*best, *bestD = j, d
			}
		}
		return
	}

	left, right := 2*id+1, 2*id+2
	leftRdist := t.minRdistPoint(left, x, y)
	rightRdist := t.minRdistPoint(right, x, y)

	near, far := left, right
	nearRdist, farRdist := leftRdist, rightRdist
	if rightRdist < leftRdist {
		near, far = right, left
		nearRdist, farRdist = rightRdist, leftRdist
	}

	if *best < 0 || nearRdist <= *bestD {
		t.nearestSearch(near, x, y, best, bestD)
	}
	if *best < 0 || farRdist <= *bestD {
		t.nearestSearch(far, x, y, best, bestD)
	}
}

// minRdistPoint returns a lower bound on the squared distance between
// (x, y) and any node inside the tree node's bounding box.
func (t *KDTree) minRdistPoint(id int, x, y float64) float64 {
	b := t.bounds[4*id : 4*id+4]
	var dx, dy float64
	if x < b[0] {
		dx = b[0] - x
	} else if x > b[1] {
		dx = x - b[1]
	}
	if y < b[2] {
		dy = b[2] - y
	} else if y > b[3] {
		dy = y - b[3]
	}
	return dx*dx + dy*dy
}
