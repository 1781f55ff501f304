package bvh

import (
	"time"

	"github.com/Cem-Kaya/bvh-article-fork/log"
	"github.com/Cem-Kaya/bvh-article-fork/types"
)

// bins is the fixed number of SAH bins per axis used by FindBestSplitPlane.
// The spec requires at least 4; 8 matches the reference implementation.
const bins = 8

var blasLogger = log.New("bvh.blas")

// Stats reports build/refit timing and shape, returned instead of being
// printed, so callers can log, assert on, or ignore it as they see fit.
type Stats struct {
	NodesUsed int
	Leaves    int
	MaxDepth  int
	Duration  time.Duration
}

// bin accumulates the triangle count and vertex-fitted AABB for one SAH bin
// along one axis.
type bin struct {
	bounds types.AABB
	count  int
}

// BLAS is a bottom-level acceleration structure: a SAH-binned BVH built over
// one mesh's triangles. It owns its node pool and triangle-index
// permutation; it only references (does not own) the backing MeshSource.
type BLAS struct {
	mesh MeshSource

	Nodes     []BVHNode
	TriIdx    []uint32
	NodesUsed uint32

	stats Stats
}

// BuildBLAS constructs a BLAS from mesh via binned-SAH recursive
// subdivision. Triangle count must not exceed 2^20 (the packing width
// available in Ray.Hit.InstPrim); larger meshes are rejected up front
// rather than silently overflowing the packed identifier at traversal time.
func BuildBLAS(mesh MeshSource) (*BLAS, error) {
	tris := mesh.Tris()
	if len(tris) > 1<<primIndexBits {
		return nil, ErrTooManyTriangles
	}

	b := &BLAS{mesh: mesh}
	b.build()
	return b, nil
}

// build performs a full rebuild: resets the node pool and identity
// permutation, computes centroids and recursively subdivides.
func (b *BLAS) build() {
	start := time.Now()

	tris := b.mesh.Tris()
	n := len(tris)

	b.TriIdx = make([]uint32, n)
	for i := range b.TriIdx {
		b.TriIdx[i] = uint32(i)
	}
	for i := range tris {
		tris[i].RecomputeCentroid()
	}

	// Slots 0 and 1 are reserved: 0 is the root, 1 is padding so sibling
	// pairs always start on an even index. Allocation starts at 2.
	b.Nodes = make([]BVHNode, maxInt(2*n, 2))
	b.NodesUsed = 2

	root := &b.Nodes[0]
	root.LeftFirst = 0
	root.TriCount = uint32(n)
	b.updateNodeBounds(0)

	depth := 0
	if n > 0 {
		depth = b.subdivide(0, 1)
	}

	b.stats = Stats{
		NodesUsed: int(b.NodesUsed),
		Leaves:    countLeaves(b.Nodes[:b.NodesUsed]),
		MaxDepth:  depth,
		Duration:  time.Since(start),
	}
	blasLogger.Debugf("blas build: %d tris, %d nodes, %d leaves, depth %d, %v",
		n, b.stats.NodesUsed, b.stats.Leaves, b.stats.MaxDepth, b.stats.Duration)
}

// Stats returns the statistics captured by the most recent build or refit.
func (b *BLAS) Stats() Stats {
	return b.stats
}

// updateNodeBounds fits nodeIdx's AABB to the vertices of every triangle it
// currently references.
func (b *BLAS) updateNodeBounds(nodeIdx uint32) {
	node := &b.Nodes[nodeIdx]
	tris := b.mesh.Tris()
	box := types.EmptyAABB()
	first, count := node.LeftFirst, node.TriCount
	for i := uint32(0); i < count; i++ {
		tri := &tris[b.TriIdx[first+i]]
		box.Grow(tri.V0)
		box.Grow(tri.V1)
		box.Grow(tri.V2)
	}
	node.setBounds(box)
}

// subdivide recursively splits nodeIdx using the best SAH binned plane it
// can find, or leaves it as a leaf when no split improves on the no-split
// cost. Returns the max depth reached below (and including) nodeIdx.
func (b *BLAS) subdivide(nodeIdx uint32, depth int) int {
	node := &b.Nodes[nodeIdx]

	axis, splitPos, bestCost := b.findBestSplitPlane(node)

	noSplitCost := float32(node.TriCount) * node.bounds().HalfArea()
	if bestCost >= noSplitCost {
		return depth
	}

	tris := b.mesh.Tris()
	i := node.LeftFirst
	j := i + node.TriCount - 1
	for i <= j {
		if tris[b.TriIdx[i]].Centroid[axis] < splitPos {
			i++
		} else {
			b.TriIdx[i], b.TriIdx[j] = b.TriIdx[j], b.TriIdx[i]
			if j == 0 {
				break
			}
			j--
		}
	}

	leftCount := i - node.LeftFirst
	if leftCount == 0 || leftCount == node.TriCount {
		// Degenerate split: everything landed on one side. Keep as leaf.
		return depth
	}

	leftIdx := b.NodesUsed
	rightIdx := b.NodesUsed + 1
	b.NodesUsed += 2

	b.Nodes[leftIdx].LeftFirst = node.LeftFirst
	b.Nodes[leftIdx].TriCount = leftCount
	b.Nodes[rightIdx].LeftFirst = i
	b.Nodes[rightIdx].TriCount = node.TriCount - leftCount

	// node may be invalidated by growth of b.Nodes in future refactors, but
	// b.Nodes is pre-sized to 2*n up front so no reallocation occurs; it is
	// safe to keep using the pointer across the recursive calls below.
	node.LeftFirst = leftIdx
	node.TriCount = 0

	b.updateNodeBounds(leftIdx)
	b.updateNodeBounds(rightIdx)

	leftDepth := b.subdivide(leftIdx, depth+1)
	rightDepth := b.subdivide(rightIdx, depth+1)
	if rightDepth > leftDepth {
		return rightDepth
	}
	return leftDepth
}

// findBestSplitPlane evaluates the binned SAH cost for every axis and
// returns the best (axis, position, cost) triple found. An axis whose
// centroid span is degenerate (cmin == cmax) is skipped entirely.
func (b *BLAS) findBestSplitPlane(node *BVHNode) (bestAxis int, bestPos float32, bestCost float32) {
	tris := b.mesh.Tris()
	bestCost = infinity

	for axis := 0; axis < 3; axis++ {
		cmin, cmax := float32(infinity), float32(-infinity)
		for i := uint32(0); i < node.TriCount; i++ {
			c := tris[b.TriIdx[node.LeftFirst+i]].Centroid[axis]
			cmin = fmin32(cmin, c)
			cmax = fmax32(cmax, c)
		}
		if cmin == cmax {
			continue
		}

		var binSet [bins]bin
		for i := range binSet {
			binSet[i].bounds = types.EmptyAABB()
		}
		scale := float32(bins) / (cmax - cmin)
		for i := uint32(0); i < node.TriCount; i++ {
			tri := &tris[b.TriIdx[node.LeftFirst+i]]
			idx := clampBin(int((tri.Centroid[axis] - cmin) * scale))
			binSet[idx].count++
			binSet[idx].bounds.Grow(tri.V0)
			binSet[idx].bounds.Grow(tri.V1)
			binSet[idx].bounds.Grow(tri.V2)
		}

		var leftCount, rightCount [bins - 1]int
		var leftArea, rightArea [bins - 1]float32

		leftBox := types.EmptyAABB()
		leftSum := 0
		for i := 0; i < bins-1; i++ {
			leftSum += binSet[i].count
			leftCount[i] = leftSum
			leftBox.GrowAABB(binSet[i].bounds)
			leftArea[i] = leftBox.HalfArea()
		}

		rightBox := types.EmptyAABB()
		rightSum := 0
		for i := bins - 1; i > 0; i-- {
			rightSum += binSet[i].count
			rightCount[i-1] = rightSum
			rightBox.GrowAABB(binSet[i].bounds)
			rightArea[i-1] = rightBox.HalfArea()
		}

		step := (cmax - cmin) / bins
		for i := 0; i < bins-1; i++ {
			cost := float32(leftCount[i])*leftArea[i] + float32(rightCount[i])*rightArea[i]
			if cost < bestCost {
				bestCost = cost
				bestAxis = axis
				bestPos = cmin + float32(i+1)*step
			}
		}
	}

	return bestAxis, bestPos, bestCost
}

func clampBin(idx int) int {
	if idx < 0 {
		return 0
	}
	if idx > bins-1 {
		return bins - 1
	}
	return idx
}

func countLeaves(nodes []BVHNode) int {
	n := 0
	for i := range nodes {
		if i == 1 {
			continue // reserved padding slot
		}
		if nodes[i].IsLeaf() {
			n++
		}
	}
	return n
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
