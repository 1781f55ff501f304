package bvh

import (
	"sort"

	"github.com/Cem-Kaya/bvh-article-fork/types"
)

// kdLeafSize is the target number of entries per kd-tree leaf bucket. It is
// a soft limit: Add never re-splits a leaf, so leaves may grow past this
// as entries accumulate between rebuilds.
const kdLeafSize = 4

// kdEntry is one indexed point: a TLAS node index plus the AABB (of the
// TLAS leaf or cluster it names) used both for its centroid and for
// merge-cost scoring against a query.
type kdEntry struct {
	nodeIdx uint32
	box     types.AABB
}

// kdNode is one node of the kd-tree. Interior nodes carry a split axis and
// position; leaf nodes (left < 0) carry a bucket of entries. bounds always
// encloses every entry AABB reachable below the node, refitted (grown, not
// shrunk) as points are added — see KDTree.Add's doc comment for why a
// stale, wider-than-necessary bound is still safe.
type kdNode struct {
	bounds      types.AABB
	axis        int
	splitPos    float32
	left, right int32
	entries     []kdEntry
}

func (n *kdNode) isLeaf() bool { return n.left < 0 }

// KDTree is a dynamic 3-D index over TLAS node AABBs, used by the fast TLAS
// build to answer nearest-neighbour merge queries without an O(N) scan.
type KDTree struct {
	nodes []kdNode
	root  int32

	// locate maps a TLAS node index to the tree-node index of the leaf
	// bucket currently holding its entry, for O(1) removeLeaf lookups.
	locate map[uint32]int32
}

// NewKDTree builds an index over the given (TLAS node index, AABB) pairs.
func NewKDTree(nodeIdx []uint32, boxes []types.AABB) *KDTree {
	t := &KDTree{locate: make(map[uint32]int32, len(nodeIdx))}
	entries := make([]kdEntry, len(nodeIdx))
	for i := range nodeIdx {
		entries[i] = kdEntry{nodeIdx: nodeIdx[i], box: boxes[i]}
	}
	t.root = t.buildRange(entries)
	return t
}

// buildRange recursively median-splits entries along the widest axis of
// their centroid bounds, bottoming out in a leaf once len(entries) <=
// kdLeafSize.
func (t *KDTree) buildRange(entries []kdEntry) int32 {
	idx := int32(len(t.nodes))
	t.nodes = append(t.nodes, kdNode{left: -1, right: -1})

	bounds := types.EmptyAABB()
	centroidBounds := types.EmptyAABB()
	for _, e := range entries {
		bounds.GrowAABB(e.box)
		centroidBounds.Grow(e.box.Centroid())
	}

	if len(entries) <= kdLeafSize {
		for _, e := range entries {
			t.locate[e.nodeIdx] = idx
		}
		t.nodes[idx].bounds = bounds
		t.nodes[idx].entries = append([]kdEntry(nil), entries...)
		return idx
	}

	ext := centroidBounds.Extent()
	axis := 0
	if ext[1] > ext[axis] {
		axis = 1
	}
	if ext[2] > ext[axis] {
		axis = 2
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].box.Centroid()[axis] < entries[j].box.Centroid()[axis]
	})
	mid := len(entries) / 2
	splitPos := entries[mid].box.Centroid()[axis]

	left := t.buildRange(entries[:mid])
	right := t.buildRange(entries[mid:])

	t.nodes[idx].bounds = bounds
	t.nodes[idx].axis = axis
	t.nodes[idx].splitPos = splitPos
	t.nodes[idx].left = left
	t.nodes[idx].right = right
	return idx
}

// Add inserts a new point, descending the existing split planes to find its
// leaf bucket and growing every ancestor's bound along the way. Growing
// (never shrinking) ancestor bounds on insert is required for correctness:
// FindNearest's pruning treats a node's bound as an enclosure of everything
// below it, and that must never become a false statement.
func (t *KDTree) Add(nodeIdx uint32, box types.AABB) {
	if t.root < 0 {
		t.root = t.buildRange([]kdEntry{{nodeIdx: nodeIdx, box: box}})
		return
	}

	cur := t.root
	for {
		t.nodes[cur].bounds.GrowAABB(box)
		if t.nodes[cur].isLeaf() {
			t.nodes[cur].entries = append(t.nodes[cur].entries, kdEntry{nodeIdx: nodeIdx, box: box})
			t.locate[nodeIdx] = cur
			return
		}
		if box.Centroid()[t.nodes[cur].axis] < t.nodes[cur].splitPos {
			cur = t.nodes[cur].left
		} else {
			cur = t.nodes[cur].right
		}
	}
}

// RemoveLeaf deletes the entry for nodeIdx. It does not shrink ancestor
// bounds: a bound that stays wider than strictly necessary is still a valid
// (merely less tight) lower bound for pruning, so correctness is preserved
// and no path-refit pass is required.
func (t *KDTree) RemoveLeaf(nodeIdx uint32) {
	leaf, ok := t.locate[nodeIdx]
	if !ok {
		return
	}
	entries := t.nodes[leaf].entries
	for i, e := range entries {
		if e.nodeIdx == nodeIdx {
			entries[i] = entries[len(entries)-1]
			t.nodes[leaf].entries = entries[:len(entries)-1]
			break
		}
	}
	delete(t.locate, nodeIdx)
}

// FindNearest returns the entry minimising the half-surface-area of its
// AABB merged with query, excluding exclude (the querying cluster itself,
// which is still present in the tree at query time). bestSoFar/saSoFar seed
// the search with an initial candidate and pruning bound; pass
// (invalidNodeIdx, +infinity) to search from scratch.
func (t *KDTree) FindNearest(query types.AABB, exclude uint32, bestSoFar uint32, saSoFar float32) (uint32, float32) {
	best, bestScore := bestSoFar, saSoFar
	if t.root >= 0 {
		t.search(t.root, query, exclude, &best, &bestScore)
	}
	return best, bestScore
}

func (t *KDTree) search(idx int32, query types.AABB, exclude uint32, best *uint32, bestScore *float32) {
	node := &t.nodes[idx]
	if lowerBoundMergeHalfArea(query, node.bounds) > *bestScore {
		return
	}

	if node.isLeaf() {
		for _, e := range node.entries {
			if e.nodeIdx == exclude {
				continue
			}
			merged := query
			merged.GrowAABB(e.box)
			score := merged.HalfArea()
			if score < *bestScore || (score == *bestScore && e.nodeIdx < *best) {
				*bestScore = score
				*best = e.nodeIdx
			}
		}
		return
	}

	t.search(node.left, query, exclude, best, bestScore)
	t.search(node.right, query, exclude, best, bestScore)
}

// lowerBoundMergeHalfArea computes a conservative lower bound on the
// half-area of merge(query, C) for any box C contained in cell. Each axis's
// extent is minimised independently (query's own extent, plus any gap that
// must be bridged to reach cell at all), which under-estimates but never
// over-estimates the true merged extent on that axis; since the half-area
// formula is a sum of products of non-negative extents, using per-axis
// lower bounds yields a valid lower bound on the whole expression.
func lowerBoundMergeHalfArea(query, cell types.AABB) float32 {
	var ext [3]float32
	for a := 0; a < 3; a++ {
		gap := fmax32(0, fmax32(cell.Min[a]-query.Max[a], query.Min[a]-cell.Max[a]))
		ext[a] = (query.Max[a] - query.Min[a]) + gap
	}
	return ext[0]*ext[1] + ext[1]*ext[2] + ext[2]*ext[0]
}
