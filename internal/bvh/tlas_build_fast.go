package bvh

import (
	"sort"
	"sync"
	"time"

	"github.com/Cem-Kaya/bvh-article-fork/types"
)

// invalidNodeIdx never matches a real TLAS node index; it seeds
// KDTree.FindNearest when there is no prior candidate to beat.
const invalidNodeIdx = ^uint32(0)

// BuildFast constructs the TLAS using sorted pre-splitting into `workers`
// disjoint groups, each agglomerated in parallel with its own kD-tree
// nearest-neighbour index, followed by a sequential join of the group
// roots. workers is rounded down to the nearest power of two not exceeding
// the instance count (minimum 1); a non-power-of-two request still runs,
// just with less parallelism than asked for, rather than failing outright.
//
// Determinism: given the same instance ordering and worker count, the
// result is byte-identical across runs. Changing the worker count changes
// the grouping and is not guaranteed to reproduce the same tree.
func (t *TLAS) BuildFast(workers int) error {
	start := time.Now()
	n := len(t.Instances)

	if n == 0 {
		t.allocatePool()
		t.stats = Stats{NodesUsed: int(t.NodesUsed), Duration: time.Since(start)}
		return nil
	}

	workers = largestPowerOfTwoAtMost(workers, n)
	if workers == 1 {
		return t.buildFastSingleWorker(start)
	}

	dominant := t.dominantAxis()
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(i, j int) bool {
		return t.Instances[order[i]].Bounds.Centroid()[dominant] < t.Instances[order[j]].Bounds.Centroid()[dominant]
	})

	groups := splitGroups(order, workers)

	// Node-pool layout: slot 0 is the final root; slots 1..workers are
	// reserved group-root slots so each worker's finished cluster can land
	// in a fixed location without coordinating with the others; each
	// group then gets a contiguous region sized for a full binary
	// agglomeration of its own leaves.
	regionStart := make([]uint32, workers)
	next := uint32(1 + workers)
	for g, group := range groups {
		regionStart[g] = next
		next += uint32(2 * len(group))
	}
	joinNodes := uint32(workers - 1)
	t.Nodes = make([]TLASNode, next+joinNodes+1)

	var wg sync.WaitGroup
	wg.Add(workers)
	for g := 0; g < workers; g++ {
		g := g
		go func() {
			defer wg.Done()
			root := t.buildGroupChain(groups[g], regionStart[g])
			t.Nodes[1+g] = t.Nodes[root]
		}()
	}
	wg.Wait()

	nextAlloc := next
	roots := make([]uint32, workers)
	for g := range roots {
		roots[g] = uint32(1 + g)
	}
	for len(roots) > 1 {
		parents := make([]uint32, len(roots)/2)
		for i := 0; i < len(roots); i += 2 {
			parent := nextAlloc
			nextAlloc++
			box := t.Nodes[roots[i]].bounds()
			box.GrowAABB(t.Nodes[roots[i+1]].bounds())
			t.Nodes[parent].setBounds(box)
			setChildren(&t.Nodes[parent], roots[i], roots[i+1])
			parents[i/2] = parent
		}
		roots = parents
	}

	t.Nodes[0] = t.Nodes[roots[0]]
	t.NodesUsed = nextAlloc
	t.finishStats(start)
	return nil
}

// buildFastSingleWorker handles the workers==1 degenerate case by running
// one group over every instance, skipping the sort/split/join machinery.
func (t *TLAS) buildFastSingleWorker(start time.Time) error {
	n := len(t.Instances)
	t.Nodes = make([]TLASNode, maxInt(2*n+2, 2))
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	root := t.buildGroupChain(order, 1)
	t.Nodes[0] = t.Nodes[root]
	t.NodesUsed = uint32(1 + 2*n)
	t.finishStats(start)
	return nil
}

// buildGroupChain runs the nearest-neighbour-chain agglomeration of
// SPEC_FULL.md §4.7 over one group's instances, backed by a per-group
// kD-tree instead of a linear scan, writing nodes into the contiguous
// region [regionStart, regionStart+2*len(group)). It returns the node
// index of the group's single remaining cluster.
func (t *TLAS) buildGroupChain(instanceIdxs []int, regionStart uint32) uint32 {
	gSize := len(instanceIdxs)
	leafIdx := make([]uint32, gSize)
	boxes := make([]types.AABB, gSize)
	for i, instIdx := range instanceIdxs {
		leaf := regionStart + uint32(i)
		box := t.Instances[instIdx].Bounds
		t.Nodes[leaf].setBounds(box)
		t.Nodes[leaf].LeftRight = 0
		t.Nodes[leaf].Blas = uint32(instIdx)
		leafIdx[i] = leaf
		boxes[i] = box
	}
	if gSize == 1 {
		return leafIdx[0]
	}

	kd := NewKDTree(leafIdx, boxes)
	nextAlloc := regionStart + uint32(gSize)

	a := leafIdx[0]
	b, _ := kd.FindNearest(t.Nodes[a].bounds(), a, invalidNodeIdx, infinity)
	remaining := gSize
	for remaining > 1 {
		boxB := t.Nodes[b].bounds()
		c, _ := kd.FindNearest(boxB, b, invalidNodeIdx, infinity)
		if c == a {
			newIdx := nextAlloc
			nextAlloc++
			box := t.Nodes[a].bounds()
			box.GrowAABB(t.Nodes[b].bounds())
			t.Nodes[newIdx].setBounds(box)
			setChildren(&t.Nodes[newIdx], a, b)

			kd.RemoveLeaf(a)
			kd.RemoveLeaf(b)
			kd.Add(newIdx, box)

			remaining--
			a = newIdx
			if remaining == 1 {
				break
			}
			b, _ = kd.FindNearest(box, a, invalidNodeIdx, infinity)
		} else {
			a, b = b, c
		}
	}
	return a
}

// dominantAxis returns the axis (0,1,2) along which the union of all
// instance bounds is widest.
func (t *TLAS) dominantAxis() int {
	total := types.EmptyAABB()
	for _, inst := range t.Instances {
		total.GrowAABB(inst.Bounds)
	}
	ext := total.Extent()
	axis := 0
	if ext[1] > ext[axis] {
		axis = 1
	}
	if ext[2] > ext[axis] {
		axis = 2
	}
	return axis
}

// splitGroups recursively halves idxs into `workers` contiguous, balanced
// groups, preserving the sorted order within and across groups.
func splitGroups(idxs []int, workers int) [][]int {
	if workers <= 1 {
		return [][]int{idxs}
	}
	mid := len(idxs) / 2
	left := splitGroups(idxs[:mid], workers/2)
	right := splitGroups(idxs[mid:], workers/2)
	return append(left, right...)
}

// largestPowerOfTwoAtMost clamps workers to a power of two no greater than
// n (and at least 1), so a small instance count never produces empty groups.
func largestPowerOfTwoAtMost(workers, n int) int {
	if workers < 1 {
		workers = 1
	}
	p := 1
	for p*2 <= workers && p*2 <= n {
		p *= 2
	}
	return p
}
