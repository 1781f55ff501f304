package bvh

import "time"

// Build constructs the TLAS using the reference agglomerative algorithm:
// repeated nearest-neighbour-chain merges over the full active set. It is
// O(N^2) in the worst case but the chain invariant keeps it fast in
// practice; BuildFast trades this guarantee for parallelism.
func (t *TLAS) Build() error {
	start := time.Now()
	n := len(t.Instances)

	t.allocatePool()
	t.nodeIdx = make([]uint32, maxInt(n, 1))

	if n == 0 {
		t.stats = Stats{NodesUsed: int(t.NodesUsed), Duration: time.Since(start)}
		return nil
	}

	for i := 0; i < n; i++ {
		leaf := uint32(i + 1)
		t.Nodes[leaf].setBounds(t.Instances[i].Bounds)
		t.Nodes[leaf].LeftRight = 0
		t.Nodes[leaf].Blas = uint32(i)
		t.nodeIdx[i] = leaf
	}
	t.NodesUsed = uint32(n + 1)

	if n == 1 {
		t.Nodes[0] = t.Nodes[t.nodeIdx[0]]
		t.finishStats(start)
		return nil
	}

	nodeIndices := n
	a := 0
	b := t.findBestMatch(nodeIndices, a)
	for nodeIndices > 1 {
		c := t.findBestMatch(nodeIndices, b)
		if a == c {
			nodeA, nodeB := t.nodeIdx[a], t.nodeIdx[b]
			newIdx := t.NodesUsed
			t.NodesUsed++

			box := t.Nodes[nodeA].bounds()
			box.GrowAABB(t.Nodes[nodeB].bounds())
			t.Nodes[newIdx].setBounds(box)
			setChildren(&t.Nodes[newIdx], nodeA, nodeB)

			t.nodeIdx[a] = newIdx
			t.nodeIdx[b] = t.nodeIdx[nodeIndices-1]
			nodeIndices--
			if nodeIndices == 1 {
				break
			}
			b = t.findBestMatch(nodeIndices, a)
		} else {
			a, b = b, c
		}
	}

	t.Nodes[0] = t.Nodes[t.nodeIdx[0]]
	t.finishStats(start)
	return nil
}

func (t *TLAS) finishStats(start time.Time) {
	t.stats = Stats{
		NodesUsed: int(t.NodesUsed),
		Leaves:    len(t.Instances),
		Duration:  time.Since(start),
	}
	tlasLogger.Debugf("tlas build: %d instances, %d nodes, %v",
		len(t.Instances), t.stats.NodesUsed, t.stats.Duration)
}

// findBestMatch linearly scans the active set nodeIdx[0:count) and returns
// the index (into that active set, not the node pool) of the cluster whose
// merge with the cluster at position a scores lowest. Ties break to the
// lowest active-set index.
func (t *TLAS) findBestMatch(count, a int) int {
	best := -1
	var bestScore float32 = infinity
	boxA := t.Nodes[t.nodeIdx[a]].bounds()

	for i := 0; i < count; i++ {
		if i == a {
			continue
		}
		merged := boxA
		merged.GrowAABB(t.Nodes[t.nodeIdx[i]].bounds())
		score := merged.HalfArea()
		if score < bestScore {
			bestScore = score
			best = i
		}
	}
	return best
}
