package bvh

import "time"

// Refit re-fits every node's AABB to the mesh's current vertex positions
// without changing tree topology (TriIdx and every node's LeftFirst/TriCount
// stay untouched). It requires that the mesh's triangle count and
// triangle-to-leaf assignment from the last Build are still valid; only
// vertex positions may have changed (e.g. skeletal animation).
func (b *BLAS) Refit() error {
	if len(b.mesh.Tris()) == 0 {
		return nil
	}

	start := time.Now()

	// Children are always allocated after their parent, so walking the pool
	// backwards guarantees a leaf or interior node's children are already
	// up to date by the time the node itself is processed.
	for i := int(b.NodesUsed) - 1; i >= 0; i-- {
		if i == 1 {
			continue // reserved padding slot
		}
		node := &b.Nodes[i]
		if node.IsLeaf() {
			b.updateNodeBounds(uint32(i))
			continue
		}
		left := &b.Nodes[node.LeftFirst]
		right := &b.Nodes[node.LeftFirst+1]
		box := left.bounds()
		box.GrowAABB(right.bounds())
		node.setBounds(box)
	}

	b.stats.Duration = time.Since(start)
	blasLogger.Debugf("blas refit: %d nodes, %v", b.NodesUsed, b.stats.Duration)
	return nil
}
