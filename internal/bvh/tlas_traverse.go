package bvh

// Intersect traverses the TLAS with ray. Leaves delegate to the referenced
// instance's Intersect (which transforms the ray into BLAS-local space);
// interior nodes decode their two children from LeftRight's 16-bit halves.
// An empty TLAS (no instances) is a no-op, matching the core's total
// traversal guarantee.
func (t *TLAS) Intersect(ray *Ray) {
	if len(t.Instances) == 0 {
		return
	}

	var stack [maxStackDepth]uint32
	stackPtr := 0

	nodeIdx := uint32(0)
	for {
		node := &t.Nodes[nodeIdx]
		if node.isLeaf() {
			t.Instances[node.Blas].Intersect(ray)
			if stackPtr == 0 {
				return
			}
			stackPtr--
			nodeIdx = stack[stackPtr]
			continue
		}

		leftIdx, rightIdx := node.children()
		left := &t.Nodes[leftIdx]
		right := &t.Nodes[rightIdx]

		distLeft := intersectAABB(ray, left.AABBMin, left.AABBMax)
		distRight := intersectAABB(ray, right.AABBMin, right.AABBMax)

		if distLeft > distRight {
			leftIdx, rightIdx = rightIdx, leftIdx
			distLeft, distRight = distRight, distLeft
		}

		if distLeft == infinity {
			if stackPtr == 0 {
				return
			}
			stackPtr--
			nodeIdx = stack[stackPtr]
			continue
		}

		nodeIdx = leftIdx
		if distRight != infinity && distRight < ray.Hit.T {
			if stackPtr == maxStackDepth {
				continue
			}
			stack[stackPtr] = rightIdx
			stackPtr++
		}
	}
}
