package bvh

import "github.com/Cem-Kaya/bvh-article-fork/types"

// BVHNode is the 32-byte BLAS node layout: two Vec3s and two uint32s, sized
// so a pair of siblings share one 64-byte cache line.
//
//	Leaf     (TriCount > 0): LeftFirst is the offset into TriIdx, TriCount
//	         primitives follow contiguously.
//	Interior (TriCount == 0): LeftFirst names the left child; the right
//	         child is always LeftFirst+1, since children are allocated in
//	         pairs.
type BVHNode struct {
	AABBMin   types.Vec3
	LeftFirst uint32
	AABBMax   types.Vec3
	TriCount  uint32
}

// IsLeaf reports whether the node is a leaf.
func (n *BVHNode) IsLeaf() bool {
	return n.TriCount > 0
}

func (n *BVHNode) bounds() types.AABB {
	return types.AABB{Min: n.AABBMin, Max: n.AABBMax}
}

func (n *BVHNode) setBounds(b types.AABB) {
	n.AABBMin = b.Min
	n.AABBMax = b.Max
}
