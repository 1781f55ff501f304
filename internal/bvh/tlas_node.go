package bvh

import "github.com/Cem-Kaya/bvh-article-fork/types"

// maxTLASNodes bounds TLASNode.LeftRight's two 16-bit child-index halves.
const maxTLASNodes = 65535

// TLASNode is the 32-byte TLAS node layout: two Vec3s and two uint32s.
//
//	Leaf     (LeftRight == 0): Blas names the instance in this leaf.
//	Interior (LeftRight != 0): low 16 bits are the left child index, high 16
//	         bits are the right child index.
type TLASNode struct {
	AABBMin   types.Vec3
	LeftRight uint32
	AABBMax   types.Vec3
	Blas      uint32
}

func (n *TLASNode) isLeaf() bool { return n.LeftRight == 0 }

func (n *TLASNode) children() (left, right uint32) {
	return n.LeftRight & 0xffff, n.LeftRight >> 16
}

func setChildren(n *TLASNode, left, right uint32) {
	n.LeftRight = (left & 0xffff) | (right << 16)
}

func (n *TLASNode) bounds() types.AABB {
	return types.AABB{Min: n.AABBMin, Max: n.AABBMax}
}

func (n *TLASNode) setBounds(b types.AABB) {
	n.AABBMin = b.Min
	n.AABBMax = b.Max
}
