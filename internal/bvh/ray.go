package bvh

import "github.com/Cem-Kaya/bvh-article-fork/types"

// Numeric constants fixed by the acceleration structure's wire format.
const (
	// infinity is the +inf sentinel used for "no hit" distances.
	infinity = types.Infinity

	// parallelRayEpsilon rejects a Moeller-Trumbore intersection whose
	// ray is (near) parallel to the triangle's plane.
	parallelRayEpsilon = 1e-5

	// nearHitEpsilon is the minimum accepted hit distance, avoiding
	// self-intersection at a triangle's own surface.
	nearHitEpsilon = 1e-4

	// primIndexBits is the width, in bits, of the primitive index packed
	// into instPrim; the remaining high bits hold the instance index.
	primIndexBits = 20

	// maxStackDepth bounds the explicit traversal stack; sufficient for
	// trees with up to about 2^32 triangles.
	maxStackDepth = 64
)

// Hit is the mutable closest-hit record carried by a Ray. T starts at
// +infinity and only ever decreases as closer intersections are found.
type Hit struct {
	T        float32
	U, V     float32
	InstPrim uint32
}

// packInstPrim encodes an (instance, primitive) pair the way the wire
// format requires: 20 bits of primitive index, then the instance index.
func packInstPrim(instanceIdx, primIdx uint32) uint32 {
	return (instanceIdx << primIndexBits) | primIdx
}

// UnpackInstPrim decodes an instPrim value back into instance and
// primitive indices.
func UnpackInstPrim(instPrim uint32) (instanceIdx, primIdx uint32) {
	return instPrim >> primIndexBits, instPrim & (1<<primIndexBits - 1)
}

// Ray is a traversal query: an origin, a direction (not required to be
// normalized) and its cached reciprocal, plus the single closest-hit
// record that traversal updates in place.
type Ray struct {
	O, D, RD types.Vec3
	Hit      Hit
}

// NewRay builds a ray with its hit record reset to "no hit yet".
func NewRay(origin, dir types.Vec3) *Ray {
	r := &Ray{O: origin, D: dir}
	r.RD = dir.Recip()
	r.Hit.T = infinity
	return r
}

// SetDirection updates D and RD together; callers must not write D
// directly, since RD would go stale and silently corrupt AABB slab tests.
func (r *Ray) SetDirection(dir types.Vec3) {
	r.D = dir
	r.RD = dir.Recip()
}

// Reset clears the hit record, allowing the ray to be reused for a new query.
func (r *Ray) Reset() {
	r.Hit = Hit{T: infinity}
}
