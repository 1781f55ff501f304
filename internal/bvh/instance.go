package bvh

import "github.com/Cem-Kaya/bvh-article-fork/types"

// Instance places a BLAS in world space via an affine transform. It does
// not own the BLAS it references; multiple instances may share one BLAS
// (e.g. instanced geometry).
//
// The design assumes Transform is rigid or rigid+uniform-scale: hit.t is
// computed in the BLAS's local space and copied back to the world-space ray
// unmodified, which is only exact when the transform preserves distances
// along a ray. Non-uniform scaling is a known limitation, matching the
// reference implementation.
type Instance struct {
	Blas      *BLAS
	Idx       uint32
	Transform types.Mat4
	invT      types.Mat4
	Bounds    types.AABB
}

// NewInstance creates an instance referencing blas with the identity
// transform and idx as its packed instance index.
func NewInstance(blas *BLAS, idx uint32) *Instance {
	inst := &Instance{Blas: blas, Idx: idx}
	inst.SetTransform(types.Ident4())
	return inst
}

// SetTransform stores t and its inverse, then recomputes the world-space
// AABB by transforming the 8 corners of the BLAS root AABB and re-fitting.
// Transforming the corners (rather than the box as a single primitive) is a
// single conservative re-computation; naively transforming an already
// transformed box would grow looser after every update.
func (inst *Instance) SetTransform(t types.Mat4) {
	inst.Transform = t
	inst.invT = types.Invert4(t)

	root := inst.Blas.Nodes[0].bounds()
	inst.Bounds = root.Transformed(t)
}

// uniformScaleEpsilon is how far a scale component may drift from the
// vector's largest component before PlaceInstance rejects it as non-uniform.
const uniformScaleEpsilon = 1e-4

// PlaceInstance builds an instance referencing blas at world position
// translate, rotated by angle radians around axis and scaled uniformly by
// scale, rejecting any scale that is not in fact uniform. The matrix is the
// product translate*rotate*scale, so a point is scaled first, then rotated,
// then translated.
func PlaceInstance(blas *BLAS, idx uint32, translate, axis types.Vec3, angle float32, scale types.Vec3) (*Instance, error) {
	maxComp := scale.MaxComponent()
	for i := 0; i < 3; i++ {
		if fabs32(scale[i]-maxComp) > uniformScaleEpsilon {
			return nil, ErrNonUniformScale
		}
	}

	t := types.Translate4(translate).Mul4(types.Rotate4(axis, angle)).Mul4(types.Scale4(scale))

	inst := NewInstance(blas, idx)
	inst.SetTransform(t)
	return inst, nil
}

// Intersect transforms ray into the instance's local space, traverses the
// referenced BLAS, then copies the resulting hit back onto the caller's
// ray. hit.T is unaffected by the round trip because the transform is
// affine and (by the class invariant above) distance-preserving.
func (inst *Instance) Intersect(ray *Ray) {
	originalO, originalD, originalRD := ray.O, ray.D, ray.RD

	ray.O = types.TransformPoint(inst.invT, originalO)
	localD := types.TransformVector(inst.invT, originalD)
	ray.D = localD
	ray.RD = localD.Recip()

	inst.Blas.Intersect(ray, inst.Idx)

	ray.O, ray.D, ray.RD = originalO, originalD, originalRD
}
