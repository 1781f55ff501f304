package types

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Mat3 is a 3x3 matrix stored column-major, matching mgl32's convention.
type Mat3 = mgl32.Mat3

// Mat4 is a 4x4 affine matrix stored column-major. Construction and inversion
// are delegated to go-gl/mathgl, the same library the Quat type borrows its
// rotation-matrix conversion from.
type Mat4 = mgl32.Mat4

// Ident4 returns the 4x4 identity matrix.
func Ident4() Mat4 {
	return mgl32.Ident4()
}

// Translate4 builds a translation-only affine matrix.
func Translate4(t Vec3) Mat4 {
	return mgl32.Translate3D(t[0], t[1], t[2])
}

// Scale4 builds a uniform or non-uniform scale affine matrix.
func Scale4(s Vec3) Mat4 {
	return mgl32.Scale3D(s[0], s[1], s[2])
}

// Rotate4 builds a rotation-only affine matrix from an axis and an angle in
// radians, via the same quaternion-to-matrix conversion Quat.Mat4 uses.
func Rotate4(axis Vec3, angle float32) Mat4 {
	return QuatFromAxisAngle(axis, angle).Mat4()
}

// Invert4 returns the inverse of m. Callers must ensure m is non-singular;
// non-affine (non-invertible) transforms are out of scope.
func Invert4(m Mat4) Mat4 {
	return m.Inv()
}

// TransformPoint applies the affine transform m to a point p, including translation.
func TransformPoint(m Mat4, p Vec3) Vec3 {
	v4 := m.Mul4x1(mgl32.Vec4{p[0], p[1], p[2], 1})
	return Vec3{v4[0], v4[1], v4[2]}
}

// TransformVector applies the linear part of the affine transform m to a
// vector v, discarding translation.
func TransformVector(m Mat4, v Vec3) Vec3 {
	v4 := m.Mul4x1(mgl32.Vec4{v[0], v[1], v[2], 0})
	return Vec3{v4[0], v4[1], v4[2]}
}
