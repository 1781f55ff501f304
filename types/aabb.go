package types

import "math"

// Sentinel used to encode an empty AABB: Min = +inf, Max = -inf componentwise.
const Infinity float32 = 1e30

// AABB is an axis-aligned bounding box described by its min/max corners.
type AABB struct {
	Min Vec3
	Max Vec3
}

// EmptyAABB returns an AABB in the empty state (Min=+inf, Max=-inf), ready to
// be grown.
func EmptyAABB() AABB {
	return AABB{
		Min: Vec3{Infinity, Infinity, Infinity},
		Max: Vec3{-Infinity, -Infinity, -Infinity},
	}
}

// Grow extends the box to include p.
func (b *AABB) Grow(p Vec3) {
	b.Min = MinVec3(b.Min, p)
	b.Max = MaxVec3(b.Max, p)
}

// GrowAABB extends the box to include other.
func (b *AABB) GrowAABB(other AABB) {
	b.Min = MinVec3(b.Min, other.Min)
	b.Max = MaxVec3(b.Max, other.Max)
}

// Extent returns the box's side lengths.
func (b AABB) Extent() Vec3 {
	return b.Max.Sub(b.Min)
}

// Area returns the full surface area of the box.
func (b AABB) Area() float32 {
	e := b.Extent()
	return 2 * (e[0]*e[1] + e[1]*e[2] + e[2]*e[0])
}

// HalfArea returns e.x*e.y + e.y*e.z + e.z*e.x, the scoring term used
// consistently by SAH ranking and nearest-neighbour merge-cost scoring.
func (b AABB) HalfArea() float32 {
	e := b.Extent()
	if e[0] < 0 || e[1] < 0 || e[2] < 0 {
		// Empty box: half-area is defined as zero so empty siblings never
		// win a merge/split comparison by virtue of negative extents.
		return 0
	}
	return e[0]*e[1] + e[1]*e[2] + e[2]*e[0]
}

// Centroid returns the midpoint of the box.
func (b AABB) Centroid() Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// IsEmpty reports whether the box is still in its initial empty state.
func (b AABB) IsEmpty() bool {
	return b.Min[0] > b.Max[0] || b.Min[1] > b.Max[1] || b.Min[2] > b.Max[2]
}

// Corners returns the 8 corners of the box.
func (b AABB) Corners() [8]Vec3 {
	return [8]Vec3{
		{b.Min[0], b.Min[1], b.Min[2]},
		{b.Max[0], b.Min[1], b.Min[2]},
		{b.Min[0], b.Max[1], b.Min[2]},
		{b.Max[0], b.Max[1], b.Min[2]},
		{b.Min[0], b.Min[1], b.Max[2]},
		{b.Max[0], b.Min[1], b.Max[2]},
		{b.Min[0], b.Max[1], b.Max[2]},
		{b.Max[0], b.Max[1], b.Max[2]},
	}
}

// Transformed returns the (conservative) AABB obtained by transforming this
// box's 8 corners through m and re-fitting. This is deliberately not the
// same as transforming the box as a single primitive, which would grow
// looser with every successive transform update.
func (b AABB) Transformed(m Mat4) AABB {
	out := EmptyAABB()
	for _, c := range b.Corners() {
		out.Grow(TransformPoint(m, c))
	}
	return out
}

// MaxComponent returns the largest of the vector's 3 components.
func (v Vec3) MaxComponent() float32 {
	return float32(math.Max(float64(v[0]), math.Max(float64(v[1]), float64(v[2]))))
}
