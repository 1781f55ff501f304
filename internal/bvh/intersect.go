package bvh

import "github.com/Cem-Kaya/bvh-article-fork/types"

// intersectTri implements Moeller-Trumbore ray/triangle intersection. On a
// closer hit it overwrites ray.Hit; otherwise it leaves the ray untouched.
// See https://en.wikipedia.org/wiki/M%C3%B6ller%E2%80%93Trumbore_intersection_algorithm
func intersectTri(ray *Ray, tri *Tri, instPrim uint32) {
	edge1 := tri.V1.Sub(tri.V0)
	edge2 := tri.V2.Sub(tri.V0)
	h := ray.D.Cross(edge2)
	a := edge1.Dot(h)
	if a > -parallelRayEpsilon && a < parallelRayEpsilon {
		return // ray parallel to triangle plane
	}
	f := 1 / a
	s := ray.O.Sub(tri.V0)
	u := f * s.Dot(h)
	if u < 0 || u > 1 {
		return
	}
	q := s.Cross(edge1)
	v := f * ray.D.Dot(q)
	if v < 0 || u+v > 1 {
		return
	}
	t := f * edge2.Dot(q)
	if t > nearHitEpsilon && t < ray.Hit.T {
		ray.Hit.T = t
		ray.Hit.U = u
		ray.Hit.V = v
		ray.Hit.InstPrim = instPrim
	}
}

// intersectAABB is the scalar "slab test": intersects ray with the box
// [bmin,bmax] and returns the entry distance tmin, or the +infinity
// sentinel on a miss. Axis-aligned rays rely on IEEE +-Inf arithmetic from
// dividing by a zero direction component producing a correct empty or full
// slab; substituting a finite epsilon here would be wrong.
func intersectAABB(ray *Ray, bmin, bmax types.Vec3) float32 {
	tx1 := (bmin[0] - ray.O[0]) * ray.RD[0]
	tx2 := (bmax[0] - ray.O[0]) * ray.RD[0]
	tmin := fmin32(tx1, tx2)
	tmax := fmax32(tx1, tx2)

	ty1 := (bmin[1] - ray.O[1]) * ray.RD[1]
	ty2 := (bmax[1] - ray.O[1]) * ray.RD[1]
	tmin = fmax32(tmin, fmin32(ty1, ty2))
	tmax = fmin32(tmax, fmax32(ty1, ty2))

	tz1 := (bmin[2] - ray.O[2]) * ray.RD[2]
	tz2 := (bmax[2] - ray.O[2]) * ray.RD[2]
	tmin = fmax32(tmin, fmin32(tz1, tz2))
	tmax = fmin32(tmax, fmax32(tz1, tz2))

	if tmax >= tmin && tmin < ray.Hit.T && tmax > 0 {
		return tmin
	}
	return infinity
}

// intersectAABBVec is a vectorized-looking variant that processes all three
// axes through fixed-size arrays instead of scalar temporaries. It must stay
// bit-identical to intersectAABB for every input that reaches it; tests
// cross-validate both paths since the reference implementation's SIMD
// variant carries the same requirement.
func intersectAABBVec(ray *Ray, bmin, bmax types.Vec3) float32 {
	var t1, t2 [3]float32
	for axis := 0; axis < 3; axis++ {
		t1[axis] = (bmin[axis] - ray.O[axis]) * ray.RD[axis]
		t2[axis] = (bmax[axis] - ray.O[axis]) * ray.RD[axis]
	}

	tmin := fmin32(t1[0], t2[0])
	tmax := fmax32(t1[0], t2[0])
	for axis := 1; axis < 3; axis++ {
		tmin = fmax32(tmin, fmin32(t1[axis], t2[axis]))
		tmax = fmin32(tmax, fmax32(t1[axis], t2[axis]))
	}

	if tmax >= tmin && tmin < ray.Hit.T && tmax > 0 {
		return tmin
	}
	return infinity
}

func fmin32(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func fmax32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

func fabs32(a float32) float32 {
	return fmax32(a, -a)
}
