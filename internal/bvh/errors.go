package bvh

import "errors"

// Capacity and depth errors surfaced from build/refit/traversal entry points.
// Traversal itself is total (never fails, only misses); only the checked
// entry points below can return a non-nil error.
var (
	ErrTooManyTriangles = errors.New("bvh: mesh has more than 2^20 triangles")
	ErrTooManyInstances = errors.New("bvh: scene has more than 65535 instances")
	ErrStackOverflow    = errors.New("bvh: traversal stack overflow")

	// ErrNonUniformScale is returned by PlaceInstance when the requested
	// scale is not uniform across all three axes. Instance.Intersect copies
	// hit.t between world and local space unmodified, which is only exact
	// under a rigid or rigid+uniform-scale transform.
	ErrNonUniformScale = errors.New("bvh: instance scale must be uniform")
)
