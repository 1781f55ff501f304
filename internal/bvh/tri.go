package bvh

import "github.com/Cem-Kaya/bvh-article-fork/types"

// Tri is a single triangle primitive: three world-space vertex positions
// plus a cached centroid. The centroid is derived state; it is recomputed
// whenever a BLAS build starts and must never be trusted stale across a
// vertex mutation.
type Tri struct {
	V0, V1, V2 types.Vec3
	Centroid   types.Vec3
}

// RecomputeCentroid refreshes the cached centroid from the current vertices.
func (t *Tri) RecomputeCentroid() {
	t.Centroid = t.V0.Add(t.V1).Add(t.V2).Mul(1.0 / 3.0)
}

// MeshSource is the external collaborator that supplies triangle data to a
// BLAS build or refit. Implementations may mutate the returned slice's
// vertex positions between Build/Refit calls (e.g. to animate a mesh) but
// must not change its length without triggering a full rebuild.
type MeshSource interface {
	// Tris returns the mesh's triangles. The returned slice is shared, not
	// copied; the BLAS reads vertex positions from it on every build and
	// refit call.
	Tris() []Tri
}

// TriMesh is the minimal in-memory MeshSource implementation: a flat,
// mutable triangle slice. Loaders (e.g. the OBJ reader in package mesh)
// produce one of these.
type TriMesh struct {
	Triangles []Tri
}

// Tris implements MeshSource.
func (m *TriMesh) Tris() []Tri {
	return m.Triangles
}
