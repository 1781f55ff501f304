package bvh

import (
	"testing"

	"github.com/Cem-Kaya/bvh-article-fork/types"
)

func unitTriangle() Tri {
	return Tri{
		V0: types.Vec3{0, 0, 0},
		V1: types.Vec3{1, 0, 0},
		V2: types.Vec3{0, 1, 0},
	}
}

// gridMesh returns n*n disjoint unit triangles laid out on a grid, spaced
// far enough apart that SAH binning is forced to split them.
func gridMesh(n int) *TriMesh {
	tris := make([]Tri, 0, n*n)
	for x := 0; x < n; x++ {
		for z := 0; z < n; z++ {
			off := types.Vec3{float32(x) * 10, 0, float32(z) * 10}
			tris = append(tris, Tri{
				V0: off.Add(types.Vec3{0, 0, 0}),
				V1: off.Add(types.Vec3{1, 0, 0}),
				V2: off.Add(types.Vec3{0, 1, 0}),
			})
		}
	}
	return &TriMesh{Triangles: tris}
}

func TestBuildBLASSingleTriangleIsOneLeaf(t *testing.T) {
	mesh := &TriMesh{Triangles: []Tri{unitTriangle()}}
	blas, err := BuildBLAS(mesh)
	if err != nil {
		t.Fatalf("BuildBLAS: %v", err)
	}
	if !blas.Nodes[0].IsLeaf() {
		t.Fatalf("expected single-triangle BLAS root to be a leaf")
	}
	if blas.Nodes[0].TriCount != 1 {
		t.Fatalf("expected root TriCount 1, got %d", blas.Nodes[0].TriCount)
	}
}

func TestBuildBLASRejectsTooManyTriangles(t *testing.T) {
	mesh := &TriMesh{Triangles: make([]Tri, 1<<primIndexBits+1)}
	for i := range mesh.Triangles {
		mesh.Triangles[i] = unitTriangle()
	}
	_, err := BuildBLAS(mesh)
	if err != ErrTooManyTriangles {
		t.Fatalf("expected ErrTooManyTriangles, got %v", err)
	}
}

func TestBuildBLASEmptyMesh(t *testing.T) {
	blas, err := BuildBLAS(&TriMesh{})
	if err != nil {
		t.Fatalf("BuildBLAS on empty mesh: %v", err)
	}
	if blas.Nodes[0].TriCount != 0 {
		t.Fatalf("expected empty-mesh root TriCount 0, got %d", blas.Nodes[0].TriCount)
	}
}

// TestBuildBLASTriIdxIsPermutation checks the invariant that TriIdx is always
// a permutation of [0, n) after a build, regardless of how subdivision
// reorders it.
func TestBuildBLASTriIdxIsPermutation(t *testing.T) {
	mesh := gridMesh(4)
	blas, err := BuildBLAS(mesh)
	if err != nil {
		t.Fatalf("BuildBLAS: %v", err)
	}

	seen := make(map[uint32]bool, len(blas.TriIdx))
	for _, idx := range blas.TriIdx {
		if seen[idx] {
			t.Fatalf("triangle index %d appears more than once in TriIdx", idx)
		}
		seen[idx] = true
	}
	if len(seen) != len(mesh.Triangles) {
		t.Fatalf("expected TriIdx to cover %d triangles, covered %d", len(mesh.Triangles), len(seen))
	}
}

// TestBuildBLASBoundsEncloseChildren checks that every interior node's AABB
// encloses both of its children's AABBs.
func TestBuildBLASBoundsEncloseChildren(t *testing.T) {
	mesh := gridMesh(5)
	blas, err := BuildBLAS(mesh)
	if err != nil {
		t.Fatalf("BuildBLAS: %v", err)
	}

	for i := uint32(0); i < blas.NodesUsed; i++ {
		if i == 1 {
			continue
		}
		node := &blas.Nodes[i]
		if node.IsLeaf() {
			continue
		}
		parent := node.bounds()
		left := blas.Nodes[node.LeftFirst].bounds()
		right := blas.Nodes[node.LeftFirst+1].bounds()
		if !encloses(parent, left) {
			t.Fatalf("node %d does not enclose its left child", i)
		}
		if !encloses(parent, right) {
			t.Fatalf("node %d does not enclose its right child", i)
		}
	}
}

func encloses(outer, inner types.AABB) bool {
	const eps = 1e-3
	for a := 0; a < 3; a++ {
		if inner.Min[a] < outer.Min[a]-eps || inner.Max[a] > outer.Max[a]+eps {
			return false
		}
	}
	return true
}

func TestBLASRefitPreservesTopologyAfterTranslation(t *testing.T) {
	mesh := gridMesh(4)
	blas, err := BuildBLAS(mesh)
	if err != nil {
		t.Fatalf("BuildBLAS: %v", err)
	}

	beforeLeftFirst := make([]uint32, blas.NodesUsed)
	beforeTriCount := make([]uint32, blas.NodesUsed)
	for i := range beforeLeftFirst {
		beforeLeftFirst[i] = blas.Nodes[i].LeftFirst
		beforeTriCount[i] = blas.Nodes[i].TriCount
	}

	offset := types.Vec3{100, 0, 0}
	for i := range mesh.Triangles {
		mesh.Triangles[i].V0 = mesh.Triangles[i].V0.Add(offset)
		mesh.Triangles[i].V1 = mesh.Triangles[i].V1.Add(offset)
		mesh.Triangles[i].V2 = mesh.Triangles[i].V2.Add(offset)
	}
	if err := blas.Refit(); err != nil {
		t.Fatalf("Refit: %v", err)
	}

	for i := range beforeLeftFirst {
		if i == 1 {
			continue
		}
		if blas.Nodes[i].LeftFirst != beforeLeftFirst[i] || blas.Nodes[i].TriCount != beforeTriCount[i] {
			t.Fatalf("node %d topology changed across refit", i)
		}
	}

	root := blas.Nodes[0].bounds()
	if root.Min[0] < 99 {
		t.Fatalf("expected refit root bounds to follow the translated mesh, got min %v", root.Min)
	}
}
