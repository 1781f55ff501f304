package mesh

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Cem-Kaya/bvh-article-fork/types"
)

func writeTempOBJ(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "mesh.obj")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing temp OBJ: %v", err)
	}
	return path
}

func TestLoadOBJTriangle(t *testing.T) {
	path := writeTempOBJ(t, `
v 0 0 0
v 1 0 0
v 0 1 0
f 1 2 3
`)
	m, err := LoadOBJ(path)
	if err != nil {
		t.Fatalf("LoadOBJ: %v", err)
	}
	if len(m.Triangles) != 1 {
		t.Fatalf("expected 1 triangle, got %d", len(m.Triangles))
	}
	tri := m.Triangles[0]
	if tri.V0 != (types.Vec3{0, 0, 0}) || tri.V1 != (types.Vec3{1, 0, 0}) || tri.V2 != (types.Vec3{0, 1, 0}) {
		t.Fatalf("unexpected triangle vertices: %+v", tri)
	}
}

func TestLoadOBJTriangulatesQuadAsFan(t *testing.T) {
	path := writeTempOBJ(t, `
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
f 1 2 3 4
`)
	m, err := LoadOBJ(path)
	if err != nil {
		t.Fatalf("LoadOBJ: %v", err)
	}
	if len(m.Triangles) != 2 {
		t.Fatalf("expected a quad to fan-triangulate into 2 triangles, got %d", len(m.Triangles))
	}
}

func TestLoadOBJIgnoresUnsupportedDirectives(t *testing.T) {
	path := writeTempOBJ(t, `
# a comment
mtllib foo.mtl
vn 0 0 1
vt 0 0
v 0 0 0
v 1 0 0
v 0 1 0
f 1/1/1 2/1/1 3/1/1
`)
	m, err := LoadOBJ(path)
	if err != nil {
		t.Fatalf("LoadOBJ: %v", err)
	}
	if len(m.Triangles) != 1 {
		t.Fatalf("expected 1 triangle, got %d", len(m.Triangles))
	}
}

func TestLoadOBJSupportsNegativeFaceIndices(t *testing.T) {
	path := writeTempOBJ(t, `
v 0 0 0
v 1 0 0
v 0 1 0
f -3 -2 -1
`)
	m, err := LoadOBJ(path)
	if err != nil {
		t.Fatalf("LoadOBJ: %v", err)
	}
	if len(m.Triangles) != 1 {
		t.Fatalf("expected 1 triangle, got %d", len(m.Triangles))
	}
	tri := m.Triangles[0]
	if tri.V0 != (types.Vec3{0, 0, 0}) {
		t.Fatalf("expected negative index -3 to resolve to the first vertex, got %+v", tri.V0)
	}
}

func TestLoadOBJRejectsOutOfRangeFaceIndex(t *testing.T) {
	path := writeTempOBJ(t, `
v 0 0 0
v 1 0 0
f 1 2 3
`)
	_, err := LoadOBJ(path)
	if err == nil {
		t.Fatalf("expected an error for a face referencing a nonexistent vertex")
	}
}

func TestLoadOBJRejectsMissingFile(t *testing.T) {
	_, err := LoadOBJ(filepath.Join(t.TempDir(), "does-not-exist.obj"))
	if err == nil {
		t.Fatalf("expected an error for a missing file")
	}
}

func TestLoadOBJRejectsMalformedVertex(t *testing.T) {
	path := writeTempOBJ(t, `
v 0 0 notanumber
`)
	_, err := LoadOBJ(path)
	if err == nil {
		t.Fatalf("expected an error for a malformed vertex coordinate")
	}
}
