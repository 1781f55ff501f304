// Package mesh loads triangle geometry from disk for the bvh core to build
// an acceleration structure over. It deliberately only understands the
// handful of Wavefront OBJ directives that carry geometry (`v`, `f`);
// materials, normals, texture coordinates and all other directives are out
// of scope for this library and are skipped.
package mesh

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/Cem-Kaya/bvh-article-fork/internal/bvh"
	"github.com/Cem-Kaya/bvh-article-fork/log"
	"github.com/Cem-Kaya/bvh-article-fork/types"
)

var logger = log.New("mesh")

// LoadOBJ reads a Wavefront OBJ file and returns its geometry as a flat
// triangle list wrapped in a bvh.TriMesh. Polygonal (>3 vertex) faces are
// fan-triangulated around their first vertex. Malformed numeric fields or
// out-of-range face indices are returned as errors, never panicked.
func LoadOBJ(path string) (*bvh.TriMesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("mesh: could not open %q: %w", path, err)
	}
	defer f.Close()

	var verts []types.Vec3
	var tris []bvh.Tri

	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		switch {
		case strings.HasPrefix(line, "v "):
			v, err := parseVertex(line[2:])
			if err != nil {
				return nil, fmt.Errorf("mesh: %s:%d: %w", path, lineNo, err)
			}
			verts = append(verts, v)

		case strings.HasPrefix(line, "f "):
			faceTris, err := parseFace(line[2:], verts)
			if err != nil {
				return nil, fmt.Errorf("mesh: %s:%d: %w", path, lineNo, err)
			}
			tris = append(tris, faceTris...)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("mesh: %s: %w", path, err)
	}

	logger.Infof("loaded %q: %d vertices, %d triangles", path, len(verts), len(tris))
	return &bvh.TriMesh{Triangles: tris}, nil
}

func parseVertex(fields string) (types.Vec3, error) {
	parts := strings.Fields(fields)
	if len(parts) < 3 {
		return types.Vec3{}, fmt.Errorf("vertex line has %d fields, want 3", len(parts))
	}
	var v types.Vec3
	for i := 0; i < 3; i++ {
		f, err := strconv.ParseFloat(parts[i], 32)
		if err != nil {
			return types.Vec3{}, fmt.Errorf("invalid vertex coordinate %q: %w", parts[i], err)
		}
		v[i] = float32(f)
	}
	return v, nil
}

// parseFace triangulates a polygonal face line as a fan around its first
// vertex. Each field may be "v", "v/vt" or "v/vt/vn"; only the leading
// vertex index is used.
func parseFace(fields string, verts []types.Vec3) ([]bvh.Tri, error) {
	parts := strings.Fields(fields)
	if len(parts) < 3 {
		return nil, fmt.Errorf("face line has %d fields, want >= 3", len(parts))
	}

	idx := make([]int, len(parts))
	for i, p := range parts {
		vIdxStr := strings.SplitN(p, "/", 2)[0]
		vIdx, err := strconv.Atoi(vIdxStr)
		if err != nil {
			return nil, fmt.Errorf("invalid face index %q: %w", p, err)
		}
		if vIdx < 0 {
			// Negative indices are relative to the end of the vertex list.
			vIdx = len(verts) + vIdx + 1
		}
		if vIdx < 1 || vIdx > len(verts) {
			return nil, fmt.Errorf("face index %d out of range (have %d vertices)", vIdx, len(verts))
		}
		idx[i] = vIdx - 1
	}

	tris := make([]bvh.Tri, 0, len(idx)-2)
	for i := 1; i < len(idx)-1; i++ {
		tris = append(tris, bvh.Tri{
			V0: verts[idx[0]],
			V1: verts[idx[i]],
			V2: verts[idx[i+1]],
		})
	}
	return tris, nil
}
