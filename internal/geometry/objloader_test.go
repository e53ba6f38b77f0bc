package geometry

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Fidelxyz/cpu-renderer/internal/rerr"
)

func writeTempFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func TestLoadOBJ_TriangulatesQuadAndDedupesVertices(t *testing.T) {
	dir := t.TempDir()
	obj := "v 0 0 0\n" +
		"v 1 0 0\n" +
		"v 1 1 0\n" +
		"v 0 1 0\n" +
		"vt 0 0\n" +
		"vt 1 0\n" +
		"vt 1 1\n" +
		"vt 0 1\n" +
		"f 1/1 2/2 3/3 4/4\n"
	path := writeTempFile(t, dir, "quad.obj", obj)

	o, err := LoadOBJ(path, dir)
	if err != nil {
		t.Fatalf("LoadOBJ: %v", err)
	}
	if len(o.RawPositions) != 4 {
		t.Errorf("RawPositions len = %d, want 4", len(o.RawPositions))
	}
	if got := len(o.Triangles()); got != 2 {
		t.Errorf("triangle count = %d, want 2 (fan-triangulated quad)", got)
	}
	if len(o.Materials) != 1 {
		t.Errorf("materials len = %d, want 1 (default)", len(o.Materials))
	}
}

func TestLoadOBJ_MissingFileReturnsAssetLoadError(t *testing.T) {
	_, err := LoadOBJ("/nonexistent/path/missing.obj", "")
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	var loadErr *rerr.AssetLoadError
	if !errors.As(err, &loadErr) {
		t.Errorf("error %v is not a *rerr.AssetLoadError", err)
	}
}

func TestLoadOBJ_WithMTLAppliesMaterialColors(t *testing.T) {
	dir := t.TempDir()
	mtl := "newmtl red\nKd 1 0 0\nNs 64\n"
	writeTempFile(t, dir, "mat.mtl", mtl)

	objSrc := "mtllib mat.mtl\n" +
		"v 0 0 0\nv 1 0 0\nv 0 1 0\n" +
		"usemtl red\n" +
		"f 1 2 3\n"
	path := writeTempFile(t, dir, "tri.obj", objSrc)

	o, err := LoadOBJ(path, dir)
	if err != nil {
		t.Fatalf("LoadOBJ: %v", err)
	}
	if len(o.Materials) != 1 {
		t.Fatalf("materials len = %d, want 1", len(o.Materials))
	}
	mat := o.Materials[0]
	if mat.Diffuse.X != 1 || mat.Diffuse.Y != 0 || mat.Diffuse.Z != 0 {
		t.Errorf("Diffuse = %v, want (1,0,0)", mat.Diffuse)
	}
	if mat.Shininess != 64 {
		t.Errorf("Shininess = %v, want 64", mat.Shininess)
	}
}

func TestLoadOBJ_NoNormalsLeavesHasNormalsFalse(t *testing.T) {
	dir := t.TempDir()
	objSrc := "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n"
	path := writeTempFile(t, dir, "flat.obj", objSrc)

	o, err := LoadOBJ(path, dir)
	if err != nil {
		t.Fatalf("LoadOBJ: %v", err)
	}
	if o.HasNormals {
		t.Error("HasNormals = true, want false (no vn lines)")
	}
}
