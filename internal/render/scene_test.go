package render

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Fidelxyz/cpu-renderer/internal/config"
	"github.com/Fidelxyz/cpu-renderer/internal/geometry"
	"github.com/Fidelxyz/cpu-renderer/internal/scene"
	"github.com/Fidelxyz/cpu-renderer/internal/vecmath"
	"github.com/Fidelxyz/cpu-renderer/internal/workerpool"
)

func TestResolveShading(t *testing.T) {
	cases := []struct {
		key       string
		enablePBR bool
		want      scene.ShadingModel
	}{
		{"cel", false, scene.ShadingCel},
		{"pbr", false, scene.ShadingPBR},
		{"default", false, scene.ShadingBlinnPhong},
		{"default", true, scene.ShadingPBR},
		{"", true, scene.ShadingPBR},
	}
	for _, c := range cases {
		if got := resolveShading(c.key, c.enablePBR); got != c.want {
			t.Errorf("resolveShading(%q, %v) = %v, want %v", c.key, c.enablePBR, got, c.want)
		}
	}
}

func writeTriangleOBJ(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "tri.obj")
	body := "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write temp OBJ: %v", err)
	}
	return path
}

func TestBuildScene_LoadsObjectsAndAppliesShading(t *testing.T) {
	objPath := writeTriangleOBJ(t)
	cfg := &config.Config{
		Camera: config.Camera{
			Pos: [3]float64{0, 0, -5}, LookDir: [3]float64{0, 0, 1}, UpDir: [3]float64{0, 1, 0},
			FovDeg: 60, NearPlane: 0.1, FarPlane: 100, Width: 8, Height: 8,
		},
		Objects: []config.Object{{Path: objPath, ShadingType: "cel"}},
	}

	sc, err := BuildScene(cfg)
	if err != nil {
		t.Fatalf("BuildScene: %v", err)
	}
	if len(sc.Objects) != 1 {
		t.Fatalf("got %d objects, want 1", len(sc.Objects))
	}
	obj := sc.Objects[0]
	if obj.ShadingType != scene.ShadingCel {
		t.Errorf("ShadingType = %v, want ShadingCel", obj.ShadingType)
	}
	for _, mat := range obj.Materials {
		if mat.Shading != scene.ShadingCel {
			t.Errorf("material.Shading = %v, want ShadingCel", mat.Shading)
		}
	}
}

func writeTexturedTriangleOBJ(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "textured.obj")
	body := "v 0 0 0\nv 1 0 0\nv 0 1 0\n" +
		"vt 0 0\nvt 1 0\nvt 0 1\n" +
		"f 1/1 2/2 3/3\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write temp OBJ: %v", err)
	}
	return path
}

// TestRender_TexturedMeshLoadAndRender exercises the real
// LoadOBJ -> TransformVertices -> PrepareTBN -> Rasterize lifecycle on a
// triangle whose corners carry texcoords, since that is the path that
// populates TBNu from world-space vertices that do not exist until
// TransformVertices has run.
func TestRender_TexturedMeshLoadAndRender(t *testing.T) {
	objPath := writeTexturedTriangleOBJ(t)
	obj, err := geometry.LoadOBJ(objPath, "")
	if err != nil {
		t.Fatalf("LoadOBJ: %v", err)
	}

	cam := scene.NewCamera(
		vecmath.Vec3d{X: 0, Y: 0, Z: -5},
		vecmath.Vec3d{X: 0, Y: 0, Z: 1},
		vecmath.Vec3d{X: 0, Y: 1, Z: 0},
		60, 0.1, 100, 8, 8,
	)
	sc := &Scene{
		Camera:  cam,
		Objects: []*geometry.Object{obj},
	}

	pool := workerpool.New(2)
	defer pool.Close()

	frame := Render(sc, pool)
	if frame.Width != 8 || frame.Height != 8 {
		t.Fatalf("frame dims = %dx%d, want 8x8", frame.Width, frame.Height)
	}
}

func TestRender_ProducesFrameOfCameraDimensions(t *testing.T) {
	objPath := writeTriangleOBJ(t)
	obj, err := geometry.LoadOBJ(objPath, "")
	if err != nil {
		t.Fatalf("LoadOBJ: %v", err)
	}

	cam := scene.NewCamera(
		vecmath.Vec3d{X: 0, Y: 0, Z: -5},
		vecmath.Vec3d{X: 0, Y: 0, Z: 1},
		vecmath.Vec3d{X: 0, Y: 1, Z: 0},
		60, 0.1, 100, 8, 8,
	)
	sc := &Scene{
		Camera:  cam,
		Objects: []*geometry.Object{obj},
	}

	pool := workerpool.New(2)
	defer pool.Close()

	frame := Render(sc, pool)
	if frame.Width != 8 || frame.Height != 8 {
		t.Fatalf("frame dims = %dx%d, want 8x8", frame.Width, frame.Height)
	}
}
