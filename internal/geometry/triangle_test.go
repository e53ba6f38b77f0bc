package geometry

import (
	"math"
	"testing"

	"github.com/Fidelxyz/cpu-renderer/internal/gbuffer"
	"github.com/Fidelxyz/cpu-renderer/internal/scene"
	"github.com/Fidelxyz/cpu-renderer/internal/vecmath"
)

type constantShader struct{ color vecmath.Vec3 }

func (s constantShader) Shade(pos, normal vecmath.Vec3, uv, duv vecmath.Vec2, mat *scene.Material, lights []scene.Light, eye vecmath.Vec3) vecmath.Vec3 {
	return s.color
}

func newTestTriangle() (*Object, *Triangle) {
	obj := NewObject()
	obj.Materials = []*scene.Material{scene.DefaultMaterial()}
	obj.Vertices = []Vertex{
		{Pos: vecmath.Vec3{X: 0, Y: 0, Z: 0}, ScreenPos: vecmath.Vec3{X: 0, Y: 0, Z: 0.5}, W: 1},
		{Pos: vecmath.Vec3{X: 1, Y: 0, Z: 0}, ScreenPos: vecmath.Vec3{X: 4, Y: 0, Z: 0.5}, W: 1},
		{Pos: vecmath.Vec3{X: 0, Y: 1, Z: 0}, ScreenPos: vecmath.Vec3{X: 0, Y: 4, Z: 0.5}, W: 1},
	}
	tri := &Triangle{VertexIdx: [3]int{0, 1, 2}, TexcoordIdx: [3]int{-1, -1, -1}, MaterialIdx: 0}
	return obj, tri
}

func TestRasterize_InteriorPixelShadedOutsideUntouched(t *testing.T) {
	obj, tri := newTestTriangle()
	cam := &scene.Camera{Width: 4, Height: 4, RelaxViewCullingFactor: 1, Position: vecmath.Vec3d{X: 0, Y: 0, Z: -1}}
	buf := gbuffer.New(4, 4, vecmath.Vec3{})
	sh := constantShader{color: vecmath.Vec3{X: 1, Y: 0, Z: 0}}

	tri.Rasterize(obj, buf, sh, cam, nil, CullNone)

	frame := buf.ResolveFrame()
	if got := frame.At(0, 0); got.X < 0.99 || got.Y > 1e-4 || got.Z > 1e-4 {
		t.Errorf("interior pixel (0,0) = %v, want red", got)
	}
	if got := frame.At(3, 3); got.X > 1e-4 || got.Y > 1e-4 || got.Z > 1e-4 {
		t.Errorf("exterior pixel (3,3) = %v, want background", got)
	}
}

func TestRasterize_TriangleOutsideViewportLeavesBufferUnchanged(t *testing.T) {
	obj, tri := newTestTriangle()
	for i := range obj.Vertices {
		obj.Vertices[i].ScreenPos.X += 1000
	}
	cam := &scene.Camera{Width: 4, Height: 4, RelaxViewCullingFactor: 1, Position: vecmath.Vec3d{X: 0, Y: 0, Z: -1}}
	buf := gbuffer.New(4, 4, vecmath.Vec3{X: 0.2, Y: 0.2, Z: 0.2})
	sh := constantShader{color: vecmath.Vec3{X: 1, Y: 0, Z: 0}}

	tri.Rasterize(obj, buf, sh, cam, nil, CullNone)

	frame := buf.ResolveFrame()
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			if got := frame.At(x, y); got.X != 0.2 || got.Y != 0.2 || got.Z != 0.2 {
				t.Fatalf("pixel (%d,%d) = %v, want untouched background", x, y, got)
			}
		}
	}
}

func TestNewBaryGradient_CorrectedBarycentricsSumToOne(t *testing.T) {
	v1 := vecmath.Vec3{X: 0, Y: 0, Z: 0.2}
	v2 := vecmath.Vec3{X: 10, Y: 0, Z: 0.5}
	v3 := vecmath.Vec3{X: 0, Y: 10, Z: 0.8}
	grad, ok := newBaryGradient(v1, v2, v3, 3, 3)
	if !ok {
		t.Fatal("expected non-degenerate triangle")
	}
	corrected, ok := perspectiveCorrect(grad.origin, 1, 1.5, 2)
	if !ok {
		t.Fatal("expected successful perspective correction")
	}
	sum := corrected.W1 + corrected.W2 + corrected.W3
	if math.Abs(float64(sum-1)) > 1e-4 {
		t.Errorf("barycentric sum = %v, want 1", sum)
	}
}

func TestNewBaryGradient_DegenerateTriangleReportsNotOK(t *testing.T) {
	_, ok := newBaryGradient(
		vecmath.Vec3{X: 0, Y: 0},
		vecmath.Vec3{X: 1, Y: 0},
		vecmath.Vec3{X: 2, Y: 0},
		0.5, 0,
	)
	if ok {
		t.Error("expected degenerate (collinear) triangle to report not ok")
	}
}

func TestPrepareTBN_ZeroUVDeltaIsNaN(t *testing.T) {
	obj := NewObject()
	obj.Texcoords = []vecmath.Vec2{{X: 0, Y: 0}, {X: 0, Y: 0}, {X: 0, Y: 0}}
	obj.Vertices = []Vertex{
		{Pos: vecmath.Vec3{X: 0, Y: 0, Z: 0}},
		{Pos: vecmath.Vec3{X: 1, Y: 0, Z: 0}},
		{Pos: vecmath.Vec3{X: 0, Y: 1, Z: 0}},
	}
	tri := &Triangle{VertexIdx: [3]int{0, 1, 2}, TexcoordIdx: [3]int{0, 1, 2}}
	tri.PrepareTBN(obj)
	if !hasNaN(tri.TBNu) {
		t.Errorf("TBNu = %v, want NaN components", tri.TBNu)
	}
}

func TestPrepareTBN_ValidUVsProduceFiniteTangent(t *testing.T) {
	obj := NewObject()
	obj.Texcoords = []vecmath.Vec2{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}}
	obj.Vertices = []Vertex{
		{Pos: vecmath.Vec3{X: 0, Y: 0, Z: 0}},
		{Pos: vecmath.Vec3{X: 1, Y: 0, Z: 0}},
		{Pos: vecmath.Vec3{X: 0, Y: 1, Z: 0}},
	}
	tri := &Triangle{VertexIdx: [3]int{0, 1, 2}, TexcoordIdx: [3]int{0, 1, 2}}
	tri.PrepareTBN(obj)
	if hasNaN(tri.TBNu) {
		t.Errorf("TBNu = %v, want finite tangent", tri.TBNu)
	}
}
