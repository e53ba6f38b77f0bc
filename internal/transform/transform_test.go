package transform

import (
	"testing"

	"github.com/Fidelxyz/cpu-renderer/internal/vecmath"
)

func TestModel_IdentityAtOriginNoRotationNoScale(t *testing.T) {
	m := Model(vecmath.Vec3{}, vecmath.Vec3{}, vecmath.Vec3{X: 1, Y: 1, Z: 1})
	v := vecmath.Vec4{X: 1, Y: 2, Z: 3, W: 1}
	got := m.MulVec4(v)
	if got != v {
		t.Errorf("Model(identity) moved a point: got %v, want %v", got, v)
	}
}

func TestModel_TranslationOnly(t *testing.T) {
	m := Model(vecmath.Vec3{X: 5, Y: 0, Z: 0}, vecmath.Vec3{}, vecmath.Vec3{X: 1, Y: 1, Z: 1})
	got := m.MulVec4(vecmath.Vec4{X: 0, Y: 0, Z: 0, W: 1})
	want := vecmath.Vec4{X: 5, Y: 0, Z: 0, W: 1}
	if got != want {
		t.Errorf("Model translation = %v, want %v", got, want)
	}
}

func TestViewport_CornersMapToPixelBounds(t *testing.T) {
	m := Viewport(800, 600)

	bottomLeft := m.MulVec4(vecmath.Vec4{X: -1, Y: -1, Z: -1, W: 1})
	if diff := bottomLeft.X; diff > 1e-4 || diff < -1e-4 {
		t.Errorf("NDC (-1,-1) screen x = %v, want 0", bottomLeft.X)
	}
	if diff := bottomLeft.Y - 600; diff > 1e-4 || diff < -1e-4 {
		t.Errorf("NDC (-1,-1) screen y = %v, want 600 (flipped)", bottomLeft.Y)
	}

	topRight := m.MulVec4(vecmath.Vec4{X: 1, Y: 1, Z: 1, W: 1})
	if diff := topRight.X - 800; diff > 1e-4 || diff < -1e-4 {
		t.Errorf("NDC (1,1) screen x = %v, want 800", topRight.X)
	}
	if diff := topRight.Y; diff > 1e-4 || diff < -1e-4 {
		t.Errorf("NDC (1,1) screen y = %v, want 0 (flipped)", topRight.Y)
	}
	if diff := topRight.Z - 1; diff > 1e-4 || diff < -1e-4 {
		t.Errorf("NDC z=1 viewport z = %v, want 1", topRight.Z)
	}
}

func TestView_CameraAtOriginLookingDownZ(t *testing.T) {
	pos := vecmath.Vec3d{}
	left := vecmath.Vec3d{X: 1}
	up := vecmath.Vec3d{Y: 1}
	look := vecmath.Vec3d{Z: 1}
	m := View(pos, left, up, look)

	p := vecmath.Vec4{X: 0, Y: 0, Z: 5, W: 1}
	got := m.ToMat4().MulVec4(p)
	if diff := got.Z - 5; diff > 1e-4 || diff < -1e-4 {
		t.Errorf("point along look axis: got z=%v, want 5", got.Z)
	}
}
