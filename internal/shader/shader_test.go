package shader

import (
	"testing"

	"github.com/Fidelxyz/cpu-renderer/internal/scene"
	"github.com/Fidelxyz/cpu-renderer/internal/vecmath"
)

func TestBlinnPhong_NoTexturesDependsOnlyOnConstants(t *testing.T) {
	mat := scene.DefaultMaterial()
	lights := []scene.Light{{Position: vecmath.Vec3{Z: 5}, Color: vecmath.Vec3{X: 1, Y: 1, Z: 1}, Intensity: 10}}
	pos := vecmath.Vec3{}
	normal := vecmath.Vec3{Z: 1}
	eye := vecmath.Vec3{Z: 1}

	a := BlinnPhong{}.Shade(pos, normal, vecmath.Vec2{X: 0.1, Y: 0.2}, vecmath.Vec2{X: 1, Y: 1}, mat, lights, eye)
	b := BlinnPhong{}.Shade(pos, normal, vecmath.Vec2{X: 0.9, Y: 0.7}, vecmath.Vec2{X: 1, Y: 1}, mat, lights, eye)
	if a != b {
		t.Errorf("shading with no textures should be uv-independent: %v vs %v", a, b)
	}
}

func TestCelRamp_MonotonicAndBounded(t *testing.T) {
	prev := float32(0)
	for i := 0; i <= 10; i++ {
		y := float32(i) / 10
		r := celRamp(y)
		if r < celRampLow-1e-6 || r > celRampHigh+1e-6 {
			t.Errorf("celRamp(%v) = %v out of [%v,%v]", y, r, celRampLow, celRampHigh)
		}
		if r < prev-1e-6 {
			t.Errorf("celRamp not monotonic at y=%v: %v < %v", y, r, prev)
		}
		prev = r
	}
}

func TestCelRampFace_TwoLevel(t *testing.T) {
	low := celRampFace(0)
	high := celRampFace(1)
	if diff := low - celRampLow; diff > 1e-4 || diff < -1e-4 {
		t.Errorf("celRampFace(0) = %v, want %v", low, celRampLow)
	}
	if diff := high - celRampHigh; diff > 1e-4 || diff < -1e-4 {
		t.Errorf("celRampFace(1) = %v, want %v", high, celRampHigh)
	}
}

func TestPBR_ZeroLightsReturnsEmissiveOnly(t *testing.T) {
	mat := scene.DefaultMaterial()
	mat.Emission = vecmath.Vec3{X: 0.2}
	mat.IOR = 1
	got := PBR{}.Shade(vecmath.Vec3{}, vecmath.Vec3{Z: 1}, vecmath.Vec2{}, vecmath.Vec2{X: 1, Y: 1}, mat, nil, vecmath.Vec3{Z: 1})
	want := vecmath.Vec3{X: 0.2}
	if diff := got.Sub(want).Length(); diff > 1e-5 {
		t.Errorf("PBR with no lights = %v, want emissive-only %v", got, want)
	}
}

func TestOutline_IgnoresGeometryAndReturnsColor(t *testing.T) {
	o := Outline{Color: vecmath.Vec3{X: 0, Y: 0, Z: 0}}
	got := o.Shade(vecmath.Vec3{X: 1, Y: 2, Z: 3}, vecmath.Vec3{Z: 1}, vecmath.Vec2{}, vecmath.Vec2{}, nil, nil, vecmath.Vec3{})
	if got != o.Color {
		t.Errorf("Outline.Shade = %v, want %v", got, o.Color)
	}
}
