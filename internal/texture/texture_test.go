package texture

import (
	"testing"

	"github.com/Fidelxyz/cpu-renderer/internal/vecmath"
)

func TestSampleBilinear_ExactTexelCenter(t *testing.T) {
	tex := New[float32](2, 2, ScalarOps)
	tex.Set(0, 0, 1)
	tex.Set(1, 0, 2)
	tex.Set(0, 1, 3)
	tex.Set(1, 1, 4)

	// u=0.25, v=0.75 lands exactly on texel (0,0) center (row 0 is top,
	// v flips so v=0.75 -> pixel row 0).
	got := tex.SampleBilinear(0.25, 0.75, Clamp)
	if diff := got - 1; diff > 1e-5 || diff < -1e-5 {
		t.Errorf("SampleBilinear at texel center = %v, want 1", got)
	}
}

func TestSampleBilinear_Midpoint(t *testing.T) {
	tex := New[float32](2, 1, ScalarOps)
	tex.Set(0, 0, 0)
	tex.Set(1, 0, 10)

	got := tex.SampleBilinear(0.5, 0.5, Clamp)
	if diff := got - 5; diff > 1e-4 || diff < -1e-4 {
		t.Errorf("SampleBilinear midpoint = %v, want 5", got)
	}
}

func TestSampleBilinear_WrapVsClamp(t *testing.T) {
	tex := New[float32](2, 2, ScalarOps)
	tex.Set(0, 0, 1)
	tex.Set(1, 0, 5)
	tex.Set(0, 1, 1)
	tex.Set(1, 1, 5)

	// Sampling just past u=1 should wrap to column 0 under Wrap, and clamp
	// to column 1 (the edge texel) under Clamp -- different results.
	wrapped := tex.SampleBilinear(1.01, 0.75, Wrap)
	clamped := tex.SampleBilinear(1.01, 0.75, Clamp)
	if wrapped == clamped {
		t.Errorf("expected Wrap and Clamp addressing to diverge near the edge")
	}
}

func TestRGBOps_Roundtrip(t *testing.T) {
	tex := New[vecmath.Vec3](1, 1, RGBOps)
	tex.Set(0, 0, vecmath.Vec3{X: 0.2, Y: 0.4, Z: 0.6})
	got := tex.SampleBilinear(0.5, 0.5, Clamp)
	want := vecmath.Vec3{X: 0.2, Y: 0.4, Z: 0.6}
	if got != want {
		t.Errorf("SampleBilinear single-pixel RGB = %v, want %v", got, want)
	}
}
