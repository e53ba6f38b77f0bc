package gbuffer

import (
	"testing"

	"github.com/Fidelxyz/cpu-renderer/internal/vecmath"
)

func TestResolveFrame_FullCoveredYieldsSample0(t *testing.T) {
	b := New(1, 1, vecmath.Vec3{})
	red := vecmath.Vec3{X: 1}
	b.SetCovered(0, 0, CoveredMask, red, vecmath.Vec3{}, vecmath.Vec3{})
	out := b.ResolveFrame()
	if out.At(0, 0) != red {
		t.Errorf("resolved full-covered pixel = %v, want %v", out.At(0, 0), red)
	}
}

func TestResolveFrame_PartialCoveredAverages(t *testing.T) {
	b := New(1, 1, vecmath.Vec3{})
	red := vecmath.Vec3{X: 1}
	b.SetCovered(0, 0, 0b0001, red, vecmath.Vec3{}, vecmath.Vec3{})
	out := b.ResolveFrame()
	want := vecmath.Vec3{X: 0.25}
	if diff := out.At(0, 0).Sub(want).Length(); diff > 1e-5 {
		t.Errorf("resolved partial pixel = %v, want %v", out.At(0, 0), want)
	}
}

func TestResolveFrame_TwiceOnNonMSAAIsIdentity(t *testing.T) {
	b := New(2, 2, vecmath.Vec3{})
	c := vecmath.Vec3{X: 0.3, Y: 0.5, Z: 0.7}
	b.SetCovered(1, 0, CoveredMask, c, vecmath.Vec3{}, vecmath.Vec3{})
	first := b.ResolveFrame()
	second := b.ResolveFrame()
	for i := range first.Data {
		if first.Data[i] != second.Data[i] {
			t.Errorf("resolve is not idempotent at pixel %d", i)
		}
	}
}

func TestSetCovered_UncoveredSamplesUntouched(t *testing.T) {
	b := New(1, 1, vecmath.Vec3{X: 9, Y: 9, Z: 9})
	b.SetCovered(0, 0, 0b0001, vecmath.Vec3{X: 1}, vecmath.Vec3{}, vecmath.Vec3{})
	for s := 1; s < MSAALevel; s++ {
		if b.Frame[0][s] != (vecmath.Vec3{X: 9, Y: 9, Z: 9}) {
			t.Errorf("sample %d was modified, want background untouched", s)
		}
	}
}
