package texture

import "testing"

func TestBuildMipmap_BaseLevelUnchanged(t *testing.T) {
	base := New[float32](8, 8, ScalarOps)
	for i := range base.Data {
		base.Data[i] = float32(i)
	}
	m := BuildMipmap(base, ScalarOps)
	if m.Base() != base {
		t.Errorf("Base() should be the original level-0 texture")
	}
	if m.levels[0][1].Width != 4 {
		t.Errorf("level[0][1].Width = %d, want 4", m.levels[0][1].Width)
	}
	if m.levels[1][0].Height != 4 {
		t.Errorf("level[1][0].Height = %d, want 4", m.levels[1][0].Height)
	}
	if m.levels[3][3].Width != 1 || m.levels[3][3].Height != 1 {
		t.Errorf("level[3][3] = %dx%d, want 1x1", m.levels[3][3].Width, m.levels[3][3].Height)
	}
}

func TestBuildMipmap_DownsampleAveragesUniformValue(t *testing.T) {
	base := New[float32](4, 4, ScalarOps)
	for i := range base.Data {
		base.Data[i] = 7
	}
	m := BuildMipmap(base, ScalarOps)
	got := m.levels[1][1].At(0, 0)
	if diff := got - 7; diff > 1e-5 || diff < -1e-5 {
		t.Errorf("downsampled uniform texture = %v, want 7", got)
	}
}

func TestClampLod_StaysInsideGrid(t *testing.T) {
	if got := clampLod(-5); got != lodSampleDelta {
		t.Errorf("clampLod(-5) = %v, want %v", got, lodSampleDelta)
	}
	max := float32(MipmapLevels - (1 + lodSampleDelta))
	if got := clampLod(100); got != max {
		t.Errorf("clampLod(100) = %v, want %v", got, max)
	}
}

func TestMipmapSample_UniformTextureIsLodInvariant(t *testing.T) {
	base := New[float32](16, 16, ScalarOps)
	for i := range base.Data {
		base.Data[i] = 3
	}
	m := BuildMipmap(base, ScalarOps)
	low := m.Sample(0.5, 0.5, 0.1, 0.1, Clamp)
	high := m.Sample(0.5, 0.5, 2.5, 2.5, Clamp)
	if diff := low - high; diff > 1e-4 || diff < -1e-4 {
		t.Errorf("uniform texture sampled at different LODs: %v vs %v", low, high)
	}
}
