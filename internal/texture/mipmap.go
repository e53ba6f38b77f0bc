package texture

import (
	"math"

	"github.com/Fidelxyz/cpu-renderer/internal/vecmath"
)

// MipmapLevels is the size of the anisotropic LOD grid: level[y][x] has
// height halved y times and width halved x times relative to level[0][0].
// A plain mip chain (halving both axes together) loses derivative
// information when a surface is viewed at a steep angle; the 4x4 grid lets
// u and v LOD be selected independently.
const MipmapLevels = 4

// lodSampleDelta is the margin clampLod keeps between the selected LOD and
// the ends of the grid: LOD is clamped to
// [lodSampleDelta, MipmapLevels-1-lodSampleDelta].
const lodSampleDelta = 0.1

// Mipmap holds the anisotropic LOD grid for a single texture and answers
// duv-aware samples.
type Mipmap[T any] struct {
	levels [MipmapLevels][MipmapLevels]*Texture[T]
	ops    Ops[T]
}

// BuildMipmap constructs the full grid from a base level. level[0][0] is
// the base texture itself (not copied); level[y][0] is built by
// vertically box-filtering level[y-1][0], and level[y][x] is built by
// horizontally box-filtering level[y][x-1].
func BuildMipmap[T any](base *Texture[T], ops Ops[T]) *Mipmap[T] {
	m := &Mipmap[T]{ops: ops}
	m.levels[0][0] = base

	for ly := 0; ly < MipmapLevels; ly++ {
		if ly != 0 {
			m.levels[ly][0] = downsampleVertical(m.levels[ly-1][0], ops)
		}
		for lx := 1; lx < MipmapLevels; lx++ {
			m.levels[ly][lx] = downsampleHorizontal(m.levels[ly][lx-1], ops)
		}
	}
	return m
}

func downsampleHorizontal[T any](src *Texture[T], ops Ops[T]) *Texture[T] {
	w := src.Width / 2
	if w < 1 {
		w = 1
	}
	dst := New[T](w, src.Height, ops)
	for y := 0; y < src.Height; y++ {
		for x := 0; x < w; x++ {
			a := src.At(min(2*x, src.Width-1), y)
			b := src.At(min(2*x+1, src.Width-1), y)
			dst.Set(x, y, ops.Scale(ops.Add(a, b), 0.5))
		}
	}
	return dst
}

func downsampleVertical[T any](src *Texture[T], ops Ops[T]) *Texture[T] {
	h := src.Height / 2
	if h < 1 {
		h = 1
	}
	dst := New[T](src.Width, h, ops)
	for y := 0; y < h; y++ {
		for x := 0; x < src.Width; x++ {
			a := src.At(x, min(2*y, src.Height-1))
			b := src.At(x, min(2*y+1, src.Height-1))
			dst.Set(x, y, ops.Scale(ops.Add(a, b), 0.5))
		}
	}
	return dst
}

// Lod computes the (lodX, lodY) mip levels from screen-space texcoord
// derivatives duv, via log2(duv * dimension). Larger derivatives (many
// texels per pixel, i.e. the texture is minified) select a higher,
// blurrier level.
func Lod(duv vecmath.Vec2, width, height int) (lodX, lodY float32) {
	lodX = log2f(duv.X * float32(width))
	lodY = log2f(duv.Y * float32(height))
	return
}

func log2f(x float32) float32 {
	if x <= 0 {
		return 0
	}
	return float32(math.Log2(float64(x)))
}

// Sample blends the four surrounding integer grid levels bilinearly in
// (lodX, lodY) space, then bilinearly samples each in (u,v) space.
func (m *Mipmap[T]) Sample(u, v, lodX, lodY float32, addr Addressing) T {
	lodX = clampLod(lodX)
	lodY = clampLod(lodY)

	xl := int(lodX)
	yl := int(lodY)
	xr := xl + 1
	yr := yl + 1
	if xr > MipmapLevels-1 {
		xr = MipmapLevels - 1
	}
	if yr > MipmapLevels-1 {
		yr = MipmapLevels - 1
	}

	wx := lodX - float32(xl)
	wy := lodY - float32(yl)

	tl := m.levels[yl][xl].SampleBilinear(u, v, addr)
	tr := m.levels[yl][xr].SampleBilinear(u, v, addr)
	bl := m.levels[yr][xl].SampleBilinear(u, v, addr)
	br := m.levels[yr][xr].SampleBilinear(u, v, addr)

	top := m.ops.Add(m.ops.Scale(tl, 1-wx), m.ops.Scale(tr, wx))
	bot := m.ops.Add(m.ops.Scale(bl, 1-wx), m.ops.Scale(br, wx))
	return m.ops.Add(m.ops.Scale(top, 1-wy), m.ops.Scale(bot, wy))
}

func clampLod(l float32) float32 {
	const maxLod = MipmapLevels - (1 + lodSampleDelta)
	if l < lodSampleDelta {
		return lodSampleDelta
	}
	if l > maxLod {
		return maxLod
	}
	return l
}

// Base returns the unfiltered level-0 texture.
func (m *Mipmap[T]) Base() *Texture[T] { return m.levels[0][0] }
