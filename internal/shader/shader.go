// Package shader implements the fragment shading models: Blinn-Phong,
// cel (toon) shading with its outline pass, and a Disney-style
// metallic-roughness PBR model. Each model is a concrete type implementing
// the Shader interface: callers hold a Shader value and call Shade on it.
package shader

import (
	"github.com/Fidelxyz/cpu-renderer/internal/scene"
	"github.com/Fidelxyz/cpu-renderer/internal/texture"
	"github.com/Fidelxyz/cpu-renderer/internal/vecmath"
)

// Shader computes the linear-RGB color of one shaded fragment. pos and
// normal are world-space, uv/duv come from the rasterizer's
// perspective-corrected interpolation and screen-space derivative
// estimate. eye is the camera position, used to compute the view vector.
type Shader interface {
	Shade(pos, normal vecmath.Vec3, uv, duv vecmath.Vec2, mat *scene.Material, lights []scene.Light, eye vecmath.Vec3) vecmath.Vec3
}

// sampleRGB reads a material's optional texture channel via its mipmap,
// selecting LOD from duv, or returns fallback when the channel has no
// texture bound.
func sampleRGB(mm *texture.Mipmap[vecmath.Vec3], fallback vecmath.Vec3, uv, duv vecmath.Vec2) vecmath.Vec3 {
	if mm == nil {
		return fallback
	}
	lodX, lodY := texture.Lod(duv, mm.Base().Width, mm.Base().Height)
	return mm.Sample(uv.X, uv.Y, lodX, lodY, texture.Wrap)
}

// sampleScalar is sampleRGB's single-channel counterpart.
func sampleScalar(mm *texture.Mipmap[float32], fallback float32, uv, duv vecmath.Vec2) float32 {
	if mm == nil {
		return fallback
	}
	lodX, lodY := texture.Lod(duv, mm.Base().Width, mm.Base().Height)
	return mm.Sample(uv.X, uv.Y, lodX, lodY, texture.Wrap)
}

// lightContribution returns (L, reflection) for a light seen from pos:
// L is the unit direction from the surface to the light, reflection is
// the light's color scaled by intensity over squared distance.
func lightContribution(l scene.Light, pos vecmath.Vec3) (lDir, reflection vecmath.Vec3) {
	toLight := l.Position.Sub(pos)
	distSqr := toLight.Dot(toLight)
	if distSqr < 1e-8 {
		distSqr = 1e-8
	}
	lDir = toLight.Normalize()
	reflection = l.Color.Mul(l.Intensity / distSqr)
	return
}

func clampUnit(v vecmath.Vec3) vecmath.Vec3 {
	return vecmath.Vec3{X: clamp01(v.X), Y: clamp01(v.Y), Z: clamp01(v.Z)}
}

func clamp01(x float32) float32 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

func maxf(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

func lerpVec3(a, b vecmath.Vec3, t float32) vecmath.Vec3 {
	return a.Mul(1 - t).Add(b.Mul(t))
}
