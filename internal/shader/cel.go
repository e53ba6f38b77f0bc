package shader

import (
	"math"

	"github.com/Fidelxyz/cpu-renderer/internal/scene"
	"github.com/Fidelxyz/cpu-renderer/internal/vecmath"
)

// celRampSmoothness is the half-width of the smoothstep transition zone
// around each ramp plateau boundary. The source renderer's exact
// smoothness constant wasn't in the kept material; this value gives a
// visibly banded toon look without a hard edge.
const celRampSmoothness = 0.05

const (
	celRampLow  = 0.3
	celRampMid  = 0.6
	celRampHigh = 0.8
)

func smoothstep(x, t1, t2 float32) float32 {
	if x <= t1 {
		return 0
	}
	if x >= t2 {
		return 1
	}
	k := (x - t1) / (t2 - t1)
	return k * k * (3 - 2*k)
}

// celRamp quantizes luminance into three bands plateaued at 0.3, 0.6 and
// 0.8, with a smooth transition at each boundary.
func celRamp(y float32) float32 {
	b1 := smoothstep(y, celRampLow-celRampSmoothness, celRampLow+celRampSmoothness)
	b2 := smoothstep(y, celRampMid-celRampSmoothness, celRampMid+celRampSmoothness)
	return celRampLow + b1*(celRampMid-celRampLow) + b2*(celRampHigh-celRampMid)
}

// celRampFace is the single-step ramp used for materials whose
// CelRampVariant flag is set: a flatter two-level look for faces, rather
// than the regular three-band body ramp.
func celRampFace(y float32) float32 {
	b := smoothstep(y, 0.5-celRampSmoothness, 0.5+celRampSmoothness)
	return celRampLow + b*(celRampHigh-celRampLow)
}

// Cel is the toon shading model: diffuse light is quantized into flat
// bands via celRamp, then the outline pass (a separate rasterization,
// see internal/render) draws the silhouette.
type Cel struct{}

func (Cel) Shade(pos, normal vecmath.Vec3, uv, duv vecmath.Vec2, mat *scene.Material, lights []scene.Light, eye vecmath.Vec3) vecmath.Vec3 {
	n := normal.Normalize()

	ambient := sampleRGB(mat.AmbientMap, mat.Ambient, uv, duv)
	diffuseColor := sampleRGB(mat.DiffuseMap, mat.Diffuse, uv, duv)

	var diffuse vecmath.Vec3
	for _, light := range lights {
		l, _ := lightContribution(light, pos)
		ndotl := maxf(0, n.Dot(l))
		diffuse = diffuse.Add(light.Color.Mul(light.Intensity * ndotl / math.Pi))
	}

	y := clamp01(diffuse.Luminance())

	var ramped float32
	if mat.CelRampVariant {
		ramped = celRampFace(y)
	} else {
		ramped = celRamp(y)
	}

	var scaled vecmath.Vec3
	if y < 1e-4 {
		scaled = diffuseColor.Mul(ramped)
	} else {
		scaled = diffuseColor.MulVec(diffuse).Mul(ramped / y)
	}

	return ambient.Add(scaled)
}

// Outline is the silhouette pass's fragment shader: a fixed solid color,
// regardless of geometry.
type Outline struct {
	Color vecmath.Vec3
}

func (o Outline) Shade(pos, normal vecmath.Vec3, uv, duv vecmath.Vec2, mat *scene.Material, lights []scene.Light, eye vecmath.Vec3) vecmath.Vec3 {
	return o.Color
}
