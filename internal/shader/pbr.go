package shader

import (
	"math"

	"github.com/Fidelxyz/cpu-renderer/internal/scene"
	"github.com/Fidelxyz/cpu-renderer/internal/vecmath"
)

const pbrEpsilon = 1e-4

// PBR is a Disney-style metallic-roughness model: a Burley diffuse term,
// GGX normal distribution, Smith-joint geometry term and Schlick Fresnel.
type PBR struct{}

func pow5(x float32) float32 {
	x2 := x * x
	return x2 * x2 * x
}

func (PBR) Shade(pos, normal vecmath.Vec3, uv, duv vecmath.Vec2, mat *scene.Material, lights []scene.Light, eye vecmath.Vec3) vecmath.Vec3 {
	n := normal.Normalize()
	v := eye.Sub(pos).Normalize()

	base := sampleRGB(mat.DiffuseMap, mat.Diffuse, uv, duv)
	roughness := sampleScalar(mat.RoughnessMap, mat.Roughness, uv, duv)
	metallic := sampleScalar(mat.MetallicMap, mat.Metallic, uv, duv)

	ndotv := maxf(1e-4, n.Dot(v))

	alpha := roughness * roughness
	k := (roughness + 1) * (roughness + 1) / 8

	f0 := lerpVec3(vecmath.Vec3{X: 0.04, Y: 0.04, Z: 0.04}, base, metallic)

	var lo vecmath.Vec3
	for _, light := range lights {
		l, reflection := lightContribution(light, pos)
		h := l.Add(v).Normalize()

		ndotl := maxf(0, n.Dot(l))
		if ndotl <= 0 {
			continue
		}
		ndoth := maxf(0, n.Dot(h))
		ldoth := maxf(0, l.Dot(h))

		fd90 := 0.5 + 2*roughness*ldoth*ldoth
		lightScatter := 1 + (fd90-1)*pow5(1-ndotl)
		viewScatter := 1 + (fd90-1)*pow5(1-ndotv)
		diffuse := base.Mul(float32(1.0/math.Pi) * lightScatter * viewScatter)

		denom := ndoth*ndoth*(alpha*alpha-1) + 1
		d := alpha * alpha / (float32(math.Pi) * denom * denom)

		g := (ndotv / (ndotv*(1-k) + k)) * (ndotl / (ndotl*(1-k) + k))

		f := f0.Add(vecmath.Vec3{X: 1, Y: 1, Z: 1}.Sub(f0).Mul(pow5(1 - ndotv)))

		specDenom := 4*ndotv*ndotl + pbrEpsilon
		specular := f.Mul(d * g / specDenom)

		lo = lo.Add(reflection.MulVec(diffuse.Add(specular)).Mul(ndotl))
	}

	occlusion := sampleScalar(mat.BumpMap, 1, uv, duv)
	lo = lo.Mul(0.5 + 0.5*occlusion)

	emissive := sampleRGB(mat.EmissiveMap, mat.Emission, uv, duv)
	lo = lo.Add(emissive.Mul(mat.IOR))

	return lo
}
