package shader

import (
	"math"

	"github.com/Fidelxyz/cpu-renderer/internal/scene"
	"github.com/Fidelxyz/cpu-renderer/internal/vecmath"
)

// BlinnPhong is the classic ambient + diffuse + specular shading model.
type BlinnPhong struct{}

func (BlinnPhong) Shade(pos, normal vecmath.Vec3, uv, duv vecmath.Vec2, mat *scene.Material, lights []scene.Light, eye vecmath.Vec3) vecmath.Vec3 {
	n := normal.Normalize()
	v := eye.Sub(pos).Normalize()

	ambient := sampleRGB(mat.AmbientMap, mat.Ambient, uv, duv)
	diffuse := sampleRGB(mat.DiffuseMap, mat.Diffuse, uv, duv)
	specular := sampleRGB(mat.SpecularMap, mat.Specular, uv, duv)

	color := ambient
	for _, light := range lights {
		l, reflection := lightContribution(light, pos)
		h := l.Add(v).Normalize()

		ndotl := maxf(0, n.Dot(l))
		ndoth := maxf(0, n.Dot(h))

		color = color.Add(reflection.MulVec(diffuse).Mul(ndotl))
		if ndoth > 0 && mat.Shininess > 0 {
			spec := float32(math.Pow(float64(ndoth), float64(mat.Shininess)))
			color = color.Add(reflection.MulVec(specular).Mul(spec))
		}
	}
	return color
}
