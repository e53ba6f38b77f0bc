package scene

import "github.com/Fidelxyz/cpu-renderer/internal/vecmath"

// Light is a point light: an isotropic emitter with a color and scalar
// intensity multiplier, no falloff curve beyond what the shading model
// applies itself.
type Light struct {
	Position  vecmath.Vec3
	Color     vecmath.Vec3
	Intensity float32
}

// Radiance returns Color scaled by Intensity, the value shaders multiply
// by attenuation and BRDF terms.
func (l Light) Radiance() vecmath.Vec3 {
	return l.Color.Mul(l.Intensity)
}
