package scene

import (
	"github.com/Fidelxyz/cpu-renderer/internal/texture"
	"github.com/Fidelxyz/cpu-renderer/internal/vecmath"
)

// ShadingModel selects the fragment shader a material is rendered with.
type ShadingModel int

const (
	ShadingBlinnPhong ShadingModel = iota
	ShadingCel
	ShadingPBR
)

// Material holds the constant and per-texel inputs a fragment shader
// reads. Scalar fields are the fallback used when the corresponding
// texture handle is nil; textures, when present, are sampled instead via
// their mipmap pyramid.
type Material struct {
	Name string

	Ambient  vecmath.Vec3
	Diffuse  vecmath.Vec3
	Specular vecmath.Vec3
	Emission vecmath.Vec3

	Shininess float32
	IOR       float32
	Dissolve  float32 // opacity, 1 = fully opaque

	Roughness float32
	Metallic  float32

	Shading ShadingModel

	// CelRampVariant selects the single-step ramp curve used by the cel
	// shader for materials meant to render a flat, unshaded face (the
	// source renderer special-cased two hardcoded material names for
	// this; callers set it explicitly from scene configuration instead).
	CelRampVariant bool

	AmbientMap   *texture.Mipmap[vecmath.Vec3]
	DiffuseMap   *texture.Mipmap[vecmath.Vec3]
	SpecularMap  *texture.Mipmap[vecmath.Vec3]
	EmissiveMap  *texture.Mipmap[vecmath.Vec3]
	NormalMap    *texture.Mipmap[vecmath.Vec3]
	BumpMap      *texture.Mipmap[float32]
	RoughnessMap *texture.Mipmap[float32]
	MetallicMap  *texture.Mipmap[float32]
	AlphaMap     *texture.Mipmap[float32]
}

// DefaultMaterial is used when an OBJ face has no usemtl in effect, or a
// referenced material name is missing from the MTL library.
func DefaultMaterial() *Material {
	return &Material{
		Name:      "default",
		Ambient:   vecmath.Vec3{X: 0.1, Y: 0.1, Z: 0.1},
		Diffuse:   vecmath.Vec3{X: 0.8, Y: 0.8, Z: 0.8},
		Specular:  vecmath.Vec3{X: 0.5, Y: 0.5, Z: 0.5},
		Shininess: 32,
		IOR:       1,
		Dissolve:  1,
		Roughness: 0.5,
		Metallic:  0,
		Shading:   ShadingBlinnPhong,
	}
}
