// Package render owns the per-frame pipeline: building a Scene from
// configuration, then driving vertex shading, rasterization, the cel
// outline pass, and the post-process stack into a single resolved frame.
package render

import (
	"path/filepath"

	"github.com/Fidelxyz/cpu-renderer/internal/config"
	"github.com/Fidelxyz/cpu-renderer/internal/geometry"
	"github.com/Fidelxyz/cpu-renderer/internal/logging"
	"github.com/Fidelxyz/cpu-renderer/internal/scene"
	"github.com/Fidelxyz/cpu-renderer/internal/texture"
	"github.com/Fidelxyz/cpu-renderer/internal/vecmath"
)

// Scene holds everything one frame is rendered from: the camera, the
// lights, and the loaded objects, plus the effect toggles read from
// configuration.
type Scene struct {
	Camera  *scene.Camera
	Lights  []scene.Light
	Objects []*geometry.Object

	Background vecmath.Vec3

	EnableRimlight bool

	EnableBloom    bool
	BloomStrength  float32
	BloomRadius    float32
	BloomIteration int

	OutlineWidth float32
	OutlineColor vecmath.Vec3
}

// BuildScene loads every object a configuration references and resolves
// the camera, lights, and per-object shading model, material overrides
// and textures.
func BuildScene(cfg *config.Config) (*Scene, error) {
	cam := scene.NewCamera(
		vecArr64(cfg.Camera.Pos),
		vecArr64(cfg.Camera.LookDir),
		vecArr64(cfg.Camera.UpDir),
		cfg.Camera.FovDeg, cfg.Camera.NearPlane, cfg.Camera.FarPlane,
		cfg.Camera.Width, cfg.Camera.Height,
	)
	if cfg.Camera.RelaxViewCullingFactor > 0 {
		cam.RelaxViewCullingFactor = cfg.Camera.RelaxViewCullingFactor
	}

	lights := make([]scene.Light, len(cfg.Lights))
	for i, l := range cfg.Lights {
		lights[i] = scene.Light{
			Position:  vecArr32(l.Pos),
			Color:     vecArr32(l.Color),
			Intensity: l.Intensity,
		}
	}

	objects := make([]*geometry.Object, 0, len(cfg.Objects))
	for _, oc := range cfg.Objects {
		obj, err := geometry.LoadOBJ(oc.Path, oc.BasePath)
		if err != nil {
			return nil, err
		}

		obj.Position = vecArr32(oc.Pos)
		obj.Rotation = vecArr32(oc.Rotation)
		if oc.Scale == ([3]float32{}) {
			obj.Scale = vecmath.Vec3{X: 1, Y: 1, Z: 1}
		} else {
			obj.Scale = vecArr32(oc.Scale)
		}

		shadingModel := resolveShading(oc.ShadingType, cfg.EnablePBR)
		obj.ShadingType = shadingModel
		for _, mat := range obj.Materials {
			mat.Shading = shadingModel
		}

		if oc.Material != nil {
			applyMaterialOverride(obj, oc.Material, oc.BasePath)
		}

		objects = append(objects, obj)
	}

	return &Scene{
		Camera:         cam,
		Lights:         lights,
		Objects:        objects,
		Background:     vecArr32(cfg.BackgroundColor),
		EnableRimlight: cfg.EnableRimlight,
		EnableBloom:    cfg.EnableBloom,
		BloomStrength:  cfg.BloomStrength,
		BloomRadius:    cfg.BloomRadius,
		BloomIteration: cfg.BloomIteration,
		OutlineWidth:   cfg.OutlineWidth,
		OutlineColor:   vecArr32(cfg.OutlineColor),
	}, nil
}

// resolveShading maps a scene's shading-type key to the shading model
// that every material of that object is tagged with. "default" (or an
// empty value) defers to the scene-wide enable-pbr switch.
func resolveShading(key string, enablePBR bool) scene.ShadingModel {
	switch key {
	case "cel":
		return scene.ShadingCel
	case "pbr":
		return scene.ShadingPBR
	case "default", "":
		if enablePBR {
			return scene.ShadingPBR
		}
		return scene.ShadingBlinnPhong
	default:
		return scene.ShadingBlinnPhong
	}
}

// applyMaterialOverride applies a scene's per-object material block to
// every material the object's mesh loaded, scalar fields first and
// texture channels last so an explicit texname always wins over
// whatever the MTL file bound. Failed texture loads are logged and
// leave the channel unset, same as a missing MTL texture.
func applyMaterialOverride(obj *geometry.Object, ov *config.Material, basePath string) {
	for _, mat := range obj.Materials {
		if ov.Ambient != nil {
			mat.Ambient = vecArr32(*ov.Ambient)
		}
		if ov.Diffuse != nil {
			mat.Diffuse = vecArr32(*ov.Diffuse)
		}
		if ov.Specular != nil {
			mat.Specular = vecArr32(*ov.Specular)
		}
		if ov.Shininess != nil {
			mat.Shininess = *ov.Shininess
		}
		if ov.IOR != nil {
			mat.IOR = *ov.IOR
		}
		if ov.Roughness != nil {
			mat.Roughness = *ov.Roughness
		}
		if ov.Metallic != nil {
			mat.Metallic = *ov.Metallic
		}
		if ov.CelRampVariant != nil {
			mat.CelRampVariant = *ov.CelRampVariant
		}

		if ov.AmbientTexname != "" {
			mat.AmbientMap = loadRGBMap(basePath, ov.AmbientTexname, false)
		}
		if ov.DiffuseTexname != "" {
			mat.DiffuseMap = loadRGBMap(basePath, ov.DiffuseTexname, false)
		}
		if ov.SpecularTexname != "" {
			mat.SpecularMap = loadRGBMap(basePath, ov.SpecularTexname, false)
		}
		if ov.AlphaTexname != "" {
			mat.AlphaMap = loadScalarMap(basePath, ov.AlphaTexname, true)
		}
		if ov.NormalTexname != "" {
			mat.NormalMap = loadRGBMap(basePath, ov.NormalTexname, true)
		}
	}
}

func loadRGBMap(basePath, name string, linear bool) *texture.Mipmap[vecmath.Vec3] {
	base, err := texture.LoadRGB(joinPath(basePath, name), linear)
	if err != nil {
		logging.Logger().Warn("material override texture load failed", "file", name, "err", err)
		return nil
	}
	return texture.BuildMipmap(base, texture.RGBOps)
}

func loadScalarMap(basePath, name string, linear bool) *texture.Mipmap[float32] {
	base, err := texture.LoadScalar(joinPath(basePath, name), linear)
	if err != nil {
		logging.Logger().Warn("material override texture load failed", "file", name, "err", err)
		return nil
	}
	return texture.BuildMipmap(base, texture.ScalarOps)
}

func joinPath(basePath, name string) string {
	if basePath == "" {
		return name
	}
	return filepath.Join(basePath, name)
}

func vecArr32(a [3]float32) vecmath.Vec3 {
	return vecmath.Vec3{X: a[0], Y: a[1], Z: a[2]}
}

func vecArr64(a [3]float64) vecmath.Vec3d {
	return vecmath.Vec3d{X: a[0], Y: a[1], Z: a[2]}
}
