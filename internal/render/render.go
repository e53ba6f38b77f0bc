package render

import (
	"github.com/Fidelxyz/cpu-renderer/internal/gbuffer"
	"github.com/Fidelxyz/cpu-renderer/internal/geometry"
	"github.com/Fidelxyz/cpu-renderer/internal/postprocess"
	"github.com/Fidelxyz/cpu-renderer/internal/scene"
	"github.com/Fidelxyz/cpu-renderer/internal/shader"
	"github.com/Fidelxyz/cpu-renderer/internal/texture"
	"github.com/Fidelxyz/cpu-renderer/internal/vecmath"
	"github.com/Fidelxyz/cpu-renderer/internal/workerpool"
)

// triangleJob pairs a triangle with the object that owns it, so every
// triangle across every object can be handed to the pool as one flat
// work list instead of nesting ParallelFor per object (which would
// starve workers once the smallest object's triangles run out).
type triangleJob struct {
	obj *geometry.Object
	tri *geometry.Triangle
}

func shaderFor(model scene.ShadingModel) shader.Shader {
	switch model {
	case scene.ShadingCel:
		return shader.Cel{}
	case scene.ShadingPBR:
		return shader.PBR{}
	default:
		return shader.BlinnPhong{}
	}
}

// Render runs one full frame: model/normal transform and vertex shading
// per object, rasterization, the cel outline pass, rim-light, MSAA
// resolve, SSAO with its bilateral smoothing pass, and optional bloom.
// The returned texture is linear RGB; texture.SaveRGBPNG gamma-encodes
// it on write.
func Render(sc *Scene, pool *workerpool.Pool) *texture.Texture[vecmath.Vec3] {
	screenMatrix := sc.Camera.ScreenMatrix()

	pool.ParallelFor(len(sc.Objects), func(i int) {
		obj := sc.Objects[i]
		obj.TransformVertices()
		for v := range obj.Vertices {
			obj.Vertices[v].Shade(screenMatrix)
		}
		for s := range obj.Shapes {
			for t := range obj.Shapes[s].Triangles {
				obj.Shapes[s].Triangles[t].PrepareTBN(obj)
			}
		}
	})

	buf := gbuffer.New(sc.Camera.Width, sc.Camera.Height, sc.Background)

	var jobs []triangleJob
	for _, obj := range sc.Objects {
		for _, tri := range obj.Triangles() {
			jobs = append(jobs, triangleJob{obj, tri})
		}
	}
	pool.ParallelFor(len(jobs), func(i int) {
		j := jobs[i]
		mat := j.obj.Materials[j.tri.MaterialIdx]
		j.tri.Rasterize(j.obj, buf, shaderFor(mat.Shading), sc.Camera, sc.Lights, geometry.CullBack)
	})

	for _, obj := range sc.Objects {
		if obj.ShadingType == scene.ShadingCel {
			renderOutline(obj, buf, sc.Camera, sc.Lights, sc.OutlineWidth, sc.OutlineColor, screenMatrix, pool)
		}
	}

	if sc.EnableRimlight {
		postprocess.ApplyRimLight(buf, float32(sc.Camera.Near), float32(sc.Camera.Far))
	}

	frame := buf.ResolveFrame()

	ao := postprocess.ComputeSSAO(buf, sc.Camera)
	ao = postprocess.BilateralBlurAO(ao)
	applyAO(frame, ao)

	if sc.EnableBloom {
		frame = postprocess.ApplyBloom(frame, sc.BloomStrength, sc.BloomRadius, sc.BloomIteration)
	}

	return frame
}

func applyAO(frame *texture.Texture[vecmath.Vec3], ao *texture.Texture[float32]) {
	for y := 0; y < frame.Height; y++ {
		for x := 0; x < frame.Width; x++ {
			frame.Set(x, y, frame.At(x, y).Mul(ao.At(x, y)))
		}
	}
}
