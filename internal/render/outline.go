package render

import (
	"math"

	"github.com/Fidelxyz/cpu-renderer/internal/gbuffer"
	"github.com/Fidelxyz/cpu-renderer/internal/geometry"
	"github.com/Fidelxyz/cpu-renderer/internal/scene"
	"github.com/Fidelxyz/cpu-renderer/internal/shader"
	"github.com/Fidelxyz/cpu-renderer/internal/vecmath"
	"github.com/Fidelxyz/cpu-renderer/internal/workerpool"
)

// outlineEpsilon is the ε in the displacement formula `view_vec.normalize()
// * 50ε`, a small constant push away from the camera (view_vec runs from
// the camera to the vertex) that keeps the expanded shell from z-fighting
// with the body mesh at grazing angles.
const outlineEpsilon = 1e-5

// renderOutline re-rasterizes a cel-shaded object's mesh a second time:
// every vertex is displaced outward along its normal, scaled by
// OUTLINE_WIDTH and tanh(|view_vec|), so vertices close to the camera are
// pushed out less; beyond a few units tanh is near 1 and the world-space
// push is constant, so the band narrows on screen with distance. Then the
// expanded shell is drawn front-face-culled with a solid-color shader
// so only its far side (the silhouette as seen from the camera) survives
// the normal-based cull test.
func renderOutline(obj *geometry.Object, buf *gbuffer.Buffer, cam *scene.Camera, lights []scene.Light, width float32, color vecmath.Vec3, screenMatrix vecmath.Mat4, pool *workerpool.Pool) {
	camPos := cam.Position.ToVec3()
	original := obj.Vertices

	displaced := make([]geometry.Vertex, len(original))
	for i, v := range original {
		viewVec := v.Pos.Sub(camPos)
		push := width * float32(math.Tanh(float64(viewVec.Length())))
		pos := v.Pos.Add(v.Normal.Mul(push)).Add(viewVec.Normalize().Mul(50 * outlineEpsilon))
		displaced[i] = geometry.Vertex{Pos: pos, Normal: v.Normal}
		displaced[i].Shade(screenMatrix)
	}

	obj.Vertices = displaced
	defer func() { obj.Vertices = original }()

	tris := obj.Triangles()
	sh := shader.Outline{Color: color}
	pool.ParallelFor(len(tris), func(i int) {
		tris[i].Rasterize(obj, buf, sh, cam, lights, geometry.CullFront)
	})
}
