// Package geometry implements the mesh data model (Vertex, Triangle,
// Shape, Object) and the rasterizer: the per-triangle routine that turns
// a shaded triangle into writes against a G-buffer.
package geometry

import "github.com/Fidelxyz/cpu-renderer/internal/vecmath"

// Vertex carries one mesh vertex through the pipeline. Pos is
// object-space (after the owning Object's model transform has already
// been applied, both to position and Normal). ScreenPos and W are filled
// in by Shade.
type Vertex struct {
	Pos    vecmath.Vec3
	Normal vecmath.Vec3

	// ScreenPos is (pixel.x, pixel.y, depth) with depth in [0,1], valid
	// after Shade.
	ScreenPos vecmath.Vec3
	// W is the view-space -z used as the perspective divisor.
	W float32
}

// Shade applies the combined world-to-screen matrix to Pos, writing
// ScreenPos and W. It does not touch Normal: normals are already in
// world space from the object's normal transform.
func (v *Vertex) Shade(screenMatrix vecmath.Mat4) {
	homog := screenMatrix.MulVec4(vecmath.Vec4{X: v.Pos.X, Y: v.Pos.Y, Z: v.Pos.Z, W: 1})
	v.W = homog.W
	if homog.W == 0 {
		v.ScreenPos = vecmath.Vec3{}
		return
	}
	inv := 1 / homog.W
	v.ScreenPos = vecmath.Vec3{X: homog.X * inv, Y: homog.Y * inv, Z: homog.Z * inv}
}
