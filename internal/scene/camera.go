package scene

import (
	"github.com/Fidelxyz/cpu-renderer/internal/transform"
	"github.com/Fidelxyz/cpu-renderer/internal/vecmath"
)

// Camera describes the viewpoint a frame is rendered from. Position and
// the look/up directions are given in world space; View and Projection
// derive the matrices used by the transform chain, accumulated in double
// precision before being narrowed to float32 for per-vertex use.
type Camera struct {
	Position vecmath.Vec3d
	LookDir  vecmath.Vec3d
	UpDir    vecmath.Vec3d

	FovYDeg   float64
	Near, Far float64
	Width     int
	Height    int

	// RelaxViewCullingFactor expands the view frustum bounds used for
	// triangle culling by this factor, so geometry just outside NDC
	// bounds (e.g. due to wide outline displacement) is not dropped
	// before rasterization.
	RelaxViewCullingFactor float64
}

// NewCamera normalizes LookDir and UpDir and re-orthogonalizes UpDir
// against LookDir (Gram-Schmidt), so a caller-supplied up vector that
// isn't already perpendicular to the look direction still produces a
// valid orthonormal basis.
func NewCamera(pos, lookDir, upDir vecmath.Vec3d, fovYDeg, near, far float64, width, height int) *Camera {
	look := lookDir.Normalize()
	up := upDir.Sub(look.Mul(look.Dot(upDir))).Normalize()
	return &Camera{
		Position:               pos,
		LookDir:                look,
		UpDir:                  up,
		FovYDeg:                fovYDeg,
		Near:                   near,
		Far:                    far,
		Width:                  width,
		Height:                 height,
		RelaxViewCullingFactor: 1,
	}
}

// Basis returns the camera's orthonormal (left, up, look) frame. left is
// up x look so that (left, up, look) forms a right-handed basis matching
// the view matrix's row convention.
func (c *Camera) Basis() (left, up, look vecmath.Vec3d) {
	look = c.LookDir
	up = c.UpDir
	left = up.Cross(look).Normalize()
	return
}

// Aspect returns width/height.
func (c *Camera) Aspect() float64 {
	return float64(c.Width) / float64(c.Height)
}

// ViewMatrix returns the world-to-camera matrix in double precision.
func (c *Camera) ViewMatrix() vecmath.Mat4d {
	left, up, look := c.Basis()
	return transform.View(c.Position, left, up, look)
}

// ProjectionMatrix returns the camera-to-clip perspective matrix in
// double precision.
func (c *Camera) ProjectionMatrix() vecmath.Mat4d {
	return transform.Projection(c.FovYDeg, c.Aspect(), c.Near, c.Far)
}

// ViewportMatrix returns the NDC-to-pixel matrix.
func (c *Camera) ViewportMatrix() vecmath.Mat4 {
	return transform.Viewport(c.Width, c.Height)
}

// ViewProjection returns the combined view-projection matrix narrowed to
// float32, used for per-vertex transforms.
func (c *Camera) ViewProjection() vecmath.Mat4 {
	vp := c.ProjectionMatrix().Mul(c.ViewMatrix())
	return vp.ToMat4()
}

// ScreenMatrix returns the single matrix the vertex shader applies to an
// object-space position: viewport * projection * view. Because the
// viewport matrix is affine (its bottom row is [0,0,0,1]), folding it
// into the chain before the perspective divide gives the same result as
// applying it to NDC afterward -- the divide distributes over its linear
// part and its translation scales correctly by the homogeneous w.
func (c *Camera) ScreenMatrix() vecmath.Mat4 {
	return c.ViewportMatrix().Mul(c.ViewProjection())
}
