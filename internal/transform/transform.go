// Package transform builds the matrix chain that carries a vertex from
// object space to screen space: model (scale, rotate, translate), normal
// (inverse-transpose of the model's rotation+scale), view (world to
// camera), projection (camera to clip), and viewport (NDC to pixels).
//
// The camera-facing matrices (view, projection) are accumulated in double
// precision and narrowed to float32 only once composed, matching the
// source renderer's use of Eigen's double-precision matrix type for the
// camera chain while per-vertex work stays in float32.
package transform

import "github.com/Fidelxyz/cpu-renderer/internal/vecmath"

// Model builds the object-to-world matrix for the given translation,
// Euler rotation (degrees, applied in Z, then Y, then X order) and scale.
// Transforms compose right-to-left: a point is scaled, then rotated, then
// translated.
func Model(position, rotationDeg, scale vecmath.Vec3) vecmath.Mat4 {
	s := vecmath.Mat4FromMat3(vecmath.Mat3FromScale(scale))
	r := vecmath.Mat4FromMat3(vecmath.Mat3RotationXYZ(rotationDeg.Mul(3.14159265358979323846 / 180)))
	t := vecmath.Mat4Translation(position)
	return t.Mul(r).Mul(s)
}

// Normal builds the matrix that carries object-space normals to world
// space. Normals transform by the inverse-transpose of the model's
// rotation+scale block (no translation row to strip, and no inverse
// needed when scale is uniform, but non-uniform scale requires it in
// general).
func Normal(rotationDeg, scale vecmath.Vec3) vecmath.Mat3 {
	s := vecmath.Mat3FromScale(scale)
	r := vecmath.Mat3RotationXYZ(rotationDeg.Mul(3.14159265358979323846 / 180))
	m := r.Mul(s)
	return m.Inverse().Transpose()
}

// View builds the world-to-camera matrix from the camera's position and
// an orthonormal (left, up, look) basis, accumulated in double precision.
// The camera sits at the origin of its own frame looking down -look with
// up as given; rows of the rotation block are the basis vectors
// themselves, since transforming world space into a space defined by
// ortho normal basis vectors is the transpose of the basis-to-world
// rotation.
func View(pos vecmath.Vec3d, left, up, look vecmath.Vec3d) vecmath.Mat4d {
	rot := vecmath.Mat4dFromRows(left, up, look)
	trans := vecmath.Mat4dTranslation(pos.Negate())
	return rot.Mul(trans)
}

// Projection builds the camera-to-clip perspective matrix. fovYDeg is the
// vertical field of view in degrees.
func Projection(fovYDeg, aspect, near, far float64) vecmath.Mat4d {
	const degToRad = 3.14159265358979323846 / 180
	return vecmath.Mat4dPerspective(fovYDeg*degToRad, aspect, near, far)
}

// Viewport maps NDC coordinates ([-1,1] on all three axes) to screen
// pixels: x across [0,width], y across [0,height] with the vertical axis
// flipped (NDC +y is up, screen +y is down), and z compressed to [0,1]
// for the depth buffer.
func Viewport(width, height int) vecmath.Mat4 {
	w, h := float32(width), float32(height)
	m := vecmath.Mat4Identity()
	m[0][0] = w / 2
	m[0][3] = w / 2
	m[1][1] = -h / 2
	m[1][3] = h / 2
	m[2][2] = 0.5
	m[2][3] = 0.5
	return m
}
