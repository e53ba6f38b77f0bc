// Package vecmath provides the vector and matrix types shared by every
// stage of the rasterizer, from model transforms through fragment shading.
//
// Vectors and 3x3/4x4 matrices are float32 (shading runs in float32 to
// match the rest of the pipeline); the camera transform chain accumulates
// in float64 (see Mat4d) to avoid precision loss near the near plane before
// the final matrix is narrowed to float32 for per-vertex use.
package vecmath

import "math"

// Vec2 is a 2-component float32 vector, used for texture coordinates and
// screen-space derivatives.
type Vec2 struct {
	X, Y float32
}

func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }
func (v Vec2) Mul(s float32) Vec2 { return Vec2{v.X * s, v.Y * s} }
func (v Vec2) Dot(o Vec2) float32 { return v.X*o.X + v.Y*o.Y }

// Cross2D returns the z-component of the 3D cross product of two 2D
// vectors, i.e. the signed area of the parallelogram they span.
func Cross2D(a, b Vec2) float32 { return a.X*b.Y - a.Y*b.X }

// Vec3 is a 3-component float32 vector: positions, normals, and RGB color.
type Vec3 struct {
	X, Y, Z float32
}

var (
	Vec3Zero = Vec3{0, 0, 0}
	Vec3One  = Vec3{1, 1, 1}
	Vec3Up   = Vec3{0, 1, 0}
)

func NewVec3(x, y, z float32) Vec3 { return Vec3{X: x, Y: y, Z: z} }

func (v Vec3) Add(o Vec3) Vec3      { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Sub(o Vec3) Vec3      { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vec3) Mul(s float32) Vec3   { return Vec3{v.X * s, v.Y * s, v.Z * s} }
func (v Vec3) MulVec(o Vec3) Vec3   { return Vec3{v.X * o.X, v.Y * o.Y, v.Z * o.Z} }
func (v Vec3) Div(s float32) Vec3   { return v.Mul(1 / s) }
func (v Vec3) Negate() Vec3         { return Vec3{-v.X, -v.Y, -v.Z} }
func (v Vec3) Dot(o Vec3) float32   { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }

func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		X: v.Y*o.Z - v.Z*o.Y,
		Y: v.Z*o.X - v.X*o.Z,
		Z: v.X*o.Y - v.Y*o.X,
	}
}

func (v Vec3) LengthSqr() float32 { return v.X*v.X + v.Y*v.Y + v.Z*v.Z }
func (v Vec3) Length() float32    { return float32(math.Sqrt(float64(v.LengthSqr()))) }

func (v Vec3) Normalize() Vec3 {
	l := v.Length()
	if l == 0 {
		return v
	}
	return v.Mul(1 / l)
}

func (v Vec3) Lerp(o Vec3, t float32) Vec3 { return v.Add(o.Sub(v).Mul(t)) }

// Clamp01 clamps each component to [0, 1].
func (v Vec3) Clamp01() Vec3 {
	return Vec3{clamp(v.X, 0, 1), clamp(v.Y, 0, 1), clamp(v.Z, 0, 1)}
}

// Luminance returns the Rec. 709 relative luminance of an RGB color.
func (v Vec3) Luminance() float32 { return 0.2126*v.X + 0.7152*v.Y + 0.0722*v.Z }

func (v Vec3) ToVec4(w float32) Vec4 { return Vec4{v.X, v.Y, v.Z, w} }

func clamp(x, lo, hi float32) float32 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// Vec4 is a homogeneous 4-component vector, the result of a matrix-position
// multiply before the perspective divide.
type Vec4 struct {
	X, Y, Z, W float32
}

func (v Vec4) Vec3() Vec3 { return Vec3{v.X, v.Y, v.Z} }

// DivW performs the perspective divide, returning the Cartesian position.
func (v Vec4) DivW() Vec3 {
	if v.W == 0 {
		return v.Vec3()
	}
	return Vec3{v.X / v.W, v.Y / v.W, v.Z / v.W}
}
