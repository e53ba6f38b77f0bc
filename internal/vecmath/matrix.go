package vecmath

import "math"

// Mat3 is a 3x3 float32 matrix in row-major storage, used for the
// per-object normal transform. Multiplication treats vectors as columns:
// (m.Mul(v)) applies m to v.
type Mat3 [3][3]float32

func Mat3Identity() Mat3 {
	return Mat3{
		{1, 0, 0},
		{0, 1, 0},
		{0, 0, 1},
	}
}

func (m Mat3) MulVec(v Vec3) Vec3 {
	return Vec3{
		X: m[0][0]*v.X + m[0][1]*v.Y + m[0][2]*v.Z,
		Y: m[1][0]*v.X + m[1][1]*v.Y + m[1][2]*v.Z,
		Z: m[2][0]*v.X + m[2][1]*v.Y + m[2][2]*v.Z,
	}
}

func (m Mat3) Mul(o Mat3) Mat3 {
	var r Mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			var sum float32
			for k := 0; k < 3; k++ {
				sum += m[i][k] * o[k][j]
			}
			r[i][j] = sum
		}
	}
	return r
}

func (m Mat3) Transpose() Mat3 {
	var r Mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			r[j][i] = m[i][j]
		}
	}
	return r
}

// Inverse returns the matrix inverse, or the identity if m is singular.
func (m Mat3) Inverse() Mat3 {
	a, b, c := m[0][0], m[0][1], m[0][2]
	d, e, f := m[1][0], m[1][1], m[1][2]
	g, h, i := m[2][0], m[2][1], m[2][2]

	det := a*(e*i-f*h) - b*(d*i-f*g) + c*(d*h-e*g)
	if det == 0 {
		return Mat3Identity()
	}
	invDet := 1 / det

	return Mat3{
		{(e*i - f*h) * invDet, (c*h - b*i) * invDet, (b*f - c*e) * invDet},
		{(f*g - d*i) * invDet, (a*i - c*g) * invDet, (c*d - a*f) * invDet},
		{(d*h - e*g) * invDet, (b*g - a*h) * invDet, (a*e - b*d) * invDet},
	}
}

func Mat3FromScale(s Vec3) Mat3 {
	return Mat3{
		{s.X, 0, 0},
		{0, s.Y, 0},
		{0, 0, s.Z},
	}
}

// Mat3RotationXYZ builds the rotation matrix for Euler angles (radians),
// composed as Rz * Ry * Rx -- matching the model transform's Z.Y.X order.
func Mat3RotationXYZ(angle Vec3) Mat3 {
	sx, cx := math.Sincos(float64(angle.X))
	sy, cy := math.Sincos(float64(angle.Y))
	sz, cz := math.Sincos(float64(angle.Z))

	rx := Mat3{
		{1, 0, 0},
		{0, float32(cx), float32(-sx)},
		{0, float32(sx), float32(cx)},
	}
	ry := Mat3{
		{float32(cy), 0, float32(sy)},
		{0, 1, 0},
		{float32(-sy), 0, float32(cy)},
	}
	rz := Mat3{
		{float32(cz), float32(-sz), 0},
		{float32(sz), float32(cz), 0},
		{0, 0, 1},
	}
	return rz.Mul(ry).Mul(rx)
}

// Mat4 is a 4x4 float32 matrix in row-major storage, applied to column
// vectors: m.MulVec4(v) computes m*v.
type Mat4 [4][4]float32

func Mat4Identity() Mat4 {
	var m Mat4
	for i := 0; i < 4; i++ {
		m[i][i] = 1
	}
	return m
}

func (m Mat4) Mul(o Mat4) Mat4 {
	var r Mat4
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			var sum float32
			for k := 0; k < 4; k++ {
				sum += m[i][k] * o[k][j]
			}
			r[i][j] = sum
		}
	}
	return r
}

func (m Mat4) MulVec4(v Vec4) Vec4 {
	return Vec4{
		X: m[0][0]*v.X + m[0][1]*v.Y + m[0][2]*v.Z + m[0][3]*v.W,
		Y: m[1][0]*v.X + m[1][1]*v.Y + m[1][2]*v.Z + m[1][3]*v.W,
		Z: m[2][0]*v.X + m[2][1]*v.Y + m[2][2]*v.Z + m[2][3]*v.W,
		W: m[3][0]*v.X + m[3][1]*v.Y + m[3][2]*v.Z + m[3][3]*v.W,
	}
}

// Mat4FromMat3 embeds a 3x3 linear transform into the upper-left block of a
// 4x4 matrix, leaving translation at zero and W row/column as identity.
func Mat4FromMat3(m Mat3) Mat4 {
	r := Mat4Identity()
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			r[i][j] = m[i][j]
		}
	}
	return r
}

func Mat4Translation(t Vec3) Mat4 {
	m := Mat4Identity()
	m[0][3] = t.X
	m[1][3] = t.Y
	m[2][3] = t.Z
	return m
}

// Mat4d is the double-precision counterpart of Mat4, used to accumulate the
// view/projection transform chain without losing precision near the near plane.
// ToMat4 narrows the result to float32 for per-vertex application.
type Mat4d [4][4]float64

func Mat4dIdentity() Mat4d {
	var m Mat4d
	for i := 0; i < 4; i++ {
		m[i][i] = 1
	}
	return m
}

func (m Mat4d) Mul(o Mat4d) Mat4d {
	var r Mat4d
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			var sum float64
			for k := 0; k < 4; k++ {
				sum += m[i][k] * o[k][j]
			}
			r[i][j] = sum
		}
	}
	return r
}

func (m Mat4d) ToMat4() Mat4 {
	var r Mat4
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			r[i][j] = float32(m[i][j])
		}
	}
	return r
}

func Mat4dTranslation(t Vec3d) Mat4d {
	m := Mat4dIdentity()
	m[0][3] = t.X
	m[1][3] = t.Y
	m[2][3] = t.Z
	return m
}

// Mat4dFromRows builds a rotation matrix whose rows are the given basis
// vectors -- used by the world-to-view transform ([left, up, look] rows).
func Mat4dFromRows(r0, r1, r2 Vec3d) Mat4d {
	m := Mat4dIdentity()
	m[0][0], m[0][1], m[0][2] = r0.X, r0.Y, r0.Z
	m[1][0], m[1][1], m[1][2] = r1.X, r1.Y, r1.Z
	m[2][0], m[2][1], m[2][2] = r2.X, r2.Y, r2.Z
	return m
}

// Mat4dPerspective builds a GL-style perspective projection mapping view
// space to NDC x,y in [-1,1] and z in [-1,1], with fovY in radians.
func Mat4dPerspective(fovY, aspect, near, far float64) Mat4d {
	f := 1 / math.Tan(fovY/2)
	var m Mat4d
	m[0][0] = f / aspect
	m[1][1] = f
	m[2][2] = (far + near) / (near - far)
	m[2][3] = (2 * far * near) / (near - far)
	m[3][2] = -1
	return m
}

// Vec3d is a double-precision 3-vector used by the camera transform chain.
type Vec3d struct {
	X, Y, Z float64
}

func NewVec3d(x, y, z float64) Vec3d { return Vec3d{x, y, z} }
func Vec3dFromVec3(v Vec3) Vec3d     { return Vec3d{float64(v.X), float64(v.Y), float64(v.Z)} }

func (v Vec3d) ToVec3() Vec3 { return Vec3{float32(v.X), float32(v.Y), float32(v.Z)} }

func (v Vec3d) Add(o Vec3d) Vec3d { return Vec3d{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3d) Sub(o Vec3d) Vec3d { return Vec3d{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vec3d) Mul(s float64) Vec3d { return Vec3d{v.X * s, v.Y * s, v.Z * s} }
func (v Vec3d) Negate() Vec3d     { return Vec3d{-v.X, -v.Y, -v.Z} }
func (v Vec3d) Dot(o Vec3d) float64 { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }

func (v Vec3d) Cross(o Vec3d) Vec3d {
	return Vec3d{
		X: v.Y*o.Z - v.Z*o.Y,
		Y: v.Z*o.X - v.X*o.Z,
		Z: v.X*o.Y - v.Y*o.X,
	}
}

func (v Vec3d) Length() float64 { return math.Sqrt(v.Dot(v)) }

func (v Vec3d) Normalize() Vec3d {
	l := v.Length()
	if l == 0 {
		return v
	}
	return v.Mul(1 / l)
}
