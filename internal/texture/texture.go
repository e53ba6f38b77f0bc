// Package texture implements the 2D image buffers sampled by materials:
// scalar (roughness, metallic, alpha, bump) and RGB (color, normal) data,
// bilinear sampling with wrap or clamp addressing, gamma decode/encode on
// the image boundary, and the mipmap pyramid used for LOD filtering.
//
// The C++ original monomorphized a Texture<T> template over {float, vec3}.
// Go has no templates, so Texture[T] is generic over an Ops[T] value that
// supplies the arithmetic (Add, Scale) the generic code needs -- a small
// type-class-like capability, per the rest of the pipeline's convention of
// passing behavior as explicit values rather than relying on inheritance.
package texture

import (
	"github.com/Fidelxyz/cpu-renderer/internal/vecmath"
)

// Ops supplies the pixel arithmetic a Texture[T] needs for filtering
// (box-downsampling, bilinear blending) without requiring T to implement
// any particular interface.
type Ops[T any] struct {
	Add   func(a, b T) T
	Scale func(a T, s float32) T
}

// ScalarOps is the Ops value for single-channel float32 textures (alpha
// masks, roughness, metallic, bump).
var ScalarOps = Ops[float32]{
	Add:   func(a, b float32) float32 { return a + b },
	Scale: func(a float32, s float32) float32 { return a * s },
}

// RGBOps is the Ops value for 3-channel vecmath.Vec3 textures (diffuse,
// ambient, specular, normal, emissive).
var RGBOps = Ops[vecmath.Vec3]{
	Add:   func(a, b vecmath.Vec3) vecmath.Vec3 { return a.Add(b) },
	Scale: func(a vecmath.Vec3, s float32) vecmath.Vec3 { return a.Mul(s) },
}

// Texture is a row-major image of W x H pixels of type T, y=0 at the top.
type Texture[T any] struct {
	Width, Height int
	Data          []T
	ops           Ops[T]
}

// New allocates a zero-valued W x H texture.
func New[T any](width, height int, ops Ops[T]) *Texture[T] {
	return &Texture[T]{
		Width:  width,
		Height: height,
		Data:   make([]T, width*height),
		ops:    ops,
	}
}

// NewFromData wraps an existing row-major pixel slice; len(data) must equal
// width*height.
func NewFromData[T any](width, height int, data []T, ops Ops[T]) *Texture[T] {
	if len(data) != width*height {
		panic("texture: data length does not match width*height")
	}
	return &Texture[T]{Width: width, Height: height, Data: data, ops: ops}
}

func (t *Texture[T]) At(x, y int) T {
	return t.Data[y*t.Width+x]
}

func (t *Texture[T]) Set(x, y int, v T) {
	t.Data[y*t.Width+x] = v
}

// Clamp clamps pixel coordinates to the valid [0,W)x[0,H) range.
func (t *Texture[T]) Clamp(x, y int) (int, int) {
	if x < 0 {
		x = 0
	} else if x >= t.Width {
		x = t.Width - 1
	}
	if y < 0 {
		y = 0
	} else if y >= t.Height {
		y = t.Height - 1
	}
	return x, y
}
