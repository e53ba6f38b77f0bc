package postprocess

import (
	"github.com/Fidelxyz/cpu-renderer/internal/texture"
	"github.com/Fidelxyz/cpu-renderer/internal/vecmath"
)

// downSample is a 5-tap tent filter reading from the next finer level
// of the bloom pyramid. offset and texelSizeHalf are passed explicitly
// rather than held in module state, so the pass has no shared mutable
// configuration between levels.
func downSample(src *texture.Texture[vecmath.Vec3], u, v float32, texelSizeHalf vecmath.Vec2, offset float32) vecmath.Vec3 {
	sample := func(du, dv float32) vecmath.Vec3 {
		return src.SampleBilinear(u+du, v+dv, texture.Clamp)
	}
	sum := sample(0, 0).Mul(4)
	sum = sum.Add(sample(texelSizeHalf.X*offset, texelSizeHalf.Y*offset))
	sum = sum.Add(sample(texelSizeHalf.X*offset, -texelSizeHalf.Y*offset))
	sum = sum.Add(sample(-texelSizeHalf.X*offset, -texelSizeHalf.Y*offset))
	sum = sum.Add(sample(-texelSizeHalf.X*offset, texelSizeHalf.Y*offset))
	return sum.Mul(1.0 / 8)
}

// upSample is an 8-tap tent filter reading from the next coarser level of
// the pyramid being rebuilt.
func upSample(src *texture.Texture[vecmath.Vec3], u, v float32, texelSize, texelSizeHalf vecmath.Vec2, offset float32) vecmath.Vec3 {
	sample := func(du, dv float32) vecmath.Vec3 {
		return src.SampleBilinear(u+du, v+dv, texture.Clamp)
	}
	sum := sample(texelSize.X*offset, 0)
	sum = sum.Add(sample(-texelSizeHalf.X*offset, texelSizeHalf.Y*offset).Mul(2))
	sum = sum.Add(sample(0, texelSize.Y*offset))
	sum = sum.Add(sample(texelSizeHalf.X, texelSizeHalf.Y).Mul(2))
	sum = sum.Add(sample(-texelSize.X*offset, 0))
	sum = sum.Add(sample(texelSizeHalf.X*offset, -texelSizeHalf.Y*offset).Mul(2))
	sum = sum.Add(sample(0, -texelSize.Y*offset))
	sum = sum.Add(sample(-texelSizeHalf.X, -texelSizeHalf.Y).Mul(2))
	return sum.Mul(1.0 / 12)
}

// ApplyBloom builds a half-resolution pyramid of the frame, blurs it
// with the dual-filter down/up-sample pair, and mixes it back over the
// original: a channel only brightens where the blurred value exceeds
// the original (bright-pass-free bloom), blended by strength.
func ApplyBloom(orig *texture.Texture[vecmath.Vec3], strength, radius float32, iterations int) *texture.Texture[vecmath.Vec3] {
	if iterations < 1 {
		iterations = 1
	}
	offset := 1 + radius

	levels := make([]*texture.Texture[vecmath.Vec3], iterations+1)
	levels[0] = orig
	for i := 1; i <= iterations; i++ {
		prev := levels[i-1]
		w, h := prev.Width/2, prev.Height/2
		if w < 1 {
			w = 1
		}
		if h < 1 {
			h = 1
		}
		levels[i] = texture.New[vecmath.Vec3](w, h, texture.RGBOps)
	}

	for i := 1; i <= iterations; i++ {
		dst := levels[i]
		texelSize := vecmath.Vec2{X: 1 / float32(dst.Width), Y: 1 / float32(dst.Height)}
		texelSizeHalf := texelSize.Mul(0.5)
		for y := 0; y < dst.Height; y++ {
			v := 1 - (float32(y)*texelSize.Y + texelSizeHalf.Y)
			for x := 0; x < dst.Width; x++ {
				u := float32(x)*texelSize.X + texelSizeHalf.X
				dst.Set(x, y, downSample(levels[i-1], u, v, texelSizeHalf, offset))
			}
		}
	}

	for i := iterations - 1; i >= 0; i-- {
		dst := levels[i]
		texelSize := vecmath.Vec2{X: 1 / float32(dst.Width), Y: 1 / float32(dst.Height)}
		texelSizeHalf := texelSize.Mul(0.5)
		blurred := texture.New[vecmath.Vec3](dst.Width, dst.Height, texture.RGBOps)
		for y := 0; y < dst.Height; y++ {
			v := 1 - (float32(y)*texelSize.Y + texelSizeHalf.Y)
			for x := 0; x < dst.Width; x++ {
				u := float32(x)*texelSize.X + texelSizeHalf.X
				blurred.Set(x, y, upSample(levels[i+1], u, v, texelSize, texelSizeHalf, offset))
			}
		}
		levels[i] = blurred
	}

	blurred := levels[0]
	out := texture.New[vecmath.Vec3](orig.Width, orig.Height, texture.RGBOps)
	for y := 0; y < orig.Height; y++ {
		for x := 0; x < orig.Width; x++ {
			out.Set(x, y, mixBloomChannel(orig.At(x, y), blurred.At(x, y), strength))
		}
	}
	return out
}

func mixBloomChannel(orig, blurred vecmath.Vec3, strength float32) vecmath.Vec3 {
	mix := func(o, b float32) float32 {
		if b > o {
			return strength*b + (1-strength)*o
		}
		return o
	}
	return vecmath.Vec3{X: mix(orig.X, blurred.X), Y: mix(orig.Y, blurred.Y), Z: mix(orig.Z, blurred.Z)}
}
