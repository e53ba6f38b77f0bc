package postprocess

import (
	"math"

	"github.com/Fidelxyz/cpu-renderer/internal/texture"
)

// SSAO bilateral filter parameters (magic constants in the source
// renderer; kept behaviorally but named here per the spec's open
// question on that point).
const (
	ssaoBlurDiameter  = 5
	ssaoBlurSigmaColor = 0.2
	ssaoBlurSigmaSpace = 15
)

// BilateralBlurAO smooths the raw SSAO texture while preserving edges:
// each output pixel is a weighted average of its diameter x diameter
// neighborhood, weighted by both spatial distance (the outer product of
// two 1D Gaussian kernels) and AO-value similarity.
func BilateralBlurAO(ao *texture.Texture[float32]) *texture.Texture[float32] {
	return bilateralBlur(ao, ssaoBlurDiameter, ssaoBlurSigmaColor, ssaoBlurSigmaSpace)
}

func bilateralBlur(src *texture.Texture[float32], diameter int, sigmaColor, sigmaSpace float64) *texture.Texture[float32] {
	radius := diameter / 2
	spatial := cachedGaussianKernel(sigmaSpace)
	center := (len(spatial) - 1) / 2

	out := texture.New[float32](src.Width, src.Height, texture.ScalarOps)
	for y := 0; y < src.Height; y++ {
		for x := 0; x < src.Width; x++ {
			centerV := src.At(x, y)
			var sum, weightSum float32
			for dy := -radius; dy <= radius; dy++ {
				ny := clampIdx(y+dy, src.Height)
				for dx := -radius; dx <= radius; dx++ {
					nx := clampIdx(x+dx, src.Width)
					v := src.At(nx, ny)
					colorDiff := float64(v - centerV)
					colorWeight := math.Exp(-(colorDiff * colorDiff) / (2 * sigmaColor * sigmaColor))
					w := spatial[center+dx] * spatial[center+dy] * float32(colorWeight)
					sum += w * v
					weightSum += w
				}
			}
			if weightSum > 0 {
				out.Set(x, y, sum/weightSum)
			} else {
				out.Set(x, y, centerV)
			}
		}
	}
	return out
}

func clampIdx(v, n int) int {
	if v < 0 {
		return 0
	}
	if v >= n {
		return n - 1
	}
	return v
}
