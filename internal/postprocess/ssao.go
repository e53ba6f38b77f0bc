package postprocess

import (
	"math"

	"github.com/Fidelxyz/cpu-renderer/internal/gbuffer"
	"github.com/Fidelxyz/cpu-renderer/internal/scene"
	"github.com/Fidelxyz/cpu-renderer/internal/texture"
	"github.com/Fidelxyz/cpu-renderer/internal/vecmath"
)

const (
	// SSAOSamplesNum is the 4x4 direction grid times 4 distance steps.
	SSAOSamplesNum = 64
	// SSAORadius bounds the hemisphere sample distance, in world units.
	SSAORadius = 0.05
)

// ssaoKernel is the fixed tangent-space hemisphere sample set, built
// once: a 4x4 polar/azimuth direction grid, each direction repeated at
// 4 distance steps spanning [0, SSAORadius].
var ssaoKernel = buildSSAOKernel()

func buildSSAOKernel() [SSAOSamplesNum]vecmath.Vec3 {
	var kernel [SSAOSamplesNum]vecmath.Vec3
	idx := 0
	for i := 0; i < 4; i++ {
		theta := (float64(i) + 0.5) / 4 * (math.Pi / 2)
		sinT, cosT := math.Sincos(theta)
		for j := 0; j < 4; j++ {
			phi := (float64(j) + 0.5) / 4 * 2 * math.Pi
			sinP, cosP := math.Sincos(phi)
			dir := vecmath.Vec3{
				X: float32(sinT * cosP),
				Y: float32(sinT * sinP),
				Z: float32(cosT),
			}
			for k := 0; k < 4; k++ {
				distFrac := float32(k+1) / 4
				kernel[idx] = dir.Mul(distFrac * SSAORadius)
				idx++
			}
		}
	}
	return kernel
}

// pixelTangentSeed derives a deterministic per-pixel direction used as
// the random tangent T̃ the SSAO kernel is oriented by, via a cheap
// integer hash of the pixel coordinate (no external RNG dependency, and
// reproducible across runs).
func pixelTangentSeed(x, y int) vecmath.Vec3 {
	h := uint32(x)*374761393 + uint32(y)*668265263
	h = (h ^ (h >> 13)) * 1274126177
	h ^= h >> 16
	angle := float64(h%10000) / 10000 * 2 * math.Pi
	s, c := math.Sincos(angle)
	return vecmath.Vec3{X: float32(c), Y: float32(s), Z: 0}
}

func orthogonalize(seed, normal vecmath.Vec3) vecmath.Vec3 {
	t := seed.Sub(normal.Mul(seed.Dot(normal)))
	if t.LengthSqr() < 1e-8 {
		t = vecmath.Vec3{X: 1, Y: 0, Z: 0}.Sub(normal.Mul(normal.X))
		if t.LengthSqr() < 1e-8 {
			t = vecmath.Vec3{X: 0, Y: 1, Z: 0}
		}
	}
	return t.Normalize()
}

// ComputeSSAO builds the raw (unblurred) ambient occlusion texture from
// the G-buffer's position, normal and depth samples, projecting each
// hemisphere probe back to screen space through the camera to compare
// against the resolved depth buffer.
func ComputeSSAO(buf *gbuffer.Buffer, cam *scene.Camera) *texture.Texture[float32] {
	resolvedDepth := buf.ResolveDepth()
	screenMatrix := cam.ScreenMatrix()
	out := texture.New[float32](buf.Width, buf.Height, texture.ScalarOps)

	for y := 0; y < buf.Height; y++ {
		for x := 0; x < buf.Width; x++ {
			seed := pixelTangentSeed(x, y)
			idx := y*buf.Width + x

			var occSum float32
			for i := 0; i < gbuffer.MSAALevel; i++ {
				z := buf.Depth[idx][i]
				if z >= 1-epsilon {
					continue
				}
				pos := buf.Position[idx][i]
				normal := buf.Normal[idx][i].Normalize()
				tangent := orthogonalize(seed, normal)
				bitangent := normal.Cross(tangent)

				for _, s := range ssaoKernel {
					worldOffset := tangent.Mul(s.X).Add(bitangent.Mul(s.Y)).Add(normal.Mul(s.Z))
					samplePos := pos.Add(worldOffset)

					sampleZ, u, v, ok := projectToScreen(samplePos, screenMatrix, buf.Width, buf.Height)
					if !ok {
						continue
					}
					bufferZ := resolvedDepth.SampleBilinear(u, v, texture.Clamp)
					if sampleZ > bufferZ {
						occSum += maxf(0, s.Z) * (1 - s.Length()/SSAORadius)
					}
				}
			}

			divisor := float32(SSAOSamplesNum)
			if !buf.FullCovered[idx] {
				divisor *= gbuffer.MSAALevel
			}
			occ := occSum / divisor
			occ = clamp01(occ * 6)
			occ = float32(math.Pow(float64(occ), 1.5))
			out.Set(x, y, 1-occ)
		}
	}
	return out
}

// projectToScreen runs the same world-to-screen transform the vertex
// shader applies, returning the resulting depth and the (u,v) texture
// coordinate it lands on.
func projectToScreen(pos vecmath.Vec3, screenMatrix vecmath.Mat4, width, height int) (z, u, v float32, ok bool) {
	homog := screenMatrix.MulVec4(vecmath.Vec4{X: pos.X, Y: pos.Y, Z: pos.Z, W: 1})
	if homog.W == 0 {
		return 0, 0, 0, false
	}
	inv := 1 / homog.W
	screenX, screenY, screenZ := homog.X*inv, homog.Y*inv, homog.Z*inv
	u = (screenX + 0.5) / float32(width)
	v = 1 - (screenY+0.5)/float32(height)
	return screenZ, u, v, true
}

func maxf(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

func clamp01(x float32) float32 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
