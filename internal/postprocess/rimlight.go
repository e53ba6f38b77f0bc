package postprocess

import (
	"github.com/Fidelxyz/cpu-renderer/internal/gbuffer"
)

// rimLightIntensity and rimLightThreshold are the fixed constants the
// rim-light pass compares linearized depth deltas against.
const (
	rimLightIntensity = 1.5
	rimLightThreshold = 1.0
)

// rimLightOffsets are the two horizontal neighbor offsets (in pixels)
// checked for a large depth discontinuity behind the current sample.
var rimLightOffsets = [2]int{-10, 10}

// LinearizeDepth converts a screen-space z in [0,1] to a view-space
// distance, given the camera's near and far planes.
func LinearizeDepth(zss, near, far float32) float32 {
	return (near*far + near) / (near + far + (near-far)*zss)
}

// ApplyRimLight brightens samples adjacent to a large depth
// discontinuity (an object silhouette against something far behind it),
// approximating back lighting. It mutates buf.Frame in place, sample by
// sample, before MSAA resolve; unlike the rasterizer it needs no
// per-pixel lock since every pixel only ever reads and writes its own
// samples and its two horizontal neighbors' depth.
func ApplyRimLight(buf *gbuffer.Buffer, near, far float32) {
	for y := 0; y < buf.Height; y++ {
		for x := 0; x < buf.Width; x++ {
			for i := 0; i < gbuffer.MSAALevel; i++ {
				z := buf.DepthSample(x, y, i)
				if z >= 1-epsilon {
					continue
				}
				thisLin := LinearizeDepth(z, near, far)

				triggered := false
				for _, dx := range rimLightOffsets {
					nx := x + dx
					if !buf.InBounds(nx, y) {
						continue
					}
					nz := buf.DepthSample(nx, y, i)
					if nz >= 1-epsilon {
						continue
					}
					if LinearizeDepth(nz, near, far)-thisLin > rimLightThreshold {
						triggered = true
						break
					}
				}
				if triggered {
					idx := y*buf.Width + x
					buf.Frame[idx][i] = buf.Frame[idx][i].Mul(rimLightIntensity)
				}
			}
		}
	}
}
