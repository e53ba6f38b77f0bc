package geometry

import (
	"math"

	"github.com/Fidelxyz/cpu-renderer/internal/gbuffer"
	"github.com/Fidelxyz/cpu-renderer/internal/logging"
	"github.com/Fidelxyz/cpu-renderer/internal/scene"
	"github.com/Fidelxyz/cpu-renderer/internal/shader"
	"github.com/Fidelxyz/cpu-renderer/internal/texture"
	"github.com/Fidelxyz/cpu-renderer/internal/vecmath"
)

// epsilon is the tolerance shared by the inside test, the view-frustum
// cull, the alpha-mask test, and the w-degeneracy guard.
const epsilon = 1e-5

// lodAnchorDelta is the pixel offset used to build the two extra
// barycentric anchors the mipmap LOD derivative estimate is taken from.
const lodAnchorDelta = 0.1

// CullMode selects which winding the rasterizer discards.
type CullMode int

const (
	CullNone CullMode = iota
	CullBack
	CullFront
)

// Triangle indexes three corners into its owning Object's vertex and
// texcoord pools, plus one material. TBNu is the triangle-constant
// tangent-space basis vector used for normal mapping; it is computed
// once by PrepareTBN and is NaN when the triangle's UV parameterization
// is degenerate.
type Triangle struct {
	VertexIdx   [3]int
	TexcoordIdx [3]int // -1 when this corner has no texcoord
	MaterialIdx int

	TBNu vecmath.Vec3
}

func (t *Triangle) hasTexcoords() bool {
	return t.TexcoordIdx[0] >= 0 && t.TexcoordIdx[1] >= 0 && t.TexcoordIdx[2] >= 0
}

func (t *Triangle) positions(obj *Object) (a, b, c vecmath.Vec3) {
	return obj.Vertices[t.VertexIdx[0]].Pos, obj.Vertices[t.VertexIdx[1]].Pos, obj.Vertices[t.VertexIdx[2]].Pos
}

func (t *Triangle) normals(obj *Object) (a, b, c vecmath.Vec3) {
	return obj.Vertices[t.VertexIdx[0]].Normal, obj.Vertices[t.VertexIdx[1]].Normal, obj.Vertices[t.VertexIdx[2]].Normal
}

func (t *Triangle) texcoords(obj *Object) (a, b, c vecmath.Vec2) {
	if !t.hasTexcoords() {
		return vecmath.Vec2{}, vecmath.Vec2{}, vecmath.Vec2{}
	}
	return obj.Texcoords[t.TexcoordIdx[0]], obj.Texcoords[t.TexcoordIdx[1]], obj.Texcoords[t.TexcoordIdx[2]]
}

// FaceNormal returns the geometric normal from the triangle's position
// edges, used when the object carries no per-vertex normals.
func (t *Triangle) FaceNormal(obj *Object) vecmath.Vec3 {
	p1, p2, p3 := t.positions(obj)
	return p2.Sub(p1).Cross(p3.Sub(p1)).Normalize()
}

// PrepareTBN computes the triangle-constant tangent vector used for
// normal mapping, caching it in TBNu. Call once after TransformVertices,
// before Rasterize. A zero UV parameterization determinant yields NaN,
// which Rasterize checks for and treats as "skip normal mapping".
func (t *Triangle) PrepareTBN(obj *Object) {
	if !t.hasTexcoords() {
		t.TBNu = vecmath.Vec3{X: float32(math.NaN()), Y: float32(math.NaN()), Z: float32(math.NaN())}
		return
	}
	p1, p2, p3 := t.positions(obj)
	uv1, uv2, uv3 := t.texcoords(obj)

	e1 := p2.Sub(p1)
	e2 := p3.Sub(p1)
	du1 := uv2.X - uv1.X
	dv1 := uv2.Y - uv1.Y
	du2 := uv3.X - uv1.X
	dv2 := uv3.Y - uv1.Y

	f := du1*dv2 - du2*dv1
	if f == 0 {
		t.TBNu = vecmath.Vec3{X: float32(math.NaN()), Y: float32(math.NaN()), Z: float32(math.NaN())}
		return
	}
	t.TBNu = e1.Mul(dv2).Sub(e2.Mul(dv1)).Mul(1 / f).Normalize()
}

// bary holds screen-space or perspective-corrected barycentric weights.
type bary struct {
	W1, W2, W3 float32
}

func (b bary) Add(o bary) bary   { return bary{b.W1 + o.W1, b.W2 + o.W2, b.W3 + o.W3} }
func (b bary) Scale(s float32) bary { return bary{b.W1 * s, b.W2 * s, b.W3 * s} }

// baryGradient is the incremental form of the closed-form barycentric
// formula of a triangle's screen-space (x,y) vertices: value(x,y) is
// linear in (x,y), so it can be evaluated at an origin and then updated
// by per-axis deltas using addition alone.
type baryGradient struct {
	origin bary
	dx     bary
	dy     bary
	gw1    vecmath.Vec2 // gradient of w1 w.r.t. (x,y)
	gw2    vecmath.Vec2 // gradient of w2 w.r.t. (x,y)
}

// offset returns the barycentric delta produced by moving (ox,oy) away
// from wherever the gradient was last evaluated; used for the per-MSAA
// sample offsets and the mipmap LOD anchors, both of which are additive
// perturbations rather than absolute positions.
func (g baryGradient) offset(ox, oy float32) bary {
	w1 := g.gw1.X*ox + g.gw1.Y*oy
	w2 := g.gw2.X*ox + g.gw2.Y*oy
	return bary{w1, w2, -(w1 + w2)}
}

// newBaryGradient builds the incremental barycentric form for a
// triangle's screen-space x,y coordinates, evaluated starting at
// (originX, originY). ok is false for a zero-area (degenerate) triangle.
func newBaryGradient(v1, v2, v3 vecmath.Vec3, originX, originY float32) (g baryGradient, ok bool) {
	a1 := v2.Y - v3.Y
	b1 := -(v2.X - v3.X)
	c1 := v2.X*v3.Y - v3.X*v2.Y
	denom1 := a1*v1.X + b1*v1.Y + c1

	a2 := v3.Y - v1.Y
	b2 := -(v3.X - v1.X)
	c2 := v3.X*v1.Y - v1.X*v3.Y
	denom2 := a2*v2.X + b2*v2.Y + c2

	if denom1 == 0 || denom2 == 0 {
		return baryGradient{}, false
	}

	g.gw1 = vecmath.Vec2{X: a1 / denom1, Y: b1 / denom1}
	g.gw2 = vecmath.Vec2{X: a2 / denom2, Y: b2 / denom2}
	ow1 := c1 / denom1
	ow2 := c2 / denom2

	w1 := g.gw1.X*originX + g.gw1.Y*originY + ow1
	w2 := g.gw2.X*originX + g.gw2.Y*originY + ow2
	g.origin = bary{w1, w2, 1 - w1 - w2}
	g.dx = bary{g.gw1.X, g.gw2.X, -(g.gw1.X + g.gw2.X)}
	g.dy = bary{g.gw1.Y, g.gw2.Y, -(g.gw1.Y + g.gw2.Y)}
	return g, true
}

func perspectiveCorrect(b bary, w1, w2, w3 float32) (bary, bool) {
	if w1 == 0 || w2 == 0 || w3 == 0 {
		return bary{}, false
	}
	ia, ib, ic := b.W1/w1, b.W2/w2, b.W3/w3
	l := ia + ib + ic
	if l == 0 {
		return bary{}, false
	}
	invL := 1 / l
	return bary{ia * invL, ib * invL, ic * invL}, true
}

func interpVec3(b bary, a, c, d vecmath.Vec3) vecmath.Vec3 {
	return a.Mul(b.W1).Add(c.Mul(b.W2)).Add(d.Mul(b.W3))
}

func interpVec2(b bary, a, c, d vecmath.Vec2) vecmath.Vec2 {
	return a.Mul(b.W1).Add(c.Mul(b.W2)).Add(d.Mul(b.W3))
}

func absf(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

// Rasterize is the core per-triangle routine: it tests visibility,
// walks the triangle's screen-space bounding box sample by sample,
// resolves MSAA coverage and depth, shades each covered pixel once, and
// writes the result into buf.
func (t *Triangle) Rasterize(obj *Object, buf *gbuffer.Buffer, sh shader.Shader, cam *scene.Camera, lights []scene.Light, cull CullMode) {
	v1, v2, v3 := obj.Vertices[t.VertexIdx[0]], obj.Vertices[t.VertexIdx[1]], obj.Vertices[t.VertexIdx[2]]
	camPos := cam.Position.ToVec3()

	faceNormal := t.FaceNormal(obj)

	// 1. Normal-based cull test.
	allBack, allFront := true, true
	for _, v := range [3]Vertex{v1, v2, v3} {
		n := faceNormal
		if obj.HasNormals {
			n = v.Normal
		}
		d := n.Dot(camPos.Sub(v.Pos))
		if d > 0 {
			allBack = false
		} else {
			allFront = false
		}
	}
	if cull == CullBack && allBack {
		return
	}
	if cull == CullFront && allFront {
		return
	}

	// 2. View-frustum cull test: relax-view-culling-factor scales the
	// pixel/depth bounds a vertex must fall entirely outside of.
	relax := float32(cam.RelaxViewCullingFactor)
	w, h := float32(cam.Width), float32(cam.Height)
	xMin, xMax := w*(1-relax)/2, w*(1+relax)/2
	yMin, yMax := h*(1-relax)/2, h*(1+relax)/2
	zMin, zMax := (1-relax)/2, (1+relax)/2

	allLeft, allRight, allAbove, allBelow, allNear, allFar, anyTooClose := true, true, true, true, true, true, false
	for _, v := range [3]Vertex{v1, v2, v3} {
		p := v.ScreenPos
		if p.X >= xMin {
			allLeft = false
		}
		if p.X <= xMax {
			allRight = false
		}
		if p.Y >= yMin {
			allAbove = false
		}
		if p.Y <= yMax {
			allBelow = false
		}
		if p.Z >= zMin {
			allNear = false
		}
		if p.Z <= zMax {
			allFar = false
		}
		if v.W < epsilon {
			anyTooClose = true
		}
	}
	if allLeft || allRight || allAbove || allBelow || allNear || allFar || anyTooClose {
		return
	}

	// 3. Bounding box.
	minXf := minOf3(v1.ScreenPos.X, v2.ScreenPos.X, v3.ScreenPos.X)
	maxXf := maxOf3(v1.ScreenPos.X, v2.ScreenPos.X, v3.ScreenPos.X)
	minYf := minOf3(v1.ScreenPos.Y, v2.ScreenPos.Y, v3.ScreenPos.Y)
	maxYf := maxOf3(v1.ScreenPos.Y, v2.ScreenPos.Y, v3.ScreenPos.Y)

	minX := clampInt(int(math.Floor(float64(minXf))), 0, cam.Width)
	maxX := clampInt(int(math.Ceil(float64(maxXf))), 0, cam.Width)
	minY := clampInt(int(math.Floor(float64(minYf))), 0, cam.Height)
	maxY := clampInt(int(math.Ceil(float64(maxYf))), 0, cam.Height)
	if minX >= maxX || minY >= maxY {
		return
	}

	// 4. Incremental barycentrics, anchored at the bbox origin pixel
	// center.
	originX, originY := float32(minX)+0.5, float32(minY)+0.5
	grad, ok := newBaryGradient(v1.ScreenPos, v2.ScreenPos, v3.ScreenPos, originX, originY)
	if !ok {
		logging.Logger().Warn("skipping degenerate triangle", "reason", "zero screen-space area")
		return
	}

	// 5. Mipmap derivative anchors.
	lodDX := grad.offset(lodAnchorDelta, 0)
	lodDY := grad.offset(0, lodAnchorDelta)

	// The per-pixel barycentric is evaluated at the pixel center, while
	// SampleOffsets are measured from the top-left corner.
	var sampleDeltas [gbuffer.MSAALevel]bary
	for i, off := range gbuffer.SampleOffsets {
		sampleDeltas[i] = grad.offset(off.X-0.5, off.Y-0.5)
	}

	mat := obj.Materials[t.MaterialIdx]
	hasTexcoords := t.hasTexcoords()
	var uv1, uv2, uv3 vecmath.Vec2
	if hasTexcoords {
		uv1, uv2, uv3 = t.texcoords(obj)
	}

	// 7. Per-pixel loop (x inner, y outer).
	line := grad.origin
	for y := minY; y < maxY; y++ {
		pixel := line
		for x := minX; x < maxX; x++ {
			t.shadePixel(x, y, pixel, sampleDeltas, lodDX, lodDY, obj, buf, sh, cam, lights, mat, hasTexcoords, uv1, uv2, uv3, v1, v2, v3, camPos, cull)
			pixel = pixel.Add(grad.dx)
		}
		line = line.Add(grad.dy)
	}
}

func (t *Triangle) shadePixel(
	x, y int,
	pixel bary,
	sampleDeltas [gbuffer.MSAALevel]bary,
	lodDX, lodDY bary,
	obj *Object,
	buf *gbuffer.Buffer,
	sh shader.Shader,
	cam *scene.Camera,
	lights []scene.Light,
	mat *scene.Material,
	hasTexcoords bool,
	uv1, uv2, uv3 vecmath.Vec2,
	v1, v2, v3 Vertex,
	camPos vecmath.Vec3,
	cull CullMode,
) {
	buf.Lock(x, y)
	defer buf.Unlock(x, y)

	var sampleBary [gbuffer.MSAALevel]bary
	var covered uint8

	for i := 0; i < gbuffer.MSAALevel; i++ {
		sb := pixel.Add(sampleDeltas[i])
		if sb.W1 < -epsilon || sb.W2 < -epsilon || sb.W3 < -epsilon {
			continue
		}

		corrected, ok := perspectiveCorrect(sb, v1.W, v2.W, v3.W)
		if !ok {
			continue
		}

		if obj.HasNormals {
			interpPos := interpVec3(corrected, v1.Pos, v2.Pos, v3.Pos)
			interpNormal := interpVec3(corrected, v1.Normal, v2.Normal, v3.Normal)
			d := interpNormal.Dot(camPos.Sub(interpPos))
			backFacing := d <= 0
			if cull == CullBack && backFacing {
				continue
			}
			if cull == CullFront && !backFacing {
				continue
			}
		}

		if mat.AlphaMap != nil && hasTexcoords {
			uv := interpVec2(corrected, uv1, uv2, uv3)
			alpha := mat.AlphaMap.Sample(uv.X, uv.Y, 0, 0, texture.Wrap)
			if alpha < epsilon {
				continue
			}
		}

		zSS := sb.W1*v1.ScreenPos.Z + sb.W2*v2.ScreenPos.Z + sb.W3*v3.ScreenPos.Z
		cur := buf.DepthSample(x, y, i)
		if zSS > 0 && zSS < cur {
			buf.SetDepthSample(x, y, i, zSS)
			sampleBary[i] = sb
			covered |= 1 << uint(i)
		}
	}

	if covered == 0 {
		return
	}

	anchor := pixel
	if covered != gbuffer.CoveredMask {
		var sum bary
		n := 0
		for i := 0; i < gbuffer.MSAALevel; i++ {
			if covered&(1<<uint(i)) != 0 {
				sum = sum.Add(sampleBary[i])
				n++
			}
		}
		anchor = sum.Scale(1 / float32(n))
	}

	correctedAnchor, ok := perspectiveCorrect(anchor, v1.W, v2.W, v3.W)
	if !ok {
		return
	}

	uv := vecmath.Vec2{}
	duv := vecmath.Vec2{X: 1, Y: 1}
	if hasTexcoords {
		correctedLodX, okX := perspectiveCorrect(anchor.Add(lodDX), v1.W, v2.W, v3.W)
		correctedLodY, okY := perspectiveCorrect(anchor.Add(lodDY), v1.W, v2.W, v3.W)
		uv = interpVec2(correctedAnchor, uv1, uv2, uv3)
		if okX && okY {
			uvLodX := interpVec2(correctedLodX, uv1, uv2, uv3)
			uvLodY := interpVec2(correctedLodY, uv1, uv2, uv3)
			dux := (uvLodX.X - uv.X) / lodAnchorDelta
			duy := (uvLodY.X - uv.X) / lodAnchorDelta
			dvx := (uvLodX.Y - uv.Y) / lodAnchorDelta
			dvy := (uvLodY.Y - uv.Y) / lodAnchorDelta
			duv = vecmath.Vec2{X: (absf(dux) + absf(duy)) / 2, Y: (absf(dvx) + absf(dvy)) / 2}
		}
	}

	pos := interpVec3(correctedAnchor, v1.Pos, v2.Pos, v3.Pos)
	var normal vecmath.Vec3
	if obj.HasNormals {
		normal = interpVec3(correctedAnchor, v1.Normal, v2.Normal, v3.Normal).Normalize()
	} else {
		normal = t.FaceNormal(obj)
	}

	if mat.NormalMap != nil && hasTexcoords && !hasNaN(t.TBNu) {
		tangent := t.TBNu.Sub(normal.Mul(t.TBNu.Dot(normal))).Normalize()
		bitangent := tangent.Cross(normal)
		sampled := sampleNormalMap(mat.NormalMap, uv, duv)
		mapped := tangent.Mul(sampled.X).Add(bitangent.Mul(sampled.Y)).Add(normal.Mul(sampled.Z))
		normal = mapped.Normalize()
	}

	color := sh.Shade(pos, normal, uv, duv, mat, lights, camPos)
	buf.SetCovered(x, y, covered, color, pos, normal)
}

func sampleNormalMap(mm *texture.Mipmap[vecmath.Vec3], uv, duv vecmath.Vec2) vecmath.Vec3 {
	lodX, lodY := texture.Lod(duv, mm.Base().Width, mm.Base().Height)
	raw := mm.Sample(uv.X, uv.Y, lodX, lodY, texture.Wrap)
	return vecmath.Vec3{X: raw.X*2 - 1, Y: raw.Y*2 - 1, Z: raw.Z*2 - 1}
}

func hasNaN(v vecmath.Vec3) bool {
	return math.IsNaN(float64(v.X)) || math.IsNaN(float64(v.Y)) || math.IsNaN(float64(v.Z))
}

func minOf3(a, b, c float32) float32 {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}

func maxOf3(a, b, c float32) float32 {
	m := a
	if b > m {
		m = b
	}
	if c > m {
		m = c
	}
	return m
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
