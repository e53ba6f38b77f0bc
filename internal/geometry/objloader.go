package geometry

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Fidelxyz/cpu-renderer/internal/logging"
	"github.com/Fidelxyz/cpu-renderer/internal/rerr"
	"github.com/Fidelxyz/cpu-renderer/internal/scene"
	"github.com/Fidelxyz/cpu-renderer/internal/texture"
	"github.com/Fidelxyz/cpu-renderer/internal/vecmath"
)

// vertexKey identifies one deduplicated (position, normal) pair in the
// merged vertex pool; texcoords are a separate pool since a shared
// position/normal corner can still carry a different UV per face.
type vertexKey struct{ posIdx, normIdx int }

// textureCache resolves a texture file path to its Mipmap at most once
// per Object, per the data model's "texture cache keyed by filename".
type textureCache struct {
	basePath string
	rgb      map[string]*texture.Mipmap[vecmath.Vec3]
	scalar   map[string]*texture.Mipmap[float32]
}

func newTextureCache(basePath string) *textureCache {
	return &textureCache{
		basePath: basePath,
		rgb:      make(map[string]*texture.Mipmap[vecmath.Vec3]),
		scalar:   make(map[string]*texture.Mipmap[float32]),
	}
}

func (c *textureCache) loadRGB(name string, linear bool) *texture.Mipmap[vecmath.Vec3] {
	if mm, ok := c.rgb[name]; ok {
		return mm
	}
	base, err := texture.LoadRGB(filepath.Join(c.basePath, name), linear)
	if err != nil {
		logging.Logger().Warn("texture load failed, falling back to material constant", "file", name, "err", err)
		c.rgb[name] = nil
		return nil
	}
	mm := texture.BuildMipmap(base, texture.RGBOps)
	c.rgb[name] = mm
	return mm
}

func (c *textureCache) loadScalar(name string, linear bool) *texture.Mipmap[float32] {
	if mm, ok := c.scalar[name]; ok {
		return mm
	}
	base, err := texture.LoadScalar(filepath.Join(c.basePath, name), linear)
	if err != nil {
		logging.Logger().Warn("texture load failed, falling back to material constant", "file", name, "err", err)
		c.scalar[name] = nil
		return nil
	}
	mm := texture.BuildMipmap(base, texture.ScalarOps)
	c.scalar[name] = mm
	return mm
}

// objFace is a triangulated face: three corner references into the raw
// OBJ v/vt/vn arrays, 0-based, -1 when absent.
type objFace struct {
	v, vt, vn [3]int
}

type objGroup struct {
	name  string
	mat   string
	faces []objFace
}

// LoadOBJ parses a Wavefront OBJ file (and its referenced MTL library,
// if any) into an Object. basePath resolves relative texture paths
// referenced from the MTL file; it defaults to the OBJ's own directory
// when empty.
func LoadOBJ(path, basePath string) (*Object, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, &rerr.AssetLoadError{Path: path, Err: err}
	}
	defer func() { _ = f.Close() }()

	dir := filepath.Dir(path)
	if basePath == "" {
		basePath = dir
	}

	var positions, normals []vecmath.Vec3
	var texcoords []vecmath.Vec2
	materials := map[string]*scene.Material{}

	var groups []objGroup
	cur := objGroup{name: "default"}
	cache := newTextureCache(basePath)

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)

		switch fields[0] {
		case "v":
			if len(fields) < 4 {
				continue
			}
			positions = append(positions, parseVec3(fields))
		case "vn":
			if len(fields) < 4 {
				continue
			}
			normals = append(normals, parseVec3(fields))
		case "vt":
			if len(fields) < 3 {
				continue
			}
			texcoords = append(texcoords, parseVec2(fields))
		case "o", "g":
			if len(cur.faces) > 0 {
				groups = append(groups, cur)
			}
			name := "default"
			if len(fields) > 1 {
				name = fields[1]
			}
			cur = objGroup{name: name, mat: cur.mat}
		case "usemtl":
			if len(fields) > 1 {
				cur.mat = fields[1]
			}
		case "mtllib":
			if len(fields) > 1 {
				mtlPath := filepath.Join(dir, fields[1])
				loaded, err := loadMTL(mtlPath, cache)
				if err != nil {
					logging.Logger().Warn("mtllib load failed", "file", mtlPath, "err", err)
					continue
				}
				for name, mat := range loaded {
					materials[name] = mat
				}
			}
		case "f":
			if len(fields) < 4 {
				continue
			}
			cur.faces = append(cur.faces, triangulateFace(fields[1:])...)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, &rerr.AssetLoadError{Path: path, Err: err}
	}
	if len(cur.faces) > 0 {
		groups = append(groups, cur)
	}
	if len(groups) == 0 {
		return nil, &rerr.AssetLoadError{Path: path, Err: fmt.Errorf("no geometry found")}
	}

	obj := NewObject()
	obj.HasNormals = len(normals) > 0

	vertMap := make(map[vertexKey]int)
	addVertex := func(posIdx, normIdx int) int {
		key := vertexKey{posIdx, normIdx}
		if idx, ok := vertMap[key]; ok {
			return idx
		}
		idx := len(obj.RawPositions)
		obj.RawPositions = append(obj.RawPositions, safeVec3(positions, posIdx))
		if obj.HasNormals {
			obj.RawNormals = append(obj.RawNormals, safeVec3(normals, normIdx))
		}
		vertMap[key] = idx
		return idx
	}
	obj.Texcoords = texcoords

	materialIdx := map[string]int{}
	materialAt := func(name string) int {
		if idx, ok := materialIdx[name]; ok {
			return idx
		}
		mat, ok := materials[name]
		if !ok {
			mat = scene.DefaultMaterial()
			mat.Name = name
		}
		idx := len(obj.Materials)
		obj.Materials = append(obj.Materials, mat)
		materialIdx[name] = idx
		return idx
	}

	for _, g := range groups {
		matIdx := materialAt(g.mat)
		shape := Shape{Name: g.name}
		for _, face := range g.faces {
			var tri Triangle
			tri.MaterialIdx = matIdx
			for c := 0; c < 3; c++ {
				tri.VertexIdx[c] = addVertex(face.v[c], face.vn[c])
				if face.vt[c] >= 0 && face.vt[c] < len(texcoords) {
					tri.TexcoordIdx[c] = face.vt[c]
				} else {
					tri.TexcoordIdx[c] = -1
				}
			}
			shape.Triangles = append(shape.Triangles, tri)
		}
		obj.Shapes = append(obj.Shapes, shape)
	}

	return obj, nil
}

func parseVec3(fields []string) vecmath.Vec3 {
	x, _ := strconv.ParseFloat(fields[1], 32)
	y, _ := strconv.ParseFloat(fields[2], 32)
	z, _ := strconv.ParseFloat(fields[3], 32)
	return vecmath.Vec3{X: float32(x), Y: float32(y), Z: float32(z)}
}

func parseVec2(fields []string) vecmath.Vec2 {
	u, _ := strconv.ParseFloat(fields[1], 32)
	v, _ := strconv.ParseFloat(fields[2], 32)
	return vecmath.Vec2{X: float32(u), Y: float32(v)}
}

func safeVec3(pool []vecmath.Vec3, idx int) vecmath.Vec3 {
	if idx >= 0 && idx < len(pool) {
		return pool[idx]
	}
	return vecmath.Vec3{}
}

// triangulateFace fan-triangulates an OBJ polygon face (3+ corners) into
// triangles sharing the first corner.
func triangulateFace(tokens []string) []objFace {
	type corner struct{ v, vt, vn int }
	corners := make([]corner, len(tokens))
	for i, tok := range tokens {
		v, vt, vn := parseFaceVertex(tok)
		corners[i] = corner{v, vt, vn}
	}

	var faces []objFace
	for i := 1; i+1 < len(corners); i++ {
		a, b, c := corners[0], corners[i], corners[i+1]
		faces = append(faces, objFace{
			v:  [3]int{a.v, b.v, c.v},
			vt: [3]int{a.vt, b.vt, c.vt},
			vn: [3]int{a.vn, b.vn, c.vn},
		})
	}
	return faces
}

// parseFaceVertex parses one face-vertex token ("v", "v/vt", "v//vn",
// "v/vt/vn") into 0-based indices, -1 when a slot is absent.
func parseFaceVertex(tok string) (v, vt, vn int) {
	v, vt, vn = -1, -1, -1
	parts := strings.Split(tok, "/")
	parseIdx := func(s string) int {
		if s == "" {
			return -1
		}
		n, _ := strconv.Atoi(s)
		if n > 0 {
			return n - 1
		}
		return n
	}
	if len(parts) > 0 {
		v = parseIdx(parts[0])
	}
	if len(parts) > 1 {
		vt = parseIdx(parts[1])
	}
	if len(parts) > 2 {
		vn = parseIdx(parts[2])
	}
	return
}

// loadMTL parses a Wavefront MTL library, resolving any referenced
// texture files through cache relative to basePath.
func loadMTL(path string, cache *textureCache) (map[string]*scene.Material, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	mats := make(map[string]*scene.Material)
	var cur *scene.Material

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)

		switch fields[0] {
		case "newmtl":
			if len(fields) > 1 {
				m := scene.DefaultMaterial()
				m.Name = fields[1]
				mats[fields[1]] = m
				cur = m
			}
		case "Ka":
			if cur != nil && len(fields) >= 4 {
				cur.Ambient = parseVec3(fields)
			}
		case "Kd":
			if cur != nil && len(fields) >= 4 {
				cur.Diffuse = parseVec3(fields)
			}
		case "Ks":
			if cur != nil && len(fields) >= 4 {
				cur.Specular = parseVec3(fields)
			}
		case "Ke":
			if cur != nil && len(fields) >= 4 {
				cur.Emission = parseVec3(fields)
			}
		case "Ns":
			if cur != nil && len(fields) >= 2 {
				ns, _ := strconv.ParseFloat(fields[1], 32)
				cur.Shininess = float32(ns)
			}
		case "Ni":
			if cur != nil && len(fields) >= 2 {
				ni, _ := strconv.ParseFloat(fields[1], 32)
				cur.IOR = float32(ni)
			}
		case "d":
			if cur != nil && len(fields) >= 2 {
				d, _ := strconv.ParseFloat(fields[1], 32)
				cur.Dissolve = float32(d)
			}
		case "Pr":
			if cur != nil && len(fields) >= 2 {
				r, _ := strconv.ParseFloat(fields[1], 32)
				cur.Roughness = float32(r)
			}
		case "Pm":
			if cur != nil && len(fields) >= 2 {
				m, _ := strconv.ParseFloat(fields[1], 32)
				cur.Metallic = float32(m)
			}
		case "map_Ka":
			if cur != nil && len(fields) > 1 {
				cur.AmbientMap = cache.loadRGB(fields[len(fields)-1], false)
			}
		case "map_Kd":
			if cur != nil && len(fields) > 1 {
				cur.DiffuseMap = cache.loadRGB(fields[len(fields)-1], false)
			}
		case "map_Ks":
			if cur != nil && len(fields) > 1 {
				cur.SpecularMap = cache.loadRGB(fields[len(fields)-1], false)
			}
		case "map_Ke":
			if cur != nil && len(fields) > 1 {
				cur.EmissiveMap = cache.loadRGB(fields[len(fields)-1], false)
			}
		case "map_Bump", "bump":
			if cur != nil && len(fields) > 1 {
				cur.BumpMap = cache.loadScalar(fields[len(fields)-1], true)
			}
		case "map_Pr":
			if cur != nil && len(fields) > 1 {
				cur.RoughnessMap = cache.loadScalar(fields[len(fields)-1], true)
			}
		case "map_Pm":
			if cur != nil && len(fields) > 1 {
				cur.MetallicMap = cache.loadScalar(fields[len(fields)-1], true)
			}
		case "map_d":
			if cur != nil && len(fields) > 1 {
				cur.AlphaMap = cache.loadScalar(fields[len(fields)-1], true)
			}
		case "norm", "map_Bump_normal":
			if cur != nil && len(fields) > 1 {
				cur.NormalMap = cache.loadRGB(fields[len(fields)-1], true)
			}
		}
	}
	return mats, scanner.Err()
}
