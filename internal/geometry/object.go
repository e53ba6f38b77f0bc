package geometry

import (
	"github.com/Fidelxyz/cpu-renderer/internal/scene"
	"github.com/Fidelxyz/cpu-renderer/internal/transform"
	"github.com/Fidelxyz/cpu-renderer/internal/vecmath"
)

// Object owns the mesh data loaded from one OBJ/MTL pair: deduplicated
// (position, normal) vertex pairs, a separate texcoord pool (a UV can
// vary per face corner even when position and normal don't), the
// material list, and the shapes that reference all of the above by
// index. Triangles hold no storage of their own; their lifetime is tied
// to the owning Object.
type Object struct {
	// RawPositions and RawNormals are parallel, object-space, and
	// indexed together: entry i's normal is RawNormals[i] when
	// HasNormals is true. The loader deduplicates (v,vn) pairs so
	// triangles sharing a corner share one entry.
	RawPositions []vecmath.Vec3
	RawNormals   []vecmath.Vec3
	HasNormals   bool

	// Texcoords is a separate pool: a shared position/normal pair can
	// still carry different UVs per face corner.
	Texcoords []vecmath.Vec2

	Materials []*scene.Material
	Shapes    []Shape

	Position vecmath.Vec3
	Rotation vecmath.Vec3 // Euler degrees, Z then Y then X
	Scale    vecmath.Vec3

	// ShadingType is stamped onto every material loaded for this object
	// when the scene is built, and selects whether the cel outline pass
	// runs for it.
	ShadingType scene.ShadingModel

	// Vertices is the per-frame working buffer: world-space position
	// and normal, refreshed by TransformVertices, then screen position
	// and w filled in by the vertex shader.
	Vertices []Vertex
}

// NewObject returns an Object with identity placement and uniform unit
// scale; callers set Position/Rotation/Scale from scene configuration.
func NewObject() *Object {
	return &Object{Scale: vecmath.Vec3{X: 1, Y: 1, Z: 1}}
}

// ModelMatrix returns the object's model transform (scale, rotate,
// translate).
func (o *Object) ModelMatrix() vecmath.Mat4 {
	return transform.Model(o.Position, o.Rotation, o.Scale)
}

// NormalMatrix returns the matrix that carries object-space normals to
// world space.
func (o *Object) NormalMatrix() vecmath.Mat3 {
	return transform.Normal(o.Rotation, o.Scale)
}

// TransformVertices applies the object's current model and normal
// transforms to every raw position/normal pair, refreshing Vertices.
// This is the "do_model_transform" step that must run once per frame
// before vertex shading.
func (o *Object) TransformVertices() {
	model := o.ModelMatrix()
	normalMat := o.NormalMatrix()

	if len(o.Vertices) != len(o.RawPositions) {
		o.Vertices = make([]Vertex, len(o.RawPositions))
	}

	for i, p := range o.RawPositions {
		homog := model.MulVec4(vecmath.Vec4{X: p.X, Y: p.Y, Z: p.Z, W: 1})
		o.Vertices[i].Pos = homog.Vec3()
		if o.HasNormals {
			o.Vertices[i].Normal = normalMat.MulVec(o.RawNormals[i]).Normalize()
		}
	}
}

// Triangles returns every triangle across every shape, in shape order.
func (o *Object) Triangles() []*Triangle {
	var out []*Triangle
	for s := range o.Shapes {
		shape := &o.Shapes[s]
		for t := range shape.Triangles {
			out = append(out, &shape.Triangles[t])
		}
	}
	return out
}
