package geometry

// Shape is a named group of triangles sharing the same OBJ "o"/"g"
// group, all drawing from their owning Object's pools.
type Shape struct {
	Name      string
	Triangles []Triangle
}
