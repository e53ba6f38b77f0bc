package texture

// Addressing selects how out-of-[0,1] UV coordinates are resolved to pixel
// indices.
type Addressing int

const (
	// Wrap tiles the texture (u,v taken modulo 1).
	Wrap Addressing = iota
	// Clamp ("no-repeat") clamps to the edge texel.
	Clamp
)

// SampleBilinear samples the texture at normalized UV coordinates (u in
// [0,1] left-to-right, v in [0,1] bottom-to-top, matching OBJ texcoord
// convention) using bilinear interpolation of the four nearest texels.
//
// Pixel centers sit at half-integer coordinates, so the pixel-space
// position of a UV sample is x = u*W - 0.5, y = (1-v)*H - 0.5 (v is
// flipped because texture row 0 is the image's top row).
func (t *Texture[T]) SampleBilinear(u, v float32, addr Addressing) T {
	x := u*float32(t.Width) - 0.5
	y := (1-v)*float32(t.Height) - 0.5

	x0 := floorInt(x)
	y0 := floorInt(y)
	x1 := x0 + 1
	y1 := y0 + 1

	fx := x - float32(x0)
	fy := y - float32(y0)

	xl := t.resolveCoord(x0, addr, t.Width)
	xr := t.resolveCoord(x1, addr, t.Width)
	yt := t.resolveCoord(y0, addr, t.Height)
	yb := t.resolveCoord(y1, addr, t.Height)

	tl := t.At(xl, yt)
	tr := t.At(xr, yt)
	bl := t.At(xl, yb)
	br := t.At(xr, yb)

	top := t.ops.Add(t.ops.Scale(tl, 1-fx), t.ops.Scale(tr, fx))
	bot := t.ops.Add(t.ops.Scale(bl, 1-fx), t.ops.Scale(br, fx))
	return t.ops.Add(t.ops.Scale(top, 1-fy), t.ops.Scale(bot, fy))
}

func (t *Texture[T]) resolveCoord(c int, addr Addressing, size int) int {
	switch addr {
	case Wrap:
		c %= size
		if c < 0 {
			c += size
		}
		return c
	default: // Clamp
		if c < 0 {
			return 0
		}
		if c >= size {
			return size - 1
		}
		return c
	}
}

func floorInt(x float32) int {
	i := int(x)
	if x < 0 && float32(i) != x {
		i--
	}
	return i
}
