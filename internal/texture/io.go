package texture

import (
	"fmt"
	stdimage "image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/webp"

	"github.com/Fidelxyz/cpu-renderer/internal/color"
	"github.com/Fidelxyz/cpu-renderer/internal/vecmath"
)

// LoadRGB loads an 8-bit image file into a Vec3 texture. PNG, JPEG, BMP
// and WebP are supported; format is detected from the file extension,
// falling back to content sniffing. linear selects the color space
// contract: ambient/diffuse/specular/emissive textures pass linear=false
// (gamma-2.2 decoded on load); everything else (normal maps) is already
// linear data and passes linear=true.
func LoadRGB(path string, linear bool) (*Texture[vecmath.Vec3], error) {
	img, err := decodeFile(path)
	if err != nil {
		return nil, err
	}
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	tex := New[vecmath.Vec3](w, h, RGBOps)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			if linear {
				tex.Set(x, y, vecmath.Vec3{
					X: float32(uint8(r>>8)) / 255,
					Y: float32(uint8(g>>8)) / 255,
					Z: float32(uint8(b>>8)) / 255,
				})
				continue
			}
			tex.Set(x, y, vecmath.Vec3{
				X: color.DecodeFast(uint8(r >> 8)),
				Y: color.DecodeFast(uint8(g >> 8)),
				Z: color.DecodeFast(uint8(b >> 8)),
			})
		}
	}
	return tex, nil
}

// LoadScalar loads an 8-bit single-channel image (alpha mask, roughness,
// metallic, bump) using its red channel. linear has the same meaning as
// in LoadRGB; per the color space contract, roughness, metallic, bump
// and alpha are all linear=true.
func LoadScalar(path string, linear bool) (*Texture[float32], error) {
	img, err := decodeFile(path)
	if err != nil {
		return nil, err
	}
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	tex := New[float32](w, h, ScalarOps)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, _, _, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			v := uint8(r >> 8)
			if linear {
				tex.Set(x, y, float32(v)/255)
				continue
			}
			tex.Set(x, y, color.DecodeFast(v))
		}
	}
	return tex, nil
}

func decodeFile(path string) (stdimage.Image, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("texture: open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return png.Decode(f)
	case ".jpg", ".jpeg":
		return jpeg.Decode(f)
	case ".bmp":
		return bmp.Decode(f)
	case ".webp":
		return webp.Decode(f)
	default:
		img, _, err := stdimage.Decode(f)
		return img, err
	}
}

// savePixels converts every pixel to 8-bit RGBA with toRGBA and writes the
// result as a PNG.
func (t *Texture[T]) savePixels(path string, toRGBA func(T) (r, g, b, a uint8)) error {
	rect := stdimage.Rect(0, 0, t.Width, t.Height)
	img := stdimage.NewNRGBA(rect)
	for y := 0; y < t.Height; y++ {
		for x := 0; x < t.Width; x++ {
			r, g, b, a := toRGBA(t.At(x, y))
			off := y*img.Stride + x*4
			img.Pix[off] = r
			img.Pix[off+1] = g
			img.Pix[off+2] = b
			img.Pix[off+3] = a
		}
	}

	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("texture: create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return fmt.Errorf("texture: encode PNG: %w", err)
	}
	return f.Close()
}

// SaveRGBPNG gamma-encodes a linear Vec3 texture and writes it as an opaque
// PNG. Used for the final resolved frame buffer.
func SaveRGBPNG(path string, t *Texture[vecmath.Vec3]) error {
	return t.savePixels(path, func(v vecmath.Vec3) (uint8, uint8, uint8, uint8) {
		return color.EncodeFast(v.X), color.EncodeFast(v.Y), color.EncodeFast(v.Z), 255
	})
}
