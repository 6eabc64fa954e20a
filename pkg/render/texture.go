package render

import (
	"image"
	"image/draw"
	"math"

	"github.com/taigrr/softrender/pkg/math3d"
	"github.com/taigrr/softrender/pkg/scalar"
)

// WrapMode determines how texture coordinates outside [0,1] are handled.
type WrapMode int

const (
	WrapRepeat WrapMode = iota // Tile the texture
	WrapClamp                  // Clamp to edge
)

func (m WrapMode) String() string {
	if m == WrapClamp {
		return "clamp"
	}
	return "repeat"
}

// FilterMode determines how texture sampling is performed.
type FilterMode int

const (
	FilterNearest  FilterMode = iota // Nearest-neighbor (pixelated)
	FilterBilinear                   // Bilinear interpolation (smooth)
)

func (m FilterMode) String() string {
	if m == FilterBilinear {
		return "bilinear"
	}
	return "nearest"
}

// Texture is an RGBA8 image prepared for sampling. Row 0 is the top of the
// image; the projector flips v so that texcoord v=0 samples the bottom.
type Texture struct {
	Width      int
	Height     int
	Pixels     []Color
	WrapU      WrapMode
	WrapV      WrapMode
	FilterMode FilterMode
}

// NewTexture creates an empty texture with the given dimensions.
func NewTexture(width, height int) *Texture {
	return &Texture{
		Width:  width,
		Height: height,
		Pixels: make([]Color, width*height),
	}
}

// TextureFromImage copies an image into a texture.
func TextureFromImage(img image.Image) *Texture {
	bounds := img.Bounds()
	rgba, ok := img.(*image.RGBA)
	if !ok || rgba.Stride != bounds.Dx()*4 {
		rgba = image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
		draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)
	}

	tex := NewTexture(bounds.Dx(), bounds.Dy())
	for i := range tex.Pixels {
		p := rgba.Pix[i*4 : i*4+4 : i*4+4]
		tex.Pixels[i] = Color{R: p[0], G: p[1], B: p[2], A: p[3]}
	}
	return tex
}

// NewCheckerTexture creates a procedural checkerboard texture.
func NewCheckerTexture(width, height, checkSize int, c1, c2 Color) *Texture {
	tex := NewTexture(width, height)
	for y := range height {
		for x := range width {
			if (x/checkSize+y/checkSize)%2 == 0 {
				tex.SetPixel(x, y, c1)
			} else {
				tex.SetPixel(x, y, c2)
			}
		}
	}
	return tex
}

// SetPixel sets a pixel in the texture.
func (t *Texture) SetPixel(x, y int, c Color) {
	if x < 0 || x >= t.Width || y < 0 || y >= t.Height {
		return
	}
	t.Pixels[y*t.Width+x] = c
}

// GetPixel returns the pixel at (x, y) with bounds checking.
func (t *Texture) GetPixel(x, y int) Color {
	if x < 0 || x >= t.Width || y < 0 || y >= t.Height {
		return Color{}
	}
	return t.Pixels[y*t.Width+x]
}

// SampleTexture samples tex at uv. Nearest filtering truncates u*width and
// v*height in the scalar type itself.
func SampleTexture[T scalar.Number[T]](tex *Texture, uv math3d.Vec2[T]) Color {
	if tex.FilterMode == FilterBilinear {
		return tex.sampleBilinear(uv.X.Float64(), uv.Y.Float64())
	}
	x := uv.X.Mul(scalar.Int[T](tex.Width)).Trunc()
	y := uv.Y.Mul(scalar.Int[T](tex.Height)).Trunc()
	return tex.GetPixel(
		tex.wrapPixelCoord(x, tex.Width, tex.WrapU),
		tex.wrapPixelCoord(y, tex.Height, tex.WrapV),
	)
}

// sampleBilinear returns bilinearly interpolated color.
func (t *Texture) sampleBilinear(u, v float64) Color {
	fx := u*float64(t.Width) - 0.5
	fy := v*float64(t.Height) - 0.5

	x0 := int(math.Floor(fx))
	y0 := int(math.Floor(fy))
	tx := fx - float64(x0)
	ty := fy - float64(y0)

	x1 := t.wrapPixelCoord(x0+1, t.Width, t.WrapU)
	y1 := t.wrapPixelCoord(y0+1, t.Height, t.WrapV)
	x0 = t.wrapPixelCoord(x0, t.Width, t.WrapU)
	y0 = t.wrapPixelCoord(y0, t.Height, t.WrapV)

	top := lerpColor(t.GetPixel(x0, y0), t.GetPixel(x1, y0), tx)
	bot := lerpColor(t.GetPixel(x0, y1), t.GetPixel(x1, y1), tx)
	return lerpColor(top, bot, ty)
}

// wrapPixelCoord wraps a pixel coordinate.
func (t *Texture) wrapPixelCoord(x, size int, mode WrapMode) int {
	if size <= 0 {
		return 0
	}
	switch mode {
	case WrapClamp:
		return clampInt(x, 0, size-1)
	default:
		x %= size
		if x < 0 {
			x += size
		}
		return x
	}
}
