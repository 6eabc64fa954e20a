package render

import (
	"image"
	"image/color"
)

// Framebuffer is an RGBA8 color buffer. Pixels holds Height rows of Pitch
// bytes each, four bytes per pixel.
type Framebuffer struct {
	Width  int
	Height int
	Pitch  int
	Pixels []byte
}

// NewFramebuffer creates a framebuffer with the given dimensions.
func NewFramebuffer(width, height int) *Framebuffer {
	return &Framebuffer{
		Width:  width,
		Height: height,
		Pitch:  width * 4,
		Pixels: make([]byte, width*height*4),
	}
}

// Clear fills the framebuffer with a solid color.
func (fb *Framebuffer) Clear(c color.RGBA) {
	if len(fb.Pixels) == 0 {
		return
	}
	fb.Pixels[0], fb.Pixels[1], fb.Pixels[2], fb.Pixels[3] = c.R, c.G, c.B, c.A
	for i := 4; i < len(fb.Pixels); i *= 2 {
		copy(fb.Pixels[i:], fb.Pixels[:i])
	}
}

// SetPixel sets a pixel at (x, y) to the given color.
// Out-of-bounds writes are ignored.
func (fb *Framebuffer) SetPixel(x, y int, c color.RGBA) {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return
	}
	i := y*fb.Pitch + x*4
	p := fb.Pixels[i : i+4 : i+4]
	p[0], p[1], p[2], p[3] = c.R, c.G, c.B, c.A
}

// GetPixel returns the color at (x, y).
// Returns transparent black if out of bounds.
func (fb *Framebuffer) GetPixel(x, y int) color.RGBA {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return color.RGBA{}
	}
	i := y*fb.Pitch + x*4
	p := fb.Pixels[i : i+4 : i+4]
	return color.RGBA{p[0], p[1], p[2], p[3]}
}

// DrawRect draws a filled rectangle.
func (fb *Framebuffer) DrawRect(x, y, w, h int, c color.RGBA) {
	for py := y; py < y+h; py++ {
		for px := x; px < x+w; px++ {
			fb.SetPixel(px, py, c)
		}
	}
}

// ToImage wraps the pixel memory in an image.RGBA without copying.
// Later draws show through the returned image.
func (fb *Framebuffer) ToImage() *image.RGBA {
	return &image.RGBA{
		Pix:    fb.Pixels,
		Stride: fb.Pitch,
		Rect:   image.Rect(0, 0, fb.Width, fb.Height),
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
