package render

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"golang.org/x/image/draw"
)

// SavePNG writes img as a PNG file.
func SavePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("render: create %s: %w", path, err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("render: encode png %s: %w", path, err)
	}
	return f.Close()
}

// SaveWebP writes img as a lossless WebP file.
func SaveWebP(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("render: create %s: %w", path, err)
	}
	defer f.Close()

	if err := nativewebp.Encode(f, img, nil); err != nil {
		return fmt.Errorf("render: encode webp %s: %w", path, err)
	}
	return f.Close()
}

// SaveImage picks the encoder from the file extension: .webp for WebP,
// anything else for PNG.
func SaveImage(path string, img image.Image) error {
	if strings.EqualFold(filepath.Ext(path), ".webp") {
		return SaveWebP(path, img)
	}
	return SavePNG(path, img)
}

// Downsample scales img to width x height with a Catmull-Rom filter, for
// supersampled frames.
func Downsample(img image.Image, width, height int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}
