package models

import (
	"bufio"
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"io/fs"
	"path"
	"strings"

	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/bmp"
)

// decoders are matched by magic bytes. The tga package registers itself
// with image.Decode under an empty magic, which would claim every stream,
// so formats are dispatched here instead of through image.Decode.
var decoders = []struct {
	magic  []byte
	decode func(io.Reader) (image.Image, error)
}{
	{[]byte("\x89PNG\r\n\x1a\n"), png.Decode},
	{[]byte("\xff\xd8"), jpeg.Decode},
	{[]byte("BM"), bmp.Decode},
}

// DecodeImage decodes a PNG, JPEG or BMP image by its magic bytes, or a
// TGA image when name ends in .tga.
func DecodeImage(r io.Reader, name string) (image.Image, error) {
	decode := tga.Decode
	if !strings.EqualFold(path.Ext(name), ".tga") {
		br := bufio.NewReader(r)
		r = br
		head, _ := br.Peek(8)
		decode = nil
		for _, d := range decoders {
			if bytes.HasPrefix(head, d.magic) {
				decode = d.decode
				break
			}
		}
		if decode == nil {
			return nil, fmt.Errorf("decode image %s: %w", name, ErrUnsupportedFormat)
		}
	}

	img, err := decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}

// LoadImageFS reads and decodes an image from fsys.
func LoadImageFS(fsys fs.FS, name string) (image.Image, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, fmt.Errorf("open texture: %w", err)
	}
	defer f.Close()

	img, err := DecodeImage(f, name)
	if err != nil {
		return nil, fmt.Errorf("texture %s: %w", name, err)
	}
	return img, nil
}
