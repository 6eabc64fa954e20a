package render

import "github.com/taigrr/softrender/pkg/scalar"

// DepthFunc selects the depth comparison. Both compare reciprocal depth
// (1/w) and both are strict, so redrawing the same geometry leaves the
// buffers unchanged.
type DepthFunc int

const (
	// DepthGreater clears to zero and keeps fragments with larger 1/w,
	// which are nearer to the camera.
	DepthGreater DepthFunc = iota
	// DepthLess clears to the scalar's largest value and keeps smaller
	// 1/w, which prefers the farther surface.
	DepthLess
)

func (f DepthFunc) String() string {
	switch f {
	case DepthLess:
		return "less"
	default:
		return "greater"
	}
}

// DepthBuffer stores one reciprocal depth per pixel, row-major.
type DepthBuffer[T scalar.Number[T]] struct {
	Width  int
	Height int
	Values []T
	Func   DepthFunc
}

// NewDepthBuffer allocates a cleared depth buffer.
func NewDepthBuffer[T scalar.Number[T]](width, height int, fn DepthFunc) *DepthBuffer[T] {
	d := &DepthBuffer[T]{
		Width:  width,
		Height: height,
		Values: make([]T, width*height),
		Func:   fn,
	}
	d.Clear()
	return d
}

// ClearValue is the value every pixel holds after Clear.
func (d *DepthBuffer[T]) ClearValue() T {
	if d.Func == DepthLess {
		return scalar.Inf[T]()
	}
	return scalar.Zero[T]()
}

// Clear resets every pixel to ClearValue.
func (d *DepthBuffer[T]) Clear() {
	if len(d.Values) == 0 {
		return
	}
	d.Values[0] = d.ClearValue()
	for i := 1; i < len(d.Values); i *= 2 {
		copy(d.Values[i:], d.Values[:i])
	}
}

// At returns the stored depth at (x, y).
func (d *DepthBuffer[T]) At(x, y int) T {
	return d.Values[y*d.Width+x]
}

// Test stores invZ at (x, y) and reports true when it passes the
// comparison against the stored value.
func (d *DepthBuffer[T]) Test(x, y int, invZ T) bool {
	i := y*d.Width + x
	stored := d.Values[i]
	var pass bool
	if d.Func == DepthLess {
		pass = invZ.Less(stored)
	} else {
		pass = stored.Less(invZ)
	}
	if pass {
		d.Values[i] = invZ
	}
	return pass
}
