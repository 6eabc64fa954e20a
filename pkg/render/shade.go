package render

import (
	"github.com/taigrr/softrender/pkg/math3d"
	"github.com/taigrr/softrender/pkg/scalar"
)

// Fragment is the set of attributes interpolated at one pixel.
type Fragment[T scalar.Number[T]] struct {
	InvZ     T
	Color    Color
	TexCoord math3d.Vec2[T]
}

// DepthAt returns the affine blend of a projected triangle's 1/w at
// barycentric weights (w0, w1, w2).
func DepthAt[T scalar.Number[T]](tri *Triangle[T], w0, w1, w2 T) T {
	return w0.Mul(tri[0].Position.W).Add(w1.Mul(tri[1].Position.W)).Add(w2.Mul(tri[2].Position.W))
}

// Interpolate combines a projected triangle's color and texcoord at
// barycentric weights (w0, w1, w2), given invZ from DepthAt. Both are
// perspective-correct: each vertex is weighted by its 1/w and the sum is
// divided by invZ. Texcoords are expected to be pre-divided by w, as
// ProjectToScreen leaves them. invZ must not be zero.
func Interpolate[T scalar.Number[T]](tri *Triangle[T], w0, w1, w2, invZ T, withUV bool) Fragment[T] {
	a, b, c := &tri[0], &tri[1], &tri[2]
	f := Fragment[T]{InvZ: invZ}

	p0 := w0.Mul(a.Position.W).Div(invZ)
	p1 := w1.Mul(b.Position.W).Div(invZ)
	p2 := w2.Mul(c.Position.W).Div(invZ)
	f.Color = Color{
		R: blend(a.Color.R, b.Color.R, c.Color.R, p0, p1, p2),
		G: blend(a.Color.G, b.Color.G, c.Color.G, p0, p1, p2),
		B: blend(a.Color.B, b.Color.B, c.Color.B, p0, p1, p2),
		A: blend(a.Color.A, b.Color.A, c.Color.A, p0, p1, p2),
	}

	if withUV {
		uv := a.TexCoord.Scale(w0).Add(b.TexCoord.Scale(w1)).Add(c.TexCoord.Scale(w2))
		f.TexCoord = uv.Div(invZ)
	}
	return f
}

// blend weights three 8-bit channels in the scalar type and clamps the
// result.
func blend[T scalar.Number[T]](c0, c1, c2 uint8, w0, w1, w2 T) uint8 {
	v := scalar.Int[T](int(c0)).Mul(w0).
		Add(scalar.Int[T](int(c1)).Mul(w1)).
		Add(scalar.Int[T](int(c2)).Mul(w2))
	return uint8(clampInt(scalar.Round(v), 0, 255))
}

// Intensity is the Lambert term for a unit normal lit from direction
// light: clamp(-n·l, 0, 1).
func Intensity[T scalar.Number[T]](normal, light math3d.Vec3[T]) T {
	return scalar.Clamp(normal.Dot(light).Neg(), scalar.Zero[T](), scalar.One[T]())
}

// Shade scales a color's RGB by intensity in [0, 1], keeping alpha.
func Shade[T scalar.Number[T]](c Color, intensity T) Color {
	scale := func(v uint8) uint8 {
		return uint8(clampInt(scalar.Round(scalar.Int[T](int(v)).Mul(intensity)), 0, 255))
	}
	return Color{R: scale(c.R), G: scale(c.G), B: scale(c.B), A: c.A}
}
