package render

import (
	"image/color"

	"github.com/taigrr/softrender/pkg/math3d"
	"github.com/taigrr/softrender/pkg/scalar"
)

// Vertex is one triangle corner as it moves through the pipeline. Position
// is in view space until ProjectToScreen rewrites it to (x, y, z, 1/w) in
// screen space. Vertices are copied per corner and never shared.
type Vertex[T scalar.Number[T]] struct {
	Position math3d.Vec4[T]
	TexCoord math3d.Vec2[T]
	Normal   math3d.Vec3[T]
	Color    color.RGBA
}

// Triangle is three vertices in counter-clockwise order.
type Triangle[T scalar.Number[T]] [3]Vertex[T]

// Lerp interpolates position, texcoord, normal and color at t.
func (a Vertex[T]) Lerp(b Vertex[T], t T) Vertex[T] {
	return Vertex[T]{
		Position: a.Position.Lerp(b.Position, t),
		TexCoord: a.TexCoord.Lerp(b.TexCoord, t),
		Normal:   a.Normal.Lerp(b.Normal, t),
		Color:    lerpColor(a.Color, b.Color, t.Float64()),
	}
}

// ScreenXY returns the projected position.
func (a Vertex[T]) ScreenXY() math3d.Vec2[T] {
	return a.Position.XY()
}
