package render

import (
	"github.com/taigrr/softrender/pkg/math3d"
	"github.com/taigrr/softrender/pkg/scalar"
)

// ProjectToScreen moves a view-space vertex into screen space in place.
//
// After the call Position holds screen x and y, NDC z, and 1/w in place of
// w. The texcoord has v flipped for image row order and is divided by w, so
// interpolating it alongside 1/w and dividing once per pixel gives the
// perspective-correct value.
//
// The vertex must be in front of the camera (w > 0), which clipping against
// the near plane guarantees.
func ProjectToScreen[T scalar.Number[T]](v *Vertex[T], projection, screen math3d.Mat4[T]) {
	one := scalar.One[T]()

	clip := projection.MulVec4(v.Position)
	w := clip.W

	ndc := math3d.V4(clip.X.Div(w), clip.Y.Div(w), clip.Z.Div(w), one)
	p := screen.MulVec4(ndc)
	p.W = one.Div(w)
	v.Position = p

	v.TexCoord.Y = one.Sub(v.TexCoord.Y)
	v.TexCoord = v.TexCoord.Div(w)
}
