package render

import (
	"github.com/taigrr/softrender/pkg/math3d"
	"github.com/taigrr/softrender/pkg/scalar"
)

// SignedArea returns twice the signed area of a screen-space triangle,
// positive when the triangle is counter-clockwise as seen on screen.
// Screen y grows downward, so the raw cross product is negated.
func SignedArea[T scalar.Number[T]](a, b, c math3d.Vec2[T]) T {
	return b.Sub(a).Cross(c.Sub(a)).Neg()
}

// IsBackFace reports whether a projected triangle faces away from the
// viewer. Counter-clockwise world winding stays counter-clockwise on screen
// and is front-facing. Degenerate triangles are not back faces.
func IsBackFace[T scalar.Number[T]](a, b, c math3d.Vec2[T]) bool {
	return scalar.Sign(SignedArea(a, b, c)) < 0
}
