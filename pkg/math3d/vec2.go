package math3d

import "github.com/taigrr/softrender/pkg/scalar"

// Vec2 represents a 2D vector, used for texture coordinates and screen-space
// edge math.
type Vec2[T scalar.Number[T]] struct {
	X, Y T
}

// V2 creates a new Vec2.
func V2[T scalar.Number[T]](x, y T) Vec2[T] {
	return Vec2[T]{x, y}
}

// V2f creates a Vec2 from float64 components.
func V2f[T scalar.Number[T]](x, y float64) Vec2[T] {
	return Vec2[T]{scalar.Of[T](x), scalar.Of[T](y)}
}

// Add returns a + b.
func (a Vec2[T]) Add(b Vec2[T]) Vec2[T] {
	return Vec2[T]{a.X.Add(b.X), a.Y.Add(b.Y)}
}

// Sub returns a - b.
func (a Vec2[T]) Sub(b Vec2[T]) Vec2[T] {
	return Vec2[T]{a.X.Sub(b.X), a.Y.Sub(b.Y)}
}

// Scale returns a * s.
func (a Vec2[T]) Scale(s T) Vec2[T] {
	return Vec2[T]{a.X.Mul(s), a.Y.Mul(s)}
}

// Div returns a / s.
func (a Vec2[T]) Div(s T) Vec2[T] {
	return Vec2[T]{a.X.Div(s), a.Y.Div(s)}
}

// Dot returns the dot product.
func (a Vec2[T]) Dot(b Vec2[T]) T {
	return a.X.Mul(b.X).Add(a.Y.Mul(b.Y))
}

// Cross returns the z component of the 3D cross product of a and b,
// i.e. the signed area of the parallelogram they span.
func (a Vec2[T]) Cross(b Vec2[T]) T {
	return a.X.Mul(b.Y).Sub(a.Y.Mul(b.X))
}

// Lerp returns the linear interpolation between a and b by t.
func (a Vec2[T]) Lerp(b Vec2[T], t T) Vec2[T] {
	return a.Add(b.Sub(a).Scale(t))
}

// Len returns the length.
func (a Vec2[T]) Len() T {
	return a.Dot(a).Sqrt()
}
