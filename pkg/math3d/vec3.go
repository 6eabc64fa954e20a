// Package math3d provides the vector and matrix types the renderer is built
// on, generic over the scalar type.
package math3d

import "github.com/taigrr/softrender/pkg/scalar"

// Vec3 represents a 3D vector.
type Vec3[T scalar.Number[T]] struct {
	X, Y, Z T
}

// V3 creates a new Vec3.
func V3[T scalar.Number[T]](x, y, z T) Vec3[T] {
	return Vec3[T]{x, y, z}
}

// V3f creates a Vec3 from float64 components.
func V3f[T scalar.Number[T]](x, y, z float64) Vec3[T] {
	return Vec3[T]{scalar.Of[T](x), scalar.Of[T](y), scalar.Of[T](z)}
}

// Up returns the world up vector (0, 1, 0).
func Up[T scalar.Number[T]]() Vec3[T] {
	return Vec3[T]{Y: scalar.One[T]()}
}

// Forward returns the world forward vector (0, 0, -1).
func Forward[T scalar.Number[T]]() Vec3[T] {
	return Vec3[T]{Z: scalar.One[T]().Neg()}
}

// Add returns the vector sum a + b.
func (a Vec3[T]) Add(b Vec3[T]) Vec3[T] {
	return Vec3[T]{a.X.Add(b.X), a.Y.Add(b.Y), a.Z.Add(b.Z)}
}

// Sub returns the vector difference a - b.
func (a Vec3[T]) Sub(b Vec3[T]) Vec3[T] {
	return Vec3[T]{a.X.Sub(b.X), a.Y.Sub(b.Y), a.Z.Sub(b.Z)}
}

// Mul returns the component-wise product a * b.
func (a Vec3[T]) Mul(b Vec3[T]) Vec3[T] {
	return Vec3[T]{a.X.Mul(b.X), a.Y.Mul(b.Y), a.Z.Mul(b.Z)}
}

// Scale returns the scalar product a * s.
func (a Vec3[T]) Scale(s T) Vec3[T] {
	return Vec3[T]{a.X.Mul(s), a.Y.Mul(s), a.Z.Mul(s)}
}

// Div returns the scalar division a / s.
func (a Vec3[T]) Div(s T) Vec3[T] {
	return Vec3[T]{a.X.Div(s), a.Y.Div(s), a.Z.Div(s)}
}

// Dot returns the dot product a · b.
func (a Vec3[T]) Dot(b Vec3[T]) T {
	return a.X.Mul(b.X).Add(a.Y.Mul(b.Y)).Add(a.Z.Mul(b.Z))
}

// Cross returns the cross product a × b.
func (a Vec3[T]) Cross(b Vec3[T]) Vec3[T] {
	return Vec3[T]{
		a.Y.Mul(b.Z).Sub(a.Z.Mul(b.Y)),
		a.Z.Mul(b.X).Sub(a.X.Mul(b.Z)),
		a.X.Mul(b.Y).Sub(a.Y.Mul(b.X)),
	}
}

// Len returns the length (magnitude) of the vector.
func (a Vec3[T]) Len() T {
	return a.LenSq().Sqrt()
}

// LenSq returns the squared length (no sqrt).
func (a Vec3[T]) LenSq() T {
	return a.Dot(a)
}

// Normalize returns the unit vector in the same direction.
// The zero vector normalizes to itself.
func (a Vec3[T]) Normalize() Vec3[T] {
	l := a.Len()
	if scalar.IsZero(l) {
		return Vec3[T]{}
	}
	return a.Div(l)
}

// Negate returns the negated vector.
func (a Vec3[T]) Negate() Vec3[T] {
	return Vec3[T]{a.X.Neg(), a.Y.Neg(), a.Z.Neg()}
}

// Lerp returns the linear interpolation between a and b by t.
func (a Vec3[T]) Lerp(b Vec3[T], t T) Vec3[T] {
	return a.Add(b.Sub(a).Scale(t))
}

// Distance returns the distance between two points.
func (a Vec3[T]) Distance(b Vec3[T]) T {
	return a.Sub(b).Len()
}

// Reflect returns the reflection of a around normal n.
func (a Vec3[T]) Reflect(n Vec3[T]) Vec3[T] {
	two := scalar.Int[T](2)
	return a.Sub(n.Scale(two.Mul(a.Dot(n))))
}

// Min returns the component-wise minimum.
func (a Vec3[T]) Min(b Vec3[T]) Vec3[T] {
	return Vec3[T]{scalar.Min(a.X, b.X), scalar.Min(a.Y, b.Y), scalar.Min(a.Z, b.Z)}
}

// Max returns the component-wise maximum.
func (a Vec3[T]) Max(b Vec3[T]) Vec3[T] {
	return Vec3[T]{scalar.Max(a.X, b.X), scalar.Max(a.Y, b.Y), scalar.Max(a.Z, b.Z)}
}

// XY drops the Z component.
func (a Vec3[T]) XY() Vec2[T] {
	return Vec2[T]{a.X, a.Y}
}

// Vec4 extends a with the given W.
func (a Vec3[T]) Vec4(w T) Vec4[T] {
	return Vec4[T]{a.X, a.Y, a.Z, w}
}
