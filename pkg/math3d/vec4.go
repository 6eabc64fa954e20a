package math3d

import "github.com/taigrr/softrender/pkg/scalar"

// Vec4 represents a 4D vector (or homogeneous 3D point).
type Vec4[T scalar.Number[T]] struct {
	X, Y, Z, W T
}

// V4 creates a new Vec4.
func V4[T scalar.Number[T]](x, y, z, w T) Vec4[T] {
	return Vec4[T]{x, y, z, w}
}

// Point returns the homogeneous point (v, 1).
func Point[T scalar.Number[T]](v Vec3[T]) Vec4[T] {
	return v.Vec4(scalar.One[T]())
}

// Vec3 returns the Vec3 portion (ignoring W).
func (v Vec4[T]) Vec3() Vec3[T] {
	return Vec3[T]{v.X, v.Y, v.Z}
}

// XY returns the X and Y components.
func (v Vec4[T]) XY() Vec2[T] {
	return Vec2[T]{v.X, v.Y}
}

// PerspectiveDivide returns Vec3 after dividing by W.
func (v Vec4[T]) PerspectiveDivide() Vec3[T] {
	if scalar.IsZero(v.W) {
		return v.Vec3()
	}
	return v.Vec3().Div(v.W)
}

// Add returns the vector sum.
//
//nolint:st1016 // a+b naming convention is clearer for vector operations
func (a Vec4[T]) Add(b Vec4[T]) Vec4[T] {
	return Vec4[T]{a.X.Add(b.X), a.Y.Add(b.Y), a.Z.Add(b.Z), a.W.Add(b.W)}
}

// Sub returns the vector difference.
//
//nolint:st1016 // a-b naming convention is clearer for vector operations
func (a Vec4[T]) Sub(b Vec4[T]) Vec4[T] {
	return Vec4[T]{a.X.Sub(b.X), a.Y.Sub(b.Y), a.Z.Sub(b.Z), a.W.Sub(b.W)}
}

// Scale returns the scalar product.
func (v Vec4[T]) Scale(s T) Vec4[T] {
	return Vec4[T]{v.X.Mul(s), v.Y.Mul(s), v.Z.Mul(s), v.W.Mul(s)}
}

// Dot returns the dot product.
//
//nolint:st1016 // a·b naming convention is clearer for vector operations
func (a Vec4[T]) Dot(b Vec4[T]) T {
	return a.X.Mul(b.X).Add(a.Y.Mul(b.Y)).Add(a.Z.Mul(b.Z)).Add(a.W.Mul(b.W))
}

// Lerp returns linear interpolation.
//
//nolint:st1016 // a,b naming convention is clearer for interpolation
func (a Vec4[T]) Lerp(b Vec4[T], t T) Vec4[T] {
	return a.Add(b.Sub(a).Scale(t))
}
