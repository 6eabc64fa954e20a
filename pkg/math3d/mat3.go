package math3d

import "github.com/taigrr/softrender/pkg/scalar"

// Mat3 is a 3x3 matrix stored in column-major order, used for normals.
//
// Memory layout (indices):
// | 0  3  6 |
// | 1  4  7 |
// | 2  5  8 |
type Mat3[T scalar.Number[T]] [9]T

// Identity3 returns the 3x3 identity.
func Identity3[T scalar.Number[T]]() Mat3[T] {
	one := scalar.One[T]()
	return Mat3[T]{0: one, 4: one, 8: one}
}

// NormalMatrix returns the inverse transpose of m's upper 3x3 block, which
// keeps normals perpendicular under non-uniform scale.
func NormalMatrix[T scalar.Number[T]](m Mat4[T]) Mat3[T] {
	return m.Upper3().Inverse().Transpose()
}

// Mul multiplies two matrices: a * b.
//
//nolint:st1016 // a*b naming convention is clearer for matrix multiplication
func (a Mat3[T]) Mul(b Mat3[T]) Mat3[T] {
	var m Mat3[T]
	for col := range 3 {
		for row := range 3 {
			var sum T
			for k := range 3 {
				sum = sum.Add(a[row+k*3].Mul(b[k+col*3]))
			}
			m[row+col*3] = sum
		}
	}
	return m
}

// MulVec3 transforms v.
func (m Mat3[T]) MulVec3(v Vec3[T]) Vec3[T] {
	return Vec3[T]{
		m[0].Mul(v.X).Add(m[3].Mul(v.Y)).Add(m[6].Mul(v.Z)),
		m[1].Mul(v.X).Add(m[4].Mul(v.Y)).Add(m[7].Mul(v.Z)),
		m[2].Mul(v.X).Add(m[5].Mul(v.Y)).Add(m[8].Mul(v.Z)),
	}
}

// Transpose returns the transposed matrix.
func (m Mat3[T]) Transpose() Mat3[T] {
	return Mat3[T]{
		m[0], m[3], m[6],
		m[1], m[4], m[7],
		m[2], m[5], m[8],
	}
}

// Determinant returns the determinant.
func (m Mat3[T]) Determinant() T {
	return scalar.Of[T](det3(m.float64s()))
}

// Inverse returns the inverse, or identity when m is singular.
func (m Mat3[T]) Inverse() Mat3[T] {
	a := m.float64s()
	det := det3(a)
	if det == 0 {
		return Identity3[T]()
	}
	inv := 1 / det
	out := [9]float64{
		(a[4]*a[8] - a[7]*a[5]) * inv,
		(a[7]*a[2] - a[1]*a[8]) * inv,
		(a[1]*a[5] - a[4]*a[2]) * inv,
		(a[6]*a[5] - a[3]*a[8]) * inv,
		(a[0]*a[8] - a[6]*a[2]) * inv,
		(a[3]*a[2] - a[0]*a[5]) * inv,
		(a[3]*a[7] - a[6]*a[4]) * inv,
		(a[6]*a[1] - a[0]*a[7]) * inv,
		(a[0]*a[4] - a[3]*a[1]) * inv,
	}
	var r Mat3[T]
	for i, v := range out {
		r[i] = scalar.Of[T](v)
	}
	return r
}

func (m Mat3[T]) float64s() [9]float64 {
	var a [9]float64
	for i, v := range m {
		a[i] = v.Float64()
	}
	return a
}

func det3(a [9]float64) float64 {
	return a[0]*(a[4]*a[8]-a[7]*a[5]) -
		a[3]*(a[1]*a[8]-a[7]*a[2]) +
		a[6]*(a[1]*a[5]-a[4]*a[2])
}
