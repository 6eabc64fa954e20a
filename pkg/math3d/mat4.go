package math3d

import (
	"math"

	"github.com/taigrr/softrender/pkg/scalar"
)

// Mat4 is a 4x4 matrix stored in column-major order.
// This matches OpenGL conventions for easier reasoning about transforms.
//
// Memory layout (indices):
// | 0  4  8  12 |
// | 1  5  9  13 |
// | 2  6  10 14 |
// | 3  7  11 15 |
//
// For a transform matrix:
// | Xx Yx Zx Tx |   X,Y,Z = basis vectors (rotation/scale)
// | Xy Yy Zy Ty |   T = translation
// | Xz Yz Zz Tz |
// | 0  0  0  1  |
type Mat4[T scalar.Number[T]] [16]T

// Mat4From converts a column-major float64 array into a Mat4.
func Mat4From[T scalar.Number[T]](a [16]float64) Mat4[T] {
	var m Mat4[T]
	for i, v := range a {
		m[i] = scalar.Of[T](v)
	}
	return m
}

// Float64s returns the elements as float64, column-major.
func (m Mat4[T]) Float64s() [16]float64 {
	var a [16]float64
	for i, v := range m {
		a[i] = v.Float64()
	}
	return a
}

// ConvertMat4 re-expresses m in another scalar type.
func ConvertMat4[U scalar.Number[U], T scalar.Number[T]](m Mat4[T]) Mat4[U] {
	return Mat4From[U](m.Float64s())
}

// Identity returns the identity matrix.
func Identity[T scalar.Number[T]]() Mat4[T] {
	return Mat4From[T]([16]float64{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	})
}

// Translate creates a translation matrix.
func Translate[T scalar.Number[T]](v Vec3[T]) Mat4[T] {
	m := Identity[T]()
	m[12], m[13], m[14] = v.X, v.Y, v.Z
	return m
}

// Scale creates a scaling matrix.
func Scale[T scalar.Number[T]](v Vec3[T]) Mat4[T] {
	m := Identity[T]()
	m[0], m[5], m[10] = v.X, v.Y, v.Z
	return m
}

// ScaleUniform creates a uniform scaling matrix.
func ScaleUniform[T scalar.Number[T]](s T) Mat4[T] {
	return Scale(V3(s, s, s))
}

// RotateX creates a rotation matrix around the X axis.
func RotateX[T scalar.Number[T]](angle Angle) Mat4[T] {
	s, c := angle.Sincos()
	return Mat4From[T]([16]float64{
		1, 0, 0, 0,
		0, c, s, 0,
		0, -s, c, 0,
		0, 0, 0, 1,
	})
}

// RotateY creates a rotation matrix around the Y axis.
func RotateY[T scalar.Number[T]](angle Angle) Mat4[T] {
	s, c := angle.Sincos()
	return Mat4From[T]([16]float64{
		c, 0, -s, 0,
		0, 1, 0, 0,
		s, 0, c, 0,
		0, 0, 0, 1,
	})
}

// RotateZ creates a rotation matrix around the Z axis.
func RotateZ[T scalar.Number[T]](angle Angle) Mat4[T] {
	s, c := angle.Sincos()
	return Mat4From[T]([16]float64{
		c, s, 0, 0,
		-s, c, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	})
}

// Rotate creates a rotation matrix around an arbitrary axis.
func Rotate[T scalar.Number[T]](axis Vec3[T], angle Angle) Mat4[T] {
	n := axis.Normalize()
	x, y, z := n.X.Float64(), n.Y.Float64(), n.Z.Float64()
	s, c := angle.Sincos()
	t := 1 - c

	return Mat4From[T]([16]float64{
		t*x*x + c, t*x*y + s*z, t*x*z - s*y, 0,
		t*x*y - s*z, t*y*y + c, t*y*z + s*x, 0,
		t*x*z + s*y, t*y*z - s*x, t*z*z + c, 0,
		0, 0, 0, 1,
	})
}

// LookAt creates a view matrix looking from eye towards center.
func LookAt[T scalar.Number[T]](eye, center, up Vec3[T]) Mat4[T] {
	f := center.Sub(eye).Normalize() // Forward
	s := f.Cross(up).Normalize()     // Right
	u := s.Cross(f)                  // Up (recomputed)
	zero, one := scalar.Zero[T](), scalar.One[T]()

	return Mat4[T]{
		s.X, u.X, f.X.Neg(), zero,
		s.Y, u.Y, f.Y.Neg(), zero,
		s.Z, u.Z, f.Z.Neg(), zero,
		s.Dot(eye).Neg(), u.Dot(eye).Neg(), f.Dot(eye), one,
	}
}

// Perspective creates a right-handed perspective projection matrix for a
// camera looking down -Z, mapping the view volume to the [-1,1] clip cube.
// fovy is the vertical field of view and aspect is width/height.
func Perspective[T scalar.Number[T]](fovy Angle, aspect, near, far float64) Mat4[T] {
	f := 1.0 / math.Tan(fovy.Radians()/2)
	nf := 1.0 / (near - far)

	return Mat4From[T]([16]float64{
		f / aspect, 0, 0, 0,
		0, f, 0, 0,
		0, 0, (far + near) * nf, -1,
		0, 0, 2 * far * near * nf, 0,
	})
}

// Orthographic creates an orthographic projection matrix.
func Orthographic[T scalar.Number[T]](left, right, bottom, top, near, far float64) Mat4[T] {
	rl := 1.0 / (right - left)
	tb := 1.0 / (top - bottom)
	fn := 1.0 / (far - near)

	return Mat4From[T]([16]float64{
		2 * rl, 0, 0, 0,
		0, 2 * tb, 0, 0,
		0, 0, -2 * fn, 0,
		-(right + left) * rl, -(top + bottom) * tb, -(far + near) * fn, 1,
	})
}

// ScreenSpace maps NDC [-1,1]x[-1,1] onto pixel centers
// [0,width-1]x[0,height-1], flipping y so NDC up is screen down.
// Z passes through unchanged.
func ScreenSpace[T scalar.Number[T]](width, height int) Mat4[T] {
	hw := float64(width-1) / 2
	hh := float64(height-1) / 2

	return Mat4From[T]([16]float64{
		hw, 0, 0, 0,
		0, -hh, 0, 0,
		0, 0, 1, 0,
		hw, hh, 0, 1,
	})
}

// Mul multiplies two matrices: a * b.
//
//nolint:st1016 // a*b naming convention is clearer for matrix multiplication
func (a Mat4[T]) Mul(b Mat4[T]) Mat4[T] {
	var m Mat4[T]
	for col := range 4 {
		for row := range 4 {
			var sum T
			for k := range 4 {
				sum = sum.Add(a[row+k*4].Mul(b[k+col*4]))
			}
			m[row+col*4] = sum
		}
	}
	return m
}

// MulVec4 transforms a Vec4.
func (m Mat4[T]) MulVec4(v Vec4[T]) Vec4[T] {
	return Vec4[T]{
		m[0].Mul(v.X).Add(m[4].Mul(v.Y)).Add(m[8].Mul(v.Z)).Add(m[12].Mul(v.W)),
		m[1].Mul(v.X).Add(m[5].Mul(v.Y)).Add(m[9].Mul(v.Z)).Add(m[13].Mul(v.W)),
		m[2].Mul(v.X).Add(m[6].Mul(v.Y)).Add(m[10].Mul(v.Z)).Add(m[14].Mul(v.W)),
		m[3].Mul(v.X).Add(m[7].Mul(v.Y)).Add(m[11].Mul(v.Z)).Add(m[15].Mul(v.W)),
	}
}

// MulVec3 transforms a Vec3 as a point (w=1), dividing by the resulting w
// when it is not zero.
func (m Mat4[T]) MulVec3(v Vec3[T]) Vec3[T] {
	return m.MulVec4(Point(v)).PerspectiveDivide()
}

// MulVec3Dir transforms a Vec3 as a direction (w=0, no translation).
func (m Mat4[T]) MulVec3Dir(v Vec3[T]) Vec3[T] {
	return m.MulVec4(v.Vec4(scalar.Zero[T]())).Vec3()
}

// Transpose returns the transposed matrix.
func (m Mat4[T]) Transpose() Mat4[T] {
	return Mat4[T]{
		m[0], m[4], m[8], m[12],
		m[1], m[5], m[9], m[13],
		m[2], m[6], m[10], m[14],
		m[3], m[7], m[11], m[15],
	}
}

// Upper3 returns the upper-left 3x3 block.
func (m Mat4[T]) Upper3() Mat3[T] {
	return Mat3[T]{
		m[0], m[1], m[2],
		m[4], m[5], m[6],
		m[8], m[9], m[10],
	}
}

// Determinant returns the determinant of the matrix. It is evaluated in
// float64; the cofactor products overflow narrow fixed-point formats.
func (m Mat4[T]) Determinant() T {
	return scalar.Of[T](det4(m.Float64s()))
}

// Inverse returns the inverse of the matrix.
// Returns identity if the matrix is singular (det=0).
func (m Mat4[T]) Inverse() Mat4[T] {
	a := m.Float64s()
	det := det4(a)
	if det == 0 {
		return Identity[T]()
	}
	return Mat4From[T](inv4(a, 1/det))
}

// Get returns the element at (row, col).
func (m Mat4[T]) Get(row, col int) T {
	return m[row+col*4]
}

// Set sets the element at (row, col).
func (m *Mat4[T]) Set(row, col int, val T) {
	m[row+col*4] = val
}

// Row returns row i as a Vec4.
func (m Mat4[T]) Row(i int) Vec4[T] {
	return Vec4[T]{m[i], m[i+4], m[i+8], m[i+12]}
}

// Translation extracts the translation component.
func (m Mat4[T]) Translation() Vec3[T] {
	return Vec3[T]{m[12], m[13], m[14]}
}

func det4(m [16]float64) float64 {
	return m[0]*(m[5]*(m[10]*m[15]-m[14]*m[11])-m[9]*(m[6]*m[15]-m[14]*m[7])+m[13]*(m[6]*m[11]-m[10]*m[7])) -
		m[4]*(m[1]*(m[10]*m[15]-m[14]*m[11])-m[9]*(m[2]*m[15]-m[14]*m[3])+m[13]*(m[2]*m[11]-m[10]*m[3])) +
		m[8]*(m[1]*(m[6]*m[15]-m[14]*m[7])-m[5]*(m[2]*m[15]-m[14]*m[3])+m[13]*(m[2]*m[7]-m[6]*m[3])) -
		m[12]*(m[1]*(m[6]*m[11]-m[10]*m[7])-m[5]*(m[2]*m[11]-m[10]*m[3])+m[9]*(m[2]*m[7]-m[6]*m[3]))
}

// inv4 returns the adjugate of m scaled by invDet.
func inv4(m [16]float64, invDet float64) [16]float64 {
	var inv [16]float64
	for col := range 4 {
		for row := range 4 {
			// inv[row][col] = cofactor(col, row) / det
			c := minor3(m, col, row)
			if (row+col)%2 == 1 {
				c = -c
			}
			inv[row+col*4] = c * invDet
		}
	}
	return inv
}

// minor3 is the determinant of m with row r and column c removed.
func minor3(m [16]float64, r, c int) float64 {
	var s [9]float64
	i := 0
	for col := range 4 {
		if col == c {
			continue
		}
		for row := range 4 {
			if row == r {
				continue
			}
			s[i] = m[row+col*4]
			i++
		}
	}
	return det3(s)
}
