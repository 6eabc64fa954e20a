// Package scalar defines the numeric contract the renderer is generic over,
// with a floating-point and a fixed-point instantiation.
package scalar

// Number is the arithmetic a renderer scalar must support. Methods take and
// return values so both instantiations stay plain value types.
type Number[T any] interface {
	comparable

	Add(T) T
	Sub(T) T
	Mul(T) T
	// Div saturates instead of panicking when the divisor is zero.
	Div(T) T
	Neg() T
	Less(T) bool
	Sqrt() T

	Floor() int
	Ceil() int
	// Trunc rounds toward zero.
	Trunc() int

	Float64() float64
	FromFloat64(float64) T
	FromInt(int) T

	// Inf is the largest value the type can hold (+Inf for floats).
	Inf() T
	// Epsilon is the smallest meaningful step, used as the default ULP.
	Epsilon() T

	String() string
}

// Of converts f to T.
func Of[T Number[T]](f float64) T {
	var z T
	return z.FromFloat64(f)
}

// Int converts n to T.
func Int[T Number[T]](n int) T {
	var z T
	return z.FromInt(n)
}

// Zero returns the additive identity.
func Zero[T Number[T]]() T {
	var z T
	return z
}

// One returns the multiplicative identity.
func One[T Number[T]]() T {
	return Int[T](1)
}

// Half returns 0.5.
func Half[T Number[T]]() T {
	return Of[T](0.5)
}

// Inf returns the largest value of T.
func Inf[T Number[T]]() T {
	var z T
	return z.Inf()
}

// Epsilon returns the smallest meaningful step of T.
func Epsilon[T Number[T]]() T {
	var z T
	return z.Epsilon()
}

// Min returns the smaller of a and b.
func Min[T Number[T]](a, b T) T {
	if b.Less(a) {
		return b
	}
	return a
}

// Max returns the larger of a and b.
func Max[T Number[T]](a, b T) T {
	if a.Less(b) {
		return b
	}
	return a
}

// Min3 returns the smallest of three values.
func Min3[T Number[T]](a, b, c T) T {
	return Min(Min(a, b), c)
}

// Max3 returns the largest of three values.
func Max3[T Number[T]](a, b, c T) T {
	return Max(Max(a, b), c)
}

// Clamp limits v to [lo, hi].
func Clamp[T Number[T]](v, lo, hi T) T {
	if v.Less(lo) {
		return lo
	}
	if hi.Less(v) {
		return hi
	}
	return v
}

// Abs returns |v|.
func Abs[T Number[T]](v T) T {
	if v.Less(Zero[T]()) {
		return v.Neg()
	}
	return v
}

// Sign returns -1, 0 or 1.
func Sign[T Number[T]](v T) int {
	var z T
	switch {
	case v.Less(z):
		return -1
	case z.Less(v):
		return 1
	}
	return 0
}

// IsZero reports whether v is exactly zero.
func IsZero[T Number[T]](v T) bool {
	var z T
	return v == z
}

// Round returns v rounded to the nearest integer, halves away from -Inf.
func Round[T Number[T]](v T) int {
	return v.Add(Half[T]()).Floor()
}
