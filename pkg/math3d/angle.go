package math3d

import "math"

// Angle is an angle in radians.
type Angle float64

// Degrees returns an Angle of d degrees.
func Degrees(d float64) Angle {
	return Angle(d * math.Pi / 180)
}

// Radians returns an Angle of r radians.
func Radians(r float64) Angle {
	return Angle(r)
}

// Radians returns the angle in radians.
func (a Angle) Radians() float64 {
	return float64(a)
}

// Degrees returns the angle in degrees.
func (a Angle) Degrees() float64 {
	return float64(a) * 180 / math.Pi
}

// Sincos returns the sine and cosine of a.
func (a Angle) Sincos() (sin, cos float64) {
	return math.Sincos(float64(a))
}
