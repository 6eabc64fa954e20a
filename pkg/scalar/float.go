package scalar

import (
	"math"
	"strconv"
)

// Float is the floating-point scalar.
type Float float64

func (a Float) Add(b Float) Float { return a + b }
func (a Float) Sub(b Float) Float { return a - b }
func (a Float) Mul(b Float) Float { return a * b }
func (a Float) Neg() Float        { return -a }
func (a Float) Less(b Float) bool { return a < b }
func (a Float) Sqrt() Float       { return Float(math.Sqrt(float64(a))) }

// Div returns a/b. A zero divisor yields a signed infinity, or zero for 0/0.
func (a Float) Div(b Float) Float {
	if b == 0 {
		switch {
		case a > 0:
			return Float(math.Inf(1))
		case a < 0:
			return Float(math.Inf(-1))
		}
		return 0
	}
	return a / b
}

func (a Float) Floor() int { return int(math.Floor(float64(a))) }
func (a Float) Ceil() int  { return int(math.Ceil(float64(a))) }
func (a Float) Trunc() int { return int(a) }

func (a Float) Float64() float64          { return float64(a) }
func (Float) FromFloat64(f float64) Float { return Float(f) }
func (Float) FromInt(n int) Float         { return Float(n) }
func (Float) Inf() Float                  { return Float(math.Inf(1)) }
func (Float) Epsilon() Float              { return 1e-7 }
func (a Float) String() string            { return strconv.FormatFloat(float64(a), 'g', -1, 64) }
