package scalar

import (
	"math"
	"math/bits"
	"strconv"

	"golang.org/x/image/math/fixed"
)

const fracBits = 12

// Fixed is a signed 52.12 fixed-point scalar backed by fixed.Int52_12.
// Arithmetic wraps on overflow except Div and conversions, which saturate.
type Fixed fixed.Int52_12

const (
	// MaxFixed is the largest representable Fixed.
	MaxFixed Fixed = math.MaxInt64
	// MinFixed is the smallest representable Fixed.
	MinFixed Fixed = math.MinInt64
)

// Raw returns the underlying 52.12 bits.
func (a Fixed) Raw() int64 { return int64(a) }

func (a Fixed) Add(b Fixed) Fixed { return a + b }
func (a Fixed) Sub(b Fixed) Fixed { return a - b }
func (a Fixed) Neg() Fixed        { return -a }
func (a Fixed) Less(b Fixed) bool { return a < b }

// Mul rounds to nearest using the 128-bit product from x/image.
func (a Fixed) Mul(b Fixed) Fixed {
	return Fixed(fixed.Int52_12(a).Mul(fixed.Int52_12(b)))
}

// Div computes (a << 12) / b in 128 bits, truncating toward zero.
func (a Fixed) Div(b Fixed) Fixed {
	neg := (a < 0) != (b < 0)
	if b == 0 {
		switch {
		case a > 0:
			return MaxFixed
		case a < 0:
			return MinFixed
		}
		return 0
	}
	ua, ub := absU64(int64(a)), absU64(int64(b))
	hi, lo := ua>>(64-fracBits), ua<<fracBits
	if hi >= ub {
		return saturate(neg)
	}
	q, _ := bits.Div64(hi, lo, ub)
	if q > math.MaxInt64 {
		return saturate(neg)
	}
	if neg {
		return Fixed(-int64(q))
	}
	return Fixed(q)
}

func (a Fixed) Sqrt() Fixed {
	if a <= 0 {
		return 0
	}
	return a.FromFloat64(math.Sqrt(a.Float64()))
}

func (a Fixed) Floor() int { return fixed.Int52_12(a).Floor() }
func (a Fixed) Ceil() int  { return fixed.Int52_12(a).Ceil() }

func (a Fixed) Trunc() int {
	if a < 0 {
		return -(-a).Floor()
	}
	return a.Floor()
}

func (a Fixed) Float64() float64 { return float64(a) / (1 << fracBits) }

// FromFloat64 rounds to the nearest representable value. NaN maps to zero.
func (Fixed) FromFloat64(f float64) Fixed {
	switch {
	case math.IsNaN(f):
		return 0
	case f >= float64(MaxFixed)/(1<<fracBits):
		return MaxFixed
	case f <= float64(MinFixed)/(1<<fracBits):
		return MinFixed
	}
	return Fixed(math.Round(f * (1 << fracBits)))
}

func (Fixed) FromInt(n int) Fixed { return Fixed(int64(n) << fracBits) }
func (Fixed) Inf() Fixed          { return MaxFixed }
func (Fixed) Epsilon() Fixed      { return 1 }

func (a Fixed) String() string {
	return strconv.FormatFloat(a.Float64(), 'f', -1, 64)
}

func absU64(v int64) uint64 {
	if v < 0 {
		return uint64(-v)
	}
	return uint64(v)
}

func saturate(neg bool) Fixed {
	if neg {
		return MinFixed
	}
	return MaxFixed
}
