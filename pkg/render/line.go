package render

import "github.com/taigrr/softrender/pkg/scalar"

// LineAlgorithm selects how overlay lines are drawn.
type LineAlgorithm int

const (
	Bresenham LineAlgorithm = iota // integer error accumulation
	DDA                            // scalar stepping
)

func (a LineAlgorithm) String() string {
	if a == DDA {
		return "dda"
	}
	return "bresenham"
}

// LineBresenham plots every pixel of the line from (x0, y0) to (x1, y1),
// both endpoints included.
func LineBresenham(x0, y0, x1, y1 int, plot func(x, y int)) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx := 1
	if x0 > x1 {
		sx = -1
	}
	sy := 1
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	for {
		plot(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// LineDDA plots the line from (x0, y0) to (x1, y1) by stepping the major
// axis one pixel at a time in scalar arithmetic. Both endpoints are
// included; a zero-length line plots one pixel.
func LineDDA[T scalar.Number[T]](x0, y0, x1, y1 T, plot func(x, y int)) {
	steps := max(abs(scalar.Round(x1)-scalar.Round(x0)), abs(scalar.Round(y1)-scalar.Round(y0)))
	if steps == 0 {
		plot(scalar.Round(x0), scalar.Round(y0))
		return
	}
	dx, dy := x1.Sub(x0), y1.Sub(y0)
	n := scalar.Int[T](steps)
	for i := range steps + 1 {
		k := scalar.Int[T](i)
		x := x0.Add(dx.Mul(k).Div(n))
		y := y0.Add(dy.Mul(k).Div(n))
		plot(scalar.Round(x), scalar.Round(y))
	}
}
