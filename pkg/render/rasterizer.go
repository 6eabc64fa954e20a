package render

import (
	"github.com/taigrr/softrender/pkg/math3d"
	"github.com/taigrr/softrender/pkg/scalar"
)

// PixelFunc receives each covered pixel with its barycentric weights for
// the triangle's first, second and third vertex. The weights sum to one.
type PixelFunc[T scalar.Number[T]] func(x, y int, w0, w1, w2 T)

// Rasterizer selects a triangle fill strategy. Both cover the same pixels
// under the top-left fill rule, whatever the winding.
type Rasterizer int

const (
	Scanline     Rasterizer = iota // row spans between edge intersections
	EdgeFunction                   // bounding box with incremental edge functions
)

func (r Rasterizer) String() string {
	if r == EdgeFunction {
		return "edge"
	}
	return "scanline"
}

// Rasterize fills the screen-space triangle with the selected strategy.
func Rasterize[T scalar.Number[T]](r Rasterizer, v0, v1, v2 math3d.Vec2[T], width, height int, ulp T, fn PixelFunc[T]) {
	if r == EdgeFunction {
		RasterizeEdge(v0, v1, v2, width, height, ulp, fn)
		return
	}
	RasterizeScanline(v0, v1, v2, width, height, fn)
}

// RasterizeEdge walks the triangle's clamped bounding box and tests each
// pixel center against the three edge functions, updating them
// incrementally along rows and columns. Edges that are neither top nor
// left are biased by ulp so pixel centers exactly on them are left to the
// neighbouring triangle. Degenerate triangles draw nothing.
func RasterizeEdge[T scalar.Number[T]](v0, v1, v2 math3d.Vec2[T], width, height int, ulp T, fn PixelFunc[T]) {
	// Edge k is opposite vertex k.
	e := [3]math3d.Vec2[T]{v2.Sub(v1), v0.Sub(v2), v1.Sub(v0)}
	origin := [3]math3d.Vec2[T]{v1, v2, v0}

	area := e[0].Cross(e[1])
	sa := scalar.Sign(area)
	if sa == 0 || width <= 0 || height <= 0 {
		return
	}

	minX := clampInt(scalar.Min3(v0.X, v1.X, v2.X).Floor(), 0, width-1)
	maxX := clampInt(scalar.Max3(v0.X, v1.X, v2.X).Ceil(), 0, width-1)
	minY := clampInt(scalar.Min3(v0.Y, v1.Y, v2.Y).Floor(), 0, height-1)
	maxY := clampInt(scalar.Max3(v0.Y, v1.Y, v2.Y).Ceil(), 0, height-1)

	half := scalar.Half[T]()
	p := math3d.V2(scalar.Int[T](minX).Add(half), scalar.Int[T](minY).Add(half))

	// Row start values and per-pixel steps, flipped so the interior is
	// positive for either winding.
	var row, stepX, stepY [3]T
	for k := range 3 {
		w := e[k].Cross(p.Sub(origin[k]))
		sx, sy := e[k].Y.Neg(), e[k].X
		if sa < 0 {
			w, sx, sy = w.Neg(), sx.Neg(), sy.Neg()
		}
		if !isTopLeft(e[k], sa) {
			w = w.Sub(ulp)
		}
		row[k], stepX[k], stepY[k] = w, sx, sy
	}
	if sa < 0 {
		area = area.Neg()
	}

	for y := minY; y <= maxY; y++ {
		w := row
		for x := minX; x <= maxX; x++ {
			if scalar.Sign(w[0]) >= 0 && scalar.Sign(w[1]) >= 0 && scalar.Sign(w[2]) >= 0 {
				// Raw edge values step exactly; normalize per pixel.
				fn(x, y, w[0].Div(area), w[1].Div(area), w[2].Div(area))
			}
			w[0], w[1], w[2] = w[0].Add(stepX[0]), w[1].Add(stepX[1]), w[2].Add(stepX[2])
		}
		row[0], row[1], row[2] = row[0].Add(stepY[0]), row[1].Add(stepY[1]), row[2].Add(stepY[2])
	}
}

// isTopLeft reports whether edge e of a triangle whose doubled area has
// sign sa is a top edge (horizontal, interior below) or a left edge
// (interior to its right). Screen y grows downward.
func isTopLeft[T scalar.Number[T]](e math3d.Vec2[T], sa int) bool {
	if scalar.IsZero(e.Y) {
		return scalar.Sign(e.X) == sa
	}
	return scalar.Sign(e.Y) == -sa
}

// RasterizeScanline sorts the vertices by y and fills the flat-bottom and
// flat-top halves row by row, stepping each edge by its inverse slope.
// A pixel is covered when its center lies in [left, right) of its row and
// the row center lies in [top, bottom) of the triangle, which is the
// top-left rule. Triangles with no height draw nothing.
func RasterizeScanline[T scalar.Number[T]](v0, v1, v2 math3d.Vec2[T], width, height int, fn PixelFunc[T]) {
	area := v0.Sub(v2).Cross(v1.Sub(v2))
	if scalar.IsZero(area) || width <= 0 || height <= 0 {
		return
	}

	a, b, c := v0, v1, v2
	if b.Y.Less(a.Y) {
		a, b = b, a
	}
	if c.Y.Less(b.Y) {
		b, c = c, b
	}
	if b.Y.Less(a.Y) {
		a, b = b, a
	}
	if a.Y == c.Y {
		return
	}

	tol := scalar.Max(scalar.Of[T](1e-6), scalar.Epsilon[T]().Mul(scalar.Int[T](4)))
	long := newSlope(a, c)
	s := scanSetup[T]{v0: v0, v1: v1, v2: v2, area: area, tol: tol, width: width, fn: fn}

	if a.Y != b.Y {
		s.fill(rowRange(a.Y, b.Y, height), long, newSlope(a, b))
	}
	if b.Y != c.Y {
		s.fill(rowRange(b.Y, c.Y, height), long, newSlope(b, c))
	}
}

// slope is a non-horizontal edge stepped by inverse slope.
type slope[T scalar.Number[T]] struct {
	origin math3d.Vec2[T]
	dxdy   T
}

func newSlope[T scalar.Number[T]](from, to math3d.Vec2[T]) slope[T] {
	return slope[T]{origin: from, dxdy: to.X.Sub(from.X).Div(to.Y.Sub(from.Y))}
}

func (s slope[T]) xAt(y T) T {
	return s.origin.X.Add(y.Sub(s.origin.Y).Mul(s.dxdy))
}

type scanSetup[T scalar.Number[T]] struct {
	v0, v1, v2 math3d.Vec2[T]
	area, tol  T
	width      int
	fn         PixelFunc[T]
}

// fill draws rows [y0, y1) between two edges.
func (s *scanSetup[T]) fill(rows [2]int, e0, e1 slope[T]) {
	half := scalar.Half[T]()
	lo := s.tol.Neg()
	for y := rows[0]; y < rows[1]; y++ {
		py := scalar.Int[T](y).Add(half)
		xs, xe := e0.xAt(py), e1.xAt(py)
		if xe.Less(xs) {
			xs, xe = xe, xs
		}
		x0 := max(xs.Sub(half).Ceil(), 0)
		x1 := min(xe.Sub(half).Ceil(), s.width)
		for x := x0; x < x1; x++ {
			p := math3d.V2(scalar.Int[T](x).Add(half), py)
			w0 := s.v2.Sub(s.v1).Cross(p.Sub(s.v1)).Div(s.area)
			w1 := s.v0.Sub(s.v2).Cross(p.Sub(s.v2)).Div(s.area)
			w2 := s.v1.Sub(s.v0).Cross(p.Sub(s.v0)).Div(s.area)
			if w0.Less(lo) || w1.Less(lo) || w2.Less(lo) {
				continue
			}
			s.fn(x, y, w0, w1, w2)
		}
	}
}

// rowRange returns the rows whose centers lie in [top, bottom), clamped to
// the viewport.
func rowRange[T scalar.Number[T]](top, bottom T, height int) [2]int {
	half := scalar.Half[T]()
	return [2]int{
		max(top.Sub(half).Ceil(), 0),
		min(bottom.Sub(half).Ceil(), height),
	}
}

func clampInt(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
