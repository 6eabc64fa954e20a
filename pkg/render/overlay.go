package render

import (
	"github.com/taigrr/softrender/pkg/math3d"
	"github.com/taigrr/softrender/pkg/scalar"
)

// Overlays are drawn without depth testing, on top of whatever is in the
// color buffer.

// drawLine draws a screen-space line with the configured algorithm.
func (r *Renderer[T]) drawLine(a, b math3d.Vec2[T], c Color) {
	plot := func(x, y int) { r.fb.SetPixel(x, y, c) }
	if r.cfg.Lines == DDA {
		LineDDA(a.X, a.Y, b.X, b.Y, plot)
		return
	}
	LineBresenham(scalar.Round(a.X), scalar.Round(a.Y), scalar.Round(b.X), scalar.Round(b.Y), plot)
}

// DrawLine3D draws a world-space line, clipped to the frustum.
func (r *Renderer[T]) DrawLine3D(p1, p2 math3d.Vec3[T], c Color) {
	a := Vertex[T]{Position: r.view.MulVec4(math3d.Point(p1))}
	b := Vertex[T]{Position: r.view.MulVec4(math3d.Point(p2))}
	if !clipSegment(&a, &b, &r.frustum) {
		return
	}
	ProjectToScreen(&a, r.projection, r.screen)
	ProjectToScreen(&b, r.projection, r.screen)
	r.drawLine(a.ScreenXY(), b.ScreenXY(), c)
}

// clipSegment trims the view-space segment ab to the inside of every
// plane. It reports false when nothing is left.
func clipSegment[T scalar.Number[T]](a, b *Vertex[T], f *Frustum[T]) bool {
	for i := range f.Planes {
		pl := f.Planes[i]
		da := pl.DistanceToPoint(a.Position.Vec3())
		db := pl.DistanceToPoint(b.Position.Vec3())
		sa, sb := scalar.Sign(da), scalar.Sign(db)
		switch {
		case sa < 0 && sb < 0:
			return false
		case sa < 0:
			*a = a.Lerp(*b, da.Div(da.Sub(db)))
		case sb < 0:
			*b = b.Lerp(*a, db.Div(db.Sub(da)))
		}
	}
	return true
}

// DrawAABB draws the 12 edges of a world-space box.
func (r *Renderer[T]) DrawAABB(box AABB[T], c Color) {
	lo, hi := box.Min, box.Max
	var v [8]math3d.Vec3[T]
	for i := range v {
		v[i] = math3d.V3(
			pick(i&1 != 0, hi.X, lo.X),
			pick(i&2 != 0, hi.Y, lo.Y),
			pick(i&4 != 0, hi.Z, lo.Z),
		)
	}

	edges := [12][2]int{
		{0, 1}, {2, 3}, {4, 5}, {6, 7}, // along X
		{0, 2}, {1, 3}, {4, 6}, {5, 7}, // along Y
		{0, 4}, {1, 5}, {2, 6}, {3, 7}, // along Z
	}
	for _, e := range edges {
		r.DrawLine3D(v[e[0]], v[e[1]], c)
	}
}

// DrawAxes draws the coordinate axes at the origin.
func (r *Renderer[T]) DrawAxes(length T) {
	var origin math3d.Vec3[T]
	zero := scalar.Zero[T]()
	r.DrawLine3D(origin, math3d.V3(length, zero, zero), ColorRed)
	r.DrawLine3D(origin, math3d.V3(zero, length, zero), ColorGreen)
	r.DrawLine3D(origin, math3d.V3(zero, zero, length), ColorBlue)
}

// DrawGrid draws a grid of lines on the XZ plane at height y.
func (r *Renderer[T]) DrawGrid(size T, lines int, y T, c Color) {
	if lines < 2 {
		return
	}
	half := size.Mul(scalar.Half[T]())
	step := size.Div(scalar.Int[T](lines - 1))
	for i := range lines {
		o := half.Neg().Add(step.Mul(scalar.Int[T](i)))
		r.DrawLine3D(math3d.V3(o, y, half.Neg()), math3d.V3(o, y, half), c)
		r.DrawLine3D(math3d.V3(half.Neg(), y, o), math3d.V3(half, y, o), c)
	}
}
