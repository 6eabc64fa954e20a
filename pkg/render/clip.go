package render

import "github.com/taigrr/softrender/pkg/scalar"

// MaxPolygonVertices bounds a clipped triangle. Each of the six planes can
// add at most one vertex to a convex polygon, and a triangle can gain at
// most six.
const MaxPolygonVertices = 9

// Polygon is a convex polygon produced by Clip. It lives on the stack.
type Polygon[T scalar.Number[T]] struct {
	V [MaxPolygonVertices]Vertex[T]
	N int
}

// Vertices returns the polygon's vertices.
func (p *Polygon[T]) Vertices() []Vertex[T] {
	return p.V[:p.N]
}

// Empty reports whether the polygon has no area left.
func (p *Polygon[T]) Empty() bool {
	return p.N < 3
}

func (p *Polygon[T]) push(v Vertex[T]) {
	if p.N == len(p.V) {
		panic("render: clipped polygon exceeds MaxPolygonVertices")
	}
	p.V[p.N] = v
	p.N++
}

// Clip clips a view-space triangle against the frustum with
// Sutherland-Hodgman, in plane order left, right, top, bottom, near, far.
// Points on a plane count as inside. A triangle that is entirely inside
// comes back unchanged, in order; one entirely outside comes back empty.
func Clip[T scalar.Number[T]](v0, v1, v2 Vertex[T], f *Frustum[T]) Polygon[T] {
	var bufs [2]Polygon[T]
	in, out := &bufs[0], &bufs[1]
	in.push(v0)
	in.push(v1)
	in.push(v2)

	for i := range f.Planes {
		clipPlane(in, out, f.Planes[i])
		if out.Empty() {
			return Polygon[T]{}
		}
		in, out = out, in
	}
	return *in
}

// clipPlane writes the part of in on the inner side of pl into out.
func clipPlane[T scalar.Number[T]](in, out *Polygon[T], pl Plane[T]) {
	out.N = 0
	n := in.N
	for i := range n {
		cur, next := in.V[i], in.V[(i+1)%n]
		dc := pl.DistanceToPoint(cur.Position.Vec3())
		dn := pl.DistanceToPoint(next.Position.Vec3())

		if scalar.Sign(dc) >= 0 {
			out.push(cur)
		}
		if scalar.Sign(dc)*scalar.Sign(dn) < 0 {
			t := dc.Div(dc.Sub(dn))
			out.push(cur.Lerp(next, t))
		}
	}
}
