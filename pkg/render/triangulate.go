package render

import "github.com/taigrr/softrender/pkg/scalar"

// Triangulate fan-triangulates a convex polygon around vertex 0, appending
// the triangles to dst. An n-gon yields n-2 triangles; fewer than three
// vertices yield none.
//
// The fan walks the polygon backwards: with at(k) = V[n-1-k], triangle i is
// {at(i+1), at(i), V[0]}. Each triangle is a rotation of an ascending
// index triple, so every triangle keeps the polygon's winding.
func Triangulate[T scalar.Number[T]](p *Polygon[T], dst []Triangle[T]) []Triangle[T] {
	n := p.N
	if n < 3 {
		return dst
	}
	at := func(k int) Vertex[T] {
		return p.V[((n-1-k)%n+n)%n]
	}
	for i := range n - 2 {
		dst = append(dst, Triangle[T]{at(i + 1), at(i), p.V[0]})
	}
	return dst
}
