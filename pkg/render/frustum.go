// Package render implements a CPU rasterization pipeline over a generic
// scalar: view-space clipping, projection, culling, two rasterizers, a
// depth buffer and a perspective-correct shader.
package render

import (
	"math"

	"github.com/taigrr/softrender/pkg/math3d"
	"github.com/taigrr/softrender/pkg/scalar"
)

// Plane represents a plane in Hessian normal form: Normal·p + D = 0,
// with a unit normal pointing into the frustum.
type Plane[T scalar.Number[T]] struct {
	Normal math3d.Vec3[T]
	D      T
}

// NewPlane builds a normalized plane from float64 coefficients.
func NewPlane[T scalar.Number[T]](a, b, c, d float64) Plane[T] {
	l := math.Sqrt(a*a + b*b + c*c)
	if l == 0 {
		return Plane[T]{Normal: math3d.V3f[T](a, b, c), D: scalar.Of[T](d)}
	}
	return Plane[T]{
		Normal: math3d.V3f[T](a/l, b/l, c/l),
		D:      scalar.Of[T](d / l),
	}
}

// Normalize normalizes the plane equation so the normal has unit length.
func (p *Plane[T]) Normalize() {
	l := p.Normal.Len()
	if scalar.IsZero(l) {
		return
	}
	p.Normal = p.Normal.Div(l)
	p.D = p.D.Div(l)
}

// DistanceToPoint returns the signed distance from the plane to a point.
// Positive is inside.
func (p Plane[T]) DistanceToPoint(point math3d.Vec3[T]) T {
	return p.Normal.Dot(point).Add(p.D)
}

// Frustum plane indices, in clipping order.
const (
	FrustumLeft = iota
	FrustumRight
	FrustumTop
	FrustumBottom
	FrustumNear
	FrustumFar
)

// Frustum holds six inward-facing planes bounding a convex region.
type Frustum[T scalar.Number[T]] struct {
	Planes [6]Plane[T]
}

// NewFrustum builds the view-space frustum of a right-handed perspective
// camera looking down -Z.
func NewFrustum[T scalar.Number[T]](fovy math3d.Angle, aspect, near, far float64) Frustum[T] {
	tv := math.Tan(fovy.Radians() / 2)
	th := tv * aspect
	sv, cv := math.Sin(math.Atan(tv)), math.Cos(math.Atan(tv))
	sh, ch := math.Sin(math.Atan(th)), math.Cos(math.Atan(th))

	var f Frustum[T]
	f.Planes[FrustumLeft] = NewPlane[T](ch, 0, -sh, 0)
	f.Planes[FrustumRight] = NewPlane[T](-ch, 0, -sh, 0)
	f.Planes[FrustumTop] = NewPlane[T](0, -cv, -sv, 0)
	f.Planes[FrustumBottom] = NewPlane[T](0, cv, -sv, 0)
	f.Planes[FrustumNear] = NewPlane[T](0, 0, -1, -near)
	f.Planes[FrustumFar] = NewPlane[T](0, 0, 1, far)
	return f
}

// NewFrustumFromMatrix extracts frustum planes from a projection or
// view-projection matrix with the Gribb/Hartmann method. A projection
// matrix yields view-space planes, a view-projection matrix world-space
// planes.
func NewFrustumFromMatrix[T scalar.Number[T]](m math3d.Mat4[T]) Frustum[T] {
	a := m.Float64s()
	row := func(i int) [4]float64 {
		return [4]float64{a[i], a[i+4], a[i+8], a[i+12]}
	}
	r0, r1, r2, r3 := row(0), row(1), row(2), row(3)
	plane := func(s float64, r [4]float64) Plane[T] {
		return NewPlane[T](r3[0]+s*r[0], r3[1]+s*r[1], r3[2]+s*r[2], r3[3]+s*r[3])
	}

	var f Frustum[T]
	f.Planes[FrustumLeft] = plane(1, r0)
	f.Planes[FrustumRight] = plane(-1, r0)
	f.Planes[FrustumTop] = plane(-1, r1)
	f.Planes[FrustumBottom] = plane(1, r1)
	f.Planes[FrustumNear] = plane(1, r2)
	f.Planes[FrustumFar] = plane(-1, r2)
	return f
}

// ContainsPoint tests if a point is inside the frustum. Points on a plane
// are inside.
func (f *Frustum[T]) ContainsPoint(p math3d.Vec3[T]) bool {
	for i := range f.Planes {
		if scalar.Sign(f.Planes[i].DistanceToPoint(p)) < 0 {
			return false
		}
	}
	return true
}

// IntersectAABB tests if any part of the box may be inside the frustum.
// Uses the positive vertex of each plane for early rejection.
func (f *Frustum[T]) IntersectAABB(box AABB[T]) bool {
	for i := range f.Planes {
		plane := f.Planes[i]
		n := plane.Normal
		pVertex := math3d.V3(
			pick(scalar.Sign(n.X) >= 0, box.Max.X, box.Min.X),
			pick(scalar.Sign(n.Y) >= 0, box.Max.Y, box.Min.Y),
			pick(scalar.Sign(n.Z) >= 0, box.Max.Z, box.Min.Z),
		)
		if scalar.Sign(plane.DistanceToPoint(pVertex)) < 0 {
			return false
		}
	}
	return true
}

// IntersectsSphere tests if a sphere intersects the frustum.
func (f *Frustum[T]) IntersectsSphere(center math3d.Vec3[T], radius T) bool {
	for i := range f.Planes {
		if f.Planes[i].DistanceToPoint(center).Less(radius.Neg()) {
			return false
		}
	}
	return true
}

func pick[T any](cond bool, a, b T) T {
	if cond {
		return a
	}
	return b
}

// AABB represents an axis-aligned bounding box.
type AABB[T scalar.Number[T]] struct {
	Min math3d.Vec3[T]
	Max math3d.Vec3[T]
}

// NewAABB creates an AABB from min and max points.
func NewAABB[T scalar.Number[T]](lo, hi math3d.Vec3[T]) AABB[T] {
	return AABB[T]{Min: lo, Max: hi}
}

// Center returns the center of the AABB.
func (b AABB[T]) Center() math3d.Vec3[T] {
	return b.Min.Add(b.Max).Scale(scalar.Half[T]())
}

// Size returns the dimensions of the AABB.
func (b AABB[T]) Size() math3d.Vec3[T] {
	return b.Max.Sub(b.Min)
}

// Transform returns the AABB bounding all 8 transformed corners.
func (b AABB[T]) Transform(m math3d.Mat4[T]) AABB[T] {
	lo, hi := b.Min, b.Max
	first := true
	var out AABB[T]
	for i := range 8 {
		c := math3d.V3(
			pick(i&1 != 0, hi.X, lo.X),
			pick(i&2 != 0, hi.Y, lo.Y),
			pick(i&4 != 0, hi.Z, lo.Z),
		)
		p := m.MulVec3(c)
		if first {
			out = AABB[T]{Min: p, Max: p}
			first = false
			continue
		}
		out.Min = out.Min.Min(p)
		out.Max = out.Max.Max(p)
	}
	return out
}

// ContainsPoint returns true if the point is inside the AABB.
func (b AABB[T]) ContainsPoint(p math3d.Vec3[T]) bool {
	return !p.X.Less(b.Min.X) && !b.Max.X.Less(p.X) &&
		!p.Y.Less(b.Min.Y) && !b.Max.Y.Less(p.Y) &&
		!p.Z.Less(b.Min.Z) && !b.Max.Z.Less(p.Z)
}
