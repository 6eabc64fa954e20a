package render

import (
	"math"
	"testing"

	"github.com/taigrr/softrender/pkg/math3d"
	"github.com/taigrr/softrender/pkg/scalar"
)

func TestPlaneDistanceToPoint(t *testing.T) {
	// Plane at Z=0, normal pointing +Z
	plane := Plane[F]{Normal: math3d.V3[F](0, 0, 1), D: 0}

	tests := []struct {
		name     string
		point    math3d.Vec3[F]
		expected float64
	}{
		{"origin", math3d.V3[F](0, 0, 0), 0},
		{"in front", math3d.V3[F](0, 0, 5), 5},
		{"behind", math3d.V3[F](0, 0, -3), -3},
		{"offset XY", math3d.V3[F](10, -5, 2), 2},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			dist := plane.DistanceToPoint(tc.point)
			if math.Abs(float64(dist)-tc.expected) > 1e-9 {
				t.Errorf("got %v, want %v", dist, tc.expected)
			}
		})
	}
}

func TestPlaneNormalize(t *testing.T) {
	plane := Plane[F]{Normal: math3d.V3[F](0, 3, 4), D: 10}
	plane.Normalize()

	if length := plane.Normal.Len(); math.Abs(float64(length)-1.0) > 1e-9 {
		t.Errorf("normalized normal length = %v, want 1.0", length)
	}
	if math.Abs(float64(plane.Normal.Y)-0.6) > 1e-9 {
		t.Errorf("normal.Y = %v, want 0.6", plane.Normal.Y)
	}
	if math.Abs(float64(plane.Normal.Z)-0.8) > 1e-9 {
		t.Errorf("normal.Z = %v, want 0.8", plane.Normal.Z)
	}
	if math.Abs(float64(plane.D)-2.0) > 1e-9 {
		t.Errorf("D = %v, want 2.0", plane.D)
	}

	if p := NewPlane[F](0, 3, 4, 10); p != plane {
		t.Errorf("NewPlane = %+v, want %+v", p, plane)
	}
}

func TestAABBBasics(t *testing.T) {
	box := NewAABB(math3d.V3[F](-1, -2, -3), math3d.V3[F](1, 2, 3))

	if center := box.Center(); center != (math3d.Vec3[F]{}) {
		t.Errorf("center = %v, want (0, 0, 0)", center)
	}
	if size := box.Size(); size != math3d.V3[F](2, 4, 6) {
		t.Errorf("size = %v, want (2, 4, 6)", size)
	}
}

func TestAABBContainsPoint(t *testing.T) {
	box := NewAABB(math3d.V3[F](0, 0, 0), math3d.V3[F](10, 10, 10))

	tests := []struct {
		name     string
		point    math3d.Vec3[F]
		expected bool
	}{
		{"center", math3d.V3[F](5, 5, 5), true},
		{"corner min", math3d.V3[F](0, 0, 0), true},
		{"corner max", math3d.V3[F](10, 10, 10), true},
		{"edge", math3d.V3[F](5, 0, 5), true},
		{"outside X", math3d.V3[F](11, 5, 5), false},
		{"outside Y", math3d.V3[F](5, -1, 5), false},
		{"outside Z", math3d.V3[F](5, 5, 15), false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := box.ContainsPoint(tc.point); got != tc.expected {
				t.Errorf("ContainsPoint(%v) = %v, want %v", tc.point, got, tc.expected)
			}
		})
	}
}

func TestAABBTransform(t *testing.T) {
	box := NewAABB(math3d.V3[F](-1, -1, -1), math3d.V3[F](1, 1, 1))

	t.Run("translation", func(t *testing.T) {
		got := box.Transform(math3d.Translate(math3d.V3[F](10, 20, 30)))
		if got.Min != math3d.V3[F](9, 19, 29) || got.Max != math3d.V3[F](11, 21, 31) {
			t.Errorf("translated = %v..%v, want (9,19,29)..(11,21,31)", got.Min, got.Max)
		}
	})

	t.Run("scale", func(t *testing.T) {
		got := box.Transform(math3d.ScaleUniform[F](2))
		if got.Min != math3d.V3[F](-2, -2, -2) || got.Max != math3d.V3[F](2, 2, 2) {
			t.Errorf("scaled = %v..%v, want (-2,-2,-2)..(2,2,2)", got.Min, got.Max)
		}
	})

	t.Run("rotation grows bounds", func(t *testing.T) {
		got := box.Transform(math3d.RotateY[F](math3d.Degrees(45)))
		want := math.Sqrt2
		if math.Abs(float64(got.Max.X)-want) > 1e-9 || math.Abs(float64(got.Min.Z)+want) > 1e-9 {
			t.Errorf("rotated = %v..%v, want x and z extents of %v", got.Min, got.Max, want)
		}
		if math.Abs(float64(got.Max.Y)-1) > 1e-9 {
			t.Errorf("rotated max.Y = %v, want 1", got.Max.Y)
		}
	})
}

func TestFrustumAnalyticMatchesMatrix(t *testing.T) {
	tests := []struct {
		name              string
		fovy              float64
		aspect, near, far float64
	}{
		{"square", 90, 1, 1, 100},
		{"widescreen", 60, 16.0 / 9.0, 0.1, 100},
		{"tall", 45, 0.5, 2, 50},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			fovy := math3d.Degrees(tc.fovy)
			analytic := NewFrustum[F](fovy, tc.aspect, tc.near, tc.far)
			extracted := NewFrustumFromMatrix(math3d.Perspective[F](fovy, tc.aspect, tc.near, tc.far))

			for i := range analytic.Planes {
				a, e := analytic.Planes[i], extracted.Planes[i]
				if a.Normal.Distance(e.Normal) > 1e-9 || math.Abs(float64(a.D-e.D)) > 1e-6 {
					t.Errorf("plane %d: analytic %+v, extracted %+v", i, a, e)
				}
			}
		})
	}
}

func TestFrustumFromPerspective(t *testing.T) {
	proj := math3d.Perspective[F](math3d.Degrees(60), 16.0/9.0, 0.1, 100)
	frustum := NewFrustumFromMatrix(proj.Mul(math3d.Identity[F]()))

	for i, plane := range frustum.Planes {
		if length := plane.Normal.Len(); math.Abs(float64(length)-1.0) > 1e-6 {
			t.Errorf("plane %d normal length = %v, want 1.0", i, length)
		}
	}
}

func TestFrustumContainsPoint(t *testing.T) {
	frustum := NewFrustum[F](math3d.Degrees(60), 16.0/9.0, 0.1, 100)

	tests := []struct {
		name     string
		point    math3d.Vec3[F]
		expected bool
	}{
		{"center near", math3d.V3[F](0, 0, -1), true},
		{"center mid", math3d.V3[F](0, 0, -50), true},
		{"center far", math3d.V3[F](0, 0, -99), true},
		{"behind camera", math3d.V3[F](0, 0, 1), false},
		{"too far", math3d.V3[F](0, 0, -200), false},
		{"too close", math3d.V3[F](0, 0, -0.01), false},
		{"above view", math3d.V3[F](0, 10, -5), false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := frustum.ContainsPoint(tc.point); got != tc.expected {
				t.Errorf("ContainsPoint(%v) = %v, want %v", tc.point, got, tc.expected)
			}
		})
	}
}

func TestFrustumContainsPointFixed(t *testing.T) {
	frustum := NewFrustum[scalar.Fixed](math3d.Degrees(60), 1, 0.5, 50)

	inside := math3d.V3f[scalar.Fixed](0.5, -0.5, -10)
	if !frustum.ContainsPoint(inside) {
		t.Errorf("ContainsPoint(%v) = false, want true", inside)
	}
	behind := math3d.V3f[scalar.Fixed](0, 0, 3)
	if frustum.ContainsPoint(behind) {
		t.Errorf("ContainsPoint(%v) = true, want false", behind)
	}
}

func TestFrustumIntersectAABB(t *testing.T) {
	frustum := NewFrustum[F](math3d.Degrees(60), 16.0/9.0, 1, 100)

	tests := []struct {
		name     string
		box      AABB[F]
		expected bool
	}{
		{
			"fully inside",
			NewAABB(math3d.V3[F](-1, -1, -10), math3d.V3[F](1, 1, -5)),
			true,
		},
		{
			"partially visible",
			NewAABB(math3d.V3[F](-1, -1, -2), math3d.V3[F](1, 1, 2)), // Crosses near plane and goes behind
			true,
		},
		{
			"behind camera",
			NewAABB(math3d.V3[F](-1, -1, 5), math3d.V3[F](1, 1, 10)),
			false,
		},
		{
			"beyond far plane",
			NewAABB(math3d.V3[F](-1, -1, -150), math3d.V3[F](1, 1, -120)),
			false,
		},
		{
			"far to the right",
			NewAABB(math3d.V3[F](100, -1, -10), math3d.V3[F](110, 1, -5)),
			false,
		},
		{
			"large box containing frustum",
			NewAABB(math3d.V3[F](-200, -200, -200), math3d.V3[F](200, 200, 200)),
			true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := frustum.IntersectAABB(tc.box); got != tc.expected {
				t.Errorf("IntersectAABB(%v) = %v, want %v", tc.box, got, tc.expected)
			}
		})
	}
}

func TestFrustumIntersectsSphere(t *testing.T) {
	frustum := NewFrustum[F](math3d.Degrees(60), 16.0/9.0, 1, 100)

	tests := []struct {
		name     string
		center   math3d.Vec3[F]
		radius   F
		expected bool
	}{
		{"inside", math3d.V3[F](0, 0, -10), 1.0, true},
		{"partially visible", math3d.V3[F](0, 0, -0.5), 1.0, true}, // Near the near plane
		{"behind", math3d.V3[F](0, 0, 5), 1.0, false},
		{"far behind", math3d.V3[F](0, 0, 20), 1.0, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := frustum.IntersectsSphere(tc.center, tc.radius); got != tc.expected {
				t.Errorf("IntersectsSphere(%v, %v) = %v, want %v", tc.center, tc.radius, got, tc.expected)
			}
		})
	}
}

func TestFrustumWithRotatedCamera(t *testing.T) {
	// Camera at origin looking along +X
	proj := math3d.Perspective[F](math3d.Degrees(60), 1, 1, 100)
	view := math3d.LookAt(math3d.V3[F](0, 0, 0), math3d.V3[F](10, 0, 0), math3d.Up[F]())
	frustum := NewFrustumFromMatrix(proj.Mul(view))

	if !frustum.ContainsPoint(math3d.V3[F](10, 0, 0)) {
		t.Error("point in front of rotated camera should be visible")
	}
	if frustum.ContainsPoint(math3d.V3[F](-10, 0, 0)) {
		t.Error("point behind rotated camera should not be visible")
	}
}

func vec3Near(a, b math3d.Vec3[F], tol float64) bool {
	return float64(a.Distance(b)) <= tol
}

func TestCameraViewMatrix(t *testing.T) {
	t.Run("default is identity", func(t *testing.T) {
		cam := NewCamera[F]()
		if got := cam.ViewMatrix(); got != math3d.Identity[F]() {
			t.Errorf("ViewMatrix() = %v, want identity", got)
		}
	})

	t.Run("look at origin", func(t *testing.T) {
		cam := NewCamera[F]()
		cam.SetPosition(math3d.V3[F](0, 0, 5))
		cam.LookAt(math3d.V3[F](0, 0, 0))
		got := cam.ViewMatrix().MulVec3(math3d.V3[F](0, 0, 0))
		if !vec3Near(got, math3d.V3[F](0, 0, -5), 1e-9) {
			t.Errorf("origin in view space = %v, want (0, 0, -5)", got)
		}
	})

	t.Run("move forward", func(t *testing.T) {
		cam := NewCamera[F]()
		cam.MoveForward(3)
		if !vec3Near(cam.Position, math3d.V3[F](0, 0, -3), 1e-9) {
			t.Errorf("position = %v, want (0, 0, -3)", cam.Position)
		}
		got := cam.ViewMatrix().MulVec3(math3d.V3[F](0, 0, -5))
		if !vec3Near(got, math3d.V3[F](0, 0, -2), 1e-9) {
			t.Errorf("point in view space = %v, want (0, 0, -2)", got)
		}
	})

	t.Run("strafe and rise", func(t *testing.T) {
		cam := NewCamera[F]()
		cam.SetRotation(0, math.Pi/2, 0) // facing -X, right is -Z
		cam.MoveRight(2)
		cam.MoveUp(1)
		if !vec3Near(cam.Position, math3d.V3[F](0, 1, -2), 1e-9) {
			t.Errorf("position = %v, want (0, 1, -2)", cam.Position)
		}
		got := cam.ViewMatrix().MulVec3(math3d.V3[F](-4, 1, -2))
		if !vec3Near(got, math3d.V3[F](0, 0, -4), 1e-9) {
			t.Errorf("point ahead in view space = %v, want (0, 0, -4)", got)
		}
	})

	t.Run("pitch clamped", func(t *testing.T) {
		cam := NewCamera[F]()
		cam.Rotate(10, 0, 0)
		if cam.Pitch >= math.Pi/2 {
			t.Errorf("pitch = %v, want below %v", cam.Pitch, math.Pi/2)
		}
	})
}

func TestCameraOrbit(t *testing.T) {
	target := math3d.V3[F](1, 2, 3)

	tests := []struct {
		name       string
		yaw, pitch float64
		radius     float64
	}{
		{"front", 0, 0, 5},
		{"side", 90, 0, 5},
		{"above", 45, 30, 8},
		{"below behind", 200, -20, 3},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cam := NewCamera[F]()
			cam.Orbit(target, tc.radius, math3d.Degrees(tc.yaw), math3d.Degrees(tc.pitch))

			if d := float64(cam.Position.Distance(target)); math.Abs(d-tc.radius) > 1e-9 {
				t.Errorf("distance to target = %v, want %v", d, tc.radius)
			}
			got := cam.ViewMatrix().MulVec3(target)
			if !vec3Near(got, math3d.V3f[F](0, 0, -tc.radius), 1e-6) {
				t.Errorf("target in view space = %v, want (0, 0, %v)", got, -tc.radius)
			}
		})
	}
}

func BenchmarkFrustumIntersectAABB(b *testing.B) {
	frustum := NewFrustum[F](math3d.Degrees(60), 16.0/9.0, 0.1, 1000)
	box := NewAABB(math3d.V3[F](-1, -1, -10), math3d.V3[F](1, 1, -5))

	for b.Loop() {
		_ = frustum.IntersectAABB(box)
	}
}

func BenchmarkFrustumIntersectsSphere(b *testing.B) {
	frustum := NewFrustum[F](math3d.Degrees(60), 16.0/9.0, 0.1, 1000)
	center := math3d.V3[F](0, 0, -10)

	for b.Loop() {
		_ = frustum.IntersectsSphere(center, 2)
	}
}
