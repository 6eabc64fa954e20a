package math3d

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/taigrr/softrender/pkg/scalar"
)

func matNear(t *testing.T, name string, got [16]float64, want [16]float64, tol float64) {
	t.Helper()
	for i := range got {
		if math.Abs(got[i]-want[i]) > tol {
			t.Errorf("%s[%d] = %v, want %v", name, i, got[i], want[i])
		}
	}
}

func TestPerspectiveMatchesMathGL(t *testing.T) {
	tests := []struct {
		fovy, aspect, near, far float64
	}{
		{60, 4.0 / 3.0, 0.1, 100},
		{90, 1, 1, 10},
		{45, 16.0 / 9.0, 0.5, 500},
	}

	for _, tt := range tests {
		got := Perspective[F](Degrees(tt.fovy), tt.aspect, tt.near, tt.far)
		want := mgl64.Perspective(mgl64.DegToRad(tt.fovy), tt.aspect, tt.near, tt.far)
		matNear(t, "Perspective", got.Float64s(), [16]float64(want), 1e-9)
	}
}

func TestOrthographicMatchesMathGL(t *testing.T) {
	tests := []struct {
		left, right, bottom, top, near, far float64
	}{
		{-1, 1, -1, 1, 0.1, 100},
		{0, 320, 240, 0, -1, 1},
		{-4, 2, -3, 5, 2, 20},
	}

	for _, tt := range tests {
		got := Orthographic[F](tt.left, tt.right, tt.bottom, tt.top, tt.near, tt.far)
		want := mgl64.Ortho(tt.left, tt.right, tt.bottom, tt.top, tt.near, tt.far)
		matNear(t, "Orthographic", got.Float64s(), [16]float64(want), 1e-9)
	}

	// The near plane maps to NDC z = -1 and the far plane to +1.
	m := Orthographic[F](-1, 1, -1, 1, 1, 9)
	if z := m.MulVec3(V3f[F](0, 0, -1)).Z; math.Abs(float64(z)+1) > 1e-9 {
		t.Errorf("near plane z = %v, want -1", z)
	}
	if z := m.MulVec3(V3f[F](0, 0, -9)).Z; math.Abs(float64(z)-1) > 1e-9 {
		t.Errorf("far plane z = %v, want 1", z)
	}
}

func TestLookAtMatchesMathGL(t *testing.T) {
	eye, center := V3f[F](3, 4, 5), V3f[F](0, 1, 0)
	got := LookAt(eye, center, Up[F]())
	want := mgl64.LookAtV(mgl64.Vec3{3, 4, 5}, mgl64.Vec3{0, 1, 0}, mgl64.Vec3{0, 1, 0})
	matNear(t, "LookAt", got.Float64s(), [16]float64(want), 1e-9)
}

func TestRotationMatchesMathGL(t *testing.T) {
	angle := Degrees(30)
	tests := []struct {
		name string
		got  Mat4[F]
		want mgl64.Mat4
	}{
		{"x", RotateX[F](angle), mgl64.HomogRotate3DX(angle.Radians())},
		{"y", RotateY[F](angle), mgl64.HomogRotate3DY(angle.Radians())},
		{"z", RotateZ[F](angle), mgl64.HomogRotate3DZ(angle.Radians())},
		{"axis", Rotate(V3f[F](1, 1, 0), angle), mgl64.HomogRotate3D(angle.Radians(), mgl64.Vec3{1, 1, 0}.Normalize())},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matNear(t, "Rotate", tt.got.Float64s(), [16]float64(tt.want), 1e-9)
		})
	}
}

func TestInverse(t *testing.T) {
	m := Translate(V3f[F](1, 2, 3)).Mul(RotateY[F](0.5)).Mul(Scale(V3f[F](2, 3, 4)))
	matNear(t, "m*inv", m.Mul(m.Inverse()).Float64s(), Identity[F]().Float64s(), 1e-9)

	want := mgl64.Mat4(m.Float64s()).Inv()
	matNear(t, "Inverse", m.Inverse().Float64s(), [16]float64(want), 1e-9)

	if got := m.Determinant(); math.Abs(float64(got)-24) > 1e-9 {
		t.Errorf("Determinant = %v, want 24", got)
	}

	var singular Mat4[F]
	if singular.Inverse() != Identity[F]() {
		t.Error("singular inverse should be identity")
	}
}

func TestMat3(t *testing.T) {
	m := Scale(V3f[F](2, 4, 8)).Upper3()
	if got := m.Determinant(); got != 64 {
		t.Errorf("Determinant = %v, want 64", got)
	}
	id := m.Mul(m.Inverse())
	for i, v := range id {
		want := F(0)
		if i%4 == 0 {
			want = 1
		}
		if math.Abs(float64(v-want)) > 1e-12 {
			t.Errorf("m*inv[%d] = %v, want %v", i, v, want)
		}
	}
}

func TestNormalMatrixKeepsPerpendicular(t *testing.T) {
	// A plane tilted 45 degrees, stretched along X.
	model := Scale(V3f[F](4, 1, 1))
	tangent := V3f[F](1, 1, 0)
	normal := V3f[F](1, -1, 0)

	tt := model.MulVec3Dir(tangent)
	nn := NormalMatrix(model).MulVec3(normal)
	if d := tt.Dot(nn); math.Abs(float64(d)) > 1e-9 {
		t.Errorf("transformed normal not perpendicular: dot = %v", d)
	}
}

func TestScreenSpace(t *testing.T) {
	const w, h = 640, 480
	s := ScreenSpace[F](w, h)

	tests := []struct {
		name         string
		ndc          Vec3[F]
		wantX, wantY float64
	}{
		{"top left", V3f[F](-1, 1, 0), 0, 0},
		{"bottom right", V3f[F](1, -1, 0), w - 1, h - 1},
		{"center", V3f[F](0, 0, 0), (w - 1) / 2.0, (h - 1) / 2.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := s.MulVec3(tt.ndc)
			if math.Abs(float64(p.X)-tt.wantX) > 1e-9 || math.Abs(float64(p.Y)-tt.wantY) > 1e-9 {
				t.Errorf("got (%v, %v), want (%v, %v)", p.X, p.Y, tt.wantX, tt.wantY)
			}
		})
	}
}

func TestVec3(t *testing.T) {
	a, b := V3f[F](1, 0, 0), V3f[F](0, 1, 0)
	if got := a.Cross(b); got != V3f[F](0, 0, 1) {
		t.Errorf("Cross = %v, want (0,0,1)", got)
	}
	if got := V3f[F](3, 4, 0).Len(); got != 5 {
		t.Errorf("Len = %v, want 5", got)
	}
	if got := (Vec3[F]{}).Normalize(); got != (Vec3[F]{}) {
		t.Errorf("Normalize(zero) = %v", got)
	}
	if got := a.Lerp(b, 0.5); got != V3f[F](0.5, 0.5, 0) {
		t.Errorf("Lerp = %v", got)
	}
	if got := V3f[F](1, -1, 0).Reflect(V3f[F](0, 1, 0)); got != V3f[F](1, 1, 0) {
		t.Errorf("Reflect = %v", got)
	}
}

func TestVec2Cross(t *testing.T) {
	// Counter-clockwise in a y-up frame is positive.
	if got := V2f[F](1, 0).Cross(V2f[F](0, 1)); got != 1 {
		t.Errorf("Cross = %v, want 1", got)
	}
	if got := V2f[F](0, 1).Cross(V2f[F](1, 0)); got != -1 {
		t.Errorf("Cross = %v, want -1", got)
	}
}

func TestFixedTransformTracksFloat(t *testing.T) {
	type X = scalar.Fixed
	mf := Translate(V3f[F](1, 2, 3)).Mul(RotateY[F](Degrees(30)))
	mx := ConvertMat4[X](mf)

	p := V3f[F](0.5, -1.25, 2)
	gotF := mf.MulVec3(p)
	gotX := mx.MulVec3(ConvertVec3[X](p))

	for i, pair := range [][2]float64{
		{gotF.X.Float64(), gotX.X.Float64()},
		{gotF.Y.Float64(), gotX.Y.Float64()},
		{gotF.Z.Float64(), gotX.Z.Float64()},
	} {
		if math.Abs(pair[0]-pair[1]) > 0.01 {
			t.Errorf("component %d: fixed %v vs float %v", i, pair[1], pair[0])
		}
	}
}
