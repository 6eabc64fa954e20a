package models

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"math"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/taigrr/softrender/pkg/scalar"
)

const quadOBJ = `# unit quad
mtllib quad.mtl
o quad
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
vt 0 0
vt 1 0
vt 1 1
vt 0 1
vn 0 0 1
usemtl checker
f 1/1/1 2/2/1 3/3/1 4/4/1
`

const quadMTL = `newmtl checker
Kd 0.5 0.25 1
Ka 0.1 0.1 0.1
Ns 32
d 0.5
map_Kd -s 1 1 1 checker.png
`

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{255, 0, 0, 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestLoadOBJFS(t *testing.T) {
	fsys := fstest.MapFS{
		"models/quad.obj":    {Data: []byte(quadOBJ)},
		"models/quad.mtl":    {Data: []byte(quadMTL)},
		"models/checker.png": {Data: pngBytes(t)},
	}

	mesh, err := NewOBJLoader[scalar.Float]().LoadFS(fsys, "models/quad.obj")
	if err != nil {
		t.Fatalf("LoadFS: %v", err)
	}

	if mesh.Name != "quad" {
		t.Errorf("Name = %q", mesh.Name)
	}
	if got := mesh.TriangleCount(); got != 2 {
		t.Fatalf("quad should fan-split into 2 triangles, got %d", got)
	}

	// 1-based indices become 0-based.
	want := []Face{
		{V: [3]int{0, 1, 2}, T: [3]int{0, 1, 2}, N: [3]int{0, 0, 0}, Material: "checker"},
		{V: [3]int{0, 2, 3}, T: [3]int{0, 2, 3}, N: [3]int{0, 0, 0}, Material: "checker"},
	}
	for i, f := range want {
		if mesh.Faces[i] != f {
			t.Errorf("face %d = %+v, want %+v", i, mesh.Faces[i], f)
		}
	}

	mat := mesh.Material("checker")
	if mat == nil {
		t.Fatal("material not loaded")
	}
	if mat.Diffuse != [3]float64{0.5, 0.25, 1} || mat.Shininess != 32 || mat.Dissolve != 0.5 {
		t.Errorf("material = %+v", mat)
	}
	if mat.DiffuseMap != "checker.png" {
		t.Errorf("DiffuseMap = %q", mat.DiffuseMap)
	}
	if _, img := mesh.DiffuseTexture("checker"); img == nil || img.Bounds().Dx() != 2 {
		t.Error("texture not decoded")
	}
	if got := mat.Color(); got != (color.RGBA{128, 64, 255, 128}) {
		t.Errorf("Color = %v", got)
	}

	lo, hi := mesh.GetBounds()
	if lo.X != 0 || hi.Y != 1 {
		t.Errorf("bounds = %v %v", lo, hi)
	}
}

func TestLoadOBJMissingTexture(t *testing.T) {
	fsys := fstest.MapFS{
		"quad.obj": {Data: []byte(quadOBJ)},
		"quad.mtl": {Data: []byte(quadMTL)},
	}

	if _, err := NewOBJLoader[scalar.Float]().LoadFS(fsys, "quad.obj"); err == nil {
		t.Error("expected error for missing texture")
	}

	loader := NewOBJLoader[scalar.Float]()
	loader.SkipTextures = true
	if _, err := loader.LoadFS(fsys, "quad.obj"); err != nil {
		t.Errorf("SkipTextures: %v", err)
	}
}

func TestParseOBJIndexForms(t *testing.T) {
	src := `
v 0 0 0
v 1 0 0
v 0 1 0
vn 0 0 1
f 1 2 3
f 1//1 2//1 3//1
f -3 -2 -1
`
	mesh, err := ParseOBJ[scalar.Float](strings.NewReader(src), "forms")
	if err != nil {
		t.Fatalf("ParseOBJ: %v", err)
	}

	tests := []struct {
		name       string
		face       Face
		hasT, hasN bool
	}{
		{"plain", mesh.Faces[0], false, false},
		{"normals only", mesh.Faces[1], false, true},
		{"relative", mesh.Faces[2], false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.face.V != [3]int{0, 1, 2} {
				t.Errorf("V = %v", tt.face.V)
			}
			if tt.face.HasTexCoords() != tt.hasT || tt.face.HasNormals() != tt.hasN {
				t.Errorf("HasTexCoords=%v HasNormals=%v", tt.face.HasTexCoords(), tt.face.HasNormals())
			}
		})
	}
}

func TestParseOBJErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want error
	}{
		{"bad number", "v 0 zero 0\n", ErrSyntax},
		{"short face", "v 0 0 0\nf 1 1\n", ErrSyntax},
		{"zero index", "v 0 0 0\nf 0 1 1\n", ErrSyntax},
		{"out of range", "v 0 0 0\nf 1 2 3\n", ErrIndexRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseOBJ[scalar.Float](strings.NewReader(tt.src), tt.name)
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestParseMTLRequiresNewmtl(t *testing.T) {
	_, err := ParseMTL(strings.NewReader("Kd 1 1 1\n"), "bad.mtl")
	if !errors.Is(err, ErrSyntax) {
		t.Errorf("err = %v, want ErrSyntax", err)
	}
}

func TestSmoothNormals(t *testing.T) {
	src := "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n"
	mesh, err := ParseOBJ[scalar.Float](strings.NewReader(src), "tri")
	if err != nil {
		t.Fatal(err)
	}
	mesh.CalculateSmoothNormals()

	for i, n := range mesh.Normals {
		if math.Abs(float64(n.Z)-1) > 1e-12 {
			t.Errorf("normal %d = %v, want +Z", i, n)
		}
	}
	if !mesh.Faces[0].HasNormals() {
		t.Error("faces should reference the generated normals")
	}
}

func TestMeshCloneIsDeep(t *testing.T) {
	src := "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n"
	mesh, err := ParseOBJ[scalar.Float](strings.NewReader(src), "tri")
	if err != nil {
		t.Fatal(err)
	}
	mesh.Materials["m"] = DefaultMaterial("m")

	clone := mesh.Clone()
	clone.Positions[0].X = 9
	clone.Materials["m"].Name = "modified"

	if mesh.Positions[0].X == 9 {
		t.Error("positions shared with clone")
	}
	if mesh.Materials["m"].Name == "modified" {
		t.Error("materials shared with clone")
	}
}

func TestFixedMeshLoads(t *testing.T) {
	src := "v 0.5 -0.25 2\nv 1 0 0\nv 0 1 0\nf 1 2 3\n"
	mesh, err := ParseOBJ[scalar.Fixed](strings.NewReader(src), "tri")
	if err != nil {
		t.Fatal(err)
	}
	if got := mesh.Positions[0].Y.Float64(); got != -0.25 {
		t.Errorf("Y = %v, want -0.25", got)
	}
}
