package main

import (
	"context"
	"errors"
	"image/color"
	"image/png"
	"io"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/taigrr/softrender/pkg/config"
	"github.com/taigrr/softrender/pkg/models"
	"github.com/taigrr/softrender/pkg/render"
	"github.com/taigrr/softrender/pkg/scalar"
)

const tetraOBJ = `# tetrahedron
v 0 0 0
v 4 0 0
v 0 4 0
v 0 0 4
f 1 3 2
f 1 2 4
f 1 4 3
f 2 3 4
`

func writeModel(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadMeshFits(t *testing.T) {
	mesh, err := loadMesh[scalar.Float](writeModel(t, "tetra.obj", tetraOBJ))
	if err != nil {
		t.Fatal(err)
	}
	size := mesh.Size()
	if math.Abs(float64(size.X)-2) > 1e-9 || math.Abs(float64(size.Y)-2) > 1e-9 {
		t.Errorf("size = %v, want 2 on each axis", size)
	}
	c := mesh.Center()
	if math.Abs(float64(c.X)) > 1e-9 || math.Abs(float64(c.Y)) > 1e-9 || math.Abs(float64(c.Z)) > 1e-9 {
		t.Errorf("center = %v, want origin", c)
	}
}

func TestLoadMeshUnsupported(t *testing.T) {
	_, err := loadMesh[scalar.Float](writeModel(t, "model.stl", "solid"))
	if !errors.Is(err, models.ErrUnsupportedFormat) {
		t.Errorf("err = %v, want ErrUnsupportedFormat", err)
	}
}

func TestOrbitSettles(t *testing.T) {
	o := NewOrbit(60)
	o.Impulse(10, 0)
	for range 600 {
		o.Update()
	}
	if math.Abs(o.Yaw.Velocity) > 1e-3 {
		t.Errorf("yaw velocity = %v after 10s, want ~0", o.Yaw.Velocity)
	}
	if o.Yaw.Position <= 10 {
		t.Errorf("yaw = %v, want the flick to carry past the first step", o.Yaw.Position)
	}

	o.Impulse(0, 1000)
	o.Update()
	if o.Pitch.Position > maxPitch {
		t.Errorf("pitch = %v, want clamped to %v", o.Pitch.Position, float64(maxPitch))
	}

	o.Reset()
	if o.Yaw.Position != 0 || o.Pitch.Velocity != 0 {
		t.Errorf("after Reset: %+v", o)
	}
}

func TestNextRasterizer(t *testing.T) {
	if got := nextRasterizer(render.Scanline); got != render.EdgeFunction {
		t.Errorf("next(scanline) = %v", got)
	}
	if got := nextRasterizer(render.EdgeFunction); got != render.Scanline {
		t.Errorf("next(edge) = %v", got)
	}
}

func TestSnapshotCommand(t *testing.T) {
	model := writeModel(t, "tetra.obj", tetraOBJ)
	out := filepath.Join(t.TempDir(), "tetra.png")

	for _, fixed := range []string{"--fixed=false", "--fixed"} {
		t.Run(fixed, func(t *testing.T) {
			root := newRootCmd()
			root.SetArgs([]string{"snapshot", model, "-o", out, "--width", "40", "--height", "30", "--supersample", "2", fixed})
			if err := root.ExecuteContext(context.Background()); err != nil {
				t.Fatal(err)
			}

			f, err := os.Open(out)
			if err != nil {
				t.Fatal(err)
			}
			defer f.Close()
			img, err := png.Decode(f)
			if err != nil {
				t.Fatal(err)
			}
			if b := img.Bounds(); b.Dx() != 40 || b.Dy() != 30 {
				t.Errorf("image = %v, want 40x30", b)
			}
		})
	}
}

func TestTurntableCommand(t *testing.T) {
	model := writeModel(t, "tetra.obj", tetraOBJ)
	dir := filepath.Join(t.TempDir(), "frames")

	root := newRootCmd()
	root.SetArgs([]string{"turntable", model, "-o", dir, "--frames", "4", "--workers", "2", "--width", "24", "--height", "16"})
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatal(err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 4 {
		t.Errorf("got %d frames, want 4", len(entries))
	}
	if _, err := os.Stat(filepath.Join(dir, "frame_003.png")); err != nil {
		t.Error(err)
	}
}

func TestTurntableBadFormat(t *testing.T) {
	root := newRootCmd()
	root.SetArgs([]string{"turntable", "model.obj", "--format", "gif"})
	root.SetErr(io.Discard)
	if err := root.ExecuteContext(context.Background()); err == nil {
		t.Error("want error for gif format")
	}
}

func TestSceneGuides(t *testing.T) {
	mesh, err := loadMesh[scalar.Float](writeModel(t, "tetra.obj", tetraOBJ))
	if err != nil {
		t.Fatal(err)
	}
	var cfg config.Config
	if err := cfg.Resolve(config.Flags{Width: 80, Height: 60}); err != nil {
		t.Fatal(err)
	}
	rc, err := config.RenderConfig[scalar.Float](cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	r := render.NewRenderer(rc)
	sc := newScene(cfg, mesh)

	count := func(c color.RGBA) int {
		n := 0
		fb := r.Framebuffer()
		for y := range fb.Height {
			for x := range fb.Width {
				if fb.GetPixel(x, y) == c {
					n++
				}
			}
		}
		return n
	}

	plain := sc.frame(r, 20, 25, 1, false)
	grayBefore, cyanBefore := count(render.ColorGray), count(render.ColorCyan)
	guided := sc.frame(r, 20, 25, 1, true)

	if cyanBefore != 0 {
		t.Errorf("%d bounds pixels without guides", cyanBefore)
	}
	if count(render.ColorCyan) == 0 {
		t.Error("mesh bounds not drawn")
	}
	if count(render.ColorGray) <= grayBefore {
		t.Error("floor grid not drawn")
	}
	if plain.Triangles != guided.Triangles {
		t.Errorf("guides changed the mesh pass: %d vs %d triangles", plain.Triangles, guided.Triangles)
	}
}
