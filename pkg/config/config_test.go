package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/taigrr/softrender/pkg/math3d"
	"github.com/taigrr/softrender/pkg/render"
	"github.com/taigrr/softrender/pkg/scalar"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "softrender.json")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `{
		"width": 200,
		"fov": 75,
		"rasterizer": "edge",
		"background": "#102030",
		"camera": {"distance": 4, "yaw": 30},
		"model": {"scale": 2, "rotate": [0, 90, 0]}
	}`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Width != 200 || cfg.FOV != 75 || cfg.Rasterizer != "edge" {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Camera.Distance != 4 || cfg.Camera.Yaw != 30 || cfg.Model.Rotate[1] != 90 {
		t.Errorf("camera = %+v, model = %+v", cfg.Camera, cfg.Model)
	}
	if cfg.Height != 0 {
		t.Errorf("unset height = %d, want 0 before Resolve", cfg.Height)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file: err = %v, want ErrNotExist", err)
	}
	if _, err := Load(writeConfig(t, `{"width": "wide"}`)); err == nil {
		t.Error("bad JSON: want error")
	}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name  string
		cfg   Config
		flags Flags
		check func(t *testing.T, c Config)
	}{
		{
			name: "defaults",
			check: func(t *testing.T, c Config) {
				if c.Width != 320 || c.Height != 240 || c.FOV != 60 {
					t.Errorf("frame = %dx%d fov %g", c.Width, c.Height, c.FOV)
				}
				if c.Modes != render.DefaultModes.String() || c.Rasterizer != "scanline" {
					t.Errorf("modes = %q, rasterizer = %q", c.Modes, c.Rasterizer)
				}
				if c.Workers <= 0 || c.Supersample != 1 {
					t.Errorf("workers = %d, supersample = %d", c.Workers, c.Supersample)
				}
			},
		},
		{
			name:  "flags override file",
			cfg:   Config{Width: 100, Modes: "wireframe", Rasterizer: "scanline"},
			flags: Flags{Width: 80, Modes: "cull,fill", Rasterizer: "edge", Fixed: true, Guides: true, Workers: 3},
			check: func(t *testing.T, c Config) {
				if c.Width != 80 || c.Modes != "cull,fill" || c.Rasterizer != "edge" {
					t.Errorf("cfg = %+v", c)
				}
				if !c.Fixed || !c.Guides || c.Workers != 3 {
					t.Errorf("fixed = %v, guides = %v, workers = %d", c.Fixed, c.Guides, c.Workers)
				}
			},
		},
		{
			name: "file kept when flags empty",
			cfg:  Config{Height: 90, Lines: "dda"},
			check: func(t *testing.T, c Config) {
				if c.Height != 90 || c.Lines != "dda" {
					t.Errorf("cfg = %+v", c)
				}
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := tc.cfg
			if err := c.Resolve(tc.flags); err != nil {
				t.Fatal(err)
			}
			tc.check(t, c)
		})
	}
}

func TestResolveInvalid(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"near beyond far", Config{Near: 10, Far: 5}},
		{"fov too wide", Config{FOV: 190}},
		{"unknown rasterizer", Config{Rasterizer: "raytrace"}},
		{"unknown mode", Config{Modes: "cull,glow"}},
		{"unknown depth func", Config{DepthFunc: "always"}},
		{"bad color", Config{Background: "teal-ish"}},
		{"unknown filter", Config{Filter: "trilinear"}},
		{"supersample too high", Config{Supersample: 16}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := tc.cfg
			if err := c.Resolve(Flags{}); !errors.Is(err, ErrInvalid) {
				t.Errorf("Resolve() = %v, want ErrInvalid", err)
			}
		})
	}
}

func TestRenderConfig(t *testing.T) {
	c := Config{
		Width:       100,
		Height:      50,
		Supersample: 2,
		Rasterizer:  "edge",
		Lines:       "dda",
		DepthFunc:   "less",
		Modes:       "cull,wireframe",
		Filter:      "bilinear",
		Wrap:        "clamp",
		Background:  "#ff8000",
	}
	if err := c.Resolve(Flags{}); err != nil {
		t.Fatal(err)
	}

	rc, err := RenderConfig[scalar.Float](c, nil)
	if err != nil {
		t.Fatal(err)
	}
	if rc.Width != 200 || rc.Height != 100 {
		t.Errorf("size = %dx%d, want 200x100", rc.Width, rc.Height)
	}
	if rc.Rasterizer != render.EdgeFunction || rc.Lines != render.DDA || rc.DepthFunc != render.DepthLess {
		t.Errorf("rasterizer %v, lines %v, depth %v", rc.Rasterizer, rc.Lines, rc.DepthFunc)
	}
	if rc.TextureFilter != render.FilterBilinear || rc.TextureWrap != render.WrapClamp {
		t.Errorf("texture filter %v, wrap %v", rc.TextureFilter, rc.TextureWrap)
	}
	if rc.Modes != render.ModeCullFaces|render.ModeWireframe {
		t.Errorf("modes = %v", rc.Modes)
	}
	if rc.ClearColor != render.RGB(255, 128, 0) {
		t.Errorf("clear color = %v, want #ff8000", rc.ClearColor)
	}
	if rc.WireColor != render.ColorGreen {
		t.Errorf("wire color = %v, want default green", rc.WireColor)
	}
	if math.Abs(rc.FOV.Degrees()-60) > 1e-9 {
		t.Errorf("fov = %v degrees, want 60", rc.FOV.Degrees())
	}

	if _, err := RenderConfig[scalar.Fixed](c, nil); err != nil {
		t.Errorf("fixed: %v", err)
	}
}

func TestModelMatrix(t *testing.T) {
	m := ModelMatrix[scalar.Float](Model{
		Scale:     2,
		Rotate:    [3]float64{0, 90, 0},
		Translate: [3]float64{1, 0, 0},
	})

	// (1,0,0) scales to (2,0,0), turns to (0,0,-2), then moves to (1,0,-2).
	got := m.MulVec3(math3d.V3[scalar.Float](1, 0, 0))
	want := math3d.V3[scalar.Float](1, 0, -2)
	if got.Distance(want) > 1e-9 {
		t.Errorf("ModelMatrix * (1,0,0) = %v, want %v", got, want)
	}

	if id := ModelMatrix[scalar.Float](Model{}); id != math3d.Identity[scalar.Float]() {
		t.Errorf("zero model = %v, want identity", id)
	}
}
