// Package config loads render settings from a JSON file and applies
// command-line overrides.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/charmbracelet/log"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/taigrr/softrender/pkg/math3d"
	"github.com/taigrr/softrender/pkg/render"
	"github.com/taigrr/softrender/pkg/scalar"
)

// ErrInvalid is returned when a resolved setting is out of range.
var ErrInvalid = errors.New("invalid config")

// Config holds render settings. Fields left out of the file keep their
// zero values until Resolve fills them in.
type Config struct {
	// Frame
	Width  int `json:"width"`
	Height int `json:"height"`

	// Lens, angles in degrees
	FOV  float64 `json:"fov"`
	Near float64 `json:"near"`
	Far  float64 `json:"far"`

	// Pipeline
	Light      [3]float64 `json:"light"`
	DepthFunc  string     `json:"depth_func"`
	Rasterizer string     `json:"rasterizer"`
	Lines      string     `json:"lines"`
	Modes      string     `json:"modes"`
	Filter     string     `json:"texture_filter"`
	Wrap       string     `json:"texture_wrap"`
	Fixed      bool       `json:"fixed"`
	Guides     bool       `json:"guides"`

	// Colors as #rrggbb
	Background string `json:"background"`
	Wire       string `json:"wire"`
	Marker     string `json:"marker"`
	Normal     string `json:"normal"`

	MarkerSize   int     `json:"marker_size"`
	NormalLength float64 `json:"normal_length"`

	Camera Camera `json:"camera"`
	Model  Model  `json:"model"`

	// Output
	Supersample int `json:"supersample"`
	Frames      int `json:"frames"`
	Workers     int `json:"workers"`
}

// Camera orbits the origin, where models are centered. Angles are in
// degrees.
type Camera struct {
	Distance float64 `json:"distance"`
	Yaw      float64 `json:"yaw"`
	Pitch    float64 `json:"pitch"`
}

// Model places the mesh in the world before the camera sees it.
type Model struct {
	Scale     float64    `json:"scale"`
	Rotate    [3]float64 `json:"rotate"` // X, Y, Z in degrees
	Translate [3]float64 `json:"translate"`
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	Width       int
	Height      int
	Modes       string
	Rasterizer  string
	Fixed       bool
	Guides      bool
	Supersample int
	Frames      int
	Workers     int
}

// Load reads a JSON config file and returns Config.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// Resolve applies CLI overrides, fills empty fields with defaults and
// validates the result. CLI flags take priority when non-zero.
func (c *Config) Resolve(flags Flags) error {
	if flags.Width > 0 {
		c.Width = flags.Width
	}
	if flags.Height > 0 {
		c.Height = flags.Height
	}
	if flags.Modes != "" {
		c.Modes = flags.Modes
	}
	if flags.Rasterizer != "" {
		c.Rasterizer = flags.Rasterizer
	}
	if flags.Fixed {
		c.Fixed = true
	}
	if flags.Guides {
		c.Guides = true
	}
	if flags.Supersample > 0 {
		c.Supersample = flags.Supersample
	}
	if flags.Frames > 0 {
		c.Frames = flags.Frames
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}

	if c.Width <= 0 {
		c.Width = 320
	}
	if c.Height <= 0 {
		c.Height = 240
	}
	if c.FOV <= 0 {
		c.FOV = 60
	}
	if c.Near <= 0 {
		c.Near = 0.1
	}
	if c.Far <= 0 {
		c.Far = 100
	}
	if c.Light == [3]float64{} {
		c.Light = [3]float64{-0.3, -0.5, -1}
	}
	if c.DepthFunc == "" {
		c.DepthFunc = render.DepthGreater.String()
	}
	if c.Rasterizer == "" {
		c.Rasterizer = render.Scanline.String()
	}
	if c.Lines == "" {
		c.Lines = render.Bresenham.String()
	}
	if c.Modes == "" {
		c.Modes = render.DefaultModes.String()
	}
	if c.Filter == "" {
		c.Filter = render.FilterNearest.String()
	}
	if c.Wrap == "" {
		c.Wrap = render.WrapRepeat.String()
	}
	if c.MarkerSize <= 0 {
		c.MarkerSize = 3
	}
	if c.NormalLength <= 0 {
		c.NormalLength = 0.1
	}
	if c.Camera.Distance <= 0 {
		c.Camera.Distance = 3.5
	}
	if c.Model.Scale <= 0 {
		c.Model.Scale = 1
	}
	if c.Supersample <= 0 {
		c.Supersample = 1
	}
	if c.Frames <= 0 {
		c.Frames = 36
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}

	return c.Validate()
}

// Validate checks ranges and names.
func (c *Config) Validate() error {
	if c.Near >= c.Far {
		return fmt.Errorf("config: near %g must be less than far %g: %w", c.Near, c.Far, ErrInvalid)
	}
	if c.FOV >= 180 {
		return fmt.Errorf("config: fov %g must be below 180 degrees: %w", c.FOV, ErrInvalid)
	}
	if c.Supersample > 8 {
		return fmt.Errorf("config: supersample %d above 8: %w", c.Supersample, ErrInvalid)
	}
	if _, err := render.ParseDepthFunc(c.DepthFunc); err != nil {
		return fmt.Errorf("config: %w: %w", ErrInvalid, err)
	}
	if _, err := render.ParseRasterizer(c.Rasterizer); err != nil {
		return fmt.Errorf("config: %w: %w", ErrInvalid, err)
	}
	if _, err := render.ParseLineAlgorithm(c.Lines); err != nil {
		return fmt.Errorf("config: %w: %w", ErrInvalid, err)
	}
	if _, err := render.ParseMode(c.Modes); err != nil {
		return fmt.Errorf("config: %w: %w", ErrInvalid, err)
	}
	if _, err := render.ParseFilterMode(c.Filter); err != nil {
		return fmt.Errorf("config: %w: %w", ErrInvalid, err)
	}
	if _, err := render.ParseWrapMode(c.Wrap); err != nil {
		return fmt.Errorf("config: %w: %w", ErrInvalid, err)
	}
	for _, hex := range []string{c.Background, c.Wire, c.Marker, c.Normal} {
		if _, err := parseColor(hex, render.ColorBlack); err != nil {
			return err
		}
	}
	return nil
}

// RenderConfig builds a renderer configuration for scalar T from a
// resolved Config. Width and height are multiplied by the supersample
// factor.
func RenderConfig[T scalar.Number[T]](c Config, logger *log.Logger) (render.Config[T], error) {
	rc := render.DefaultConfig[T]()
	ss := max(c.Supersample, 1)
	rc.Width, rc.Height = c.Width*ss, c.Height*ss
	rc.FOV = math3d.Degrees(c.FOV)
	rc.Near, rc.Far = c.Near, c.Far
	rc.LightDir = math3d.V3f[T](c.Light[0], c.Light[1], c.Light[2])
	rc.MarkerSize = c.MarkerSize * ss
	rc.NormalLength = scalar.Of[T](c.NormalLength)
	rc.Logger = logger

	var err error
	if rc.DepthFunc, err = render.ParseDepthFunc(c.DepthFunc); err != nil {
		return rc, fmt.Errorf("config: %w", err)
	}
	if rc.Rasterizer, err = render.ParseRasterizer(c.Rasterizer); err != nil {
		return rc, fmt.Errorf("config: %w", err)
	}
	if rc.Lines, err = render.ParseLineAlgorithm(c.Lines); err != nil {
		return rc, fmt.Errorf("config: %w", err)
	}
	if rc.Modes, err = render.ParseMode(c.Modes); err != nil {
		return rc, fmt.Errorf("config: %w", err)
	}
	if rc.TextureFilter, err = render.ParseFilterMode(c.Filter); err != nil {
		return rc, fmt.Errorf("config: %w", err)
	}
	if rc.TextureWrap, err = render.ParseWrapMode(c.Wrap); err != nil {
		return rc, fmt.Errorf("config: %w", err)
	}

	colors := []struct {
		hex string
		dst *render.Color
	}{
		{c.Background, &rc.ClearColor},
		{c.Wire, &rc.WireColor},
		{c.Marker, &rc.MarkerColor},
		{c.Normal, &rc.NormalColor},
	}
	for _, col := range colors {
		if *col.dst, err = parseColor(col.hex, *col.dst); err != nil {
			return rc, err
		}
	}
	return rc, nil
}

// ModelMatrix returns scale, then rotation about X, Y and Z, then
// translation.
func ModelMatrix[T scalar.Number[T]](m Model) math3d.Mat4[T] {
	scale := m.Scale
	if scale <= 0 {
		scale = 1
	}
	return math3d.Translate(math3d.V3f[T](m.Translate[0], m.Translate[1], m.Translate[2])).
		Mul(math3d.RotateZ[T](math3d.Degrees(m.Rotate[2]))).
		Mul(math3d.RotateY[T](math3d.Degrees(m.Rotate[1]))).
		Mul(math3d.RotateX[T](math3d.Degrees(m.Rotate[0]))).
		Mul(math3d.ScaleUniform(scalar.Of[T](scale)))
}

// parseColor parses #rrggbb, returning def for an empty string.
func parseColor(hex string, def render.Color) (render.Color, error) {
	if hex == "" {
		return def, nil
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return def, fmt.Errorf("config: color %q: %w", hex, ErrInvalid)
	}
	r, g, b := c.RGB255()
	return render.RGB(r, g, b), nil
}
