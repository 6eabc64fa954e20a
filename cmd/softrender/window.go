package main

import (
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/spf13/cobra"

	"github.com/taigrr/softrender/pkg/config"
	"github.com/taigrr/softrender/pkg/render"
	"github.com/taigrr/softrender/pkg/scalar"
)

func newWindowCmd(opts *options) *cobra.Command {
	var scale int
	cmd := &cobra.Command{
		Use:   "window MODEL",
		Short: "View a model in a desktop window",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.settings()
			if err != nil {
				return err
			}
			cfg.Supersample = 1
			logger := opts.logger()
			if cfg.Fixed {
				return window[scalar.Fixed](cfg, args[0], max(scale, 1), logger)
			}
			return window[scalar.Float](cfg, args[0], max(scale, 1), logger)
		},
	}
	cmd.Flags().IntVar(&scale, "scale", 2, "window pixels per framebuffer pixel")
	return cmd
}

// windowKeys maps window keys to the render modes they toggle.
var windowKeys = map[ebiten.Key]render.Mode{
	ebiten.KeyC: render.ModeCullFaces,
	ebiten.KeyW: render.ModeWireframe,
	ebiten.KeyF: render.ModeFlatShading,
	ebiten.KeyV: render.ModeVertexMarkers,
	ebiten.KeyL: render.ModeLighting,
	ebiten.KeyN: render.ModeNormals,
	ebiten.KeyT: render.ModeTexturing,
}

// windowGame presents the renderer's color buffer in an ebiten window.
type windowGame[T scalar.Number[T]] struct {
	scene    *scene[T]
	r        *render.Renderer[T]
	orbit    *Orbit
	name     string
	img      *ebiten.Image
	zoom     float64
	stats    render.Stats
	hud      bool
	guides   bool
	dragging bool
	lastX    int
	lastY    int
}

func window[T scalar.Number[T]](cfg config.Config, modelPath string, scale int, logger *log.Logger) error {
	mesh, err := loadMesh[T](modelPath)
	if err != nil {
		return err
	}
	rc, err := config.RenderConfig[T](cfg, logger)
	if err != nil {
		return err
	}

	g := &windowGame[T]{
		scene:  newScene(cfg, mesh),
		r:      render.NewRenderer(rc),
		orbit:  NewOrbit(ebiten.DefaultTPS),
		name:   filepath.Base(modelPath),
		zoom:   1,
		hud:    true,
		guides: cfg.Guides,
	}

	ebiten.SetWindowTitle("softrender - " + g.name)
	ebiten.SetWindowSize(cfg.Width*scale, cfg.Height*scale)
	logger.Debug("opening window", "width", cfg.Width, "height", cfg.Height, "scale", scale)
	if err := ebiten.RunGame(g); err != nil {
		return fmt.Errorf("window: %w", err)
	}
	return nil
}

func (g *windowGame[T]) Update() error {
	const step = 1.5 // degrees per tick while held

	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	for key, mode := range windowKeys {
		if inpututil.IsKeyJustPressed(key) {
			g.r.Modes = g.r.Modes.Toggle(mode)
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.r.SetRasterizer(nextRasterizer(g.r.Config().Rasterizer))
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyG) {
		g.guides = !g.guides
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySlash) {
		g.hud = !g.hud
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit0) {
		g.orbit.Reset()
		g.zoom = 1
	}

	switch {
	case ebiten.IsKeyPressed(ebiten.KeyLeft):
		g.orbit.Impulse(-step, 0)
	case ebiten.IsKeyPressed(ebiten.KeyRight):
		g.orbit.Impulse(step, 0)
	}
	switch {
	case ebiten.IsKeyPressed(ebiten.KeyUp):
		g.orbit.Impulse(0, step)
	case ebiten.IsKeyPressed(ebiten.KeyDown):
		g.orbit.Impulse(0, -step)
	}
	if _, yoff := ebiten.Wheel(); yoff != 0 {
		g.zoom = max(0.3, min(5, g.zoom-yoff*0.1))
	}

	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		cx, cy := ebiten.CursorPosition()
		if g.dragging {
			g.orbit.Impulse(float64(cx-g.lastX)*0.3, float64(g.lastY-cy)*0.3)
		}
		g.dragging = true
		g.lastX, g.lastY = cx, cy
	} else {
		g.dragging = false
	}

	g.orbit.Update()
	return nil
}

func (g *windowGame[T]) Draw(screen *ebiten.Image) {
	g.stats = g.scene.frame(g.r, g.orbit.Yaw.Position, g.orbit.Pitch.Position, g.zoom, g.guides)

	pix, w, h, _ := g.r.ColorBuffer()
	if g.img == nil || g.img.Bounds().Dx() != w || g.img.Bounds().Dy() != h {
		if g.img != nil {
			g.img.Deallocate()
		}
		g.img = ebiten.NewImage(w, h)
	}
	g.img.WritePixels(pix)
	screen.DrawImage(g.img, nil)

	if g.hud {
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%s  FPS: %.0f  %s", g.name, ebiten.ActualFPS(), g.r.Config().Rasterizer), 0, 0)
		ebitenutil.DebugPrintAt(screen, g.r.Modes.String(), 0, 14)
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("Triangles: %d  Culled: %d  Pixels: %d",
			g.stats.Triangles, g.stats.Culled, g.stats.Pixels), 0, 28)
	}
}

func (g *windowGame[T]) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.r.Width(), g.r.Height()
}
