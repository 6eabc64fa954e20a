package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/log"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/spf13/cobra"

	"github.com/taigrr/softrender/pkg/config"
	"github.com/taigrr/softrender/pkg/render"
	"github.com/taigrr/softrender/pkg/scalar"
)

func newViewCmd(opts *options) *cobra.Command {
	var fps int
	cmd := &cobra.Command{
		Use:   "view MODEL",
		Short: "View a model in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.settings()
			if err != nil {
				return err
			}
			cfg.Supersample = 1
			logger := opts.logger()
			if cfg.Fixed {
				return view[scalar.Fixed](cmd.Context(), cfg, args[0], fps, logger)
			}
			return view[scalar.Float](cmd.Context(), cfg, args[0], fps, logger)
		},
	}
	cmd.Flags().IntVar(&fps, "fps", 60, "target frames per second")
	return cmd
}

// modeKeys maps viewer keys to the render modes they toggle.
var modeKeys = []struct {
	key  string
	mode render.Mode
}{
	{"c", render.ModeCullFaces},
	{"w", render.ModeWireframe},
	{"f", render.ModeFlatShading},
	{"v", render.ModeVertexMarkers},
	{"l", render.ModeLighting},
	{"n", render.ModeNormals},
	{"t", render.ModeTexturing},
}

// nextRasterizer switches between the two fill strategies.
func nextRasterizer(r render.Rasterizer) render.Rasterizer {
	if r == render.Scanline {
		return render.EdgeFunction
	}
	return render.Scanline
}

// HUD renders an overlay with model info and the active modes.
type HUD struct {
	filename  string
	polyCount int
	fixed     bool
	fps       float64
	fpsFrames int
	fpsTime   time.Time
	Visible   bool
}

// NewHUD creates a visible HUD.
func NewHUD(filename string, polyCount int, fixed bool) *HUD {
	return &HUD{
		filename:  filename,
		polyCount: polyCount,
		fixed:     fixed,
		fpsTime:   time.Now(),
		Visible:   true,
	}
}

// UpdateFPS updates the FPS counter (call once per frame)
func (h *HUD) UpdateFPS() {
	h.fpsFrames++
	elapsed := time.Since(h.fpsTime)
	if elapsed >= time.Second {
		h.fps = float64(h.fpsFrames) / elapsed.Seconds()
		h.fpsFrames = 0
		h.fpsTime = time.Now()
	}
}

var (
	hudBar   = lipgloss.NewStyle().Background(lipgloss.Color("#1e1e28")).Foreground(lipgloss.Color("#e0e0e0"))
	hudTitle = hudBar.Bold(true).Foreground(lipgloss.Color("#ffffff")).Padding(0, 1)
	hudValue = hudBar.Foreground(lipgloss.Color("#7fd4ff")).Padding(0, 1)
	hudFaint = hudBar.Faint(true).Padding(0, 1)
)

// Lines returns the top and bottom HUD lines.
func (h *HUD) Lines(modes render.Mode, ras render.Rasterizer, stats render.Stats) (top, bottom string) {
	number := "float"
	if h.fixed {
		number = "fixed"
	}
	top = lipgloss.JoinHorizontal(lipgloss.Top,
		hudValue.Render(fmt.Sprintf("%.0f fps", h.fps)),
		hudTitle.Render(h.filename),
		hudValue.Render(fmt.Sprintf("%d tris", h.polyCount)),
		hudFaint.Render(number+" "+ras.String()),
	)
	bottom = lipgloss.JoinHorizontal(lipgloss.Top,
		hudValue.Render(modes.String()),
		hudFaint.Render(fmt.Sprintf("drawn %d culled %d clipped %d px %d",
			stats.Triangles, stats.Culled, stats.FacesClipped, stats.Pixels)),
	)
	return top, bottom
}

// viewer is the state of the terminal viewer loop.
type viewer[T scalar.Number[T]] struct {
	scene    *scene[T]
	r        *render.Renderer[T]
	term     *uv.Terminal
	out      *render.TerminalRenderer
	orbit    *Orbit
	hud      *HUD
	zoom     float64
	guides   bool
	stats    render.Stats
	width    int
	height   int
	dragging bool
	lastX    int
	lastY    int
}

func view[T scalar.Number[T]](ctx context.Context, cfg config.Config, modelPath string, fps int, logger *log.Logger) error {
	mesh, err := loadMesh[T](modelPath)
	if err != nil {
		return err
	}
	// Log lines would tear the alternate screen.
	rc, err := config.RenderConfig[T](cfg, nil)
	if err != nil {
		return err
	}
	fps = max(fps, 1)

	term := uv.DefaultTerminal()
	width, height, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}
	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}
	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(width, height)

	// Any-event mouse tracking in SGR mode
	fmt.Fprint(os.Stdout, "\x1b[?1003h\x1b[?1006h")
	defer func() {
		fmt.Fprint(os.Stdout, "\x1b[?1003l\x1b[?1006l")
		term.ExitAltScreen()
		term.ShowCursor()
		term.Shutdown(context.Background())
	}()

	v := &viewer[T]{
		scene:  newScene(cfg, mesh),
		r:      render.NewRenderer(rc),
		term:   term,
		orbit:  NewOrbit(fps),
		hud:    NewHUD(filepath.Base(modelPath), mesh.TriangleCount(), cfg.Fixed),
		zoom:   1,
		guides: cfg.Guides,
	}
	v.resize(width, height)

	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	events := term.Events()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok || v.handle(ev) {
				logger.Debug("viewer closed", "model", modelPath)
				return nil
			}
		case <-ticker.C:
			if err := v.draw(); err != nil {
				return fmt.Errorf("flush: %w", err)
			}
		}
	}
}

func (v *viewer[T]) resize(width, height int) {
	v.width, v.height = width, height
	v.term.Erase()
	v.term.Resize(width, height)
	v.out = render.NewTerminalRenderer(v.term, width, height)
	v.r.Resize(v.out.FramebufferSize())
}

// handle applies one event and reports whether the viewer should quit.
func (v *viewer[T]) handle(ev uv.Event) bool {
	const step = 4.0 // degrees per step of impulse

	switch ev := ev.(type) {
	case uv.WindowSizeEvent:
		v.resize(ev.Width, ev.Height)

	case uv.KeyPressEvent:
		switch {
		case ev.MatchString("q", "esc", "ctrl+c"):
			return true
		case ev.MatchString("left", "h"):
			v.orbit.Impulse(-step, 0)
		case ev.MatchString("right"):
			v.orbit.Impulse(step, 0)
		case ev.MatchString("up", "k"):
			v.orbit.Impulse(0, step)
		case ev.MatchString("down", "j"):
			v.orbit.Impulse(0, -step)
		case ev.MatchString("space"):
			v.orbit.Impulse((rand.Float64()-0.5)*6*step, (rand.Float64()-0.5)*2*step)
		case ev.MatchString("0"):
			v.orbit.Reset()
			v.zoom = 1
		case ev.MatchString("+", "="):
			v.zoom = max(0.3, v.zoom-0.1)
		case ev.MatchString("-", "_"):
			v.zoom = min(5, v.zoom+0.1)
		case ev.MatchString("g"):
			v.guides = !v.guides
		case ev.MatchString("r"):
			v.r.SetRasterizer(nextRasterizer(v.r.Config().Rasterizer))
		case ev.MatchString("?", "shift+/"):
			v.hud.Visible = !v.hud.Visible
		default:
			for _, mk := range modeKeys {
				if ev.MatchString(mk.key) {
					v.r.Modes = v.r.Modes.Toggle(mk.mode)
				}
			}
		}

	case uv.MouseClickEvent:
		v.dragging = true
		v.lastX, v.lastY = ev.X, ev.Y

	case uv.MouseReleaseEvent:
		v.dragging = false

	case uv.MouseMotionEvent:
		if v.dragging {
			v.orbit.Impulse(float64(ev.X-v.lastX)*0.8, float64(v.lastY-ev.Y)*0.8)
			v.lastX, v.lastY = ev.X, ev.Y
		}

	case uv.MouseWheelEvent:
		switch ev.Button {
		case uv.MouseWheelUp:
			v.zoom = max(0.3, v.zoom-0.1)
		case uv.MouseWheelDown:
			v.zoom = min(5, v.zoom+0.1)
		}
	}
	return false
}

// draw renders one frame and presents it with the HUD on top.
func (v *viewer[T]) draw() error {
	v.orbit.Update()
	v.stats = v.scene.frame(v.r, v.orbit.Yaw.Position, v.orbit.Pitch.Position, v.zoom, v.guides)
	v.out.Render(v.r.Framebuffer())

	v.hud.UpdateFPS()
	if v.hud.Visible && v.height > 2 {
		top, bottom := v.hud.Lines(v.r.Modes, v.r.Config().Rasterizer, v.stats)
		uv.NewStyledString(top).Draw(v.term, uv.Rect(0, 0, v.width, 1))
		uv.NewStyledString(bottom).Draw(v.term, uv.Rect(0, v.height-1, v.width, 1))
	}
	return v.out.Flush()
}
