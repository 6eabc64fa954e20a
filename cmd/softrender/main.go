// Command softrender renders OBJ and glTF models on the CPU, to the
// terminal, a desktop window or image files.
//
// Viewer controls (terminal and window):
//
//	Arrows/drag - Orbit the model
//	Scroll, +/- - Zoom
//	Space       - Random spin
//	0           - Reset view
//	c w f v     - Toggle culling, wireframe, fill, vertex markers
//	l n t       - Toggle lighting, normals, textures
//	g           - Toggle floor grid, axes and bounds
//	r           - Switch scanline/edge rasterizer
//	?           - Toggle HUD
//	q, Esc      - Quit
package main

import (
	"context"
	"os"
	"syscall"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/taigrr/softrender/pkg/config"
)

func main() {
	if err := fang.Execute(context.Background(), newRootCmd(),
		fang.WithNotifySignal(os.Interrupt, syscall.SIGTERM)); err != nil {
		os.Exit(1)
	}
}

// options are the flags shared by every command.
type options struct {
	configPath string
	verbose    bool
	flags      config.Flags
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:          "softrender",
		Short:        "Render OBJ and glTF models on the CPU",
		SilenceUsage: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", "", "JSON config file")
	pf.BoolVar(&opts.verbose, "verbose", false, "log at debug level")
	pf.BoolVar(&opts.flags.Fixed, "fixed", false, "use fixed-point arithmetic")
	pf.IntVar(&opts.flags.Width, "width", 0, "frame width in pixels")
	pf.IntVar(&opts.flags.Height, "height", 0, "frame height in pixels")
	pf.StringVar(&opts.flags.Modes, "modes", "", "render modes, comma separated (cull,wireframe,fill,markers,lighting,normals,textures)")
	pf.StringVar(&opts.flags.Rasterizer, "rasterizer", "", "shaded fill strategy: scanline or edge")
	pf.BoolVar(&opts.flags.Guides, "guides", false, "draw a floor grid, axes and mesh bounds")

	root.AddCommand(
		newViewCmd(opts),
		newWindowCmd(opts),
		newSnapshotCmd(opts),
		newTurntableCmd(opts),
	)
	return root
}

// logger builds the command logger.
func (o *options) logger() *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "softrender",
	})
	if o.verbose {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

// settings loads the config file, if any, and applies the flags.
func (o *options) settings() (config.Config, error) {
	var cfg config.Config
	if o.configPath != "" {
		var err error
		if cfg, err = config.Load(o.configPath); err != nil {
			return cfg, err
		}
	}
	if err := cfg.Resolve(o.flags); err != nil {
		return cfg, err
	}
	return cfg, nil
}
