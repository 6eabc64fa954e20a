package main

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/taigrr/softrender/pkg/config"
	"github.com/taigrr/softrender/pkg/render"
	"github.com/taigrr/softrender/pkg/scalar"
)

func newTurntableCmd(opts *options) *cobra.Command {
	var (
		outDir string
		format string
	)
	cmd := &cobra.Command{
		Use:   "turntable MODEL",
		Short: "Render frames around the model in parallel",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.settings()
			if err != nil {
				return err
			}
			if format != "png" && format != "webp" {
				return fmt.Errorf("turntable: unknown format %q (use png or webp): %w", format, config.ErrInvalid)
			}
			logger := opts.logger()
			if cfg.Fixed {
				return turntable[scalar.Fixed](cmd.Context(), cfg, args[0], outDir, format, logger)
			}
			return turntable[scalar.Float](cmd.Context(), cfg, args[0], outDir, format, logger)
		},
	}
	cmd.Flags().StringVarP(&outDir, "output", "o", "frames", "output directory")
	cmd.Flags().StringVar(&format, "format", "png", "frame format: png or webp")
	cmd.Flags().IntVar(&opts.flags.Frames, "frames", 0, "number of frames in one turn")
	cmd.Flags().IntVar(&opts.flags.Workers, "workers", 0, "parallel renderers (default: CPU count)")
	cmd.Flags().IntVar(&opts.flags.Supersample, "supersample", 0, "render N times larger and downsample")
	return cmd
}

// turntable renders cfg.Frames evenly spaced yaw angles. Each worker owns
// one Renderer; the mesh is shared read-only.
func turntable[T scalar.Number[T]](ctx context.Context, cfg config.Config, modelPath, outDir, format string, logger *log.Logger) error {
	mesh, err := loadMesh[T](modelPath)
	if err != nil {
		return err
	}
	rc, err := config.RenderConfig[T](cfg, logger)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("turntable: create %s: %w", outDir, err)
	}

	sc := newScene(cfg, mesh)
	renderers := make(chan *render.Renderer[T], cfg.Workers)
	for range cfg.Workers {
		renderers <- render.NewRenderer(rc)
	}

	var done, pixels atomic.Int64
	start := time.Now()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for i := range cfg.Frames {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			r := <-renderers
			defer func() { renderers <- r }()

			yaw := 360 * float64(i) / float64(cfg.Frames)
			stats := sc.frame(r, yaw, 0, 1, cfg.Guides)

			var img image.Image = r.Image()
			if cfg.Supersample > 1 {
				img = render.Downsample(img, cfg.Width, cfg.Height)
			}
			path := filepath.Join(outDir, fmt.Sprintf("frame_%03d.%s", i, format))
			if err := render.SaveImage(path, img); err != nil {
				return err
			}

			pixels.Add(int64(stats.Pixels))
			logger.Debug("frame", "index", i, "yaw", yaw, "pixels", stats.Pixels, "done", done.Add(1))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	logger.Info("turntable",
		"dir", outDir,
		"frames", cfg.Frames,
		"workers", cfg.Workers,
		"pixels", pixels.Load(),
		"elapsed", time.Since(start).Round(time.Millisecond))
	return nil
}
