package main

import (
	"image"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/taigrr/softrender/pkg/config"
	"github.com/taigrr/softrender/pkg/render"
	"github.com/taigrr/softrender/pkg/scalar"
)

func newSnapshotCmd(opts *options) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "snapshot MODEL",
		Short: "Render one frame to a PNG or WebP file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.settings()
			if err != nil {
				return err
			}
			logger := opts.logger()
			if cfg.Fixed {
				return snapshot[scalar.Fixed](cfg, args[0], output, logger)
			}
			return snapshot[scalar.Float](cfg, args[0], output, logger)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "snapshot.png", "output file, .png or .webp")
	cmd.Flags().IntVar(&opts.flags.Supersample, "supersample", 0, "render N times larger and downsample")
	return cmd
}

func snapshot[T scalar.Number[T]](cfg config.Config, modelPath, output string, logger *log.Logger) error {
	mesh, err := loadMesh[T](modelPath)
	if err != nil {
		return err
	}
	rc, err := config.RenderConfig[T](cfg, logger)
	if err != nil {
		return err
	}

	r := render.NewRenderer(rc)
	stats := newScene(cfg, mesh).frame(r, 0, 0, 1, cfg.Guides)

	var img image.Image = r.Image()
	if cfg.Supersample > 1 {
		img = render.Downsample(img, cfg.Width, cfg.Height)
	}
	if err := render.SaveImage(output, img); err != nil {
		return err
	}

	logger.Info("snapshot",
		"path", output,
		"size", img.Bounds().Size(),
		"triangles", stats.Triangles,
		"pixels", stats.Pixels)
	return nil
}
