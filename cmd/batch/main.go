// Batch Image Colorization
// Colorizes every .jpg, .jpeg and .png image in a folder into color_<name>.

package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"image-colorization/internal/batch"
	"image-colorization/internal/config"
)

const defaultOutputDir = "imgs_out"

func main() {
	cfg := config.Default()
	cfg.Input = "imgs"

	cmd := &cobra.Command{
		Use:           "colorize-batch [-i DIR] [-o DIR]",
		Short:         "Colorize a folder of grayscale images",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), cfg)
		},
	}
	cfg.BindCommon(cmd.Flags())
	cfg.BindImage(cmd.Flags())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := cmd.ExecuteContext(ctx); err != nil {
		config.NewLogger(cfg.Debug).WithError(err).Error("❌ Batch colorization failed")
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.Output == "" {
		cfg.Output = defaultOutputDir
	}

	logger := config.NewLogger(cfg.Debug)

	items, err := batch.ImageItems(cfg.Input, cfg.Output)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(cfg.Output, 0o755); err != nil {
		return err
	}

	pipeline, err := cfg.LoadPipeline(logger)
	if err != nil {
		return err
	}
	defer pipeline.Close()

	images := batch.NewImagePipeline(pipeline.Colorizer, batch.ImageOptions{
		Settings:   cfg.Adjust,
		Resolution: cfg.Resolution,
		Formats:    cfg.Formats,
	}, logger)

	report := batch.NewRunner(logger).Run(ctx, items, images.Process)
	for _, res := range report.Succeeded() {
		logger.WithField("output", res.Item.Output).Info("Saved")
	}
	return report.Err()
}
