// Video Colorization Tool
// Colorizes a video, a directory of videos, or plays a real-time preview.

package main

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"os/signal"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"image-colorization/internal/batch"
	"image-colorization/internal/config"
	"image-colorization/internal/video"
)

const AppName = "Video Colorization Tool"

func main() {
	cfg := config.Default()

	cmd := &cobra.Command{
		Use:           "colorize-video -i INPUT [-o OUTPUT]",
		Short:         "Colorize grayscale videos with a pretrained network",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), cfg)
		},
	}
	cfg.BindCommon(cmd.Flags())
	cfg.BindVideo(cmd.Flags())
	cfg.BindAdjust(cmd.Flags())
	_ = cmd.MarkFlagRequired("input")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := cmd.ExecuteContext(ctx); err != nil {
		logger := config.NewLogger(cfg.Debug)
		logger.WithError(err).Error("❌ Video colorization failed")
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := config.NewLogger(cfg.Debug)
	logger.Info("🎨 " + AppName)
	logger.Info(strings.Repeat("=", 50))

	pipeline, err := cfg.LoadPipeline(logger)
	if err != nil {
		return err
	}
	defer pipeline.Close()

	logger.WithFields(logrus.Fields{
		"model":  pipeline.Model.Kind(),
		"device": pipeline.Model.Device(),
	}).Info("Colorizer ready")

	frames := video.WithAdjustments(pipeline.Colorizer, cfg.Adjust)

	switch {
	case cfg.Realtime:
		return runRealtime(ctx, cfg, frames, logger)
	case cfg.Batch:
		return runBatch(ctx, cfg, frames, logger)
	default:
		return runSingle(ctx, cfg, frames, logger)
	}
}

func newVideoColorizer(frames video.FrameProcessor, logger logrus.FieldLogger) *video.Colorizer {
	reencoder := video.SelectReencoder(exec.LookPath, video.ExecRunner{}, logger)
	return video.NewColorizer(frames, reencoder, logger)
}

func runSingle(ctx context.Context, cfg config.Config, frames video.FrameProcessor, logger logrus.FieldLogger) error {
	output := cfg.Output
	if output == "" {
		output = video.DefaultOutput(cfg.Input)
	}

	stats, err := newVideoColorizer(frames, logger).ColorizeVideo(ctx, cfg.Input, output, cfg.VideoOptions())
	if err != nil {
		return err
	}

	logger.WithFields(logrus.Fields{
		"output":           output,
		"frames_processed": stats.FramesProcessed,
	}).Info("✅ Video saved")
	return nil
}

func runBatch(ctx context.Context, cfg config.Config, frames video.FrameProcessor, logger logrus.FieldLogger) error {
	output := cfg.Output
	if output == "" {
		output = video.DefaultBatchOutput(cfg.Input)
	}

	vc := newVideoColorizer(frames, logger)
	report, err := video.ColorizeDirectory(ctx, batch.NewRunner(logger), cfg.Input, output,
		func(ctx context.Context, in, out string) error {
			_, err := vc.ColorizeVideo(ctx, in, out, cfg.VideoOptions())
			return err
		})
	if err != nil {
		return err
	}

	for _, res := range report.Failed() {
		logger.WithError(res.Err).WithField("input", res.Item.Input).Error("❌ Error processing video")
	}
	logger.WithFields(logrus.Fields{
		"output":    output,
		"succeeded": len(report.Succeeded()),
		"failed":    len(report.Failed()),
	}).Info("✅ Batch complete")

	if len(report.Results) > 0 && len(report.Succeeded()) == 0 {
		return errors.New("no video was colorized")
	}
	return nil
}

func runRealtime(ctx context.Context, cfg config.Config, frames video.FrameProcessor, logger logrus.FieldLogger) error {
	src, err := video.OpenSource(cfg.Input)
	if err != nil {
		return err
	}
	defer src.Close()

	display := video.NewWindowDisplay("Video Colorization")
	defer display.Close()

	stats, err := video.NewPreview(frames, display, logger).Run(ctx, src)
	if err != nil {
		return err
	}
	logger.WithField("frames", stats.FramesProcessed).Info("Preview finished")
	return nil
}
