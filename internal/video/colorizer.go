// Whole-video colorization: sequence frames into an intermediate file, then finalize
package video

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"

	"image-colorization/internal/adjust"
)

// progressEvery controls how often progress lines are logged, in written frames.
const progressEvery = 25

// Options configures one video run.
type Options struct {
	FrameSkip int
	Quality   QualityTier
}

// source is an opened video: its frames plus stream metadata.
type source interface {
	FrameSource
	Info() VideoInfo
	Close() error
}

func openCapture(path string) (source, error) {
	src, err := OpenSource(path)
	if err != nil {
		return nil, err
	}
	return src, nil
}

// Colorizer colorizes video files frame by frame.
type Colorizer struct {
	frames    FrameProcessor
	reencoder Reencoder
	logger    logrus.FieldLogger
	tempDir   string
	open      func(path string) (source, error)
}

func NewColorizer(frames FrameProcessor, reencoder Reencoder, logger logrus.FieldLogger) *Colorizer {
	return &Colorizer{
		frames:    frames,
		reencoder: reencoder,
		logger:    logger,
		open:      openCapture,
	}
}

// SetTempDir sets where intermediate files are written. Empty means os.TempDir.
func (c *Colorizer) SetTempDir(dir string) {
	c.tempDir = dir
}

// ColorizeVideo writes a colorized copy of input to output.
func (c *Colorizer) ColorizeVideo(ctx context.Context, input, output string, opts Options) (Stats, error) {
	seq, err := NewSequencer(opts.FrameSkip, c.logger)
	if err != nil {
		return Stats{}, err
	}

	src, err := c.open(input)
	if err != nil {
		return Stats{}, err
	}
	defer src.Close()

	info := src.Info()
	fps := OutputFPS(info.FPS, opts.FrameSkip)
	expected := info.FrameCount / opts.FrameSkip

	log := c.logger.WithFields(logrus.Fields{
		"input":  input,
		"output": output,
	})
	log.WithFields(logrus.Fields{
		"width":      info.Size.X,
		"height":     info.Size.Y,
		"fps":        info.FPS,
		"frames":     expected,
		"frame_skip": opts.FrameSkip,
		"quality":    opts.Quality,
	}).Info("Colorizing video")

	tmp, err := os.CreateTemp(c.tempDir, "colorize-*.mp4")
	if err != nil {
		return Stats{}, fmt.Errorf("create intermediate file: %w", err)
	}
	intermediate := tmp.Name()
	tmp.Close()

	sink, err := CreateSink(intermediate, fps, info.Size)
	if err != nil {
		os.Remove(intermediate)
		return Stats{}, err
	}
	closeSink := sync.OnceValue(sink.Close)
	defer closeSink()

	seq.OnProgress(func(s Stats) {
		if s.FramesProcessed%progressEvery == 0 || s.FramesProcessed == expected {
			log.WithFields(logrus.Fields{
				"processed": s.FramesProcessed,
				"total":     expected,
			}).Info("Progress")
		}
	})

	stats, err := seq.Run(ctx, src, c.frames, sink)
	if err == nil && stats.FramesRead == 0 {
		err = fmt.Errorf("%w: %s yielded no frames", ErrOpenSource, input)
	}
	if cerr := closeSink(); err == nil && cerr != nil {
		err = fmt.Errorf("close intermediate: %w", cerr)
	}
	if err != nil {
		os.Remove(intermediate)
		return stats, err
	}

	if dir := filepath.Dir(output); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			os.Remove(intermediate)
			return stats, fmt.Errorf("create output dir: %w", err)
		}
	}

	if err := Finalize(ctx, c.reencoder, intermediate, output, opts.Quality, log); err != nil {
		return stats, err
	}
	return stats, nil
}

// WithAdjustments runs s on every frame after colorization. Identity
// settings return next unchanged.
func WithAdjustments(next FrameProcessor, s adjust.Settings) FrameProcessor {
	if s.IsIdentity() {
		return next
	}
	return ProcessorFunc(func(frame gocv.Mat) (gocv.Mat, error) {
		colored, err := next.ProcessFrame(frame)
		if err != nil {
			return gocv.NewMat(), err
		}
		defer colored.Close()

		img, err := colored.ToImage()
		if err != nil {
			return gocv.NewMat(), fmt.Errorf("frame to image: %w", err)
		}
		adjusted := adjust.Apply(img, s)

		out, err := gocv.ImageToMatRGB(adjusted)
		if err != nil {
			return gocv.NewMat(), fmt.Errorf("image to frame: %w", err)
		}
		return out, nil
	})
}

// DefaultOutput is colorized_<name> next to input.
func DefaultOutput(input string) string {
	return filepath.Join(filepath.Dir(input), "colorized_"+filepath.Base(input))
}

// DefaultBatchOutput is <parent of input dir>/colorized_videos.
func DefaultBatchOutput(inputDir string) string {
	return filepath.Join(filepath.Dir(filepath.Clean(inputDir)), "colorized_videos")
}
