// Final transcode of the intermediate video
package video

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"

	"github.com/sirupsen/logrus"
)

// Reencoder turns the raw intermediate file into the delivered output.
type Reencoder interface {
	Reencode(ctx context.Context, intermediate, output string, tier QualityTier) error
	Name() string
}

// CommandRunner runs an external program and returns its combined output.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// LookPathFunc locates an executable, like exec.LookPath.
type LookPathFunc func(file string) (string, error)

// FFmpegReencoder transcodes to H.264 with the tier's CRF and preset.
type FFmpegReencoder struct {
	Binary string
	Runner CommandRunner
	Logger logrus.FieldLogger
}

func (f *FFmpegReencoder) Name() string { return "ffmpeg" }

// Args builds the ffmpeg command line for one transcode.
func (f *FFmpegReencoder) Args(intermediate, output string, tier QualityTier) []string {
	p := tier.Params()
	return []string{
		"-i", intermediate,
		"-c:v", "libx264",
		"-crf", strconv.Itoa(p.CRF),
		"-preset", p.Preset,
		"-y", output,
	}
}

// Reencode runs ffmpeg and removes the intermediate file on success. Once the
// output is written a leftover intermediate is only a warning.
func (f *FFmpegReencoder) Reencode(ctx context.Context, intermediate, output string, tier QualityTier) error {
	out, err := f.Runner.Run(ctx, f.Binary, f.Args(intermediate, output, tier)...)
	if err != nil {
		return fmt.Errorf("ffmpeg: %w: %s", err, tail(out, 512))
	}
	if err := os.Remove(intermediate); err != nil && !errors.Is(err, os.ErrNotExist) {
		f.logger().WithError(err).WithField("intermediate", intermediate).Warn("Could not remove intermediate video")
	}
	return nil
}

func (f *FFmpegReencoder) logger() logrus.FieldLogger {
	if f.Logger == nil {
		return logrus.StandardLogger()
	}
	return f.Logger
}

// PassthroughReencoder delivers the intermediate file unchanged.
type PassthroughReencoder struct{}

func (PassthroughReencoder) Name() string { return "passthrough" }

func (PassthroughReencoder) Reencode(_ context.Context, intermediate, output string, _ QualityTier) error {
	if intermediate == output {
		return nil
	}
	if err := os.Rename(intermediate, output); err == nil {
		return nil
	}
	// Rename fails across filesystems; fall back to a copy.
	if err := copyFile(intermediate, output); err != nil {
		return err
	}
	return os.Remove(intermediate)
}

// SelectReencoder probes for ffmpeg once and picks the implementation.
func SelectReencoder(lookPath LookPathFunc, runner CommandRunner, logger logrus.FieldLogger) Reencoder {
	path, err := lookPath("ffmpeg")
	if err != nil {
		logger.WithError(err).Warn("ffmpeg not found, colorized videos will keep the intermediate mp4v encoding")
		return PassthroughReencoder{}
	}
	logger.WithField("binary", path).Debug("Using ffmpeg for re-encoding")
	return &FFmpegReencoder{Binary: path, Runner: runner, Logger: logger}
}

// Finalize runs r and, if it fails, delivers the intermediate file instead.
// A failed transcode is never fatal; only a failed fallback is.
func Finalize(ctx context.Context, r Reencoder, intermediate, output string, tier QualityTier, logger logrus.FieldLogger) error {
	err := r.Reencode(ctx, intermediate, output, tier)
	if err == nil {
		logger.WithFields(logrus.Fields{
			"reencoder": r.Name(),
			"quality":   tier,
			"output":    output,
		}).Info("Video finalized")
		return nil
	}

	logger.WithError(err).WithFields(logrus.Fields{
		"reencoder": r.Name(),
		"output":    output,
	}).Warn("Re-encoding failed, delivering intermediate video")

	if err := (PassthroughReencoder{}).Reencode(ctx, intermediate, output, tier); err != nil {
		return fmt.Errorf("deliver intermediate video: %w", err)
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func tail(b []byte, n int) string {
	if len(b) > n {
		b = b[len(b)-n:]
	}
	return string(b)
}
