package config

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"image-colorization/internal/adjust"
	imgio "image-colorization/internal/io"
	"image-colorization/internal/model"
	"image-colorization/internal/video"
)

func parse(t *testing.T, args ...string) Config {
	t.Helper()
	cfg := Default()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	cfg.BindCommon(fs)
	cfg.BindVideo(fs)
	cfg.BindImage(fs)
	require.NoError(t, fs.Parse(args))
	return cfg
}

func TestDefaults(t *testing.T) {
	cfg := parse(t, "-i", "in.mp4")
	require.NoError(t, cfg.Validate())

	assert.Equal(t, model.ECCV16, cfg.Model)
	assert.Equal(t, model.DeviceCPU, cfg.Device)
	assert.Equal(t, model.NormalizationInGraph, cfg.ModelOptions().Normalization)
	assert.Equal(t, 1, cfg.FrameSkip)
	assert.Equal(t, video.QualityMedium, cfg.Quality)
	assert.Equal(t, adjust.DefaultSettings(), cfg.Adjust)
	assert.Equal(t, imgio.PresetOriginal, cfg.Resolution.Preset)
	assert.Empty(t, cfg.Formats)
}

func TestVideoFlags(t *testing.T) {
	cfg := parse(t,
		"--input", "clip.avi", "-o", "out.mp4",
		"--model", "siggraph17", "--device", "cuda", "--allow-cpu-fallback",
		"--model-normalization", "external",
		"--frame_skip", "3", "--quality", "high", "--batch",
	)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, model.SIGGRAPH17, cfg.Model)
	assert.Equal(t, model.DeviceCUDA, cfg.Device)
	assert.True(t, cfg.AllowCPUFallback)
	assert.Equal(t, video.Options{FrameSkip: 3, Quality: video.QualityHigh}, cfg.VideoOptions())
	assert.True(t, cfg.Batch)

	opts := cfg.ModelOptions()
	assert.Equal(t, DefaultModelDir, opts.Dir)
	assert.True(t, opts.AllowCPUFallback)
	assert.Equal(t, model.NormalizationExternal, opts.Normalization)
}

func TestImageFlags(t *testing.T) {
	cfg := parse(t, "-i", "imgs",
		"--brightness", "1.2", "--filter", "Warm Tone",
		"--format", "png,jpg", "--format", "tiff", "--format", "png",
		"--resolution", "custom", "--width", "640", "--height", "360",
	)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 1.2, cfg.Adjust.Brightness)
	assert.Equal(t, adjust.FilterWarm, cfg.Adjust.Filter)
	assert.Equal(t, []imgio.Format{imgio.FormatPNG, imgio.FormatJPEG, imgio.FormatTIFF}, cfg.Formats)
	assert.Equal(t, imgio.CustomResolution(640, 360), cfg.Resolution)
}

func TestRejectsBadValues(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	cfg := Default()
	cfg.BindCommon(fs)
	cfg.BindVideo(fs)
	assert.Error(t, fs.Parse([]string{"--model", "resnet"}))

	cfg = Default()
	cfg.Input = "x"
	cfg.FrameSkip = 0
	cfg.Adjust.Saturation = 3
	cfg.Realtime, cfg.Batch = true, true
	err := cfg.Validate()
	require.Error(t, err)
	assert.ErrorContains(t, err, "frame_skip")
	assert.ErrorContains(t, err, "saturation")
	assert.ErrorContains(t, err, "--realtime")

	assert.ErrorContains(t, Default().Validate(), "input path is required")
}

func TestNewLogger(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, NewLogger(true).GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, NewLogger(false).Formatter)
}

func TestVideoFlagSetHasNoExportFlags(t *testing.T) {
	cfg := Default()
	fs := pflag.NewFlagSet("video", pflag.ContinueOnError)
	cfg.BindCommon(fs)
	cfg.BindVideo(fs)
	cfg.BindAdjust(fs)

	require.NoError(t, fs.Parse([]string{"-i", "clip.mp4", "--filter", "cool"}))
	assert.Equal(t, adjust.FilterCool, cfg.Adjust.Filter)

	for _, name := range []string{"format", "resolution", "width", "height"} {
		assert.Nil(t, fs.Lookup(name), name)
	}
	assert.Error(t, fs.Parse([]string{"--format", "png"}))
}
