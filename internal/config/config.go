// Run configuration shared by the command-line tools
package config

import (
	"errors"
	"fmt"

	"image-colorization/internal/adjust"
	imgio "image-colorization/internal/io"
	"image-colorization/internal/model"
	"image-colorization/internal/video"
)

// DefaultModelDir is where <model>.onnx files are looked up.
const DefaultModelDir = "models"

// Config is populated from flags and validated once before any work starts.
type Config struct {
	Input  string
	Output string

	Model            model.Kind
	ModelDir         string
	Device           model.Device
	AllowCPUFallback bool
	Normalization    model.Normalization

	FrameSkip int
	Quality   video.QualityTier
	Realtime  bool
	Batch     bool

	Debug bool

	Adjust     adjust.Settings
	Formats    []imgio.Format
	Resolution imgio.Resolution
}

func Default() Config {
	return Config{
		Model:         model.ECCV16,
		ModelDir:      DefaultModelDir,
		Device:        model.DeviceCPU,
		Normalization: model.NormalizationInGraph,
		FrameSkip:     1,
		Quality:       video.QualityMedium,
		Adjust:        adjust.DefaultSettings(),
		Resolution:    imgio.OriginalResolution(),
	}
}

// Validate reports every invalid field at once.
func (c Config) Validate() error {
	var errs []error
	if c.Input == "" {
		errs = append(errs, errors.New("input path is required"))
	}
	if _, err := model.ParseKind(string(c.Model)); err != nil {
		errs = append(errs, err)
	}
	if _, err := model.ParseDevice(string(c.Device)); err != nil {
		errs = append(errs, err)
	}
	if _, err := model.ParseNormalization(string(c.Normalization)); err != nil {
		errs = append(errs, err)
	}
	if c.FrameSkip < 1 {
		errs = append(errs, fmt.Errorf("frame_skip must be a positive integer, got %d", c.FrameSkip))
	}
	if c.Realtime && c.Batch {
		errs = append(errs, errors.New("--realtime and --batch cannot be combined"))
	}
	if err := c.Adjust.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := c.Resolution.Validate(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// ModelOptions maps the configuration onto model.Load's options.
func (c Config) ModelOptions() model.Options {
	return model.Options{
		Kind:             c.Model,
		Dir:              c.ModelDir,
		Device:           c.Device,
		AllowCPUFallback: c.AllowCPUFallback,
		Normalization:    c.Normalization,
	}
}

// VideoOptions maps the configuration onto a single video run.
func (c Config) VideoOptions() video.Options {
	return video.Options{
		FrameSkip: c.FrameSkip,
		Quality:   c.Quality,
	}
}
