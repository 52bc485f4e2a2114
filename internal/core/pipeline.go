// internal/core/pipeline.go
// Per-image colorization pipeline: convert, prepare, predict, recombine
package core

import (
	"fmt"
	"image"
	"time"

	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"
)

// Predictor is the opaque color-prediction model. Predict receives a
// normalized single-channel float32 plane at InputSize and returns a
// two-channel float32 chrominance prediction in model units.
type Predictor interface {
	Predict(input gocv.Mat) (gocv.Mat, error)
	InputSize() image.Point
}

// Colorizer runs the fixed sequence of stages for one image or frame at a time.
// It holds no per-image state; every call creates and releases its own planes.
type Colorizer struct {
	model    Predictor
	logger   logrus.FieldLogger
	debugger *StageDebugger
}

func NewColorizer(model Predictor, logger logrus.FieldLogger) *Colorizer {
	return &Colorizer{
		model:  model,
		logger: logger,
	}
}

// SetDebugger enables per-stage timing. A nil debugger disables it.
func (c *Colorizer) SetDebugger(d *StageDebugger) {
	c.debugger = d
}

// Colorize returns an 8-bit BGR colorized copy of src at src's resolution.
// src may be gray, BGR or BGRA 8-bit.
func (c *Colorizer) Colorize(src gocv.Mat) (gocv.Mat, error) {
	start := time.Now()

	img, err := NewDisplayImage(src)
	if err != nil {
		return gocv.NewMat(), fmt.Errorf("decode input: %w", err)
	}
	defer img.Close()
	c.debugger.Record(StageDecode, time.Since(start), nil)

	result, err := c.ColorizeImage(img)
	if err != nil {
		return gocv.NewMat(), err
	}
	defer result.Close()

	out, err := ToBGR8(result)
	if err != nil {
		return gocv.NewMat(), err
	}

	c.logger.WithFields(logrus.Fields{
		"width":       out.Cols(),
		"height":      out.Rows(),
		"duration_ms": time.Since(start).Milliseconds(),
	}).Debug("PIPELINE: Image colorized")

	return out, nil
}

// ColorizeImage runs the pipeline on a display-space image and returns a
// display-space image of the same resolution.
func (c *Colorizer) ColorizeImage(img Image) (Image, error) {
	stage := time.Now()
	lab, err := ToLab(img)
	c.debugger.Record(StageToLab, time.Since(stage), err)
	if err != nil {
		return Image{}, fmt.Errorf("convert to lab: %w", err)
	}
	defer lab.Close()

	stage = time.Now()
	prepared, err := Prepare(lab.L, c.model.InputSize())
	c.debugger.Record(StagePrepare, time.Since(stage), err)
	if err != nil {
		return Image{}, fmt.Errorf("prepare lightness: %w", err)
	}
	defer prepared.Close()

	stage = time.Now()
	chrominance, err := c.model.Predict(prepared.Input)
	c.debugger.Record(StagePredict, time.Since(stage), err)
	if err != nil {
		return Image{}, fmt.Errorf("predict chrominance: %w", err)
	}
	defer chrominance.Close()

	stage = time.Now()
	out, err := Recombine(prepared.Original, chrominance, prepared.Resolution.Original)
	c.debugger.Record(StageRecombine, time.Since(stage), err)
	if err != nil {
		return Image{}, fmt.Errorf("recombine: %w", err)
	}

	return out, nil
}

// ProcessFrame adapts Colorize to frame-by-frame callers.
func (c *Colorizer) ProcessFrame(frame gocv.Mat) (gocv.Mat, error) {
	return c.Colorize(frame)
}
