// Lightness preparation for the color-prediction model
package core

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// Training-time constants of the colorization networks. The model sees
// (L - LightnessCenter) / LightnessScale and emits chrominance divided by
// ChrominanceScale.
const (
	LightnessCenter  = 50.0
	LightnessScale   = 100.0
	ChrominanceScale = 110.0
)

// ModelResolution is the fixed input resolution of the supported networks.
var ModelResolution = image.Pt(256, 256)

// Interpolation is used for every resample in the pipeline: the lightness
// downsample in Prepare and the chrominance upsample in Recombine.
const Interpolation = gocv.InterpolationLinear

// ResolutionPair records where an image came from and what the model saw.
// One is created per image or frame and never modified afterwards.
type ResolutionPair struct {
	Original image.Point
	Model    image.Point
}

// Prepared is the output of Prepare. Original keeps the full-resolution,
// unnormalized lightness for recombination; Input is what the model consumes.
type Prepared struct {
	Original   gocv.Mat
	Input      gocv.Mat
	Resolution ResolutionPair
}

// Close releases both planes.
func (p Prepared) Close() {
	p.Original.Close()
	p.Input.Close()
}

// Prepare resizes a lightness plane to target and normalizes it for the model.
// The lightness plane is copied, not consumed.
func Prepare(lightness gocv.Mat, target image.Point) (Prepared, error) {
	if err := expectChannels(lightness, 1); err != nil {
		return Prepared{}, fmt.Errorf("lightness: %w", err)
	}
	if lightness.Type() != gocv.MatTypeCV32FC1 {
		return Prepared{}, fmt.Errorf("lightness must be float32, got %v", lightness.Type())
	}
	if target.X <= 0 || target.Y <= 0 {
		return Prepared{}, fmt.Errorf("invalid model resolution %v", target)
	}

	resized := gocv.NewMat()
	defer resized.Close()
	if err := gocv.Resize(lightness, &resized, target, 0, 0, Interpolation); err != nil {
		return Prepared{}, fmt.Errorf("resize lightness: %w", err)
	}

	input := gocv.NewMat()
	Normalize(resized, &input)

	return Prepared{
		Original: lightness.Clone(),
		Input:    input,
		Resolution: ResolutionPair{
			Original: sizeOf(lightness),
			Model:    target,
		},
	}, nil
}

// Normalize maps L in [0,100] to the model range: (L - 50) / 100.
func Normalize(lightness gocv.Mat, dst *gocv.Mat) {
	lightness.ConvertToWithParams(dst, gocv.MatTypeCV32FC1,
		float32(1.0/LightnessScale), float32(-LightnessCenter/LightnessScale))
}

// Denormalize maps model chrominance back to a*b* units: ab * 110.
func Denormalize(chrominance gocv.Mat, dst *gocv.Mat) {
	chrominance.ConvertToWithParams(dst, chrominance.Type(), float32(ChrominanceScale), 0)
}
