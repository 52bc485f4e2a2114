// Chrominance upsampling and recombination with full-resolution lightness
package core

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// Recombine upsamples predicted chrominance (two channels, model scale) to
// original, joins it with the full-resolution lightness and converts the result
// to display space. The lightness plane must already be at original resolution:
// using the downsampled plane would throw away detail the model never needed.
func Recombine(lightness, chrominance gocv.Mat, original image.Point) (Image, error) {
	if err := expectChannels(lightness, 1); err != nil {
		return Image{}, fmt.Errorf("lightness: %w", err)
	}
	if sizeOf(lightness) != original {
		return Image{}, fmt.Errorf("%w: lightness is %v, original is %v", ErrResolutionMismatch, sizeOf(lightness), original)
	}
	if err := expectChannels(chrominance, 2); err != nil {
		return Image{}, fmt.Errorf("chrominance: %w", err)
	}

	upsampled := gocv.NewMat()
	defer upsampled.Close()
	if sizeOf(chrominance) == original {
		chrominance.CopyTo(&upsampled)
	} else if err := gocv.Resize(chrominance, &upsampled, original, 0, 0, Interpolation); err != nil {
		return Image{}, fmt.Errorf("upsample chrominance: %w", err)
	}

	scaled := gocv.NewMat()
	defer scaled.Close()
	Denormalize(upsampled, &scaled)

	ab := gocv.Split(scaled)
	defer func() {
		for _, p := range ab {
			p.Close()
		}
	}()
	if len(ab) != 2 {
		return Image{}, fmt.Errorf("%w: chrominance split produced %d planes", ErrChannelCount, len(ab))
	}

	return ToDisplay(lightness, ab[0], ab[1])
}
