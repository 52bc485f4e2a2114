// Named stylized filters
package adjust

import (
	"image"

	"github.com/disintegration/gift"
)

// sepia is the row-major matrix applied to (r, g, b) by the vintage filter.
var sepia = [3][3]float32{
	{0.393, 0.769, 0.189},
	{0.349, 0.686, 0.168},
	{0.272, 0.534, 0.131},
}

const vintageBlurSigma = 0.7

// ApplyFilter runs exactly one named filter. FilterNone and unknown values
// return a copy of img.
func ApplyFilter(img image.Image, f Filter) *image.NRGBA {
	switch f {
	case FilterVintage:
		return vintage(img)
	case FilterCool:
		return run(img, gift.ColorBalance(-10, 0, 20))
	case FilterWarm:
		return run(img, gift.ColorBalance(20, 10, 0))
	case FilterDramatic:
		return dramatic(img)
	default:
		return run(img)
	}
}

// vintage: sepia tone, then a slight blur.
func vintage(img image.Image) *image.NRGBA {
	return run(img,
		gift.ColorFunc(func(r, g, b, a float32) (float32, float32, float32, float32) {
			return clamp01(sepia[0][0]*r + sepia[0][1]*g + sepia[0][2]*b),
				clamp01(sepia[1][0]*r + sepia[1][1]*g + sepia[1][2]*b),
				clamp01(sepia[2][0]*r + sepia[2][1]*g + sepia[2][2]*b),
				a
		}),
		gift.GaussianBlur(vintageBlurSigma),
	)
}

// dramatic: contrast x1.5, saturation x1.3, brightness x1.1.
func dramatic(img image.Image) *image.NRGBA {
	out := Contrast(img, 1.5)
	out = Saturation(out, 1.3)
	return Brightness(out, 1.1)
}
