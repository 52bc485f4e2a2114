// Post-colorization adjustment pipeline
package adjust

import (
	"image"

	"github.com/disintegration/gift"
)

// Luma weights used for the grayscale reference of contrast and saturation.
const (
	lumaR = 0.299
	lumaG = 0.587
	lumaB = 0.114
)

// Apply runs brightness, contrast, saturation, hue rotation and then the
// selected filter, in that order; each stage consumes the previous stage's
// output. Neutral stages are skipped. Apply is deterministic but not
// idempotent: applying FilterDramatic twice compounds it.
//
// Settings are expected to be in range (see Settings.Clamp).
func Apply(img image.Image, s Settings) *image.NRGBA {
	out := run(img)

	if s.Brightness != 1.0 {
		out = Brightness(out, s.Brightness)
	}
	if s.Contrast != 1.0 {
		out = Contrast(out, s.Contrast)
	}
	if s.Saturation != 1.0 {
		out = Saturation(out, s.Saturation)
	}
	if s.HueShift != 0.0 {
		out = run(out, gift.Hue(float32(s.HueShift)))
	}

	return ApplyFilter(out, s.Filter)
}

// Brightness blends towards black: factor 0 is black, 1 is unchanged.
func Brightness(img image.Image, factor float64) *image.NRGBA {
	f := float32(factor)
	return run(img, gift.ColorFunc(func(r, g, b, a float32) (float32, float32, float32, float32) {
		return clamp01(r * f), clamp01(g * f), clamp01(b * f), a
	}))
}

// Contrast blends towards the image's mean gray level.
func Contrast(img image.Image, factor float64) *image.NRGBA {
	src := run(img)
	m := float32(meanLuma(src)) / 255
	f := float32(factor)
	return run(src, gift.ColorFunc(func(r, g, b, a float32) (float32, float32, float32, float32) {
		return clamp01(m + f*(r-m)), clamp01(m + f*(g-m)), clamp01(m + f*(b-m)), a
	}))
}

// Saturation blends towards each pixel's luma: factor 0 is grayscale.
func Saturation(img image.Image, factor float64) *image.NRGBA {
	f := float32(factor)
	return run(img, gift.ColorFunc(func(r, g, b, a float32) (float32, float32, float32, float32) {
		y := lumaR*r + lumaG*g + lumaB*b
		return clamp01(y + f*(r-y)), clamp01(y + f*(g-y)), clamp01(y + f*(b-y)), a
	}))
}

// meanLuma returns the rounded mean luma of img in 8-bit units.
func meanLuma(img *image.NRGBA) int {
	b := img.Bounds()
	n := b.Dx() * b.Dy()
	if n == 0 {
		return 0
	}

	var sum float64
	for y := 0; y < b.Dy(); y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+b.Dx()*4]
		for x := 0; x < len(row); x += 4 {
			// integer luma as produced by an 8-bit "L" conversion
			sum += float64((int(row[x])*299 + int(row[x+1])*587 + int(row[x+2])*114) / 1000)
		}
	}
	return int(sum/float64(n) + 0.5)
}

func run(img image.Image, filters ...gift.Filter) *image.NRGBA {
	g := gift.New(filters...)
	dst := image.NewNRGBA(g.Bounds(img.Bounds()))
	g.Draw(dst, img)
	return dst
}

func clamp01(v float32) float32 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
