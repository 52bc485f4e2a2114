package adjust

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gradient(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(40 + x*160/w),
				G: uint8(60 + y*120/h),
				B: uint8(200 - (x+y)*100/(w+h)),
				A: 255,
			})
		}
	}
	return img
}

func uniform(c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

func TestApplyIdentity(t *testing.T) {
	src := gradient(16, 12)
	out := Apply(src, DefaultSettings())

	require.Equal(t, src.Bounds(), out.Bounds())
	assert.Equal(t, src.Pix, out.Pix)
	assert.NotSame(t, src, out)
}

func TestApplyDeterministic(t *testing.T) {
	src := gradient(32, 24)
	settings := Settings{Brightness: 1.2, Contrast: 0.8, Saturation: 1.6, HueShift: 45, Filter: FilterVintage}

	first := Apply(src, settings)
	second := Apply(src, settings)
	assert.Equal(t, first.Pix, second.Pix)
}

func TestDramaticIsNotIdempotent(t *testing.T) {
	src := gradient(32, 24)
	settings := Settings{Brightness: 1, Contrast: 1, Saturation: 1, Filter: FilterDramatic}

	once := Apply(src, settings)
	twice := Apply(once, settings)
	assert.NotEqual(t, once.Pix, twice.Pix)
}

func TestStageOrderMatters(t *testing.T) {
	src := gradient(16, 16)

	// Brightness clips highlights before contrast sees them.
	got := Apply(src, Settings{Brightness: 2.0, Contrast: 0.5, Saturation: 1, Filter: FilterNone})
	brightnessFirst := Contrast(Brightness(src, 2.0), 0.5)
	contrastFirst := Brightness(Contrast(src, 0.5), 2.0)

	assert.Equal(t, brightnessFirst.Pix, got.Pix)
	assert.NotEqual(t, contrastFirst.Pix, got.Pix)
}

func TestBrightness(t *testing.T) {
	out := Brightness(uniform(color.NRGBA{R: 100, G: 50, B: 200, A: 255}), 0.5)
	c := out.NRGBAAt(1, 1)
	assert.InDelta(t, 50, int(c.R), 1)
	assert.InDelta(t, 25, int(c.G), 1)
	assert.InDelta(t, 100, int(c.B), 1)
	assert.Equal(t, uint8(255), c.A)

	black := Brightness(uniform(color.NRGBA{R: 100, G: 50, B: 200, A: 255}), 0)
	assert.Equal(t, color.NRGBA{A: 255}, black.NRGBAAt(0, 0))
}

func TestContrastZeroIsMeanGray(t *testing.T) {
	src := gradient(20, 20)
	mean := meanLuma(src)

	out := Contrast(src, 0)
	c := out.NRGBAAt(7, 3)
	assert.InDelta(t, mean, int(c.R), 1)
	assert.InDelta(t, mean, int(c.G), 1)
	assert.InDelta(t, mean, int(c.B), 1)
}

func TestSaturationZeroIsGray(t *testing.T) {
	out := Saturation(uniform(color.NRGBA{R: 200, G: 40, B: 90, A: 255}), 0)
	c := out.NRGBAAt(2, 2)
	assert.InDelta(t, int(c.R), int(c.G), 1)
	assert.InDelta(t, int(c.G), int(c.B), 1)
}

func TestFilters(t *testing.T) {
	gray := color.NRGBA{R: 100, G: 100, B: 100, A: 255}

	t.Run("cool", func(t *testing.T) {
		c := ApplyFilter(uniform(gray), FilterCool).NRGBAAt(0, 0)
		assert.InDelta(t, 90, int(c.R), 1)
		assert.InDelta(t, 100, int(c.G), 1)
		assert.InDelta(t, 120, int(c.B), 1)
	})

	t.Run("warm", func(t *testing.T) {
		c := ApplyFilter(uniform(gray), FilterWarm).NRGBAAt(0, 0)
		assert.InDelta(t, 120, int(c.R), 1)
		assert.InDelta(t, 110, int(c.G), 1)
		assert.InDelta(t, 100, int(c.B), 1)
	})

	t.Run("vintage", func(t *testing.T) {
		c := ApplyFilter(uniform(gray), FilterVintage).NRGBAAt(1, 1)
		// 100 * (0.393+0.769+0.189) = 135.1, 100 * 1.203 = 120.3, 100 * 0.937 = 93.7
		assert.InDelta(t, 135, int(c.R), 2)
		assert.InDelta(t, 120, int(c.G), 2)
		assert.InDelta(t, 94, int(c.B), 2)
	})

	t.Run("every filter changes a colored image", func(t *testing.T) {
		src := gradient(16, 16)
		for _, f := range Filters() {
			out := ApplyFilter(src, f)
			if f == FilterNone {
				assert.Equal(t, src.Pix, out.Pix)
				continue
			}
			assert.NotEqual(t, src.Pix, out.Pix, f.String())
		}
	})
}

func TestHueRotation(t *testing.T) {
	red := uniform(color.NRGBA{R: 255, A: 255})
	out := Apply(red, Settings{Brightness: 1, Contrast: 1, Saturation: 1, HueShift: 120})

	c := out.NRGBAAt(0, 0)
	assert.True(t, c.R < c.G || c.R < c.B, "red should no longer dominate: %v", c)
}
