package core

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"
)

func TestRecombinePreservesResolution(t *testing.T) {
	sizes := []image.Point{
		image.Pt(1, 1),
		image.Pt(37, 23),
		image.Pt(256, 256),
		image.Pt(640, 480),
		image.Pt(300, 1000),
	}

	for _, size := range sizes {
		t.Run(size.String(), func(t *testing.T) {
			l := filledMat(t, size, gocv.MatTypeCV32FC1, 50)
			ab := filledMat(t, ModelResolution, gocv.MatTypeCV32FC2, 0, 0)

			out, err := Recombine(l, ab, size)
			require.NoError(t, err)
			defer out.Close()

			assert.Equal(t, size, out.Size())
			assert.Equal(t, SpaceDisplay, out.Space)
		})
	}
}

func TestRecombineRequiresOriginalLightness(t *testing.T) {
	l := filledMat(t, ModelResolution, gocv.MatTypeCV32FC1, 50)
	ab := filledMat(t, ModelResolution, gocv.MatTypeCV32FC2, 0, 0)

	_, err := Recombine(l, ab, image.Pt(640, 480))
	assert.ErrorIs(t, err, ErrResolutionMismatch)
}

func TestRecombineAppliesChrominance(t *testing.T) {
	size := image.Pt(16, 9)
	l := filledMat(t, size, gocv.MatTypeCV32FC1, 60)

	// a* > 0 pushes towards red: the red (index 2) channel dominates green.
	ab := filledMat(t, image.Pt(64, 64), gocv.MatTypeCV32FC2, 0.4, 0)

	out, err := Recombine(l, ab, size)
	require.NoError(t, err)
	defer out.Close()

	px := out.Mat.GetVecfAt(4, 8)
	assert.Greater(t, px[2], px[1])
}
