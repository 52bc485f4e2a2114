package core

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"
)

func TestNormalizationConstants(t *testing.T) {
	l := matFromFloats(t, 1, 3, gocv.MatTypeCV32FC1, []float32{0, 50, 100})

	norm := gocv.NewMat()
	defer norm.Close()
	Normalize(l, &norm)

	assert.InDelta(t, -0.5, norm.GetFloatAt(0, 0), 1e-6)
	assert.InDelta(t, 0.0, norm.GetFloatAt(0, 1), 1e-6)
	assert.InDelta(t, 0.5, norm.GetFloatAt(0, 2), 1e-6)

	ab := matFromFloats(t, 1, 1, gocv.MatTypeCV32FC2, []float32{1, -0.5})
	den := gocv.NewMat()
	defer den.Close()
	Denormalize(ab, &den)

	v := den.GetVecfAt(0, 0)
	assert.InDelta(t, 110.0, v[0], 1e-4)
	assert.InDelta(t, -55.0, v[1], 1e-4)
}

func TestPrepare(t *testing.T) {
	l := filledMat(t, image.Pt(40, 30), gocv.MatTypeCV32FC1, 75)

	p, err := Prepare(l, ModelResolution)
	require.NoError(t, err)
	defer p.Close()

	assert.Equal(t, ResolutionPair{Original: image.Pt(40, 30), Model: ModelResolution}, p.Resolution)
	assert.Equal(t, 40, p.Original.Cols())
	assert.Equal(t, 30, p.Original.Rows())
	assert.Equal(t, ModelResolution.X, p.Input.Cols())
	assert.Equal(t, ModelResolution.Y, p.Input.Rows())
	assert.InDelta(t, 0.25, p.Input.GetFloatAt(128, 128), 1e-5)
	assert.InDelta(t, 75, p.Original.GetFloatAt(0, 0), 1e-5)
}

func TestPrepareIsDeterministic(t *testing.T) {
	data := make([]float32, 33*21)
	for i := range data {
		data[i] = float32(i % 100)
	}
	l := matFromFloats(t, 21, 33, gocv.MatTypeCV32FC1, data)

	first, err := Prepare(l, ModelResolution)
	require.NoError(t, err)
	defer first.Close()
	second, err := Prepare(l, ModelResolution)
	require.NoError(t, err)
	defer second.Close()

	a, err := first.Input.DataPtrFloat32()
	require.NoError(t, err)
	b, err := second.Input.DataPtrFloat32()
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestPrepareRejectsColorInput(t *testing.T) {
	l := filledMat(t, image.Pt(8, 8), gocv.MatTypeCV32FC3, 50, 0, 0)
	_, err := Prepare(l, ModelResolution)
	assert.ErrorIs(t, err, ErrChannelCount)
}
