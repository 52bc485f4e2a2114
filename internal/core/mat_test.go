package core

import (
	"encoding/binary"
	"image"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"
)

func matFromFloats(t *testing.T, rows, cols int, mt gocv.MatType, data []float32) gocv.Mat {
	t.Helper()

	buf := make([]byte, 4*len(data))
	for i, v := range data {
		binary.LittleEndian.PutUint32(buf[4*i:], math.Float32bits(v))
	}

	mat, err := gocv.NewMatFromBytes(rows, cols, mt, buf)
	require.NoError(t, err)
	t.Cleanup(func() { mat.Close() })
	return mat
}

func filledMat(t *testing.T, size image.Point, mt gocv.MatType, v ...float64) gocv.Mat {
	t.Helper()

	s := gocv.Scalar{}
	vals := []*float64{&s.Val1, &s.Val2, &s.Val3, &s.Val4}
	for i, x := range v {
		*vals[i] = x
	}
	mat := gocv.NewMatWithSizeFromScalar(s, size.Y, size.X, mt)
	t.Cleanup(func() { mat.Close() })
	return mat
}

type constantModel struct {
	out   image.Point
	a, b  float64
	calls int
	seen  image.Point
}

func (m *constantModel) InputSize() image.Point { return ModelResolution }

func (m *constantModel) Predict(input gocv.Mat) (gocv.Mat, error) {
	m.calls++
	m.seen = image.Pt(input.Cols(), input.Rows())
	return gocv.NewMatWithSizeFromScalar(gocv.NewScalar(m.a, m.b, 0, 0), m.out.Y, m.out.X, gocv.MatTypeCV32FC2), nil
}
