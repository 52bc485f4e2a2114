package io

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 4), G: uint8(y * 4), B: 128, A: 255})
		}
	}
	return img
}

func TestEncodeFormats(t *testing.T) {
	logger, _ := test.NewNullLogger()
	enc := NewEncoder(logger)
	img := testImage(40, 30)

	tests := []struct {
		format Format
		magic  [][]byte
	}{
		{FormatPNG, [][]byte{{0x89, 'P', 'N', 'G'}}},
		{FormatJPEG, [][]byte{{0xFF, 0xD8, 0xFF}}},
		{FormatPDF, [][]byte{[]byte("%PDF")}},
		{FormatTIFF, [][]byte{{'I', 'I', 42, 0}, {'M', 'M', 0, 42}}},
	}

	for _, tt := range tests {
		t.Run(tt.format.String(), func(t *testing.T) {
			data, err := enc.EncodeBytes(img, Target{Format: tt.format, Resolution: OriginalResolution()})
			require.NoError(t, err)

			matched := false
			for _, m := range tt.magic {
				if bytes.HasPrefix(data, m) {
					matched = true
				}
			}
			assert.True(t, matched, "unexpected header % x", data[:8])
		})
	}
}

func TestEncodeResizesToTarget(t *testing.T) {
	logger, _ := test.NewNullLogger()
	enc := NewEncoder(logger)

	data, err := enc.EncodeBytes(testImage(40, 30), Target{Format: FormatPNG, Resolution: Resolution{Preset: Preset256}})
	require.NoError(t, err)

	decoded, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, image.Pt(256, 256), decoded.Bounds().Size())
}

func TestEncodeRejectsBadCustomSize(t *testing.T) {
	logger, _ := test.NewNullLogger()
	enc := NewEncoder(logger)

	_, err := enc.EncodeBytes(testImage(8, 8), Target{Format: FormatPNG, Resolution: CustomResolution(32, 5000)})
	assert.Error(t, err)
}

func TestSaveFile(t *testing.T) {
	logger, _ := test.NewNullLogger()
	enc := NewEncoder(logger)
	path := filepath.Join(t.TempDir(), "nested", "out.jpg")

	require.NoError(t, enc.SaveFile(path, testImage(16, 16), Target{Format: FormatJPEG}))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files must not be left behind")
}

func TestSaveFileReplacesAndCleansUp(t *testing.T) {
	logger, _ := test.NewNullLogger()
	enc := NewEncoder(logger)
	dir := t.TempDir()

	path := filepath.Join(dir, "out.png")
	require.NoError(t, os.WriteFile(path, []byte("stale"), 0o644))
	require.NoError(t, enc.SaveFile(path, testImage(8, 8), Target{Format: FormatPNG}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("\x89PNG"), data[:4])

	blocked := filepath.Join(dir, "blocked.png")
	require.NoError(t, os.Mkdir(blocked, 0o755))
	assert.Error(t, enc.SaveFile(blocked, testImage(8, 8), Target{Format: FormatPNG}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2, "a failed save must not leave a temporary file")
}
