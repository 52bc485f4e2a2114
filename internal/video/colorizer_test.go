package video

import (
	"context"
	"errors"
	"image"
	"io"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"

	"image-colorization/internal/adjust"
)

var clipSize = image.Pt(64, 48)

// writeClip records n gray frames to dir/clip.mp4 and returns its path.
func writeClip(t *testing.T, dir string, n int) string {
	t.Helper()
	path := filepath.Join(dir, "clip.mp4")
	sink, err := CreateSink(path, 10, clipSize)
	require.NoError(t, err)
	for i := 0; i < n; i++ {
		v := float64(40 + i*20)
		frame := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(v, v, v, 0), clipSize.Y, clipSize.X, gocv.MatTypeCV8UC3)
		require.NoError(t, sink.Write(frame))
		frame.Close()
	}
	require.NoError(t, sink.Close())
	return path
}

func intermediates(t *testing.T, dir string) []string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(dir, "colorize-*.mp4"))
	require.NoError(t, err)
	return matches
}

// recordingReencoder delivers the intermediate unchanged and remembers the call.
type recordingReencoder struct {
	PassthroughReencoder
	calls int
	tier  QualityTier
}

func (r *recordingReencoder) Reencode(ctx context.Context, intermediate, output string, tier QualityTier) error {
	r.calls++
	r.tier = tier
	return r.PassthroughReencoder.Reencode(ctx, intermediate, output, tier)
}

type emptySource struct{}

func (emptySource) Read(*gocv.Mat) error { return io.EOF }
func (emptySource) Info() VideoInfo      { return VideoInfo{FPS: 25, Size: clipSize} }
func (emptySource) Close() error         { return nil }

func copyFrame(frame gocv.Mat) (gocv.Mat, error) { return frame.Clone(), nil }

func TestColorizeVideo(t *testing.T) {
	dir := t.TempDir()
	input := writeClip(t, dir, 6)
	tmp := t.TempDir()
	output := filepath.Join(dir, "out", "colorized_clip.mp4")

	logger, _ := test.NewNullLogger()
	enc := &recordingReencoder{}
	c := NewColorizer(ProcessorFunc(copyFrame), enc, logger)
	c.SetTempDir(tmp)

	stats, err := c.ColorizeVideo(context.Background(), input, output, Options{FrameSkip: 2, Quality: QualityHigh})
	require.NoError(t, err)

	assert.Positive(t, stats.FramesRead)
	assert.Equal(t, (stats.FramesRead+1)/2, stats.FramesProcessed)
	assert.Equal(t, 1, enc.calls)
	assert.Equal(t, QualityHigh, enc.tier)
	assert.FileExists(t, output)
	assert.Empty(t, intermediates(t, tmp))
}

func TestColorizeVideoRemovesIntermediateOnProcessingError(t *testing.T) {
	dir := t.TempDir()
	input := writeClip(t, dir, 3)
	tmp := t.TempDir()
	output := filepath.Join(dir, "colorized_clip.mp4")

	logger, _ := test.NewNullLogger()
	enc := &recordingReencoder{}
	failing := ProcessorFunc(func(gocv.Mat) (gocv.Mat, error) {
		return gocv.NewMat(), errors.New("model failed")
	})
	c := NewColorizer(failing, enc, logger)
	c.SetTempDir(tmp)

	_, err := c.ColorizeVideo(context.Background(), input, output, Options{FrameSkip: 1, Quality: QualityMedium})
	assert.ErrorContains(t, err, "model failed")

	assert.Empty(t, intermediates(t, tmp))
	assert.NoFileExists(t, output)
	assert.Zero(t, enc.calls)
}

func TestColorizeVideoWithoutFramesFails(t *testing.T) {
	tmp := t.TempDir()
	output := filepath.Join(t.TempDir(), "colorized_empty.mp4")

	logger, _ := test.NewNullLogger()
	enc := &recordingReencoder{}
	c := NewColorizer(ProcessorFunc(copyFrame), enc, logger)
	c.SetTempDir(tmp)
	c.open = func(string) (source, error) { return emptySource{}, nil }

	stats, err := c.ColorizeVideo(context.Background(), "empty.mp4", output, Options{FrameSkip: 1, Quality: QualityLow})
	assert.ErrorIs(t, err, ErrOpenSource)
	assert.Zero(t, stats.FramesRead)

	assert.Empty(t, intermediates(t, tmp))
	assert.NoFileExists(t, output)
	assert.Zero(t, enc.calls)
}

func TestWithAdjustmentsKeepsBGROrder(t *testing.T) {
	settings := adjust.DefaultSettings()
	settings.Filter = adjust.FilterCool

	proc := WithAdjustments(ProcessorFunc(copyFrame), settings)

	frame := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(100, 100, 100, 0), 8, 8, gocv.MatTypeCV8UC3)
	defer frame.Close()

	out, err := proc.ProcessFrame(frame)
	require.NoError(t, err)
	defer out.Close()

	require.Equal(t, gocv.MatTypeCV8UC3, out.Type())
	assert.Equal(t, 8, out.Cols())
	px := out.GetVecbAt(4, 4)
	assert.Greater(t, px[0], uint8(100), "blue is raised")
	assert.Less(t, px[2], uint8(100), "red is lowered")
}

func TestWithAdjustmentsIdentityPassesThrough(t *testing.T) {
	next := ProcessorFunc(copyFrame)
	proc := WithAdjustments(next, adjust.DefaultSettings())
	_, ok := proc.(ProcessorFunc)
	assert.True(t, ok)
}
