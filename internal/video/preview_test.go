package video

import (
	"context"
	"image"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"
)

type scriptedDisplay struct {
	keys  []int
	shown []image.Point
}

func (d *scriptedDisplay) Show(frame gocv.Mat) {
	d.shown = append(d.shown, image.Pt(frame.Cols(), frame.Rows()))
}

func (d *scriptedDisplay) PollKey() int {
	if len(d.keys) == 0 {
		return -1
	}
	k := d.keys[0]
	d.keys = d.keys[1:]
	return k
}

func (d *scriptedDisplay) Close() error { return nil }

func TestPreviewQuit(t *testing.T) {
	logger, _ := test.NewNullLogger()
	display := &scriptedDisplay{keys: []int{-1, 'q'}}

	stats, err := NewPreview(&recordingProcessor{}, display, logger).Run(context.Background(), &countingSource{n: 10})
	require.NoError(t, err)

	assert.Equal(t, 2, stats.FramesProcessed)
	assert.Equal(t, []image.Point{PreviewSize, PreviewSize}, display.shown)
}

func TestPreviewPauseStopsReading(t *testing.T) {
	logger, _ := test.NewNullLogger()
	display := &scriptedDisplay{keys: []int{'p', -1, -1, 'p', 'q'}}
	src := &countingSource{n: 10}

	stats, err := NewPreview(&recordingProcessor{}, display, logger).Run(context.Background(), src)
	require.NoError(t, err)

	// One frame before pausing, none while paused, one after resuming.
	assert.Equal(t, 2, stats.FramesRead)
	assert.Equal(t, 2, src.next)
}

func TestPreviewEndOfStream(t *testing.T) {
	logger, _ := test.NewNullLogger()
	stats, err := NewPreview(&recordingProcessor{}, &scriptedDisplay{}, logger).Run(context.Background(), &countingSource{n: 3})
	require.NoError(t, err)
	assert.Equal(t, 3, stats.FramesProcessed)
}

func TestComposeSideBySide(t *testing.T) {
	original := gocv.NewMatWithSize(120, 90, gocv.MatTypeCV8UC3)
	defer original.Close()
	colorized := gocv.NewMatWithSize(120, 90, gocv.MatTypeCV8UC3)
	defer colorized.Close()

	combined, err := ComposeSideBySide(original, colorized, PreviewSize)
	require.NoError(t, err)
	defer combined.Close()

	assert.Equal(t, PreviewSize.X, combined.Cols())
	assert.Equal(t, PreviewSize.Y, combined.Rows())
	assert.Equal(t, 3, combined.Channels())
}
