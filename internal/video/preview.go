// Real-time side-by-side preview
package video

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"
)

// Preview geometry and captions.
var (
	PreviewSize  = image.Pt(640, 480)
	captionColor = color.RGBA{R: 255, G: 255, B: 255, A: 0}
)

const (
	keyQuit  = 'q'
	keyPause = 'p'
)

// Display shows frames and reports key presses.
type Display interface {
	Show(frame gocv.Mat)
	// PollKey waits briefly for a key and returns it, or -1.
	PollKey() int
	Close() error
}

// WindowDisplay is a Display backed by an OpenCV window.
type WindowDisplay struct {
	window *gocv.Window
}

func NewWindowDisplay(title string) *WindowDisplay {
	return &WindowDisplay{window: gocv.NewWindow(title)}
}

func (w *WindowDisplay) Show(frame gocv.Mat) { w.window.IMShow(frame) }

func (w *WindowDisplay) PollKey() int { return w.window.WaitKey(1) }

func (w *WindowDisplay) Close() error { return w.window.Close() }

// Preview plays a source through a processor and shows the original next to
// the result. Keys are polled between frames only.
type Preview struct {
	frames  FrameProcessor
	display Display
	logger  logrus.FieldLogger
}

func NewPreview(frames FrameProcessor, display Display, logger logrus.FieldLogger) *Preview {
	return &Preview{
		frames:  frames,
		display: display,
		logger:  logger,
	}
}

// Run returns when the source ends, q is pressed or ctx is done.
func (p *Preview) Run(ctx context.Context, src FrameSource) (Stats, error) {
	var stats Stats
	frame := gocv.NewMat()
	defer frame.Close()

	p.logger.Info("Real-time preview: press 'q' to quit, 'p' to pause/resume")

	paused := false
	for ctx.Err() == nil {
		if !paused {
			if err := src.Read(&frame); err != nil {
				if errors.Is(err, io.EOF) {
					p.logger.Info("End of video reached")
					return stats, nil
				}
				return stats, fmt.Errorf("read frame: %w", err)
			}
			stats.FramesRead++

			colored, err := p.frames.ProcessFrame(frame)
			if err != nil {
				return stats, fmt.Errorf("process frame %d: %w", stats.FramesRead-1, err)
			}
			combined, err := ComposeSideBySide(frame, colored, PreviewSize)
			colored.Close()
			if err != nil {
				return stats, err
			}
			p.display.Show(combined)
			combined.Close()
			stats.FramesProcessed++
		}

		switch p.display.PollKey() & 0xFF {
		case keyQuit:
			return stats, nil
		case keyPause:
			paused = !paused
			if paused {
				p.logger.Info("Paused")
			} else {
				p.logger.Info("Resumed")
			}
		}
	}
	return stats, ctx.Err()
}

// ComposeSideBySide builds a size-sized frame: the grayscale original on the
// left half and the colorized frame on the right, with captions.
func ComposeSideBySide(original, colorized gocv.Mat, size image.Point) (gocv.Mat, error) {
	half := image.Pt(size.X/2, size.Y)

	gray := gocv.NewMat()
	defer gray.Close()
	if original.Channels() == 1 {
		original.CopyTo(&gray)
	} else if err := gocv.CvtColor(original, &gray, gocv.ColorBGRToGray); err != nil {
		return gocv.NewMat(), fmt.Errorf("gray original: %w", err)
	}

	left := gocv.NewMat()
	defer left.Close()
	if err := gocv.CvtColor(gray, &left, gocv.ColorGrayToBGR); err != nil {
		return gocv.NewMat(), fmt.Errorf("expand gray: %w", err)
	}
	if err := gocv.Resize(left, &left, half, 0, 0, gocv.InterpolationLinear); err != nil {
		return gocv.NewMat(), fmt.Errorf("resize original: %w", err)
	}

	right := gocv.NewMat()
	defer right.Close()
	if err := gocv.Resize(colorized, &right, half, 0, 0, gocv.InterpolationLinear); err != nil {
		return gocv.NewMat(), fmt.Errorf("resize colorized: %w", err)
	}

	combined := gocv.NewMat()
	gocv.Hconcat(left, right, &combined)

	gocv.PutText(&combined, "Original", image.Pt(10, 30), gocv.FontHersheySimplex, 1, captionColor, 2)
	gocv.PutText(&combined, "Colorized", image.Pt(half.X+10, 30), gocv.FontHersheySimplex, 1, captionColor, 2)
	gocv.PutText(&combined, "Press 'q' to quit, 'p' to pause", image.Pt(10, size.Y-10), gocv.FontHersheySimplex, 0.5, captionColor, 1)

	return combined, nil
}
