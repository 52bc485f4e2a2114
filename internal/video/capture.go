// OpenCV-backed frame sources and sinks
package video

import (
	"errors"
	"fmt"
	"image"
	"io"
	"os"

	"gocv.io/x/gocv"

	imgio "image-colorization/internal/io"
)

// ErrOpenSource is returned when a video exists but cannot be opened or decoded.
var ErrOpenSource = errors.New("cannot open video source")

// IntermediateCodec is the fourcc of the raw file written before re-encoding.
const IntermediateCodec = "mp4v"

// VideoInfo describes an opened source.
type VideoInfo struct {
	FPS        float64
	Size       image.Point
	FrameCount int
}

// CaptureSource reads frames from a video file.
type CaptureSource struct {
	capture *gocv.VideoCapture
	info    VideoInfo
}

// OpenSource opens path for reading.
func OpenSource(path string) (*CaptureSource, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", imgio.ErrInputNotFound, path)
		}
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	capture, err := gocv.VideoCaptureFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrOpenSource, path, err)
	}
	if !capture.IsOpened() {
		capture.Close()
		return nil, fmt.Errorf("%w: %s", ErrOpenSource, path)
	}

	info := VideoInfo{
		FPS: capture.Get(gocv.VideoCaptureFPS),
		Size: image.Pt(
			int(capture.Get(gocv.VideoCaptureFrameWidth)),
			int(capture.Get(gocv.VideoCaptureFrameHeight)),
		),
		FrameCount: int(capture.Get(gocv.VideoCaptureFrameCount)),
	}
	if info.Size.X <= 0 || info.Size.Y <= 0 {
		capture.Close()
		return nil, fmt.Errorf("%w: %s has no frames", ErrOpenSource, path)
	}

	return &CaptureSource{capture: capture, info: info}, nil
}

func (c *CaptureSource) Info() VideoInfo { return c.info }

// Read implements FrameSource.
func (c *CaptureSource) Read(dst *gocv.Mat) error {
	if !c.capture.Read(dst) || dst.Empty() {
		return io.EOF
	}
	return nil
}

func (c *CaptureSource) Close() error {
	return c.capture.Close()
}

// WriterSink writes frames to a video file.
type WriterSink struct {
	writer *gocv.VideoWriter
	size   image.Point
}

// CreateSink opens path for writing with the intermediate codec.
func CreateSink(path string, fps int, size image.Point) (*WriterSink, error) {
	writer, err := gocv.VideoWriterFile(path, IntermediateCodec, float64(fps), size.X, size.Y, true)
	if err != nil {
		return nil, fmt.Errorf("create video writer %s: %w", path, err)
	}
	if !writer.IsOpened() {
		writer.Close()
		return nil, fmt.Errorf("create video writer %s: not opened", path)
	}
	return &WriterSink{writer: writer, size: size}, nil
}

// Write implements FrameSink. Frames of another size are rejected.
func (w *WriterSink) Write(frame gocv.Mat) error {
	if frame.Cols() != w.size.X || frame.Rows() != w.size.Y {
		return fmt.Errorf("frame size %dx%d does not match writer %dx%d",
			frame.Cols(), frame.Rows(), w.size.X, w.size.Y)
	}
	return w.writer.Write(frame)
}

func (w *WriterSink) Close() error {
	return w.writer.Close()
}

// OutputFPS is the written frame rate for a source rate and frame skip:
// integer division, never below 1.
func OutputFPS(sourceFPS float64, frameSkip int) int {
	if frameSkip < 1 {
		frameSkip = 1
	}
	fps := int(sourceFPS) / frameSkip
	if fps < 1 {
		return 1
	}
	return fps
}
