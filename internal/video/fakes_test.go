package video

import (
	"errors"
	"io"

	"gocv.io/x/gocv"
)

// countingSource yields n 4x4 frames whose pixels hold the frame index.
type countingSource struct {
	n    int
	next int
	err  error
}

func (s *countingSource) Read(dst *gocv.Mat) error {
	if s.err != nil && s.next == s.n {
		return s.err
	}
	if s.next >= s.n {
		return io.EOF
	}
	frame := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(float64(s.next), float64(s.next), float64(s.next), 0), 4, 4, gocv.MatTypeCV8UC3)
	defer frame.Close()
	frame.CopyTo(dst)
	s.next++
	return nil
}

// recordingProcessor copies each frame and remembers the indices it saw.
type recordingProcessor struct {
	seen []int
	fail int
}

func (p *recordingProcessor) ProcessFrame(frame gocv.Mat) (gocv.Mat, error) {
	idx := int(frame.GetUCharAt(0, 0))
	if p.fail > 0 && idx == p.fail {
		return gocv.NewMat(), errors.New("boom")
	}
	p.seen = append(p.seen, idx)
	return frame.Clone(), nil
}

type countingSink struct {
	written int
}

func (s *countingSink) Write(frame gocv.Mat) error {
	s.written++
	return nil
}
