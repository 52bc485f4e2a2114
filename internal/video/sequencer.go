// Frame sequencer: read, process, write
package video

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"
)

// FrameSource yields frames in order. Read returns io.EOF at end of stream.
type FrameSource interface {
	Read(dst *gocv.Mat) error
}

// FrameSink receives processed frames.
type FrameSink interface {
	Write(frame gocv.Mat) error
}

// FrameProcessor transforms one frame. The returned Mat is owned by the caller.
type FrameProcessor interface {
	ProcessFrame(frame gocv.Mat) (gocv.Mat, error)
}

// ProcessorFunc adapts a function to FrameProcessor.
type ProcessorFunc func(frame gocv.Mat) (gocv.Mat, error)

func (f ProcessorFunc) ProcessFrame(frame gocv.Mat) (gocv.Mat, error) { return f(frame) }

// State is the sequencer's position in its loop.
type State int

const (
	StateReading State = iota
	StateProcessing
	StateWriting
	StateDone
)

func (s State) String() string {
	switch s {
	case StateReading:
		return "reading"
	case StateProcessing:
		return "processing"
	case StateWriting:
		return "writing"
	case StateDone:
		return "done"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Stats counts frames consumed from the source and frames written.
type Stats struct {
	FramesRead      int
	FramesProcessed int
}

// ProgressFunc is called after each written frame.
type ProgressFunc func(stats Stats)

// Sequencer processes every frame whose index is a multiple of Skip.
type Sequencer struct {
	skip     int
	logger   logrus.FieldLogger
	progress ProgressFunc
	observe  func(State)
}

func NewSequencer(skip int, logger logrus.FieldLogger) (*Sequencer, error) {
	if skip < 1 {
		return nil, fmt.Errorf("frame skip must be a positive integer, got %d", skip)
	}
	return &Sequencer{
		skip:   skip,
		logger: logger,
	}, nil
}

// OnProgress registers a progress callback.
func (s *Sequencer) OnProgress(fn ProgressFunc) {
	s.progress = fn
}

// OnState registers a callback invoked on every state transition.
func (s *Sequencer) OnState(fn func(State)) {
	s.observe = fn
}

func (s *Sequencer) enter(state State) {
	if s.observe != nil {
		s.observe(state)
	}
}

// Run drains src. ctx is checked between frames only; a frame that has
// started processing is always finished.
func (s *Sequencer) Run(ctx context.Context, src FrameSource, proc FrameProcessor, sink FrameSink) (Stats, error) {
	var stats Stats
	frame := gocv.NewMat()
	defer frame.Close()
	defer s.enter(StateDone)

	for index := 0; ; index++ {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		s.enter(StateReading)
		if err := src.Read(&frame); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return stats, fmt.Errorf("read frame %d: %w", index, err)
		}
		stats.FramesRead++

		if index%s.skip != 0 {
			continue
		}

		s.enter(StateProcessing)
		out, err := proc.ProcessFrame(frame)
		if err != nil {
			return stats, fmt.Errorf("process frame %d: %w", index, err)
		}

		s.enter(StateWriting)
		err = sink.Write(out)
		out.Close()
		if err != nil {
			return stats, fmt.Errorf("write frame %d: %w", index, err)
		}
		stats.FramesProcessed++

		if s.progress != nil {
			s.progress(stats)
		}
	}

	s.logger.WithFields(logrus.Fields{
		"frames_read":      stats.FramesRead,
		"frames_processed": stats.FramesProcessed,
		"frame_skip":       s.skip,
	}).Debug("Sequencer finished")

	return stats, nil
}
