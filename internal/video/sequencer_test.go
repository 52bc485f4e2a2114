package video

import (
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSequencerFrameSkip(t *testing.T) {
	tests := []struct {
		frames, skip int
		want         []int
	}{
		{10, 1, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}},
		{10, 3, []int{0, 3, 6, 9}},
		{10, 4, []int{0, 4, 8}},
		{10, 10, []int{0}},
		{10, 11, []int{0}},
		{0, 2, nil},
	}

	logger, _ := test.NewNullLogger()
	for _, tt := range tests {
		src := &countingSource{n: tt.frames}
		proc := &recordingProcessor{}
		sink := &countingSink{}

		seq, err := NewSequencer(tt.skip, logger)
		require.NoError(t, err)

		stats, err := seq.Run(context.Background(), src, proc, sink)
		require.NoError(t, err)

		ceil := (tt.frames + tt.skip - 1) / tt.skip
		assert.Equal(t, tt.frames, stats.FramesRead, "every frame must be read")
		assert.Equal(t, ceil, stats.FramesProcessed)
		assert.Equal(t, ceil, sink.written)
		assert.Equal(t, tt.want, proc.seen)
	}
}

func TestSequencerRejectsNonPositiveSkip(t *testing.T) {
	logger, _ := test.NewNullLogger()
	for _, skip := range []int{0, -1} {
		_, err := NewSequencer(skip, logger)
		assert.Error(t, err)
	}
}

func TestSequencerStates(t *testing.T) {
	logger, _ := test.NewNullLogger()
	seq, err := NewSequencer(2, logger)
	require.NoError(t, err)

	var states []State
	seq.OnState(func(s State) { states = append(states, s) })

	_, err = seq.Run(context.Background(), &countingSource{n: 2}, &recordingProcessor{}, &countingSink{})
	require.NoError(t, err)

	assert.Equal(t, []State{
		StateReading, StateProcessing, StateWriting,
		StateReading,
		StateReading,
		StateDone,
	}, states)
}

func TestSequencerErrors(t *testing.T) {
	logger, _ := test.NewNullLogger()
	seq, err := NewSequencer(1, logger)
	require.NoError(t, err)

	t.Run("processing failure", func(t *testing.T) {
		sink := &countingSink{}
		stats, err := seq.Run(context.Background(), &countingSource{n: 5}, &recordingProcessor{fail: 2}, sink)
		require.Error(t, err)
		assert.Equal(t, 2, sink.written)
		assert.Equal(t, 3, stats.FramesRead)
	})

	t.Run("read failure", func(t *testing.T) {
		readErr := errors.New("disk gone")
		_, err := seq.Run(context.Background(), &countingSource{n: 1, err: readErr}, &recordingProcessor{}, &countingSink{})
		assert.ErrorIs(t, err, readErr)
	})

	t.Run("cancelled between frames", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		stats, err := seq.Run(ctx, &countingSource{n: 5}, &recordingProcessor{}, &countingSink{})
		assert.ErrorIs(t, err, context.Canceled)
		assert.Zero(t, stats.FramesRead)
	})
}

func TestSequencerProgress(t *testing.T) {
	logger, _ := test.NewNullLogger()
	seq, err := NewSequencer(2, logger)
	require.NoError(t, err)

	var calls []int
	seq.OnProgress(func(s Stats) { calls = append(calls, s.FramesProcessed) })

	_, err = seq.Run(context.Background(), &countingSource{n: 5}, &recordingProcessor{}, &countingSink{})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, calls)
}
