// internal/core/pipeline_debug.go
// Stage timing for the colorization pipeline
package core

import (
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Stage names recorded by the Colorizer.
const (
	StageDecode    = "decode"
	StageToLab     = "to_lab"
	StagePrepare   = "prepare"
	StagePredict   = "predict"
	StageRecombine = "recombine"
)

// StageStats aggregates timings for one stage.
type StageStats struct {
	Stage    string
	Count    int
	Failures int
	Total    time.Duration
	Max      time.Duration
}

// Mean returns the average duration per call.
func (s StageStats) Mean() time.Duration {
	if s.Count == 0 {
		return 0
	}
	return s.Total / time.Duration(s.Count)
}

// StageDebugger collects per-stage durations. A nil *StageDebugger is valid
// and records nothing.
type StageDebugger struct {
	mu     sync.Mutex
	logger logrus.FieldLogger
	stats  map[string]*StageStats
}

func NewStageDebugger(logger logrus.FieldLogger) *StageDebugger {
	return &StageDebugger{
		logger: logger,
		stats:  make(map[string]*StageStats),
	}
}

// Record adds one observation for stage.
func (sd *StageDebugger) Record(stage string, d time.Duration, err error) {
	if sd == nil {
		return
	}

	sd.mu.Lock()
	st, ok := sd.stats[stage]
	if !ok {
		st = &StageStats{Stage: stage}
		sd.stats[stage] = st
	}
	st.Count++
	st.Total += d
	if d > st.Max {
		st.Max = d
	}
	if err != nil {
		st.Failures++
	}
	sd.mu.Unlock()

	entry := sd.logger.WithFields(logrus.Fields{
		"stage":       stage,
		"duration_ms": d.Milliseconds(),
	})
	if err != nil {
		entry.WithError(err).Error("PIPELINE Debug")
		return
	}
	entry.Debug("PIPELINE Debug")
}

// Summary returns a snapshot of all stages sorted by name.
func (sd *StageDebugger) Summary() []StageStats {
	if sd == nil {
		return nil
	}

	sd.mu.Lock()
	defer sd.mu.Unlock()

	out := make([]StageStats, 0, len(sd.stats))
	for _, st := range sd.stats {
		out = append(out, *st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Stage < out[j].Stage })
	return out
}

// LogSummary writes one line per stage at info level.
func (sd *StageDebugger) LogSummary() {
	for _, st := range sd.Summary() {
		sd.logger.WithFields(logrus.Fields{
			"stage":    st.Stage,
			"count":    st.Count,
			"failures": st.Failures,
			"mean_ms":  st.Mean().Milliseconds(),
			"max_ms":   st.Max.Milliseconds(),
		}).Info("PIPELINE: Stage summary")
	}
}
