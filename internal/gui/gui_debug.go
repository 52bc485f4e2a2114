package gui

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// GUIDebugger times editor operations when debug mode is on. A nil
// *GUIDebugger is valid and records nothing.
type GUIDebugger struct {
	logger    logrus.FieldLogger
	startTime time.Time

	mu    sync.Mutex
	times map[string][]time.Duration
}

func NewGUIDebugger(logger logrus.FieldLogger) *GUIDebugger {
	return &GUIDebugger{
		logger:    logger,
		startTime: time.Now(),
		times:     make(map[string][]time.Duration),
	}
}

// Time starts timing operation; call the returned func when it finishes.
func (d *GUIDebugger) Time(operation string) func() {
	if d == nil {
		return func() {}
	}
	start := time.Now()
	return func() {
		elapsed := time.Since(start)
		d.mu.Lock()
		d.times[operation] = append(d.times[operation], elapsed)
		d.mu.Unlock()

		d.logger.WithFields(logrus.Fields{
			"operation":   operation,
			"duration_ms": elapsed.Milliseconds(),
		}).Debug("GUI Debug")
	}
}

// Count reports how many times operation was timed.
func (d *GUIDebugger) Count(operation string) int {
	if d == nil {
		return 0
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.times[operation])
}

// LogSummary writes the mean duration of every operation.
func (d *GUIDebugger) LogSummary() {
	if d == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	for op, times := range d.times {
		var total time.Duration
		for _, t := range times {
			total += t
		}
		d.logger.WithFields(logrus.Fields{
			"operation": op,
			"count":     len(times),
			"mean_ms":   (total / time.Duration(len(times))).Milliseconds(),
		}).Info("GUI Debug summary")
	}
	d.logger.WithField("uptime", time.Since(d.startTime).Round(time.Second)).Info("GUI Debug session ended")
}
