// Fidelity metrics for colorized output
package metrics

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"
)

// Metric compares a source image with its colorized result.
type Metric interface {
	// Calculate computes the metric value
	Calculate(original, colorized gocv.Mat) (float64, error)

	GetName() string
	GetDescription() string

	// GetRange returns the practical value range (min, max)
	GetRange() (float64, float64)

	IsHigherBetter() bool
}

// Score is one computed metric.
type Score struct {
	Name  string
	Value float64
}

// Evaluator runs a fixed, ordered set of metrics.
type Evaluator struct {
	names   []string
	metrics map[string]Metric
}

// NewEvaluator creates an evaluator with the default metrics registered.
func NewEvaluator() *Evaluator {
	e := &Evaluator{
		metrics: make(map[string]Metric),
	}
	e.RegisterDefaultMetrics()
	return e
}

// RegisterDefaultMetrics registers lightness PSNR, lightness SSIM and colorfulness.
func (e *Evaluator) RegisterDefaultMetrics() {
	e.Register("psnr_l", NewPSNR())
	e.Register("ssim_l", NewSSIM())
	e.Register("colorfulness", NewColorfulness())
}

// Register adds or replaces a metric. New names are appended to the evaluation order.
func (e *Evaluator) Register(name string, metric Metric) {
	if _, exists := e.metrics[name]; !exists {
		e.names = append(e.names, name)
	}
	e.metrics[name] = metric
}

// Calculate calculates a specific metric
func (e *Evaluator) Calculate(name string, original, colorized gocv.Mat) (float64, error) {
	metric, exists := e.metrics[name]
	if !exists {
		return 0, fmt.Errorf("metric not found: %s", name)
	}
	return metric.Calculate(original, colorized)
}

// Evaluate computes every registered metric in registration order.
// Metrics that fail are left out.
func (e *Evaluator) Evaluate(original, colorized gocv.Mat) []Score {
	scores := make([]Score, 0, len(e.names))
	for _, name := range e.names {
		if v, err := e.metrics[name].Calculate(original, colorized); err == nil {
			scores = append(scores, Score{Name: name, Value: v})
		}
	}
	return scores
}

// Fields turns scores into log fields. Infinite values (identical inputs) are logged as "inf".
func Fields(scores []Score) logrus.Fields {
	fields := make(logrus.Fields, len(scores))
	for _, s := range scores {
		if math.IsInf(s.Value, 0) {
			fields[s.Name] = "inf"
			continue
		}
		fields[s.Name] = math.Round(s.Value*1000) / 1000
	}
	return fields
}

// Metric looks up a registered metric by name.
func (e *Evaluator) Metric(name string) (Metric, bool) {
	m, ok := e.metrics[name]
	return m, ok
}
