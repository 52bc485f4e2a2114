// Sequential batch runner with per-item failure reporting
package batch

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
)

// Item is one unit of batch work.
type Item struct {
	Input  string
	Output string
}

// Result records the outcome of one item.
type Result struct {
	Item     Item
	Err      error
	Duration time.Duration
}

func (r Result) OK() bool { return r.Err == nil }

// Report collects every item's result in input order.
type Report struct {
	Results []Result
}

func (r Report) Succeeded() []Result {
	var out []Result
	for _, res := range r.Results {
		if res.OK() {
			out = append(out, res)
		}
	}
	return out
}

func (r Report) Failed() []Result {
	var out []Result
	for _, res := range r.Results {
		if !res.OK() {
			out = append(out, res)
		}
	}
	return out
}

// Err joins the failures, or returns nil when every item succeeded.
func (r Report) Err() error {
	var errs []error
	for _, res := range r.Failed() {
		errs = append(errs, fmt.Errorf("%s: %w", filepath.Base(res.Item.Input), res.Err))
	}
	return errors.Join(errs...)
}

// Job processes one item.
type Job func(ctx context.Context, item Item) error

// Runner executes items one at a time. A failing item is reported and the
// run moves on; only cancellation of ctx stops it early.
type Runner struct {
	logger logrus.FieldLogger
}

func NewRunner(logger logrus.FieldLogger) *Runner {
	return &Runner{
		logger: logger,
	}
}

func (r *Runner) Run(ctx context.Context, items []Item, job Job) Report {
	report := Report{Results: make([]Result, 0, len(items))}

	r.logger.WithField("items", len(items)).Info("Batch started")

	for i, item := range items {
		if ctx.Err() != nil {
			r.logger.WithField("remaining", len(items)-i).Warn("Batch cancelled")
			break
		}

		log := r.logger.WithFields(logrus.Fields{
			"item":  i + 1,
			"total": len(items),
			"input": item.Input,
		})
		log.Info("Processing")

		start := time.Now()
		err := job(ctx, item)
		res := Result{Item: item, Err: err, Duration: time.Since(start)}
		report.Results = append(report.Results, res)

		if err != nil {
			log.WithError(err).Error("Item failed")
			continue
		}
		log.WithFields(logrus.Fields{
			"output":      item.Output,
			"duration_ms": res.Duration.Milliseconds(),
		}).Info("Item done")
	}

	r.logger.WithFields(logrus.Fields{
		"succeeded": len(report.Succeeded()),
		"failed":    len(report.Failed()),
	}).Info("Batch finished")

	return report
}
