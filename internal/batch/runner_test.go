package batch

import (
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunnerContinuesAfterFailure(t *testing.T) {
	logger, hook := test.NewNullLogger()
	items := []Item{{Input: "a"}, {Input: "bad"}, {Input: "c"}}

	var seen []string
	report := NewRunner(logger).Run(context.Background(), items, func(_ context.Context, item Item) error {
		seen = append(seen, item.Input)
		if item.Input == "bad" {
			return errors.New("corrupt")
		}
		return nil
	})

	assert.Equal(t, []string{"a", "bad", "c"}, seen)
	assert.Len(t, report.Succeeded(), 2)
	require.Len(t, report.Failed(), 1)
	assert.Equal(t, "bad", report.Failed()[0].Item.Input)
	assert.ErrorContains(t, report.Err(), "corrupt")

	var errorsLogged int
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.ErrorLevel {
			errorsLogged++
		}
	}
	assert.Equal(t, 1, errorsLogged)
}

func TestRunnerAllSucceeded(t *testing.T) {
	logger, _ := test.NewNullLogger()
	report := NewRunner(logger).Run(context.Background(), []Item{{Input: "x"}}, func(context.Context, Item) error { return nil })
	assert.NoError(t, report.Err())
	assert.Empty(t, report.Failed())
}

func TestRunnerStopsWhenCancelled(t *testing.T) {
	logger, _ := test.NewNullLogger()
	ctx, cancel := context.WithCancel(context.Background())

	items := []Item{{Input: "1"}, {Input: "2"}, {Input: "3"}}
	report := NewRunner(logger).Run(ctx, items, func(context.Context, Item) error {
		cancel()
		return nil
	})

	assert.Len(t, report.Results, 1)
}
