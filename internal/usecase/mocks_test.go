package usecase

import (
	"context"
	"time"

	"ai-travel-planner/internal/domain/ports/adapter"
	"ai-travel-planner/internal/infra/store"

	"github.com/rs/zerolog"
)

// scriptedAI returns a fixed completion (or error) after an optional delay.
type scriptedAI struct {
	response string
	err      error
	delay    time.Duration
}

func (a *scriptedAI) ModelName() string { return "scripted" }

func (a *scriptedAI) Complete(ctx context.Context, req adapter.CompletionRequest) (string, error) {
	if a.delay > 0 {
		select {
		case <-time.After(a.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if a.err != nil {
		return "", a.err
	}
	return a.response, nil
}

func nopLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

// newTestJobManager runs on the primary tier only; the durable tier is
// exercised in the store package's own tests.
func newTestJobManager() *JobManager {
	return NewJobManager(store.New(nil, store.DefaultRetryConfig(), nopLogger()), nopLogger())
}
