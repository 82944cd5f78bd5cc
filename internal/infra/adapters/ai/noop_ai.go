package ai

import (
	"context"
	"time"

	"ai-travel-planner/internal/domain/ports/adapter"
)

var _ adapter.AIServiceAdapter = (*NoopAIAdapter)(nil)

// NoopAIAdapter implements adapter.AIServiceAdapter for local/dev
// testing. It returns a deterministic one-day itinerary skeleton
// instead of calling a real provider; the planner's reconciliation
// pads it out to the requested range.
type NoopAIAdapter struct{}

func NewNoopAIAdapter() *NoopAIAdapter {
	return &NoopAIAdapter{}
}

func (a *NoopAIAdapter) ModelName() string { return "noop-ai-model" }

func (a *NoopAIAdapter) Complete(ctx context.Context, req adapter.CompletionRequest) (string, error) {
	// Simulate slight processing time and respect ctx
	select {
	case <-time.After(100 * time.Millisecond):
	case <-ctx.Done():
		return "", ctx.Err()
	}
	return `{
  "title": "Sample trip",
  "days": [
    {
      "activities": [
        {
          "time": "morning",
          "title": "Sample activity",
          "description": "Generated by the noop adapter.",
          "location": "Sample location",
          "coordinates": {"lat": 48.8566, "lng": 2.3522},
          "cost": 10
        }
      ]
    }
  ],
  "budget": {"accommodation": 100, "food": 50, "activities": 30, "transport": 20, "total": 200}
}`, nil
}
