package usecase

import (
	"context"
	"strings"
	"testing"
	"time"

	"ai-travel-planner/internal/domain/model"
	"ai-travel-planner/internal/planner"
)

func newTestPipeline(ai *scriptedAI, timeout time.Duration) (*GenerationPipeline, *JobManager) {
	jobs := newTestJobManager()
	engine := planner.NewRepairEngine(nopLogger())
	p := NewGenerationPipeline(jobs, ai, engine, timeout, 4000, 0.7, nopLogger())
	return p, jobs
}

func testSurvey() *model.TripSurvey {
	return &model.TripSurvey{
		Destination: "Paris",
		StartDate:   "2024-06-01",
		EndDate:     "2024-06-02",
		Purpose:     "leisure",
		Budget:      "moderate",
	}
}

// The model returns a parseable itinerary that is short one day and has
// an activity without coordinates. The pipeline must still complete the
// job with a fully reconciled result.
func TestPipeline_CompletesWithRepairedOutput(t *testing.T) {
	t.Parallel()

	raw := `{
		"title": "Paris Getaway",
		"destination": "Paris",
		"days": [
			{
				"date": "2024-06-01",
				"activities": [
					{"time": "morning", "title": "Louvre", "cost": "$25"},
					{"time": "evening", "title": "Seine cruise",
					 "coordinates": {"lat": 48.85, "lng": 2.35}, "cost": 40}
				]
			}
		]
	}`
	p, jobs := newTestPipeline(&scriptedAI{response: raw}, time.Second)

	job, err := jobs.Create(context.Background())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	p.Run(context.Background(), job.ID, testSurvey())

	got, err := jobs.Read(context.Background(), job.ID)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got.Status != model.JobStatusCompleted {
		t.Fatalf("expected completed, got %s (error %q)", got.Status, got.LastError)
	}
	it := got.Result.Itinerary
	if len(it.Days) != 2 {
		t.Fatalf("expected the full 2-day range, got %d days", len(it.Days))
	}
	first := it.Days[0]
	if len(first.Activities) != 2 {
		t.Fatalf("model-provided day lost activities: %d", len(first.Activities))
	}
	if first.Activities[0].Coordinates.Lat != planner.DefaultLat {
		t.Fatalf("missing coordinates not defaulted: %+v", first.Activities[0].Coordinates)
	}
	if first.Activities[0].Cost != 25 {
		t.Fatalf("currency string not coerced: %v", first.Activities[0].Cost)
	}
	if first.Activities[1].Coordinates.Lat != 48.85 {
		t.Fatalf("provided coordinates overwritten: %+v", first.Activities[1].Coordinates)
	}
	if got.Result.Prompt == "" {
		t.Fatalf("completed job should retain the prompt")
	}
}

func TestPipeline_ModelErrorFailsJob(t *testing.T) {
	t.Parallel()

	p, jobs := newTestPipeline(&scriptedAI{err: context.DeadlineExceeded}, time.Second)
	job, _ := jobs.Create(context.Background())
	p.Run(context.Background(), job.ID, testSurvey())

	got, _ := jobs.Read(context.Background(), job.ID)
	if got.Status != model.JobStatusFailed {
		t.Fatalf("expected failed, got %s", got.Status)
	}
	if !strings.Contains(got.LastError, "timed out") {
		t.Fatalf("timeout not reported: %q", got.LastError)
	}
	if got.Result != nil {
		t.Fatalf("failed job must not carry a result")
	}
}

func TestPipeline_SlowModelTimesOut(t *testing.T) {
	t.Parallel()

	p, jobs := newTestPipeline(&scriptedAI{response: "{}", delay: 200 * time.Millisecond}, 20*time.Millisecond)
	job, _ := jobs.Create(context.Background())
	p.Run(context.Background(), job.ID, testSurvey())

	got, _ := jobs.Read(context.Background(), job.ID)
	if got.Status != model.JobStatusFailed {
		t.Fatalf("expected failed, got %s", got.Status)
	}
	if !strings.Contains(got.LastError, "timed out") {
		t.Fatalf("timeout not reported: %q", got.LastError)
	}
}

func TestPipeline_EmptyCompletionFailsJob(t *testing.T) {
	t.Parallel()

	p, jobs := newTestPipeline(&scriptedAI{response: "   \n"}, time.Second)
	job, _ := jobs.Create(context.Background())
	p.Run(context.Background(), job.ID, testSurvey())

	got, _ := jobs.Read(context.Background(), job.ID)
	if got.Status != model.JobStatusFailed {
		t.Fatalf("expected failed, got %s", got.Status)
	}
	if !strings.Contains(got.LastError, "empty completion") {
		t.Fatalf("empty completion not reported: %q", got.LastError)
	}
}

func TestPipeline_UnparsableOutputRetainsRawSample(t *testing.T) {
	t.Parallel()

	p, jobs := newTestPipeline(&scriptedAI{response: "I cannot produce an itinerary today."}, time.Second)
	job, _ := jobs.Create(context.Background())
	p.Run(context.Background(), job.ID, testSurvey())

	got, _ := jobs.Read(context.Background(), job.ID)
	if got.Status != model.JobStatusFailed {
		t.Fatalf("expected failed, got %s", got.Status)
	}
	if !strings.Contains(got.LastError, "raw sample") {
		t.Fatalf("raw sample missing from error: %q", got.LastError)
	}
	if !strings.Contains(got.LastError, "I cannot produce") {
		t.Fatalf("sample content missing: %q", got.LastError)
	}
}

func TestPipeline_BadSurveyFailsBeforeModelCall(t *testing.T) {
	t.Parallel()

	ai := &scriptedAI{response: "{}"}
	p, jobs := newTestPipeline(ai, time.Second)
	job, _ := jobs.Create(context.Background())

	bad := testSurvey()
	bad.EndDate = "June 2nd"
	p.Run(context.Background(), job.ID, bad)

	got, _ := jobs.Read(context.Background(), job.ID)
	if got.Status != model.JobStatusFailed {
		t.Fatalf("expected failed, got %s", got.Status)
	}
	if !strings.Contains(got.LastError, "prompt") {
		t.Fatalf("prompt build failure not reported: %q", got.LastError)
	}
}
