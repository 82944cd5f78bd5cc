package web

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"ai-travel-planner/internal/domain/model"
	"ai-travel-planner/internal/domain/ports/adapter"
	"ai-travel-planner/internal/infra/store"
	"ai-travel-planner/internal/infra/worker"
	"ai-travel-planner/internal/planner"
	"ai-travel-planner/internal/usecase"

	"github.com/rs/zerolog"
)

type cannedAI struct {
	response string
	err      error
}

func (a *cannedAI) ModelName() string { return "canned" }

func (a *cannedAI) Complete(_ context.Context, _ adapter.CompletionRequest) (string, error) {
	if a.err != nil {
		return "", a.err
	}
	return a.response, nil
}

const cannedItinerary = `{
	"title": "Lisbon Weekend",
	"destination": "Lisbon",
	"days": [
		{"date": "2024-09-06", "activities": [
			{"time": "morning", "title": "Alfama walk",
			 "coordinates": {"lat": 38.71, "lng": -9.13}, "cost": 0}
		]},
		{"date": "2024-09-07", "activities": [
			{"time": "afternoon", "title": "Belem pastries",
			 "coordinates": {"lat": 38.70, "lng": -9.20}, "cost": 12}
		]}
	]
}`

func newTestServer(t *testing.T, ai adapter.AIServiceAdapter) (*httptest.Server, func()) {
	t.Helper()
	log := zerolog.Nop()

	jobs := usecase.NewJobManager(store.New(nil, store.DefaultRetryConfig(), &log), &log)
	engine := planner.NewRepairEngine(&log)
	pipeline := usecase.NewGenerationPipeline(jobs, ai, engine, 2*time.Second, 4000, 0.7, &log)

	pool := worker.NewPool(2, &log)
	ctx, cancel := context.WithCancel(context.Background())
	pool.Start(ctx)

	srv := NewServer(jobs, pipeline, pool, nil, 0, 0, &log)
	ts := httptest.NewServer(srv.Router())

	return ts, func() {
		ts.Close()
		cancel()
		pool.Stop()
	}
}

func postSurvey(t *testing.T, ts *httptest.Server, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(ts.URL+"/api/v1/itineraries", "application/json", bytes.NewBufferString(body))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	return resp
}

func TestCreateJob_AcceptsAndCompletes(t *testing.T) {
	ts, stop := newTestServer(t, &cannedAI{response: cannedItinerary})
	defer stop()

	resp := postSurvey(t, ts, `{
		"destination": "Lisbon",
		"startDate": "2024-09-06",
		"endDate": "2024-09-07",
		"budget": "moderate"
	}`)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", resp.StatusCode)
	}
	if got := resp.Header.Get("X-Request-ID"); got == "" {
		t.Fatalf("missing X-Request-ID header")
	}

	var created struct {
		JobID  string `json:"jobId"`
		Status string `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	if !strings.HasPrefix(created.JobID, "job_") {
		t.Fatalf("unexpected job handle %q", created.JobID)
	}
	if created.Status != string(model.JobStatusQueued) {
		t.Fatalf("create must answer queued, got %q", created.Status)
	}

	status := pollUntilTerminal(t, ts, created.JobID, 3*time.Second)
	if status.Status != model.JobStatusCompleted {
		t.Fatalf("expected completed, got %s (error %q)", status.Status, status.Error)
	}
	if status.Result == nil || status.Result.Itinerary == nil {
		t.Fatalf("completed job has no itinerary")
	}
	if len(status.Result.Itinerary.Days) != 2 {
		t.Fatalf("expected 2 days, got %d", len(status.Result.Itinerary.Days))
	}
}

func TestCreateJob_ModelFailureSurfacesOnPoll(t *testing.T) {
	ts, stop := newTestServer(t, &cannedAI{err: context.DeadlineExceeded})
	defer stop()

	resp := postSurvey(t, ts, `{
		"destination": "Lisbon",
		"startDate": "2024-09-06",
		"endDate": "2024-09-07"
	}`)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", resp.StatusCode)
	}

	var created struct {
		JobID string `json:"jobId"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&created)

	status := pollUntilTerminal(t, ts, created.JobID, 3*time.Second)
	if status.Status != model.JobStatusFailed {
		t.Fatalf("expected failed, got %s", status.Status)
	}
	if status.Error == "" {
		t.Fatalf("failed job must expose its error")
	}
}

func TestCreateJob_RejectsInvalidBody(t *testing.T) {
	ts, stop := newTestServer(t, &cannedAI{response: cannedItinerary})
	defer stop()

	resp := postSurvey(t, ts, `{"destination": `)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestCreateJob_RejectsMissingDestination(t *testing.T) {
	ts, stop := newTestServer(t, &cannedAI{response: cannedItinerary})
	defer stop()

	resp := postSurvey(t, ts, `{"startDate": "2024-09-06", "endDate": "2024-09-07"}`)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}

	var body struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if body.Error == "" {
		t.Fatalf("400 must carry an error message")
	}
}

func TestJobStatus_UnknownJob(t *testing.T) {
	ts, stop := newTestServer(t, &cannedAI{response: cannedItinerary})
	defer stop()

	resp, err := http.Get(ts.URL + "/api/v1/jobs/job_0_nothere")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Fatalf("404 must be JSON, got %q", ct)
	}
}

func TestHealthEndpoint(t *testing.T) {
	ts, stop := newTestServer(t, &cannedAI{response: cannedItinerary})
	defer stop()

	resp, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}

func pollUntilTerminal(t *testing.T, ts *httptest.Server, jobID string, within time.Duration) jobStatusResponse {
	t.Helper()
	deadline := time.Now().Add(within)
	for {
		resp, err := http.Get(ts.URL + "/api/v1/jobs/" + jobID)
		if err != nil {
			t.Fatalf("poll: %v", err)
		}
		var status jobStatusResponse
		if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
			resp.Body.Close()
			t.Fatalf("decode status: %v", err)
		}
		resp.Body.Close()
		if status.Status.IsTerminal() {
			return status
		}
		if time.Now().After(deadline) {
			t.Fatalf("job %s still %s after %s", jobID, status.Status, within)
		}
		time.Sleep(20 * time.Millisecond)
	}
}
