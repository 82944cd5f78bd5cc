package usecase

import (
	"context"
	"fmt"
	"time"

	"ai-travel-planner/internal/domain"
	"ai-travel-planner/internal/domain/model"
	"ai-travel-planner/internal/infra/logging"
	"ai-travel-planner/internal/infra/metrics"
	"ai-travel-planner/internal/infra/store"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Creation is retried so the queued record exists before the pipeline starts.
const (
	createAttempts    = 3
	createBackoffBase = 100 * time.Millisecond
)

// TransitionPayload carries the data attached by a terminal transition.
// At most one of the two fields is ever set on a stored job.
type TransitionPayload struct {
	Result *model.JobResult
	Error  string
}

// JobManager owns the job state machine. It is the only component that
// mutates Job.Status, and the single source of truth for both the
// generation path and the poll path.
type JobManager struct {
	store *store.JobStore
	log   *zerolog.Logger
	now   func() time.Time
}

func NewJobManager(st *store.JobStore, log *zerolog.Logger) *JobManager {
	return &JobManager{store: st, log: log, now: time.Now}
}

// Create writes a fresh queued job and returns it. The store write is
// retried with exponential backoff; only after the attempts are
// exhausted is the job reported as unable to start.
func (m *JobManager) Create(ctx context.Context) (*model.Job, error) {
	defer logging.TraceDuration(m.log, "JobManager.Create")()
	now := m.now()
	job := model.NewJob(newJobID(now), now)

	var err error
	for attempt := 0; attempt < createAttempts; attempt++ {
		if attempt > 0 {
			time.Sleep(createBackoffBase << (attempt - 1))
		}
		if err = m.store.Put(ctx, job); err == nil {
			m.log.Info().Str("job_id", job.ID).Msg("job created")
			return job, nil
		}
	}
	return nil, fmt.Errorf("%w: %v", domain.ErrJobNotStarted, err)
}

// Transition applies a state change when the state machine permits it.
// Illegal requests are logged and ignored; a terminal job is never
// overwritten. Store failures never propagate: the transition is
// best-effort by contract.
func (m *JobManager) Transition(ctx context.Context, id string, next model.JobStatus, payload TransitionPayload) {
	job, err := m.store.Get(ctx, id)
	if err != nil {
		// The record can be gone when the primary tier was lost and the
		// durable tier is down. Resurrect it so the terminal state is
		// still eventually observable.
		job = model.NewJob(id, m.now())
	}

	if !m.allowed(job.Status, next) {
		if job.Status == model.JobStatusProcessing && next == model.JobStatusProcessing {
			return // idempotent re-entry
		}
		metrics.IncTransitionRejected()
		ev := m.log.Warn().Str("job_id", id).
			Str("from", string(job.Status)).Str("to", string(next))
		if job.Status.IsTerminal() {
			ev = ev.Err(domain.ErrJobTerminal)
		}
		ev.Msg("illegal job transition ignored")
		return
	}

	job.Status = next
	job.UpdatedAt = m.now()
	job.Result = nil
	job.LastError = ""
	switch next {
	case model.JobStatusCompleted:
		job.Result = payload.Result
	case model.JobStatusFailed:
		job.LastError = payload.Error
	}

	_ = m.store.Put(ctx, job)
	if next.IsTerminal() {
		metrics.IncJob(string(next))
	}
	m.log.Info().Str("job_id", id).Str("status", string(next)).Msg("job transitioned")
}

func (m *JobManager) allowed(from, to model.JobStatus) bool {
	switch from {
	case model.JobStatusQueued:
		return to == model.JobStatusProcessing || to == model.JobStatusFailed
	case model.JobStatusProcessing:
		return to == model.JobStatusCompleted || to == model.JobStatusFailed
	}
	return false
}

// Read returns the last known state of a job, or domain.ErrNotFound.
func (m *JobManager) Read(ctx context.Context, id string) (*model.Job, error) {
	return m.store.Get(ctx, id)
}

// newJobID mints a handle whose leading timestamp segment doubles as
// the durable tier's numeric key.
func newJobID(now time.Time) string {
	return fmt.Sprintf("job_%d_%s", now.UnixMilli(), uuid.NewString()[:8])
}
