package model

import "time"

type JobStatus string

const (
	JobStatusQueued     JobStatus = "queued"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
)

// IsTerminal reports whether no further transition is permitted.
func (s JobStatus) IsTerminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed
}

// IsValid reports whether s is one of the four known statuses.
func (s JobStatus) IsValid() bool {
	switch s {
	case JobStatusQueued, JobStatusProcessing, JobStatusCompleted, JobStatusFailed:
		return true
	}
	return false
}

// JobResult is attached to a job when it completes: the validated
// itinerary plus the prompt that produced it.
type JobResult struct {
	Itinerary *Itinerary `json:"itinerary"`
	Prompt    string     `json:"prompt"`
}

// Job is the tracked unit of work for one itinerary-generation request.
// Result is set iff Status is completed; LastError iff Status is failed.
type Job struct {
	ID        string     `json:"id"`
	Status    JobStatus  `json:"status"`
	Result    *JobResult `json:"result,omitempty"`
	LastError string     `json:"error,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// NewJob returns a fresh queued job.
func NewJob(id string, now time.Time) *Job {
	return &Job{
		ID:        id,
		Status:    JobStatusQueued,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Clone returns a deep-enough copy so callers cannot mutate stored state.
func (j *Job) Clone() *Job {
	cp := *j
	if j.Result != nil {
		r := *j.Result
		cp.Result = &r
	}
	return &cp
}
