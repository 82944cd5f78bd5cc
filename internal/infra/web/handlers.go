package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"ai-travel-planner/internal/domain"
	"ai-travel-planner/internal/domain/model"
	"ai-travel-planner/internal/usecase"

	"github.com/go-chi/chi/v5"
)

type createJobResponse struct {
	JobID   string `json:"jobId"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

type jobStatusResponse struct {
	JobID     string           `json:"jobId"`
	Status    model.JobStatus  `json:"status"`
	Result    *model.JobResult `json:"result,omitempty"`
	Error     string           `json:"error,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// createJobHandler accepts a travel survey, creates a queued job, and
// fires the generation pipeline without waiting for it. The pipeline
// runs on the worker pool's own context so finishing this response
// cannot cancel it.
func (s *Server) createJobHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var survey model.TripSurvey
		if err := json.NewDecoder(r.Body).Decode(&survey); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
			return
		}
		if err := survey.Validate(); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}

		job, err := s.jobs.Create(ctx)
		if err != nil {
			s.log.Error().Err(err).Msg("job creation failed")
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "could not create job"})
			return
		}

		jobID := job.ID
		task := func(taskCtx context.Context) error {
			s.pipeline.Run(taskCtx, jobID, &survey)
			return nil
		}
		if err := s.pool.Submit(task); err != nil {
			// Exactly one pipeline per job: a rejected submission means
			// this job will never start, so it fails here and now.
			s.jobs.Transition(ctx, jobID, model.JobStatusFailed, usecase.TransitionPayload{
				Error: "generation could not be scheduled: " + err.Error(),
			})
			writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "server busy, try again later"})
			return
		}

		writeJSON(w, http.StatusAccepted, createJobResponse{
			JobID:   jobID,
			Status:  string(model.JobStatusQueued),
			Message: "Itinerary generation started. Poll the job endpoint for status.",
		})
	}
}

// jobStatusHandler answers polls from the job store's last known state.
func (s *Server) jobStatusHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		jobID := chi.URLParam(r, "jobID")

		job, err := s.jobs.Read(r.Context(), jobID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				writeJSON(w, http.StatusNotFound, errorResponse{Error: "job not found"})
				return
			}
			s.log.Error().Err(err).Str("job_id", jobID).Msg("job read failed")
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "could not read job"})
			return
		}

		writeJSON(w, http.StatusOK, jobStatusResponse{
			JobID:     job.ID,
			Status:    job.Status,
			Result:    job.Result,
			Error:     job.LastError,
			CreatedAt: job.CreatedAt,
			UpdatedAt: job.UpdatedAt,
		})
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
