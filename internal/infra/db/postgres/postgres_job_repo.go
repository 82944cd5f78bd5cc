package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"ai-travel-planner/internal/domain"
	"ai-travel-planner/internal/domain/model"
	"ai-travel-planner/internal/domain/ports/repository"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

var _ repository.DurableJobRepository = (*jobRepo)(nil)

// jobRepo is the durable tier: one row per job, keyed by the numeric
// translation of the job handle.
//
//	CREATE TABLE itinerary_jobs (
//	  id         BIGINT PRIMARY KEY,
//	  status     TEXT NOT NULL,
//	  result     JSONB,
//	  error      TEXT,
//	  created_at TIMESTAMPTZ NOT NULL,
//	  updated_at TIMESTAMPTZ NOT NULL
//	);
type jobRepo struct {
	pool *pgxpool.Pool
}

func NewJobRepo(pool *pgxpool.Pool) *jobRepo {
	return &jobRepo{pool: pool}
}

func (r *jobRepo) Upsert(ctx context.Context, key int64, job *model.Job) error {
	var result []byte
	if job.Result != nil {
		b, err := json.Marshal(job.Result)
		if err != nil {
			return &repository.RepoError{Kind: repository.ErrorKindData, Err: fmt.Errorf("marshal result: %w", err)}
		}
		result = b
	}
	var jobErr *string
	if job.LastError != "" {
		jobErr = &job.LastError
	}

	const q = `
INSERT INTO itinerary_jobs (id, status, result, error, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (id) DO UPDATE SET
  status = EXCLUDED.status,
  result = EXCLUDED.result,
  error = EXCLUDED.error,
  updated_at = EXCLUDED.updated_at;`

	_, err := r.pool.Exec(ctx, q, key, string(job.Status), result, jobErr, job.CreatedAt, job.UpdatedAt)
	return classify(err)
}

func (r *jobRepo) Find(ctx context.Context, key int64) (*model.Job, error) {
	const q = `
SELECT status, result, error, created_at, updated_at
FROM itinerary_jobs
WHERE id = $1;`

	var (
		job       model.Job
		statusStr string
		result    []byte
		jobErr    *string
	)
	row := r.pool.QueryRow(ctx, q, key)
	err := row.Scan(&statusStr, &result, &jobErr, &job.CreatedAt, &job.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, classify(err)
	}
	job.Status = model.JobStatus(statusStr)
	if len(result) > 0 {
		var res model.JobResult
		if err := json.Unmarshal(result, &res); err != nil {
			return nil, &repository.RepoError{Kind: repository.ErrorKindData, Err: fmt.Errorf("unmarshal result: %w", err)}
		}
		job.Result = &res
	}
	if jobErr != nil {
		job.LastError = *jobErr
	}
	return &job, nil
}

// classify splits durable-tier failures into data errors (bad schema,
// bad values: SQLSTATE classes 22, 23, 42) and connectivity errors
// (everything else, including dial and timeout failures). Connectivity
// errors make the store disable this tier.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && len(pgErr.Code) >= 2 {
		switch pgErr.Code[:2] {
		case "22", "23", "42":
			return &repository.RepoError{Kind: repository.ErrorKindData, Err: err}
		}
	}
	return &repository.RepoError{Kind: repository.ErrorKindConnectivity, Err: err}
}
