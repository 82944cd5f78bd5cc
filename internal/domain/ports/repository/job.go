package repository

import (
	"context"
	"errors"

	"ai-travel-planner/internal/domain/model"
)

// ErrorKind classifies durable-tier failures. Connectivity errors mark
// the tier as unusable for the rest of the process; data errors do not.
type ErrorKind int

const (
	ErrorKindConnectivity ErrorKind = iota
	ErrorKindData
)

// RepoError wraps a durable-tier failure with its classification.
type RepoError struct {
	Kind ErrorKind
	Err  error
}

func (e *RepoError) Error() string { return e.Err.Error() }
func (e *RepoError) Unwrap() error { return e.Err }

// KindOf returns the classification of err, defaulting to connectivity
// for anything that is not an explicit RepoError (timeouts, dial errors).
func KindOf(err error) ErrorKind {
	var re *RepoError
	if errors.As(err, &re) {
		return re.Kind
	}
	return ErrorKindConnectivity
}

// DurableJobRepository is the network-reachable tier of the job store.
// Keys are numeric: callers translate the string job handle before use.
type DurableJobRepository interface {
	// Upsert writes the full job record under key.
	Upsert(ctx context.Context, key int64, job *model.Job) error
	// Find returns the record under key, or domain.ErrNotFound.
	Find(ctx context.Context, key int64) (*model.Job, error)
}
