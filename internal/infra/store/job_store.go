package store

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"ai-travel-planner/internal/domain"
	"ai-travel-planner/internal/domain/model"
	"ai-travel-planner/internal/domain/ports/repository"
	"ai-travel-planner/internal/infra/metrics"

	"github.com/rs/zerolog"
)

// RetryConfig bounds durable-tier read retries.
type RetryConfig struct {
	MaxAttempts       int
	BackoffBase       time.Duration
	BackoffMultiplier float64
	MaxBackoff        time.Duration
}

// DefaultRetryConfig returns the retry defaults for durable-tier reads.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:       3,
		BackoffBase:       200 * time.Millisecond,
		BackoffMultiplier: 2.0,
		MaxBackoff:        2 * time.Second,
	}
}

// JobStore is the dual-tier persistence layer for job records.
//
// The primary tier is an in-process map: always available, zero
// latency, lost on restart. The durable tier is Postgres reached over
// the network. Writes land in the primary tier unconditionally and the
// durable tier best-effort; reads prefer the durable tier (with bounded
// backoff) and promote its answer into the primary tier. Once a durable
// operation fails with a connectivity-class error the tier is disabled
// for the rest of the process lifetime.
//
// No JobStore method propagates a durable-tier failure to its caller.
type JobStore struct {
	mu      sync.RWMutex
	primary map[string]*model.Job

	durable         repository.DurableJobRepository // nil when unconfigured
	durableDisabled atomic.Bool

	retry RetryConfig
	log   *zerolog.Logger
}

func New(durable repository.DurableJobRepository, retry RetryConfig, log *zerolog.Logger) *JobStore {
	if retry.MaxAttempts <= 0 {
		retry = DefaultRetryConfig()
	}
	s := &JobStore{
		primary: make(map[string]*model.Job),
		durable: durable,
		retry:   retry,
		log:     log,
	}
	if durable == nil {
		s.durableDisabled.Store(true)
	}
	return s
}

// Put stores the job. The primary-tier write is the operation's success
// criterion; a durable-tier failure is logged and absorbed. The
// returned error is always nil today and exists so callers can keep a
// bounded retry around creation.
func (s *JobStore) Put(ctx context.Context, job *model.Job) error {
	cp := job.Clone()
	s.mu.Lock()
	s.primary[cp.ID] = cp
	s.mu.Unlock()

	if !s.durableEnabled() {
		return nil
	}
	key := NumericKey(job.ID)
	if err := s.durable.Upsert(ctx, key, cp); err != nil {
		metrics.IncDurableWriteFailure()
		s.log.Warn().Err(err).Str("job_id", job.ID).Int64("key", key).
			Msg("durable-tier write failed; primary tier retains the record")
		if repository.KindOf(err) == repository.ErrorKindConnectivity {
			s.disableDurable(err)
		}
	}
	return nil
}

// Get returns the most recently known record for id, or
// domain.ErrNotFound when neither tier has it.
func (s *JobStore) Get(ctx context.Context, id string) (*model.Job, error) {
	if s.durableEnabled() {
		if job, ok := s.getDurable(ctx, id); ok {
			metrics.IncStoreRead("durable", "hit")
			s.mu.Lock()
			s.primary[id] = job
			s.mu.Unlock()
			return job.Clone(), nil
		}
		metrics.IncStoreRead("durable", "miss")
	}

	s.mu.RLock()
	job, ok := s.primary[id]
	s.mu.RUnlock()
	if !ok {
		metrics.IncStoreRead("primary", "miss")
		return nil, domain.ErrNotFound
	}
	metrics.IncStoreRead("primary", "hit")
	return job.Clone(), nil
}

// getDurable attempts the durable tier with bounded exponential
// backoff. A data-class error or a confirmed absence falls through to
// the primary tier without retrying; exhausted connectivity retries
// disable the tier.
func (s *JobStore) getDurable(ctx context.Context, id string) (*model.Job, bool) {
	key := NumericKey(id)
	var lastErr error
	for attempt := 0; attempt < s.retry.MaxAttempts; attempt++ {
		if attempt > 0 {
			if !s.sleep(ctx, s.backoff(attempt-1)) {
				return nil, false
			}
		}
		job, err := s.durable.Find(ctx, key)
		if err == nil {
			job.ID = id // the durable row is keyed numerically
			return job, true
		}
		if errors.Is(err, domain.ErrNotFound) {
			return nil, false
		}
		if repository.KindOf(err) == repository.ErrorKindData {
			s.log.Warn().Err(err).Str("job_id", id).Msg("durable-tier read failed with data error")
			return nil, false
		}
		lastErr = err
	}
	s.disableDurable(lastErr)
	return nil, false
}

func (s *JobStore) durableEnabled() bool {
	return s.durable != nil && !s.durableDisabled.Load()
}

func (s *JobStore) disableDurable(cause error) {
	if s.durableDisabled.CompareAndSwap(false, true) {
		s.log.Error().Err(cause).
			Msg("durable tier disabled for process lifetime after connectivity failure")
	}
}

func (s *JobStore) backoff(attempt int) time.Duration {
	d := s.retry.BackoffBase
	for i := 0; i < attempt; i++ {
		d = time.Duration(float64(d) * s.retry.BackoffMultiplier)
	}
	if d > s.retry.MaxBackoff {
		d = s.retry.MaxBackoff
	}
	return d
}

func (s *JobStore) sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
