package web

import (
	"net/http"
	"time"

	red "ai-travel-planner/internal/infra/redis"
	"ai-travel-planner/internal/infra/worker"
	"ai-travel-planner/internal/usecase"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Server exposes the job API: a create endpoint that answers before the
// generation finishes, and a poll endpoint reading the job store.
type Server struct {
	jobs     *usecase.JobManager
	pipeline *usecase.GenerationPipeline
	pool     *worker.Pool

	limiter   *red.RateLimiter // nil disables rate limiting
	rlLimit   int
	rlWindow  time.Duration

	log *zerolog.Logger
}

func NewServer(
	jobs *usecase.JobManager,
	pipeline *usecase.GenerationPipeline,
	pool *worker.Pool,
	limiter *red.RateLimiter,
	rlLimit int,
	rlWindow time.Duration,
	logger *zerolog.Logger,
) *Server {
	return &Server{
		jobs:     jobs,
		pipeline: pipeline,
		pool:     pool,
		limiter:  limiter,
		rlLimit:  rlLimit,
		rlWindow: rlWindow,
		log:      logger,
	}
}

// Router builds the chi routing tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(s.requestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.With(s.rateLimit).Post("/itineraries", s.createJobHandler())
		r.Get("/jobs/{jobID}", s.jobStatusHandler())
	})
	return r
}
