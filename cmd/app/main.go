package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ai-travel-planner/internal/config"
	"ai-travel-planner/internal/domain/ports/adapter"
	aiAdapters "ai-travel-planner/internal/infra/adapters/ai"
	pg "ai-travel-planner/internal/infra/db/postgres"
	"ai-travel-planner/internal/infra/logging"
	"ai-travel-planner/internal/infra/metrics"
	red "ai-travel-planner/internal/infra/redis"
	"ai-travel-planner/internal/infra/store"
	"ai-travel-planner/internal/infra/web"
	"ai-travel-planner/internal/infra/worker"
	"ai-travel-planner/internal/planner"
	"ai-travel-planner/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (console logs, canned AI)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Info().Msg("developer mode enabled")
	}

	metrics.MustRegister()

	// ---- Durable tier (optional: the store degrades without it) ----
	var jobStore *store.JobStore
	if cfg.Database.URL != "" {
		pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 10)
		if err != nil {
			logger.Warn().Err(err).Msg("postgres unavailable; running on the primary tier only")
			jobStore = store.New(nil, store.DefaultRetryConfig(), logger)
		} else {
			defer pool.Close()
			jobStore = store.New(pg.NewJobRepo(pool), store.DefaultRetryConfig(), logger)
		}
	} else {
		logger.Warn().Msg("database.url not set; job records will not survive restarts")
		jobStore = store.New(nil, store.DefaultRetryConfig(), logger)
	}

	// ---- Redis (optional: rate limiting only) ----
	var limiter *red.RateLimiter
	if cfg.Redis.URL != "" {
		redisClient, err := red.NewClient(ctx, &cfg.Redis)
		if err != nil {
			logger.Warn().Err(err).Msg("redis unavailable; rate limiting disabled")
		} else {
			defer redisClient.Close()
			limiter = red.NewRateLimiter(redisClient)
		}
	}

	// ---- AI Adapter (OpenAI -> Gemini -> noop in dev) ----
	var ai adapter.AIServiceAdapter
	switch {
	case cfg.AI.OpenAIKey != "":
		ai, err = aiAdapters.NewOpenAIAdapter(cfg.AI.OpenAIKey, cfg.AI.DefaultModel, cfg.AI.OpenAIBaseURL)
		if err != nil {
			log.Fatalf("openai adapter: %v", err)
		}
		logger.Info().Str("model", cfg.AI.DefaultModel).Msg("AI adapter: OpenAI")
	case cfg.AI.GeminiKey != "":
		ai, err = aiAdapters.NewGeminiAdapter(ctx, cfg.AI.GeminiKey, cfg.AI.GeminiURL, cfg.AI.DefaultModel)
		if err != nil {
			log.Fatalf("gemini adapter: %v", err)
		}
		logger.Info().Str("model", cfg.AI.DefaultModel).Msg("AI adapter: Gemini")
	case cfg.Runtime.Dev:
		ai = aiAdapters.NewNoopAIAdapter()
		logger.Info().Msg("AI adapter: noop (dev mode)")
	default:
		log.Fatalf("no AI provider configured: set ai.openai_key or ai.gemini_key in %s", *cfgPath)
	}
	ai = aiAdapters.NewLimitedAI(ai, cfg.AI.ConcurrentLimit)

	// ---- Use cases ----
	jobs := usecase.NewJobManager(jobStore, logger)
	engine := planner.NewRepairEngine(logger)
	pipeline := usecase.NewGenerationPipeline(
		jobs, ai, engine,
		cfg.Generation.Timeout, cfg.Generation.MaxTokens, cfg.Generation.Temperature,
		logger,
	)

	// ---- Worker pool for detached pipelines ----
	pool := worker.NewPool(cfg.Server.Workers, logger)
	pool.Start(ctx)

	// ---- HTTP server ----
	srv := web.NewServer(jobs, pipeline, pool, limiter, cfg.RateLimit.Requests, cfg.RateLimit.Window, logger)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: srv.Router(),
	}
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("http server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("http server error")
		}
	}()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	_ = server.Shutdown(shutdownCtx)
	cancel()
	pool.Stop()
}
