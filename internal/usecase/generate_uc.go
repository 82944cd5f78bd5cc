package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"ai-travel-planner/internal/domain"
	"ai-travel-planner/internal/domain/model"
	"ai-travel-planner/internal/domain/ports/adapter"
	"ai-travel-planner/internal/infra/logging"
	"ai-travel-planner/internal/infra/metrics"
	"ai-travel-planner/internal/planner"

	"github.com/pkoukk/tiktoken-go"
	"github.com/rs/zerolog"
)

// rawSampleLimit bounds how much raw model output a failed job retains
// for postmortem.
const rawSampleLimit = 300

// GenerationPipeline drives exactly one job from queued to a terminal
// state: prompt → model call → repair → completed/failed. It runs
// detached from the request that created the job; the caller guarantees
// a single pipeline instance per job id.
type GenerationPipeline struct {
	jobs   *JobManager
	ai     adapter.AIServiceAdapter
	engine *planner.RepairEngine

	timeout     time.Duration
	maxTokens   int
	temperature float64

	log *zerolog.Logger

	encOnce sync.Once
	enc     *tiktoken.Tiktoken
}

func NewGenerationPipeline(
	jobs *JobManager,
	ai adapter.AIServiceAdapter,
	engine *planner.RepairEngine,
	timeout time.Duration,
	maxTokens int,
	temperature float64,
	log *zerolog.Logger,
) *GenerationPipeline {
	return &GenerationPipeline{
		jobs:        jobs,
		ai:          ai,
		engine:      engine,
		timeout:     timeout,
		maxTokens:   maxTokens,
		temperature: temperature,
		log:         log,
	}
}

// Run executes the pipeline for one job. It always leaves the job in a
// terminal state; errors are reported through the job record, never
// returned. Terminal transitions use a background context so a caller
// cancellation cannot drop them.
func (p *GenerationPipeline) Run(ctx context.Context, jobID string, survey *model.TripSurvey) {
	defer logging.TraceDuration(p.log, "GenerationPipeline.Run")()
	ctx = logging.WithJobID(ctx, jobID)
	log := p.log.With().Str("job_id", jobID).Logger()
	start := time.Now()

	p.jobs.Transition(ctx, jobID, model.JobStatusProcessing, TransitionPayload{})

	prompt, err := planner.BuildPrompt(survey)
	if err != nil {
		p.fail(jobID, fmt.Sprintf("could not build prompt: %v", err))
		return
	}
	log.Info().Int("day_count", prompt.DayCount).Str("destination", survey.Destination).
		Msg("generation started")

	raw, err := p.complete(ctx, prompt)
	if err != nil {
		p.fail(jobID, fmt.Sprintf("model call failed: %v", err))
		return
	}
	if strings.TrimSpace(raw) == "" {
		p.fail(jobID, domain.ErrEmptyCompletion.Error())
		return
	}

	itinerary, err := p.engine.Repair(raw, survey)
	if err != nil {
		p.fail(jobID, fmt.Sprintf("output repair failed: %v; raw sample: %q", err, truncate(raw, rawSampleLimit)))
		return
	}

	p.jobs.Transition(context.Background(), jobID, model.JobStatusCompleted, TransitionPayload{
		Result: &model.JobResult{Itinerary: itinerary, Prompt: prompt.User},
	})
	log.Info().Dur("duration", time.Since(start)).Msg("generation finished")
}

// complete invokes the model under the pipeline's own timeout, which
// sits below the platform's execution ceiling. A timed-out call is
// terminal for the job; it is not retried.
func (p *GenerationPipeline) complete(ctx context.Context, prompt planner.Prompt) (string, error) {
	cctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	promptTokens := p.estimateTokens(prompt.System + prompt.User)

	callStart := time.Now()
	raw, err := p.ai.Complete(cctx, adapter.CompletionRequest{
		SystemPrompt: prompt.System,
		UserPrompt:   prompt.User,
		MaxTokens:    p.maxTokens,
		Temperature:  p.temperature,
	})
	latency := time.Since(callStart)
	metrics.ObserveCompletion(p.ai.ModelName(), promptTokens, int(latency/time.Millisecond), err == nil)

	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", fmt.Errorf("timed out after %s", p.timeout)
		}
		return "", err
	}
	return raw, nil
}

// fail writes the terminal failed state on a background context.
func (p *GenerationPipeline) fail(jobID, msg string) {
	p.log.Error().Str("job_id", jobID).Str("error", msg).Msg("generation failed")
	p.jobs.Transition(context.Background(), jobID, model.JobStatusFailed, TransitionPayload{Error: msg})
}

// estimateTokens is best-effort prompt accounting for metrics; a
// missing encoding never affects the pipeline.
func (p *GenerationPipeline) estimateTokens(text string) int {
	p.encOnce.Do(func() {
		enc, err := tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			p.log.Debug().Err(err).Msg("token encoding unavailable")
			return
		}
		p.enc = enc
	})
	if p.enc == nil {
		return 0
	}
	return len(p.enc.Encode(text, nil, nil))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
