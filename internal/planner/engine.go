package planner

import (
	"fmt"

	"ai-travel-planner/internal/domain"
	"ai-travel-planner/internal/domain/model"
	"ai-travel-planner/internal/infra/metrics"

	"github.com/rs/zerolog"
)

// RepairEngine converts free-form model text into a validated Itinerary.
// It performs no I/O; the logger only records which repairs fired.
type RepairEngine struct {
	log *zerolog.Logger
}

func NewRepairEngine(log *zerolog.Logger) *RepairEngine {
	return &RepairEngine{log: log}
}

// Repair runs the parse ladder and the normalization pass. The returned
// itinerary always satisfies the output invariants: numeric coordinates
// and cost on every activity, and exactly one day per calendar day of
// the survey's inclusive range.
func (e *RepairEngine) Repair(raw string, survey *model.TripSurvey) (*model.Itinerary, error) {
	cand, strategy, err := ParseCandidate(raw)
	metrics.IncRepairStrategy(strategy)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnparsableOutput, err)
	}
	if strategy != StrategyDirect {
		e.log.Info().Str("strategy", strategy).Msg("model output required repair")
	}

	it, err := Normalize(cand, survey, e.log)
	if err != nil {
		return nil, fmt.Errorf("normalize candidate: %w", err)
	}
	return it, nil
}
