package model

import (
	"fmt"
	"time"

	"ai-travel-planner/internal/domain"
)

const surveyDateLayout = "2006-01-02"

// TripSurvey is the travel-preferences payload that seeds a generation job.
type TripSurvey struct {
	Destination string   `json:"destination"`
	StartDate   string   `json:"startDate"` // YYYY-MM-DD
	EndDate     string   `json:"endDate"`   // YYYY-MM-DD
	Purpose     string   `json:"purpose,omitempty"`
	Budget      string   `json:"budget,omitempty"` // e.g. "budget" | "moderate" | "luxury"
	Preferences []string `json:"preferences,omitempty"`
}

// Validate checks the fields needed before a job may be created.
func (s *TripSurvey) Validate() error {
	if s.Destination == "" {
		return fmt.Errorf("%w: destination is required", domain.ErrInvalidArgument)
	}
	start, err := s.Start()
	if err != nil {
		return fmt.Errorf("%w: startDate: %v", domain.ErrInvalidArgument, err)
	}
	end, err := s.End()
	if err != nil {
		return fmt.Errorf("%w: endDate: %v", domain.ErrInvalidArgument, err)
	}
	if end.Before(start) {
		return fmt.Errorf("%w: endDate %s is before startDate %s", domain.ErrInvalidArgument, s.EndDate, s.StartDate)
	}
	return nil
}

// Start parses StartDate normalized to noon UTC. Anchoring away from the
// day boundary keeps day-count arithmetic stable across timezones.
func (s *TripSurvey) Start() (time.Time, error) {
	return parseNoon(s.StartDate)
}

// End parses EndDate normalized to noon UTC.
func (s *TripSurvey) End() (time.Time, error) {
	return parseNoon(s.EndDate)
}

func parseNoon(v string) (time.Time, error) {
	t, err := time.Parse(surveyDateLayout, v)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 12, 0, 0, 0, time.UTC), nil
}
