package planner

import (
	"fmt"
	"strings"
	"time"

	"ai-travel-planner/internal/domain/model"
)

const dateLayout = "2006-01-02"

// Prompt is the fully rendered generation request for one survey.
type Prompt struct {
	System   string
	User     string
	DayCount int
}

const systemPrompt = `You are an expert travel planner. You produce detailed, realistic travel itineraries.
Respond with a single JSON object and nothing else: no markdown fences, no commentary.
The object must have this shape:
{
  "title": string,
  "destination": string,
  "dates": {"start": "YYYY-MM-DD", "end": "YYYY-MM-DD"},
  "days": [
    {
      "date": "YYYY-MM-DD",
      "activities": [
        {
          "time": "morning" | "afternoon" | "evening",
          "title": string,
          "description": string,
          "location": string,
          "coordinates": {"lat": number, "lng": number},
          "cost": number
        }
      ]
    }
  ],
  "accommodation": [{"name": string, "type": string, "description": string, "pricePerNight": number}],
  "transportation": [{"mode": string, "description": string, "price": number}],
  "budget": {"accommodation": number, "food": number, "activities": number, "transport": number, "total": number}
}
Every day in the date range must appear exactly once, in order. All costs are numbers, never strings.`

// BuildPrompt renders the system and user prompts for a survey and
// computes the inclusive day count of its date range. Pure; the survey
// must already be validated.
func BuildPrompt(s *model.TripSurvey) (Prompt, error) {
	start, err := s.Start()
	if err != nil {
		return Prompt{}, fmt.Errorf("start date: %w", err)
	}
	end, err := s.End()
	if err != nil {
		return Prompt{}, fmt.Errorf("end date: %w", err)
	}
	days := InclusiveDayCount(start, end)

	var b strings.Builder
	fmt.Fprintf(&b, "Create a %d-day travel itinerary for %s, from %s to %s inclusive.\n",
		days, s.Destination, start.Format(dateLayout), end.Format(dateLayout))
	if s.Purpose != "" {
		fmt.Fprintf(&b, "Trip purpose: %s.\n", s.Purpose)
	}
	if s.Budget != "" {
		fmt.Fprintf(&b, "Budget level: %s.\n", s.Budget)
	}
	if len(s.Preferences) > 0 {
		fmt.Fprintf(&b, "Traveler preferences: %s.\n", strings.Join(s.Preferences, ", "))
	}
	fmt.Fprintf(&b, "The days array must contain exactly %d entries, one per calendar day starting at %s.",
		days, start.Format(dateLayout))

	return Prompt{System: systemPrompt, User: b.String(), DayCount: days}, nil
}

// InclusiveDayCount returns the number of calendar days covered by
// [start, end], both normalized to the same time-of-day by the caller.
func InclusiveDayCount(start, end time.Time) int {
	return int(end.Sub(start).Hours()/24) + 1
}

// ExpectedDates lists the calendar dates of the inclusive range in order.
func ExpectedDates(start time.Time, count int) []string {
	out := make([]string, 0, count)
	for i := 0; i < count; i++ {
		out = append(out, start.AddDate(0, 0, i).Format(dateLayout))
	}
	return out
}
