package planner

import (
	"strings"
	"testing"

	"ai-travel-planner/internal/domain/model"
)

func TestBuildPrompt_InclusiveDayCount(t *testing.T) {
	t.Parallel()

	cases := []struct {
		start, end string
		want       int
	}{
		{"2024-06-01", "2024-06-03", 3},
		{"2024-06-01", "2024-06-01", 1},
		{"2024-06-01", "2024-06-02", 2},
		{"2024-02-27", "2024-03-02", 5}, // leap-year boundary
		{"2024-12-30", "2025-01-02", 4}, // year boundary
	}
	for _, tc := range cases {
		s := &model.TripSurvey{Destination: "Paris", StartDate: tc.start, EndDate: tc.end}
		p, err := BuildPrompt(s)
		if err != nil {
			t.Fatalf("BuildPrompt(%s..%s): %v", tc.start, tc.end, err)
		}
		if p.DayCount != tc.want {
			t.Fatalf("day count for %s..%s: expected %d got %d", tc.start, tc.end, tc.want, p.DayCount)
		}
	}
}

func TestBuildPrompt_IncludesSurveyDetails(t *testing.T) {
	t.Parallel()

	s := &model.TripSurvey{
		Destination: "Tokyo",
		StartDate:   "2024-09-10",
		EndDate:     "2024-09-12",
		Purpose:     "honeymoon",
		Budget:      "luxury",
		Preferences: []string{"food", "museums"},
	}
	p, err := BuildPrompt(s)
	if err != nil {
		t.Fatalf("BuildPrompt: %v", err)
	}
	for _, want := range []string{"Tokyo", "3-day", "honeymoon", "luxury", "food, museums", "2024-09-10"} {
		if !strings.Contains(p.User, want) {
			t.Fatalf("user prompt missing %q:\n%s", want, p.User)
		}
	}
	if !strings.Contains(p.System, "JSON") {
		t.Fatalf("system prompt should demand JSON output")
	}
}

func TestBuildPrompt_BadDates(t *testing.T) {
	t.Parallel()

	s := &model.TripSurvey{Destination: "Paris", StartDate: "June 1", EndDate: "2024-06-03"}
	if _, err := BuildPrompt(s); err == nil {
		t.Fatalf("expected error for unparseable start date")
	}
}

func TestExpectedDates(t *testing.T) {
	t.Parallel()

	s := &model.TripSurvey{Destination: "Paris", StartDate: "2024-06-01", EndDate: "2024-06-03"}
	start, err := s.Start()
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	got := ExpectedDates(start, 3)
	want := []string{"2024-06-01", "2024-06-02", "2024-06-03"}
	if len(got) != len(want) {
		t.Fatalf("expected %d dates got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("date %d: expected %s got %s", i, want[i], got[i])
		}
	}
}
