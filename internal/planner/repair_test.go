package planner

import (
	"strings"
	"testing"
)

func TestParseCandidate_Direct(t *testing.T) {
	t.Parallel()

	cand, strategy, err := ParseCandidate(`{"title": "Trip", "days": []}`)
	if err != nil {
		t.Fatalf("ParseCandidate: %v", err)
	}
	if strategy != StrategyDirect {
		t.Fatalf("expected direct strategy, got %s", strategy)
	}
	if cand["title"] != "Trip" {
		t.Fatalf("expected title Trip, got %v", cand["title"])
	}
}

func TestParseCandidate_BraceExtraction(t *testing.T) {
	t.Parallel()

	raw := "Here is your itinerary! I hope you enjoy it.\n" +
		`{"title": "Weekend in Rome", "days": []}` +
		"\nLet me know if you need changes."
	cand, strategy, err := ParseCandidate(raw)
	if err != nil {
		t.Fatalf("ParseCandidate: %v", err)
	}
	if strategy != StrategyBraces {
		t.Fatalf("expected braces strategy, got %s", strategy)
	}
	if cand["title"] != "Weekend in Rome" {
		t.Fatalf("unexpected title: %v", cand["title"])
	}
}

func TestParseCandidate_MarkdownFence(t *testing.T) {
	t.Parallel()

	raw := "```json\n{\"title\": \"Fenced\"}\n```"
	cand, _, err := ParseCandidate(raw)
	if err != nil {
		t.Fatalf("ParseCandidate: %v", err)
	}
	if cand["title"] != "Fenced" {
		t.Fatalf("unexpected title: %v", cand["title"])
	}
}

func TestParseCandidate_UnquotedKeysAndBareValues(t *testing.T) {
	t.Parallel()

	raw := `{title: "Trip", "time": morning, "cost": 10}`
	cand, strategy, err := ParseCandidate(raw)
	if err != nil {
		t.Fatalf("ParseCandidate: %v", err)
	}
	if strategy != StrategyRewrite {
		t.Fatalf("expected rewrite strategy, got %s", strategy)
	}
	if cand["title"] != "Trip" {
		t.Fatalf("unexpected title: %v", cand["title"])
	}
	if cand["time"] != "morning" {
		t.Fatalf("bare value not quoted: %v", cand["time"])
	}
}

func TestParseCandidate_MissingCommaBetweenObjects(t *testing.T) {
	t.Parallel()

	raw := `{"days": [{"date": "2024-06-01"} {"date": "2024-06-02"}]}`
	cand, _, err := ParseCandidate(raw)
	if err != nil {
		t.Fatalf("ParseCandidate: %v", err)
	}
	days, ok := cand["days"].([]any)
	if !ok || len(days) != 2 {
		t.Fatalf("expected 2 days, got %v", cand["days"])
	}
}

func TestParseCandidate_StringCoordinatesCoerced(t *testing.T) {
	t.Parallel()

	raw := `{activities: [{"title": "Walk", "coordinates": "near the river", "cost": 5}]}`
	cand, _, err := ParseCandidate(raw)
	if err != nil {
		t.Fatalf("ParseCandidate: %v", err)
	}
	acts := cand["activities"].([]any)
	coords, ok := acts[0].(map[string]any)["coordinates"].(map[string]any)
	if !ok {
		t.Fatalf("coordinates not coerced to object: %v", acts[0])
	}
	if _, ok := coords["lat"].(float64); !ok {
		t.Fatalf("coerced coordinates missing numeric lat: %v", coords)
	}
}

func TestParseCandidate_CurrencySymbol(t *testing.T) {
	t.Parallel()

	raw := `{"cost": $25, "title": "Dinner"}`
	cand, _, err := ParseCandidate(raw)
	if err != nil {
		t.Fatalf("ParseCandidate: %v", err)
	}
	if cand["cost"] != float64(25) {
		t.Fatalf("expected cost 25, got %v", cand["cost"])
	}
}

func TestParseCandidate_TrailingCommas(t *testing.T) {
	t.Parallel()

	raw := `{"days": [{"date": "2024-06-01",},],}`
	if _, _, err := ParseCandidate(raw); err != nil {
		t.Fatalf("ParseCandidate: %v", err)
	}
}

func TestParseCandidate_WindowedRescan(t *testing.T) {
	t.Parallel()

	// The first brace opens noise that never closes into valid JSON; the
	// real payload starts further in.
	raw := `prefix {not json at all] junk {"title": "Recovered", "days": []}`
	cand, strategy, err := ParseCandidate(raw)
	if err != nil {
		t.Fatalf("ParseCandidate: %v", err)
	}
	if strategy != StrategyWindow {
		t.Fatalf("expected window strategy, got %s", strategy)
	}
	if cand["title"] != "Recovered" {
		t.Fatalf("unexpected title: %v", cand["title"])
	}
}

func TestParseCandidate_AllStrategiesFail(t *testing.T) {
	t.Parallel()

	_, strategy, err := ParseCandidate("I'm sorry, I can't produce an itinerary right now.")
	if err == nil {
		t.Fatalf("expected error for unusable text")
	}
	if strategy != StrategyNone {
		t.Fatalf("expected none strategy, got %s", strategy)
	}
	if !strings.Contains(err.Error(), "no repair strategy") {
		t.Fatalf("unexpected error: %v", err)
	}
}
