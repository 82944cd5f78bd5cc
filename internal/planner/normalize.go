package planner

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"ai-travel-planner/internal/domain/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Default coordinate substituted when an activity's coordinates are
// absent, wrongly typed, or unparseable.
const (
	DefaultLat = 0.0
	DefaultLng = 0.0
)

// candidate day dates arrive in whatever format the model chose.
var dayDateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"Jan 2, 2006",
	"January 2, 2006",
	time.RFC3339,
}

// Normalize turns a parsed candidate into a validated Itinerary,
// applying the field-level defaulting rules and reconciling the days
// array against the survey's inclusive date range. It is always applied
// to a successful parse, whichever ladder strategy produced it.
func Normalize(cand map[string]any, survey *model.TripSurvey, log *zerolog.Logger) (*model.Itinerary, error) {
	start, err := survey.Start()
	if err != nil {
		return nil, fmt.Errorf("survey start date: %w", err)
	}
	end, err := survey.End()
	if err != nil {
		return nil, fmt.Errorf("survey end date: %w", err)
	}

	it := &model.Itinerary{
		Title:       asString(cand["title"], "Trip to "+survey.Destination),
		Destination: asString(cand["destination"], survey.Destination),
	}

	// Dates default to the original request when the model dropped them.
	it.Dates = model.DateRange{Start: survey.StartDate, End: survey.EndDate}
	if d, ok := cand["dates"].(map[string]any); ok {
		it.Dates.Start = asString(d["start"], survey.StartDate)
		it.Dates.End = asString(d["end"], survey.EndDate)
	}

	days := normalizeDays(cand["days"], log)
	expected := ExpectedDates(start, InclusiveDayCount(start, end))
	it.Days = reconcileDays(days, expected, survey.Destination, log)

	it.Accommodation = normalizeLodging(cand["accommodation"])
	it.Transportation = normalizeTransport(cand["transportation"])
	it.Budget = normalizeBudget(cand["budget"], log)

	return it, nil
}

// normalizeDays coerces the days value to a slice of typed days; a
// missing or non-array value becomes an empty slice rather than a failure.
func normalizeDays(v any, log *zerolog.Logger) []model.Day {
	raw, ok := v.([]any)
	if !ok {
		return []model.Day{}
	}
	out := make([]model.Day, 0, len(raw))
	for _, dv := range raw {
		dm, ok := dv.(map[string]any)
		if !ok {
			continue
		}
		day := model.Day{
			Date:       normalizeDate(asString(dm["date"], "")),
			Activities: normalizeActivities(dm["activities"], log),
		}
		out = append(out, day)
	}
	return out
}

func normalizeActivities(v any, log *zerolog.Logger) []model.Activity {
	raw, ok := v.([]any)
	if !ok {
		return []model.Activity{}
	}
	out := make([]model.Activity, 0, len(raw))
	for _, av := range raw {
		am, ok := av.(map[string]any)
		if !ok {
			continue
		}
		act := model.Activity{
			ID:          asString(am["id"], ""),
			Time:        asString(am["time"], ""),
			Title:       asString(am["title"], ""),
			Description: asString(am["description"], ""),
			Location:    asString(am["location"], ""),
			Cost:        asNumber(am["cost"], 0),
		}
		if act.ID == "" {
			act.ID = uuid.NewString()
		}
		coords, substituted := normalizeCoordinates(am["coordinates"])
		act.Coordinates = coords
		if substituted {
			log.Warn().Str("activity", act.Title).
				Float64("lat", DefaultLat).Float64("lng", DefaultLng).
				Msg("substituted default coordinates")
		}
		out = append(out, act)
	}
	return out
}

// normalizeCoordinates coerces whatever the model emitted into a
// numeric pair, reporting whether the default had to be substituted.
func normalizeCoordinates(v any) (model.Coordinates, bool) {
	m, ok := v.(map[string]any)
	if !ok {
		return model.Coordinates{Lat: DefaultLat, Lng: DefaultLng}, true
	}
	lat, latOK := toFloat(m["lat"])
	lng, lngOK := toFloat(m["lng"])
	if !latOK || !lngOK {
		return model.Coordinates{Lat: DefaultLat, Lng: DefaultLng}, true
	}
	return model.Coordinates{Lat: lat, Lng: lng}, false
}

// reconcileDays rebuilds the days array to the expected length. A day
// whose date matches an expected date is reused in place; missing dates
// get a synthesized placeholder so downstream consumers never observe a
// day-count mismatch.
func reconcileDays(days []model.Day, expected []string, destination string, log *zerolog.Logger) []model.Day {
	if len(days) == len(expected) {
		allMatch := true
		for i := range days {
			if days[i].Date != expected[i] {
				allMatch = false
				break
			}
		}
		if allMatch {
			return days
		}
	}

	byDate := make(map[string]model.Day, len(days))
	for _, d := range days {
		if _, exists := byDate[d.Date]; !exists {
			byDate[d.Date] = d
		}
	}
	expectedSet := make(map[string]bool, len(expected))
	for _, date := range expected {
		expectedSet[date] = true
	}

	out := make([]model.Day, 0, len(expected))
	synthesized := 0
	for i, date := range expected {
		if d, ok := byDate[date]; ok {
			out = append(out, d)
			continue
		}
		// Fall back to positional reuse when the model numbered its days
		// correctly but dated them wrong; a day whose date matches some
		// expected date is left for its own slot.
		if i < len(days) && !expectedSet[days[i].Date] {
			d := days[i]
			d.Date = date
			out = append(out, d)
			continue
		}
		out = append(out, placeholderDay(date, destination))
		synthesized++
	}
	if synthesized > 0 {
		log.Warn().Int("expected_days", len(expected)).Int("model_days", len(days)).
			Int("synthesized", synthesized).Msg("reconciled itinerary day count")
	}
	return out
}

// placeholderDay synthesizes a minimal day for a date the model skipped.
func placeholderDay(date, destination string) model.Day {
	coords := model.Coordinates{Lat: DefaultLat, Lng: DefaultLng}
	return model.Day{
		Date: date,
		Activities: []model.Activity{
			{
				ID:          uuid.NewString(),
				Time:        "morning",
				Title:       "Explore " + destination,
				Description: "Free morning to explore " + destination + " at your own pace.",
				Location:    destination + " city center",
				Coordinates: coords,
				Cost:        0,
			},
			{
				ID:          uuid.NewString(),
				Time:        "afternoon",
				Title:       "Local cuisine",
				Description: "Lunch and a walk through a local neighborhood of " + destination + ".",
				Location:    "Local restaurant, " + destination,
				Coordinates: coords,
				Cost:        20,
			},
			{
				ID:          uuid.NewString(),
				Time:        "evening",
				Title:       "Evening stroll",
				Description: "Relaxed evening in " + destination + ".",
				Location:    destination,
				Coordinates: coords,
				Cost:        0,
			},
		},
	}
}

func normalizeLodging(v any) []model.LodgingOption {
	raw, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]model.LodgingOption, 0, len(raw))
	for _, lv := range raw {
		lm, ok := lv.(map[string]any)
		if !ok {
			continue
		}
		out = append(out, model.LodgingOption{
			Name:          asString(lm["name"], ""),
			Type:          asString(lm["type"], ""),
			Description:   asString(lm["description"], ""),
			PricePerNight: asNumber(firstOf(lm, "pricePerNight", "price"), 0),
		})
	}
	return out
}

func normalizeTransport(v any) []model.TransportOption {
	raw, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]model.TransportOption, 0, len(raw))
	for _, tv := range raw {
		tm, ok := tv.(map[string]any)
		if !ok {
			continue
		}
		out = append(out, model.TransportOption{
			Mode:        asString(firstOf(tm, "mode", "type"), ""),
			Description: asString(tm["description"], ""),
			Price:       asNumber(tm["price"], 0),
		})
	}
	return out
}

// normalizeBudget passes the model's breakdown through unchanged. A
// total that disagrees with the component sum is logged, not corrected.
func normalizeBudget(v any, log *zerolog.Logger) *model.BudgetBreakdown {
	m, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	b := &model.BudgetBreakdown{
		Accommodation: asNumber(m["accommodation"], 0),
		Food:          asNumber(m["food"], 0),
		Activities:    asNumber(m["activities"], 0),
		Transport:     asNumber(m["transport"], 0),
		Total:         asNumber(m["total"], 0),
	}
	if sum := b.ComponentSum(); b.Total != 0 && sum != b.Total {
		log.Debug().Float64("total", b.Total).Float64("component_sum", sum).
			Msg("budget total does not match component sum")
	}
	return b
}

// normalizeDate reformats a candidate date to YYYY-MM-DD when it parses
// under any known layout; unknown formats pass through unchanged.
func normalizeDate(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	for _, layout := range dayDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return s
}

func asString(v any, def string) string {
	if s, ok := v.(string); ok && s != "" {
		return s
	}
	return def
}

// asNumber coerces numbers and numeric strings (currency symbols and
// thousands separators stripped) to float64, defaulting otherwise.
func asNumber(v any, def float64) float64 {
	if f, ok := toFloat(v); ok {
		return f
	}
	return def
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case string:
		cleaned := strings.TrimSpace(n)
		cleaned = strings.NewReplacer("$", "", ",", "", "€", "", "£", "").Replace(cleaned)
		if cleaned == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

func firstOf(m map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil {
			return v
		}
	}
	return nil
}
