package planner

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// The repair ladder. Each rung is a total function from raw model text
// to a candidate JSON string; the first rung whose candidate parses
// wins. Nothing here fabricates an itinerary: if every rung fails the
// caller gets an error and the raw text stays untouched for diagnosis.

const (
	StrategyDirect  = "direct"
	StrategyBraces  = "braces"
	StrategyRewrite = "rewrite"
	StrategyWindow  = "window"
	StrategyNone    = "none"
)

// windowScanLimit bounds how far into the text the windowed re-scan
// looks for alternative opening braces.
const windowScanLimit = 512

// Pre-compiled rewrite patterns for the most common malformations the
// model produces.
var (
	// fencePattern strips markdown code fences around the payload.
	fencePattern = regexp.MustCompile("(?s)```(?:json)?\\s*\\n?(.*?)\\s*```")
	// unquotedKeyPattern matches bare object keys: { title: → { "title":
	unquotedKeyPattern = regexp.MustCompile(`([{,]\s*)([A-Za-z_][A-Za-z0-9_]*)\s*:`)
	// bareValuePattern matches unquoted word values: "time": morning,
	bareValuePattern = regexp.MustCompile(`:\s*([A-Za-z][A-Za-z0-9 '_-]*[A-Za-z0-9'])\s*([,}\]])`)
	// missingCommaPattern matches adjacent objects with no separator.
	missingCommaPattern = regexp.MustCompile(`}(\s*){`)
	// stringCoordsPattern matches coordinates given as a string or empty value.
	stringCoordsPattern = regexp.MustCompile(`"coordinates"\s*:\s*"(?:[^"\\]|\\.)*"`)
	// missingCoordsPattern matches coordinates with no value at all.
	missingCoordsPattern = regexp.MustCompile(`"coordinates"\s*:\s*([,}])`)
	// currencyPattern matches a bare $ before a number, which the model
	// emits in price fields and which breaks string termination.
	currencyPattern = regexp.MustCompile(`\$\s*(\d)`)
	// trailingCommaPattern matches trailing commas before ] or }.
	trailingCommaPattern = regexp.MustCompile(`,\s*([}\]])`)
)

// ParseCandidate runs the ladder and returns the first parseable
// candidate, the name of the strategy that produced it, and an error
// when every strategy fails.
func ParseCandidate(raw string) (map[string]any, string, error) {
	if cand, ok := tryParse(raw); ok {
		return cand, StrategyDirect, nil
	}

	extracted := extractBraces(raw)
	if extracted != "" {
		if cand, ok := tryParse(extracted); ok {
			return cand, StrategyBraces, nil
		}
		if cand, ok := tryParse(applyRewrites(extracted)); ok {
			return cand, StrategyRewrite, nil
		}
	}

	if cand, ok := windowScan(raw); ok {
		return cand, StrategyWindow, nil
	}

	return nil, StrategyNone, fmt.Errorf("no repair strategy yielded parseable JSON")
}

func tryParse(s string) (map[string]any, bool) {
	if strings.TrimSpace(s) == "" {
		return nil, false
	}
	var cand map[string]any
	if err := json.Unmarshal([]byte(s), &cand); err != nil {
		return nil, false
	}
	return cand, true
}

// extractBraces returns the substring between the first { and the last },
// discarding leading and trailing commentary. Markdown fences are peeled
// first so a fenced payload does not hide the braces.
func extractBraces(s string) string {
	if m := fencePattern.FindStringSubmatch(s); len(m) > 1 {
		s = m[1]
	}
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return ""
	}
	return s[start : end+1]
}

// applyRewrites runs the fixed sequence of textual repairs.
func applyRewrites(s string) string {
	s = currencyPattern.ReplaceAllString(s, "${1}")
	s = unquotedKeyPattern.ReplaceAllString(s, `${1}"${2}":`)
	s = bareValuePattern.ReplaceAllStringFunc(s, quoteBareValue)
	s = missingCommaPattern.ReplaceAllString(s, "},${1}{")
	s = stringCoordsPattern.ReplaceAllString(s, `"coordinates": {"lat": 0, "lng": 0}`)
	s = missingCoordsPattern.ReplaceAllString(s, `"coordinates": {"lat": 0, "lng": 0}${1}`)
	s = trailingCommaPattern.ReplaceAllString(s, "${1}")
	return s
}

// quoteBareValue wraps an unquoted word value in quotes, leaving JSON
// literals alone.
func quoteBareValue(match string) string {
	m := bareValuePattern.FindStringSubmatch(match)
	word := strings.TrimSpace(m[1])
	switch word {
	case "true", "false", "null":
		return match
	}
	return `: "` + word + `"` + m[2]
}

// windowScan retries brace extraction from successive opening braces
// near the start of the text, to skip leading noise the simple
// extraction missed.
func windowScan(s string) (map[string]any, bool) {
	end := strings.LastIndex(s, "}")
	if end < 0 {
		return nil, false
	}
	limit := windowScanLimit
	if limit > len(s) {
		limit = len(s)
	}
	for off := 0; off < limit; {
		idx := strings.Index(s[off:limit], "{")
		if idx < 0 {
			return nil, false
		}
		start := off + idx
		if start >= end {
			return nil, false
		}
		sub := s[start : end+1]
		if cand, ok := tryParse(sub); ok {
			return cand, true
		}
		if cand, ok := tryParse(applyRewrites(sub)); ok {
			return cand, true
		}
		off = start + 1
	}
	return nil, false
}
