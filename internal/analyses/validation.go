package analyses

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
)

// rawResult mirrors Result with pointer fields so absent keys can be told
// apart from zero values.
type rawResult struct {
	OverallScore  *float64               `json:"overallScore"`
	Sections      map[string]*rawSection `json:"sections"`
	MatchedSkills *[]string              `json:"matchedSkills"`
	MissingSkills *[]string              `json:"missingSkills"`
	Suggestions   *[]rawSuggestion       `json:"suggestions"`
}

type rawSection struct {
	Score   *float64 `json:"score"`
	Matches *float64 `json:"matches"`
	Total   *float64 `json:"total"`
}

type rawSuggestion struct {
	Category    *string `json:"category"`
	Priority    *string `json:"priority"`
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Action      *string `json:"action"`
}

// ParseResult parses a provider's raw text into a validated Result.
// Every failure wraps ErrMalformedResponse.
func ParseResult(raw string) (Result, error) {
	body, err := extractJSONObject(raw)
	if err != nil {
		return Result{}, malformed(err)
	}

	var parsed rawResult
	if err := json.Unmarshal([]byte(body), &parsed); err != nil {
		return Result{}, malformed(fmt.Errorf("unmarshal: %w", err))
	}

	overall, err := intInRange("overallScore", parsed.OverallScore, 0, 100)
	if err != nil {
		return Result{}, malformed(err)
	}
	if parsed.Sections == nil {
		return Result{}, malformed(errors.New("sections is required"))
	}

	out := Result{
		OverallScore: overall,
		Sections:     make(map[string]Section, len(SectionNames)),
	}
	for _, name := range SectionNames {
		section, err := parseSection(name, parsed.Sections[name])
		if err != nil {
			return Result{}, malformed(err)
		}
		out.Sections[name] = section
	}

	if parsed.MatchedSkills == nil {
		return Result{}, malformed(errors.New("matchedSkills is required"))
	}
	if parsed.MissingSkills == nil {
		return Result{}, malformed(errors.New("missingSkills is required"))
	}
	out.MatchedSkills = uniqueSkills(*parsed.MatchedSkills, nil)
	out.MissingSkills = uniqueSkills(*parsed.MissingSkills, out.MatchedSkills)

	if parsed.Suggestions == nil {
		return Result{}, malformed(errors.New("suggestions is required"))
	}
	out.Suggestions = make([]Suggestion, 0, len(*parsed.Suggestions))
	for i, s := range *parsed.Suggestions {
		suggestion, err := parseSuggestion(i, s)
		if err != nil {
			return Result{}, malformed(err)
		}
		out.Suggestions = append(out.Suggestions, suggestion)
	}

	return out, nil
}

func malformed(err error) error {
	return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
}

// extractJSONObject strips Markdown fences or surrounding prose and returns
// the outermost JSON object in raw.
func extractJSONObject(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", errors.New("empty response")
	}
	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start < 0 || end < start {
		return "", errors.New("no JSON object in response")
	}
	return trimmed[start : end+1], nil
}

func parseSection(name string, s *rawSection) (Section, error) {
	if s == nil {
		return Section{}, fmt.Errorf("sections.%s is required", name)
	}
	score, err := intInRange("sections."+name+".score", s.Score, 0, 100)
	if err != nil {
		return Section{}, err
	}
	matches, err := intInRange("sections."+name+".matches", s.Matches, 0, math.MaxInt32)
	if err != nil {
		return Section{}, err
	}
	total, err := intInRange("sections."+name+".total", s.Total, 0, math.MaxInt32)
	if err != nil {
		return Section{}, err
	}
	if matches > total {
		return Section{}, fmt.Errorf("sections.%s.matches (%d) exceeds total (%d)", name, matches, total)
	}
	return Section{Score: score, Matches: matches, Total: total}, nil
}

func parseSuggestion(i int, s rawSuggestion) (Suggestion, error) {
	fields := []struct {
		name  string
		value *string
	}{
		{"category", s.Category},
		{"priority", s.Priority},
		{"title", s.Title},
		{"description", s.Description},
		{"action", s.Action},
	}
	for _, f := range fields {
		if f.value == nil {
			return Suggestion{}, fmt.Errorf("suggestions[%d].%s is required", i, f.name)
		}
	}
	priority := Priority(strings.TrimSpace(*s.Priority))
	if !priority.valid() {
		return Suggestion{}, fmt.Errorf("suggestions[%d].priority %q is not High, Medium or Low", i, *s.Priority)
	}
	return Suggestion{
		Category:    strings.TrimSpace(*s.Category),
		Priority:    priority,
		Title:       strings.TrimSpace(*s.Title),
		Description: strings.TrimSpace(*s.Description),
		Action:      strings.TrimSpace(*s.Action),
	}, nil
}

func intInRange(name string, v *float64, lo, hi int) (int, error) {
	if v == nil {
		return 0, fmt.Errorf("%s is required", name)
	}
	if math.Abs(*v-math.Round(*v)) > 0.000001 {
		return 0, fmt.Errorf("%s must be an integer", name)
	}
	n := int(math.Round(*v))
	if n < lo || n > hi {
		return 0, fmt.Errorf("%s must be between %d and %d", name, lo, hi)
	}
	return n, nil
}

// uniqueSkills trims entries, drops blanks and duplicates, and drops
// anything listed in exclude. Order is preserved.
func uniqueSkills(in []string, exclude []string) []string {
	seen := make(map[string]struct{}, len(in)+len(exclude))
	for _, s := range exclude {
		seen[strings.ToLower(s)] = struct{}{}
	}
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		key := strings.ToLower(s)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, s)
	}
	return out
}
