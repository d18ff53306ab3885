package analyses

// Section names used as keys in Result.Sections.
const (
	SectionSkills     = "skills"
	SectionExperience = "experience"
	SectionEducation  = "education"
	SectionKeywords   = "keywords"
)

// SectionNames lists the fixed section categories in display order.
var SectionNames = []string{SectionSkills, SectionExperience, SectionEducation, SectionKeywords}

// Priority ranks a suggestion.
type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

func (p Priority) valid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	default:
		return false
	}
}

// Request is the input to a match analysis.
type Request struct {
	Resume         string `json:"resume"`
	JobDescription string `json:"jobDescription"`
}

// Result is the canonical, provider-independent match analysis.
type Result struct {
	OverallScore  int                `json:"overallScore"`
	Sections      map[string]Section `json:"sections"`
	MatchedSkills []string           `json:"matchedSkills"`
	MissingSkills []string           `json:"missingSkills"`
	Suggestions   []Suggestion       `json:"suggestions"`
}

// Section is the per-category score breakdown.
type Section struct {
	Score   int `json:"score"`
	Matches int `json:"matches"`
	Total   int `json:"total"`
}

type Suggestion struct {
	Category    string   `json:"category"`
	Priority    Priority `json:"priority"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Action      string   `json:"action"`
}

// Source reports where a returned Result came from.
type Source string

const (
	SourceCache    Source = "cache"
	SourceProvider Source = "provider"
	SourceFallback Source = "fallback"
)

// Outcome is what the service hands back to transports.
type Outcome struct {
	Result   Result
	Source   Source
	Provider string
}

// clone returns a deep copy so cached values are never shared with callers.
func (r Result) clone() Result {
	out := Result{
		OverallScore:  r.OverallScore,
		MatchedSkills: append([]string(nil), r.MatchedSkills...),
		MissingSkills: append([]string(nil), r.MissingSkills...),
		Suggestions:   append([]Suggestion(nil), r.Suggestions...),
	}
	if r.Sections != nil {
		out.Sections = make(map[string]Section, len(r.Sections))
		for k, v := range r.Sections {
			out.Sections[k] = v
		}
	}
	return out
}
