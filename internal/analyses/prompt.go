package analyses

import (
	_ "embed"
	"strings"
)

//go:embed prompts/match_v1.txt
var matchPromptTemplate string

// NormalizeText collapses whitespace runs to a single space and trims the ends.
func NormalizeText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// BuildPrompt renders the analysis prompt for the given raw inputs.
// Both inputs are normalized independently; nothing else is escaped.
func BuildPrompt(resume, jobDescription string) string {
	// Single pass, so placeholder text inside user input is left alone.
	replacer := strings.NewReplacer(
		"{{RESUME}}", NormalizeText(resume),
		"{{JOB_DESCRIPTION}}", NormalizeText(jobDescription),
	)
	return strings.TrimRight(replacer.Replace(matchPromptTemplate), "\n")
}
