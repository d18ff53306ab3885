package analyses

import (
	"strings"
	"testing"
)

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "collapse runs", in: "Go   and\t\tRust\n\nengineer", want: "Go and Rust engineer"},
		{name: "trim ends", in: "  \n senior dev \t ", want: "senior dev"},
		{name: "whitespace only", in: " \n\t ", want: ""},
		{name: "unchanged", in: "plain text", want: "plain text"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeText(tt.in); got != tt.want {
				t.Fatalf("NormalizeText(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestBuildPromptEmbedsNormalizedInputs(t *testing.T) {
	prompt := BuildPrompt("Jane  Doe\n\nGo developer", "  Backend   engineer  ")

	if !strings.Contains(prompt, "Resume:\nJane Doe Go developer\n") {
		t.Fatalf("resume not embedded normalized:\n%s", prompt)
	}
	if !strings.HasSuffix(prompt, "Job Description:\nBackend engineer") {
		t.Fatalf("job description not embedded normalized:\n%s", prompt)
	}
	for _, want := range []string{`"overallScore"`, `"matchedSkills"`, `"High" | "Medium" | "Low"`} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("prompt missing schema fragment %s", want)
		}
	}
}

func TestBuildPromptLeavesPlaceholdersInUserText(t *testing.T) {
	prompt := BuildPrompt("I wrote {{JOB_DESCRIPTION}} once", "jd")
	if !strings.Contains(prompt, "I wrote {{JOB_DESCRIPTION}} once") {
		t.Fatalf("user text was rewritten:\n%s", prompt)
	}
}

func TestWhitespaceVariantsShareAPromptButNotACacheKey(t *testing.T) {
	resume := "Jane Doe, Go developer"
	jdA := "Backend engineer"
	jdB := "Backend engineer   "

	if BuildPrompt(resume, jdA) != BuildPrompt(resume, jdB) {
		t.Fatalf("expected identical prompts after normalization")
	}
	if CacheKey(resume, jdA) == CacheKey(resume, jdB) {
		t.Fatalf("expected different cache keys for whitespace variants")
	}
}
