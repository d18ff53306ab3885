package analyses

import (
	"context"
	"errors"
	"sync"

	"resume-matcher/internal/llm"
)

const validJSON = `{
  "overallScore": 64,
  "sections": {
    "skills": {"score": 70, "matches": 7, "total": 10},
    "experience": {"score": 60, "matches": 3, "total": 5},
    "education": {"score": 100, "matches": 1, "total": 1},
    "keywords": {"score": 40, "matches": 8, "total": 20}
  },
  "matchedSkills": ["Go", "PostgreSQL", "Docker"],
  "missingSkills": ["Kubernetes"],
  "suggestions": [
    {"category": "Skills Gap", "priority": "High", "title": "Add Kubernetes", "description": "The role runs on Kubernetes.", "action": "Mention any cluster work."}
  ]
}`

// fakeGenerator replays scripted responses and counts calls.
type fakeGenerator struct {
	mu      sync.Mutex
	outputs []string
	errs    []error
	calls   int
	prompts []string
	opts    []llm.GenerateOptions
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt string, opts llm.GenerateOptions) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.calls
	f.calls++
	f.prompts = append(f.prompts, prompt)
	f.opts = append(f.opts, opts)
	if i < len(f.errs) && f.errs[i] != nil {
		return "", f.errs[i]
	}
	if i < len(f.outputs) {
		return f.outputs[i], nil
	}
	if len(f.outputs) > 0 {
		return f.outputs[len(f.outputs)-1], nil
	}
	return "", errors.New("no scripted output")
}

func (f *fakeGenerator) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func succeeding(out string) *fakeGenerator {
	return &fakeGenerator{outputs: []string{out}}
}

func failing(err error) *fakeGenerator {
	return &fakeGenerator{errs: []error{err}}
}
