package analyses

import "errors"

var (
	ErrInvalidRequest    = errors.New("resume and job description are required")
	ErrAttemptFailed     = errors.New("provider attempt failed")
	ErrMalformedResponse = errors.New("malformed provider response")
	ErrChainExhausted    = errors.New("all providers failed")
	ErrNoProviders       = errors.New("no providers available")
)
