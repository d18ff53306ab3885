package health

// Service reports liveness plus the analysis configuration that matters
// to operators: which providers are reachable and whether caching is on.
type Service struct {
	providers    []string
	cacheEnabled bool
}

// Status is the health payload.
type Status struct {
	OK           bool     `json:"ok"`
	Providers    []string `json:"providers"`
	CacheEnabled bool     `json:"cacheEnabled"`
	Degraded     bool     `json:"degraded"`
}

// NewService constructs a new health service.
func NewService(providers []string, cacheEnabled bool) *Service {
	return &Service{
		providers:    append([]string(nil), providers...),
		cacheEnabled: cacheEnabled,
	}
}

// Status returns the health payload. With no provider configured every
// analysis is the fallback result, which is reported as degraded.
func (s *Service) Status() Status {
	providers := s.providers
	if providers == nil {
		providers = []string{}
	}
	return Status{
		OK:           true,
		Providers:    providers,
		CacheEnabled: s.cacheEnabled,
		Degraded:     len(s.providers) == 0,
	}
}
