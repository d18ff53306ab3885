package analyses

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-matcher/internal/llm"
	"resume-matcher/internal/shared/metrics"
)

const (
	testResume = "Jane Doe\nGo developer with PostgreSQL and Docker."
	testJD     = "Backend engineer: Go, Kubernetes."
)

func TestAnalyzeRejectsMissingInput(t *testing.T) {
	gen := succeeding(validJSON)
	svc := NewService(NewChain(Provider{Name: "openai", Generator: gen}), nil, time.Hour, false)

	for _, req := range []Request{
		{Resume: "", JobDescription: testJD},
		{Resume: testResume, JobDescription: ""},
		{},
	} {
		_, err := svc.Analyze(context.Background(), req)
		assert.ErrorIs(t, err, ErrInvalidRequest)
	}
	assert.Equal(t, 0, gen.Calls())
}

func TestAnalyzeCachesProviderResult(t *testing.T) {
	clock := newClock()
	gen := succeeding(validJSON)
	svc := NewService(NewChain(Provider{Name: "openai", Generator: gen}), NewMemoryCache(clock.Now), time.Hour, false)
	req := Request{Resume: testResume, JobDescription: testJD}

	first, err := svc.Analyze(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, SourceProvider, first.Source)
	assert.Equal(t, "openai", first.Provider)

	second, err := svc.Analyze(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, SourceCache, second.Source)
	assert.Equal(t, first.Result, second.Result)
	assert.Equal(t, 1, gen.Calls(), "cache hit must not invoke providers")
}

func TestAnalyzeCacheExpiryReinvokesChain(t *testing.T) {
	clock := newClock()
	gen := succeeding(validJSON)
	svc := NewService(NewChain(Provider{Name: "openai", Generator: gen}), NewMemoryCache(clock.Now), 10*time.Second, false)
	req := Request{Resume: testResume, JobDescription: testJD}

	_, err := svc.Analyze(context.Background(), req)
	require.NoError(t, err)

	clock.Advance(11 * time.Second)
	out, err := svc.Analyze(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, SourceProvider, out.Source)
	assert.Equal(t, 2, gen.Calls())
}

func TestAnalyzeWhitespaceVariantIsCacheMiss(t *testing.T) {
	gen := succeeding(validJSON)
	svc := NewService(NewChain(Provider{Name: "openai", Generator: gen}), NewMemoryCache(nil), time.Hour, false)

	_, err := svc.Analyze(context.Background(), Request{Resume: testResume, JobDescription: testJD})
	require.NoError(t, err)
	out, err := svc.Analyze(context.Background(), Request{Resume: testResume, JobDescription: testJD + "   "})
	require.NoError(t, err)

	assert.Equal(t, SourceProvider, out.Source)
	require.Equal(t, 2, gen.Calls())
	assert.Equal(t, gen.prompts[0], gen.prompts[1], "normalized prompts should match")
}

func TestAnalyzeWithCachingDisabled(t *testing.T) {
	gen := succeeding(validJSON)
	svc := NewService(NewChain(Provider{Name: "openai", Generator: gen}), NoopCache{}, time.Hour, false)
	req := Request{Resume: testResume, JobDescription: testJD}

	for i := 0; i < 2; i++ {
		out, err := svc.Analyze(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, SourceProvider, out.Source)
	}
	assert.Equal(t, 2, gen.Calls())
}

func TestAnalyzeSecondaryAfterPrimaryFailure(t *testing.T) {
	primary := failing(errors.New("openai http status 401: invalid key"))
	secondary := succeeding(validJSON)
	svc := NewService(NewChain(
		Provider{Name: "openai", Generator: primary},
		Provider{Name: "gemini", Generator: secondary},
	), nil, time.Hour, false)

	out, err := svc.Analyze(context.Background(), Request{Resume: testResume, JobDescription: testJD})
	require.NoError(t, err)

	want, err := ParseResult(validJSON)
	require.NoError(t, err)
	assert.Equal(t, want, out.Result)
	assert.Equal(t, SourceProvider, out.Source)
	assert.Equal(t, "gemini", out.Provider)
}

func TestAnalyzeNoProvidersReturnsFallback(t *testing.T) {
	cache := NewMemoryCache(nil)
	svc := NewService(NewChain(Provider{Name: "openai"}, Provider{Name: "gemini"}, Provider{Name: "anthropic"}), cache, time.Hour, false)

	out, err := svc.Analyze(context.Background(), Request{Resume: testResume, JobDescription: testJD})
	require.NoError(t, err)
	assert.Equal(t, SourceFallback, out.Source)
	assert.Equal(t, FallbackResult(), out.Result)
	assert.Equal(t, 0, cache.Len(), "fallback must never be cached")
}

func TestAnalyzeAllProvidersFailReturnsFallback(t *testing.T) {
	cache := NewMemoryCache(nil)
	svc := NewService(NewChain(
		Provider{Name: "openai", Generator: failing(errors.New("timeout"))},
		Provider{Name: "gemini", Generator: succeeding("{}")},
		Provider{Name: "anthropic", Generator: failing(errors.New("rate limited"))},
	), cache, time.Hour, false)

	out, err := svc.Analyze(context.Background(), Request{Resume: testResume, JobDescription: testJD})
	require.NoError(t, err)
	assert.Equal(t, SourceFallback, out.Source)
	assert.Equal(t, 78, out.Result.OverallScore)
	assert.Equal(t, 0, cache.Len())
}

func TestAnalyzeRecoversPanicIntoFallback(t *testing.T) {
	panicking := llm.GeneratorFunc(func(ctx context.Context, prompt string, opts llm.GenerateOptions) (string, error) {
		panic("adapter bug")
	})
	svc := NewService(NewChain(Provider{Name: "openai", Generator: panicking}), nil, time.Hour, false)

	out, err := svc.Analyze(context.Background(), Request{Resume: testResume, JobDescription: testJD})
	require.NoError(t, err)
	assert.Equal(t, SourceFallback, out.Source)
}

func TestAnalyzeDedupeSharesOneExecution(t *testing.T) {
	release := make(chan struct{})
	var calls int
	var mu sync.Mutex
	slow := llm.GeneratorFunc(func(ctx context.Context, prompt string, opts llm.GenerateOptions) (string, error) {
		mu.Lock()
		calls++
		mu.Unlock()
		<-release
		return validJSON, nil
	})
	svc := NewService(NewChain(Provider{Name: "openai", Generator: slow}), nil, time.Hour, true)
	req := Request{Resume: testResume, JobDescription: testJD}

	const n = 5
	var wg sync.WaitGroup
	results := make([]Outcome, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			out, err := svc.Analyze(context.Background(), req)
			assert.NoError(t, err)
			results[i] = out
		}(i)
	}

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return calls == 1
	}, time.Second, 5*time.Millisecond)
	// Give the other goroutines time to join the in-flight call.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	mu.Lock()
	assert.Equal(t, 1, calls)
	mu.Unlock()
	for _, out := range results {
		assert.Equal(t, SourceProvider, out.Source)
		assert.Equal(t, 64, out.Result.OverallScore)
	}
}

// slowGenerator answers after delay unless its context ends first.
func slowGenerator(delay time.Duration) llm.Generator {
	return llm.GeneratorFunc(func(ctx context.Context, prompt string, opts llm.GenerateOptions) (string, error) {
		select {
		case <-time.After(delay):
			return validJSON, nil
		case <-ctx.Done():
			return "", ctx.Err()
		}
	})
}

func TestAnalyzeCallerCancellationDoesNotReachProviders(t *testing.T) {
	cache := NewMemoryCache(nil)
	svc := NewService(NewChain(Provider{Name: "openai", Generator: slowGenerator(50 * time.Millisecond)}), cache, time.Hour, false)

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(10*time.Millisecond, cancel)
	defer cancel()

	out, err := svc.Analyze(ctx, Request{Resume: testResume, JobDescription: testJD})
	require.NoError(t, err)
	assert.Equal(t, SourceProvider, out.Source)
	assert.Equal(t, 1, cache.Len(), "result should be cached even though the caller left")
}

func TestAnalyzeDedupeFollowerSurvivesLeaderCancellation(t *testing.T) {
	started := make(chan struct{}, 1)
	release := make(chan struct{})
	gen := llm.GeneratorFunc(func(ctx context.Context, prompt string, opts llm.GenerateOptions) (string, error) {
		started <- struct{}{}
		select {
		case <-release:
			return validJSON, nil
		case <-ctx.Done():
			return "", ctx.Err()
		}
	})
	svc := NewService(NewChain(Provider{Name: "openai", Generator: gen}), nil, time.Hour, true)
	req := Request{Resume: testResume, JobDescription: testJD}

	leaderCtx, cancelLeader := context.WithCancel(context.Background())
	defer cancelLeader()

	var wg sync.WaitGroup
	var leader, follower Outcome
	wg.Add(1)
	go func() {
		defer wg.Done()
		leader, _ = svc.Analyze(leaderCtx, req)
	}()
	<-started

	wg.Add(1)
	go func() {
		defer wg.Done()
		follower, _ = svc.Analyze(context.Background(), req)
	}()
	// Let the follower join the in-flight call before the leader goes away.
	time.Sleep(50 * time.Millisecond)
	cancelLeader()
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, SourceProvider, follower.Source)
	assert.Equal(t, 64, follower.Result.OverallScore)
	assert.Equal(t, SourceProvider, leader.Source)
}

type panickingCache struct{}

func (panickingCache) Get(string) (Result, bool)         { panic("cache backend exploded") }
func (panickingCache) Put(string, Result, time.Duration) {}

func TestAnalyzeRecoversCachePanicIntoFallback(t *testing.T) {
	gen := succeeding(validJSON)
	svc := NewService(NewChain(Provider{Name: "openai", Generator: gen}), panickingCache{}, time.Hour, false)

	out, err := svc.Analyze(context.Background(), Request{Resume: testResume, JobDescription: testJD})
	require.NoError(t, err)
	assert.Equal(t, SourceFallback, out.Source)
	assert.Equal(t, FallbackResult(), out.Result)
}

// cacheLookups reads analysis_cache_lookups_total{result} from the registry.
func cacheLookups(t *testing.T, result string) float64 {
	t.Helper()
	families, err := metrics.Gatherer().Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != "analysis_cache_lookups_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, l := range m.GetLabel() {
				if l.GetName() == "result" && l.GetValue() == result {
					return m.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}

func TestAnalyzeDisabledCacheRecordsNoLookups(t *testing.T) {
	svc := NewService(NewChain(Provider{Name: "openai", Generator: succeeding(validJSON)}), NoopCache{}, time.Hour, false)
	req := Request{Resume: testResume, JobDescription: testJD}

	before := cacheLookups(t, "miss")
	_, err := svc.Analyze(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, before, cacheLookups(t, "miss"))

	enabled := NewService(NewChain(Provider{Name: "openai", Generator: succeeding(validJSON)}), NewMemoryCache(nil), time.Hour, false)
	_, err = enabled.Analyze(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, before+1, cacheLookups(t, "miss"))
}
