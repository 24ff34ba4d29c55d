package services

import (
	"context"
	"testing"
	"time"

	"github.com/switchboard-sh/switchboard/internal/domain"
	"github.com/switchboard-sh/switchboard/internal/infrastructure/analyzer"
	"github.com/switchboard-sh/switchboard/internal/infrastructure/cache"
	"github.com/switchboard-sh/switchboard/internal/infrastructure/executor"
	"github.com/switchboard-sh/switchboard/internal/infrastructure/metrics"
	"github.com/switchboard-sh/switchboard/internal/infrastructure/routing"
	"github.com/switchboard-sh/switchboard/internal/ports"
)

type nopLogger struct{}

func (nopLogger) Debug(string, map[string]interface{})        {}
func (nopLogger) Info(string, map[string]interface{})         {}
func (nopLogger) Warn(string, map[string]interface{})         {}
func (nopLogger) Error(string, error, map[string]interface{}) {}

// stubExecutor counts invocations and replays a fixed response.
type stubExecutor struct {
	calls  int
	result domain.Result
	err    error
}

func (s *stubExecutor) Execute(context.Context, domain.Operation, domain.Snapshot) (domain.Result, error) {
	s.calls++
	return s.result, s.err
}

// passRetryer forwards a single attempt and counts how often it is used.
type passRetryer struct {
	calls int
}

func (r *passRetryer) Do(ctx context.Context, attempt func(context.Context) (domain.Result, error)) (domain.Result, int, error) {
	r.calls++
	result, err := attempt(ctx)
	return result, 1, err
}

type stubHistory struct {
	records []domain.OutcomeRecord
	err     error
}

func (s *stubHistory) Save(rec domain.OutcomeRecord) error {
	s.records = append(s.records, rec)
	return s.err
}

func (s *stubHistory) Records(int, string) ([]domain.OutcomeRecord, error) {
	return s.records, nil
}

func (s *stubHistory) Clear() error {
	s.records = nil
	return nil
}

type testHarness struct {
	orch        *Orchestrator
	lightweight *stubExecutor
	reasoning   *stubExecutor
	hybrid      *stubExecutor
	retry       *passRetryer
	cache       *cache.MemoryCache
	metrics     *metrics.Collector
	history     *stubHistory
}

func newHarness(cacheEnabled bool) *testHarness {
	h := &testHarness{
		lightweight: &stubExecutor{result: domain.Result{Output: "light out", Method: "lightweight"}},
		reasoning:   &stubExecutor{result: domain.Result{Output: "deep out", Method: "reasoning"}},
		hybrid:      &stubExecutor{result: domain.Result{Output: "mixed out", Method: "hybrid"}},
		retry:       &passRetryer{},
		cache:       cache.NewMemoryCache(),
		metrics:     metrics.NewCollector(domain.MetricsSettings{}),
		history:     &stubHistory{},
	}
	h.orch = NewOrchestrator(Deps{
		Analyzer: analyzer.New(),
		Policy:   routing.NewPolicy(domain.RoutingSettings{}),
		Cache:    h.cache,
		Metrics:  h.metrics,
		Retry:    h.retry,
		Executors: map[domain.Strategy]ports.Executor{
			domain.StrategyLightweight: h.lightweight,
			domain.StrategyReasoning:   h.reasoning,
			domain.StrategyHybrid:      h.hybrid,
		},
		History:      h.history,
		Logger:       nopLogger{},
		CacheEnabled: cacheEnabled,
	})
	return h
}

func TestOrchestrateRoutesFileReadLightweight(t *testing.T) {
	h := newHarness(true)

	got := h.orch.Orchestrate(context.Background(), domain.Operation{Type: domain.OpFileRead, Path: "main.go"}, domain.Snapshot{})
	if !got.Success {
		t.Fatalf("Orchestrate() failed: %s", got.Error)
	}
	if got.OperationID == "" {
		t.Fatal("outcome must carry an operation id")
	}
	if got.Routing != domain.StrategyLightweight {
		t.Fatalf("routing = %s, want lightweight", got.Routing)
	}
	if got.Result == nil || got.Result.Output != "light out" {
		t.Fatalf("result = %+v, want the lightweight output", got.Result)
	}
	// Base estimate 50, escalated lightweight keeps 90% of it.
	if got.TokensSaved != 45 {
		t.Fatalf("tokens saved = %d, want 45", got.TokensSaved)
	}
	if h.lightweight.calls != 1 || h.reasoning.calls != 0 {
		t.Fatalf("executor calls = %d/%d, want 1 lightweight only", h.lightweight.calls, h.reasoning.calls)
	}
}

func TestOrchestrateRoutesCodeReviewToReasoning(t *testing.T) {
	h := newHarness(true)

	got := h.orch.Orchestrate(context.Background(), domain.Operation{Type: domain.OpCodeReview, Description: "review the diff"}, domain.Snapshot{})
	if got.Routing != domain.StrategyReasoning {
		t.Fatalf("routing = %s, want reasoning", got.Routing)
	}
	if got.TokensSaved != 0 {
		t.Fatalf("tokens saved = %d, want 0 on the reasoning path", got.TokensSaved)
	}
	if h.reasoning.calls != 1 {
		t.Fatalf("reasoning calls = %d, want 1", h.reasoning.calls)
	}
	// Reasoning passes bypass the retry controller.
	if h.retry.calls != 0 {
		t.Fatalf("retryer used %d times, want 0", h.retry.calls)
	}
}

func TestOrchestrateHighRiskForcesReasoning(t *testing.T) {
	h := newHarness(true)

	// file-write is lightweight-eligible, but production without a backup
	// pushes risk past the delegation bound.
	snap := domain.Snapshot{Environment: domain.EnvProduction, NoBackup: true}
	got := h.orch.Orchestrate(context.Background(), domain.Operation{Type: domain.OpFileWrite, Path: "cfg.yaml", Content: "x"}, snap)
	if got.Routing != domain.StrategyReasoning {
		t.Fatalf("routing = %s, want reasoning for high-risk work", got.Routing)
	}
	if got.TokensSaved != 0 {
		t.Fatalf("tokens saved = %d, want 0", got.TokensSaved)
	}
	if h.lightweight.calls != 0 {
		t.Fatal("high-risk work must never reach the lightweight executor")
	}
}

func TestOrchestrateCacheRoundTrip(t *testing.T) {
	h := newHarness(true)
	op := domain.Operation{Type: domain.OpFileRead, Path: "main.go"}

	first := h.orch.Orchestrate(context.Background(), op, domain.Snapshot{})
	if first.FromCache {
		t.Fatal("first call must miss the cache")
	}

	second := h.orch.Orchestrate(context.Background(), op, domain.Snapshot{})
	if !second.FromCache || !second.Success {
		t.Fatalf("second call = %+v, want a cache hit", second)
	}
	if second.Result == nil || !second.Result.FromCache || second.Result.Output != "light out" {
		t.Fatalf("cached result = %+v", second.Result)
	}
	// A hit saves the whole estimate.
	if second.TokensSaved != 50 {
		t.Fatalf("tokens saved on hit = %d, want 50", second.TokensSaved)
	}
	if h.lightweight.calls != 1 {
		t.Fatalf("executor calls = %d, want 1 (hit skips execution)", h.lightweight.calls)
	}
}

func TestOrchestrateSkipsCacheWhenDisabled(t *testing.T) {
	h := newHarness(false)
	op := domain.Operation{Type: domain.OpFileRead, Path: "main.go"}

	h.orch.Orchestrate(context.Background(), op, domain.Snapshot{})
	h.orch.Orchestrate(context.Background(), op, domain.Snapshot{})
	if h.lightweight.calls != 2 {
		t.Fatalf("executor calls = %d, want 2 with caching disabled", h.lightweight.calls)
	}
	if h.cache.Size() != 0 {
		t.Fatalf("cache size = %d, want 0", h.cache.Size())
	}
}

func TestOrchestrateNeverReturnsUncaughtErrors(t *testing.T) {
	h := newHarness(true)
	h.lightweight.err = &domain.ExecutionError{Type: domain.OpGitStatus, ExitCode: 128, Stderr: "not a repository"}

	got := h.orch.Orchestrate(context.Background(), domain.Operation{Type: domain.OpGitStatus}, domain.Snapshot{})
	if got.Success {
		t.Fatal("outcome must report the failure")
	}
	if got.Error == "" {
		t.Fatal("outcome must carry the error text")
	}
	if got.FallbackSuggestion != "fall back to the reasoning executor" {
		t.Fatalf("fallback = %q", got.FallbackSuggestion)
	}
	// A failed execution never populates the cache.
	if h.cache.Size() != 0 {
		t.Fatalf("cache size = %d, want 0 after failure", h.cache.Size())
	}

	snap := h.metrics.Snapshot()
	if snap.OperationsProcessed != 1 {
		t.Fatalf("metrics operations = %d, want the failure recorded", snap.OperationsProcessed)
	}
	if snap.RoutingStats[domain.StrategyLightweight].ErrorCount != 1 {
		t.Fatal("failure must count against the strategy's error stats")
	}
}

func TestOrchestrateFallbackSuggestions(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "validation",
			err:  &domain.ValidationError{Type: domain.OpFileRead, Field: "path"},
			want: "supply the missing operation fields",
		},
		{
			name: "timeout inside exhausted retries",
			err:  &domain.RetryExhaustedError{Attempts: 3, Last: &domain.TimeoutError{Type: domain.OpGitStatus}},
			want: "retry with a longer timeout",
		},
		{
			name: "execution",
			err:  &domain.ExecutionError{Type: domain.OpGitStatus, ExitCode: 1},
			want: "fall back to the reasoning executor",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(true)
			h.lightweight.err = tt.err

			got := h.orch.Orchestrate(context.Background(), domain.Operation{Type: domain.OpGitStatus}, domain.Snapshot{})
			if got.FallbackSuggestion != tt.want {
				t.Fatalf("fallback = %q, want %q", got.FallbackSuggestion, tt.want)
			}
		})
	}
}

// timeoutExecutor blocks until its attempt context dies, then reports a
// timeout, the way the lightweight executor does for a killed process.
type timeoutExecutor struct {
	calls int
}

func (e *timeoutExecutor) Execute(ctx context.Context, op domain.Operation, _ domain.Snapshot) (domain.Result, error) {
	e.calls++
	<-ctx.Done()
	return domain.Result{}, &domain.TimeoutError{Type: op.Type, Err: ctx.Err()}
}

func TestOrchestrateRetriesTimedOutAttempts(t *testing.T) {
	exec := &timeoutExecutor{}
	orch := NewOrchestrator(Deps{
		Analyzer: analyzer.New(),
		Policy:   routing.NewPolicy(domain.RoutingSettings{}),
		Cache:    cache.NewMemoryCache(),
		Metrics:  metrics.NewCollector(domain.MetricsSettings{}),
		Retry:    executor.NewController(domain.ExecutionSettings{MaxRetries: 3, RetryBackoffMS: 1}, nopLogger{}),
		Executors: map[domain.Strategy]ports.Executor{
			domain.StrategyLightweight: exec,
		},
		Logger:  nopLogger{},
		Timeout: 5 * time.Millisecond,
	})

	got := orch.Orchestrate(context.Background(), domain.Operation{Type: domain.OpGitStatus}, domain.Snapshot{})
	if got.Success {
		t.Fatal("a timed out operation must be reported as failed")
	}
	// Each attempt gets its own deadline, so the timeout is retried.
	if exec.calls != 3 || got.Attempts != 3 {
		t.Fatalf("calls = %d, attempts = %d, want every attempt of the budget", exec.calls, got.Attempts)
	}
	if got.FallbackSuggestion != "retry with a longer timeout" {
		t.Fatalf("fallback = %q, want the timeout suggestion", got.FallbackSuggestion)
	}
}

func TestOrchestrateLightweightGoesThroughRetryer(t *testing.T) {
	h := newHarness(true)

	h.orch.Orchestrate(context.Background(), domain.Operation{Type: domain.OpDirectoryList}, domain.Snapshot{})
	if h.retry.calls != 1 {
		t.Fatalf("retryer used %d times, want 1", h.retry.calls)
	}

	got := h.orch.Orchestrate(context.Background(), domain.Operation{Type: domain.OpSecurityAudit, Description: "audit"}, domain.Snapshot{})
	if got.Routing != domain.StrategyReasoning {
		t.Fatalf("routing = %s, want reasoning", got.Routing)
	}
	if h.retry.calls != 1 {
		t.Fatalf("retryer used %d times, want still 1", h.retry.calls)
	}
}

func TestOrchestratePersistsOutcomes(t *testing.T) {
	h := newHarness(true)

	h.orch.Orchestrate(context.Background(), domain.Operation{Type: domain.OpGitStatus}, domain.Snapshot{})
	if len(h.history.records) != 1 {
		t.Fatalf("history records = %d, want 1", len(h.history.records))
	}
	rec := h.history.records[0]
	if rec.Type != domain.OpGitStatus || !rec.Success || rec.OperationID == "" {
		t.Fatalf("persisted record = %+v", rec)
	}
}

func TestOrchestrateToleratesPersistenceFailure(t *testing.T) {
	h := newHarness(true)
	h.history.err = context.DeadlineExceeded

	got := h.orch.Orchestrate(context.Background(), domain.Operation{Type: domain.OpGitStatus}, domain.Snapshot{})
	if !got.Success {
		t.Fatal("a history failure must not fail the operation")
	}
}

func TestStatusCombinesCacheAndMetrics(t *testing.T) {
	h := newHarness(true)

	h.orch.Orchestrate(context.Background(), domain.Operation{Type: domain.OpFileRead, Path: "a.go"}, domain.Snapshot{})
	h.orch.Orchestrate(context.Background(), domain.Operation{Type: domain.OpCodeReview, Description: "review"}, domain.Snapshot{})

	status := h.orch.Status()
	if status.CacheSize != 1 {
		t.Fatalf("cache size = %d, want 1 (only the file read is cacheable)", status.CacheSize)
	}
	if status.Metrics.OperationsProcessed != 2 {
		t.Fatalf("operations = %d, want 2", status.Metrics.OperationsProcessed)
	}
}
