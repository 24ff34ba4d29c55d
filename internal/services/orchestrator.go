// Package services implements use cases orchestrating domain logic through ports.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/switchboard-sh/switchboard/internal/domain"
	"github.com/switchboard-sh/switchboard/internal/ports"
)

// Orchestrator is the single entry point for executing operations: it
// analyzes, routes, consults the cache, executes, and records the outcome.
//
// Orchestrate never returns an error value. Every failure is folded into the
// OrchestrationResult so callers always get a well-formed outcome, including a
// fallback suggestion they can act on.
type Orchestrator struct {
	analyzer  ports.Analyzer
	policy    ports.RoutingPolicy
	cache     ports.CacheStore
	metrics   ports.MetricsRecorder
	retry     ports.Retryer
	executors map[domain.Strategy]ports.Executor
	history   ports.OutcomeRepository
	learning  ports.LearningRecorder
	logger    ports.Logger

	cacheEnabled bool
	timeout      time.Duration
	now          func() time.Time
	newID        func() string
}

// Deps carries the collaborators for NewOrchestrator. History and Learning
// are optional; the rest are required.
type Deps struct {
	Analyzer  ports.Analyzer
	Policy    ports.RoutingPolicy
	Cache     ports.CacheStore
	Metrics   ports.MetricsRecorder
	Retry     ports.Retryer
	Executors map[domain.Strategy]ports.Executor
	History   ports.OutcomeRepository
	Learning  ports.LearningRecorder
	Logger    ports.Logger

	CacheEnabled bool
	Timeout      time.Duration
}

// NewOrchestrator wires an Orchestrator, hydrating the timeout with its
// default when unset.
func NewOrchestrator(deps Deps) *Orchestrator {
	timeout := deps.Timeout
	if timeout <= 0 {
		timeout = domain.DefaultExecutionTimeout
	}
	return &Orchestrator{
		analyzer:     deps.Analyzer,
		policy:       deps.Policy,
		cache:        deps.Cache,
		metrics:      deps.Metrics,
		retry:        deps.Retry,
		executors:    deps.Executors,
		history:      deps.History,
		learning:     deps.Learning,
		logger:       deps.Logger,
		cacheEnabled: deps.CacheEnabled,
		timeout:      timeout,
		now:          time.Now,
		newID:        uuid.NewString,
	}
}

// Orchestrate runs one operation end to end.
func (o *Orchestrator) Orchestrate(ctx context.Context, op domain.Operation, snap domain.Snapshot) domain.OrchestrationResult {
	start := o.now()

	analysis := o.analyzer.Analyze(op, snap)
	decision := o.policy.Route(analysis)

	outcome := domain.OrchestrationResult{
		OperationID: o.newID(),
		Type:        op.Type,
		Routing:     decision.Strategy,
		Confidence:  decision.Confidence,
	}

	o.logger.Debug("routed operation", map[string]interface{}{
		"operation_id": outcome.OperationID,
		"type":         string(op.Type),
		"strategy":     string(decision.Strategy),
		"reasoning":    decision.Reasoning,
	})

	cacheable := o.cacheEnabled && analysis.Cacheability.Cacheable
	if cacheable {
		if cached, ok := o.cache.Get(analysis.Cacheability.Key, analysis.Cacheability.TTL); ok {
			outcome.Success = true
			outcome.Result = &cached
			outcome.FromCache = true
			// A hit spends nothing; the whole estimate is saved.
			outcome.TokensSaved = analysis.TokenEstimate
			outcome.Duration = o.now().Sub(start)
			o.record(outcome)
			return outcome
		}
	}

	result, attempts, err := o.execute(ctx, decision.Strategy, op, snap)
	outcome.Attempts = attempts
	outcome.Duration = o.now().Sub(start)
	if err != nil {
		outcome.Error = err.Error()
		outcome.FallbackSuggestion = fallbackSuggestion(err)
		o.logger.Error("operation failed", err, map[string]interface{}{
			"operation_id": outcome.OperationID,
			"type":         string(op.Type),
			"attempts":     attempts,
		})
		o.record(outcome)
		return outcome
	}

	outcome.Success = true
	outcome.Result = &result
	outcome.TokensSaved = decision.EstimatedTokenSavings
	if cacheable {
		o.cache.Put(analysis.Cacheability.Key, result)
	}
	o.record(outcome)
	return outcome
}

// Status combines the metrics snapshot with cache state.
func (o *Orchestrator) Status() domain.StatusReport {
	return domain.StatusReport{
		CacheSize: o.cache.Size(),
		Metrics:   o.metrics.Snapshot(),
	}
}

// execute dispatches to the strategy's executor. Only the lightweight path is
// retried; reasoning and hybrid passes are too expensive to repeat blindly.
func (o *Orchestrator) execute(ctx context.Context, strategy domain.Strategy, op domain.Operation, snap domain.Snapshot) (domain.Result, int, error) {
	exec, ok := o.executors[strategy]
	if !ok {
		return domain.Result{}, 0, fmt.Errorf("no executor registered for strategy %s", strategy)
	}
	// The timeout bounds one attempt, not the retry budget: a timed out
	// attempt leaves the parent context alive for the next one.
	attempt := func(ctx context.Context) (domain.Result, error) {
		if o.timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, o.timeout)
			defer cancel()
		}
		return exec.Execute(ctx, op, snap)
	}
	if strategy == domain.StrategyLightweight {
		return o.retry.Do(ctx, attempt)
	}
	result, err := attempt(ctx)
	return result, 1, err
}

// record fans the outcome out to metrics, history and the learning tracker.
// Persistence failures are logged, never surfaced.
func (o *Orchestrator) record(outcome domain.OrchestrationResult) {
	o.metrics.Record(domain.MetricsRecord{
		OperationID: outcome.OperationID,
		Type:        outcome.Type,
		Strategy:    outcome.Routing,
		Duration:    outcome.Duration,
		Success:     outcome.Success,
		FromCache:   outcome.FromCache,
		TokensSaved: outcome.TokensSaved,
		Timestamp:   o.now(),
		Error:       outcome.Error,
	})

	rec := domain.OutcomeRecord{
		Timestamp:   o.now(),
		OperationID: outcome.OperationID,
		Type:        outcome.Type,
		Strategy:    outcome.Routing,
		Success:     outcome.Success,
		FromCache:   outcome.FromCache,
		TokensSaved: outcome.TokensSaved,
		DurationMS:  outcome.Duration.Milliseconds(),
		Error:       outcome.Error,
	}
	if o.history != nil {
		if err := o.history.Save(rec); err != nil {
			o.logger.Warn("failed to persist outcome", map[string]interface{}{
				"operation_id": outcome.OperationID,
				"error":        err.Error(),
			})
		}
	}
	if o.learning != nil {
		if err := o.learning.RecordOutcome(rec); err != nil {
			o.logger.Warn("failed to record learning outcome", map[string]interface{}{
				"operation_id": outcome.OperationID,
				"error":        err.Error(),
			})
		}
	}
}

// fallbackSuggestion maps a terminal error to the action most likely to help.
// errors.As walks wrapped chains, so an exhausted retry keeps the suggestion
// of its underlying failure.
func fallbackSuggestion(err error) string {
	var timeout *domain.TimeoutError
	var validation *domain.ValidationError
	var execErr *domain.ExecutionError
	switch {
	case errors.As(err, &timeout):
		return "retry with a longer timeout"
	case errors.As(err, &validation):
		return "supply the missing operation fields"
	case errors.As(err, &execErr):
		return "fall back to the reasoning executor"
	default:
		return "inspect executor availability"
	}
}
