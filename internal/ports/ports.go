// Package ports defines the interfaces (ports) for the hexagonal architecture.
//
// This package establishes the contract between the application core and external
// adapters (infrastructure). Following the Ports and Adapters (Hexagonal) pattern,
// these interfaces allow the orchestrator to remain independent of specific
// implementations like process spawning, databases, or CLI frameworks.
package ports

import (
	"context"
	"time"

	"github.com/switchboard-sh/switchboard/internal/domain"
)

// ConfigProvider loads the latest configuration from persistent storage.
// Implementations typically read from ~/.switchboard/config.yaml.
type ConfigProvider interface {
	Load(context.Context) (domain.Config, error)
}

// Analyzer computes the complexity, cost, risk and cacheability profile of an
// operation. Implementations must be pure: no I/O, no mutation, and they never
// fail; unknown types resolve to conservative defaults.
type Analyzer interface {
	Analyze(op domain.Operation, snap domain.Snapshot) domain.Analysis
}

// RoutingPolicy maps an analysis to a routing decision. Deterministic given
// its input; no hidden state, no randomness.
type RoutingPolicy interface {
	Route(analysis domain.Analysis) domain.RoutingDecision
}

// Executor performs the actual work for one routing strategy.
type Executor interface {
	Execute(ctx context.Context, op domain.Operation, snap domain.Snapshot) (domain.Result, error)
}

// Retryer runs an attempt function under a retry budget. It returns the
// result, the number of attempts made, and the terminal error if the budget
// was exhausted or the failure was not retryable.
type Retryer interface {
	Do(ctx context.Context, attempt func(context.Context) (domain.Result, error)) (domain.Result, int, error)
}

// ProcessRunner spawns one external process and reports its outcome. It exists
// so command construction can be unit-tested without spawning anything.
type ProcessRunner interface {
	Run(ctx context.Context, argv []string) (ProcessResult, error)
}

// ProcessResult carries the captured output of a finished process.
type ProcessResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// ReasoningClient is the opaque full-reasoning collaborator. No assumptions
// are made about its internals beyond this contract.
type ReasoningClient interface {
	Complete(ctx context.Context, op domain.Operation, snap domain.Snapshot) (string, error)
}

// CacheStore is a keyed store of prior results with caller-supplied TTL
// semantics: an entry older than the TTL passed to Get is a miss.
// Implementations must be safe for concurrent use.
type CacheStore interface {
	Get(key string, ttl time.Duration) (domain.Result, bool)
	Put(key string, result domain.Result)
	Size() int
	Clear()
	Entries() []domain.CacheEntry
}

// MetricsRecorder accumulates per-operation outcomes and exposes aggregates.
// Implementations must be safe for concurrent use.
type MetricsRecorder interface {
	Record(rec domain.MetricsRecord)
	Snapshot() domain.MetricsSnapshot
}

// OutcomeRepository persists orchestration outcomes for later inspection.
type OutcomeRepository interface {
	Save(rec domain.OutcomeRecord) error
	Records(limit int, search string) ([]domain.OutcomeRecord, error)
	Clear() error
}

// LearningRecorder tracks outcome patterns to inform future routing reviews.
type LearningRecorder interface {
	RecordOutcome(rec domain.OutcomeRecord) error
}

// Logger provides structured logging abstraction for the application layer.
// Implementations can route to different backends (stdout, files, external services).
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, err error, fields map[string]interface{})
}
