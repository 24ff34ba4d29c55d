package domain

import "time"

// Result is the output of one executor pass.
type Result struct {
	Output    string `json:"output"`
	Method    string `json:"method"` // "lightweight", "reasoning" or "hybrid"
	FromCache bool   `json:"from_cache,omitempty"`
	// Hybrid composition keeps both passes alongside the combined output.
	Lightweight string `json:"lightweight,omitempty"`
	Reasoning   string `json:"reasoning,omitempty"`
}

// OrchestrationResult is the sole return value of Orchestrator.Orchestrate.
// Failures are folded into it; callers never see a raw error.
type OrchestrationResult struct {
	OperationID        string        `json:"operation_id"`
	Type               OperationType `json:"type"`
	Success            bool          `json:"success"`
	Result             *Result       `json:"result,omitempty"`
	Error              string        `json:"error,omitempty"`
	Routing            Strategy      `json:"routing"`
	Confidence         float64       `json:"confidence"`
	Duration           time.Duration `json:"duration"`
	TokensSaved        int           `json:"tokens_saved"`
	FromCache          bool          `json:"from_cache,omitempty"`
	Attempts           int           `json:"attempts,omitempty"`
	FallbackSuggestion string        `json:"fallback_suggestion,omitempty"`
}

// OutcomeRecord is the persisted form of an orchestration outcome.
type OutcomeRecord struct {
	Timestamp   time.Time     `json:"timestamp"`
	OperationID string        `json:"operation_id"`
	Type        OperationType `json:"type"`
	Strategy    Strategy      `json:"strategy"`
	Success     bool          `json:"success"`
	FromCache   bool          `json:"from_cache"`
	TokensSaved int           `json:"tokens_saved"`
	DurationMS  int64         `json:"duration_ms"`
	Error       string        `json:"error,omitempty"`
}

// CacheEntry stores one cached executor result.
type CacheEntry struct {
	Key       string    `json:"key"`
	Result    Result    `json:"result"`
	CreatedAt time.Time `json:"created_at"`
}
