package domain

import "time"

// MetricsRecord captures the outcome of one orchestrated operation.
type MetricsRecord struct {
	OperationID string        `json:"operation_id"`
	Type        OperationType `json:"type"`
	Strategy    Strategy      `json:"strategy"`
	Duration    time.Duration `json:"duration"`
	Success     bool          `json:"success"`
	FromCache   bool          `json:"from_cache"`
	TokensSaved int           `json:"tokens_saved"`
	Timestamp   time.Time     `json:"timestamp"`
	Error       string        `json:"error,omitempty"`
}

// StrategyStats aggregates outcomes per routing strategy. Maintained
// incrementally and never trimmed, unlike the raw record buffer.
type StrategyStats struct {
	Count         int64         `json:"count"`
	TotalDuration time.Duration `json:"total_duration"`
	ErrorCount    int64         `json:"error_count"`
}

// AverageDuration returns the mean duration for the strategy, or zero when
// nothing has been recorded.
func (s StrategyStats) AverageDuration() time.Duration {
	if s.Count == 0 {
		return 0
	}
	return s.TotalDuration / time.Duration(s.Count)
}

// ErrorRate returns the fraction of recorded operations that failed.
func (s StrategyStats) ErrorRate() float64 {
	if s.Count == 0 {
		return 0
	}
	return float64(s.ErrorCount) / float64(s.Count)
}

// MetricsSnapshot is a point-in-time view of aggregate statistics.
type MetricsSnapshot struct {
	OperationsProcessed int64                      `json:"operations_processed"`
	TokensSaved         int64                      `json:"tokens_saved"`
	CacheHits           int64                      `json:"cache_hits"`
	AverageResponseTime time.Duration              `json:"average_response_time"`
	RoutingStats        map[Strategy]StrategyStats `json:"routing_stats"`
	BufferedRecords     int                        `json:"buffered_records"`
	Uptime              time.Duration              `json:"uptime"`
}

// StatusReport combines the metrics snapshot with orchestrator-owned state.
type StatusReport struct {
	CacheSize int             `json:"cache_size"`
	Metrics   MetricsSnapshot `json:"metrics"`
}
