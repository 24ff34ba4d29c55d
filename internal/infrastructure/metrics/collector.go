// Package metrics accumulates per-operation outcomes behind a mutex. Aggregate
// counters are updated in O(1) on every record and are never trimmed; only the
// raw record buffer is bounded.
package metrics

import (
	"sync"
	"time"

	"github.com/switchboard-sh/switchboard/internal/domain"
	"github.com/switchboard-sh/switchboard/internal/ports"
)

// Collector implements ports.MetricsRecorder.
type Collector struct {
	mu sync.Mutex

	maxOperations    int
	cleanupThreshold int
	now              func() time.Time
	startedAt        time.Time

	records []domain.MetricsRecord

	operationsProcessed int64
	tokensSaved         int64
	cacheHits           int64
	totalDuration       time.Duration
	routingStats        map[domain.Strategy]domain.StrategyStats
}

// Option customizes a Collector.
type Option func(*Collector)

// WithClock injects a time source for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Collector) { c.now = now }
}

// NewCollector builds a Collector from metrics settings, hydrating zero values.
// The cleanup threshold is kept above the buffer bound so trims stay amortized
// instead of firing on every record.
func NewCollector(settings domain.MetricsSettings, opts ...Option) *Collector {
	maxOperations := settings.MaxOperations
	if maxOperations <= 0 {
		maxOperations = domain.DefaultMaxOperations
	}
	cleanupThreshold := settings.CleanupThreshold
	if cleanupThreshold <= maxOperations {
		cleanupThreshold = domain.DefaultCleanupThreshold
		if cleanupThreshold <= maxOperations {
			cleanupThreshold = maxOperations + maxOperations/5
		}
	}

	c := &Collector{
		maxOperations:    maxOperations,
		cleanupThreshold: cleanupThreshold,
		now:              time.Now,
		routingStats:     make(map[domain.Strategy]domain.StrategyStats),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.startedAt = c.now()
	return c
}

// Record implements ports.MetricsRecorder.
func (c *Collector) Record(rec domain.MetricsRecord) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.operationsProcessed++
	c.tokensSaved += int64(rec.TokensSaved)
	c.totalDuration += rec.Duration
	if rec.FromCache {
		c.cacheHits++
	}

	stats := c.routingStats[rec.Strategy]
	stats.Count++
	stats.TotalDuration += rec.Duration
	if !rec.Success {
		stats.ErrorCount++
	}
	c.routingStats[rec.Strategy] = stats

	c.records = append(c.records, rec)
	if len(c.records) > c.cleanupThreshold {
		keep := c.records[len(c.records)-c.maxOperations:]
		c.records = append(make([]domain.MetricsRecord, 0, c.maxOperations), keep...)
	}
}

// Snapshot implements ports.MetricsRecorder. Aggregates reflect every record
// ever seen, regardless of buffer trims.
func (c *Collector) Snapshot() domain.MetricsSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	var avg time.Duration
	if c.operationsProcessed > 0 {
		avg = c.totalDuration / time.Duration(c.operationsProcessed)
	}

	routing := make(map[domain.Strategy]domain.StrategyStats, len(c.routingStats))
	for strategy, stats := range c.routingStats {
		routing[strategy] = stats
	}

	return domain.MetricsSnapshot{
		OperationsProcessed: c.operationsProcessed,
		TokensSaved:         c.tokensSaved,
		CacheHits:           c.cacheHits,
		AverageResponseTime: avg,
		RoutingStats:        routing,
		BufferedRecords:     len(c.records),
		Uptime:              c.now().Sub(c.startedAt),
	}
}

// Records returns a copy of the raw record buffer, newest last.
func (c *Collector) Records() []domain.MetricsRecord {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]domain.MetricsRecord(nil), c.records...)
}

var _ ports.MetricsRecorder = (*Collector)(nil)
