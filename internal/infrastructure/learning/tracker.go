// Package learning tracks routing outcomes over time and surfaces patterns
// with enough evidence behind them to inform future threshold tuning. Entries
// are kept as a JSON file under the memory directory so they survive restarts.
package learning

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/switchboard-sh/switchboard/internal/domain"
	"github.com/switchboard-sh/switchboard/internal/ports"
)

const (
	patternsFile = "learning_patterns.json"

	// minPatternFrequency is the evidence floor: fewer occurrences than this
	// is noise, not a pattern.
	minPatternFrequency = 3
	// reliableSuccessRate marks a routing pairing as worth recommending.
	reliableSuccessRate = 0.7
)

// Entry is one persisted outcome observation.
type Entry struct {
	Timestamp   time.Time            `json:"timestamp"`
	Type        domain.OperationType `json:"type"`
	Strategy    domain.Strategy      `json:"strategy"`
	Success     bool                 `json:"success"`
	FromCache   bool                 `json:"from_cache"`
	TokensSaved int                  `json:"tokens_saved"`
	DurationMS  int64                `json:"duration_ms"`
}

// PatternInsight is a recurring type/strategy pairing with its track record.
type PatternInsight struct {
	Type           domain.OperationType `json:"type"`
	Strategy       domain.Strategy      `json:"strategy"`
	Frequency      int                  `json:"frequency"`
	SuccessRate    float64              `json:"success_rate"`
	TokensSaved    int                  `json:"tokens_saved"`
	Recommendation string               `json:"recommendation"`
	LastSeen       time.Time            `json:"last_seen"`
}

// Tracker implements ports.LearningRecorder over a JSON file.
type Tracker struct {
	mu      sync.Mutex
	path    string
	entries []Entry
}

// NewTracker opens (or creates) the tracker under the given memory directory.
// An empty dir resolves to ~/.switchboard/memory.
func NewTracker(dir string) (*Tracker, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		dir = filepath.Join(home, ".switchboard", "memory")
	}
	if err := os.MkdirAll(dir, domain.DirectoryPermissions); err != nil {
		return nil, err
	}

	t := &Tracker{path: filepath.Join(dir, patternsFile)}
	data, err := os.ReadFile(t.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return t, nil
		}
		return nil, err
	}
	if err := json.Unmarshal(data, &t.entries); err != nil {
		// A corrupt memory file starts over rather than blocking the run.
		t.entries = nil
	}
	return t, nil
}

// RecordOutcome implements ports.LearningRecorder.
func (t *Tracker) RecordOutcome(rec domain.OutcomeRecord) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.entries = append(t.entries, Entry{
		Timestamp:   rec.Timestamp,
		Type:        rec.Type,
		Strategy:    rec.Strategy,
		Success:     rec.Success,
		FromCache:   rec.FromCache,
		TokensSaved: rec.TokensSaved,
		DurationMS:  rec.DurationMS,
	})
	return t.persist()
}

// Entries returns a copy of the recorded observations.
func (t *Tracker) Entries() []Entry {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]Entry(nil), t.entries...)
}

// Insights groups observations by type and strategy and reports every pairing
// seen at least minPatternFrequency times, most frequent first.
func (t *Tracker) Insights() []PatternInsight {
	t.mu.Lock()
	defer t.mu.Unlock()

	type key struct {
		opType   domain.OperationType
		strategy domain.Strategy
	}
	type bucket struct {
		frequency   int
		successes   int
		tokensSaved int
		lastSeen    time.Time
	}

	buckets := make(map[key]*bucket)
	for _, entry := range t.entries {
		k := key{opType: entry.Type, strategy: entry.Strategy}
		b, ok := buckets[k]
		if !ok {
			b = &bucket{}
			buckets[k] = b
		}
		b.frequency++
		if entry.Success {
			b.successes++
		}
		b.tokensSaved += entry.TokensSaved
		if entry.Timestamp.After(b.lastSeen) {
			b.lastSeen = entry.Timestamp
		}
	}

	var insights []PatternInsight
	for k, b := range buckets {
		if b.frequency < minPatternFrequency {
			continue
		}
		rate := float64(b.successes) / float64(b.frequency)
		insights = append(insights, PatternInsight{
			Type:           k.opType,
			Strategy:       k.strategy,
			Frequency:      b.frequency,
			SuccessRate:    rate,
			TokensSaved:    b.tokensSaved,
			Recommendation: recommendation(k.opType, k.strategy, rate),
			LastSeen:       b.lastSeen,
		})
	}

	sort.Slice(insights, func(i, j int) bool {
		if insights[i].Frequency != insights[j].Frequency {
			return insights[i].Frequency > insights[j].Frequency
		}
		return insights[i].Type < insights[j].Type
	})
	return insights
}

// Clear drops every observation and removes the memory file.
func (t *Tracker) Clear() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries = nil
	err := os.Remove(t.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

func recommendation(opType domain.OperationType, strategy domain.Strategy, rate float64) string {
	if rate >= reliableSuccessRate {
		return fmt.Sprintf("keep routing %s to the %s path (%.0f%% success)", opType, strategy, rate*100)
	}
	return fmt.Sprintf("review routing of %s: the %s path succeeds only %.0f%% of the time", opType, strategy, rate*100)
}

// persist rewrites the memory file. Caller holds the lock.
func (t *Tracker) persist() error {
	data, err := json.MarshalIndent(t.entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(t.path, data, domain.SecureFilePermissions)
}

var _ ports.LearningRecorder = (*Tracker)(nil)
