package learning

import (
	"testing"
	"time"

	"github.com/switchboard-sh/switchboard/internal/domain"
)

func outcome(opType domain.OperationType, strategy domain.Strategy, success bool, ts time.Time) domain.OutcomeRecord {
	return domain.OutcomeRecord{
		Timestamp:   ts,
		OperationID: "op",
		Type:        opType,
		Strategy:    strategy,
		Success:     success,
		TokensSaved: 10,
	}
}

func TestRecordOutcomePersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	ts := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tracker, err := NewTracker(dir)
	if err != nil {
		t.Fatalf("NewTracker() error = %v", err)
	}
	if err := tracker.RecordOutcome(outcome(domain.OpFileRead, domain.StrategyLightweight, true, ts)); err != nil {
		t.Fatalf("RecordOutcome() error = %v", err)
	}

	reopened, err := NewTracker(dir)
	if err != nil {
		t.Fatalf("NewTracker() reopen error = %v", err)
	}
	entries := reopened.Entries()
	if len(entries) != 1 {
		t.Fatalf("len(entries) = %d, want 1 after reopen", len(entries))
	}
	if entries[0].Type != domain.OpFileRead || !entries[0].Success {
		t.Fatalf("entry = %+v", entries[0])
	}
}

func TestInsightsRequireMinimumFrequency(t *testing.T) {
	tracker, err := NewTracker(t.TempDir())
	if err != nil {
		t.Fatalf("NewTracker() error = %v", err)
	}
	ts := time.Now()

	// Two occurrences stay below the evidence floor.
	for i := 0; i < 2; i++ {
		if err := tracker.RecordOutcome(outcome(domain.OpGitStatus, domain.StrategyLightweight, true, ts)); err != nil {
			t.Fatalf("RecordOutcome() error = %v", err)
		}
	}
	if got := tracker.Insights(); len(got) != 0 {
		t.Fatalf("Insights() = %+v, want none below frequency 3", got)
	}

	if err := tracker.RecordOutcome(outcome(domain.OpGitStatus, domain.StrategyLightweight, true, ts)); err != nil {
		t.Fatalf("RecordOutcome() error = %v", err)
	}
	got := tracker.Insights()
	if len(got) != 1 {
		t.Fatalf("Insights() = %+v, want one pattern at frequency 3", got)
	}
	if got[0].Frequency != 3 || got[0].SuccessRate != 1.0 {
		t.Fatalf("insight = %+v", got[0])
	}
}

func TestInsightsRecommendations(t *testing.T) {
	tracker, err := NewTracker(t.TempDir())
	if err != nil {
		t.Fatalf("NewTracker() error = %v", err)
	}
	ts := time.Now()

	// Reliable pairing: 3/3 successes.
	for i := 0; i < 3; i++ {
		tracker.RecordOutcome(outcome(domain.OpFileRead, domain.StrategyLightweight, true, ts))
	}
	// Unreliable pairing: 1/4 successes.
	tracker.RecordOutcome(outcome(domain.OpGitCommit, domain.StrategyLightweight, true, ts))
	for i := 0; i < 3; i++ {
		tracker.RecordOutcome(outcome(domain.OpGitCommit, domain.StrategyLightweight, false, ts))
	}

	insights := tracker.Insights()
	if len(insights) != 2 {
		t.Fatalf("Insights() = %+v, want 2 patterns", insights)
	}
	// Most frequent first.
	if insights[0].Type != domain.OpGitCommit || insights[0].Frequency != 4 {
		t.Fatalf("first insight = %+v, want the git-commit pattern", insights[0])
	}
	if insights[0].SuccessRate != 0.25 {
		t.Fatalf("success rate = %v, want 0.25", insights[0].SuccessRate)
	}
	if want := "review routing of git-commit: the lightweight path succeeds only 25% of the time"; insights[0].Recommendation != want {
		t.Fatalf("recommendation = %q, want %q", insights[0].Recommendation, want)
	}
	if want := "keep routing file-read to the lightweight path (100% success)"; insights[1].Recommendation != want {
		t.Fatalf("recommendation = %q, want %q", insights[1].Recommendation, want)
	}
}

func TestClearDropsMemory(t *testing.T) {
	dir := t.TempDir()
	tracker, err := NewTracker(dir)
	if err != nil {
		t.Fatalf("NewTracker() error = %v", err)
	}
	tracker.RecordOutcome(outcome(domain.OpFileRead, domain.StrategyLightweight, true, time.Now()))

	if err := tracker.Clear(); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if len(tracker.Entries()) != 0 {
		t.Fatal("entries must be empty after Clear")
	}

	reopened, err := NewTracker(dir)
	if err != nil {
		t.Fatalf("NewTracker() reopen error = %v", err)
	}
	if len(reopened.Entries()) != 0 {
		t.Fatal("cleared memory must not come back after reopen")
	}
}
