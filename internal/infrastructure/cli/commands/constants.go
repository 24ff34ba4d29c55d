package commands

// CLI-specific constants
const (
	// TimestampFormat renders outcome timestamps in listings.
	TimestampFormat = "2006-01-02 15:04:05"
	// DefaultHistoryLimit caps 'history list' output.
	DefaultHistoryLimit = 20
	// DefaultHistorySearchLimit caps 'history search' output.
	DefaultHistorySearchLimit = 50
	// MaxHistoryAnalysisRecords bounds the records fed into 'history stats'.
	MaxHistoryAnalysisRecords = 500
)

// Error messages
const (
	ErrHistoryStoreUnavailable    = "history store unavailable"
	ErrCacheStoreUnavailable      = "cache store unavailable"
	ErrLearningTrackerUnavailable = "learning tracker unavailable"
	ErrQueryRequired              = "--query required"
)

// Informational messages
const (
	MsgNoOutcomesRecorded = "No outcomes recorded yet."
	MsgNoCachedResults    = "No cached results."
	MsgNoInsightsYet      = "Not enough outcomes recorded to surface patterns yet."
)
