package domain

import "time"

// File permissions constants
const (
	// DirectoryPermissions is the default permission for directories (rwxr-xr-x)
	DirectoryPermissions = 0o755
	// SecureFilePermissions is the permission for sensitive files (rw-------)
	SecureFilePermissions = 0o600
)

// Routing defaults
const (
	// DefaultComplexityThreshold caps lightweight-category routing.
	DefaultComplexityThreshold = 4
	// DefaultTokenThreshold is the cheap-operation escalation bound.
	DefaultTokenThreshold = 500
)

// Execution defaults
const (
	// DefaultMaxRetries bounds lightweight execution attempts.
	DefaultMaxRetries = 3
	// DefaultRetryBackoff is the linear backoff unit between attempts.
	DefaultRetryBackoff = time.Second
	// DefaultExecutionTimeout bounds one external executor invocation.
	DefaultExecutionTimeout = 60 * time.Second
)

// Metrics defaults
const (
	// DefaultMaxOperations is the raw metrics buffer size after trimming.
	DefaultMaxOperations = 1000
	// DefaultCleanupThreshold is the buffer length that triggers trimming.
	DefaultCleanupThreshold = 1200
)

// Time formats
const (
	// TimestampFormat is the standard timestamp format
	TimestampFormat = time.RFC3339
)
