package domain

import "fmt"

// ValidationError marks a malformed operation, such as a missing required
// field for its type. It is never retried.
type ValidationError struct {
	Type  OperationType
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("operation %s requires field %q", e.Type, e.Field)
}

// ExecutionError marks an external process that exited non-zero or failed to
// spawn. Retryable.
type ExecutionError struct {
	Type     OperationType
	ExitCode int
	Stderr   string
	Err      error
}

func (e *ExecutionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("execute %s: %v", e.Type, e.Err)
	}
	return fmt.Sprintf("execute %s: exit %d: %s", e.Type, e.ExitCode, e.Stderr)
}

func (e *ExecutionError) Unwrap() error { return e.Err }

// TimeoutError marks an external call that exceeded its bound. Retryable, and
// kept distinct from ExecutionError so callers can suggest a longer timeout.
type TimeoutError struct {
	Type OperationType
	Err  error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("execute %s: timed out: %v", e.Type, e.Err)
}

func (e *TimeoutError) Unwrap() error { return e.Err }

// RetryExhaustedError wraps the last failure after the retry budget is spent.
type RetryExhaustedError struct {
	Attempts int
	Last     error
}

func (e *RetryExhaustedError) Error() string {
	return fmt.Sprintf("failed after %d attempts: %v", e.Attempts, e.Last)
}

func (e *RetryExhaustedError) Unwrap() error { return e.Last }
