package executor

import (
	"context"
	"errors"
	"time"

	"github.com/switchboard-sh/switchboard/internal/domain"
	"github.com/switchboard-sh/switchboard/internal/ports"
)

// Controller retries failed attempts with linear backoff: before attempt n it
// waits backoff*(n-1). Validation failures are terminal and never retried.
// Attempts are strictly sequential.
type Controller struct {
	maxRetries int
	backoff    time.Duration
	sleep      func(ctx context.Context, d time.Duration) error
	logger     ports.Logger
}

// NewController builds a Controller from execution settings, hydrating zero
// values with defaults.
func NewController(settings domain.ExecutionSettings, logger ports.Logger) *Controller {
	maxRetries := settings.MaxRetries
	if maxRetries <= 0 {
		maxRetries = domain.DefaultMaxRetries
	}
	backoff := time.Duration(settings.RetryBackoffMS) * time.Millisecond
	if backoff <= 0 {
		backoff = domain.DefaultRetryBackoff
	}
	return &Controller{
		maxRetries: maxRetries,
		backoff:    backoff,
		sleep:      sleepContext,
		logger:     logger,
	}
}

// Do runs attempt up to the retry budget. It returns the successful result,
// the number of attempts made, and on exhaustion a RetryExhaustedError
// wrapping the last failure.
func (c *Controller) Do(ctx context.Context, attempt func(context.Context) (domain.Result, error)) (domain.Result, int, error) {
	var last error
	for n := 1; n <= c.maxRetries; n++ {
		if n > 1 {
			if err := c.sleep(ctx, c.backoff*time.Duration(n-1)); err != nil {
				// The backoff only runs after a failed attempt, so last is
				// set; surface it with its kind intact.
				return domain.Result{}, n - 1, &domain.RetryExhaustedError{Attempts: n - 1, Last: last}
			}
		}

		result, err := attempt(ctx)
		if err == nil {
			return result, n, nil
		}
		last = err

		var validation *domain.ValidationError
		if errors.As(err, &validation) {
			return domain.Result{}, n, err
		}

		c.logger.Warn("attempt failed", map[string]interface{}{
			"attempt": n,
			"error":   err.Error(),
		})
	}
	return domain.Result{}, c.maxRetries, &domain.RetryExhaustedError{Attempts: c.maxRetries, Last: last}
}

var _ ports.Retryer = (*Controller)(nil)

// sleepContext waits for d or until the context is done.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
