package retry

import (
	"context"
	"time"

	"github.com/mcmp-ai/assistant/pkg/logging"
)

// Executor handles the execution of operations with retries
type Executor struct {
	policy *Policy
	logger logging.Logger
}

// NewExecutor creates a new retry executor with the given policy
func NewExecutor(policy *Policy) *Executor {
	return &Executor{
		policy: policy,
		logger: logging.New(),
	}
}

// Execute runs operation, retrying per the policy with exponential backoff.
// Context cancellation aborts both attempts and backoff delays.
func (e *Executor) Execute(ctx context.Context, operation func() error) error {
	var lastErr error
	interval := e.policy.InitialInterval

	for attempt := int32(1); attempt <= e.policy.MaximumAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := operation()
		if err == nil {
			return nil
		}
		lastErr = err

		if attempt == e.policy.MaximumAttempts {
			break
		}

		e.logger.Debug(ctx, "Operation failed, scheduling retry", map[string]interface{}{
			"attempt":       attempt,
			"max_attempts":  e.policy.MaximumAttempts,
			"error":         lastErr.Error(),
			"next_interval": interval.String(),
		})

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(interval):
		}

		interval = time.Duration(float64(interval) * e.policy.BackoffCoefficient)
		if interval > e.policy.MaximumInterval {
			interval = e.policy.MaximumInterval
		}
	}

	return lastErr
}
