package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastPolicy(attempts int32) *Policy {
	return NewPolicy(
		WithInitialInterval(time.Millisecond),
		WithMaximumInterval(5*time.Millisecond),
		WithMaximumAttempts(attempts),
	)
}

func TestExecuteSucceedsFirstTry(t *testing.T) {
	executor := NewExecutor(fastPolicy(3))

	calls := 0
	err := executor.Execute(context.Background(), func() error {
		calls++
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestExecuteRetriesUntilSuccess(t *testing.T) {
	executor := NewExecutor(fastPolicy(5))

	calls := 0
	err := executor.Execute(context.Background(), func() error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestExecuteReturnsLastErrorAfterExhaustion(t *testing.T) {
	executor := NewExecutor(fastPolicy(3))

	calls := 0
	wantErr := errors.New("persistent failure")
	err := executor.Execute(context.Background(), func() error {
		calls++
		return wantErr
	})

	assert.Equal(t, wantErr, err)
	assert.Equal(t, 3, calls)
}

func TestExecuteRespectsContextCancellation(t *testing.T) {
	executor := NewExecutor(NewPolicy(
		WithInitialInterval(time.Minute),
		WithMaximumAttempts(3),
	))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- executor.Execute(ctx, func() error {
			return errors.New("always fails")
		})
	}()

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("Execute did not return after context cancellation")
	}
}

func TestNewPolicyDefaults(t *testing.T) {
	policy := NewPolicy()

	assert.Equal(t, time.Second, policy.InitialInterval)
	assert.Equal(t, 2.0, policy.BackoffCoefficient)
	assert.Equal(t, 30*time.Second, policy.MaximumInterval)
	assert.Equal(t, int32(3), policy.MaximumAttempts)
}
