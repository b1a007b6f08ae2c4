package retry

import (
	"context"
	"time"
)

// RetryFunc is called before each wait with the zero-based retry number,
// the error that triggered it and the delay about to be slept.
type RetryFunc func(attempt int, err error, delay time.Duration)

// Executor runs an operation and retries it while the classifier reports
// its error as transient and the strategy allows more attempts.
type Executor struct {
	classifier ErrorClassifier
	strategy   BackoffStrategy
	onRetry    RetryFunc
}

// NewExecutor creates an Executor.
// Panics if classifier or strategy is nil.
func NewExecutor(classifier ErrorClassifier, strategy BackoffStrategy) *Executor {
	if classifier == nil {
		panic("classifier cannot be nil")
	}
	if strategy == nil {
		panic("strategy cannot be nil")
	}
	return &Executor{classifier: classifier, strategy: strategy}
}

// WithOnRetry returns a copy of e that calls fn before every retry.
// The receiver is not modified.
func (e *Executor) WithOnRetry(fn RetryFunc) *Executor {
	clone := *e
	clone.onRetry = fn
	return &clone
}

// Execute runs operation until it succeeds, fails permanently, exhausts the
// retries or ctx ends. It returns the last operation error, or ctx.Err()
// when the context ended while waiting.
func (e *Executor) Execute(ctx context.Context, operation func(ctx context.Context) error) error {
	err := operation(ctx)
	maxAttempts := e.strategy.MaxAttempts()

	for attempt := 0; err != nil && e.classifier.IsTransient(err); attempt++ {
		if maxAttempts >= 0 && attempt >= maxAttempts {
			break
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		delay := e.strategy.NextDelay(attempt)
		if e.onRetry != nil {
			e.onRetry(attempt, err, delay)
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		err = operation(ctx)
	}

	return err
}
