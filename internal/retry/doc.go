// Package retry retries operations that fail with transient errors, waiting
// with exponential backoff between attempts.
//
// dbseed only retries establishing a storage connection. Fixture inserts are
// never retried.
//
//	executor := retry.NewExecutor(
//	    retry.NewConnectionErrorClassifier(),
//	    retry.NewExponentialBackoff(3),
//	)
//	err := executor.Execute(ctx, func(ctx context.Context) error {
//	    return conn.Ping(ctx)
//	})
//
// Executor instances are safe for concurrent use.
package retry
