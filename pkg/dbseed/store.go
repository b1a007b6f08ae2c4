package dbseed

import "context"

// Store is the single capability the loader needs from a database:
// insert one row into a named table and report the outcome.
//
// Concurrency and transaction discipline are the implementation's concern.
// The loader calls Insert for one fixture at a time and waits for it to return.
type Store interface {
	Insert(ctx context.Context, table string, data map[string]any) error
}

// StoreFunc adapts an ordinary function to the Store interface.
type StoreFunc func(ctx context.Context, table string, data map[string]any) error

// Insert calls f(ctx, table, data).
func (f StoreFunc) Insert(ctx context.Context, table string, data map[string]any) error {
	return f(ctx, table, data)
}

// Connection is a Store that owns backend resources.
type Connection interface {
	Store

	// Ping verifies that the backend is reachable.
	Ping(ctx context.Context) error

	// Close releases the backend resources. Safe to call more than once.
	Close() error
}

// Connector establishes connections to a storage backend.
type Connector interface {
	// Connect opens the backend and verifies it is reachable.
	// The caller must Close the returned Connection.
	Connect(ctx context.Context) (Connection, error)
}
