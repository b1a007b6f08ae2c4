package dbseed

import "time"

// Exit codes for semantic error classification.
// These follow Unix/GNU conventions:
//   - 0: Success
//   - 1: General error
//   - 2: CLI usage error (misuse of command line)
//   - 3+: Application-specific errors
const (
	ExitSuccess           = 0  // Seeding completed successfully
	ExitGeneralError      = 1  // Unknown or unclassified error
	ExitUsageError        = 2  // CLI usage error (missing args, invalid flags)
	ExitPanic             = 3  // Internal panic (unexpected crash)
	ExitConfigError       = 10 // Invalid argument, configuration or encoding
	ExitConnectionError   = 11 // Failed to connect to the storage backend
	ExitUnsupportedFormat = 12 // Fixture file extension has no parser
	ExitStorageFailure    = 13 // The backend rejected an insert
	ExitNotFound          = 14 // A glob pattern matched no files
	ExitParseFailure      = 15 // A fixture file could not be decoded
)

const (
	// DefaultEncoding is the text encoding applied to fixture files unless overridden.
	DefaultEncoding = "utf-8"

	// DefaultTimeout protects a seeding run against indefinite hangs.
	DefaultTimeout = 3 * time.Minute

	// DefaultRetryInitialDelay is the default initial delay before the first connection retry.
	DefaultRetryInitialDelay = 100 * time.Millisecond

	// DefaultRetryMaxDelay is the default maximum delay between connection retries.
	DefaultRetryMaxDelay = 10 * time.Second

	// DefaultRetryMaxAttempts is the default maximum number of connection retries.
	DefaultRetryMaxAttempts = 3

	// NestedFixturesKey is the wrapper field that holds the fixture sequence in nested files.
	NestedFixturesKey = "fixtures"
)
