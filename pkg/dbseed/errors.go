package dbseed

import (
	"errors"
	"strings"
)

// Sentinel errors for common failure scenarios.
// These enable callers to distinguish error types using errors.Is().
//
// Example usage:
//
//	fixtures, err := r.ReadFileGlob("fixtures/*.yml")
//	if errors.Is(err, dbseed.ErrNotFound) {
//	    // No fixture files matched
//	}
var (
	// ErrInvalidArgument indicates a required parameter is missing or malformed.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrUnsupportedFormat indicates a fixture file extension has no registered parser.
	ErrUnsupportedFormat = errors.New("unsupported format")

	// ErrNotFound indicates a glob pattern matched zero files.
	ErrNotFound = errors.New("not found")

	// ErrParseFailure indicates a fixture file could not be decoded into fixtures.
	ErrParseFailure = errors.New("parse failure")

	// ErrStorageFailure marks an insert rejected by the storage backend.
	// The loader never adds it; only the seeding service attaches it for exit code mapping.
	ErrStorageFailure = errors.New("storage failure")

	// ErrInvalidConfig indicates the provided configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrConnectionFailed indicates the storage backend could not be reached.
	ErrConnectionFailed = errors.New("connection failed")
)

// usageErrorPatterns are cobra error prefixes that indicate command-line misuse.
var usageErrorPatterns = []string{
	"unknown flag",
	"unknown shorthand flag",
	"unknown command",
	"accepts ",
	"requires at least",
	"required flag",
	"invalid argument \"",
}

// ExitCodeForError returns the appropriate exit code for an error.
// Returns ExitSuccess (0) for nil errors, semantic codes for known errors,
// and ExitGeneralError (1) for unclassified errors.
func ExitCodeForError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	switch {
	case errors.Is(err, ErrInvalidArgument), errors.Is(err, ErrInvalidConfig):
		return ExitConfigError
	case errors.Is(err, ErrConnectionFailed):
		return ExitConnectionError
	case errors.Is(err, ErrUnsupportedFormat):
		return ExitUnsupportedFormat
	case errors.Is(err, ErrStorageFailure):
		return ExitStorageFailure
	case errors.Is(err, ErrNotFound):
		return ExitNotFound
	case errors.Is(err, ErrParseFailure):
		return ExitParseFailure
	}

	errStr := err.Error()
	for _, pattern := range usageErrorPatterns {
		if strings.HasPrefix(errStr, pattern) {
			return ExitUsageError
		}
	}

	return ExitGeneralError
}
