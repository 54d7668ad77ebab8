package common

import "errors"

// Sentinel errors. Callers wrap them with fmt.Errorf("%w: detail", ErrX)
// and match with errors.Is.
var (
	// ErrInvalidPath is returned when a local path in a CrateSource doesn't exist.
	ErrInvalidPath = errors.New("invalid path")

	// ErrLoadFailed wraps IO, zip, HTTP, or parser failures encountered by the Loader.
	ErrLoadFailed = errors.New("failed to load crate")

	// ErrInvalidCrateFormat is returned when a crate's @graph is not a JSON array.
	ErrInvalidCrateFormat = errors.New("invalid crate format: @graph is not an array")

	// ErrCrateNotFound is returned by manifest-gated operations for an unknown crate id.
	ErrCrateNotFound = errors.New("crate not found")

	// ErrQueryParse is returned when a query string is rejected before reaching the FTS engine.
	ErrQueryParse = errors.New("invalid query")
)
