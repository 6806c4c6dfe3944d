package ports

import "errors"

// Infrastructure errors for the adapter layer. Separate from domain errors,
// which represent semantic failures; the HTTP layer maps everything in this
// family to an internal server error while preserving the diagnostic text.
var (
	// ErrCommandFailed indicates an orchestration tool exited non-zero. The
	// wrapping error carries the tool's captured stderr verbatim.
	ErrCommandFailed = errors.New("orchestration command failed")

	// ErrCommandTimeout indicates an orchestration tool ran past the hard
	// command timeout and was killed.
	ErrCommandTimeout = errors.New("orchestration command timed out")

	// ErrToolUnavailable indicates the orchestration binary could not be
	// found or started at all.
	ErrToolUnavailable = errors.New("orchestration tool unavailable")
)
