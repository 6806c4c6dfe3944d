package domain

import "errors"

// Sentinel errors for domain-level failures.
// Check with errors.Is(); wrap with fmt.Errorf("...: %w", ...) to add context.
var (
	// ErrInvalidName indicates a string violates the resource naming grammar
	// or its length bound.
	ErrInvalidName = errors.New("invalid resource name")

	// ErrBadIdentity indicates no valid identity could be derived from the
	// credential's claims.
	ErrBadIdentity = errors.New("could not derive a valid identity")

	// ErrUnauthorized indicates the cluster rejected the credential's
	// capability probe.
	ErrUnauthorized = errors.New("credential rejected by cluster")

	// ErrForbidden indicates no credential was presented at all.
	ErrForbidden = errors.New("no credential presented")

	// ErrConflict indicates the notebook already exists.
	ErrConflict = errors.New("notebook already exists")

	// ErrNotFound indicates the notebook does not exist.
	ErrNotFound = errors.New("notebook does not exist")

	// ErrBadRequest indicates malformed caller input, such as an unparsable
	// configuration override or an out-of-range replica count.
	ErrBadRequest = errors.New("bad request")
)
