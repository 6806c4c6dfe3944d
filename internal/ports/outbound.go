package ports

import (
	"context"

	"github.com/sufield/nok/internal/domain"
)

// CommandRunner executes one orchestration tool (kubectl or helm) with the
// given arguments plus the runner's always-appended namespace and credential
// flags, returning captured stdout verbatim.
//
// Error Contract:
//   - non-zero exit wraps ErrCommandFailed with the captured stderr
//   - timeout wraps ErrCommandTimeout
//   - missing executable wraps ErrToolUnavailable
type CommandRunner interface {
	Run(ctx context.Context, cred domain.Credential, args ...string) (string, error)
}

// Authorizer issues the capability probe that is the system's only real
// trust check. Claim decoding never substitutes for it.
//
// Error Contract:
//   - Authorize returns an error wrapping domain.ErrUnauthorized on any
//     probe failure, carrying the cluster's diagnostic text
type Authorizer interface {
	Authorize(ctx context.Context, cred domain.Credential) error
}

// IdentityResolver derives a validated identity from the credential's
// advisory claims. Purely structural: no signature verification happens
// here; the cluster performs it during the Authorizer probe.
//
// Error Contract:
//   - Resolve returns an error wrapping domain.ErrBadIdentity when the
//     credential is malformed, the claim is missing, or the derived value
//     violates the naming grammar
type IdentityResolver interface {
	Resolve(cred domain.Credential) (domain.Identity, error)
}

// ReleaseCatalog lists and mutates notebook releases through the package
// tool. Implementations return structured results, never raw CLI text.
//
// Error Contract:
//   - List returns only in-family releases; out-of-family entries are
//     logged and dropped, never surfaced as errors
//   - Exists returns true iff exactly one release matches the exact filter
//   - Install and Uninstall propagate CommandRunner errors unchanged
type ReleaseCatalog interface {
	List(ctx context.Context, cred domain.Credential, pattern string) ([]domain.Release, error)
	Exists(ctx context.Context, cred domain.Credential, name domain.ResourceName) (bool, error)
	Install(ctx context.Context, cred domain.Credential, name domain.ResourceName, values map[string]interface{}) error
	Uninstall(ctx context.Context, cred domain.Credential, name domain.ResourceName) error
}

// ClusterViews queries and mutates the cluster objects backing a release
// through the cluster tool.
//
// Error Contract:
//   - Controller and Instance return (nil, nil) when no matching object
//     exists; each assumes at most one match and takes the first
//   - Events returns the raw event listing for one object name, possibly
//     empty
//   - all methods propagate CommandRunner errors unchanged
type ClusterViews interface {
	Controller(ctx context.Context, cred domain.Credential, name domain.ResourceName) (*domain.ControllerView, error)
	Instance(ctx context.Context, cred domain.Credential, name domain.ResourceName) (*domain.InstanceView, error)
	Scale(ctx context.Context, cred domain.Credential, name domain.ResourceName, replicas int) error
	Events(ctx context.Context, cred domain.Credential, object string) (string, error)
}
