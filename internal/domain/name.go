package domain

import (
	"fmt"
	"strings"

	"k8s.io/apimachinery/pkg/util/validation"
)

const (
	// NamePrefix is the fixed first segment of every notebook resource name.
	NamePrefix = "nok"

	// MaxIdentityLength bounds the identity derived from credential claims.
	// Stricter than the general name bound so the composed resource name
	// keeps room for the user-chosen segment.
	MaxIdentityLength = 20

	// MaxResourceNameLength bounds the composed resource name. It doubles as
	// the Helm release name and the Kubernetes object name.
	MaxResourceNameLength = 40
)

// ValidName checks value against the resource naming grammar: one or more
// dot-separated segments of lowercase alphanumerics with interior hyphens,
// each segment starting and ending with an alphanumeric (DNS-1123 subdomain),
// bounded at maxLen. Returns value unchanged on success.
func ValidName(value string, maxLen int) (string, error) {
	if value == "" {
		return "", fmt.Errorf("%w: empty string", ErrInvalidName)
	}
	if len(value) > maxLen {
		return "", fmt.Errorf("%w: %q has more than %d characters", ErrInvalidName, value, maxLen)
	}
	if msgs := validation.IsDNS1123Subdomain(value); len(msgs) > 0 {
		return "", fmt.Errorf("%w: %q: %s", ErrInvalidName, value, strings.Join(msgs, "; "))
	}
	return value, nil
}

// Identity is a validated per-user name derived from credential claims.
// It uniquely determines the user's resource namespace prefix.
type Identity string

// NewIdentity validates localPart as an identity. The value must satisfy the
// naming grammar and the stricter identity length bound.
func NewIdentity(localPart string) (Identity, error) {
	value, err := ValidName(localPart, MaxIdentityLength)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrBadIdentity, err)
	}
	return Identity(value), nil
}

// ResourceName is the validated compound identifier shared by a notebook's
// Helm release and its cluster objects.
type ResourceName string

// NewNotebookName composes "<prefix>-<identity>-<userName>" and validates the
// whole against the naming grammar and the resource name length bound.
func NewNotebookName(id Identity, userName string) (ResourceName, error) {
	composed := fmt.Sprintf("%s-%s-%s", NamePrefix, id, userName)
	value, err := ValidName(composed, MaxResourceNameLength)
	if err != nil {
		return "", err
	}
	return ResourceName(value), nil
}

// ParseResourceName validates a caller-supplied resource name, for example
// one taken from a URL path segment. Fails fast before any cluster call.
func ParseResourceName(value string) (ResourceName, error) {
	validated, err := ValidName(value, MaxResourceNameLength)
	if err != nil {
		return "", err
	}
	if !strings.HasPrefix(validated, NamePrefix+"-") {
		return "", fmt.Errorf("%w: %q does not start with %q", ErrInvalidName, value, NamePrefix+"-")
	}
	return ResourceName(validated), nil
}

// PodName returns the name of the notebook's single pod. The chart deploys a
// StatefulSet with one replica, so the pod is always "<name>-0".
func (n ResourceName) PodName() string {
	return string(n) + "-0"
}

// StorageClaimName returns the name of the notebook's persistent volume
// claim, which the StatefulSet derives from its pod name.
func (n ResourceName) StorageClaimName() string {
	return "data-" + n.PodName()
}

// InstanceSelector returns the label selector identifying the cluster
// objects backing this notebook's release.
func (n ResourceName) InstanceSelector() string {
	return "app.kubernetes.io/instance=" + string(n)
}

// ListPattern returns the anchored release filter matching every notebook
// owned by id.
func ListPattern(id Identity) string {
	return fmt.Sprintf("^%s-%s-.+$", NamePrefix, id)
}

// ExactPattern returns the anchored release filter matching only n.
func (n ResourceName) ExactPattern() string {
	return fmt.Sprintf("^%s$", string(n))
}
