// Package token derives user identities from credential claims. The decode
// is purely structural: signature verification is the cluster's job,
// performed by the authorization probe, so nothing here may ever gate
// access on its own.
package token

import (
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/sufield/nok/internal/domain"
	"github.com/sufield/nok/internal/ports"
)

// DefaultCacheSize bounds the resolver's identity cache.
const DefaultCacheSize = 32

// Resolver extracts the local part of the credential's email claim and
// validates it as an identity.
//
// Results are cached keyed by the exact credential value, with
// capacity-based LRU eviction only. A credential whose claims change within
// its lifetime can therefore hit a stale cached identity until evicted; in
// practice tokens are immutable and a changed claim set means a new token.
type Resolver struct {
	cache *lru.Cache[domain.Credential, domain.Identity]
}

var _ ports.IdentityResolver = (*Resolver)(nil)

// NewResolver builds a resolver with a bounded identity cache.
func NewResolver(cacheSize int) (*Resolver, error) {
	cache, err := lru.New[domain.Credential, domain.Identity](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("could not build identity cache: %w", err)
	}
	return &Resolver{cache: cache}, nil
}

// Resolve decodes the credential's claims without verifying any signature
// and derives a validated identity from the email claim's local part.
func (r *Resolver) Resolve(cred domain.Credential) (domain.Identity, error) {
	if id, ok := r.cache.Get(cred); ok {
		return id, nil
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(string(cred), claims); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrBadIdentity, err)
	}

	email, ok := claims["email"].(string)
	if !ok || email == "" {
		return "", fmt.Errorf("%w: credential carries no email claim", domain.ErrBadIdentity)
	}

	localPart, _, _ := strings.Cut(email, "@")
	id, err := domain.NewIdentity(localPart)
	if err != nil {
		return "", err
	}

	r.cache.Add(cred, id)
	return id, nil
}
