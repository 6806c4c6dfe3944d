package domain

// Credential is an opaque bearer string, meaningful only to the cluster.
// Its structured claims are advisory: the only trust decision is the
// cluster's own permission check, never a local inspection of this value.
type Credential string

// Empty reports whether no credential was presented.
func (c Credential) Empty() bool {
	return c == ""
}
