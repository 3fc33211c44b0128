// internal/auth/auth.go
// Static token authentication: resolves client credentials to identities.
package auth

import "errors"

// ReservedIdentity is the sender name the relay uses for its own
// announcements. No credential may ever resolve to it.
const ReservedIdentity = "SYSTEM"

// ErrUnknownToken is returned for credentials outside the configured set.
var ErrUnknownToken = errors.New("unknown token")

// Resolver maps a presented credential to a stable identity.
type Resolver interface {
	Resolve(token string) (string, error)
}

// StaticResolver authenticates against a fixed token table.
type StaticResolver struct {
	tokens map[string]string
}

// NewStaticResolver copies the token table, dropping empty entries and
// any mapping to the reserved identity.
func NewStaticResolver(tokens map[string]string) *StaticResolver {
	m := make(map[string]string, len(tokens))
	for token, identity := range tokens {
		if token == "" || identity == "" || identity == ReservedIdentity {
			continue
		}
		m[token] = identity
	}
	return &StaticResolver{tokens: m}
}

// Resolve returns the identity for a credential, or ErrUnknownToken.
func (r *StaticResolver) Resolve(token string) (string, error) {
	identity, ok := r.tokens[token]
	if !ok {
		return "", ErrUnknownToken
	}
	return identity, nil
}
