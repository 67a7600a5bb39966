// Package auth resolves bearer tokens to owner identities.
package auth

import (
	"context"
	"errors"
)

// ErrNoIdentity is returned when a token is missing or unknown. Callers
// treat it as "no authenticated user", never as a crash.
var ErrNoIdentity = errors.New("no authenticated identity")

// Resolver maps a bearer token to the acting owner id.
type Resolver interface {
	Resolve(ctx context.Context, token string) (string, error)
}

// StaticResolver resolves tokens from a fixed token -> owner map, the
// deployment shape used when accounts are provisioned through config.
type StaticResolver struct {
	tokens map[string]string
}

// NewStaticResolver copies the given token -> owner map.
func NewStaticResolver(tokens map[string]string) *StaticResolver {
	m := make(map[string]string, len(tokens))
	for t, owner := range tokens {
		m[t] = owner
	}
	return &StaticResolver{tokens: m}
}

// Resolve returns the owner id for token, or ErrNoIdentity.
func (r *StaticResolver) Resolve(_ context.Context, token string) (string, error) {
	if token == "" {
		return "", ErrNoIdentity
	}
	owner, ok := r.tokens[token]
	if !ok {
		return "", ErrNoIdentity
	}
	return owner, nil
}
