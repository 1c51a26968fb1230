package model

import "context"

// Identity represents the authenticated principal issued by the
// external identity provider. It has no lifecycle of its own here.
type Identity struct {
	UID   string
	Name  string
	Email string
}

// IsZero reports whether no principal is present.
func (i Identity) IsZero() bool {
	return i.UID == ""
}

// TokenSource yields a bearer token for the current principal.
// Implemented by the identity-provider adapter; the client core never
// mints tokens itself.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}
