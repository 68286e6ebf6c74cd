package credpair

import (
	"context"
	"strings"
)

// Role names a coarse authorization group carried in token claims. The
// engine treats roles as opaque; evaluation happens in the host service.
type Role string

const (
	// RoleUser is the default role for regular accounts.
	RoleUser Role = "user"
	// RoleAdmin marks administrative accounts.
	RoleAdmin Role = "admin"
)

// Identity is the account view the engine operates on. Hosts map their user
// records into this shape inside their [IdentityStore] implementation.
//
// PasswordHash is the salt:key encoding produced by the password package.
// RefreshFingerprint is the single slot binding the currently active refresh
// token; the empty string means no active refresh token.
type Identity struct {
	ID                 string
	Email              string
	Roles              []Role
	PasswordHash       string
	RefreshFingerprint string
}

// TokenPair is one freshly issued access/refresh pair.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// IdentityStore is the persistence contract the host must implement. The
// engine never creates or deletes identities and never touches any field but
// the refresh fingerprint.
//
// Lookups and updates targeting an absent identity return
// [ErrIdentityMissing] (possibly wrapped). Transient backend errors should be
// retried or translated inside the implementation; whatever it returns is
// propagated unmodified to the engine's caller.
type IdentityStore interface {
	FindByID(ctx context.Context, id string) (Identity, error)
	FindByEmail(ctx context.Context, email string) (Identity, error)

	// UpdateRefreshFingerprint overwrites the identity's fingerprint slot.
	// The empty string clears it. The update must be atomic per identity.
	UpdateRefreshFingerprint(ctx context.Context, id, fingerprint string) error
}

// NormalizeEmail lowercases and trims an email for lookups, matching the
// normalization the host applies when storing identities.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func roleStrings(roles []Role) []string {
	out := make([]string, len(roles))
	for i, r := range roles {
		out[i] = string(r)
	}
	return out
}
