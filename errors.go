package credpair

import "errors"

var (
	// ErrInvalidCredentials is returned by Login for unknown emails and wrong
	// passwords alike, so callers cannot probe for account existence.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrRefreshRejected is returned by Refresh for missing identities, empty
	// fingerprint slots, and fingerprint mismatches alike.
	ErrRefreshRejected = errors.New("refresh rejected")
	// ErrIdentityMissing is the store-level sentinel for an absent identity.
	// IdentityStore implementations return it from lookups and updates.
	ErrIdentityMissing = errors.New("identity missing")
	// ErrConfigInvalid wraps configuration problems detected at Build time.
	// Missing signing secrets are fatal here, never per-call.
	ErrConfigInvalid = errors.New("invalid configuration")
	// ErrEngineNotReady is returned when an Engine method is called on an
	// engine that was not produced by Builder.Build.
	ErrEngineNotReady = errors.New("engine not initialized")
	// ErrLoginRateLimited is returned when the login attempt budget for an
	// email is exhausted.
	ErrLoginRateLimited = errors.New("login rate limited")
	// ErrRefreshRateLimited is returned when the refresh attempt budget for
	// an identity is exhausted.
	ErrRefreshRateLimited = errors.New("refresh rate limited")
	// ErrTokenInvalid is returned by ValidateAccess and the token-driven
	// convenience methods when a presented token fails verification.
	ErrTokenInvalid = errors.New("invalid token")
)
