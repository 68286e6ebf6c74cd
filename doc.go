// Package credpair provides a credential-based authentication engine issuing
// paired short-lived access tokens and longer-lived refresh tokens, with
// single-active-refresh-token-per-account rotation semantics.
//
// The package is designed for concurrent server workloads: Engine methods are
// safe to call from multiple goroutines after initialization through
// [Builder.Build].
//
// # Architecture boundaries
//
// credpair is the public surface. It exposes [Engine], [Builder], [Config],
// the [IdentityStore] contract, and value types. Flow orchestration, audit
// dispatch, and rate limiting live under internal/ and are never exported.
// The user record store itself is an external collaborator: hosts implement
// [IdentityStore] against their own database.
//
// # Token binding
//
// Every successful login or refresh rotates the pair: a new access/refresh
// pair is signed and the fingerprint of the new refresh token overwrites the
// identity's single fingerprint slot. The previous refresh token stops
// verifying at that moment. Two concurrent refreshes with the same token race
// last-write-wins on the slot; the engine does not linearize rotation per
// account.
//
// # What this package must NOT do
//
//   - Create, delete, or re-credential identities (the host service owns that).
//   - Expose which login or refresh check failed — failures are unified into
//     [ErrInvalidCredentials] and [ErrRefreshRejected].
//   - Log or persist plaintext passwords or raw refresh tokens.
package credpair
