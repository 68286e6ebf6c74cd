// Package flows contains pure-function orchestrators for every Engine operation.
//
// Each flow function (RunLogin, RunRefresh, RunLogout) accepts a typed
// dependency struct and returns a result carrying either tokens or a failure
// kind. Failure kinds classify what went wrong for metrics and audit; the
// root package collapses them into the unified public errors so callers can
// never distinguish unknown-account from bad-credential outcomes.
//
// # Architecture boundaries
//
// Flow functions coordinate the hasher, the token issuer, the identity store
// and the rate limiter through injected functions. They do NOT own any of
// these resources — ownership stays with the Engine.
//
// # What this package must NOT do
//
//   - Hold mutable state between calls.
//   - Import the root credpair package (to avoid import cycles).
//   - Perform I/O directly — all I/O is mediated through dependencies.
package flows
