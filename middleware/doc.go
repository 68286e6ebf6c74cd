// Package middleware exposes HTTP middleware adapters for access token
// enforcement built on top of credpair.Engine validation.
//
// # Guards
//
//   - [RequireAuth] — validates the bearer access token on every request.
//   - [RequireRole] — RequireAuth plus a role membership check.
//
// Each guard reads the Authorization header, calls Engine.ValidateAccess,
// and injects validated claims into the request context.
//
// # Architecture boundaries
//
// This package translates HTTP semantics into Engine calls. It does NOT
// implement authentication logic itself — all decisions are delegated to
// Engine.ValidateAccess.
//
// # What this package must NOT do
//
//   - Parse or create JWTs directly (delegates to Engine).
//   - Touch identity storage (Engine owns all I/O).
//   - Make authorization decisions beyond pass/reject from validation and
//     the declared role check.
package middleware
