// Package password implements credential hashing and verification with scrypt,
// plus the fast fingerprint digest used for refresh-token binding.
//
// # Output format
//
// Hashes are encoded as a salt-delimited pair:
//
//	<hex salt>:<hex derived key>
//
// The salt is regenerated on every call to [Scrypt.Hash], so hashing the same
// password twice yields two different strings that both verify.
//
// # Backpressure
//
// scrypt derivation is CPU-bound. When [Config.MaxConcurrent] is positive the
// hasher admits at most that many concurrent derivations; callers waiting for
// a slot are released when their context is cancelled.
//
// # Architecture boundaries
//
// This package owns hashing, verification, and fingerprinting only. Where the
// resulting strings are stored is the caller's concern.
//
// # What this package must NOT do
//
//   - Store or retrieve credentials — callers supply plaintext and receive hashes.
//   - Import any other credpair package.
//   - Log plaintext passwords.
package password
