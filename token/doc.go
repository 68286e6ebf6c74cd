// Package token mints and verifies the access/refresh JWT pair with
// independent signing secrets and lifetimes per token class, and strict
// validation semantics suitable for low-latency authentication paths.
package token
