// Package rate provides the Redis-backed fixed-window counters used to
// throttle repeated login and refresh failures.
//
// # Window semantics
//
// Fixed-window counters: INCR + conditional EXPIRE on first hit. Key prefixes:
//   - cp:rl:login:   — login failures per normalized email
//   - cp:rl:refresh: — refresh failures per identity ID
//
// # What this package must NOT do
//
//   - Decide when throttling applies (the Engine wires it per operation).
//   - Be imported outside the credpair module.
package rate
