// Package capkit provides small, pure utilities for deriving and
// redeeming Cap-style proof-of-work challenge sets used by the solve
// and verify flows.
//
// Scope:
//   - Derive the 32-bit seed from an opaque challenge token (FNV-1a)
//   - Expand a seed into an ordered challenge list via an Xorshift32
//     character stream
//   - Compute candidate digests for a (salt, nonce) pair and test them
//     against a difficulty
//   - Encode and decode the redeem payload exchanged with the
//     verification endpoint
//
// The pipeline is an externally fixed protocol: all arithmetic is
// 32-bit unsigned with explicit wraparound, and any deviation makes
// every produced solution worthless downstream. Changes here must be
// validated against the pinned fixtures in the package tests.
//
// Non-goals:
//   - No concurrency or scheduling; solving loops live with callers
//   - No network or storage dependencies
//   - No logging; keep functions small and deterministic
package capkit
