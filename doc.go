// Package authgate manages username/password credentials end to end:
// registration, login with a Redis-backed failure throttle, email-code
// password resets with single-use SHA-256 digests, and stateless JWT
// session tokens.
//
// The package is designed for concurrent server workloads: Engine methods
// are safe to call from multiple goroutines after initialization through
// [Builder.Build].
//
// # Architecture boundaries
//
// authgate is the public surface. It exposes [Engine], [Builder], [Config],
// and value types (LoginResult, SessionClaims, MetricsSnapshot). Account
// persistence is injected through [CredentialStore]; the store/memory and
// store/postgres packages ship ready-made implementations. Throttling,
// reset-code generation, and audit dispatch live under internal/ and are
// never exported.
//
// # Security contract
//
//   - Plaintext passwords and reset codes are never persisted; only bcrypt
//     digests and SHA-256 reset digests reach the store.
//   - Login does not reveal whether an identity exists, by error value or
//     by timing.
//   - Reset codes are single-use: confirmation consumes the digest in the
//     same atomic store transition that installs the new password hash.
package authgate
