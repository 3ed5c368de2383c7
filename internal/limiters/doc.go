// Package limiters implements the Redis-backed throttles used by the engine:
// the consecutive-failure login throttle and fixed-window budgets for
// password reset and account creation.
//
// All limiters key on caller-supplied identity strings, not account IDs, so
// probes against nonexistent accounts are throttled exactly like real ones.
//
// # What this package must NOT do
//
//   - Decide which error the caller surfaces; it returns its own sentinels.
//   - Import authgate or any sibling internal package.
package limiters
