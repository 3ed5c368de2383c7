// Package jwt issues and verifies the signed session tokens minted after a
// successful login.
//
// Tokens are stateless bearer credentials: validity is purely cryptographic
// and time-based, with no server-side revocation list. A token issued before
// a password reset therefore stays valid until its natural expiry.
//
// # What this package must NOT do
//
//   - Perform I/O; signing and verification are pure CPU.
//   - Import authgate or any internal package.
package jwt
