// Package internal holds reset-code primitives shared by the engine and its
// tests: code generation from a CSPRNG, normalization of user-submitted
// codes, and the SHA-256 digest that is the only persisted form of a code.
package internal
