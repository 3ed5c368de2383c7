// Package password provides the one-way password hashing schemes accepted by
// the engine: bcrypt (default, matching the cost-12 policy of the service
// this engine fronts) and Argon2id with PHC-encoded output.
//
// Both schemes embed their salt and parameters in the digest, report a
// mismatch as (false, nil), and error only on malformed digests.
package password
