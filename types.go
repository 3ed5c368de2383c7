package authgate

import (
	"context"
	"time"
)

// Account is the durable credential record managed through [CredentialStore].
// PasswordHash is the only stored credential material; plaintext passwords
// and reset codes never reach the store.
type Account struct {
	ID           string
	Username     string
	Email        string // stored lowercase
	PasswordHash string
	Reset        *PendingReset // nil when no reset is pending
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// PendingReset holds the irreversible digest and expiry of an outstanding
// password reset code. Digest and expiry travel together: consuming a code
// clears the whole struct.
type PendingReset struct {
	Digest    [32]byte
	ExpiresAt time.Time
}

// AccountSummary is the caller-visible slice of an account. It never carries
// password or reset material.
type AccountSummary struct {
	ID       string
	Username string
	Email    string
}

// RegisterRequest is the input for [Engine.Register].
type RegisterRequest struct {
	Username string
	Email    string
	Password string
}

// LoginResult is returned by [Engine.Login] on success.
type LoginResult struct {
	Token   string
	Account AccountSummary
}

// SessionClaims is the decoded content of a verified session token.
type SessionClaims struct {
	UserID    string
	Username  string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// CredentialStore is the interface callers implement to persist accounts.
// Implementations must enforce username and email uniqueness on Insert and
// surface conflicts as [ErrDuplicateIdentity]. Lookups that match nothing
// return [ErrAccountNotFound]. See store/memory and store/postgres for the
// bundled implementations.
type CredentialStore interface {
	FindByUsername(ctx context.Context, username string) (*Account, error)
	FindByEmail(ctx context.Context, email string) (*Account, error)
	// FindByUsernameOrEmail matches either identity column; email comparison
	// is against the normalized lowercase form.
	FindByUsernameOrEmail(ctx context.Context, username, email string) (*Account, error)
	Insert(ctx context.Context, account *Account) error
	// SetResetDigest records a pending reset, overwriting any prior one.
	SetResetDigest(ctx context.Context, accountID string, digest [32]byte, expiresAt, now time.Time) error
	// CompleteReset atomically clears the pending reset and installs the new
	// password hash on the single account whose stored digest matches and has
	// not expired at now. Returns [ErrNoPendingReset] when no account
	// qualifies. Match, clear, and update are one transition: two concurrent
	// calls with the same digest cannot both succeed.
	CompleteReset(ctx context.Context, digest [32]byte, newPasswordHash string, now time.Time) (*Account, error)
}

// Hasher is the one-way password hashing capability. Verify reports a
// mismatch as (false, nil); it returns an error only for malformed digests.
type Hasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, digest string) (bool, error)
}

// Mailer delivers out-of-band messages such as reset codes. A Send failure
// never rolls back state committed before the call.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}
