package authgate

import "errors"

var (
	// ErrEngineNotReady is returned when an Engine method is called on a nil
	// or unbuilt engine.
	ErrEngineNotReady = errors.New("engine not initialized")

	// ErrMissingField is returned when a required input field is absent.
	ErrMissingField = errors.New("required field missing")
	// ErrUsernameTooShort is returned when a username is shorter than three
	// characters.
	ErrUsernameTooShort = errors.New("username must be at least 3 characters")
	// ErrEmailInvalid is returned when an email address fails the structural
	// format check.
	ErrEmailInvalid = errors.New("invalid email address")
	// ErrWeakPassword is returned when a password is shorter than the
	// configured minimum length.
	ErrWeakPassword = errors.New("password below minimum length")

	// ErrDuplicateIdentity is returned when the username or email of a new
	// account is already taken.
	ErrDuplicateIdentity = errors.New("username or email already registered")
	// ErrAccountNotFound is returned by CredentialStore lookups that match
	// no account. The engine never exposes it to login callers.
	ErrAccountNotFound = errors.New("account not found")

	// ErrInvalidCredentials is returned for both unknown identities and
	// wrong passwords. The two cases are deliberately indistinguishable.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrLoginThrottled is returned once the consecutive-failure threshold
	// for an identity has been reached.
	ErrLoginThrottled = errors.New("too many login attempts")

	// ErrResetInvalid is returned when a reset code is unknown, expired, or
	// already consumed. The three cases are deliberately indistinguishable.
	ErrResetInvalid = errors.New("invalid or expired reset code")
	// ErrResetRateLimited is returned when reset requests or confirmations
	// exceed their fixed-window budget.
	ErrResetRateLimited = errors.New("password reset rate limited")
	// ErrRegisterRateLimited is returned when account creation exceeds its
	// fixed-window budget.
	ErrRegisterRateLimited = errors.New("registration rate limited")
	// ErrNoPendingReset is returned by CredentialStore.CompleteReset when no
	// account carries a matching unexpired reset digest.
	ErrNoPendingReset = errors.New("no pending reset matches")

	// ErrTokenInvalid is returned when a session token is malformed, carries
	// a bad signature, or has expired.
	ErrTokenInvalid = errors.New("invalid session token")

	// ErrStoreUnavailable wraps credential store failures.
	ErrStoreUnavailable = errors.New("credential store unavailable")
	// ErrThrottleUnavailable wraps throttle backend failures.
	ErrThrottleUnavailable = errors.New("throttle backend unavailable")
	// ErrMailUnavailable wraps mail transport failures.
	ErrMailUnavailable = errors.New("mail transport unavailable")
)
