package authgate

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/shahnawazpatel23/authgate/internal"
)

// RequestPasswordReset generates a single-use reset code for the account
// behind email, stores its SHA-256 digest with an expiry, and mails the code.
// The return value is identical whether or not the address has an account;
// unknown addresses additionally pay a small random delay so response time
// does not reveal account existence either.
func (e *Engine) RequestPasswordReset(ctx context.Context, email string) error {
	if err := e.ready(); err != nil {
		return err
	}

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return ErrMissingField
	}

	ip := clientIPFromContext(ctx)
	if err := e.resetLimiter.CheckRequest(ctx, email, ip); err != nil {
		mapped := mapThrottleErr(err, ErrResetRateLimited)
		if mapped == ErrResetRateLimited {
			e.metricInc(MetricResetRequestRateLimited)
			e.emitAudit(ctx, auditEventResetRateLimited, false, "", email, mapped,
				map[string]string{"phase": "request"})
		}
		return mapped
	}

	account, err := e.store.FindByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, ErrAccountNotFound) {
			return wrapStoreErr(err)
		}
		e.emitAudit(ctx, auditEventResetRequestUnknown, false, "", email, ErrAccountNotFound, nil)
		if derr := sleepEnumerationDelay(ctx); derr != nil {
			return derr
		}
		return nil
	}

	code, err := internal.NewResetCode(e.config.Reset.CodeLength)
	if err != nil {
		return fmt.Errorf("generate reset code: %w", err)
	}
	digest := internal.HashResetCode(code)
	expiresAt := time.Now().UTC().Add(e.config.Reset.CodeTTL)

	if err := e.store.SetResetDigest(ctx, account.ID, digest, expiresAt, time.Now().UTC()); err != nil {
		return wrapStoreErr(err)
	}

	// The digest is committed before the mail leaves; a delivery failure
	// does not roll it back and does not change the caller-visible result.
	if err := e.mailer.Send(ctx, account.Email, resetMailSubject, resetMailBody(account.Username, code, e.config.Reset.CodeTTL)); err != nil {
		e.metricInc(MetricMailFailure)
		e.emitAudit(ctx, auditEventResetMailFailure, false, account.ID, email,
			fmt.Errorf("%w: %v", ErrMailUnavailable, err), nil)
		return nil
	}

	e.metricInc(MetricResetRequest)
	e.emitAudit(ctx, auditEventResetRequest, true, account.ID, email, nil, nil)

	return nil
}

// ConfirmPasswordReset consumes a reset code and installs the new password.
// Matching the stored digest, clearing it, and updating the password hash
// happen in one store transition, so a code can succeed at most once.
func (e *Engine) ConfirmPasswordReset(ctx context.Context, code, newPassword string) error {
	if err := e.ready(); err != nil {
		return err
	}

	code = internal.NormalizeResetCode(code)
	if code == "" || newPassword == "" {
		return ErrMissingField
	}
	if len(newPassword) < e.config.Password.MinLength {
		return ErrWeakPassword
	}

	ip := clientIPFromContext(ctx)
	if err := e.resetLimiter.CheckConfirm(ctx, ip); err != nil {
		mapped := mapThrottleErr(err, ErrResetRateLimited)
		if mapped == ErrResetRateLimited {
			e.metricInc(MetricResetConfirmRateLimited)
			e.emitAudit(ctx, auditEventResetRateLimited, false, "", "", mapped,
				map[string]string{"phase": "confirm"})
		}
		return mapped
	}

	newHash, err := e.hasher.Hash(newPassword)
	if err != nil {
		return err
	}

	digest := internal.HashResetCode(code)
	account, err := e.store.CompleteReset(ctx, digest, newHash, time.Now().UTC())
	if err != nil {
		if errors.Is(err, ErrNoPendingReset) {
			e.metricInc(MetricResetConfirmFailure)
			e.emitAudit(ctx, auditEventResetConfirmFailure, false, "", "", ErrResetInvalid, nil)
			return ErrResetInvalid
		}
		return wrapStoreErr(err)
	}

	// Stale failure counters should not lock out the fresh password.
	_ = e.loginThrottle.RecordSuccess(ctx, strings.ToLower(account.Username))

	if err := e.mailer.Send(ctx, account.Email, confirmMailSubject, confirmMailBody(account.Username)); err != nil {
		e.metricInc(MetricMailFailure)
		e.emitAudit(ctx, auditEventResetMailFailure, false, account.ID, account.Email,
			fmt.Errorf("%w: %v", ErrMailUnavailable, err), nil)
	}

	e.metricInc(MetricResetConfirmSuccess)
	e.emitAudit(ctx, auditEventResetConfirmSuccess, true, account.ID, account.Email, nil, nil)

	return nil
}

const (
	resetMailSubject   = "Password reset code"
	confirmMailSubject = "Your password was changed"
)

func resetMailBody(username, code string, ttl time.Duration) string {
	return fmt.Sprintf(
		"Hi %s,\n\nYour password reset code is: %s\n\nThe code expires in %s. If you did not request a reset, you can ignore this message.\n",
		username, code, ttl,
	)
}

func confirmMailBody(username string) string {
	return fmt.Sprintf(
		"Hi %s,\n\nYour password was changed just now. If this was not you, request a new reset code immediately.\n",
		username,
	)
}

// sleepEnumerationDelay pauses for a random 20-40ms so the fast path for
// unknown addresses is not distinguishable from digest generation and
// storage.
func sleepEnumerationDelay(ctx context.Context) error {
	n, err := rand.Int(rand.Reader, big.NewInt(21))
	if err != nil {
		return err
	}

	delay := time.Duration(20+n.Int64()) * time.Millisecond
	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
