package authgate

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Login verifies the username/password pair and issues a session token.
// Unknown usernames and wrong passwords both return
// [ErrInvalidCredentials]; the throttle is checked before the account
// lookup so throttled identities cost no store round-trip.
func (e *Engine) Login(ctx context.Context, username, passwd string) (*LoginResult, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}

	username = strings.TrimSpace(username)
	if username == "" || passwd == "" {
		return nil, ErrMissingField
	}
	// Stores match usernames case-insensitively, so the throttle must key
	// on the lowercased identity or case variants would each get a fresh
	// attempt budget against the same account.
	username = strings.ToLower(username)

	if err := e.loginThrottle.Check(ctx, username); err != nil {
		mapped := mapThrottleErr(err, ErrLoginThrottled)
		if mapped == ErrLoginThrottled {
			e.metricInc(MetricLoginRateLimited)
			e.emitAudit(ctx, auditEventLoginRateLimited, false, "", username, mapped, nil)
		}
		return nil, mapped
	}

	account, err := e.store.FindByUsername(ctx, username)
	if err != nil {
		if !errors.Is(err, ErrAccountNotFound) {
			return nil, wrapStoreErr(err)
		}
		// Burn a hash verification so unknown usernames take as long as
		// wrong passwords. The result is ignored.
		_, _ = e.hasher.Verify(passwd, e.decoyHash)
		return nil, e.failLogin(ctx, username, "", "user_not_found")
	}

	ok, err := e.hasher.Verify(passwd, account.PasswordHash)
	if err != nil || !ok {
		return nil, e.failLogin(ctx, username, account.ID, "password_mismatch")
	}

	// A successful login clears the identity's failure counter.
	_ = e.loginThrottle.RecordSuccess(ctx, username)

	token, err := e.jwtManager.Issue(account.ID, account.Username)
	if err != nil {
		return nil, fmt.Errorf("issue session token: %w", err)
	}

	e.metricInc(MetricLoginSuccess)
	e.emitAudit(ctx, auditEventLoginSuccess, true, account.ID, username, nil, nil)

	return &LoginResult{
		Token: token,
		Account: AccountSummary{
			ID:       account.ID,
			Username: account.Username,
			Email:    account.Email,
		},
	}, nil
}

func (e *Engine) failLogin(ctx context.Context, username, accountID, reason string) error {
	if err := e.loginThrottle.RecordFailure(ctx, username); err != nil {
		return mapThrottleErr(err, ErrLoginThrottled)
	}
	e.metricInc(MetricLoginFailure)
	e.emitAudit(ctx, auditEventLoginFailure, false, accountID, username, ErrInvalidCredentials,
		map[string]string{"reason": reason})
	return ErrInvalidCredentials
}

// VerifySession checks a session token's signature and time claims and
// returns its decoded claims. All failure modes map to [ErrTokenInvalid].
func (e *Engine) VerifySession(ctx context.Context, token string) (*SessionClaims, error) {
	if e == nil || e.jwtManager == nil {
		return nil, ErrEngineNotReady
	}
	_ = ctx

	start := time.Now()
	claims, err := e.jwtManager.Verify(token)
	if e.metrics != nil {
		e.metrics.Observe(MetricVerifyLatency, time.Since(start))
	}
	if err != nil {
		return nil, ErrTokenInvalid
	}

	out := &SessionClaims{
		UserID:   claims.UID,
		Username: claims.Username,
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out, nil
}
