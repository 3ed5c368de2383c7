package authgate

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Register validates the request, enforces identity uniqueness, and persists
// a new account with a bcrypt password hash. The returned summary never
// contains credential material.
func (e *Engine) Register(ctx context.Context, req RegisterRequest) (*AccountSummary, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}

	username := strings.TrimSpace(req.Username)
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if username == "" || email == "" || req.Password == "" {
		return nil, ErrMissingField
	}
	if len(req.Password) < e.config.Password.MinLength {
		return nil, ErrWeakPassword
	}
	if len(username) < 3 {
		return nil, ErrUsernameTooShort
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, ErrEmailInvalid
	}

	ip := clientIPFromContext(ctx)
	if err := e.registerLimiter.Enforce(ctx, email, ip); err != nil {
		mapped := mapThrottleErr(err, ErrRegisterRateLimited)
		if errors.Is(mapped, ErrRegisterRateLimited) {
			e.metricInc(MetricRegisterRateLimited)
			e.emitAudit(ctx, auditEventRegisterRateLimited, false, "", email, mapped, nil)
		}
		return nil, mapped
	}

	existing, err := e.store.FindByUsernameOrEmail(ctx, username, email)
	if err != nil && !errors.Is(err, ErrAccountNotFound) {
		return nil, wrapStoreErr(err)
	}
	if existing != nil {
		e.metricInc(MetricRegisterDuplicate)
		e.emitAudit(ctx, auditEventRegisterDuplicate, false, "", email, ErrDuplicateIdentity, nil)
		return nil, ErrDuplicateIdentity
	}

	hash, err := e.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	account := &Account{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// The store enforces uniqueness again on insert; a concurrent
	// registration between the lookup and here surfaces as a duplicate.
	if err := e.store.Insert(ctx, account); err != nil {
		if errors.Is(err, ErrDuplicateIdentity) {
			e.metricInc(MetricRegisterDuplicate)
			e.emitAudit(ctx, auditEventRegisterDuplicate, false, "", email, ErrDuplicateIdentity, nil)
			return nil, ErrDuplicateIdentity
		}
		return nil, wrapStoreErr(err)
	}

	e.metricInc(MetricRegisterSuccess)
	e.emitAudit(ctx, auditEventRegisterSuccess, true, account.ID, username, nil, nil)

	return &AccountSummary{
		ID:       account.ID,
		Username: account.Username,
		Email:    account.Email,
	}, nil
}
