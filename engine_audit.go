package authgate

import (
	"context"
	"errors"
	"time"
)

const (
	auditEventRegisterSuccess      = "account_register"
	auditEventRegisterDuplicate    = "account_register_duplicate"
	auditEventRegisterRateLimited  = "account_register_rate_limited"
	auditEventLoginSuccess         = "login_success"
	auditEventLoginFailure         = "login_failure"
	auditEventLoginRateLimited     = "login_rate_limited"
	auditEventResetRequest         = "password_reset_request"
	auditEventResetRequestUnknown  = "password_reset_request_unknown"
	auditEventResetRateLimited     = "password_reset_rate_limited"
	auditEventResetConfirmSuccess  = "password_reset_confirm"
	auditEventResetConfirmFailure  = "password_reset_confirm_failure"
	auditEventResetMailFailure     = "password_reset_mail_failure"
)

// AuditErrorCode is the stable machine-readable error tag carried on
// failed audit events.
type AuditErrorCode string

const (
	auditErrInvalidCredentials AuditErrorCode = "invalid_credentials"
	auditErrRateLimited        AuditErrorCode = "rate_limited"
	auditErrResetInvalid       AuditErrorCode = "reset_invalid"
	auditErrUserNotFound       AuditErrorCode = "user_not_found"
	auditErrDuplicate          AuditErrorCode = "duplicate"
	auditErrValidation         AuditErrorCode = "validation"
	auditErrUnavailable        AuditErrorCode = "backend_unavailable"
	auditErrInternal           AuditErrorCode = "internal_error"
)

func (e *Engine) emitAudit(
	ctx context.Context,
	eventType string,
	success bool,
	accountID string,
	identifier string,
	err error,
	metadata map[string]string,
) {
	if e == nil || e.audit == nil {
		return
	}

	event := AuditEvent{
		Timestamp:  time.Now().UTC(),
		EventType:  eventType,
		AccountID:  accountID,
		Identifier: identifier,
		IP:         clientIPFromContext(ctx),
		Success:    success,
		Metadata:   metadata,
	}
	if code := auditErrorCode(err); code != "" {
		event.Error = string(code)
	}

	e.audit.Emit(ctx, event)
}

func auditErrorCode(err error) AuditErrorCode {
	if err == nil {
		return ""
	}

	switch {
	case errors.Is(err, ErrInvalidCredentials):
		return auditErrInvalidCredentials
	case errors.Is(err, ErrLoginThrottled),
		errors.Is(err, ErrResetRateLimited),
		errors.Is(err, ErrRegisterRateLimited):
		return auditErrRateLimited
	case errors.Is(err, ErrResetInvalid),
		errors.Is(err, ErrNoPendingReset),
		errors.Is(err, ErrTokenInvalid):
		return auditErrResetInvalid
	case errors.Is(err, ErrAccountNotFound):
		return auditErrUserNotFound
	case errors.Is(err, ErrDuplicateIdentity):
		return auditErrDuplicate
	case errors.Is(err, ErrMissingField),
		errors.Is(err, ErrUsernameTooShort),
		errors.Is(err, ErrEmailInvalid),
		errors.Is(err, ErrWeakPassword):
		return auditErrValidation
	case errors.Is(err, ErrStoreUnavailable),
		errors.Is(err, ErrThrottleUnavailable),
		errors.Is(err, ErrMailUnavailable):
		return auditErrUnavailable
	default:
		return auditErrInternal
	}
}
