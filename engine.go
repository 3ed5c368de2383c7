package authgate

import (
	"errors"
	"fmt"

	"github.com/shahnawazpatel23/authgate/internal/audit"
	"github.com/shahnawazpatel23/authgate/internal/limiters"
	"github.com/shahnawazpatel23/authgate/jwt"
)

// Engine is the credential and reset-token lifecycle manager. Build one
// through [Builder] and treat it as immutable afterwards; all methods are
// safe for concurrent use.
type Engine struct {
	config          Config
	store           CredentialStore
	hasher          Hasher
	mailer          Mailer
	jwtManager      *jwt.Manager
	loginThrottle   *limiters.LoginThrottle
	resetLimiter    *limiters.ResetLimiter
	registerLimiter *limiters.RegisterLimiter
	audit           *audit.Dispatcher
	metrics         *Metrics

	// decoyHash is verified against for unknown identities so login cost
	// does not reveal whether an account exists.
	decoyHash string
}

// Close flushes and stops the audit dispatcher. The engine must not be used
// after Close.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	e.audit.Close()
}

// AuditDropped reports how many audit events were discarded because the
// dispatcher buffer was full.
func (e *Engine) AuditDropped() uint64 {
	if e == nil {
		return 0
	}
	return e.audit.Dropped()
}

// MetricsSnapshot returns a point-in-time copy of the engine's counters.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil || e.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return e.metrics.Snapshot()
}

func (e *Engine) metricInc(id MetricID) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Inc(id)
}

func (e *Engine) ready() error {
	if e == nil || e.store == nil {
		return ErrEngineNotReady
	}
	return nil
}

// wrapStoreErr keeps sentinel errors intact and tags everything else as a
// backend failure.
func wrapStoreErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrAccountNotFound) ||
		errors.Is(err, ErrDuplicateIdentity) ||
		errors.Is(err, ErrNoPendingReset) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
}

func mapThrottleErr(err error, limited error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, limiters.ErrThrottled):
		return limited
	default:
		return fmt.Errorf("%w: %v", ErrThrottleUnavailable, err)
	}
}
