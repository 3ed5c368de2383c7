package limiters

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ResetLimiterConfig tunes the fixed-window budgets for password reset
// requests and confirmations.
type ResetLimiterConfig struct {
	RequestMaxAttempts       int
	RequestWindow            time.Duration
	ConfirmMaxAttempts       int
	ConfirmWindow            time.Duration
	EnableIdentifierThrottle bool
	EnableIPThrottle         bool
}

// ResetLimiter bounds how often reset codes can be requested per identifier
// and how often confirmations can be attempted per IP. Request throttling
// keys on the submitted email so mail flooding is capped even for addresses
// with no account; confirm throttling keys on IP because the submitted code
// carries no identity.
type ResetLimiter struct {
	redis  redis.UniversalClient
	config ResetLimiterConfig
}

// NewResetLimiter creates a reset limiter backed by the given Redis client.
func NewResetLimiter(redisClient redis.UniversalClient, cfg ResetLimiterConfig) *ResetLimiter {
	return &ResetLimiter{
		redis:  redisClient,
		config: cfg,
	}
}

// CheckRequest enforces the reset-request budget for an identifier+IP pair.
func (l *ResetLimiter) CheckRequest(ctx context.Context, identifier, ip string) error {
	if l.config.EnableIdentifierThrottle && identifier != "" {
		if err := l.enforceFixedWindow(ctx, "rst:req:"+identifier, l.config.RequestMaxAttempts, l.config.RequestWindow); err != nil {
			return err
		}
	}
	if l.config.EnableIPThrottle && ip != "" {
		if err := l.enforceFixedWindow(ctx, "rst:reqip:"+ip, l.config.RequestMaxAttempts, l.config.RequestWindow); err != nil {
			return err
		}
	}
	return nil
}

// CheckConfirm enforces the confirmation-attempt budget for an IP.
func (l *ResetLimiter) CheckConfirm(ctx context.Context, ip string) error {
	if l.config.EnableIPThrottle && ip != "" {
		if err := l.enforceFixedWindow(ctx, "rst:cfmip:"+ip, l.config.ConfirmMaxAttempts, l.config.ConfirmWindow); err != nil {
			return err
		}
	}
	return nil
}

func (l *ResetLimiter) enforceFixedWindow(ctx context.Context, key string, maxAttempts int, window time.Duration) error {
	count, err := l.redis.Incr(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}

	// Fixed-window semantics: set TTL only for the first hit in the window.
	if count == 1 {
		if err := l.redis.Expire(ctx, key, window).Err(); err != nil {
			return fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
		}
	}

	if count > int64(maxAttempts) {
		return ErrThrottled
	}

	return nil
}
