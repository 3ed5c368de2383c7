package limiters

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// LoginThrottleConfig tunes the consecutive-failure login throttle.
//
// FailureWindow > 0 expires the counter that long after the first failure in
// a window. Zero means counters persist until the next successful login.
type LoginThrottleConfig struct {
	MaxAttempts   int
	FailureWindow time.Duration
}

// LoginThrottle tracks consecutive failed login attempts per submitted
// identity and blocks further attempts once the threshold is reached. The
// counter lives in Redis, so every instance of the host process shares one
// view and increments are atomic per identity.
type LoginThrottle struct {
	redis  redis.UniversalClient
	config LoginThrottleConfig
}

// NewLoginThrottle creates a login throttle backed by the given Redis client.
func NewLoginThrottle(redisClient redis.UniversalClient, cfg LoginThrottleConfig) *LoginThrottle {
	return &LoginThrottle{
		redis:  redisClient,
		config: cfg,
	}
}

func (l *LoginThrottle) key(identity string) string {
	return "lt:" + identity
}

// Check reports whether the identity may attempt a login. Returns
// [ErrThrottled] once the failure count has reached the threshold. The check
// runs before any credential lookup, so unknown identities are gated too.
func (l *LoginThrottle) Check(ctx context.Context, identity string) error {
	count, err := l.redis.Get(ctx, l.key(identity)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}

	if count >= int64(l.config.MaxAttempts) {
		return ErrThrottled
	}

	return nil
}

// RecordFailure increments the failure counter, creating it at 1 if absent.
func (l *LoginThrottle) RecordFailure(ctx context.Context, identity string) error {
	count, err := l.redis.Incr(ctx, l.key(identity)).Result()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}

	// Rolling window: the TTL is anchored at the first failure so the
	// counter decays even when no success ever arrives.
	if count == 1 && l.config.FailureWindow > 0 {
		if err := l.redis.Expire(ctx, l.key(identity), l.config.FailureWindow).Err(); err != nil {
			return fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
		}
	}

	return nil
}

// RecordSuccess removes the failure counter entirely.
func (l *LoginThrottle) RecordSuccess(ctx context.Context, identity string) error {
	if err := l.redis.Del(ctx, l.key(identity)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	return nil
}

// Attempts returns the current failure count for an identity. Missing keys
// return zero and do not reveal account existence.
func (l *LoginThrottle) Attempts(ctx context.Context, identity string) (int, error) {
	count, err := l.redis.Get(ctx, l.key(identity)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	if count < 0 {
		return 0, nil
	}
	return int(count), nil
}
