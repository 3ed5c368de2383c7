package limiters

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RegisterLimiterConfig tunes the optional account-creation throttle.
type RegisterLimiterConfig struct {
	Enabled     bool
	MaxAttempts int
	Cooldown    time.Duration
}

// RegisterLimiter bounds account creation per identifier and per IP within a
// fixed window. Disabled instances accept everything.
type RegisterLimiter struct {
	redis  redis.UniversalClient
	config RegisterLimiterConfig
}

// NewRegisterLimiter creates a registration limiter backed by the given
// Redis client.
func NewRegisterLimiter(redisClient redis.UniversalClient, cfg RegisterLimiterConfig) *RegisterLimiter {
	return &RegisterLimiter{
		redis:  redisClient,
		config: cfg,
	}
}

// Enforce checks and charges the registration budget for an identifier+IP
// pair.
func (l *RegisterLimiter) Enforce(ctx context.Context, identifier, ip string) error {
	if !l.config.Enabled {
		return nil
	}

	if identifier != "" {
		if err := l.enforceKey(ctx, "reg:"+identifier); err != nil {
			return err
		}
	}
	if ip != "" {
		if err := l.enforceKey(ctx, "reg:ip:"+ip); err != nil {
			return err
		}
	}
	return nil
}

func (l *RegisterLimiter) enforceKey(ctx context.Context, key string) error {
	count, err := l.redis.Incr(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}

	if count == 1 {
		if err := l.redis.Expire(ctx, key, l.config.Cooldown).Err(); err != nil {
			return fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
		}
	}

	if count > int64(l.config.MaxAttempts) {
		return ErrThrottled
	}

	return nil
}
