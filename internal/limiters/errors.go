package limiters

import "errors"

var (
	// ErrThrottled indicates the caller has exhausted its attempt budget.
	ErrThrottled = errors.New("throttled")
	// ErrBackendUnavailable indicates the Redis backend is unreachable.
	ErrBackendUnavailable = errors.New("limiter backend unavailable")
)
