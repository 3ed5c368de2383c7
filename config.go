package authgate

import (
	"errors"
	"time"
)

// Config carries every tunable of the engine. Populate it once, pass it to
// [Builder.WithConfig], and treat it as immutable afterwards.
type Config struct {
	Session  SessionConfig
	Password PasswordConfig
	Throttle ThrottleConfig
	Reset    ResetConfig
	Register RegisterConfig
	Audit    AuditConfig
	Metrics  MetricsConfig
}

// SessionConfig controls session token issuance and verification.
type SessionConfig struct {
	TokenTTL      time.Duration
	SigningMethod string // "hs256" (default) or "ed25519"
	Secret        []byte // hs256 signing secret
	PrivateKey    []byte // ed25519 seed or private key
	PublicKey     []byte // ed25519 public key
	Issuer        string
	Leeway        time.Duration
}

// PasswordConfig controls the default bcrypt hasher and the password policy.
type PasswordConfig struct {
	BcryptCost int
	MinLength  int
}

// ThrottleConfig controls the consecutive-failure login throttle.
//
// FailureWindow bounds how long failure counters live without a successful
// login. Zero keeps counters until the next success, which matches a plain
// in-process attempt map but grows without decay; the default applies a
// rolling window instead.
type ThrottleConfig struct {
	MaxLoginAttempts int
	FailureWindow    time.Duration
}

// ResetConfig controls reset code shape, lifetime, and request budgets.
type ResetConfig struct {
	CodeLength               int
	CodeTTL                  time.Duration
	RequestMaxAttempts       int
	RequestWindow            time.Duration
	ConfirmMaxAttempts       int
	ConfirmWindow            time.Duration
	EnableIdentifierThrottle bool
	EnableIPThrottle         bool
}

// RegisterConfig controls the optional account-creation throttle.
type RegisterConfig struct {
	EnableThrottle bool
	MaxAttempts    int
	Cooldown       time.Duration
}

// AuditConfig controls the async audit dispatcher.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// MetricsConfig controls the in-process metrics collector.
type MetricsConfig struct {
	Enabled                bool
	EnableLatencyHistogram bool
}

// DefaultConfig returns the engine defaults: 1h session tokens, bcrypt cost
// 12, a 5-attempt login throttle with a 15m failure window, and 6-character
// reset codes valid for 1h.
func DefaultConfig() Config {
	return Config{
		Session: SessionConfig{
			TokenTTL:      time.Hour,
			SigningMethod: "hs256",
			Leeway:        30 * time.Second,
		},
		Password: PasswordConfig{
			BcryptCost: 12,
			MinLength:  8,
		},
		Throttle: ThrottleConfig{
			MaxLoginAttempts: 5,
			FailureWindow:    15 * time.Minute,
		},
		Reset: ResetConfig{
			CodeLength:               6,
			CodeTTL:                  time.Hour,
			RequestMaxAttempts:       5,
			RequestWindow:            time.Hour,
			ConfirmMaxAttempts:       10,
			ConfirmWindow:            15 * time.Minute,
			EnableIdentifierThrottle: true,
			EnableIPThrottle:         true,
		},
		Register: RegisterConfig{
			EnableThrottle: false,
			MaxAttempts:    10,
			Cooldown:       time.Hour,
		},
		Audit: AuditConfig{
			Enabled:    true,
			BufferSize: 256,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

// Validate checks the config for internally inconsistent or unsafe values.
func (c Config) Validate() error {
	if c.Session.TokenTTL <= 0 {
		return errors.New("session token TTL must be positive")
	}
	switch c.Session.SigningMethod {
	case "hs256", "ed25519":
	default:
		return errors.New("unsupported signing method")
	}
	if c.Session.Leeway < 0 || c.Session.Leeway > 2*time.Minute {
		return errors.New("session leeway out of range")
	}
	if c.Password.BcryptCost < 10 || c.Password.BcryptCost > 31 {
		return errors.New("bcrypt cost out of range")
	}
	if c.Password.MinLength < 8 {
		return errors.New("password minimum length must be at least 8")
	}
	if c.Throttle.MaxLoginAttempts < 1 {
		return errors.New("login attempt threshold must be at least 1")
	}
	if c.Throttle.FailureWindow < 0 {
		return errors.New("failure window must not be negative")
	}
	if c.Reset.CodeLength < 4 || c.Reset.CodeLength > 32 {
		return errors.New("reset code length out of range")
	}
	if c.Reset.CodeTTL <= 0 {
		return errors.New("reset code TTL must be positive")
	}
	if c.Reset.RequestMaxAttempts < 1 || c.Reset.ConfirmMaxAttempts < 1 {
		return errors.New("reset attempt budgets must be at least 1")
	}
	if c.Reset.RequestWindow <= 0 || c.Reset.ConfirmWindow <= 0 {
		return errors.New("reset throttle windows must be positive")
	}
	if c.Register.EnableThrottle {
		if c.Register.MaxAttempts < 1 {
			return errors.New("registration attempt budget must be at least 1")
		}
		if c.Register.Cooldown <= 0 {
			return errors.New("registration cooldown must be positive")
		}
	}
	if c.Audit.Enabled && c.Audit.BufferSize < 1 {
		return errors.New("audit buffer size must be at least 1")
	}
	return nil
}

func cloneConfig(cfg Config) Config {
	out := cfg
	out.Session.Secret = append([]byte(nil), cfg.Session.Secret...)
	out.Session.PrivateKey = append([]byte(nil), cfg.Session.PrivateKey...)
	out.Session.PublicKey = append([]byte(nil), cfg.Session.PublicKey...)
	return out
}
