package authgate

import (
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/shahnawazpatel23/authgate/internal"
	"github.com/shahnawazpatel23/authgate/internal/audit"
	"github.com/shahnawazpatel23/authgate/internal/limiters"
	"github.com/shahnawazpatel23/authgate/jwt"
	"github.com/shahnawazpatel23/authgate/password"
)

// Builder assembles an [Engine]. A Builder is single-use: Build succeeds at
// most once.
type Builder struct {
	config Config
	redis  redis.UniversalClient

	store     CredentialStore
	hasher    Hasher
	mailer    Mailer
	auditSink AuditSink

	built bool
}

// New returns a Builder seeded with [DefaultConfig].
func New() *Builder {
	return &Builder{
		config: DefaultConfig(),
	}
}

func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithRedis sets the Redis client backing the login throttle and the reset
// and registration limiters.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithStore sets the credential store. Required.
func (b *Builder) WithStore(store CredentialStore) *Builder {
	b.store = store
	return b
}

// WithHasher overrides the default bcrypt hasher.
func (b *Builder) WithHasher(h Hasher) *Builder {
	b.hasher = h
	return b
}

// WithMailer sets the transport for reset and confirmation emails. Required.
func (b *Builder) WithMailer(m Mailer) *Builder {
	b.mailer = m
	return b
}

// WithAuditSink sets the destination for audit events. Without a sink,
// enabled audit falls back to a no-op.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// Build validates the configuration, wires the limiters and token manager,
// and returns a ready Engine.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := cloneConfig(b.config)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if b.redis == nil {
		return nil, errors.New("redis client required")
	}
	if b.store == nil {
		return nil, errors.New("credential store required")
	}
	if b.mailer == nil {
		return nil, errors.New("mailer required")
	}

	engine := &Engine{
		config: cfg,
		store:  b.store,
		mailer: b.mailer,
	}

	engine.hasher = b.hasher
	if engine.hasher == nil {
		h, err := password.NewBcrypt(cfg.Password.BcryptCost)
		if err != nil {
			return nil, err
		}
		engine.hasher = h
	}

	jm, err := jwt.NewManager(jwt.Config{
		TokenTTL:      cfg.Session.TokenTTL,
		SigningMethod: jwt.SigningMethod(cfg.Session.SigningMethod),
		Secret:        append([]byte(nil), cfg.Session.Secret...),
		PrivateKey:    append([]byte(nil), cfg.Session.PrivateKey...),
		PublicKey:     append([]byte(nil), cfg.Session.PublicKey...),
		Issuer:        cfg.Session.Issuer,
		Leeway:        cfg.Session.Leeway,
	})
	if err != nil {
		return nil, err
	}
	engine.jwtManager = jm

	engine.loginThrottle = limiters.NewLoginThrottle(b.redis, limiters.LoginThrottleConfig{
		MaxAttempts:   cfg.Throttle.MaxLoginAttempts,
		FailureWindow: cfg.Throttle.FailureWindow,
	})
	engine.resetLimiter = limiters.NewResetLimiter(b.redis, limiters.ResetLimiterConfig{
		RequestMaxAttempts:       cfg.Reset.RequestMaxAttempts,
		RequestWindow:            cfg.Reset.RequestWindow,
		ConfirmMaxAttempts:       cfg.Reset.ConfirmMaxAttempts,
		ConfirmWindow:            cfg.Reset.ConfirmWindow,
		EnableIdentifierThrottle: cfg.Reset.EnableIdentifierThrottle,
		EnableIPThrottle:         cfg.Reset.EnableIPThrottle,
	})
	engine.registerLimiter = limiters.NewRegisterLimiter(b.redis, limiters.RegisterLimiterConfig{
		Enabled:     cfg.Register.EnableThrottle,
		MaxAttempts: cfg.Register.MaxAttempts,
		Cooldown:    cfg.Register.Cooldown,
	})

	engine.audit = audit.NewDispatcher(audit.Config{
		Enabled:    cfg.Audit.Enabled,
		BufferSize: cfg.Audit.BufferSize,
		DropIfFull: cfg.Audit.DropIfFull,
	}, b.auditSink)
	engine.metrics = NewMetrics(cfg.Metrics)

	// A throwaway hash verified against for unknown identities. The
	// plaintext is random and discarded, so the verify result is
	// meaningless; only its cost matters.
	decoy, err := internal.NewResetCode(32)
	if err != nil {
		return nil, err
	}
	decoyHash, err := engine.hasher.Hash(decoy)
	if err != nil {
		return nil, err
	}
	engine.decoyHash = decoyHash

	b.built = true

	return engine, nil
}
