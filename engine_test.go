package authgate

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis.Run failed: %v", err)
	}

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return mr, client
}

// plainHasher avoids bcrypt cost in tests that exercise flow logic rather
// than hashing.
type plainHasher struct{}

func (plainHasher) Hash(plaintext string) (string, error) {
	return "plain:" + plaintext, nil
}

func (plainHasher) Verify(plaintext, digest string) (bool, error) {
	return digest == "plain:"+plaintext, nil
}

// fakeStore is a minimal in-package CredentialStore so engine tests do not
// import store/memory.
type fakeStore struct {
	mu       sync.Mutex
	accounts map[string]*Account // keyed by id

	insertErr error
	findErr   error
}

func newFakeStore() *fakeStore {
	return &fakeStore{accounts: make(map[string]*Account)}
}

func (s *fakeStore) FindByUsername(_ context.Context, username string) (*Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.findErr != nil {
		return nil, s.findErr
	}
	for _, a := range s.accounts {
		if strings.EqualFold(a.Username, username) {
			clone := *a
			return &clone, nil
		}
	}
	return nil, ErrAccountNotFound
}

func (s *fakeStore) FindByEmail(_ context.Context, email string) (*Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.findErr != nil {
		return nil, s.findErr
	}
	for _, a := range s.accounts {
		if strings.EqualFold(a.Email, email) {
			clone := *a
			return &clone, nil
		}
	}
	return nil, ErrAccountNotFound
}

func (s *fakeStore) FindByUsernameOrEmail(ctx context.Context, username, email string) (*Account, error) {
	if a, err := s.FindByUsername(ctx, username); err == nil {
		return a, nil
	} else if err != ErrAccountNotFound {
		return nil, err
	}
	return s.FindByEmail(ctx, email)
}

func (s *fakeStore) Insert(_ context.Context, account *Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.insertErr != nil {
		return s.insertErr
	}
	for _, a := range s.accounts {
		if strings.EqualFold(a.Username, account.Username) || strings.EqualFold(a.Email, account.Email) {
			return ErrDuplicateIdentity
		}
	}
	clone := *account
	s.accounts[account.ID] = &clone
	return nil
}

func (s *fakeStore) SetResetDigest(_ context.Context, accountID string, digest [32]byte, expiresAt, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[accountID]
	if !ok {
		return ErrAccountNotFound
	}
	a.Reset = &PendingReset{Digest: digest, ExpiresAt: expiresAt}
	a.UpdatedAt = now
	return nil
}

func (s *fakeStore) CompleteReset(_ context.Context, digest [32]byte, newPasswordHash string, now time.Time) (*Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.accounts {
		if a.Reset == nil || a.Reset.Digest != digest {
			continue
		}
		if !a.Reset.ExpiresAt.After(now) {
			return nil, ErrNoPendingReset
		}
		a.PasswordHash = newPasswordHash
		a.Reset = nil
		a.UpdatedAt = now
		clone := *a
		return &clone, nil
	}
	return nil, ErrNoPendingReset
}

// captureMailer records sent mail for assertions.
type captureMailer struct {
	mu      sync.Mutex
	sent    []capturedMail
	sendErr error
}

type capturedMail struct {
	To      string
	Subject string
	Body    string
}

func (m *captureMailer) Send(_ context.Context, to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sendErr != nil {
		return m.sendErr
	}
	m.sent = append(m.sent, capturedMail{To: to, Subject: subject, Body: body})
	return nil
}

func (m *captureMailer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

func (m *captureMailer) last() capturedMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sent) == 0 {
		return capturedMail{}
	}
	return m.sent[len(m.sent)-1]
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Session.Secret = []byte("0123456789abcdef0123456789abcdef")
	return cfg
}

func newTestEngine(t *testing.T, rdb *redis.Client, store CredentialStore, mailer Mailer, cfg Config) *Engine {
	t.Helper()

	engine, err := New().
		WithConfig(cfg).
		WithRedis(rdb).
		WithStore(store).
		WithHasher(plainHasher{}).
		WithMailer(mailer).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(engine.Close)
	return engine
}

func seedAccount(t *testing.T, store *fakeStore, id, username, email, password string) {
	t.Helper()

	now := time.Now().UTC()
	err := store.Insert(context.Background(), &Account{
		ID:           id,
		Username:     username,
		Email:        email,
		PasswordHash: "plain:" + password,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		t.Fatalf("seed account: %v", err)
	}
}

func TestBuilderRequiresDependencies(t *testing.T) {
	_, rdb := newTestRedis(t)

	tests := []struct {
		name  string
		build func() (*Engine, error)
	}{
		{"missing redis", func() (*Engine, error) {
			return New().WithConfig(testConfig()).WithStore(newFakeStore()).WithMailer(&captureMailer{}).Build()
		}},
		{"missing store", func() (*Engine, error) {
			return New().WithConfig(testConfig()).WithRedis(rdb).WithMailer(&captureMailer{}).Build()
		}},
		{"missing mailer", func() (*Engine, error) {
			return New().WithConfig(testConfig()).WithRedis(rdb).WithStore(newFakeStore()).Build()
		}},
		{"missing session secret", func() (*Engine, error) {
			cfg := testConfig()
			cfg.Session.Secret = nil
			return New().WithConfig(cfg).WithRedis(rdb).WithStore(newFakeStore()).WithMailer(&captureMailer{}).Build()
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.build(); err == nil {
				t.Fatal("expected build error")
			}
		})
	}
}

func TestBuilderIsSingleUse(t *testing.T) {
	_, rdb := newTestRedis(t)

	b := New().WithConfig(testConfig()).WithRedis(rdb).WithStore(newFakeStore()).WithHasher(plainHasher{}).WithMailer(&captureMailer{})
	engine, err := b.Build()
	if err != nil {
		t.Fatalf("first Build failed: %v", err)
	}
	defer engine.Close()

	if _, err := b.Build(); err == nil {
		t.Fatal("second Build should fail")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero token TTL", func(c *Config) { c.Session.TokenTTL = 0 }},
		{"unknown signing method", func(c *Config) { c.Session.SigningMethod = "rs256" }},
		{"bcrypt cost too low", func(c *Config) { c.Password.BcryptCost = 4 }},
		{"min length too low", func(c *Config) { c.Password.MinLength = 5 }},
		{"zero login attempts", func(c *Config) { c.Throttle.MaxLoginAttempts = 0 }},
		{"negative failure window", func(c *Config) { c.Throttle.FailureWindow = -time.Minute }},
		{"reset code too short", func(c *Config) { c.Reset.CodeLength = 2 }},
		{"zero reset TTL", func(c *Config) { c.Reset.CodeTTL = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}

	if err := testConfig().Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}
