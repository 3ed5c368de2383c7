// Package memory provides an in-process CredentialStore for tests and
// single-node deployments.
package memory

import (
	"context"
	"crypto/subtle"
	"strings"
	"sync"
	"time"

	"github.com/shahnawazpatel23/authgate"
)

// Store keeps accounts in process memory. Safe for concurrent use. All
// returned accounts are copies; mutating them does not affect the store.
type Store struct {
	mu       sync.RWMutex
	byID     map[string]*authgate.Account
	username map[string]string // lowercase username -> id
	email    map[string]string // lowercase email -> id
}

func New() *Store {
	return &Store{
		byID:     make(map[string]*authgate.Account),
		username: make(map[string]string),
		email:    make(map[string]string),
	}
}

var _ authgate.CredentialStore = (*Store)(nil)

func (s *Store) FindByUsername(ctx context.Context, username string) (*authgate.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.username[strings.ToLower(username)]
	if !ok {
		return nil, authgate.ErrAccountNotFound
	}
	return cloneAccount(s.byID[id]), nil
}

func (s *Store) FindByEmail(ctx context.Context, email string) (*authgate.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.email[strings.ToLower(email)]
	if !ok {
		return nil, authgate.ErrAccountNotFound
	}
	return cloneAccount(s.byID[id]), nil
}

func (s *Store) FindByUsernameOrEmail(ctx context.Context, username, email string) (*authgate.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if id, ok := s.username[strings.ToLower(username)]; ok {
		return cloneAccount(s.byID[id]), nil
	}
	if id, ok := s.email[strings.ToLower(email)]; ok {
		return cloneAccount(s.byID[id]), nil
	}
	return nil, authgate.ErrAccountNotFound
}

func (s *Store) Insert(ctx context.Context, account *authgate.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	uname := strings.ToLower(account.Username)
	email := strings.ToLower(account.Email)

	if _, ok := s.username[uname]; ok {
		return authgate.ErrDuplicateIdentity
	}
	if _, ok := s.email[email]; ok {
		return authgate.ErrDuplicateIdentity
	}

	s.byID[account.ID] = cloneAccount(account)
	s.username[uname] = account.ID
	s.email[email] = account.ID
	return nil
}

func (s *Store) SetResetDigest(ctx context.Context, accountID string, digest [32]byte, expiresAt, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.byID[accountID]
	if !ok {
		return authgate.ErrAccountNotFound
	}
	account.Reset = &authgate.PendingReset{
		Digest:    digest,
		ExpiresAt: expiresAt,
	}
	account.UpdatedAt = now
	return nil
}

func (s *Store) CompleteReset(ctx context.Context, digest [32]byte, newPasswordHash string, now time.Time) (*authgate.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, account := range s.byID {
		if account.Reset == nil {
			continue
		}
		if subtle.ConstantTimeCompare(account.Reset.Digest[:], digest[:]) != 1 {
			continue
		}
		if !account.Reset.ExpiresAt.After(now) {
			// Expired digests never match; the pending reset stays until
			// overwritten by the next request.
			return nil, authgate.ErrNoPendingReset
		}

		account.PasswordHash = newPasswordHash
		account.Reset = nil
		account.UpdatedAt = now
		return cloneAccount(account), nil
	}
	return nil, authgate.ErrNoPendingReset
}

func cloneAccount(a *authgate.Account) *authgate.Account {
	if a == nil {
		return nil
	}
	out := *a
	if a.Reset != nil {
		reset := *a.Reset
		out.Reset = &reset
	}
	return &out
}
