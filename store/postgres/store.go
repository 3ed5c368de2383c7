// Package postgres provides a PostgreSQL-backed CredentialStore.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shahnawazpatel23/authgate"
)

// pgxPool is the slice of the pgxpool surface the store uses. It is what
// pgxmock implements in tests.
type pgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store implements authgate.CredentialStore on PostgreSQL. CompleteReset
// relies on a single conditional UPDATE, so the compare-and-clear of a reset
// digest is atomic without explicit transactions.
type Store struct {
	db   pgxPool
	pool *pgxpool.Pool
}

var _ authgate.CredentialStore = (*Store)(nil)

// Open connects a pool to dsn and returns a store that owns it.
func Open(ctx context.Context, dsn string) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Store{db: pool, pool: pool}, nil
}

// NewStore wraps an existing pool-compatible connection. The caller keeps
// ownership of the connection.
func NewStore(db pgxPool) *Store {
	return &Store{db: db}
}

// Close releases the pool if the store owns one.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

const accountColumns = `id, username, email, password_hash, reset_digest, reset_expires_at, created_at, updated_at`

func (s *Store) FindByUsername(ctx context.Context, username string) (*authgate.Account, error) {
	row := s.db.QueryRow(ctx, `
		SELECT `+accountColumns+`
		FROM accounts
		WHERE LOWER(username) = LOWER($1)
	`, username)
	return scanAccount(row)
}

func (s *Store) FindByEmail(ctx context.Context, email string) (*authgate.Account, error) {
	row := s.db.QueryRow(ctx, `
		SELECT `+accountColumns+`
		FROM accounts
		WHERE LOWER(email) = LOWER($1)
	`, email)
	return scanAccount(row)
}

func (s *Store) FindByUsernameOrEmail(ctx context.Context, username, email string) (*authgate.Account, error) {
	row := s.db.QueryRow(ctx, `
		SELECT `+accountColumns+`
		FROM accounts
		WHERE LOWER(username) = LOWER($1) OR LOWER(email) = LOWER($2)
		LIMIT 1
	`, username, email)
	return scanAccount(row)
}

func (s *Store) Insert(ctx context.Context, account *authgate.Account) error {
	var digest []byte
	var expiresAt *time.Time
	if account.Reset != nil {
		digest = account.Reset.Digest[:]
		expiresAt = &account.Reset.ExpiresAt
	}

	_, err := s.db.Exec(ctx, `
		INSERT INTO accounts (
			id, username, email, password_hash,
			reset_digest, reset_expires_at, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`,
		account.ID,
		account.Username,
		account.Email,
		account.PasswordHash,
		digest,
		expiresAt,
		account.CreatedAt,
		account.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return authgate.ErrDuplicateIdentity
		}
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

func (s *Store) SetResetDigest(ctx context.Context, accountID string, digest [32]byte, expiresAt, now time.Time) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE accounts
		SET reset_digest = $2, reset_expires_at = $3, updated_at = $4
		WHERE id = $1
	`, accountID, digest[:], expiresAt, now)
	if err != nil {
		return fmt.Errorf("set reset digest: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return authgate.ErrAccountNotFound
	}
	return nil
}

func (s *Store) CompleteReset(ctx context.Context, digest [32]byte, newPasswordHash string, now time.Time) (*authgate.Account, error) {
	// One statement matches, clears, and updates; concurrent confirmations
	// with the same digest race on the row and only one sees it unexpired
	// and uncleared.
	row := s.db.QueryRow(ctx, `
		UPDATE accounts
		SET password_hash = $2, reset_digest = NULL, reset_expires_at = NULL, updated_at = $3
		WHERE reset_digest = $1 AND reset_expires_at > $3
		RETURNING `+accountColumns+`
	`, digest[:], newPasswordHash, now)

	account, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, authgate.ErrAccountNotFound) {
			return nil, authgate.ErrNoPendingReset
		}
		return nil, err
	}
	return account, nil
}

func scanAccount(row pgx.Row) (*authgate.Account, error) {
	var (
		account   authgate.Account
		digest    []byte
		expiresAt *time.Time
	)
	err := row.Scan(
		&account.ID,
		&account.Username,
		&account.Email,
		&account.PasswordHash,
		&digest,
		&expiresAt,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, authgate.ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan account: %w", err)
	}

	if len(digest) == 32 && expiresAt != nil {
		reset := &authgate.PendingReset{ExpiresAt: *expiresAt}
		copy(reset.Digest[:], digest)
		account.Reset = reset
	}
	return &account, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
