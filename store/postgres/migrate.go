package postgres

import (
	"context"
	"database/sql"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/shahnawazpatel23/authgate/store/postgres/migrations"
)

// RunMigrations applies the embedded schema migrations through goose. The
// *sql.DB is only needed for migration; runtime queries go through the pgx
// pool.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, ".")
}

// MigrateDSN opens a short-lived database/sql connection to dsn, applies the
// migrations, and closes it.
func MigrateDSN(ctx context.Context, dsn string) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	return RunMigrations(ctx, db)
}
