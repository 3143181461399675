// Package db opens the shared PostgreSQL pool and applies the embedded
// goose migrations at startup.
package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"fitplan/internal/server/migrations"
)

// Open connects to PostgreSQL via the pgx stdlib driver and verifies the
// connection with a ping.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	conn, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	return conn, nil
}

// RunMigrations applies the embedded SQL migrations.
func RunMigrations(ctx context.Context, conn *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.UpContext(ctx, conn, "."); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}

	return nil
}
