package db

import (
	"context"
	"database/sql"
	"downalert/internal/repository"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed migrations
var migrations embed.FS

type Database interface {
	DB() *sql.DB

	SitesRepo() repository.SitesProvider

	// Migrate applies every pending migration for the database dialect.
	Migrate(ctx context.Context) error

	Close() error
}

func migrate(ctx context.Context, db *sql.DB, dialect, dir string) error {
	goose.SetBaseFS(migrations)
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, dir); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}
