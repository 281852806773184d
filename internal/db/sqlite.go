package db

import (
	"context"
	"database/sql"
	"downalert/internal/repository"
	repo "downalert/internal/repository/sqlite"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

var _ Database = &SQLite{}

type SQLite struct {
	db    *sql.DB
	sites repository.SitesProvider
}

// NewSQLite opens a pooled handle; busy_timeout and WAL let the scheduler and
// the bot share it without explicit locking.
func NewSQLite(file string) (*SQLite, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dsn := fmt.Sprintf("%s?_busy_timeout=5000&_journal_mode=WAL", file)
	db, err := connectToDB(ctx, "sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &SQLite{
		db:    db,
		sites: repo.NewSitesRepo(db),
	}, nil
}

func connectToDB(ctx context.Context, driverName, dataSourceName string) (*sql.DB, error) {
	db, err := sql.Open(driverName, dataSourceName)
	if err != nil {
		return nil, err
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

func (s *SQLite) DB() *sql.DB {
	return s.db
}

func (s *SQLite) SitesRepo() repository.SitesProvider {
	return s.sites
}

func (s *SQLite) Migrate(ctx context.Context) error {
	return migrate(ctx, s.db, "sqlite3", "migrations/sqlite")
}

func (s *SQLite) Close() error {
	return s.db.Close()
}
