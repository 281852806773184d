package db

import (
	"context"
	"database/sql"
	"downalert/internal/repository"
	repo "downalert/internal/repository/postgres"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

var _ Database = &Postgres{}

type Postgres struct {
	db    *sql.DB
	sites repository.SitesProvider
}

func NewPostgres(url string) (*Postgres, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := connectToDB(ctx, "pgx", url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &Postgres{
		db:    db,
		sites: repo.NewSitesRepo(db),
	}, nil
}

func (p *Postgres) DB() *sql.DB {
	return p.db
}

func (p *Postgres) SitesRepo() repository.SitesProvider {
	return p.sites
}

func (p *Postgres) Migrate(ctx context.Context) error {
	return migrate(ctx, p.db, "postgres", "migrations/postgres")
}

func (p *Postgres) Close() error {
	return p.db.Close()
}
