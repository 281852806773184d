package sqlite

import (
	"context"
	"database/sql"
	"downalert/internal/model"
	"downalert/internal/repository"
	"errors"
)

var _ repository.SitesProvider = &SitesRepo{}

type SitesRepo struct {
	db *sql.DB
}

func NewSitesRepo(db *sql.DB) *SitesRepo {
	return &SitesRepo{db}
}

func (r *SitesRepo) AddSite(ctx context.Context, ownerId int64, url string) (int64, error) {
	res, err := r.db.ExecContext(
		ctx,
		"INSERT INTO sites (owner_id, url) VALUES (?, ?)",
		ownerId, url,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *SitesRepo) DeleteSiteById(ctx context.Context, siteId int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM sites WHERE id = ?", siteId)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrSiteNotFound
	}
	return nil
}

func (r *SitesRepo) GetSiteById(ctx context.Context, siteId int64) (model.Site, error) {
	var site model.Site
	err := r.db.QueryRowContext(
		ctx,
		"SELECT id, owner_id, url FROM sites WHERE id = ?",
		siteId,
	).Scan(&site.Id, &site.OwnerId, &site.Url)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Site{}, repository.ErrSiteNotFound
	}
	return site, err
}

func (r *SitesRepo) GetAllSites(ctx context.Context) ([]model.Site, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, owner_id, url FROM sites ORDER BY id")
	if err != nil {
		return nil, err
	}
	return repository.ScanSites(rows)
}

func (r *SitesRepo) GetAllSitesByOwnerId(ctx context.Context, ownerId int64) ([]model.Site, error) {
	rows, err := r.db.QueryContext(
		ctx,
		"SELECT id, owner_id, url FROM sites WHERE owner_id = ? ORDER BY id",
		ownerId,
	)
	if err != nil {
		return nil, err
	}
	return repository.ScanSites(rows)
}
