package repository

import (
	"context"
	"downalert/internal/model"
	"errors"
)

var ErrSiteNotFound = errors.New("site not found")

type SitesProvider interface {
	AddSite(ctx context.Context, ownerId int64, url string) (int64, error)

	DeleteSiteById(ctx context.Context, siteId int64) error

	GetSiteById(ctx context.Context, siteId int64) (model.Site, error)
	GetAllSites(ctx context.Context) ([]model.Site, error)
	GetAllSitesByOwnerId(ctx context.Context, ownerId int64) ([]model.Site, error)
}
