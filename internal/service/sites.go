package service

import (
	"context"
	"downalert/internal/config"
	urlpkg "downalert/internal/lib/url"
	"downalert/internal/model"
	"downalert/internal/repository"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidURL     = errors.New("invalid url")
	ErrAlreadyWatched = errors.New("website already in the watchlist")
	ErrSiteNotFound   = errors.New("website not found in the watchlist")
	ErrNotAdmin       = errors.New("not an admin")
)

type Prober interface {
	Probe(ctx context.Context, site model.Site) model.CheckResult
}

type SiteStatus struct {
	Site model.Site
	Down bool
}

// Admin identifies the single user allowed to list every site. A zero Admin
// matches nobody.
type Admin struct {
	Username string
	Id       int64
}

func (a Admin) Matches(userId int64, username string) bool {
	if a.Id != 0 && a.Id == userId {
		return true
	}
	return a.Username != "" && strings.EqualFold(a.Username, username)
}

type SitesService struct {
	sites   repository.SitesProvider
	checker Prober
	admin   Admin
	config  config.CommonConfig
}

func NewSitesService(
	sites repository.SitesProvider,
	checker Prober,
	admin Admin,
	config config.CommonConfig,
) *SitesService {
	return &SitesService{
		sites:   sites,
		checker: checker,
		admin:   admin,
		config:  config,
	}
}

// AddSite validates the url and stores it unless the owner already watches it.
func (s *SitesService) AddSite(ctx context.Context, ownerId int64, rawUrl string) (model.Site, error) {
	url, err := urlpkg.Validate(rawUrl)
	if err != nil {
		return model.Site{}, fmt.Errorf("%w: %w", ErrInvalidURL, err)
	}

	sites, err := s.GetAllSitesByOwnerId(ctx, ownerId)
	if err != nil {
		return model.Site{}, err
	}
	for _, site := range sites {
		if site.Url == url {
			return model.Site{}, ErrAlreadyWatched
		}
	}

	ctx, cancel := context.WithTimeout(ctx, s.config.DbQueryTimeout)
	defer cancel()

	id, err := s.sites.AddSite(ctx, ownerId, url)
	if err != nil {
		return model.Site{}, fmt.Errorf("failed to add site: %w", err)
	}
	return model.Site{Id: id, OwnerId: ownerId, Url: url}, nil
}

// DeleteSiteFromOwner removes the site only when it belongs to ownerId.
func (s *SitesService) DeleteSiteFromOwner(ctx context.Context, ownerId, siteId int64) error {
	sites, err := s.GetAllSitesByOwnerId(ctx, ownerId)
	if err != nil {
		return err
	}

	owned := false
	for _, site := range sites {
		if site.Id == siteId {
			owned = true
			break
		}
	}
	if !owned {
		return ErrSiteNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, s.config.DbQueryTimeout)
	defer cancel()

	err = s.sites.DeleteSiteById(ctx, siteId)
	if errors.Is(err, repository.ErrSiteNotFound) {
		return ErrSiteNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete site: %w", err)
	}
	return nil
}

func (s *SitesService) GetSiteById(ctx context.Context, siteId int64) (*model.Site, error) {
	ctx, cancel := context.WithTimeout(ctx, s.config.DbQueryTimeout)
	defer cancel()

	site, err := s.sites.GetSiteById(ctx, siteId)
	if err != nil {
		if errors.Is(err, repository.ErrSiteNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get site: %w", err)
	}
	return &site, nil
}

func (s *SitesService) GetAllSites(ctx context.Context) ([]model.Site, error) {
	ctx, cancel := context.WithTimeout(ctx, s.config.DbQueryTimeout)
	defer cancel()

	sites, err := s.sites.GetAllSites(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get all sites: %w", err)
	}
	return sites, nil
}

func (s *SitesService) GetAllSitesByOwnerId(ctx context.Context, ownerId int64) ([]model.Site, error) {
	ctx, cancel := context.WithTimeout(ctx, s.config.DbQueryTimeout)
	defer cancel()

	sites, err := s.sites.GetAllSitesByOwnerId(ctx, ownerId)
	if err != nil {
		return nil, fmt.Errorf("failed to get sites of owner: %w", err)
	}
	return sites, nil
}

// CheckSites probes the sites one after another.
func (s *SitesService) CheckSites(ctx context.Context, sites []model.Site) []SiteStatus {
	statuses := make([]SiteStatus, 0, len(sites))
	for _, site := range sites {
		result := s.checker.Probe(ctx, site)
		statuses = append(statuses, SiteStatus{Site: site, Down: result.IsDown()})
	}
	return statuses
}

// GetAllUrlsForAdmin returns every stored url when the caller is the admin.
func (s *SitesService) GetAllUrlsForAdmin(ctx context.Context, userId int64, username string) ([]string, error) {
	if !s.admin.Matches(userId, username) {
		return nil, ErrNotAdmin
	}

	sites, err := s.GetAllSites(ctx)
	if err != nil {
		return nil, err
	}

	urls := make([]string, 0, len(sites))
	for _, site := range sites {
		urls = append(urls, site.Url)
	}
	return urls, nil
}
