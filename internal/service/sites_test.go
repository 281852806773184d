package service

import (
	"context"
	"downalert/internal/checker"
	"downalert/internal/config"
	"downalert/internal/db"
	"downalert/internal/model"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingProber struct {
	calls atomic.Int32
	inner Prober
}

func (c *countingProber) Probe(ctx context.Context, site model.Site) model.CheckResult {
	c.calls.Add(1)
	return c.inner.Probe(ctx, site)
}

func newTestService(t *testing.T, admin Admin) (*SitesService, *countingProber) {
	t.Helper()
	database := db.NewTestSQLite(t)
	prober := &countingProber{
		inner: checker.New(config.CheckerConfig{Timeout: 2 * time.Second}),
	}
	s := NewSitesService(database.SitesRepo(), prober, admin, config.CommonConfig{DbQueryTimeout: 5 * time.Second})
	return s, prober
}

func TestAddSite(t *testing.T) {
	s, _ := newTestService(t, Admin{})
	ctx := context.Background()

	site, err := s.AddSite(ctx, 42, "  https://example.com  ")
	require.NoError(t, err)
	assert.Equal(t, int64(42), site.OwnerId)
	assert.Equal(t, "https://example.com", site.Url)
	assert.NotZero(t, site.Id)

	sites, err := s.GetAllSitesByOwnerId(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, []model.Site{site}, sites)
}

func TestAddSiteRejectsInvalidURL(t *testing.T) {
	s, _ := newTestService(t, Admin{})
	ctx := context.Background()

	for _, raw := range []string{"", "example.com", "ftp://example.com", "not a url"} {
		_, err := s.AddSite(ctx, 1, raw)
		assert.ErrorIs(t, err, ErrInvalidURL, raw)
	}

	sites, err := s.GetAllSites(ctx)
	require.NoError(t, err)
	assert.Empty(t, sites)
}

func TestAddSiteRejectsDuplicateForSameOwner(t *testing.T) {
	s, _ := newTestService(t, Admin{})
	ctx := context.Background()

	_, err := s.AddSite(ctx, 1, "https://example.com")
	require.NoError(t, err)

	_, err = s.AddSite(ctx, 1, "https://example.com")
	assert.ErrorIs(t, err, ErrAlreadyWatched)

	_, err = s.AddSite(ctx, 2, "https://example.com")
	assert.NoError(t, err)

	sites, err := s.GetAllSites(ctx)
	require.NoError(t, err)
	assert.Len(t, sites, 2)
}

func TestDeleteSiteFromOwner(t *testing.T) {
	s, _ := newTestService(t, Admin{})
	ctx := context.Background()

	site, err := s.AddSite(ctx, 1, "https://example.com")
	require.NoError(t, err)

	require.NoError(t, s.DeleteSiteFromOwner(ctx, 1, site.Id))

	got, err := s.GetSiteById(ctx, site.Id)
	require.NoError(t, err)
	assert.Nil(t, got)

	assert.ErrorIs(t, s.DeleteSiteFromOwner(ctx, 1, site.Id), ErrSiteNotFound)
}

func TestDeleteSiteOfAnotherOwnerHasNoEffect(t *testing.T) {
	s, _ := newTestService(t, Admin{})
	ctx := context.Background()

	site, err := s.AddSite(ctx, 1, "https://example.com")
	require.NoError(t, err)

	assert.ErrorIs(t, s.DeleteSiteFromOwner(ctx, 2, site.Id), ErrSiteNotFound)

	got, err := s.GetSiteById(ctx, site.Id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, site, *got)
}

func TestCheckSites(t *testing.T) {
	up := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer up.Close()
	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer down.Close()

	s, prober := newTestService(t, Admin{})
	ctx := context.Background()

	_, err := s.AddSite(ctx, 1, up.URL)
	require.NoError(t, err)
	_, err = s.AddSite(ctx, 1, down.URL)
	require.NoError(t, err)

	sites, err := s.GetAllSitesByOwnerId(ctx, 1)
	require.NoError(t, err)

	statuses := s.CheckSites(ctx, sites)
	require.Len(t, statuses, 2)
	assert.Equal(t, up.URL, statuses[0].Site.Url)
	assert.False(t, statuses[0].Down)
	assert.Equal(t, down.URL, statuses[1].Site.Url)
	assert.True(t, statuses[1].Down)
	assert.Equal(t, int32(2), prober.calls.Load())
}

func TestCheckSitesWithEmptyListSkipsChecks(t *testing.T) {
	s, prober := newTestService(t, Admin{})

	assert.Empty(t, s.CheckSites(context.Background(), nil))
	assert.Zero(t, prober.calls.Load())
}

func TestAdminMatches(t *testing.T) {
	tests := []struct {
		name     string
		admin    Admin
		userId   int64
		username string
		want     bool
	}{
		{"nobody configured", Admin{}, 0, "", false},
		{"username", Admin{Username: "owner"}, 5, "owner", true},
		{"username ignores case", Admin{Username: "Owner"}, 5, "oWNER", true},
		{"other username", Admin{Username: "owner"}, 5, "guest", false},
		{"id", Admin{Id: 77}, 77, "", true},
		{"other id", Admin{Id: 77}, 78, "", false},
		{"id or username", Admin{Username: "owner", Id: 77}, 1, "owner", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.admin.Matches(tt.userId, tt.username))
		})
	}
}

func TestGetAllUrlsForAdmin(t *testing.T) {
	s, _ := newTestService(t, Admin{Username: "root"})
	ctx := context.Background()

	_, err := s.AddSite(ctx, 1, "https://a.example")
	require.NoError(t, err)
	_, err = s.AddSite(ctx, 2, "https://b.example")
	require.NoError(t, err)

	urls, err := s.GetAllUrlsForAdmin(ctx, 3, "root")
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, urls)

	_, err = s.GetAllUrlsForAdmin(ctx, 1, "someone")
	assert.ErrorIs(t, err, ErrNotAdmin)
}
