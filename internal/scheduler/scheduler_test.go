package scheduler

import (
	"context"
	"database/sql"
	"downalert/internal/checker"
	"downalert/internal/config"
	"downalert/internal/db"
	"downalert/internal/model"
	"downalert/internal/notifier"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSites struct {
	sites []model.Site
	err   error
}

func (f *fakeSites) GetAllSites(context.Context) ([]model.Site, error) {
	return f.sites, f.err
}

// fakeProber marks the urls in down as unreachable.
type fakeProber struct {
	mu     sync.Mutex
	down   map[string]bool
	probed []string
}

func (f *fakeProber) Probe(_ context.Context, site model.Site) model.CheckResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.probed = append(f.probed, site.Url)

	result := model.CheckResult{Site: site, Time: time.Now()}
	if f.down[site.Url] {
		result.Err = "connection refused"
	} else {
		result.Code = sql.NullInt64{Int64: http.StatusOK, Valid: true}
	}
	return result
}

func (f *fakeProber) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.probed)
}

type recordingNotifier struct {
	mu     sync.Mutex
	alerts []model.Alert
	err    error
}

func (r *recordingNotifier) Notify(_ context.Context, alert model.Alert) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.alerts = append(r.alerts, alert)
	return r.err
}

func (r *recordingNotifier) sent() []model.Alert {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.Alert(nil), r.alerts...)
}

type countingMetrics struct {
	probes, alerts, passes int
}

func (c *countingMetrics) RecordProbe(bool)              { c.probes++ }
func (c *countingMetrics) RecordAlert(error)             { c.alerts++ }
func (c *countingMetrics) RecordPass(time.Duration, int) { c.passes++ }

var testSites = []model.Site{
	{Id: 1, OwnerId: 10, Url: "https://up.example"},
	{Id: 2, OwnerId: 10, Url: "https://down.example"},
	{Id: 3, OwnerId: 20, Url: "https://also-down.example"},
	{Id: 4, OwnerId: 30, Url: "https://up-too.example"},
}

func TestRunOnceChecksEverySiteAndAlertsDownOnes(t *testing.T) {
	prober := &fakeProber{down: map[string]bool{
		"https://down.example":      true,
		"https://also-down.example": true,
	}}
	notif := &recordingNotifier{}
	metrics := &countingMetrics{}
	s := New(&fakeSites{sites: testSites}, prober, notif, metrics, config.SchedulerConfig{Interval: time.Hour})

	report, err := s.RunOnce(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{
		"https://up.example",
		"https://down.example",
		"https://also-down.example",
		"https://up-too.example",
	}, prober.probed)
	assert.Equal(t, 4, report.Checked)
	assert.Len(t, report.Down, 2)
	assert.Equal(t, 2, report.Notified)
	assert.NotEmpty(t, report.PassId)

	alerts := notif.sent()
	require.Len(t, alerts, 2)
	assert.Equal(t, int64(10), alerts[0].OwnerId)
	assert.Equal(t, "https://down.example", alerts[0].Url)
	assert.Equal(t, int64(20), alerts[1].OwnerId)
	assert.Equal(t, "https://also-down.example", alerts[1].Url)

	assert.Equal(t, 4, metrics.probes)
	assert.Equal(t, 2, metrics.alerts)
	assert.Equal(t, 1, metrics.passes)
}

func TestRunOnceRepeatsAlertsForSustainedOutage(t *testing.T) {
	prober := &fakeProber{down: map[string]bool{"https://down.example": true}}
	notif := &recordingNotifier{}
	s := New(&fakeSites{sites: testSites[:2]}, prober, notif, nil, config.SchedulerConfig{Interval: time.Hour})

	for range 3 {
		_, err := s.RunOnce(context.Background())
		require.NoError(t, err)
	}

	assert.Len(t, notif.sent(), 3)
}

func TestRunOnceWithoutSites(t *testing.T) {
	prober := &fakeProber{}
	notif := &recordingNotifier{}
	s := New(&fakeSites{}, prober, notif, nil, config.SchedulerConfig{Interval: time.Hour})

	report, err := s.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Zero(t, report.Checked)
	assert.Zero(t, prober.count())
	assert.Empty(t, notif.sent())
}

func TestRunOnceStoreFailure(t *testing.T) {
	storeErr := errors.New("database is locked")
	prober := &fakeProber{}
	s := New(&fakeSites{err: storeErr}, prober, &recordingNotifier{}, nil, config.SchedulerConfig{Interval: time.Hour})

	_, err := s.RunOnce(context.Background())
	assert.ErrorIs(t, err, storeErr)
	assert.Zero(t, prober.count())
}

func TestRunOnceContinuesAfterNotifyFailure(t *testing.T) {
	prober := &fakeProber{down: map[string]bool{
		"https://down.example":      true,
		"https://also-down.example": true,
	}}
	notif := &recordingNotifier{err: errors.New("bot was blocked by the user")}
	metrics := &countingMetrics{}
	s := New(&fakeSites{sites: testSites}, prober, notif, metrics, config.SchedulerConfig{Interval: time.Hour})

	report, err := s.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, report.Checked)
	assert.Len(t, report.Down, 2)
	assert.Zero(t, report.Notified)
	assert.Len(t, notif.sent(), 2)
	assert.Equal(t, 2, metrics.alerts)
}

func TestRunOnceDryRun(t *testing.T) {
	prober := &fakeProber{down: map[string]bool{"https://down.example": true}}
	s := New(&fakeSites{sites: testSites}, prober, nil, nil, config.SchedulerConfig{Interval: time.Hour})

	report, err := s.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Len(t, report.Down, 1)
	assert.Zero(t, report.Notified)
}

func TestRunOnceStopsOnCancelledContext(t *testing.T) {
	prober := &fakeProber{}
	s := New(&fakeSites{sites: testSites}, prober, nil, nil, config.SchedulerConfig{Interval: time.Hour})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.RunOnce(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, prober.count())
}

func TestStartRunsPassesUntilStopped(t *testing.T) {
	prober := &fakeProber{down: map[string]bool{"https://down.example": true}}
	notif := &recordingNotifier{}
	s := New(&fakeSites{sites: testSites[:2]}, prober, notif, nil, config.SchedulerConfig{Interval: 10 * time.Millisecond})

	errc := make(chan error, 1)
	go func() { errc <- s.Start(context.Background()) }()

	require.Eventually(t, func() bool { return len(notif.sent()) >= 3 }, 2*time.Second, 5*time.Millisecond)

	s.Stop()
	select {
	case err := <-errc:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop")
	}

	stopped := prober.count()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, stopped, prober.count())
}

func TestStartDoesNotPassBeforeFirstTick(t *testing.T) {
	prober := &fakeProber{}
	s := New(&fakeSites{sites: testSites}, prober, nil, nil, config.SchedulerConfig{Interval: time.Hour})

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- s.Start(ctx) }()

	time.Sleep(30 * time.Millisecond)
	cancel()
	require.NoError(t, <-errc)
	assert.Zero(t, prober.count())
}

func TestStartReturnsStoreFailure(t *testing.T) {
	storeErr := errors.New("no such table: sites")
	s := New(&fakeSites{err: storeErr}, &fakeProber{}, nil, nil, config.SchedulerConfig{Interval: 5 * time.Millisecond})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	err := s.Start(ctx)
	assert.ErrorIs(t, err, storeErr)
}

func TestStartTwiceFails(t *testing.T) {
	s := New(&fakeSites{}, &fakeProber{}, nil, nil, config.SchedulerConfig{Interval: time.Hour})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Start(ctx)

	require.Eventually(t, func() bool {
		s.mu.Lock()
		defer s.mu.Unlock()
		return s.cancel != nil
	}, time.Second, time.Millisecond)

	assert.Error(t, s.Start(ctx))
	s.Stop()
}

func TestStopWithoutStart(t *testing.T) {
	s := New(&fakeSites{}, &fakeProber{}, nil, nil, config.SchedulerConfig{Interval: time.Hour})
	s.Stop()
}

func TestPassAlertsOwnerOfFailingSite(t *testing.T) {
	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer failing.Close()
	healthy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer healthy.Close()

	ctx := context.Background()
	database := db.NewTestSQLite(t)
	repo := database.SitesRepo()
	_, err := repo.AddSite(ctx, 100, healthy.URL)
	require.NoError(t, err)
	_, err = repo.AddSite(ctx, 200, failing.URL)
	require.NoError(t, err)

	var alerts []model.Alert
	notif := notifier.Func(func(_ context.Context, alert model.Alert) error {
		alerts = append(alerts, alert)
		return nil
	})

	c := checker.New(config.CheckerConfig{Timeout: 2 * time.Second})
	s := New(repo, c, notif, nil, config.SchedulerConfig{Interval: time.Hour})

	report, err := s.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Checked)

	require.Len(t, alerts, 1)
	assert.Equal(t, int64(200), alerts[0].OwnerId)
	assert.Equal(t, failing.URL, alerts[0].Url)
	require.NotNil(t, alerts[0].Code)
	assert.Equal(t, int64(http.StatusServiceUnavailable), *alerts[0].Code)
}
