package scheduler

import (
	"context"
	"downalert/internal/config"
	"downalert/internal/lib/sl"
	"downalert/internal/model"
	"downalert/internal/notifier"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

type SitesLister interface {
	GetAllSites(ctx context.Context) ([]model.Site, error)
}

type Prober interface {
	Probe(ctx context.Context, site model.Site) model.CheckResult
}

type MetricsRecorder interface {
	RecordProbe(down bool)
	RecordAlert(err error)
	RecordPass(duration time.Duration, sites int)
}

// Report summarizes one poll pass.
type Report struct {
	PassId   string
	Checked  int
	Down     []model.CheckResult
	Notified int
}

type Scheduler struct {
	sites    SitesLister
	checker  Prober
	notifier notifier.Notifier
	metrics  MetricsRecorder
	config   config.SchedulerConfig

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// New builds a scheduler. A nil notifier turns passes into dry runs and a nil
// metrics recorder disables metrics.
func New(
	sites SitesLister,
	checker Prober,
	notifier notifier.Notifier,
	metrics MetricsRecorder,
	config config.SchedulerConfig,
) *Scheduler {
	return &Scheduler{
		sites:    sites,
		checker:  checker,
		notifier: notifier,
		metrics:  metrics,
		config:   config,
	}
}

// Start runs a pass every interval until ctx is cancelled or Stop is called.
// It returns the error of a pass that could not read the stored sites.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.cancel != nil {
		s.mu.Unlock()
		return errors.New("scheduler is already running")
	}
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})
	done := s.done
	s.mu.Unlock()

	defer func() {
		cancel()
		close(done)
		s.mu.Lock()
		s.cancel = nil
		s.mu.Unlock()
	}()

	slog.Info("starting scheduler", slog.Duration("interval", s.config.Interval))
	err := s.routine(ctx)
	if errors.Is(err, context.Canceled) {
		slog.Info("scheduler stopped")
		return nil
	}
	return err
}

// Stop cancels the running loop and waits for the current pass to return.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (s *Scheduler) routine(ctx context.Context) error {
	t := time.NewTicker(s.config.Interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
		}

		if _, err := s.RunOnce(ctx); err != nil {
			return err
		}
	}
}

// RunOnce probes every stored site in order and emits one alert per site
// found down.
func (s *Scheduler) RunOnce(ctx context.Context) (Report, error) {
	start := time.Now()
	report := Report{PassId: uuid.NewString()}
	log := slog.With(slog.String("pass_id", report.PassId))

	sites, err := s.sites.GetAllSites(ctx)
	if err != nil {
		return report, fmt.Errorf("failed to get sites from database: %w", err)
	}
	log.Info("starting poll pass", slog.Int("sites", len(sites)))

	for _, site := range sites {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		result := s.checker.Probe(ctx, site)
		report.Checked++
		if s.metrics != nil {
			s.metrics.RecordProbe(result.IsDown())
		}

		if !result.IsDown() {
			log.Debug("site is up", sl.CheckResult(result))
			continue
		}

		log.Info("site is down", sl.CheckResult(result))
		report.Down = append(report.Down, result)

		if s.notifier == nil {
			continue
		}
		alert := model.NewAlert(result)
		err := s.notifier.Notify(ctx, alert)
		if s.metrics != nil {
			s.metrics.RecordAlert(err)
		}
		if err != nil {
			log.Error("failed to send alert", sl.Alert(alert), sl.Error(err))
			continue
		}
		report.Notified++
	}

	elapsed := time.Since(start)
	if s.metrics != nil {
		s.metrics.RecordPass(elapsed, len(sites))
	}
	log.Info("poll pass completed",
		slog.Int("checked", report.Checked),
		slog.Int("down", len(report.Down)),
		slog.Int("notified", report.Notified),
		slog.Int64("elapsed_ms", elapsed.Milliseconds()),
	)

	return report, nil
}
