// Package sync runs the scheduled background tasks: polling the external
// glucose monitor and periodically recomputing derived state for alerts.
// Both loops are pure reads over the store at the instant of the tick, so
// they may interleave freely.
package sync

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/mrcode/diabefit/internal/engine"
	"github.com/mrcode/diabefit/internal/history"
	"github.com/mrcode/diabefit/internal/models"
	"github.com/mrcode/diabefit/internal/nightscout"
	"github.com/mrcode/diabefit/internal/notifications"
	"github.com/mrcode/diabefit/internal/store"
)

// Service owns the poll and recompute loops. Start and Stop are idempotent;
// a fetch failure leaves all prior state unchanged and simply waits for the
// next tick.
type Service struct {
	client  *nightscout.Client
	store   *store.Store
	history *history.Store
	notify  *notifications.Manager

	pollInterval      time.Duration
	recomputeInterval time.Duration
	historyDays       int

	mu       sync.Mutex
	cancel   context.CancelFunc
	running  bool
	trend    models.Trend
	lastSeen time.Time
}

// New creates a sync service. client may be nil when no monitor is
// configured; the recompute loop still runs.
func New(client *nightscout.Client, st *store.Store, hist *history.Store, notify *notifications.Manager, pollInterval, recomputeInterval time.Duration, historyDays int) *Service {
	return &Service{
		client:            client,
		store:             st,
		history:           hist,
		notify:            notify,
		pollInterval:      pollInterval,
		recomputeInterval: recomputeInterval,
		historyDays:       historyDays,
		trend:             models.TrendStable,
	}
}

// Start launches the background loops. Calling Start on a running service
// is a no-op.
func (s *Service) Start(ctx context.Context) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	ctx, s.cancel = context.WithCancel(ctx)
	s.running = true
	s.mu.Unlock()

	if s.client != nil {
		go s.pollLoop(ctx)
	}
	go s.recomputeLoop(ctx)
}

// Stop cancels the background loops. Safe to call repeatedly and to follow
// with another Start.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	s.cancel()
	s.cancel = nil
	s.running = false
}

func (s *Service) pollLoop(ctx context.Context) {
	if err := s.PollOnce(ctx); err != nil {
		slog.Warn("monitor poll failed", "err", err)
	}
	if err := s.RefreshHistory(ctx); err != nil {
		slog.Warn("history refresh failed", "err", err)
	}

	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if err := s.PollOnce(ctx); err != nil {
				slog.Warn("monitor poll failed", "err", err)
				continue
			}
			if err := s.RefreshHistory(ctx); err != nil {
				slog.Warn("history refresh failed", "err", err)
			}
		case <-ctx.Done():
			return
		}
	}
}

func (s *Service) recomputeLoop(ctx context.Context) {
	ticker := time.NewTicker(s.recomputeInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.RecomputeOnce(time.Now())
		case <-ctx.Done():
			return
		}
	}
}

// PollOnce fetches the most recent monitor reading and appends it to the
// event log. Readings already seen (same measurement time) are skipped, and
// any failure keeps the last known glucose and trend unchanged.
func (s *Service) PollOnce(ctx context.Context) error {
	entry, err := s.client.CurrentEntry(ctx)
	if err != nil {
		return err
	}

	at := entry.Time()
	if at.IsZero() {
		return nil
	}

	s.mu.Lock()
	seen := !at.After(s.lastSeen)
	if !seen {
		s.lastSeen = at
	}
	if trend, ok := models.MapTrend(entry.Direction); ok {
		s.trend = trend
	}
	s.mu.Unlock()

	if seen {
		return nil
	}

	if _, err := s.store.LogGlucoseAt(entry.ValueMmol(), models.SourceMonitor, at); err != nil {
		if models.IsValidationError(err) {
			// Out-of-range sensor noise; drop the reading, keep the trend.
			slog.Warn("monitor reading rejected", "sgv", entry.SGV, "err", err)
			return nil
		}
		return err
	}
	return nil
}

// RefreshHistory pulls the trailing multi-week series into the history
// cache and prunes points that fell out of the window.
func (s *Service) RefreshHistory(ctx context.Context) error {
	now := time.Now()
	cutoff := now.AddDate(0, 0, -s.historyDays)

	entries, err := s.client.EntriesSince(ctx, cutoff)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return nil
	}

	points := make([]models.GlucoseHistoryPoint, 0, len(entries))
	for i := range entries {
		t := entries[i].Time()
		if t.IsZero() {
			continue
		}
		points = append(points, models.GlucoseHistoryPoint{
			Timestamp: t,
			Value:     entries[i].ValueMmol(),
		})
	}
	if err := s.history.Upsert(ctx, points); err != nil {
		return err
	}
	return s.history.DeleteBefore(ctx, cutoff)
}

// RecomputeOnce re-derives the readiness score from the log at the given
// instant and lets the notifier decide whether anything is due. Exposed so
// tests can drive time instead of waiting on the ticker.
func (s *Service) RecomputeOnce(now time.Time) engine.Score {
	settings := s.store.Settings()
	events := s.store.Events()

	iob := engine.IOB(events, now, actionDuration(settings))

	var glucose *float64
	if latest, ok := s.store.LatestGlucose(); ok {
		v := latest.Glucose
		glucose = &v
	}

	score := engine.Readiness(glucose, settings, iob)

	if err := s.notify.CheckReadiness(now, score); err != nil {
		slog.Warn("readiness alert failed", "err", err)
	}
	today := s.store.ScheduleForDay(int(now.Weekday()))
	if err := s.notify.CheckReminder(now, today); err != nil {
		slog.Warn("training reminder failed", "err", err)
	}

	return score
}

// Trend returns the last known direction reported by the monitor.
func (s *Service) Trend() models.Trend {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.trend
}

func actionDuration(settings models.Settings) time.Duration {
	return time.Duration(settings.InsulinActionHours * float64(time.Hour))
}
