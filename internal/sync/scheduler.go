package sync

import (
	"context"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"
)

// Scheduler runs the asset sync and alert sync jobs on fixed intervals
// (daily and hourly in the default deployment). It does not guard against a
// manual trigger overlapping a scheduled run; the document store's
// merge-upsert semantics make that race benign for static upstream data.
type Scheduler struct {
	service       *Service
	assetInterval time.Duration
	alertInterval time.Duration
	clock         clockwork.Clock
	logger        *slog.Logger
}

// NewScheduler creates a Scheduler driving the given service.
func NewScheduler(service *Service, assetInterval, alertInterval time.Duration, clock clockwork.Clock, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		service:       service,
		assetInterval: assetInterval,
		alertInterval: alertInterval,
		clock:         clock,
		logger:        logger,
	}
}

// Run blocks until the context is cancelled, firing sync jobs on their
// intervals. Job failures are logged; the scheduler keeps going.
func (s *Scheduler) Run(ctx context.Context) error {
	s.logger.Info("scheduler started",
		"asset_interval", s.assetInterval,
		"alert_interval", s.alertInterval,
	)

	assetTicker := s.clock.NewTicker(s.assetInterval)
	defer assetTicker.Stop()
	alertTicker := s.clock.NewTicker(s.alertInterval)
	defer alertTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopping", "reason", ctx.Err())
			return nil
		case <-assetTicker.Chan():
			if _, err := s.service.SyncAssets(ctx, AssetOptions{}); err != nil {
				s.logger.Error("scheduled asset sync failed", "error", err)
			}
		case <-alertTicker.Chan():
			if _, err := s.service.SyncAlerts(ctx); err != nil {
				s.logger.Error("scheduled alert sync failed", "error", err)
			}
		}
	}
}
