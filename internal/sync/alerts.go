package sync

import (
	"context"
	"fmt"
	"time"

	"github.com/hikoapp/doc-sync/internal/domain"
)

// SyncAlerts fetches all alerts, normalizes and upserts them, then folds
// per-track alert severities into a derived status written back onto each
// affected track. Per-item and per-track-update failures are logged and
// skipped independently; a fetch failure aborts the run.
func (s *Service) SyncAlerts(ctx context.Context) (AlertSummary, error) {
	start := s.clock.Now()
	s.metrics.SyncRunning.Set(1)
	defer s.metrics.SyncRunning.Set(0)

	alertsRaw, err := s.fetcher.FetchAll(ctx, "/alerts")
	if err != nil {
		s.metrics.SyncRuns.WithLabelValues("alerts", "error").Inc()
		return AlertSummary{}, fmt.Errorf("fetch doc alerts: %w", err)
	}

	summary := AlertSummary{Alerts: len(alertsRaw)}
	now := s.clock.Now().UTC()

	// Highest severity seen per track this run; only a strictly greater
	// severity replaces the tracked value, so a later lower-severity alert
	// never downgrades the result.
	maxSeverity := make(map[string]domain.Severity)

	for _, raw := range alertsRaw {
		alert, err := domain.ToAlert(raw)
		if err != nil {
			s.metrics.NormalizeErrors.WithLabelValues(domain.CollectionAlerts).Inc()
			s.skipItem(&summary.Report, domain.CollectionAlerts, "", err)
			continue
		}

		if err := s.upsertEntity(ctx, domain.CollectionAlerts, alert.AlertID, alert); err != nil {
			s.skipItem(&summary.Report, domain.CollectionAlerts, alert.AlertID, err)
			continue
		}

		if alert.SourceType == domain.SourceTrack && alert.SourceID != "" && alert.Severity != domain.SeverityNone {
			if alert.Severity.Outranks(maxSeverity[alert.SourceID]) {
				maxSeverity[alert.SourceID] = alert.Severity
			}
		}
	}

	for trackID, severity := range maxSeverity {
		fields := map[string]any{
			"statusSummary":        string(severity.TrackStatus()),
			"lastOfficialStatusAt": now.Format(time.RFC3339),
			"updatedAt":            now.Format(time.RFC3339),
		}
		if err := s.docs.Merge(ctx, domain.CollectionHikes, trackID, fields); err != nil {
			s.skipItem(&summary.Report, domain.CollectionHikes, trackID, fmt.Errorf("update track status: %w", err))
			continue
		}
		summary.TracksUpdated++
	}

	s.metrics.SyncRuns.WithLabelValues("alerts", "success").Inc()
	s.metrics.SyncDuration.WithLabelValues("alerts").Observe(s.clock.Since(start).Seconds())
	s.ready.Store(true)

	s.logger.Info("alert sync complete",
		"alerts", summary.Alerts,
		"tracks_updated", summary.TracksUpdated,
		"skipped", summary.Report.Failed(),
	)
	return summary, nil
}
