// Package sync orchestrates the DOC ingestion jobs: fetch raw asset records,
// normalize them, and merge them into the document store, preserving each
// document's original creation timestamp.
package sync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"
	"github.com/jonboulle/clockwork"

	"github.com/hikoapp/doc-sync/internal/observability"
)

// Service runs the asset and alert sync jobs against injected collaborators.
type Service struct {
	fetcher Fetcher
	docs    DocumentStore
	blobs   BlobStore
	clock   clockwork.Clock
	logger  *slog.Logger
	metrics *observability.Metrics
	ready   atomic.Bool
}

// New creates a sync Service.
func New(fetcher Fetcher, docs DocumentStore, blobs BlobStore, clock clockwork.Clock, logger *slog.Logger, metrics *observability.Metrics) *Service {
	return &Service{
		fetcher: fetcher,
		docs:    docs,
		blobs:   blobs,
		clock:   clock,
		logger:  logger,
		metrics: metrics,
	}
}

// CheckReadiness returns nil once a sync run has completed successfully since
// startup.
func (s *Service) CheckReadiness(_ context.Context) error {
	if !s.ready.Load() {
		return errors.New("no sync run has completed yet")
	}
	return nil
}

// timestampPair resolves the createdAt/updatedAt values for an upsert.
// createdAt is immutable once set: the existing document's value wins, and
// only the very first upsert stamps it with the current time.
func (s *Service) timestampPair(existing map[string]any) (createdAt, updatedAt string) {
	now := s.clock.Now().UTC().Format(time.RFC3339)
	if created, ok := existing["createdAt"].(string); ok && created != "" {
		return created, now
	}
	return now, now
}

// upsertEntity merges a normalized entity into its collection, preserving the
// creation timestamp of any existing document.
func (s *Service) upsertEntity(ctx context.Context, collection, id string, entity any) error {
	existing, _, err := s.docs.Get(ctx, collection, id)
	if err != nil {
		return fmt.Errorf("read existing document: %w", err)
	}

	doc, err := toDoc(entity)
	if err != nil {
		return err
	}
	doc["createdAt"], doc["updatedAt"] = s.timestampPair(existing)

	if err := s.docs.Merge(ctx, collection, id, doc); err != nil {
		return fmt.Errorf("upsert document: %w", err)
	}
	s.metrics.ItemsSynced.WithLabelValues(collection).Inc()
	return nil
}

// toDoc converts a canonical entity into the document field map written to the
// store.
func toDoc(entity any) (map[string]any, error) {
	data, err := json.Marshal(entity)
	if err != nil {
		return nil, fmt.Errorf("serialize entity: %w", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("serialize entity: %w", err)
	}
	return doc, nil
}

// skipItem logs and records one skipped record.
func (s *Service) skipItem(report *Report, collection, id string, err error) {
	s.logger.Warn("skipping record",
		"collection", collection,
		"id", id,
		"error", err,
	)
	s.metrics.ItemErrors.WithLabelValues(collection).Inc()
	report.add(collection, id, err)
}
