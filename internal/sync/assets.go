package sync

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/hikoapp/doc-sync/internal/domain"
)

const (
	geojsonContentType  = "application/geo+json"
	geojsonCacheControl = "public,max-age=86400"
)

// AssetOptions adjusts one asset sync run.
type AssetOptions struct {
	// TrackLimit caps the number of tracks processed, applied after the fetch.
	// Zero means no limit. Used by the demo-seed invocation.
	TrackLimit int
}

// SyncAssets fetches all tracks, huts, and campsites concurrently, normalizes
// them, and merge-upserts them into the document store. Track geometry is
// resolved and written to blob storage when the stored document does not
// already reference one. Per-item failures are logged and skipped; a fetch
// failure aborts the whole run.
func (s *Service) SyncAssets(ctx context.Context, opts AssetOptions) (AssetSummary, error) {
	start := s.clock.Now()
	s.metrics.SyncRunning.Set(1)
	defer s.metrics.SyncRunning.Set(0)

	var tracksRaw, hutsRaw, campsitesRaw []domain.Raw
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		tracksRaw, err = s.fetcher.FetchAll(gctx, "/tracks")
		return err
	})
	g.Go(func() (err error) {
		hutsRaw, err = s.fetcher.FetchAll(gctx, "/huts")
		return err
	})
	g.Go(func() (err error) {
		campsitesRaw, err = s.fetcher.FetchAll(gctx, "/campsites")
		return err
	})
	if err := g.Wait(); err != nil {
		s.metrics.SyncRuns.WithLabelValues("assets", "error").Inc()
		return AssetSummary{}, fmt.Errorf("fetch doc assets: %w", err)
	}

	if opts.TrackLimit > 0 && len(tracksRaw) > opts.TrackLimit {
		tracksRaw = tracksRaw[:opts.TrackLimit]
	}

	summary := AssetSummary{
		Tracks:    len(tracksRaw),
		Huts:      len(hutsRaw),
		Campsites: len(campsitesRaw),
	}

	for _, raw := range tracksRaw {
		id, stored, err := s.syncTrack(ctx, raw)
		if stored {
			summary.GeojsonStored++
		}
		if err != nil {
			s.skipItem(&summary.Report, domain.CollectionHikes, id, err)
		}
	}

	for _, raw := range hutsRaw {
		hut, err := domain.ToHut(raw)
		if err != nil {
			s.metrics.NormalizeErrors.WithLabelValues(domain.CollectionHuts).Inc()
			s.skipItem(&summary.Report, domain.CollectionHuts, "", err)
			continue
		}
		if err := s.upsertEntity(ctx, domain.CollectionHuts, hut.DocHutID, hut); err != nil {
			s.skipItem(&summary.Report, domain.CollectionHuts, hut.DocHutID, err)
		}
	}

	for _, raw := range campsitesRaw {
		campsite, err := domain.ToCampsite(raw)
		if err != nil {
			s.metrics.NormalizeErrors.WithLabelValues(domain.CollectionCampsites).Inc()
			s.skipItem(&summary.Report, domain.CollectionCampsites, "", err)
			continue
		}
		if err := s.upsertEntity(ctx, domain.CollectionCampsites, campsite.DocCampsiteID, campsite); err != nil {
			s.skipItem(&summary.Report, domain.CollectionCampsites, campsite.DocCampsiteID, err)
		}
	}

	s.metrics.SyncRuns.WithLabelValues("assets", "success").Inc()
	s.metrics.SyncDuration.WithLabelValues("assets").Observe(s.clock.Since(start).Seconds())
	s.ready.Store(true)

	s.logger.Info("asset sync complete",
		"tracks", summary.Tracks,
		"huts", summary.Huts,
		"campsites", summary.Campsites,
		"geojson_stored", summary.GeojsonStored,
		"skipped", summary.Report.Failed(),
	)
	return summary, nil
}

// syncTrack normalizes and upserts one track, resolving its route geometry
// when the stored document does not already reference one. The returned id is
// empty if normalization failed before an identifier was extracted; stored
// reports whether a geometry blob was written.
func (s *Service) syncTrack(ctx context.Context, raw domain.Raw) (id string, stored bool, err error) {
	hike, err := domain.ToHike(raw)
	if err != nil {
		s.metrics.NormalizeErrors.WithLabelValues(domain.CollectionHikes).Inc()
		return "", false, err
	}
	id = hike.DocTrackID

	existing, found, err := s.docs.Get(ctx, domain.CollectionHikes, id)
	if err != nil {
		return id, false, fmt.Errorf("read existing document: %w", err)
	}

	if path, ok := existing["geojsonPath"].(string); found && ok && path != "" {
		hike.GeojsonPath = path
	} else {
		hike.GeojsonPath, stored, err = s.resolveGeometry(ctx, raw, id)
		if err != nil {
			return id, false, err
		}
	}

	doc, err := toDoc(hike)
	if err != nil {
		return id, stored, err
	}
	doc["createdAt"], doc["updatedAt"] = s.timestampPair(existing)

	if err := s.docs.Merge(ctx, domain.CollectionHikes, id, doc); err != nil {
		return id, stored, fmt.Errorf("upsert document: %w", err)
	}
	s.metrics.ItemsSynced.WithLabelValues(domain.CollectionHikes).Inc()
	return id, stored, nil
}

// resolveGeometry extracts route geometry from the list record, falling back
// to a single-item detail fetch when the list payload omitted it, and writes
// the payload to blob storage. A blob write failure is logged and leaves the
// track without a geometry reference; it does not fail the track.
func (s *Service) resolveGeometry(ctx context.Context, raw domain.Raw, docTrackID string) (path string, stored bool, err error) {
	geometry := domain.ExtractGeometry(raw)
	if geometry == nil {
		detail, err := s.fetcher.FetchSingle(ctx, "/tracks/"+docTrackID)
		if err != nil {
			return "", false, fmt.Errorf("fetch track detail: %w", err)
		}
		geometry = domain.ExtractGeometry(detail)
	}
	if geometry == nil {
		return "", false, nil
	}

	payload, err := domain.GeometryPayload(geometry)
	if err != nil {
		s.logger.Error("failed to serialize route geometry", "doc_track_id", docTrackID, "error", err)
		return "", false, nil
	}

	path = domain.GeometryBlobPath(docTrackID)
	if err := s.blobs.Put(ctx, path, payload, geojsonContentType, geojsonCacheControl); err != nil {
		s.logger.Error("failed to store route geometry", "doc_track_id", docTrackID, "error", err)
		return "", false, nil
	}
	s.metrics.GeojsonStored.Inc()
	return path, true, nil
}
