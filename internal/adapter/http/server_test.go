package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hikoapp/doc-sync/internal/sync"
)

type fakeReady struct{ err error }

func (f *fakeReady) CheckReadiness(context.Context) error { return f.err }

type fakeSyncer struct {
	assetOpts    sync.AssetOptions
	assetCalls   int
	assetSummary sync.AssetSummary
	assetErr     error
	alertCalls   int
	alertSummary sync.AlertSummary
	alertErr     error
}

func (f *fakeSyncer) SyncAssets(_ context.Context, opts sync.AssetOptions) (sync.AssetSummary, error) {
	f.assetCalls++
	f.assetOpts = opts
	return f.assetSummary, f.assetErr
}

func (f *fakeSyncer) SyncAlerts(context.Context) (sync.AlertSummary, error) {
	f.alertCalls++
	return f.alertSummary, f.alertErr
}

func newTestServer(ready *fakeReady, syncer *fakeSyncer) *Server {
	return NewServer(":0", ready, syncer, slog.New(slog.DiscardHandler))
}

func do(t *testing.T, server *Server, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func TestHealthEndpoint(t *testing.T) {
	server := newTestServer(&fakeReady{}, &fakeSyncer{})

	rec := do(t, server, http.MethodGet, "/healthz")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, rec.Body.String())
}

func TestReadyEndpoint(t *testing.T) {
	t.Run("not ready", func(t *testing.T) {
		server := newTestServer(&fakeReady{err: errors.New("no sync run has completed yet")}, &fakeSyncer{})

		rec := do(t, server, http.MethodGet, "/readyz")

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Contains(t, rec.Body.String(), "no sync run has completed yet")
	})

	t.Run("ready", func(t *testing.T) {
		server := newTestServer(&fakeReady{}, &fakeSyncer{})

		rec := do(t, server, http.MethodGet, "/readyz")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"status":"ready"}`, rec.Body.String())
	})
}

func TestMetricsEndpoint(t *testing.T) {
	server := newTestServer(&fakeReady{}, &fakeSyncer{})

	rec := do(t, server, http.MethodGet, "/metrics")

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSyncAssetsEndpoint(t *testing.T) {
	t.Run("runs the job and returns the summary", func(t *testing.T) {
		syncer := &fakeSyncer{assetSummary: sync.AssetSummary{Tracks: 3, Huts: 2, Campsites: 1, GeojsonStored: 3}}
		server := newTestServer(&fakeReady{}, syncer)

		rec := do(t, server, http.MethodPost, "/sync/assets")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 1, syncer.assetCalls)
		assert.JSONEq(t, `{"tracks":3,"huts":2,"campsites":1,"geojsonStored":3}`, rec.Body.String())
	})

	t.Run("track limit parameter", func(t *testing.T) {
		syncer := &fakeSyncer{}
		server := newTestServer(&fakeReady{}, syncer)

		rec := do(t, server, http.MethodPost, "/sync/assets?trackLimit=25")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 25, syncer.assetOpts.TrackLimit)
	})

	t.Run("invalid track limit", func(t *testing.T) {
		syncer := &fakeSyncer{}
		server := newTestServer(&fakeReady{}, syncer)

		for _, target := range []string{"/sync/assets?trackLimit=abc", "/sync/assets?trackLimit=-1"} {
			rec := do(t, server, http.MethodPost, target)
			assert.Equal(t, http.StatusBadRequest, rec.Code, target)
		}
		assert.Zero(t, syncer.assetCalls)
	})

	t.Run("job failure", func(t *testing.T) {
		syncer := &fakeSyncer{assetErr: errors.New("doc api down")}
		server := newTestServer(&fakeReady{}, syncer)

		rec := do(t, server, http.MethodPost, "/sync/assets")

		assert.Equal(t, http.StatusBadGateway, rec.Code)
		assert.Contains(t, rec.Body.String(), "doc api down")
	})

	t.Run("method not allowed", func(t *testing.T) {
		server := newTestServer(&fakeReady{}, &fakeSyncer{})

		rec := do(t, server, http.MethodGet, "/sync/assets")

		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}

func TestSyncAlertsEndpoint(t *testing.T) {
	t.Run("runs the job and returns the summary", func(t *testing.T) {
		syncer := &fakeSyncer{alertSummary: sync.AlertSummary{Alerts: 5, TracksUpdated: 2}}
		server := newTestServer(&fakeReady{}, syncer)

		rec := do(t, server, http.MethodPost, "/sync/alerts")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 1, syncer.alertCalls)
		assert.JSONEq(t, `{"alerts":5,"tracksUpdated":2}`, rec.Body.String())
	})

	t.Run("job failure", func(t *testing.T) {
		syncer := &fakeSyncer{alertErr: errors.New("doc api down")}
		server := newTestServer(&fakeReady{}, syncer)

		rec := do(t, server, http.MethodPost, "/sync/alerts")

		assert.Equal(t, http.StatusBadGateway, rec.Code)
	})
}

func TestUnknownRoute(t *testing.T) {
	server := newTestServer(&fakeReady{}, &fakeSyncer{})

	rec := do(t, server, http.MethodGet, "/nope")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
