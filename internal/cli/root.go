// Package cli wires the hiko-sync command tree: a long-running serve mode,
// one-shot sync commands, the demo-seed command, and a mock DOC API server
// for local development.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"

	"github.com/hikoapp/doc-sync/internal/adapter/blob"
	"github.com/hikoapp/doc-sync/internal/adapter/docapi"
	"github.com/hikoapp/doc-sync/internal/adapter/store"
	"github.com/hikoapp/doc-sync/internal/config"
	"github.com/hikoapp/doc-sync/internal/observability"
	"github.com/hikoapp/doc-sync/internal/sync"
)

// Execute runs the root command.
func Execute() {
	root := &cobra.Command{
		Use:           "hiko-sync",
		Short:         "Syncs DOC tracks, huts, campsites, and alerts into Hiko's data stores",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newServeCommand(),
		newAssetsCommand(),
		newAlertsCommand(),
		newSeedCommand(),
		newMockAPICommand(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// app bundles the wired service and its collaborators.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	metrics *observability.Metrics
	docs    *store.Store
	service *sync.Service
}

// buildApp loads configuration and constructs the service with its real
// adapters. Configuration errors fail here, before any network call.
func buildApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()
	clock := clockwork.NewRealClock()

	client, err := docapi.NewClient(docapi.Config{
		BaseURL:  cfg.DocBaseURL,
		APIKey:   cfg.DocAPIKey,
		PageSize: cfg.DocPageSize,
		Timeout:  cfg.DocTimeout,
	}, clock, logger, metrics)
	if err != nil {
		return nil, err
	}

	docs, err := store.Open(cfg.DataDir)
	if err != nil {
		return nil, err
	}

	blobs, err := blob.NewDiskStore(cfg.BlobDir)
	if err != nil {
		docs.Close() //nolint:errcheck // already failing
		return nil, err
	}

	return &app{
		cfg:     cfg,
		logger:  logger,
		metrics: metrics,
		docs:    docs,
		service: sync.New(client, docs, blobs, clock, logger, metrics),
	}, nil
}

func (a *app) close() {
	if err := a.docs.Close(); err != nil {
		a.logger.Error("document store close error", "error", err)
	}
}
