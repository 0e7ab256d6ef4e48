package cli

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hikoapp/doc-sync/internal/sync"
)

func newAssetsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "assets",
		Short: "Run one asset sync (tracks, huts, campsites) and exit",
		RunE: func(*cobra.Command, []string) error {
			return runOnce(func(ctx context.Context, a *app) (any, error) {
				return a.service.SyncAssets(ctx, sync.AssetOptions{})
			})
		},
	}
}

func newAlertsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "alerts",
		Short: "Run one alert sync and exit",
		RunE: func(*cobra.Command, []string) error {
			return runOnce(func(ctx context.Context, a *app) (any, error) {
				return a.service.SyncAlerts(ctx)
			})
		},
	}
}

func newSeedCommand() *cobra.Command {
	var trackLimit int

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Seed demo content with a capped track set",
		RunE: func(*cobra.Command, []string) error {
			return runOnce(func(ctx context.Context, a *app) (any, error) {
				return a.service.SyncAssets(ctx, sync.AssetOptions{TrackLimit: trackLimit})
			})
		},
	}
	cmd.Flags().IntVar(&trackLimit, "track-limit", 50, "maximum number of tracks to seed")
	return cmd
}

// runOnce wires the app, runs a single job under signal cancellation, and
// prints its summary as JSON.
func runOnce(job func(context.Context, *app) (any, error)) error {
	a, err := buildApp()
	if err != nil {
		return err
	}
	defer a.close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	summary, err := job(ctx, a)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(summary)
}
