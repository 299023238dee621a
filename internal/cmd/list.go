package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/adamancini/badlock/internal/aggregate"
	"github.com/adamancini/badlock/internal/output"
)

// staleWarning is shown when a refresh failed but cached data is available.
const staleWarning = "Update check failed, showing last known data."

func newListCmd() *cobra.Command {
	var refresh bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List modules with installed and latest versions",
		Long: `List shows every tracked module grouped by category, with the installed
version, the latest version on the mirror, and the minimum Android version.

The cached result is shown while it is fresh (see stale_after). Older data is
refreshed first. If the refresh fails, the last known data is shown instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()
			return runList(cmd.Context(), a, refresh)
		},
	}

	cmd.Flags().BoolVarP(&refresh, "refresh", "r", false, "Refresh even if the cache is fresh")

	return cmd
}

func runList(ctx context.Context, a *app, force bool) error {
	var (
		snap *aggregate.Snapshot
		err  error
	)
	if force {
		snap, err = a.aggregator.Refresh(ctx)
		if err != nil {
			snap = a.cached()
		}
	} else {
		snap, err = a.aggregator.RefreshIfStale(ctx, a.cfg.StaleAfter)
	}

	now := time.Now()
	view := output.ModuleList{Snapshot: snap, Now: now}
	if err != nil {
		if snap == nil {
			return err
		}
		a.logger.Warn("refresh failed, using cache", zap.Error(err))
		view.Warning = staleWarning
	}
	if snap != nil {
		view.Stale = snap.Age(now) >= a.cfg.StaleAfter
	}
	return a.out.Write(view)
}
