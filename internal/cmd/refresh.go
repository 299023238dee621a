package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/adamancini/badlock/internal/diff"
	"github.com/adamancini/badlock/internal/output"
)

func newRefreshCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Check the device and the mirror now",
		Long: `Refresh queries the device and the mirror for every module, saves the result
and prints what changed since the previous refresh.

A refresh only fails as a whole when no module could be checked at all, in
which case the cache is left untouched.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()
			return runRefresh(cmd.Context(), a)
		},
	}
}

func runRefresh(ctx context.Context, a *app) error {
	previous := a.cached()

	snap, err := a.aggregator.Refresh(ctx)
	if err != nil {
		return err
	}

	summary := output.RefreshSummary{
		RefreshID: snap.RefreshID,
		Changes:   diff.Compute(previous, snap),
	}
	for _, c := range snap.Count() {
		summary.Modules += c.Total
		summary.Updates += c.Updates
	}
	return a.out.Write(summary)
}
