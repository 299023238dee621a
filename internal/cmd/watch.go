package cmd

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/adamancini/badlock/internal/aggregate"
	"github.com/adamancini/badlock/internal/config"
	"github.com/adamancini/badlock/internal/diff"
	"github.com/adamancini/badlock/internal/output"
)

func newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Refresh on a schedule and report new updates",
		Long: `Watch refreshes stale data on the watch_schedule (default every hour) and
prints what changed whenever a refresh finds something new. Edits to the
settings file take effect without a restart.

Stop with Ctrl-C.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()
			return runWatch(cmd.Context(), a)
		},
	}
}

func runWatch(ctx context.Context, a *app) error {
	w := newWatcher(a)
	if err := w.reschedule(ctx, a.cfg.WatchSchedule); err != nil {
		return err
	}

	loader.Watch(w.apply(ctx), func(err error) {
		a.logger.Warn("ignoring invalid settings change", zap.Error(err))
	})

	w.cron.Start()
	a.printf("Watching for updates (%s). Press Ctrl-C to stop.\n", a.cfg.WatchSchedule)
	w.tick(ctx)

	<-ctx.Done()
	<-w.cron.Stop().Done()
	return nil
}

// watcher runs scheduled refreshes. Its schedule and staleness threshold
// can change while it runs.
type watcher struct {
	a    *app
	cron *cron.Cron

	mu         sync.Mutex
	entry      cron.EntryID
	spec       string
	staleAfter time.Duration
}

func newWatcher(a *app) *watcher {
	log := cronLogger{a.logger.Sugar()}
	return &watcher{
		a:          a,
		cron:       cron.New(cron.WithLogger(log), cron.WithChain(cron.SkipIfStillRunning(log))),
		staleAfter: a.cfg.StaleAfter,
	}
}

// reschedule replaces the scheduled job when spec differs from the current
// one.
func (w *watcher) reschedule(ctx context.Context, spec string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if spec == w.spec && w.entry != 0 {
		return nil
	}
	id, err := w.cron.AddFunc(spec, func() { w.tick(ctx) })
	if err != nil {
		return fmt.Errorf("invalid watch schedule %q: %w", spec, err)
	}
	if w.entry != 0 {
		w.cron.Remove(w.entry)
	}
	w.entry, w.spec = id, spec
	return nil
}

// apply returns the settings change callback.
func (w *watcher) apply(ctx context.Context) func(*config.Config) {
	return func(cfg *config.Config) {
		w.mu.Lock()
		w.staleAfter = cfg.StaleAfter
		w.mu.Unlock()

		if err := w.reschedule(ctx, cfg.WatchSchedule); err != nil {
			w.a.logger.Warn("keeping previous schedule", zap.Error(err))
			return
		}
		w.a.logger.Info("settings reloaded",
			zap.String("schedule", cfg.WatchSchedule),
			zap.Duration("stale_after", cfg.StaleAfter))
	}
}

// tick refreshes stale data and reports changes.
func (w *watcher) tick(ctx context.Context) {
	w.mu.Lock()
	staleAfter := w.staleAfter
	w.mu.Unlock()

	previous := w.a.cached()
	snap, err := w.a.aggregator.RefreshIfStale(ctx, staleAfter)
	if err != nil && ctx.Err() != nil {
		w.a.logger.Debug("stopped waiting for refresh", zap.Error(err))
		return
	}
	if err != nil {
		w.a.logger.Warn("scheduled refresh failed", zap.Error(err))
		w.a.warnf("%s\n", refreshFailure(err))
		return
	}
	if previous != nil && snap.RefreshID == previous.RefreshID {
		w.a.logger.Debug("cache still fresh", zap.String("refresh_id", snap.RefreshID))
		return
	}

	changes := diff.Compute(previous, snap)
	if changes.Empty() {
		return
	}
	summary := output.RefreshSummary{RefreshID: snap.RefreshID, Changes: changes}
	for _, c := range snap.Count() {
		summary.Modules += c.Total
		summary.Updates += c.Updates
	}
	if err := w.a.out.Write(summary); err != nil {
		w.a.logger.Warn("failed to write summary", zap.Error(err))
	}
}

// refreshFailure returns the message shown for a failed refresh.
func refreshFailure(err error) string {
	var re *aggregate.RefreshError
	if errors.As(err, &re) {
		return re.Message()
	}
	return err.Error()
}

// cronLogger adapts zap to cron.Logger.
type cronLogger struct {
	s *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.s.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.s.Errorw(msg, append(keysAndValues, "error", err)...)
}
