package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/adamancini/badlock/internal/aggregate"
	"github.com/adamancini/badlock/internal/cache"
	"github.com/adamancini/badlock/internal/catalog"
	"github.com/adamancini/badlock/internal/config"
	"github.com/adamancini/badlock/internal/device"
	"github.com/adamancini/badlock/internal/icons"
	"github.com/adamancini/badlock/internal/interactive"
	"github.com/adamancini/badlock/internal/launch"
	"github.com/adamancini/badlock/internal/logging"
	"github.com/adamancini/badlock/internal/output"
	"github.com/adamancini/badlock/internal/scrape"
	"github.com/adamancini/badlock/internal/update"
)

// deviceClient is everything the commands need from the device.
type deviceClient interface {
	device.PackageQuerier
	device.Launcher
	Info(ctx context.Context) (device.Info, error)
}

// Constructors replaced in tests.
var (
	newDeviceClient = func(cfg *config.Config, logger *zap.Logger) deviceClient {
		return device.NewADB(device.Options{
			Path:    cfg.ADBPath,
			Serial:  cfg.Serial,
			Timeout: cfg.ADBTimeout,
		}, nil, logger)
	}
	newVersionChecker = func(cfg *config.Config, logger *zap.Logger) update.Checker {
		client := scrape.NewClient(cfg.UserAgent, logger)
		return update.NewMirrorChecker(client, logger).WithTimeouts(update.Timeouts{
			Feed:     cfg.FeedTimeout,
			Detail:   cfg.DetailTimeout,
			Fallback: cfg.FallbackTimeout,
		})
	}
	newPrompter = interactive.NewPrompter
)

// app holds the collaborators built from settings for one command run.
type app struct {
	cfg        *config.Config
	logger     *zap.Logger
	device     deviceClient
	catalog    []catalog.Entry
	store      *cache.FileStore
	resolver   *launch.Resolver
	aggregator *aggregate.Aggregator
	prompter   *interactive.Prompter

	out    *output.Writer
	stdout io.Writer
	stderr io.Writer
}

// newApp loads settings and wires every component.
func newApp(cmd *cobra.Command) (*app, error) {
	format, err := output.ParseFormat(outputFormat)
	if err != nil {
		return nil, err
	}

	cfg, err := loader.Load(configPath)
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(logging.Level(cfg.LogLevel, verbose, quiet), cfg.LogFormat)
	if err != nil {
		return nil, err
	}
	if f := loader.ConfigFile(); f != "" {
		logger.Debug("loaded settings", zap.String("path", f))
	}

	entries, catalogPath, err := catalog.Resolve(expandHomePath(cfg.CatalogFile))
	if err != nil {
		return nil, err
	}
	if catalogPath != "" {
		logger.Debug("merged modules file", zap.String("path", catalogPath), zap.Int("modules", len(entries)))
	}

	store, err := newStore(cfg)
	if err != nil {
		return nil, err
	}

	dev := newDeviceClient(cfg, logger)
	resolver := launch.NewResolver(dev, logger)

	agg := aggregate.New(aggregate.Deps{
		Catalog:  entries,
		Packages: dev,
		Resolver: resolver,
		Versions: newVersionChecker(cfg, logger),
		Icons:    icons.NewDir(expandHomePath(cfg.IconsDir)),
		Store:    store,
		Logger:   logger,
	}).WithConcurrency(cfg.Concurrency)

	return &app{
		cfg:        cfg,
		logger:     logger,
		device:     dev,
		catalog:    entries,
		store:      store,
		resolver:   resolver,
		aggregator: agg,
		prompter:   newPrompter(),
		out:        output.NewWriter(cmd.OutOrStdout(), format),
		stdout:     cmd.OutOrStdout(),
		stderr:     cmd.ErrOrStderr(),
	}, nil
}

func newStore(cfg *config.Config) (*cache.FileStore, error) {
	if cfg.CacheDir != "" {
		return cache.NewFileStoreWithDir(expandHomePath(cfg.CacheDir)), nil
	}
	return cache.NewFileStore()
}

// close flushes the logger.
func (a *app) close() {
	_ = a.logger.Sync()
}

// printf writes human-oriented text. It is silent in quiet mode and when a
// structured format was requested.
func (a *app) printf(format string, args ...any) {
	if quiet || a.out.Format() != output.FormatText {
		return
	}
	_, _ = fmt.Fprintf(a.stdout, format, args...)
}

// warnf writes a notice to stderr unless quiet.
func (a *app) warnf(format string, args ...any) {
	if quiet {
		return
	}
	_, _ = fmt.Fprintf(a.stderr, format, args...)
}

// findModule looks a catalog entry up by name or package.
func (a *app) findModule(query string) (catalog.Entry, error) {
	return catalog.Find(a.catalog, query)
}

// cached returns the stored snapshot, or nil when there is none or it
// cannot be read.
func (a *app) cached() *aggregate.Snapshot {
	snap, err := a.store.Load()
	if err != nil {
		return nil
	}
	return snap
}

// completeModules offers catalog names for positional arguments.
func completeModules(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	var out []string
	for _, e := range catalog.Builtin() {
		if strings.HasPrefix(strings.ToLower(e.Name), strings.ToLower(toComplete)) {
			out = append(out, fmt.Sprintf("%s\t%s", e.Name, e.Package))
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}

// expandHomePath expands ~ to the user's home directory.
func expandHomePath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}
