// Package aggregate builds snapshots of the module catalog.
//
// A refresh looks up every catalog entry concurrently: installed state and
// version from the device, a launch target for installed modules, and the
// latest published version from the mirror. Per-entry failures never abort
// the refresh; only a refresh in which every remote lookup failed is an
// error, and such a refresh leaves the cached snapshot untouched.
package aggregate

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/adamancini/badlock/internal/catalog"
	"github.com/adamancini/badlock/internal/device"
	"github.com/adamancini/badlock/internal/scrape"
	"github.com/adamancini/badlock/internal/update"
)

// DefaultStaleAfter is how old a snapshot may get before RefreshIfStale
// refreshes it.
const DefaultStaleAfter = 72 * time.Hour

// Store persists snapshots.
type Store interface {
	Save(s *Snapshot) error
	// Load returns ErrNoSnapshot when nothing has been saved.
	Load() (*Snapshot, error)
	// LastRefresh returns when the saved snapshot was taken, or the zero
	// time when there is none.
	LastRefresh() (time.Time, error)
}

// TargetResolver finds the activity to start for a module.
type TargetResolver interface {
	Resolve(ctx context.Context, pkg, module string) (device.Component, bool)
}

// IconLookup maps an icon key to an icon resource.
type IconLookup interface {
	Lookup(key string) (string, bool)
}

// Deps are the collaborators of an Aggregator. Icons and Logger may be nil.
type Deps struct {
	Catalog  []catalog.Entry
	Packages device.PackageQuerier
	Resolver TargetResolver
	Versions update.Checker
	Icons    IconLookup
	Store    Store
	Logger   *zap.Logger
}

// Aggregator refreshes and caches catalog snapshots. It is safe for
// concurrent use; overlapping refreshes share one result.
type Aggregator struct {
	catalog  []catalog.Entry
	packages device.PackageQuerier
	resolver TargetResolver
	versions update.Checker
	icons    IconLookup
	store    Store
	logger   *zap.Logger

	limit int
	now   func() time.Time

	flight singleflight.Group
	saveMu sync.Mutex
}

// New creates an aggregator.
func New(d Deps) *Aggregator {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	return &Aggregator{
		catalog:  d.Catalog,
		packages: d.Packages,
		resolver: d.Resolver,
		versions: d.Versions,
		icons:    d.Icons,
		store:    d.Store,
		logger:   d.Logger,
		now:      time.Now,
	}
}

// WithConcurrency limits how many entries are looked up at once. Zero or
// less looks up every entry at once.
func (a *Aggregator) WithConcurrency(n int) *Aggregator {
	a.limit = n
	return a
}

// Cached returns the stored snapshot.
func (a *Aggregator) Cached() (*Snapshot, error) {
	return a.store.Load()
}

// Refresh builds a new snapshot and saves it. A caller arriving while a
// refresh is running waits for that refresh and shares its result.
//
// The shared refresh does not observe any caller's cancellation. A caller
// whose ctx ends stops waiting and gets ctx.Err(); the refresh runs on for
// the others.
func (a *Aggregator) Refresh(ctx context.Context) (*Snapshot, error) {
	ch := a.flight.DoChan("refresh", func() (any, error) {
		return a.refresh(context.WithoutCancel(ctx))
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-ch:
		if r.Shared {
			a.logger.Debug("joined running refresh")
		}
		if r.Err != nil {
			return nil, r.Err
		}
		return r.Val.(*Snapshot), nil
	}
}

// RefreshIfStale returns the cached snapshot when it is younger than
// maxAge, and refreshes otherwise. When the refresh fails and a cached
// snapshot exists, that snapshot is returned together with the error.
func (a *Aggregator) RefreshIfStale(ctx context.Context, maxAge time.Duration) (*Snapshot, error) {
	if maxAge <= 0 {
		maxAge = DefaultStaleAfter
	}

	cached, err := a.store.Load()
	if err != nil && !errors.Is(err, ErrNoSnapshot) {
		a.logger.Warn("failed to load cached snapshot", zap.Error(err))
		cached = nil
	}
	if cached != nil && cached.Age(a.now()) < maxAge {
		return cached, nil
	}

	fresh, err := a.Refresh(ctx)
	if err != nil {
		return cached, err
	}
	return fresh, nil
}

func (a *Aggregator) refresh(ctx context.Context) (*Snapshot, error) {
	id := uuid.NewString()
	log := a.logger.With(zap.String("refresh_id", id))
	start := a.now()
	log.Info("refresh started", zap.Int("modules", len(a.catalog)))

	modules := make([]ResolvedModule, len(a.catalog))
	fetchErrs := make([]error, len(a.catalog))

	var g errgroup.Group
	if a.limit > 0 {
		g.SetLimit(a.limit)
	}
	for i, entry := range a.catalog {
		g.Go(func() error {
			modules[i], fetchErrs[i] = a.resolveEntry(ctx, entry, log)
			return nil
		})
	}
	_ = g.Wait()

	if err := classify(fetchErrs); err != nil {
		log.Warn("refresh failed", zap.Stringer("kind", err.Kind), zap.Error(err.Err))
		return nil, err
	}

	snap := &Snapshot{
		RefreshID: id,
		SavedAt:   a.now(),
		Groups:    GroupModules(modules),
	}
	if err := a.save(snap); err != nil {
		return nil, &RefreshError{Kind: KindGeneric, Err: fmt.Errorf("failed to save snapshot: %w", err)}
	}

	log.Info("refresh finished",
		zap.Duration("elapsed", a.now().Sub(start)),
		zap.Int("failed", countErrors(fetchErrs)),
	)
	return snap, nil
}

func (a *Aggregator) save(snap *Snapshot) error {
	a.saveMu.Lock()
	defer a.saveMu.Unlock()
	return a.store.Save(snap)
}

// resolveEntry looks up one catalog entry. The returned error is the remote
// lookup failure, if any; device failures are logged and degrade to "not
// installed" or "no launch target".
func (a *Aggregator) resolveEntry(ctx context.Context, e catalog.Entry, log *zap.Logger) (m ResolvedModule, fetchErr error) {
	log = log.With(zap.String("module", e.Name))
	m = ResolvedModule{
		Name:     e.Name,
		Package:  e.Package,
		Category: e.Category,
		InfoURL:  e.InfoURL,
	}

	defer func() {
		if r := recover(); r != nil {
			log.Error("module lookup panicked", zap.Any("panic", r))
			fetchErr = fmt.Errorf("lookup of %s panicked: %v", e.Name, r)
		}
	}()

	if a.icons != nil {
		if icon, ok := a.icons.Lookup(e.IconKey()); ok {
			m.Icon = icon
		}
	}

	installed, err := a.packages.IsInstalled(ctx, e.Package)
	if err != nil {
		log.Warn("failed to query package", zap.Error(err))
	}
	m.Installed = installed

	if installed {
		v, err := a.packages.InstalledVersion(ctx, e.Package)
		if err != nil {
			log.Warn("failed to read installed version", zap.Error(err))
		}
		m.InstalledVersion = v

		if c, ok := a.resolver.Resolve(ctx, e.Package, e.Name); ok {
			m.LaunchTarget = &c
		}
	}

	res, err := a.versions.Check(ctx, e.InfoURL)
	if err != nil {
		log.Warn("failed to fetch latest version", zap.String("url", e.InfoURL), zap.Error(err))
		fetchErr = err
	}
	m.LatestVersion = res.Version
	m.LatestURL = res.URL
	m.MinAndroid = res.MinAndroid
	m.UpdateAvailable = update.IsUpdateAvailable(m.InstalledVersion, m.LatestVersion)

	return m, fetchErr
}

// classify returns a RefreshError when every lookup failed. Any
// connectivity failure makes the whole refresh a connectivity failure.
func classify(errs []error) *RefreshError {
	if len(errs) == 0 {
		return nil
	}
	for _, err := range errs {
		if err == nil {
			return nil
		}
	}

	kind := KindGeneric
	for _, err := range errs {
		if scrape.IsConnectivity(err) {
			kind = KindConnectivity
			break
		}
	}
	return &RefreshError{Kind: kind, Err: errors.Join(errs...)}
}

func countErrors(errs []error) int {
	n := 0
	for _, err := range errs {
		if err != nil {
			n++
		}
	}
	return n
}
