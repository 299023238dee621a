// Package launch decides which activity to start for a module.
//
// Resolution tries, in order: the package's override, the launcher activity
// declared by the package, its MAIN/LAUNCHER activities, and finally a scored
// search over all exported activities.
package launch

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/adamancini/badlock/internal/device"
)

// Resolver finds launch targets using a device's package manager.
type Resolver struct {
	pm        device.PackageQuerier
	overrides map[string]Override
	logger    *zap.Logger
}

// NewResolver creates a resolver with DefaultOverrides.
func NewResolver(pm device.PackageQuerier, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{
		pm:        pm,
		overrides: DefaultOverrides(),
		logger:    logger,
	}
}

// WithOverrides replaces the override table.
func (r *Resolver) WithOverrides(overrides map[string]Override) *Resolver {
	r.overrides = overrides
	return r
}

// Resolve returns the component to start for the module named module in
// package pkg, or false when nothing suitable exists. Device query failures
// count as finding nothing.
func (r *Resolver) Resolve(ctx context.Context, pkg, module string) (device.Component, bool) {
	log := r.logger.With(zap.String("package", pkg), zap.String("module", module))

	if o, ok := r.overrides[pkg]; ok {
		if c, ok := r.applyOverride(ctx, pkg, module, o); ok {
			log.Debug("using override", zap.Stringer("component", c))
			return c, true
		}
	}

	if c, ok := r.declaredLauncher(ctx, pkg); ok {
		log.Debug("using declared launcher", zap.Stringer("component", c))
		return c, true
	}

	if c, ok := r.mainLauncher(ctx, pkg); ok {
		log.Debug("using MAIN/LAUNCHER activity", zap.Stringer("component", c))
		return c, true
	}

	if c, ok := r.deepSearch(ctx, pkg, module); ok {
		log.Debug("using deep search", zap.Stringer("component", c))
		return c, true
	}

	log.Debug("no launch target")
	return device.Component{}, false
}

func (r *Resolver) applyOverride(ctx context.Context, pkg, module string, o Override) (device.Component, bool) {
	for _, step := range o.Steps {
		switch step.Kind {
		case StepTarget:
			if !step.RequireResolvable || r.usable(ctx, step.Target) {
				return step.Target, true
			}
		case StepCandidates:
			for _, class := range step.Candidates {
				c := device.Component{Package: pkg, Class: class}
				if r.usable(ctx, c) {
					return c, true
				}
			}
		case StepDeepSearch:
			if c, ok := r.deepSearch(ctx, pkg, module); ok {
				return c, true
			}
		}
	}
	return device.Component{}, false
}

// usable reports whether c exists and is enabled.
func (r *Resolver) usable(ctx context.Context, c device.Component) bool {
	info, err := r.pm.ActivityInfo(ctx, c)
	if err != nil {
		r.queryFailed("activity info", c.Package, err)
		return false
	}
	return info.Enabled
}

func (r *Resolver) declaredLauncher(ctx context.Context, pkg string) (device.Component, bool) {
	c, err := r.pm.ResolveLauncher(ctx, pkg)
	if err != nil {
		r.queryFailed("resolve launcher", pkg, err)
		return device.Component{}, false
	}
	if IsProblematicLauncher(pkg, c) {
		r.logger.Debug("skipping problematic launcher",
			zap.String("package", pkg),
			zap.Stringer("component", c),
		)
		return device.Component{}, false
	}
	return c, true
}

func (r *Resolver) mainLauncher(ctx context.Context, pkg string) (device.Component, bool) {
	activities, err := r.pm.MainLauncherActivities(ctx, pkg)
	if err != nil {
		r.queryFailed("main launcher activities", pkg, err)
		return device.Component{}, false
	}
	if len(activities) == 0 {
		return device.Component{}, false
	}
	for _, c := range activities {
		if !containsAnyFold(c.Class, genericBlocklist) {
			return c, true
		}
	}
	return activities[0], true
}

// deepSearch picks the highest scoring exported activity. Ties go to the
// activity listed first.
func (r *Resolver) deepSearch(ctx context.Context, pkg, module string) (device.Component, bool) {
	activities, err := r.pm.Activities(ctx, pkg)
	if err != nil {
		r.queryFailed("activities", pkg, err)
		return device.Component{}, false
	}

	best, bestScore, found := "", 0, false
	for _, a := range activities {
		if !a.Exported {
			continue
		}
		score := Score(a.Name, module)
		if !found || score > bestScore {
			best, bestScore, found = a.Name, score, true
		}
	}
	if !found {
		return device.Component{}, false
	}
	return device.Component{Package: pkg, Class: best}, true
}

func (r *Resolver) queryFailed(query, pkg string, err error) {
	level := r.logger.Warn
	if errors.Is(err, device.ErrNotFound) {
		level = r.logger.Debug
	}
	level("package query failed",
		zap.String("query", query),
		zap.String("package", pkg),
		zap.Error(err),
	)
}
