// Package diff computes what changed between two snapshots.
package diff

import (
	"sort"

	"github.com/adamancini/badlock/internal/aggregate"
)

// Action represents what happened to a module between snapshots.
type Action string

const (
	ActionNewUpdate   Action = "new-update"  // An update became available
	ActionUpgraded    Action = "upgraded"    // Installed version changed
	ActionInstalled   Action = "installed"   // Module was installed
	ActionUninstalled Action = "uninstalled" // Module was removed from the device
	ActionAdded       Action = "added"       // Module joined the catalog
	ActionRemoved     Action = "removed"     // Module left the catalog
)

// ModuleDiff is one change to one module.
type ModuleDiff struct {
	Name    string `json:"name" yaml:"name"`
	Package string `json:"package" yaml:"package"`
	Action  Action `json:"action" yaml:"action"`
	From    string `json:"from,omitempty" yaml:"from,omitempty"`
	To      string `json:"to,omitempty" yaml:"to,omitempty"`
}

// Result contains every change between two snapshots.
type Result struct {
	Changes []ModuleDiff `json:"changes" yaml:"changes"`
}

// Compute compares previous with current. A nil previous snapshot reports
// nothing, since there is no baseline to compare against.
func Compute(previous, current *aggregate.Snapshot) *Result {
	result := &Result{}
	if previous == nil || current == nil {
		return result
	}

	before := index(previous)
	after := index(current)

	for pkg, now := range after {
		was, existed := before[pkg]
		if !existed {
			result.Changes = append(result.Changes, ModuleDiff{Name: now.Name, Package: pkg, Action: ActionAdded})
			continue
		}
		result.Changes = append(result.Changes, compareModule(was, now)...)
	}
	for pkg, was := range before {
		if _, ok := after[pkg]; !ok {
			result.Changes = append(result.Changes, ModuleDiff{Name: was.Name, Package: pkg, Action: ActionRemoved})
		}
	}

	sort.Slice(result.Changes, func(i, j int) bool {
		a, b := result.Changes[i], result.Changes[j]
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.Action < b.Action
	})
	return result
}

func compareModule(was, now aggregate.ResolvedModule) []ModuleDiff {
	var changes []ModuleDiff
	base := ModuleDiff{Name: now.Name, Package: now.Package}

	switch {
	case !was.Installed && now.Installed:
		d := base
		d.Action, d.To = ActionInstalled, now.InstalledVersion
		changes = append(changes, d)
	case was.Installed && !now.Installed:
		d := base
		d.Action, d.From = ActionUninstalled, was.InstalledVersion
		changes = append(changes, d)
	case was.Installed && now.Installed && was.InstalledVersion != now.InstalledVersion:
		d := base
		d.Action, d.From, d.To = ActionUpgraded, was.InstalledVersion, now.InstalledVersion
		changes = append(changes, d)
	}

	// A new update is one that was not already being reported.
	if now.UpdateAvailable && (!was.UpdateAvailable || was.LatestVersion != now.LatestVersion) {
		d := base
		d.Action, d.From, d.To = ActionNewUpdate, now.InstalledVersion, now.LatestVersion
		changes = append(changes, d)
	}
	return changes
}

func index(s *aggregate.Snapshot) map[string]aggregate.ResolvedModule {
	m := make(map[string]aggregate.ResolvedModule)
	for _, mod := range s.Modules() {
		m[mod.Package] = mod
	}
	return m
}

// Summary returns counts of each kind of change.
func (r *Result) Summary() (updates, installed, uninstalled, other int) {
	for _, c := range r.Changes {
		switch c.Action {
		case ActionNewUpdate:
			updates++
		case ActionInstalled:
			installed++
		case ActionUninstalled:
			uninstalled++
		default:
			other++
		}
	}
	return
}

// Empty reports whether nothing changed.
func (r *Result) Empty() bool {
	return len(r.Changes) == 0
}
