package aggregate

import (
	"errors"
	"sort"
	"time"

	"github.com/adamancini/badlock/internal/device"
	"github.com/adamancini/badlock/internal/types"
)

// ErrNoSnapshot is returned by a Store that has nothing saved yet.
var ErrNoSnapshot = errors.New("no cached snapshot")

// ResolvedModule is everything known about one catalog entry after a
// refresh.
type ResolvedModule struct {
	Name             string            `json:"name" yaml:"name"`
	Package          string            `json:"package" yaml:"package"`
	Category         types.Category    `json:"category" yaml:"category"`
	InfoURL          string            `json:"info_url" yaml:"info_url"`
	Installed        bool              `json:"installed" yaml:"installed"`
	InstalledVersion string            `json:"installed_version,omitempty" yaml:"installed_version,omitempty"`
	LatestVersion    string            `json:"latest_version,omitempty" yaml:"latest_version,omitempty"`
	LatestURL        string            `json:"latest_url,omitempty" yaml:"latest_url,omitempty"`
	MinAndroid       string            `json:"min_android,omitempty" yaml:"min_android,omitempty"`
	UpdateAvailable  bool              `json:"update_available" yaml:"update_available"`
	LaunchTarget     *device.Component `json:"launch_target,omitempty" yaml:"launch_target,omitempty"`
	Icon             string            `json:"icon,omitempty" yaml:"icon,omitempty"`
}

// PageURL returns the latest version's page when known, otherwise the
// module's info page.
func (m ResolvedModule) PageURL() string {
	if m.LatestURL != "" {
		return m.LatestURL
	}
	return m.InfoURL
}

// Group is the modules of one category, in display order.
type Group struct {
	Category types.Category   `json:"category" yaml:"category"`
	Modules  []ResolvedModule `json:"modules" yaml:"modules"`
}

// Snapshot is the grouped and sorted result of one refresh.
type Snapshot struct {
	RefreshID string    `json:"refresh_id" yaml:"refresh_id"`
	SavedAt   time.Time `json:"saved_at" yaml:"saved_at"`
	Groups    []Group   `json:"groups" yaml:"groups"`
}

// Modules returns every module in display order.
func (s *Snapshot) Modules() []ResolvedModule {
	var all []ResolvedModule
	for _, g := range s.Groups {
		all = append(all, g.Modules...)
	}
	return all
}

// Find returns the module with the given package.
func (s *Snapshot) Find(pkg string) (ResolvedModule, bool) {
	for _, g := range s.Groups {
		for _, m := range g.Modules {
			if m.Package == pkg {
				return m, true
			}
		}
	}
	return ResolvedModule{}, false
}

// Age returns how long ago the snapshot was saved.
func (s *Snapshot) Age(now time.Time) time.Duration {
	return now.Sub(s.SavedAt)
}

// Counts summarizes a snapshot.
type Counts struct {
	Total     int `json:"total" yaml:"total"`
	Installed int `json:"installed" yaml:"installed"`
	Updates   int `json:"updates" yaml:"updates"`
}

// Count tallies the modules of each category.
func (s *Snapshot) Count() map[types.Category]Counts {
	counts := make(map[types.Category]Counts)
	for _, g := range s.Groups {
		c := counts[g.Category]
		for _, m := range g.Modules {
			c.Total++
			if m.Installed {
				c.Installed++
			}
			if m.UpdateAvailable {
				c.Updates++
			}
		}
		counts[g.Category] = c
	}
	return counts
}

// GroupModules groups modules by category and sorts them. Categories follow
// their enumeration order; within a category modules with updates come
// first, then installed modules, then the rest, each by name.
func GroupModules(modules []ResolvedModule) []Group {
	byCategory := make(map[types.Category][]ResolvedModule)
	var categories []types.Category
	for _, m := range modules {
		if _, seen := byCategory[m.Category]; !seen {
			categories = append(categories, m.Category)
		}
		byCategory[m.Category] = append(byCategory[m.Category], m)
	}

	sort.SliceStable(categories, func(i, j int) bool {
		oi, oj := categories[i].Order(), categories[j].Order()
		if oi != oj {
			return oi < oj
		}
		return categories[i] < categories[j]
	})

	groups := make([]Group, 0, len(categories))
	for _, c := range categories {
		mods := byCategory[c]
		sort.SliceStable(mods, func(i, j int) bool {
			return less(mods[i], mods[j])
		})
		groups = append(groups, Group{Category: c, Modules: mods})
	}
	return groups
}

func less(a, b ResolvedModule) bool {
	if a.UpdateAvailable != b.UpdateAvailable {
		return a.UpdateAvailable
	}
	if a.Installed != b.Installed {
		return a.Installed
	}
	return a.Name < b.Name
}
