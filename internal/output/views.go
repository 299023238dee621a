package output

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/adamancini/badlock/internal/aggregate"
	"github.com/adamancini/badlock/internal/device"
	"github.com/adamancini/badlock/internal/diff"
	"github.com/adamancini/badlock/internal/types"
)

// Status labels shown in the module table.
const (
	StatusUpdate       = "update available"
	StatusUpToDate     = "up to date"
	StatusNotInstalled = "not installed"
	StatusUnknown      = "unknown"
)

// ModuleStatus returns the one-word status of a module.
func ModuleStatus(m aggregate.ResolvedModule) string {
	switch {
	case !m.Installed:
		return StatusNotInstalled
	case m.UpdateAvailable:
		return StatusUpdate
	case m.LatestVersion == "":
		return StatusUnknown
	default:
		return StatusUpToDate
	}
}

// ModuleList is the list view: a snapshot plus an optional warning shown
// when the refresh behind it failed.
type ModuleList struct {
	Snapshot *aggregate.Snapshot `json:"snapshot" yaml:"snapshot"`
	Warning  string              `json:"warning,omitempty" yaml:"warning,omitempty"`
	Stale    bool                `json:"stale" yaml:"stale"`
	Now      time.Time           `json:"-" yaml:"-"`
}

// WriteText prints one table per category.
func (l ModuleList) WriteText(out io.Writer) error {
	if l.Warning != "" {
		_, _ = fmt.Fprintf(out, "%s\n\n", l.Warning)
	}
	if l.Snapshot == nil || len(l.Snapshot.Groups) == 0 {
		_, err := fmt.Fprintln(out, "No modules found.")
		return err
	}

	counts := l.Snapshot.Count()
	for i, g := range l.Snapshot.Groups {
		if i > 0 {
			_, _ = fmt.Fprintln(out)
		}
		c := counts[g.Category]
		_, _ = fmt.Fprintf(out, "%s (%d/%d installed", g.Category, c.Installed, c.Total)
		if c.Updates > 0 {
			_, _ = fmt.Fprintf(out, ", %d %s", c.Updates, plural(c.Updates, "update", "updates"))
		}
		_, _ = fmt.Fprintln(out, ")")

		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintln(w, "  Name\tInstalled\tLatest\tRequires\tStatus")
		for _, m := range g.Modules {
			_, _ = fmt.Fprintf(w, "  %s\t%s\t%s\t%s\t%s\n",
				m.Name,
				orDash(m.InstalledVersion),
				orDash(m.LatestVersion),
				orDash(m.MinAndroid),
				ModuleStatus(m),
			)
		}
		if err := w.Flush(); err != nil {
			return err
		}
	}

	if !l.Snapshot.SavedAt.IsZero() {
		now := l.Now
		if now.IsZero() {
			now = time.Now()
		}
		_, _ = fmt.Fprintf(out, "\nLast checked %s", Ago(l.Snapshot.Age(now)))
		if l.Stale {
			_, _ = fmt.Fprint(out, " (stale, run 'badlock refresh')")
		}
		_, _ = fmt.Fprintln(out)
	}
	return nil
}

// ModuleDetail is the status view of a single module.
type ModuleDetail struct {
	aggregate.ResolvedModule `yaml:",inline"`
	Status                   string `json:"status" yaml:"status"`
}

// NewModuleDetail wraps m with its computed status.
func NewModuleDetail(m aggregate.ResolvedModule) ModuleDetail {
	return ModuleDetail{ResolvedModule: m, Status: ModuleStatus(m)}
}

// WriteText prints one field per line.
func (d ModuleDetail) WriteText(out io.Writer) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	rows := [][2]string{
		{"Name", d.Name},
		{"Package", d.Package},
		{"Category", d.Category.String()},
		{"Status", d.Status},
		{"Installed", orDash(d.InstalledVersion)},
		{"Latest", orDash(d.LatestVersion)},
		{"Requires", orDash(d.MinAndroid)},
		{"Page", orDash(d.PageURL())},
	}
	target := "-"
	if d.LaunchTarget != nil {
		target = d.LaunchTarget.ShortString()
	}
	rows = append(rows, [2]string{"Launch", target})
	if d.Icon != "" {
		rows = append(rows, [2]string{"Icon", d.Icon})
	}
	for _, r := range rows {
		_, _ = fmt.Fprintf(w, "%s:\t%s\n", r[0], r[1])
	}
	return w.Flush()
}

// RefreshSummary is printed after an explicit refresh.
type RefreshSummary struct {
	RefreshID string       `json:"refresh_id" yaml:"refresh_id"`
	Modules   int          `json:"modules" yaml:"modules"`
	Updates   int          `json:"updates" yaml:"updates"`
	Changes   *diff.Result `json:"changes" yaml:"changes"`
}

// WriteText prints the update count and any changes since the last refresh.
func (s RefreshSummary) WriteText(out io.Writer) error {
	_, _ = fmt.Fprintf(out, "Checked %d %s, %d %s available.\n",
		s.Modules, plural(s.Modules, "module", "modules"),
		s.Updates, plural(s.Updates, "update", "updates"))
	if s.Changes == nil || s.Changes.Empty() {
		return nil
	}
	_, _ = fmt.Fprintln(out, "\nChanges since last refresh:")
	for _, c := range s.Changes.Changes {
		_, _ = fmt.Fprintf(out, "  %s %s\n", changeSymbol(c.Action), describeChange(c))
	}
	return nil
}

func describeChange(c diff.ModuleDiff) string {
	switch c.Action {
	case diff.ActionNewUpdate:
		return fmt.Sprintf("%s: %s available (installed %s)", c.Name, c.To, orDash(c.From))
	case diff.ActionUpgraded:
		return fmt.Sprintf("%s: %s -> %s", c.Name, c.From, c.To)
	case diff.ActionInstalled:
		return fmt.Sprintf("%s: installed %s", c.Name, orDash(c.To))
	case diff.ActionUninstalled:
		return fmt.Sprintf("%s: uninstalled", c.Name)
	case diff.ActionAdded:
		return fmt.Sprintf("%s: added to catalog", c.Name)
	case diff.ActionRemoved:
		return fmt.Sprintf("%s: removed from catalog", c.Name)
	default:
		return c.Name
	}
}

// Symbols for output
const (
	addSymbol    = "+"
	removeSymbol = "-"
	updateSymbol = "~"
)

func changeSymbol(a diff.Action) string {
	switch a {
	case diff.ActionInstalled, diff.ActionAdded:
		return addSymbol
	case diff.ActionUninstalled, diff.ActionRemoved:
		return removeSymbol
	default:
		return updateSymbol
	}
}

// CategoryCount is the tally of one category.
type CategoryCount struct {
	Category         types.Category `json:"category" yaml:"category"`
	aggregate.Counts `yaml:",inline"`
}

// CacheStatus describes the stored snapshot.
type CacheStatus struct {
	Path        string          `json:"path" yaml:"path"`
	RefreshID   string          `json:"refresh_id,omitempty" yaml:"refresh_id,omitempty"`
	LastRefresh *time.Time      `json:"last_refresh,omitempty" yaml:"last_refresh,omitempty"`
	Stale       bool            `json:"stale" yaml:"stale"`
	Categories  []CategoryCount `json:"categories,omitempty" yaml:"categories,omitempty"`
	Now         time.Time       `json:"-" yaml:"-"`
}

// NewCacheStatus summarizes snap, which may be nil when nothing is cached.
func NewCacheStatus(path string, snap *aggregate.Snapshot, now time.Time, staleAfter time.Duration) CacheStatus {
	st := CacheStatus{Path: path, Now: now}
	if snap == nil {
		return st
	}
	saved := snap.SavedAt
	st.RefreshID = snap.RefreshID
	st.LastRefresh = &saved
	st.Stale = snap.Age(now) >= staleAfter
	counts := snap.Count()
	for _, g := range snap.Groups {
		st.Categories = append(st.Categories, CategoryCount{Category: g.Category, Counts: counts[g.Category]})
	}
	return st
}

// WriteText prints the cache location, its age and per-category counts.
func (s CacheStatus) WriteText(out io.Writer) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "Cache:\t%s\n", s.Path)
	if s.LastRefresh == nil {
		_, _ = fmt.Fprintf(w, "Last refresh:\tnever (run 'badlock refresh')\n")
		return w.Flush()
	}
	age := Ago(s.Now.Sub(*s.LastRefresh))
	if s.Stale {
		age += ", stale"
	}
	_, _ = fmt.Fprintf(w, "Last refresh:\t%s (%s)\n", s.LastRefresh.Local().Format("2006-01-02 15:04"), age)
	for _, c := range s.Categories {
		line := fmt.Sprintf("%d/%d installed", c.Installed, c.Total)
		if c.Updates > 0 {
			line += fmt.Sprintf(", %d %s", c.Updates, plural(c.Updates, "update", "updates"))
		}
		_, _ = fmt.Fprintf(w, "%s:\t%s\n", c.Category, line)
	}
	return w.Flush()
}

// DeviceInfo wraps device.Info for text output.
type DeviceInfo struct {
	device.Info `yaml:",inline"`
}

// WriteText prints the connected device.
func (d DeviceInfo) WriteText(out io.Writer) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "Serial:\t%s\n", orDash(d.Serial))
	_, _ = fmt.Fprintf(w, "State:\t%s\n", orDash(d.State))
	_, _ = fmt.Fprintf(w, "Model:\t%s\n", orDash(d.Model))
	android := "-"
	if d.Release != "" {
		android = "Android " + d.Release
		if d.SDK != "" {
			android += " (API " + d.SDK + ")"
		}
	}
	_, _ = fmt.Fprintf(w, "Android:\t%s\n", android)
	return w.Flush()
}

// Ago renders a duration the way people say it: "just now", "5 minutes
// ago", "3 days ago".
func Ago(d time.Duration) string {
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		n := int(d / time.Minute)
		return fmt.Sprintf("%d %s ago", n, plural(n, "minute", "minutes"))
	case d < 48*time.Hour:
		n := int(d / time.Hour)
		return fmt.Sprintf("%d %s ago", n, plural(n, "hour", "hours"))
	default:
		n := int(d / (24 * time.Hour))
		return fmt.Sprintf("%d days ago", n)
	}
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
