// Package catalog holds the list of trackable Good Lock modules.
//
// The built-in list is compiled in and never mutated. Users can extend or
// override it with a modules file (YAML, TOML or JSON) that is merged on top
// by package identifier.
package catalog

import (
	"fmt"
	"sort"
	"strings"

	"github.com/adamancini/badlock/internal/types"
)

// Entry is one statically known module.
type Entry struct {
	Name     string         `yaml:"name" toml:"name" json:"name"`
	Package  string         `yaml:"package" toml:"package" json:"package"`
	Category types.Category `yaml:"category" toml:"category" json:"category"`
	InfoURL  string         `yaml:"info_url" toml:"info_url" json:"info_url"`
}

// IconKey derives the icon resource name for the entry:
// lowercased, spaces replaced with underscores, plus signs removed.
func (e Entry) IconKey() string {
	key := strings.ToLower(e.Name)
	key = strings.ReplaceAll(key, " ", "_")
	return strings.ReplaceAll(key, "+", "")
}

const mirror = "https://www.apkmirror.com/apk/"

var builtin = []Entry{
	{"Home Up", "com.samsung.android.app.homestar", types.CategoryMakeUp, mirror + "samsung-electronics-co-ltd/home-up/"},
	{"LockStar", "com.samsung.systemui.lockstar", types.CategoryMakeUp, mirror + "samsung-electronics-co-ltd/lockstar/"},
	{"MultiStar", "com.samsung.android.multistar", types.CategoryMakeUp, mirror + "samsung-electronics-co-ltd/samsung-multistar/"},
	{"QuickStar", "com.samsung.android.qstuner", types.CategoryMakeUp, mirror + "samsung-electronics-co-ltd/quickstar/"},
	{"NavStar", "com.samsung.systemui.navillera", types.CategoryMakeUp, mirror + "samsung-electronics-co-ltd/samsung-navstar/"},
	{"SoundAssistant", "com.samsung.android.soundassistant", types.CategoryMakeUp, mirror + "samsung-electronics-co-ltd/soundassistant/"},
	{"Keys Cafe", "com.samsung.android.keyscafe", types.CategoryMakeUp, mirror + "good-lock-labs/keys-cafe/"},
	{"Theme Park", "com.samsung.android.themedesigner", types.CategoryMakeUp, mirror + "samsung-electronics-co-ltd/samsung-theme-park/"},
	{"Nice Shot", "com.samsung.android.app.captureplugin", types.CategoryMakeUp, mirror + "samsung-electronics/nice-shot/"},
	{"Wonderland", "com.samsung.android.wonderland.wallpaper", types.CategoryMakeUp, mirror + "samsung-electronics-co-ltd-co-ltd/wonderland/"},
	{"Pentastic", "com.samsung.android.pentastic", types.CategoryMakeUp, mirror + "samsung-electronics-co-ltd-co-ltd/pentastic/"},
	{"Clockface", "com.samsung.android.app.clockface", types.CategoryMakeUp, mirror + "samsung-electronics-co-ltd-co-ltd/samsung-clockface/"},
	{"Edge lighting+", "com.samsung.android.edgelightingplus", types.CategoryMakeUp, mirror + "good-lock-labs/edge-lighting/"},
	{"Edge touch", "com.samsung.android.app.edgetouch", types.CategoryMakeUp, mirror + "samsung-electronics-co-ltd-co-ltd/edge-touch/"},
	{"Display Assistant", "com.samsung.android.displayassistant", types.CategoryMakeUp, mirror + "galaxy-labs/display-assistant-beta/"},
	{"Routines+", "com.samsung.android.app.routineplus", types.CategoryLifeUp, mirror + "good-lock-labs/samsung-routine/"},
	{"NotiStar", "com.samsung.systemui.notilus", types.CategoryLifeUp, mirror + "samsung-electronics-co-ltd/notistar/"},
	{"RegiStar", "com.samsung.android.app.galaxyregistry", types.CategoryLifeUp, mirror + "good-lock-labs/registar/"},
	{"Camera Assistant", "com.samsung.android.app.cameraassistant", types.CategoryLifeUp, mirror + "samsung-electronics-co-ltd-co-ltd/camera-assistant/"},
	{"Nice Catch", "com.samsung.android.app.goodcatch", types.CategoryLifeUp, mirror + "samsung-electronics-co-ltd-co-ltd/nice-catch/"},
	{"Good Lock", "com.samsung.android.goodlock", types.CategoryLifeUp, mirror + "samsung-electronics-co-ltd/good-lock-2018/"},
	{"Battery Guardian", "com.samsung.android.statsd", types.CategoryLifeUp, mirror + "samsung-electronics-co-ltd-co-ltd/battery-guardian/"},
	{"File Guardian", "com.android.samsung.icebox", types.CategoryLifeUp, mirror + "samsung-electronics-co-ltd-co-ltd/file-guardian/"},
	{"Memory Guardian", "com.samsung.android.memoryguardian", types.CategoryLifeUp, mirror + "samsung-electronics-co-ltd-co-ltd/memory-guardian/"},
	{"App Booster", "com.samsung.android.appbooster", types.CategoryLifeUp, mirror + "samsung-electronics-co-ltd-co-ltd/app-booster/"},
	{"Thermal Guardian", "com.samsung.android.thermalguardian", types.CategoryLifeUp, mirror + "samsung-electronics-co-ltd-co-ltd/thermal-guardian/"},
	{"Media File Guardian", "com.samsung.android.mediaguardian", types.CategoryLifeUp, mirror + "samsung-electronics-co-ltd-co-ltd/media-file-guardian/"},
	{"One Hand Operation+", "com.samsung.android.sidegesturepad", types.CategoryLifeUp, mirror + "samsung-electronics-co-ltd-co-ltd/one-hand-operation/"},
}

// Builtin returns a copy of the compiled-in catalog.
func Builtin() []Entry {
	out := make([]Entry, len(builtin))
	copy(out, builtin)
	return out
}

// Merge returns base with extra applied on top. An extra entry replaces the
// base entry with the same package identifier; new packages are appended in
// the order they appear. Neither input is modified.
func Merge(base, extra []Entry) []Entry {
	out := make([]Entry, len(base), len(base)+len(extra))
	copy(out, base)

	index := make(map[string]int, len(out))
	for i, e := range out {
		index[e.Package] = i
	}

	for _, e := range extra {
		if i, ok := index[e.Package]; ok {
			out[i] = e
			continue
		}
		index[e.Package] = len(out)
		out = append(out, e)
	}
	return out
}

// Find looks up a module by package identifier or display name.
// Name matching ignores case and spaces. When nothing matches exactly, a
// unique name prefix is accepted.
func Find(entries []Entry, query string) (Entry, error) {
	q := normalize(query)
	if q == "" {
		return Entry{}, fmt.Errorf("module name is required")
	}

	for _, e := range entries {
		if e.Package == query || normalize(e.Name) == q {
			return e, nil
		}
	}

	var matches []Entry
	for _, e := range entries {
		if strings.HasPrefix(normalize(e.Name), q) {
			matches = append(matches, e)
		}
	}

	switch len(matches) {
	case 0:
		return Entry{}, fmt.Errorf("module not found: %s", query)
	case 1:
		return matches[0], nil
	default:
		names := make([]string, len(matches))
		for i, m := range matches {
			names[i] = m.Name
		}
		sort.Strings(names)
		return Entry{}, fmt.Errorf("module name %q is ambiguous: %s", query, strings.Join(names, ", "))
	}
}

// Names returns the display names of entries, sorted.
func Names(entries []Entry) []string {
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}
	sort.Strings(names)
	return names
}

func normalize(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "")
}
