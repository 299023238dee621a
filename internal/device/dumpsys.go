package device

import (
	"regexp"
	"strings"
)

var (
	reVersionName = regexp.MustCompile(`versionName=([^\s]+)`)
	reCategory    = regexp.MustCompile(`^\s*Category:\s+"([a-zA-Z0-9._/-]+)"$`)
	reComponent   = regexp.MustCompile(`^[a-zA-Z][\w.]*/[\w.$]+$`)
)

const activityTableHeader = "Activity Resolver Table:"

// parseVersionName extracts versionName from `dumpsys package` output.
func parseVersionName(dumpsys string) (string, bool) {
	m := reVersionName.FindStringSubmatch(dumpsys)
	if m == nil {
		return "", false
	}
	return m[1], true
}

func indentOf(line string) int {
	return len(line) - len(strings.TrimLeft(line, " \t"))
}

// activityTable returns the lines of the activity resolver table.
func activityTable(dumpsys string) []string {
	var table []string
	inTable := false
	for _, line := range strings.Split(dumpsys, "\n") {
		line = strings.TrimRight(line, " \r")
		if strings.TrimSpace(line) == activityTableHeader {
			inTable = true
			continue
		}
		if !inTable {
			continue
		}
		if line != "" && indentOf(line) == 0 {
			break
		}
		table = append(table, line)
	}
	return table
}

// componentPattern matches flattened components of pkg, in either the full
// or the abbreviated ".Class" form.
func componentPattern(pkg string) *regexp.Regexp {
	return regexp.MustCompile(`(` + regexp.QuoteMeta(pkg) + `/[.\w$]+)`)
}

// parseResolverActivities returns the fully qualified class names of pkg's
// activities listed in the activity resolver table, in order of appearance.
func parseResolverActivities(dumpsys, pkg string) []string {
	re := componentPattern(pkg)
	seen := make(map[string]bool)
	var names []string

	for _, line := range activityTable(dumpsys) {
		for _, m := range re.FindAllStringSubmatch(line, -1) {
			c, err := ParseComponent(m[1])
			if err != nil || seen[c.Class] {
				continue
			}
			seen[c.Class] = true
			names = append(names, c.Class)
		}
	}
	return names
}

// parseDisabledComponents returns the class names listed under
// disabledComponents.
func parseDisabledComponents(dumpsys string) map[string]bool {
	disabled := make(map[string]bool)
	blockIndent := -1

	for _, line := range strings.Split(dumpsys, "\n") {
		line = strings.TrimRight(line, " \r")
		trimmed := strings.TrimSpace(line)

		if trimmed == "disabledComponents:" {
			blockIndent = indentOf(line)
			continue
		}
		if blockIndent < 0 {
			continue
		}
		if trimmed == "" || indentOf(line) <= blockIndent {
			blockIndent = -1
			continue
		}
		disabled[trimmed] = true
	}
	return disabled
}

type launcherCandidate struct {
	component  Component
	categories []string
}

// parseLauncherActivities returns pkg's activities registered for the MAIN
// action with the LAUNCHER category. Older releases print no categories; in
// that case every MAIN activity is returned.
func parseLauncherActivities(dumpsys, pkg string) []Component {
	re := componentPattern(pkg)
	mainHeader := ActionMain + ":"

	var candidates []*launcherCandidate
	var current *launcherCandidate
	sawCategory := false
	blockIndent := -1

	for _, line := range activityTable(dumpsys) {
		trimmed := strings.TrimSpace(line)
		indent := indentOf(line)

		if trimmed == mainHeader {
			blockIndent = indent
			current = nil
			continue
		}
		if blockIndent < 0 {
			continue
		}
		if trimmed != "" && indent <= blockIndent {
			blockIndent = -1
			current = nil
			continue
		}

		if m := reCategory.FindStringSubmatch(line); m != nil {
			sawCategory = true
			if current != nil {
				current.categories = append(current.categories, m[1])
			}
			continue
		}

		fields := strings.Fields(trimmed)
		if len(fields) < 2 || !re.MatchString(fields[1]) {
			continue
		}
		c, err := ParseComponent(fields[1])
		if err != nil {
			continue
		}
		current = &launcherCandidate{component: c}
		candidates = append(candidates, current)
	}

	seen := make(map[string]bool)
	var result []Component
	for _, cand := range candidates {
		if sawCategory && !hasCategory(cand.categories, CategoryLauncher) {
			continue
		}
		if seen[cand.component.Class] {
			continue
		}
		seen[cand.component.Class] = true
		result = append(result, cand.component)
	}
	return result
}

func hasCategory(categories []string, want string) bool {
	for _, c := range categories {
		if c == want {
			return true
		}
	}
	return false
}

// parseResolvedComponent reads the output of
// `cmd package resolve-activity --brief --components`.
func parseResolvedComponent(out string) (Component, bool) {
	if strings.Contains(out, "No activity found") {
		return Component{}, false
	}

	lines := strings.Split(strings.TrimSpace(out), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		if !reComponent.MatchString(line) {
			continue
		}
		c, err := ParseComponent(line)
		if err != nil {
			return Component{}, false
		}
		return c, true
	}
	return Component{}, false
}
