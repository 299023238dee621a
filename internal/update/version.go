package update

import (
	"strconv"
	"strings"
)

// IsUpdateAvailable reports whether latest is newer than installed.
//
// Both strings are split on "." and every component is reduced to its digits.
// Components with no digits, or too large to parse, are dropped, so
// "1.0-beta.2" compares as 1.0.2. Components are compared by position and a
// missing position counts as 0, which makes "1.0" and "1.0.0" equal. Empty
// input never reports an update.
func IsUpdateAvailable(installed, latest string) bool {
	if installed == "" || latest == "" {
		return false
	}

	current := ParseComponents(installed)
	next := ParseComponents(latest)

	n := max(len(current), len(next))
	for i := 0; i < n; i++ {
		c, l := at(current, i), at(next, i)
		if l != c {
			return l > c
		}
	}
	return false
}

// ParseComponents returns the numeric components of a dotted version.
func ParseComponents(version string) []int {
	var parts []int
	for _, field := range strings.Split(version, ".") {
		digits := strings.Map(func(r rune) rune {
			if r >= '0' && r <= '9' {
				return r
			}
			return -1
		}, field)

		n, err := strconv.Atoi(digits)
		if err != nil {
			continue
		}
		parts = append(parts, n)
	}
	return parts
}

func at(parts []int, i int) int {
	if i < len(parts) {
		return parts[i]
	}
	return 0
}
