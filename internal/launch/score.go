package launch

import "strings"

type keyword struct {
	text   string
	points int
}

var (
	goodKeywords = []keyword{
		{"main", 50},
		{"home", 40},
		{"launcher", 35},
		{"settings", 30},
		{"ui", 25},
	}
	badKeywords = []keyword{
		{"shortcut", -100},
		{"widget", -80},
		{"credit", -90},
		{"about", -70},
		{"help", -60},
		{"splash", -40},
		{"intro", -40},
	}
)

const (
	moduleNamePoints    = 45
	activitySuffixBonus = 10
)

// Score rates how likely an activity is to be a module's main screen. Every
// keyword found in the lowercased class name adds its points, so scores can
// be negative.
func Score(activity, module string) int {
	name := strings.ToLower(activity)
	score := 0

	for _, k := range goodKeywords {
		if strings.Contains(name, k.text) {
			score += k.points
		}
	}
	if m := strings.ReplaceAll(strings.ToLower(module), " ", ""); strings.Contains(name, m) {
		score += moduleNamePoints
	}
	for _, k := range badKeywords {
		if strings.Contains(name, k.text) {
			score += k.points
		}
	}
	if strings.HasSuffix(name, "activity") {
		score += activitySuffixBonus
	}
	return score
}

// genericBlocklist names activities that are never a module's main screen.
var genericBlocklist = []string{"shortcut", "widget", "credit", "about", "help"}

func containsAnyFold(s string, words []string) bool {
	s = strings.ToLower(s)
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
