package launch

import "github.com/adamancini/badlock/internal/device"

// StepKind selects how an override step finds a target.
type StepKind int

const (
	// StepTarget uses a fixed component.
	StepTarget StepKind = iota
	// StepCandidates tries class names in the module's own package and takes
	// the first that exists and is enabled.
	StepCandidates
	// StepDeepSearch scores every exported activity of the package.
	StepDeepSearch
)

func (k StepKind) String() string {
	switch k {
	case StepTarget:
		return "target"
	case StepCandidates:
		return "candidates"
	case StepDeepSearch:
		return "deep-search"
	default:
		return "unknown"
	}
}

// Step is one attempt within an override.
type Step struct {
	Kind StepKind

	// Target and RequireResolvable apply to StepTarget. Without
	// RequireResolvable the target is used even if the device cannot
	// resolve it.
	Target            device.Component
	RequireResolvable bool

	// Candidates applies to StepCandidates.
	Candidates []string
}

// Override is an ordered list of steps for one package. When every step
// fails, resolution continues with the generic strategies.
type Override struct {
	Steps []Step
}

// Packages with overrides.
const (
	PackageClockface      = "com.samsung.android.app.clockface"
	PackageLockStar       = "com.samsung.systemui.lockstar"
	PackageRoutinePlus    = "com.samsung.android.app.routineplus"
	PackageSoundAssistant = "com.samsung.android.soundassistant"
)

const settingsPackage = "com.android.settings"

func target(pkg, class string, requireResolvable bool) Step {
	return Step{
		Kind:              StepTarget,
		Target:            device.Component{Package: pkg, Class: class},
		RequireResolvable: requireResolvable,
	}
}

// DefaultOverrides returns the override table for modules whose launcher
// entry points are missing or misleading. Several of them are configured
// from the system settings app rather than their own package.
func DefaultOverrides() map[string]Override {
	return map[string]Override{
		PackageClockface: {Steps: []Step{
			target("com.samsung.android.app.dressroom",
				"com.samsung.android.app.dressroom.presentation.settings.WallpaperSettingActivity", false),
		}},
		PackageLockStar: {Steps: []Step{
			target(settingsPackage, "com.samsung.android.settings.lockscreen.LockScreenSettings", true),
			{Kind: StepCandidates, Candidates: []string{
				"com.samsung.systemui.lockstar.presentation.ui.LockStarActivity",
				"com.samsung.systemui.lockstar.presentation.main.LockStarActivity",
				"com.samsung.systemui.lockstar.LockStarActivity",
				"com.samsung.systemui.lockstar.MainActivity",
			}},
		}},
		PackageRoutinePlus: {Steps: []Step{
			target(settingsPackage, "com.samsung.android.settings.routine.RoutineSettings", true),
			target("com.samsung.android.bixby.service", "com.samsung.android.bixby.routines.ui.RoutinesMainActivity", true),
		}},
		PackageSoundAssistant: {Steps: []Step{
			target(settingsPackage, "com.samsung.android.settings.soundquality.SoundQualitySettings", true),
			{Kind: StepDeepSearch},
		}},
	}
}

// problematicLaunchers lists, per package, words that disqualify the
// declared launcher activity.
var problematicLaunchers = map[string][]string{
	PackageLockStar:    {"shortcut", "widget"},
	PackageRoutinePlus: {"credit", "about"},
}

// IsProblematicLauncher reports whether the declared launcher activity of
// pkg should be skipped.
func IsProblematicLauncher(pkg string, c device.Component) bool {
	words, ok := problematicLaunchers[pkg]
	if !ok {
		return false
	}
	return containsAnyFold(c.Class, words)
}
