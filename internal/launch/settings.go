package launch

import "github.com/adamancini/badlock/internal/device"

// SettingsIntent is a settings page to open when a module cannot be started
// directly.
type SettingsIntent struct {
	Action string
	Data   string
}

// RelevantSettings returns the settings page closest to what a module
// configures. Modules without a dedicated page get their app details page.
func RelevantSettings(pkg string) SettingsIntent {
	switch pkg {
	case PackageClockface:
		return SettingsIntent{Action: device.ActionDisplaySettings}
	case PackageLockStar:
		return SettingsIntent{Action: device.ActionSecuritySettings}
	case PackageRoutinePlus:
		return SettingsIntent{Action: device.ActionSettings}
	default:
		return SettingsIntent{Action: device.ActionAppDetails, Data: device.PackageURI(pkg)}
	}
}

// ClockfaceInstructions is printed instead of launching Clockface, whose
// style picker is only reachable from the lock screen editor.
const ClockfaceInstructions = `Clockface styles are picked from the lock screen editor:
  1. Go to Settings > Wallpaper and style.
  2. Tap the "Lock screen" preview.
  3. Tap the clock and go to Styles.
  4. Your installed clock faces are listed there.

If LockStar is installed, opening it and tapping the clock is faster.`
