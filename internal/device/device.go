// Package device talks to an Android device over adb.
//
// PackageQuerier answers questions about installed packages and their
// activities; Launcher starts activities and intents. Both are implemented by
// ADB and faked in tests of the packages that consume them.
package device

import "context"

// PackageQuerier queries the package manager of a device. Methods return
// ErrNotFound (possibly wrapped) when the device has no answer.
type PackageQuerier interface {
	IsInstalled(ctx context.Context, pkg string) (bool, error)
	InstalledVersion(ctx context.Context, pkg string) (string, error)
	Activities(ctx context.Context, pkg string) ([]Activity, error)
	ResolveLauncher(ctx context.Context, pkg string) (Component, error)
	MainLauncherActivities(ctx context.Context, pkg string) ([]Component, error)
	ActivityInfo(ctx context.Context, c Component) (ActivityInfo, error)
}

// Launcher starts things on a device.
type Launcher interface {
	StartActivity(ctx context.Context, c Component) error
	OpenURL(ctx context.Context, rawURL string) error
	OpenSettings(ctx context.Context, action, data string) error
}

// Well-known intent actions and categories.
const (
	ActionMain             = "android.intent.action.MAIN"
	ActionView             = "android.intent.action.VIEW"
	CategoryLauncher       = "android.intent.category.LAUNCHER"
	ActionSettings         = "android.settings.SETTINGS"
	ActionDisplaySettings  = "android.settings.DISPLAY_SETTINGS"
	ActionSecuritySettings = "android.settings.SECURITY_SETTINGS"
	ActionAppDetails       = "android.settings.APPLICATION_DETAILS_SETTINGS"
)

// PackageURI returns the data URI addressing pkg in settings intents.
func PackageURI(pkg string) string {
	return "package:" + pkg
}
