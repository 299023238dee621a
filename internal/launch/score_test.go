package launch

import (
	"testing"

	"github.com/adamancini/badlock/internal/device"
)

func TestScore(t *testing.T) {
	tests := []struct {
		activity string
		module   string
		want     int
	}{
		{"com.example.MainActivity", "LockStar", 60},
		{"com.example.ShortcutActivity", "LockStar", -90},
		{"com.example.HomeSettings", "Module", 70},
		{"com.example.AboutHelpActivity", "Module", -120},
		{"com.example.goodlock.SoundAssistantMain", "Sound Assistant", 95},
		{"com.example.SplashIntro", "Module", -80},
		{"com.example.Launcher", "Module", 35},
	}

	for _, tt := range tests {
		t.Run(tt.activity, func(t *testing.T) {
			if got := Score(tt.activity, tt.module); got != tt.want {
				t.Errorf("Score(%q, %q) = %d, want %d", tt.activity, tt.module, got, tt.want)
			}
		})
	}
}

func TestScoreMainBeatsShortcut(t *testing.T) {
	main := Score("MainActivity", "LockStar")
	shortcut := Score("ShortcutActivity", "LockStar")
	if main <= shortcut {
		t.Errorf("Score(MainActivity) = %d, want > Score(ShortcutActivity) = %d", main, shortcut)
	}
}

func TestIsProblematicLauncher(t *testing.T) {
	tests := []struct {
		pkg   string
		class string
		want  bool
	}{
		{PackageLockStar, "com.samsung.systemui.lockstar.ShortcutActivity", true},
		{PackageLockStar, "com.samsung.systemui.lockstar.WidgetHost", true},
		{PackageLockStar, "com.samsung.systemui.lockstar.LockStarActivity", false},
		{PackageRoutinePlus, "com.samsung.android.app.routineplus.CreditsActivity", true},
		{PackageRoutinePlus, "com.samsung.android.app.routineplus.AboutActivity", true},
		{"com.samsung.android.app.homestar", "com.samsung.android.app.homestar.AboutActivity", false},
	}

	for _, tt := range tests {
		t.Run(tt.class, func(t *testing.T) {
			c := device.Component{Package: tt.pkg, Class: tt.class}
			if got := IsProblematicLauncher(tt.pkg, c); got != tt.want {
				t.Errorf("IsProblematicLauncher(%q, %q) = %v, want %v", tt.pkg, tt.class, got, tt.want)
			}
		})
	}
}

func TestRelevantSettings(t *testing.T) {
	tests := []struct {
		pkg  string
		want SettingsIntent
	}{
		{PackageClockface, SettingsIntent{Action: "android.settings.DISPLAY_SETTINGS"}},
		{PackageLockStar, SettingsIntent{Action: "android.settings.SECURITY_SETTINGS"}},
		{PackageRoutinePlus, SettingsIntent{Action: "android.settings.SETTINGS"}},
		{"com.samsung.android.app.homestar", SettingsIntent{
			Action: "android.settings.APPLICATION_DETAILS_SETTINGS",
			Data:   "package:com.samsung.android.app.homestar",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.pkg, func(t *testing.T) {
			if got := RelevantSettings(tt.pkg); got != tt.want {
				t.Errorf("RelevantSettings(%q) = %+v, want %+v", tt.pkg, got, tt.want)
			}
		})
	}
}
