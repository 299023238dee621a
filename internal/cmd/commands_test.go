package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adamancini/badlock/internal/aggregate"
	"github.com/adamancini/badlock/internal/device"
	"github.com/adamancini/badlock/internal/launch"
	"github.com/adamancini/badlock/internal/types"
)

func TestVersionCommand(t *testing.T) {
	setup(t)

	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "badlock version 1.2.3 (commit abc123, built 2026-10-01)\n", out)

	out, err = run(t, "version", "-o", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"commit": "abc123"`)
}

func TestUnknownOutputFormat(t *testing.T) {
	setup(t)

	_, err := run(t, "status", "-o", "xml")
	assert.EqualError(t, err, "unknown format: xml")
}

func TestListRefreshesEmptyCache(t *testing.T) {
	env := setup(t)
	env.dev.installed[lockstarPkg] = "1.0"
	env.dev.resolvable[lockScreenSettings] = true

	out, err := run(t, "list")
	require.NoError(t, err)

	assert.Contains(t, out, "Make up (1/")
	assert.Contains(t, out, "LockStar")
	assert.Contains(t, out, "update available")
	assert.NotContains(t, out, staleWarning)

	snap := env.load(t)
	m, ok := snap.Find(lockstarPkg)
	require.True(t, ok)
	assert.Equal(t, "2.0", m.LatestVersion)
	assert.True(t, m.UpdateAvailable)
	require.NotNil(t, m.LaunchTarget)
	assert.Equal(t, lockScreenSettings, *m.LaunchTarget)
}

func TestListUsesFreshCache(t *testing.T) {
	env := setup(t)
	env.seed(t, time.Hour, aggregate.ResolvedModule{Name: "LockStar", Package: lockstarPkg, Category: types.CategoryMakeUp, Installed: true, InstalledVersion: "3.0"})

	out, err := run(t, "list")
	require.NoError(t, err)

	assert.Contains(t, out, "LockStar")
	assert.Contains(t, out, "Last checked 1 hour ago")
	assert.Zero(t, env.checker.calls.Load(), "fresh cache must not trigger a refresh")
}

func TestListForceRefresh(t *testing.T) {
	env := setup(t)
	env.seed(t, time.Hour, aggregate.ResolvedModule{Name: "LockStar", Package: lockstarPkg, Category: types.CategoryMakeUp})

	_, err := run(t, "list", "--refresh")
	require.NoError(t, err)
	assert.NotZero(t, env.checker.calls.Load())
}

func TestListFallsBackToCache(t *testing.T) {
	env := setup(t)
	env.checker.err = dnsFailure
	seeded := env.seed(t, 100*time.Hour, aggregate.ResolvedModule{Name: "LockStar", Package: lockstarPkg, Category: types.CategoryMakeUp, Installed: true, InstalledVersion: "3.0"})

	out, err := run(t, "list")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, staleWarning), "got:\n%s", out)
	assert.Contains(t, out, "LockStar")
	assert.Contains(t, out, "stale")
	assert.Equal(t, seeded.RefreshID, env.load(t).RefreshID, "failed refresh must not replace the cache")
}

func TestListFailsWithoutCache(t *testing.T) {
	env := setup(t)
	env.checker.err = dnsFailure

	_, err := run(t, "list")
	require.Error(t, err)

	var re *aggregate.RefreshError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, aggregate.KindConnectivity, re.Kind)
	assert.Contains(t, err.Error(), "Could not connect to server.")
}

func TestListJSON(t *testing.T) {
	env := setup(t)
	env.seed(t, time.Minute, aggregate.ResolvedModule{Name: "LockStar", Package: lockstarPkg, Category: types.CategoryMakeUp})

	out, err := run(t, "list", "-o", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"package": "com.samsung.systemui.lockstar"`)
	assert.NotContains(t, out, "Last checked")
}

func TestRefreshPrintsChanges(t *testing.T) {
	env := setup(t)
	env.dev.installed[lockstarPkg] = "1.0"
	env.seed(t, time.Minute, aggregate.ResolvedModule{
		Name: "LockStar", Package: lockstarPkg, Category: types.CategoryMakeUp,
		Installed: true, InstalledVersion: "1.0", LatestVersion: "1.0",
	})

	out, err := run(t, "refresh")
	require.NoError(t, err)

	assert.Contains(t, out, "1 update available")
	assert.Contains(t, out, "Changes since last refresh:")
	assert.Contains(t, out, "~ LockStar: 2.0 available (installed 1.0)")
	assert.Contains(t, out, "+ NotiStar: added to catalog")
}

func TestRefreshFailureKeepsCache(t *testing.T) {
	env := setup(t)
	env.checker.err = errors.New("mirror layout changed")
	seeded := env.seed(t, time.Minute, aggregate.ResolvedModule{Name: "LockStar", Package: lockstarPkg, Category: types.CategoryMakeUp})

	_, err := run(t, "refresh")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "An unexpected error occurred.")
	assert.Equal(t, seeded.RefreshID, env.load(t).RefreshID)
}

func TestLaunch(t *testing.T) {
	notistarDetails := device.ActionAppDetails + " " + device.PackageURI(notistarPkg)

	tests := []struct {
		name         string
		module       string
		prepare      func(*fakeDevice)
		wantErr      string
		wantOut      []string
		wantStarted  []device.Component
		wantSettings []string
	}{
		{
			name:   "override target",
			module: "lockstar",
			prepare: func(d *fakeDevice) {
				d.installed[lockstarPkg] = "3.0"
				d.resolvable[lockScreenSettings] = true
			},
			wantOut:     []string{"Launched LockStar"},
			wantStarted: []device.Component{lockScreenSettings},
		},
		{
			name:   "declared launcher",
			module: "NotiStar",
			prepare: func(d *fakeDevice) {
				d.installed[notistarPkg] = "2.0"
				d.launchers[notistarPkg] = device.Component{Package: notistarPkg, Class: notistarPkg + ".MainActivity"}
			},
			wantStarted: []device.Component{{Package: notistarPkg, Class: notistarPkg + ".MainActivity"}},
		},
		{
			name:    "clockface shows instructions",
			module:  "clockface",
			prepare: func(d *fakeDevice) { d.installed[clockfacePkg] = "1.0" },
			wantOut: []string{launch.ClockfaceInstructions},
		},
		{
			name:         "no target opens relevant settings",
			module:       "notistar",
			prepare:      func(d *fakeDevice) { d.installed[notistarPkg] = "2.0" },
			wantOut:      []string{"NotiStar needs to be configured from Samsung Settings"},
			wantSettings: []string{notistarDetails},
		},
		{
			name:   "settings fallback",
			module: "notistar",
			prepare: func(d *fakeDevice) {
				d.installed[notistarPkg] = "2.0"
				d.settingsErr[device.ActionAppDetails] = errors.New("Activity not started")
			},
			wantSettings: []string{device.ActionSettings + " "},
		},
		{
			name:    "not installed prints download page",
			module:  "lockstar",
			prepare: func(*fakeDevice) {},
			wantOut: []string{"LockStar is not installed.", "Download page: " + lockstarURL},
		},
		{
			name:   "start failure",
			module: "notistar",
			prepare: func(d *fakeDevice) {
				d.installed[notistarPkg] = "2.0"
				d.launchers[notistarPkg] = device.Component{Package: notistarPkg, Class: notistarPkg + ".MainActivity"}
				d.startErr = errors.New("am start failed")
			},
			wantErr: "could not launch NotiStar",
		},
		{
			name:    "unknown module",
			module:  "nonexistent",
			prepare: func(*fakeDevice) {},
			wantErr: "module not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setup(t)
			tt.prepare(env.dev)

			out, err := run(t, "launch", tt.module)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			for _, s := range tt.wantOut {
				assert.Contains(t, out, s)
			}
			assert.Equal(t, tt.wantStarted, env.dev.started)
			assert.Equal(t, tt.wantSettings, env.dev.settings)
		})
	}
}

func TestLaunchWithoutModuleNeedsTerminal(t *testing.T) {
	setup(t)

	_, err := run(t, "launch")
	assert.EqualError(t, err, "module name is required")
}

func TestOpen(t *testing.T) {
	env := setup(t)

	out, err := run(t, "open", "lockstar", "--print")
	require.NoError(t, err)
	assert.Equal(t, lockstarURL+"\n", out)

	env.seed(t, time.Minute, aggregate.ResolvedModule{
		Name: "LockStar", Package: lockstarPkg, Category: types.CategoryMakeUp,
		InfoURL: lockstarURL, LatestURL: lockstarURL + "lockstar-3-2-release/",
	})

	out, err = run(t, "open", "lockstar", "-p", "-o", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "url: "+lockstarURL+"lockstar-3-2-release/")

	_, err = run(t, "open", "lockstar")
	require.NoError(t, err)
	assert.Equal(t, []string{lockstarURL + "lockstar-3-2-release/"}, env.dev.urls)
}

func TestAppInfo(t *testing.T) {
	env := setup(t)

	out, err := run(t, "appinfo", "LockStar")
	require.NoError(t, err)
	assert.Contains(t, out, "Opened app info for LockStar")
	assert.Equal(t, []string{device.ActionAppDetails + " package:" + lockstarPkg}, env.dev.settings)

	env.dev.settingsErr[device.ActionAppDetails] = errors.New("no activity")
	_, err = run(t, "appinfo", "LockStar")
	assert.ErrorContains(t, err, "could not open app settings")
}

func TestDeviceCommand(t *testing.T) {
	env := setup(t)
	env.dev.info = device.Info{Serial: "R58M123ABC", State: "device", Model: "SM-S918B", Release: "14", SDK: "34"}

	out, err := run(t, "device", "--serial", "R58M123ABC")
	require.NoError(t, err)
	assert.Contains(t, out, "SM-S918B")
	assert.Contains(t, out, "Android 14 (API 34)")

	env.dev.infoErr = errors.New("adb: no devices/emulators found")
	_, err = run(t, "device")
	assert.ErrorContains(t, err, "no device available")
}

func TestStatus(t *testing.T) {
	env := setup(t)

	out, err := run(t, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "never")

	_, err = run(t, "status", "lockstar")
	assert.ErrorContains(t, err, "run 'badlock refresh' first")

	env.seed(t, 2*time.Hour, aggregate.ResolvedModule{
		Name: "LockStar", Package: lockstarPkg, Category: types.CategoryMakeUp,
		Installed: true, InstalledVersion: "3.0", LatestVersion: "3.2", UpdateAvailable: true,
	})

	out, err = run(t, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "2 hours ago")
	assert.Contains(t, out, "1/1 installed, 1 update")

	out, err = run(t, "status", "lockstar", "-o", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"status": "update available"`)

	_, err = run(t, "status", "notistar")
	assert.ErrorContains(t, err, "NotiStar is not in the cache")
}

func TestCacheCommands(t *testing.T) {
	env := setup(t)
	env.seed(t, time.Minute, aggregate.ResolvedModule{Name: "LockStar", Package: lockstarPkg, Category: types.CategoryMakeUp})

	out, err := run(t, "cache", "path")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(env.cacheDir, "snapshot.json")+"\n", out)

	_, err = run(t, "cache", "clear")
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(env.cacheDir, "snapshot.json"))
	assert.True(t, os.IsNotExist(err))
}

func TestInit(t *testing.T) {
	env := setup(t)
	settings := filepath.Join(env.home, ".config", "badlock", "badlock.yaml")

	out, err := run(t, "init")
	require.NoError(t, err)
	assert.Contains(t, out, "Created "+settings)
	assert.FileExists(t, settings)

	_, err = run(t, "init", "--template", "config")
	assert.ErrorContains(t, err, "already exists")

	_, err = run(t, "init", "--template", "config", "--force")
	assert.NoError(t, err)

	modules := filepath.Join(env.home, "custom", "modules.yaml")
	_, err = run(t, "init", "-t", "modules", "--path", modules)
	require.NoError(t, err)
	assert.FileExists(t, modules)

	_, err = run(t, "init", "-t", "minimal")
	assert.ErrorContains(t, err, "failed to load template")
}

func TestSettingsFileIsUsed(t *testing.T) {
	env := setup(t)
	dir := filepath.Join(env.home, ".config", "badlock")
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "badlock.yaml"), []byte("stale_after: 30m\n"), 0644))
	env.seed(t, time.Hour, aggregate.ResolvedModule{Name: "LockStar", Package: lockstarPkg, Category: types.CategoryMakeUp})

	_, err := run(t, "list")
	require.NoError(t, err)
	assert.NotZero(t, env.checker.calls.Load(), "an hour old cache is stale with stale_after: 30m")
}

func TestInvalidSettingsFile(t *testing.T) {
	env := setup(t)
	path := filepath.Join(env.home, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("concurrency: 0\n"), 0644))

	_, err := run(t, "status", "--config", path)
	assert.ErrorContains(t, err, "concurrency")
}
