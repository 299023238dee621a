package cmd

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/adamancini/badlock/internal/aggregate"
	"github.com/adamancini/badlock/internal/cache"
	"github.com/adamancini/badlock/internal/config"
	"github.com/adamancini/badlock/internal/device"
	"github.com/adamancini/badlock/internal/interactive"
	"github.com/adamancini/badlock/internal/update"
)

const (
	lockstarPkg  = "com.samsung.systemui.lockstar"
	notistarPkg  = "com.samsung.systemui.notilus"
	clockfacePkg = "com.samsung.android.app.clockface"
	lockstarURL  = "https://www.apkmirror.com/apk/samsung-electronics-co-ltd/lockstar/"
)

var lockScreenSettings = device.Component{
	Package: "com.android.settings",
	Class:   "com.samsung.android.settings.lockscreen.LockScreenSettings",
}

// fakeDevice records what was started on it.
type fakeDevice struct {
	mu         sync.Mutex
	installed  map[string]string // package -> version
	resolvable map[device.Component]bool
	launchers  map[string]device.Component
	info       device.Info
	infoErr    error
	startErr   error
	// settingsErr fails OpenSettings for the listed actions.
	settingsErr map[string]error

	started  []device.Component
	urls     []string
	settings []string
}

func newFakeDevice() *fakeDevice {
	return &fakeDevice{
		installed:   map[string]string{},
		resolvable:  map[device.Component]bool{},
		launchers:   map[string]device.Component{},
		settingsErr: map[string]error{},
	}
}

func (f *fakeDevice) IsInstalled(_ context.Context, pkg string) (bool, error) {
	_, ok := f.installed[pkg]
	return ok, nil
}

func (f *fakeDevice) InstalledVersion(_ context.Context, pkg string) (string, error) {
	v, ok := f.installed[pkg]
	if !ok {
		return "", device.ErrNotFound
	}
	return v, nil
}

func (f *fakeDevice) Activities(context.Context, string) ([]device.Activity, error) {
	return nil, nil
}

func (f *fakeDevice) ResolveLauncher(_ context.Context, pkg string) (device.Component, error) {
	c, ok := f.launchers[pkg]
	if !ok {
		return device.Component{}, device.ErrNotFound
	}
	return c, nil
}

func (f *fakeDevice) MainLauncherActivities(context.Context, string) ([]device.Component, error) {
	return nil, nil
}

func (f *fakeDevice) ActivityInfo(_ context.Context, c device.Component) (device.ActivityInfo, error) {
	if !f.resolvable[c] {
		return device.ActivityInfo{}, device.ErrNotFound
	}
	return device.ActivityInfo{Enabled: true}, nil
}

func (f *fakeDevice) StartActivity(_ context.Context, c device.Component) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.startErr != nil {
		return f.startErr
	}
	f.started = append(f.started, c)
	return nil
}

func (f *fakeDevice) OpenURL(_ context.Context, rawURL string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.urls = append(f.urls, rawURL)
	return nil
}

func (f *fakeDevice) OpenSettings(_ context.Context, action, data string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.settingsErr[action]; err != nil {
		return err
	}
	f.settings = append(f.settings, action+" "+data)
	return nil
}

func (f *fakeDevice) Info(context.Context) (device.Info, error) {
	return f.info, f.infoErr
}

// fakeChecker answers every module with the same latest version.
type fakeChecker struct {
	version string
	err     error
	calls   atomic.Int32
}

func (c *fakeChecker) Check(_ context.Context, infoURL string) (update.Result, error) {
	c.calls.Add(1)
	if c.err != nil {
		return update.Result{}, c.err
	}
	return update.Result{Version: c.version, URL: infoURL + "release/", MinAndroid: "Android 14"}, nil
}

var dnsFailure = &net.DNSError{Err: "no such host", Name: "www.apkmirror.com", IsNotFound: true}

// testEnv isolates settings, cache and collaborators for one test.
type testEnv struct {
	dev      *fakeDevice
	checker  *fakeChecker
	cacheDir string
	home     string
}

func setup(t *testing.T) *testEnv {
	t.Helper()
	home := t.TempDir()
	env := &testEnv{
		dev:      newFakeDevice(),
		checker:  &fakeChecker{version: "2.0"},
		cacheDir: filepath.Join(home, "cache"),
		home:     home,
	}

	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv("BADLOCK_CACHE_DIR", env.cacheDir)
	t.Setenv("BADLOCK_MODULES", "")
	t.Chdir(home)

	oldDevice, oldChecker, oldPrompter := newDeviceClient, newVersionChecker, newPrompter
	newDeviceClient = func(*config.Config, *zap.Logger) deviceClient { return env.dev }
	newVersionChecker = func(*config.Config, *zap.Logger) update.Checker { return env.checker }
	newPrompter = func() *interactive.Prompter {
		return interactive.NewPrompterWithIO(os.Stdin, os.Stdout, io.Discard, false)
	}
	t.Cleanup(func() {
		newDeviceClient, newVersionChecker, newPrompter = oldDevice, oldChecker, oldPrompter
	})
	return env
}

// seed stores a snapshot as if a refresh had happened age ago.
func (e *testEnv) seed(t *testing.T, age time.Duration, modules ...aggregate.ResolvedModule) *aggregate.Snapshot {
	t.Helper()
	snap := &aggregate.Snapshot{
		RefreshID: fmt.Sprintf("seed-%d", len(modules)),
		SavedAt:   time.Now().Add(-age),
		Groups:    aggregate.GroupModules(modules),
	}
	if err := cache.NewFileStoreWithDir(e.cacheDir).Save(snap); err != nil {
		t.Fatal(err)
	}
	return snap
}

func (e *testEnv) load(t *testing.T) *aggregate.Snapshot {
	t.Helper()
	snap, err := cache.NewFileStoreWithDir(e.cacheDir).Load()
	if err != nil {
		t.Fatalf("cache Load() error = %v", err)
	}
	return snap
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd("1.2.3", "abc123", "2026-10-01")
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}
