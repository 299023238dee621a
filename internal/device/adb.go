package device

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os/exec"
	"strings"
	"time"

	"go.uber.org/zap"
)

// DefaultADBTimeout bounds a single adb invocation.
const DefaultADBTimeout = 10 * time.Second

// Options configures an ADB client.
type Options struct {
	Path    string        // adb binary, "adb" when empty
	Serial  string        // device serial, passed as -s when set
	Timeout time.Duration // per command, DefaultADBTimeout when zero
}

// ADB implements PackageQuerier and Launcher by running adb.
type ADB struct {
	path    string
	serial  string
	timeout time.Duration
	runner  CommandRunner
	logger  *zap.Logger
}

// NewADB creates an adb client. A nil runner uses ExecRunner.
func NewADB(opts Options, runner CommandRunner, logger *zap.Logger) *ADB {
	if opts.Path == "" {
		opts.Path = "adb"
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultADBTimeout
	}
	if runner == nil {
		runner = ExecRunner{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ADB{
		path:    opts.Path,
		serial:  opts.Serial,
		timeout: opts.Timeout,
		runner:  runner,
		logger:  logger,
	}
}

var (
	_ PackageQuerier = (*ADB)(nil)
	_ Launcher       = (*ADB)(nil)
)

// adb runs an adb command (not a shell command) against the device.
func (a *ADB) adb(ctx context.Context, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	full := args
	if a.serial != "" {
		full = append([]string{"-s", a.serial}, args...)
	}

	out, err := a.runner.Run(ctx, a.path, full...)
	output := string(out)
	a.logger.Debug("adb",
		zap.Strings("args", full),
		zap.Int("bytes", len(out)),
		zap.Error(err),
	)

	if err != nil {
		if msg := adbFailure(output); msg != "" {
			return output, fmt.Errorf("adb %s: %s", strings.Join(args, " "), msg)
		}
		return output, fmt.Errorf("adb %s: %w", strings.Join(args, " "), err)
	}
	return output, nil
}

func (a *ADB) shell(ctx context.Context, args ...string) (string, error) {
	return a.adb(ctx, append([]string{"shell"}, args...)...)
}

// adbFailure returns adb's own error message, if the output carries one.
func adbFailure(output string) string {
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "error:") || strings.HasPrefix(line, "adb: ") {
			return line
		}
	}
	return ""
}

// IsInstalled reports whether pkg is installed for the current user.
func (a *ADB) IsInstalled(ctx context.Context, pkg string) (bool, error) {
	out, err := a.shell(ctx, "pm", "path", pkg)
	if strings.Contains(out, "package:") {
		return true, nil
	}
	// pm exits non-zero for unknown packages; only adb failures are errors.
	if err != nil && (adbFailure(out) != "" || notStarted(err)) {
		return false, err
	}
	return false, nil
}

// notStarted reports whether err means the adb binary could not be run at
// all, as opposed to a command that ran and exited non-zero.
func notStarted(err error) bool {
	var execErr *exec.Error
	var pathErr *fs.PathError
	return errors.As(err, &execErr) || errors.As(err, &pathErr)
}

// InstalledVersion returns the versionName of an installed package.
func (a *ADB) InstalledVersion(ctx context.Context, pkg string) (string, error) {
	out, err := a.shell(ctx, "dumpsys", "package", pkg)
	if err != nil {
		return "", err
	}
	v, ok := parseVersionName(out)
	if !ok {
		return "", fmt.Errorf("version of %s: %w", pkg, ErrNotFound)
	}
	return v, nil
}

// Activities lists pkg's activities that declare intent filters. Activities
// with intent filters are exported unless the manifest says otherwise, which
// dumpsys does not show.
func (a *ADB) Activities(ctx context.Context, pkg string) ([]Activity, error) {
	out, err := a.shell(ctx, "dumpsys", "package", pkg)
	if err != nil {
		return nil, err
	}

	disabled := parseDisabledComponents(out)
	names := parseResolverActivities(out, pkg)
	activities := make([]Activity, 0, len(names))
	for _, name := range names {
		activities = append(activities, Activity{
			Name:     name,
			Exported: true,
			Enabled:  !disabled[name],
		})
	}
	return activities, nil
}

// ResolveLauncher returns the activity the launcher would start for pkg.
func (a *ADB) ResolveLauncher(ctx context.Context, pkg string) (Component, error) {
	out, err := a.shell(ctx, "cmd", "package", "resolve-activity", "--brief", "--components",
		"-a", ActionMain, "-c", CategoryLauncher, pkg)
	if err != nil {
		return Component{}, err
	}
	c, ok := parseResolvedComponent(out)
	if !ok || c.Package != pkg {
		return Component{}, fmt.Errorf("launcher activity of %s: %w", pkg, ErrNotFound)
	}
	return c, nil
}

// MainLauncherActivities lists every MAIN/LAUNCHER activity of pkg.
func (a *ADB) MainLauncherActivities(ctx context.Context, pkg string) ([]Component, error) {
	out, err := a.shell(ctx, "dumpsys", "package", pkg)
	if err != nil {
		return nil, err
	}
	return parseLauncherActivities(out, pkg), nil
}

// ActivityInfo checks that c exists. The package manager does not resolve
// disabled components, so a resolved component is enabled.
func (a *ADB) ActivityInfo(ctx context.Context, c Component) (ActivityInfo, error) {
	out, err := a.shell(ctx, "cmd", "package", "resolve-activity", "--brief", "--components",
		"-n", c.String())
	if err != nil {
		return ActivityInfo{}, err
	}
	resolved, ok := parseResolvedComponent(out)
	if !ok || resolved != c {
		return ActivityInfo{}, fmt.Errorf("activity %s: %w", c, ErrNotFound)
	}
	return ActivityInfo{Enabled: true}, nil
}

// StartActivity starts c with am start.
func (a *ADB) StartActivity(ctx context.Context, c Component) error {
	return a.amStart(ctx, "-n", c.String())
}

// OpenURL opens rawURL with the default VIEW handler.
func (a *ADB) OpenURL(ctx context.Context, rawURL string) error {
	return a.amStart(ctx, "-a", ActionView, "-d", rawURL)
}

// OpenSettings starts a settings action, with optional intent data.
func (a *ADB) OpenSettings(ctx context.Context, action, data string) error {
	if action == "" {
		action = ActionSettings
	}
	args := []string{"-a", action}
	if data != "" {
		args = append(args, "-d", data)
	}
	return a.amStart(ctx, args...)
}

var errStartFailed = errors.New("am start failed")

func (a *ADB) amStart(ctx context.Context, args ...string) error {
	out, err := a.shell(ctx, append([]string{"am", "start"}, args...)...)
	if err != nil {
		return err
	}
	// am start exits 0 even when the intent cannot be delivered.
	if strings.Contains(out, "Error:") || strings.Contains(out, "Exception") {
		return fmt.Errorf("%w: %s", errStartFailed, strings.TrimSpace(out))
	}
	return nil
}

// Info returns the connection state and build properties of the device.
func (a *ADB) Info(ctx context.Context) (Info, error) {
	state, err := a.adb(ctx, "get-state")
	if err != nil {
		return Info{Serial: a.serial}, err
	}
	info := Info{Serial: a.serial, State: strings.TrimSpace(state)}

	props := []struct {
		name string
		dst  *string
	}{
		{"ro.product.model", &info.Model},
		{"ro.build.version.release", &info.Release},
		{"ro.build.version.sdk", &info.SDK},
	}
	for _, p := range props {
		v, err := a.shell(ctx, "getprop", p.name)
		if err != nil {
			return info, err
		}
		*p.dst = strings.TrimSpace(v)
	}
	return info, nil
}
