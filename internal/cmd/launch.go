package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/adamancini/badlock/internal/catalog"
	"github.com/adamancini/badlock/internal/device"
	"github.com/adamancini/badlock/internal/interactive"
	"github.com/adamancini/badlock/internal/launch"
)

func newLaunchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "launch [module]",
		Short: "Start a module on the device",
		Long: `Launch finds the best activity to start for a module and starts it on the
device. Modules without a usable entry point open their settings page instead.

Without a module name, an installed module is picked from a menu.`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: completeModules,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()
			return runLaunch(cmd.Context(), a, firstArg(args))
		},
	}
}

func newOpenCmd() *cobra.Command {
	var printOnly bool

	cmd := &cobra.Command{
		Use:   "open <module>",
		Short: "Open a module's download page",
		Long: `Open shows the page of the latest release on the device's browser, or the
module's mirror page when the latest release is not known yet.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeModules,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()
			return runOpen(cmd.Context(), a, args[0], printOnly)
		},
	}

	cmd.Flags().BoolVarP(&printOnly, "print", "p", false, "Print the URL instead of opening it on the device")

	return cmd
}

func newAppInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "appinfo <module>",
		Short:             "Open a module's app info page on the device",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeModules,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()
			return runAppInfo(cmd.Context(), a, args[0])
		},
	}
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

func runLaunch(ctx context.Context, a *app, query string) error {
	entry, err := a.pickModule(query)
	if err != nil {
		return err
	}

	installed, err := a.device.IsInstalled(ctx, entry.Package)
	if err != nil {
		return fmt.Errorf("failed to query device: %w", err)
	}
	if !installed {
		return offerInstall(ctx, a, entry)
	}

	target, ok := a.resolver.Resolve(ctx, entry.Package, entry.Name)
	if !ok {
		a.logger.Warn("no launch target", zap.String("module", entry.Name))
		a.printf("%s needs to be configured from Samsung Settings\n", entry.Name)
		return openRelevantSettings(ctx, a, entry.Package)
	}

	if entry.Package == launch.PackageClockface {
		_, _ = fmt.Fprintln(a.stdout, launch.ClockfaceInstructions)
		return nil
	}

	a.logger.Debug("launching", zap.String("module", entry.Name), zap.Stringer("component", target))
	if err := a.device.StartActivity(ctx, target); err != nil {
		return fmt.Errorf("could not launch %s: %w", entry.Name, err)
	}
	a.printf("Launched %s (%s)\n", entry.Name, target.ShortString())
	return nil
}

// openRelevantSettings opens the settings page closest to what the module
// configures, falling back to the main settings screen.
func openRelevantSettings(ctx context.Context, a *app, pkg string) error {
	s := launch.RelevantSettings(pkg)
	err := a.device.OpenSettings(ctx, s.Action, s.Data)
	if err == nil {
		return nil
	}
	a.logger.Warn("failed to open settings page",
		zap.String("package", pkg),
		zap.String("action", s.Action),
		zap.Error(err))
	if err := a.device.OpenSettings(ctx, device.ActionSettings, ""); err != nil {
		return fmt.Errorf("could not open settings: %w", err)
	}
	return nil
}

// offerInstall asks whether to open the download page of a module that is
// not installed. Without a terminal the URL is printed instead.
func offerInstall(ctx context.Context, a *app, entry catalog.Entry) error {
	url := a.pageURL(entry)
	a.printf("%s is not installed.\n", entry.Name)

	open, err := a.prompter.Confirm("Open its download page on the device?", true)
	switch {
	case errors.Is(err, interactive.ErrNotInteractive):
		a.printf("Download page: %s\n", url)
		return nil
	case errors.Is(err, interactive.ErrAborted):
		return nil
	case err != nil:
		return err
	case !open:
		return nil
	}
	return openURL(ctx, a, url)
}

func openURL(ctx context.Context, a *app, url string) error {
	if err := a.device.OpenURL(ctx, url); err != nil {
		return fmt.Errorf("no browser found on the device: %w", err)
	}
	a.printf("Opened %s\n", url)
	return nil
}

// pageURL prefers the latest release page from the cache over the catalog
// info page.
func (a *app) pageURL(entry catalog.Entry) string {
	if snap := a.cached(); snap != nil {
		if m, ok := snap.Find(entry.Package); ok {
			return m.PageURL()
		}
	}
	return entry.InfoURL
}

// pageLink is the --print form of open.
type pageLink struct {
	Module string `json:"module" yaml:"module"`
	URL    string `json:"url" yaml:"url"`
}

func (l pageLink) WriteText(w io.Writer) error {
	_, err := fmt.Fprintln(w, l.URL)
	return err
}

func runOpen(ctx context.Context, a *app, query string, printOnly bool) error {
	entry, err := a.findModule(query)
	if err != nil {
		return err
	}
	url := a.pageURL(entry)
	if printOnly {
		return a.out.Write(pageLink{Module: entry.Name, URL: url})
	}
	return openURL(ctx, a, url)
}

func runAppInfo(ctx context.Context, a *app, query string) error {
	entry, err := a.findModule(query)
	if err != nil {
		return err
	}
	if err := a.device.OpenSettings(ctx, device.ActionAppDetails, device.PackageURI(entry.Package)); err != nil {
		return fmt.Errorf("could not open app settings: %w", err)
	}
	a.printf("Opened app info for %s\n", entry.Name)
	return nil
}

// pickModule resolves query, or asks for a module when query is empty.
// The menu lists installed modules from the cache, or the whole catalog
// when nothing is cached.
func (a *app) pickModule(query string) (catalog.Entry, error) {
	if query != "" {
		return a.findModule(query)
	}
	if !a.prompter.Interactive() {
		return catalog.Entry{}, fmt.Errorf("module name is required")
	}

	var (
		options []interactive.Option
		entries []catalog.Entry
	)
	if snap := a.cached(); snap != nil {
		for _, m := range snap.Modules() {
			if !m.Installed {
				continue
			}
			if e, err := catalog.Find(a.catalog, m.Package); err == nil {
				entries = append(entries, e)
				options = append(options, interactive.Option{Label: m.Name, Description: m.InstalledVersion})
			}
		}
	}
	if len(entries) == 0 {
		for _, e := range a.catalog {
			entries = append(entries, e)
			options = append(options, interactive.Option{Label: e.Name, Description: e.Category.String()})
		}
	}

	i, err := a.prompter.Select("Launch which module?", options)
	if err != nil {
		return catalog.Entry{}, err
	}
	a.logger.Debug("picked module", zap.String("module", entries[i].Name))
	return entries[i], nil
}
