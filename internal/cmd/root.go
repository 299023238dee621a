package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/adamancini/badlock/internal/config"
	"github.com/adamancini/badlock/internal/output"
)

var (
	// Global flags
	outputFormat string
	configPath   string
	serial       string
	verbose      bool
	quiet        bool

	// loader is shared by every subcommand so persistent flags bound to it
	// are seen by Load.
	loader *config.Loader
)

// Execute runs the badlock command tree.
func Execute(version, commit, date string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return newRootCmd(version, commit, date).ExecuteContext(ctx)
}

func newRootCmd(version, commit, date string) *cobra.Command {
	buildInfo = BuildInfo{Version: version, Commit: commit, Date: date}
	loader = config.NewLoader()

	rootCmd := &cobra.Command{
		Use:   "badlock",
		Short: "Track Samsung Good Lock modules on an attached device",
		Long: `badlock checks which Good Lock modules are installed on an Android device
attached over adb, compares them with the latest releases on the mirror, and
launches them.

Results are cached, so 'badlock list' is instant until the cache goes stale.`,
		Version:      version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "text", "Output format: text, json, yaml")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to settings file")
	rootCmd.PersistentFlags().StringVarP(&serial, "serial", "s", "", "Device serial (see 'adb devices')")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Quiet mode (errors only)")

	_ = loader.Viper().BindPFlag("serial", rootCmd.PersistentFlags().Lookup("serial"))

	// Add subcommands
	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newRefreshCmd())
	rootCmd.AddCommand(newStatusCmd())
	rootCmd.AddCommand(newLaunchCmd())
	rootCmd.AddCommand(newOpenCmd())
	rootCmd.AddCommand(newAppInfoCmd())
	rootCmd.AddCommand(newDeviceCmd())
	rootCmd.AddCommand(newWatchCmd())
	rootCmd.AddCommand(newInitCmd())
	rootCmd.AddCommand(newCacheCmd())
	rootCmd.AddCommand(newCompletionCmd())
	rootCmd.AddCommand(newVersionCmd())

	// Register completion function for output flag
	_ = rootCmd.RegisterFlagCompletionFunc("output", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return output.Formats(), cobra.ShellCompDirectiveNoFileComp
	})

	return rootCmd
}
