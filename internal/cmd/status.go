package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/adamancini/badlock/internal/output"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status [module]",
		Short: "Show cache status, or details of one module",
		Long: `Status shows when the cache was last refreshed and how many modules are
installed or have updates. Given a module name it shows everything known
about that module instead. Status never refreshes.`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: completeModules,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()
			if len(args) == 1 {
				return runModuleStatus(a, args[0])
			}
			return a.out.Write(output.NewCacheStatus(a.store.Path(), a.cached(), time.Now(), a.cfg.StaleAfter))
		},
	}
}

func runModuleStatus(a *app, query string) error {
	entry, err := a.findModule(query)
	if err != nil {
		return err
	}
	snap := a.cached()
	if snap == nil {
		return fmt.Errorf("no cached data yet, run 'badlock refresh' first")
	}
	m, ok := snap.Find(entry.Package)
	if !ok {
		return fmt.Errorf("%s is not in the cache, run 'badlock refresh'", entry.Name)
	}
	return a.out.Write(output.NewModuleDetail(m))
}
