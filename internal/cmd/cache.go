package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the snapshot cache",
		Long: `Cache manages the stored result of the last successful refresh.

The cache lives in $XDG_CACHE_HOME/badlock (or cache_dir) as snapshot.json.`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Delete the cached snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.store.Clear(); err != nil {
				return err
			}
			a.printf("Cleared %s\n", a.store.Path())
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the cache file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			_, err = fmt.Fprintln(a.stdout, a.store.Path())
			return err
		},
	})

	return cmd
}
