package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/adamancini/badlock/internal/output"
)

// BuildInfo describes the running binary.
type BuildInfo struct {
	Version string `json:"version" yaml:"version"`
	Commit  string `json:"commit" yaml:"commit"`
	Date    string `json:"date" yaml:"date"`
}

// buildInfo is set during command initialization
var buildInfo = BuildInfo{Version: "dev", Commit: "none", Date: "unknown"}

// WriteText prints the version line.
func (b BuildInfo) WriteText(w io.Writer) error {
	_, err := fmt.Fprintf(w, "badlock version %s (commit %s, built %s)\n", b.Version, b.Commit, b.Date)
	return err
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := output.ParseFormat(outputFormat)
			if err != nil {
				return err
			}
			return output.NewWriter(cmd.OutOrStdout(), format).Write(buildInfo)
		},
	}
}
