package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/adamancini/badlock/internal/output"
)

func newDeviceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "device",
		Short: "Show the attached device",
		Long:  `Device shows the adb connection state, model and Android version of the device badlock talks to.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			info, err := a.device.Info(cmd.Context())
			if err != nil {
				return fmt.Errorf("no device available: %w", err)
			}
			return a.out.Write(output.DeviceInfo{Info: info})
		},
	}
}
