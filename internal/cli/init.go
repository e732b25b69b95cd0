package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newInitCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize datalinks storage",
		Long:  "Create the configuration and data directories, then initialize the link catalog.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			configDir, err := flags.resolveConfigDir()
			if err != nil {
				return err
			}
			dataDir, err := flags.resolveDataDir()
			if err != nil {
				return err
			}

			catalog, err := attachCatalog(flags)
			if err != nil {
				return err
			}
			if err := catalog.Detach(); err != nil {
				return fmt.Errorf("finalize storage: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Datalinks initialized successfully")
			fmt.Fprintln(out, "  config:", configDir)
			fmt.Fprintln(out, "  data:  ", dataDir)
			return nil
		},
	}
}
