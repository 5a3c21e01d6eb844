package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/doeshing/sysq/internal/app"
)

func newConfigCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show the effective configuration and its location",
		RunE: func(cmd *cobra.Command, args []string) error {
			container, err := app.New(cmd.Context())
			if err != nil {
				return err
			}
			defer container.Close()

			fmt.Fprintf(cmd.OutOrStdout(), "# %s\n", container.Loader.Path())
			out, err := yaml.Marshal(container.Config)
			if err != nil {
				return err
			}
			cmd.OutOrStdout().Write(out)
			return nil
		},
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "sysq %s (commit %s, built %s)\n", Version, Commit, BuildDate)
		},
	}
}
