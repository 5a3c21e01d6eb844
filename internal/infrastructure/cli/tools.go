package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/doeshing/sysq/internal/app"
)

func newToolsCommand() *cobra.Command {
	var refresh bool

	cmd := &cobra.Command{
		Use:   "tools",
		Short: "Show which system utilities were detected",
		RunE: func(cmd *cobra.Command, args []string) error {
			container, err := app.New(cmd.Context())
			if err != nil {
				return err
			}
			defer container.Close()

			inventory := container.Detector.Detect()
			if refresh {
				inventory = container.Detector.Refresh()
			}

			names := make([]string, 0, len(inventory))
			for name := range inventory {
				names = append(names, name)
			}
			sort.Strings(names)

			for _, name := range names {
				marker := "missing"
				if inventory[name] {
					marker = "found"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-14s %s\n", name, marker)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&refresh, "refresh", false, "re-probe instead of using the session cache")
	return cmd
}
