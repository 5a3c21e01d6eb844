package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/doeshing/sysq/internal/app"
	"github.com/doeshing/sysq/internal/domain"
	"github.com/doeshing/sysq/internal/infrastructure/trace"
)

func newHistoryCommand() *cobra.Command {
	var (
		limit  int
		asJSON bool
		prune  bool
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent query traces",
		RunE: func(cmd *cobra.Command, args []string) error {
			container, err := app.New(cmd.Context())
			if err != nil {
				return err
			}
			defer container.Close()

			if container.Store == nil {
				return fmt.Errorf("history is disabled in the configuration")
			}

			if prune {
				removed, err := container.Store.Prune(container.Config.History.RetainDays)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "pruned %d trace(s) older than %d days\n",
					removed, container.Config.History.RetainDays)
				return nil
			}

			traces, err := container.Store.List(limit)
			if err != nil {
				return err
			}
			if len(traces) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no traces recorded yet")
				return nil
			}

			if asJSON {
				for _, tr := range traces {
					if err := trace.RenderJSON(cmd.OutOrStdout(), tr); err != nil {
						return err
					}
				}
				return nil
			}

			for _, tr := range traces {
				status := "ok"
				if !tr.Success {
					status = "failed"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s  [%s/%s, %s, %s]\n  %s\n",
					tr.CreatedAt.Local().Format("2006-01-02 15:04"),
					tr.Goal, tr.Domain, tr.Confidence, status, tr.Query)
				fmt.Fprintf(cmd.OutOrStdout(), "  -> %s\n", tr.Answer)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", domain.DefaultHistoryLimit, "number of traces to show")
	cmd.Flags().BoolVar(&asJSON, "json", false, "emit traces as JSON")
	cmd.Flags().BoolVar(&prune, "prune", false, "delete traces older than the retention window")
	return cmd
}
