package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/doeshing/sysq/internal/app"
	"github.com/doeshing/sysq/internal/domain"
	"github.com/doeshing/sysq/internal/infrastructure/trace"
)

func newAskCommand() *cobra.Command {
	var (
		approve bool
		asJSON  bool
		verbose bool
		refresh bool
	)

	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Answer a question about this system",
		Example: `  sysq ask "what games do i have installed"
  sysq ask "how much ram is in use"
  sysq ask --verbose "which window manager am i running"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			container, err := app.New(cmd.Context())
			if err != nil {
				return err
			}
			defer container.Close()

			req := domain.QueryRequest{
				Context:          cmd.Context(),
				Query:            strings.Join(args, " "),
				RefreshInventory: refresh,
				Debug:            verbose,
			}
			// The token's value is opaque to the pipeline; presence is the
			// user's recorded consent.
			if approve {
				req.ApprovalToken = "cli-approve-flag"
			}

			tr, err := container.Service.Run(req)
			if err != nil {
				return err
			}

			if asJSON {
				return trace.RenderJSON(cmd.OutOrStdout(), tr)
			}
			trace.RenderText(cmd.OutOrStdout(), tr, verbose)

			if !tr.Success && strings.Contains(answerText(tr), "approval required") {
				fmt.Fprintln(cmd.ErrOrStderr(), "hint: re-run with --approve to consent to the risky plan")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&approve, "approve", false, "consent to a risky-tier plan")
	cmd.Flags().BoolVar(&asJSON, "json", false, "emit the full trace as JSON")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "show the full audit trail")
	cmd.Flags().BoolVar(&refresh, "refresh-tools", false, "re-probe available tools instead of using the session cache")
	return cmd
}

func answerText(tr domain.Trace) string {
	var b strings.Builder
	b.WriteString(tr.Answer)
	b.WriteString("\n")
	b.WriteString(tr.Details)
	for _, c := range tr.Commands {
		b.WriteString("\n")
		b.WriteString(c.OutputExcerpt)
	}
	return b.String()
}
