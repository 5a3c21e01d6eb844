// Package cli defines the sysq command tree.
package cli

import (
	"github.com/spf13/cobra"
)

// Version metadata, overridden at build time via -ldflags.
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "sysq",
		Short: "Ask your Linux system questions in plain language",
		Long: `sysq answers questions about the local system by classifying the
question, planning safe read-only diagnostic commands, executing them under a
safety gate, and interpreting their output. Every answer carries an explicit
confidence level and a full trace of what ran.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newAskCommand(),
		newToolsCommand(),
		newHistoryCommand(),
		newConfigCommand(),
		newVersionCommand(),
	)

	// A bare "sysq <question>" works like "sysq ask <question>".
	root.RunE = func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return cmd.Help()
		}
		ask := newAskCommand()
		ask.SetArgs(args)
		ask.SetOut(cmd.OutOrStdout())
		ask.SetErr(cmd.ErrOrStderr())
		return ask.Execute()
	}
	root.Args = cobra.ArbitraryArgs

	return root
}
