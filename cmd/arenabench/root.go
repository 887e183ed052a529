package main

import (
	"log/slog"

	"github.com/spf13/cobra"
)

var version = "dev"

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "arenabench",
		Short: "arenabench - CRM assessment orchestrator for black-box agents",
		Long: `arenabench assesses a black-box subject agent against CRM query tasks.

It dispatches each task over the subject's message endpoint, executes the
subject's queries against a sandboxed database, and scores the final answers
with exact-match, fuzzy, or privacy-refusal strategies.`,
		Version:      version,
		SilenceUsage: true,
	}

	debugLogging := cmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	cmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if *debugLogging {
			slog.SetLogLoggerLevel(slog.LevelDebug)
		}
	}

	cmd.AddCommand(newRunCommand())
	cmd.AddCommand(newServeCommand())

	return cmd
}

func execute() error {
	rootCmd := newRootCommand()
	return rootCmd.Execute()
}
