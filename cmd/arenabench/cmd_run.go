package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/agentbeats/arenabench/internal/env"
	"github.com/agentbeats/arenabench/internal/models"
	"github.com/agentbeats/arenabench/internal/orchestration"
	"github.com/agentbeats/arenabench/internal/reporting"
	"github.com/agentbeats/arenabench/internal/session"
	"github.com/agentbeats/arenabench/internal/tasks"
)

func newRunCommand() *cobra.Command {
	var (
		subjectURL   string
		tasksDir     string
		dbPath       string
		category     string
		maxTasks     int
		interactive  bool
		maxTurns     int
		maxUserTurns int
		workers      int
		outputPath   string
		markdownPath string
		sessionLog   string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a one-shot assessment against a subject agent",
		Long: `Run a one-shot assessment against a subject agent.

Tasks are loaded from the task directory, dispatched to the subject at its
/message endpoint, and the resulting report is printed to stdout. The exit
code is non-zero when any task fails.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			connector, err := env.OpenSQLite(dbPath)
			if err != nil {
				return err
			}
			defer connector.Close() //nolint:errcheck

			opts := []orchestration.Option{
				orchestration.WithWorkers(workers),
			}
			if sessionLog != "" {
				logger, err := session.NewJSONLogger(session.DefaultLogPath(sessionLog))
				if err != nil {
					return err
				}
				defer logger.Close() //nolint:errcheck
				opts = append(opts, orchestration.WithSessionLogger(logger))
			}

			orch := orchestration.New(tasks.NewDirSource(tasksDir), env.NewAdapter(connector), opts...)
			orch.OnProgress(func(ev orchestration.ProgressEvent) {
				switch ev.EventType {
				case orchestration.EventTaskStart:
					fmt.Printf("[%d/%d] %s...\n", ev.TaskNum, ev.TotalTasks, ev.TaskID)
				case orchestration.EventTaskComplete:
					fmt.Printf("[%d/%d] %s: %s (score %.2f)\n",
						ev.TaskNum, ev.TotalTasks, ev.TaskID, ev.Status, ev.Score)
				}
			})

			req := &models.AssessmentRequest{
				SubjectURL:   subjectURL,
				TaskCategory: category,
				MaxTasks:     maxTasks,
				Interactive:  interactive,
				MaxTurns:     maxTurns,
				MaxUserTurns: maxUserTurns,
			}

			report, err := orch.RunAssessment(ctx, req)
			if err != nil {
				return err
			}

			fmt.Println()
			reporting.WriteConsole(os.Stdout, report)

			if outputPath != "" {
				if err := report.WriteJSON(outputPath); err != nil {
					return fmt.Errorf("writing report: %w", err)
				}
				slog.Info("report written", "path", outputPath)
			}
			if markdownPath != "" {
				if err := os.WriteFile(markdownPath, []byte(reporting.Markdown(report)), 0644); err != nil {
					return fmt.Errorf("writing markdown summary: %w", err)
				}
				slog.Info("markdown summary written", "path", markdownPath)
			}

			if report.SuccessfulTasks < report.TotalTasks {
				return &TaskFailureError{
					Message: fmt.Sprintf("%d of %d tasks failed",
						report.TotalTasks-report.SuccessfulTasks, report.TotalTasks),
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&subjectURL, "subject-url", "", "Base URL of the subject agent (required)")
	cmd.Flags().StringVar(&tasksDir, "tasks", "tasks", "Directory containing task YAML files")
	cmd.Flags().StringVar(&dbPath, "db", "sandbox.db", "Path to the sandbox SQLite database")
	cmd.Flags().StringVar(&category, "category", "all", "Task category filter (all, one name, or a comma-separated list)")
	cmd.Flags().IntVar(&maxTasks, "max-tasks", 0, "Truncate the batch to this many tasks (0 = no limit)")
	cmd.Flags().BoolVar(&interactive, "interactive", false, "Enable the simulated-user interactive mode")
	cmd.Flags().IntVar(&maxTurns, "max-turns", models.DefaultMaxTurns, "Action turn budget per session")
	cmd.Flags().IntVar(&maxUserTurns, "max-user-turns", models.DefaultMaxUserTurns, "Simulated-user turn budget per session")
	cmd.Flags().IntVar(&workers, "workers", orchestration.DefaultWorkers, "Concurrent session limit")
	cmd.Flags().StringVar(&outputPath, "output", "", "Write the full JSON report to this path")
	cmd.Flags().StringVar(&markdownPath, "markdown", "", "Write a markdown summary to this path")
	cmd.Flags().StringVar(&sessionLog, "session-log", "", "Directory for NDJSON session event logs")

	_ = cmd.MarkFlagRequired("subject-url")

	return cmd
}
