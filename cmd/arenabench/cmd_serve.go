package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/agentbeats/arenabench/internal/env"
	"github.com/agentbeats/arenabench/internal/orchestration"
	"github.com/agentbeats/arenabench/internal/tasks"
	"github.com/agentbeats/arenabench/internal/webserver"
)

func newServeCommand() *cobra.Command {
	var (
		port     int
		tasksDir string
		dbPath   string
		workers  int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the assessor over HTTP",
		Long: `Serve the assessor over HTTP.

Exposes the agent card at /.well-known/agent-card.json for discovery and
accepts assessment requests at POST /assess. Each request runs a full batch
synchronously and returns the report.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			connector, err := env.OpenSQLite(dbPath)
			if err != nil {
				return err
			}
			defer connector.Close() //nolint:errcheck

			orch := orchestration.New(
				tasks.NewDirSource(tasksDir),
				env.NewAdapter(connector),
				orchestration.WithWorkers(workers),
			)

			srv, err := webserver.New(webserver.Config{
				Port:   port,
				Runner: orch,
				Logger: slog.Default(),
			})
			if err != nil {
				return err
			}
			return srv.ListenAndServe(ctx)
		},
	}

	cmd.Flags().IntVar(&port, "port", 8080, "Port to listen on")
	cmd.Flags().StringVar(&tasksDir, "tasks", "tasks", "Directory containing task YAML files")
	cmd.Flags().StringVar(&dbPath, "db", "sandbox.db", "Path to the sandbox SQLite database")
	cmd.Flags().IntVar(&workers, "workers", orchestration.DefaultWorkers, "Concurrent session limit")

	return cmd
}
