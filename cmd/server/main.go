package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"vpaura/backend/internal/app"
)

// @title           vpaura API
// @version         1.0
// @description     Intent-routed chat orchestration over guarded, retrying LLM calls.
// @BasePath        /api

var rootCmd = &cobra.Command{
	Use:   "vpaura",
	Short: "vpaura chat backend",
	Long: `vpaura serves the chat API: it routes each query to a workflow,
calls the configured language model with guardrails and retries, and
persists sessions in SQLite with workflow checkpoints in Redis.

Run without arguments to start the server.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return exitError(app.Run())
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return exitError(app.Run())
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		return exitError(app.Migrate())
	},
}

func exitError(code int) error {
	if code != 0 {
		return fmt.Errorf("exited with code %d", code)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
