// Package cli implements the dbaccess command tree.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/edvin/dbaccess/internal/config"
	"github.com/edvin/dbaccess/internal/logging"
)

var (
	version = "dev"
	commit  = "none"
)

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "dbaccess",
		Short:         "Role-based privilege management for MariaDB and MySQL",
		Long:          "Tracks database accounts, roles and privileges in a catalog and keeps the server's grants in step with it.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newMigrateCmd())
	rootCmd.AddCommand(newSeedCmd())
	rootCmd.AddCommand(newSyncAccountsCmd())
	rootCmd.AddCommand(newApplyUserCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "dbaccess version %s (commit: %s)\n", version, commit)
			return err
		},
	}
}

// loadConfig loads the environment configuration and checks it for command.
func loadConfig(command string) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, zerolog.Nop(), fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(command); err != nil {
		return nil, zerolog.Nop(), fmt.Errorf("invalid config: %w", err)
	}
	return cfg, logging.NewLogger(cfg), nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
