package cli

import (
	"github.com/spf13/cobra"
)

func newSyncAccountsCmd() *cobra.Command {
	var defaultPassword string

	cmd := &cobra.Command{
		Use:   "sync-accounts",
		Short: "Create tracked accounts that are missing on the server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := loadConfig("sync-accounts")
			if err != nil {
				return err
			}

			ctx := commandContext(cmd)
			rt, err := connect(ctx, cfg, logger, true)
			if err != nil {
				return err
			}
			defer rt.Close()

			report, err := rt.services.Accounts.SyncAccounts(ctx, defaultPassword)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), report)
		},
	}

	cmd.Flags().StringVar(&defaultPassword, "default-password", "", "Password for accounts created on the server")
	_ = cmd.MarkFlagRequired("default-password")
	return cmd
}

func newApplyUserCmd() *cobra.Command {
	var database string

	cmd := &cobra.Command{
		Use:   "apply-user <db-user-id>",
		Short: "Revoke everything from an account and re-grant its role privileges",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig("apply-user")
			if err != nil {
				return err
			}

			ctx := commandContext(cmd)
			rt, err := connect(ctx, cfg, logger, true)
			if err != nil {
				return err
			}
			defer rt.Close()

			report, err := rt.services.Synchronizer.ApplyPrivilegesToUser(ctx, args[0], database)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), report)
		},
	}

	cmd.Flags().StringVar(&database, "database", "", "Grant on this database instead of server-wide")
	return cmd
}
