package cli

import (
	"github.com/spf13/cobra"

	"github.com/edvin/dbaccess/internal/seed"
)

func newSeedCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load roles and privileges from a YAML file",
		Long:  "Creates the privileges, roles and role links described in the file. Entries that already exist are left alone.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			seedCfg, err := seed.Load(file)
			if err != nil {
				return err
			}

			cfg, logger, err := loadConfig("seed")
			if err != nil {
				return err
			}

			ctx := commandContext(cmd)
			rt, err := connect(ctx, cfg, logger, false)
			if err != nil {
				return err
			}
			defer rt.Close()

			result, err := seed.Apply(ctx, rt.services.Catalog, seedCfg, logger)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), result)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "seeds/catalog.yaml", "Seed file to load")
	return cmd
}
