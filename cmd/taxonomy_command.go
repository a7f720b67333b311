package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/restock-cli/internal/taxonomy"
)

var taxonomyFixture string

var taxonomyCmd = &cobra.Command{
	Use:   "taxonomy",
	Short: "Manage the local taxonomy store",
}

var taxonomyLoadCmd = &cobra.Command{
	Use:   "load",
	Short: "Seed the configured taxonomy store from a YAML fixture",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		fx, err := taxonomy.LoadFixture(taxonomyFixture)
		if err != nil {
			return err
		}

		var target string
		switch cfg.Taxonomy.Driver {
		case "postgres":
			pg, err := taxonomy.NewPostgres(ctx, cfg.Taxonomy.DatabaseURL)
			if err != nil {
				return err
			}
			defer pg.Close()

			if err := pg.Seed(ctx, fx); err != nil {
				return err
			}
			target = "taxonomy database"
		default:
			st, err := taxonomy.NewSQLite(cfg.Taxonomy.SQLitePath)
			if err != nil {
				return err
			}
			defer st.Close() //nolint:errcheck

			if err := st.Migrate(ctx); err != nil {
				return err
			}
			if err := st.Seed(ctx, fx); err != nil {
				return err
			}
			target = cfg.Taxonomy.SQLitePath
		}

		zap.L().Info("taxonomy seeded",
			zap.String("driver", cfg.Taxonomy.Driver),
			zap.String("target", target),
			zap.Int("models", len(fx.Models)),
			zap.Int("variants", len(fx.Variants)),
			zap.Int("dealer_truth_scopes", len(fx.SalesTruth)),
		)
		return nil
	},
}

func init() {
	taxonomyLoadCmd.Flags().StringVar(&taxonomyFixture, "fixture", "taxonomy.yaml", "path to taxonomy fixture YAML")
	taxonomyCmd.AddCommand(taxonomyLoadCmd)
	rootCmd.AddCommand(taxonomyCmd)
}
