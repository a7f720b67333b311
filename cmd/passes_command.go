package main

import (
	"github.com/spf13/cobra"

	"github.com/sells-group/restock-cli/internal/store"
)

var passesLimit int

var passesCmd = &cobra.Command{
	Use:   "passes",
	Short: "List recent evaluation passes",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := store.NewSQLite(cfg.Store.SQLitePath)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		passes, err := st.ListPasses(ctx, passesLimit)
		if err != nil {
			return err
		}
		return printJSON(passes)
	},
}

func init() {
	passesCmd.Flags().IntVar(&passesLimit, "limit", 20, "maximum passes to list")
	rootCmd.AddCommand(passesCmd)
}
