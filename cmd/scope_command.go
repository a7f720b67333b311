package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/sells-group/restock-cli/internal/match"
	"github.com/sells-group/restock-cli/internal/model"
)

var scopeInventory string

var scopeCmd = &cobra.Command{
	Use:   "scope",
	Short: "Show the execution/visibility partition of an inventory batch",
	RunE: func(cmd *cobra.Command, args []string) error {
		var rows []model.InventoryRow
		if err := readJSONFile(scopeInventory, &rows); err != nil {
			return err
		}

		scopes := match.Partition(rows, time.Now())

		type scopedRow struct {
			ID          int64  `json:"id"`
			Status      string `json:"status"`
			Source      string `json:"source"`
			DateUnknown bool   `json:"date_unknown,omitempty"`
		}
		out := struct {
			Execution  []scopedRow `json:"execution"`
			Visibility []scopedRow `json:"visibility"`
			Skipped    int         `json:"skipped"`
		}{Skipped: scopes.Skipped}

		for _, r := range scopes.Execution {
			out.Execution = append(out.Execution, scopedRow{r.ID, string(r.Status), r.SourceName, false})
		}
		for _, r := range scopes.Visibility {
			out.Visibility = append(out.Visibility, scopedRow{r.ID, string(r.Status), r.SourceName, scopes.DateUnknown[r.ID]})
		}

		return printJSON(out)
	},
}

func init() {
	scopeCmd.Flags().StringVar(&scopeInventory, "inventory", "inventory.json", "path to inventory JSON array")
	rootCmd.AddCommand(scopeCmd)
}
