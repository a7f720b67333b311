package main

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/restock-cli/internal/export"
	"github.com/sells-group/restock-cli/internal/match"
	"github.com/sells-group/restock-cli/internal/model"
	"github.com/sells-group/restock-cli/internal/resilience"
	"github.com/sells-group/restock-cli/internal/store"
)

var (
	evaluateFingerprints string
	evaluateInventory    string
	evaluateXLSX         string
	evaluateNoSave       bool
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Run a full match evaluation pass",
	Long:  "Matches every active fingerprint against scoped inventory, prints the ordered matches, and snapshots the pass for display layers.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		var fingerprints []model.Fingerprint
		if err := readJSONFile(evaluateFingerprints, &fingerprints); err != nil {
			return err
		}
		var rows []model.InventoryRow
		if err := readJSONFile(evaluateInventory, &rows); err != nil {
			return err
		}

		engine := match.NewEngine(matchConfig(cfg))
		result := engine.Evaluate(fingerprints, rows)

		pass := &model.EvaluationPass{
			Fingerprints:   len(fingerprints),
			Rows:           len(rows),
			ExecutionRows:  result.ExecutionRows,
			VisibilityRows: result.VisibilityRows,
			SkippedRows:    result.SkippedRows,
			EvaluatedPairs: result.EvaluatedPairs,
		}

		if !evaluateNoSave {
			st, err := store.NewSQLite(cfg.Store.SQLitePath)
			if err != nil {
				return err
			}
			defer st.Close() //nolint:errcheck
			if err := st.Migrate(ctx); err != nil {
				return err
			}
			retryCfg := resilience.DefaultRetryConfig()
			retryCfg.OnRetry = resilience.RetryLogger("store", "save_pass")
			err = resilience.Do(ctx, retryCfg, func(ctx context.Context) error {
				return st.SavePass(ctx, pass, result.Matches)
			})
			if err != nil {
				return err
			}
			zap.L().Info("evaluation pass saved", zap.String("pass_id", pass.ID))
		}

		if evaluateXLSX != "" {
			if err := export.WriteMatches(evaluateXLSX, result.Matches); err != nil {
				return err
			}
			zap.L().Info("workbook written", zap.String("path", evaluateXLSX))
		}

		return printJSON(struct {
			Pass    *model.EvaluationPass `json:"pass"`
			Matches []model.Match         `json:"matches"`
		}{pass, result.Matches})
	},
}

func init() {
	f := evaluateCmd.Flags()
	f.StringVar(&evaluateFingerprints, "fingerprints", "fingerprints.json", "path to fingerprint JSON array")
	f.StringVar(&evaluateInventory, "inventory", "inventory.json", "path to inventory JSON array")
	f.StringVar(&evaluateXLSX, "xlsx", "", "write matches to an XLSX workbook")
	f.BoolVar(&evaluateNoSave, "no-save", false, "skip snapshotting the pass")
	rootCmd.AddCommand(evaluateCmd)
}
