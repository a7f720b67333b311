package main

import (
	"github.com/spf13/cobra"

	"github.com/sells-group/restock-cli/internal/model"
)

var normalizeInput model.NormalizeInput

var normalizeCmd = &cobra.Command{
	Use:   "normalize",
	Short: "Resolve one listing's canonical identity",
	Long:  "Runs identity resolution over raw listing text and prints the canonical make/model/variant with its confidence and explain trail.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		repo, cleanup, err := openTaxonomy(ctx, cfg)
		if err != nil {
			return err
		}
		defer cleanup()

		result := newNormalizer(repo, cfg).Resolve(ctx, normalizeInput)
		return printJSON(result)
	},
}

func init() {
	f := normalizeCmd.Flags()
	f.StringVar(&normalizeInput.MakeRaw, "make", "", "raw make text")
	f.StringVar(&normalizeInput.ModelRaw, "model", "", "raw model text")
	f.StringVar(&normalizeInput.VariantRaw, "variant", "", "raw variant text")
	f.StringVar(&normalizeInput.URL, "url", "", "listing URL")
	f.StringVar(&normalizeInput.Title, "title", "", "listing title")
	f.StringVar(&normalizeInput.BodyText, "body", "", "listing body text")
	f.Int64Var(&normalizeInput.DealerID, "dealer", 0, "dealer id for sales-truth assist")
	f.IntVar(&normalizeInput.Year, "year", 0, "listing year")
	rootCmd.AddCommand(normalizeCmd)
}
