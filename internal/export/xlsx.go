// Package export renders evaluation results to dealer-facing artifacts.
package export

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/restock-cli/internal/model"
)

var matchHeader = []string{
	"Lane", "Tier", "Confidence", "Action", "Match Type",
	"Fingerprint", "Inventory", "Score", "Rule", "Date Known",
}

// WriteMatches writes a pass's matches to an XLSX workbook, one sheet per
// lane, preserving the engine's presentation order within each sheet.
func WriteMatches(path string, matches []model.Match) error {
	f := xlsx.NewFile()

	byLane := map[model.Lane][]model.Match{}
	for _, m := range matches {
		byLane[m.Lane] = append(byLane[m.Lane], m)
	}

	for _, lane := range []model.Lane{model.LanePrecision, model.LaneAdvisory, model.LaneProbable} {
		laneMatches := byLane[lane]
		if len(laneMatches) == 0 {
			continue
		}
		sheet, err := f.AddSheet(sheetName(lane))
		if err != nil {
			return eris.Wrapf(err, "export: add sheet %s", lane)
		}

		header := sheet.AddRow()
		for _, h := range matchHeader {
			header.AddCell().Value = h
		}

		for _, m := range laneMatches {
			row := sheet.AddRow()
			row.AddCell().Value = string(m.Lane)
			row.AddCell().SetInt(int(m.Tier))
			row.AddCell().Value = string(m.Confidence)
			row.AddCell().Value = string(m.Action)
			row.AddCell().Value = string(m.Type)
			row.AddCell().SetInt64(m.FingerprintID)
			row.AddCell().SetInt64(m.InventoryID)
			row.AddCell().SetFloat(m.Score)
			row.AddCell().Value = m.Rule
			row.AddCell().Value = dateLabel(m.DateUnknown)
		}
	}

	if len(f.Sheets) == 0 {
		// A workbook needs at least one sheet even when the pass was empty.
		if _, err := f.AddSheet("No Matches"); err != nil {
			return eris.Wrap(err, "export: add empty sheet")
		}
	}

	if err := f.Save(path); err != nil {
		return eris.Wrapf(err, "export: save %s", path)
	}
	return nil
}

func sheetName(lane model.Lane) string {
	switch lane {
	case model.LanePrecision:
		return "Precision"
	case model.LaneAdvisory:
		return "Advisory"
	case model.LaneProbable:
		return "Probable"
	default:
		return fmt.Sprintf("Lane %s", lane)
	}
}

func dateLabel(unknown bool) string {
	if unknown {
		return "date unknown"
	}
	return "yes"
}
