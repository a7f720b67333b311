// Package match partitions inventory into actionability scopes and evaluates
// dealer fingerprints against it through an ordered rule ladder.
package match

import (
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/restock-cli/internal/model"
)

// Scopes is the disjoint partition of one inventory batch, computed once per
// evaluation pass and reused by the tier rules. Execution rows may drive a
// buy action; visibility rows only ever produce Tier-2 results.
type Scopes struct {
	Execution  []model.InventoryRow
	Visibility []model.InventoryRow
	// DateUnknown flags visibility rows whose auction timestamp was absent
	// or unparseable; downstream labels them "date unknown" instead of
	// excluding them.
	DateUnknown map[int64]bool
	// Skipped counts rows that satisfied neither scope test.
	Skipped int
}

// Partition splits rows into execution and visibility scopes relative to now.
// Execution is tested first; a row never appears in both scopes, which is
// what keeps a future catalogue row from producing a buy-eligible result.
func Partition(rows []model.InventoryRow, now time.Time) Scopes {
	s := Scopes{DateUnknown: make(map[int64]bool)}

	for _, row := range rows {
		switch {
		case executionEligible(row, now):
			s.Execution = append(s.Execution, row)
		case visibilityEligible(row, now):
			s.Visibility = append(s.Visibility, row)
			if row.AuctionAt == nil {
				s.DateUnknown[row.ID] = true
			}
		default:
			s.Skipped++
		}
	}

	zap.L().Debug("match: partitioned inventory",
		zap.Int("execution", len(s.Execution)),
		zap.Int("visibility", len(s.Visibility)),
		zap.Int("skipped", s.Skipped),
	)
	return s
}

// executionEligible: live status, visible, and the auction is absent or
// already due. Future-dated rows are never execution-eligible because the
// inventory is not yet actionable.
func executionEligible(row model.InventoryRow, now time.Time) bool {
	if row.Status != model.StatusListed && row.Status != model.StatusPassedIn {
		return false
	}
	if !row.VisibleToDealers {
		return false
	}
	if row.AuctionAt == nil {
		return true
	}
	return !dateOf(*row.AuctionAt).After(dateOf(now))
}

// visibilityEligible: catalogue-style or visible, in a pre-sale status, and
// auctioning in the future or on an unknown date. Unknown dates are included
// rather than excluded.
func visibilityEligible(row model.InventoryRow, now time.Time) bool {
	if row.SourceType != model.SourceCatalogue && !row.VisibleToDealers {
		return false
	}
	switch row.Status {
	case model.StatusCatalogue, model.StatusUpcoming, model.StatusListed:
	default:
		return false
	}
	if row.AuctionAt == nil {
		return true
	}
	return dateOf(*row.AuctionAt).After(dateOf(now))
}

// dateOf truncates a timestamp to its calendar day in UTC, so "today or in
// the past" compares dates rather than instants.
func dateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
