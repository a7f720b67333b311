package match

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/restock-cli/internal/model"
)

var testNow = time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

func timePtr(t time.Time) *time.Time { return &t }

func TestPartition_ExecutionScope(t *testing.T) {
	t.Parallel()

	yesterday := testNow.AddDate(0, 0, -1)
	rows := []model.InventoryRow{
		{ID: 1, Status: model.StatusListed, VisibleToDealers: true},
		{ID: 2, Status: model.StatusPassedIn, VisibleToDealers: true, AuctionAt: timePtr(yesterday)},
		{ID: 3, Status: model.StatusListed, VisibleToDealers: true, AuctionAt: timePtr(testNow)},
	}

	s := Partition(rows, testNow)

	assert.Len(t, s.Execution, 3)
	assert.Empty(t, s.Visibility)
	assert.Zero(t, s.Skipped)
}

func TestPartition_FutureDatedNeverExecution(t *testing.T) {
	t.Parallel()

	tomorrow := testNow.AddDate(0, 0, 1)
	rows := []model.InventoryRow{
		{ID: 1, Status: model.StatusListed, VisibleToDealers: true, AuctionAt: timePtr(tomorrow)},
	}

	s := Partition(rows, testNow)

	assert.Empty(t, s.Execution)
	assert.Len(t, s.Visibility, 1)
}

func TestPartition_VisibilityScope(t *testing.T) {
	t.Parallel()

	nextWeek := testNow.AddDate(0, 0, 7)
	rows := []model.InventoryRow{
		// Catalogue source, future auction.
		{ID: 1, Status: model.StatusCatalogue, SourceType: model.SourceCatalogue, AuctionAt: timePtr(nextWeek)},
		// Upcoming with unknown date: included, labeled date-unknown.
		{ID: 2, Status: model.StatusUpcoming, SourceType: model.SourceCatalogue},
		// Visible flag qualifies non-catalogue sources too.
		{ID: 3, Status: model.StatusUpcoming, SourceType: model.SourceAuction, VisibleToDealers: true, AuctionAt: timePtr(nextWeek)},
	}

	s := Partition(rows, testNow)

	assert.Empty(t, s.Execution)
	assert.Len(t, s.Visibility, 3)
	assert.True(t, s.DateUnknown[2])
	assert.False(t, s.DateUnknown[1])
}

func TestPartition_NeitherScope(t *testing.T) {
	t.Parallel()

	yesterday := testNow.AddDate(0, 0, -1)
	rows := []model.InventoryRow{
		// Past-dated, non-visible, withdrawn.
		{ID: 1, Status: model.StatusWithdrawn, AuctionAt: timePtr(yesterday)},
		// Sold rows match nothing.
		{ID: 2, Status: model.StatusSold, VisibleToDealers: true},
		// Listed but not visible and not catalogue.
		{ID: 3, Status: model.StatusListed, SourceType: model.SourceAuction, AuctionAt: timePtr(yesterday)},
	}

	s := Partition(rows, testNow)

	assert.Empty(t, s.Execution)
	assert.Empty(t, s.Visibility)
	assert.Equal(t, 3, s.Skipped)
}

func TestPartition_Disjoint(t *testing.T) {
	t.Parallel()

	// A listed, visible row with no auction date satisfies the raw
	// visibility test too; execution must claim it first.
	rows := []model.InventoryRow{
		{ID: 1, Status: model.StatusListed, VisibleToDealers: true},
	}

	s := Partition(rows, testNow)

	assert.Len(t, s.Execution, 1)
	assert.Empty(t, s.Visibility)
}
