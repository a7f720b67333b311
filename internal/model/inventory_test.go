package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRowStatus_Terminal(t *testing.T) {
	t.Parallel()

	assert.True(t, StatusSold.Terminal())
	assert.True(t, StatusWithdrawn.Terminal())
	assert.False(t, StatusListed.Terminal())
	assert.False(t, StatusPassedIn.Terminal())
	assert.False(t, StatusCatalogue.Terminal())
}

func TestInventoryRow_Matchable(t *testing.T) {
	t.Parallel()

	assert.True(t, InventoryRow{Status: StatusListed}.Matchable())
	assert.False(t, InventoryRow{Status: StatusSold}.Matchable())
	assert.False(t, InventoryRow{Status: StatusListed, ExcludedReason: "duplicate"}.Matchable())
}

func TestInventoryRow_PriceDropPct(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		original float64
		current  float64
		want     float64
	}{
		{"ten percent", 40000, 36000, 0.10},
		{"no drop", 40000, 40000, 0},
		{"price rose", 40000, 42000, 0},
		{"unknown original", 0, 36000, 0},
		{"unknown current", 40000, 0, 0},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			row := InventoryRow{OriginalAsk: tt.original, CurrentAsk: tt.current}
			assert.InDelta(t, tt.want, row.PriceDropPct(), 0.0001)
		})
	}
}

func TestLane_Priority(t *testing.T) {
	t.Parallel()

	assert.Less(t, LanePrecision.Priority(), LaneAdvisory.Priority())
	assert.Less(t, LaneAdvisory.Priority(), LaneProbable.Priority())
	assert.Greater(t, Lane("unknown").Priority(), LaneProbable.Priority())
}
