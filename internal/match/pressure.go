package match

import (
	"fmt"

	"github.com/sells-group/restock-cli/internal/model"
)

// PressureConfig holds the secondary market-behavior thresholds that gate
// promotion from watch to buy.
type PressureConfig struct {
	// ConfidenceFloor is the minimum row confidence score for a Tier-1
	// match to enter pressure evaluation at all.
	ConfidenceFloor float64 `yaml:"confidence_floor" mapstructure:"confidence_floor"`
	// MinPassCount promotes items passed-in/relisted at least this often.
	MinPassCount int `yaml:"min_pass_count" mapstructure:"min_pass_count"`
	// MinDaysOnMarket promotes items aging on market at least this long.
	MinDaysOnMarket int `yaml:"min_days_on_market" mapstructure:"min_days_on_market"`
	// MinPriceDrop promotes items whose ask dropped at least this fraction
	// from the original.
	MinPriceDrop float64 `yaml:"min_price_drop" mapstructure:"min_price_drop"`
}

// DefaultPressureConfig returns the production pressure thresholds.
func DefaultPressureConfig() PressureConfig {
	return PressureConfig{
		ConfidenceFloor: 4,
		MinPassCount:    2,
		MinDaysOnMarket: 14,
		MinPriceDrop:    0.05,
	}
}

// Signals returns the pressure signals present on a row, in evaluation order.
func (c PressureConfig) Signals(row model.InventoryRow) []string {
	var signals []string
	if row.PassCount >= c.MinPassCount {
		signals = append(signals, fmt.Sprintf("passed_in_x%d", row.PassCount))
	}
	if row.DaysOnMarket >= c.MinDaysOnMarket {
		signals = append(signals, fmt.Sprintf("on_market_%dd", row.DaysOnMarket))
	}
	if drop := row.PriceDropPct(); drop >= c.MinPriceDrop {
		signals = append(signals, fmt.Sprintf("price_drop_%.0f%%", drop*100))
	}
	return signals
}

// Evaluate decides the final action for a match. A Tier-1 match with a
// sufficiently confident row defaults to watch and is promoted to buy only
// when at least one pressure signal is present. Tier-2 matches are
// permanently capped at watch regardless of signals: their identity match is
// inherently less certain.
func (c PressureConfig) Evaluate(m model.Match, row model.InventoryRow) model.Action {
	if m.Tier != model.Tier1 || m.Scope != model.ScopeExecution {
		return model.ActionWatch
	}
	if row.ConfidenceScore < c.ConfidenceFloor {
		return model.ActionWatch
	}
	if len(c.Signals(row)) > 0 {
		return model.ActionBuy
	}
	return model.ActionWatch
}
