package model

import "time"

// RowStatus is the lifecycle state of an inventory row as reported by its
// source.
type RowStatus string

const (
	StatusListed    RowStatus = "listed"
	StatusPassedIn  RowStatus = "passed_in"
	StatusCatalogue RowStatus = "catalogue"
	StatusUpcoming  RowStatus = "upcoming"
	StatusSold      RowStatus = "sold"
	StatusWithdrawn RowStatus = "withdrawn"
)

// Terminal reports whether the status can never produce a match.
func (s RowStatus) Terminal() bool {
	return s == StatusSold || s == StatusWithdrawn
}

// SourceType distinguishes live auction feeds from catalogue-style sources
// whose rows are informational until listed.
type SourceType string

const (
	SourceAuction    SourceType = "auction"
	SourceCatalogue  SourceType = "catalogue"
	SourceClassified SourceType = "classified"
)

// InventoryRow is one wholesale lot or listing produced by ingestion. The
// matching core only reads rows.
type InventoryRow struct {
	ID                int64      `json:"id"`
	Make              string     `json:"make"`
	Model             string     `json:"model"`
	VariantRaw        string     `json:"variant_raw"`
	VariantNormalised string     `json:"variant_normalised"`
	VariantFamily     string     `json:"variant_family"`
	Year              int        `json:"year"`
	Engine            string     `json:"engine,omitempty"`
	Drivetrain        string     `json:"drivetrain,omitempty"`
	Transmission      string     `json:"transmission,omitempty"`
	KM                *int       `json:"km"`
	KMConfirmed       bool       `json:"km_confirmed"`
	Status            RowStatus  `json:"status"`
	AuctionAt         *time.Time `json:"auction_at"`
	SourceName        string     `json:"source_name"`
	SourceType        SourceType `json:"source_type"`
	VisibleToDealers  bool       `json:"visible_to_dealers"`
	ExcludedReason    string     `json:"excluded_reason,omitempty"`
	ConfidenceScore   float64    `json:"confidence_score"`
	Action            Action     `json:"action"`

	// Pressure signals, populated by ingestion from listing history.
	PassCount    int     `json:"pass_count"`
	DaysOnMarket int     `json:"days_on_market"`
	OriginalAsk  float64 `json:"original_ask"`
	CurrentAsk   float64 `json:"current_ask"`
}

// Matchable reports whether the row may produce matches at all: not excluded
// by ingestion and not in a terminal status.
func (r InventoryRow) Matchable() bool {
	return r.ExcludedReason == "" && !r.Status.Terminal()
}

// PriceDropPct returns the drop from original ask as a fraction, or 0 when
// either price is unknown.
func (r InventoryRow) PriceDropPct() float64 {
	if r.OriginalAsk <= 0 || r.CurrentAsk <= 0 || r.CurrentAsk >= r.OriginalAsk {
		return 0
	}
	return (r.OriginalAsk - r.CurrentAsk) / r.OriginalAsk
}
