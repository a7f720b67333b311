package model

// MatchType records which rule family produced a match.
type MatchType string

const (
	MatchKMBounded     MatchType = "km_bounded"
	MatchSpecOnly      MatchType = "spec_only"
	MatchVariantFamily MatchType = "variant_family"
)

// Tier is the confidence tier of a match. Tier-1 is exact and buy-eligible;
// Tier-2 is probable and never auto-promotes to a buy action.
type Tier int

const (
	Tier1 Tier = 1
	Tier2 Tier = 2
)

// Lane is the display/priority grouping of a match.
type Lane string

const (
	LanePrecision Lane = "precision"
	LaneAdvisory  Lane = "advisory"
	LaneProbable  Lane = "probable"
)

// lanePriority orders lanes for presentation; lower sorts first.
var lanePriority = map[Lane]int{
	LanePrecision: 0,
	LaneAdvisory:  1,
	LaneProbable:  2,
}

// Priority returns the lane's sort rank (Precision before Advisory before
// Probable).
func (l Lane) Priority() int {
	if p, ok := lanePriority[l]; ok {
		return p
	}
	return len(lanePriority)
}

// MatchConfidence labels how certain the identity match is.
type MatchConfidence string

const (
	ConfidenceExact    MatchConfidence = "exact"
	ConfidenceProbable MatchConfidence = "probable"
)

// Action is the recommendation attached to a match.
type Action string

const (
	ActionNone  Action = "none"
	ActionWatch Action = "watch"
	ActionBuy   Action = "buy"
)

// Scope partitions inventory rows before matching. Execution-scope rows may
// drive a buy action; visibility-scope rows only ever produce Tier-2 results.
type Scope string

const (
	ScopeExecution  Scope = "execution"
	ScopeVisibility Scope = "visibility"
	ScopeNone       Scope = "none"
)

// Match pairs a fingerprint with an inventory row. Matches are recomputed on
// every evaluation pass and never treated as authoritative state.
type Match struct {
	FingerprintID int64           `json:"fingerprint_id"`
	InventoryID   int64           `json:"inventory_id"`
	Type          MatchType       `json:"match_type"`
	Tier          Tier            `json:"tier"`
	Lane          Lane            `json:"lane"`
	Confidence    MatchConfidence `json:"confidence"`
	Action        Action          `json:"action"`
	Scope         Scope           `json:"scope"`
	Score         float64         `json:"score"`
	DateUnknown   bool            `json:"date_unknown,omitempty"`
	Rule          string          `json:"rule"`
}
