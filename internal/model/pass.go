package model

import "time"

// EvaluationPass summarizes one full match evaluation. Matches themselves are
// ephemeral derived values; passes exist so display and alerting layers can
// read the latest recomputed results without re-running the engine.
type EvaluationPass struct {
	ID             string    `json:"id"`
	CreatedAt      time.Time `json:"created_at"`
	Fingerprints   int       `json:"fingerprints"`
	Rows           int       `json:"rows"`
	ExecutionRows  int       `json:"execution_rows"`
	VisibilityRows int       `json:"visibility_rows"`
	SkippedRows    int       `json:"skipped_rows"`
	EvaluatedPairs int       `json:"evaluated_pairs"`
	MatchCount     int       `json:"match_count"`
}
