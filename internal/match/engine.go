package match

import (
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/restock-cli/internal/model"
)

// Engine runs full evaluation passes: scope partitioning, the rule ladder
// over every in-scope pair, pressure gating, and the presentation sort. The
// engine is pure; every pass recomputes from scratch over the two collections
// it is handed.
type Engine struct {
	cfg Config
	now func() time.Time
}

// NewEngine creates an Engine with the given thresholds.
func NewEngine(cfg Config) *Engine {
	return &Engine{cfg: cfg, now: time.Now}
}

// WithClock overrides the engine's clock; tests pin evaluation time with it.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

// Result is the outcome of one evaluation pass.
type Result struct {
	Matches        []model.Match
	ExecutionRows  int
	VisibilityRows int
	SkippedRows    int
	EvaluatedPairs int
}

// Evaluate matches every fingerprint against every scoped row. Execution
// rows may yield Tier-1 or Tier-2; visibility rows are forced to Tier-2 by
// construction (the Tier-1 rule only applies in execution scope).
func (e *Engine) Evaluate(fingerprints []model.Fingerprint, rows []model.InventoryRow) Result {
	now := e.now()
	scopes := Partition(rows, now)

	res := Result{
		ExecutionRows:  len(scopes.Execution),
		VisibilityRows: len(scopes.Visibility),
		SkippedRows:    scopes.Skipped,
	}

	rowByID := make(map[int64]model.InventoryRow, len(rows))
	auctionAt := make(map[int64]*time.Time, len(rows))
	for _, row := range rows {
		rowByID[row.ID] = row
		auctionAt[row.ID] = row.AuctionAt
	}

	evaluate := func(scope model.Scope, scoped []model.InventoryRow) {
		for _, row := range scoped {
			for _, fp := range fingerprints {
				res.EvaluatedPairs++
				m, ok := evaluatePair(pair{
					fp:          fp,
					row:         row,
					scope:       scope,
					dateUnknown: scopes.DateUnknown[row.ID],
					now:         now,
					cfg:         e.cfg,
				})
				if !ok {
					continue
				}
				m.Action = e.cfg.Pressure.Evaluate(m, row)
				res.Matches = append(res.Matches, m)
			}
		}
	}

	evaluate(model.ScopeExecution, scopes.Execution)
	evaluate(model.ScopeVisibility, scopes.Visibility)

	sortMatches(res.Matches, auctionAt)

	zap.L().Info("match: evaluation pass complete",
		zap.Int("fingerprints", len(fingerprints)),
		zap.Int("rows", len(rows)),
		zap.Int("pairs", res.EvaluatedPairs),
		zap.Int("matches", len(res.Matches)),
	)
	return res
}
