// Package store caches evaluation pass results for display and alerting
// layers. The matching core treats matches as pure derived values; this store
// is a cache of the most recent recomputation, never authoritative state.
package store

import (
	"context"

	"github.com/sells-group/restock-cli/internal/model"
)

// Store persists evaluation passes and their matches.
type Store interface {
	SavePass(ctx context.Context, pass *model.EvaluationPass, matches []model.Match) error
	GetPass(ctx context.Context, id string) (*model.EvaluationPass, error)
	LatestPass(ctx context.Context) (*model.EvaluationPass, error)
	ListPasses(ctx context.Context, limit int) ([]model.EvaluationPass, error)
	GetMatches(ctx context.Context, passID string) ([]model.Match, error)

	Migrate(ctx context.Context) error
	Close() error
}
