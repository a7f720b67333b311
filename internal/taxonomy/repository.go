// Package taxonomy provides read access to the canonical vehicle reference
// data consumed by identity resolution: model lists, variant rank tables, and
// per-dealer sales-truth counts.
package taxonomy

import (
	"context"

	"github.com/sells-group/restock-cli/internal/model"
)

// Repository abstracts taxonomy reads so any backing store (in-memory map,
// Postgres, SQLite) satisfies the contract. All methods are read-only and
// idempotent; callers may issue them concurrently.
type Repository interface {
	// Models returns every canonical model for a make.
	Models(ctx context.Context, mk string) ([]model.CanonicalModel, error)

	// VariantRanks returns variant rank rows scoped to a make, optionally
	// narrowed to one model (empty mdl means all models for the make).
	VariantRanks(ctx context.Context, mk, mdl string) ([]model.VariantRank, error)

	// DealerTruth returns a dealer's historical sold counts within a make
	// family.
	DealerTruth(ctx context.Context, dealerID int64, mk, familyKey string) ([]model.SalesTruthRecord, error)
}
