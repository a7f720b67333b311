package taxonomy

import (
	"context"

	"github.com/sells-group/restock-cli/internal/model"
	"github.com/sells-group/restock-cli/internal/resilience"
)

// Retrying wraps a Repository so transient lookup failures are retried with
// backoff. Layered outside Throttled so retries respect the rate limit.
type Retrying struct {
	inner Repository
	cfg   resilience.RetryConfig
}

var _ Repository = (*Retrying)(nil)

// NewRetrying wraps repo with the given retry policy.
func NewRetrying(repo Repository, cfg resilience.RetryConfig) *Retrying {
	return &Retrying{inner: repo, cfg: cfg}
}

// Models returns every canonical model for a make.
func (r *Retrying) Models(ctx context.Context, mk string) ([]model.CanonicalModel, error) {
	return resilience.DoVal(ctx, r.cfg, func(ctx context.Context) ([]model.CanonicalModel, error) {
		return r.inner.Models(ctx, mk)
	})
}

// VariantRanks returns variant rank rows for a make+model.
func (r *Retrying) VariantRanks(ctx context.Context, mk, mdl string) ([]model.VariantRank, error) {
	return resilience.DoVal(ctx, r.cfg, func(ctx context.Context) ([]model.VariantRank, error) {
		return r.inner.VariantRanks(ctx, mk, mdl)
	})
}

// DealerTruth returns a dealer's sold counts within a make family.
func (r *Retrying) DealerTruth(ctx context.Context, dealerID int64, mk, familyKey string) ([]model.SalesTruthRecord, error) {
	return resilience.DoVal(ctx, r.cfg, func(ctx context.Context) ([]model.SalesTruthRecord, error) {
		return r.inner.DealerTruth(ctx, dealerID, mk, familyKey)
	})
}
