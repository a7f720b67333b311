package taxonomy

import (
	"context"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/sells-group/restock-cli/internal/model"
)

// Throttled wraps a Repository with a rate limiter. Remote taxonomy stores
// sit behind shared connection quotas; batch normalization fans out lookups
// and must not exhaust them.
type Throttled struct {
	inner   Repository
	limiter *rate.Limiter
}

var _ Repository = (*Throttled)(nil)

// NewThrottled wraps repo so that at most rps lookups per second are issued,
// with the given burst.
func NewThrottled(repo Repository, rps float64, burst int) *Throttled {
	return &Throttled{
		inner:   repo,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

// Models returns every canonical model for a make.
func (t *Throttled) Models(ctx context.Context, mk string) ([]model.CanonicalModel, error) {
	if err := t.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "taxonomy: throttle wait")
	}
	return t.inner.Models(ctx, mk)
}

// VariantRanks returns variant rank rows for a make+model.
func (t *Throttled) VariantRanks(ctx context.Context, mk, mdl string) ([]model.VariantRank, error) {
	if err := t.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "taxonomy: throttle wait")
	}
	return t.inner.VariantRanks(ctx, mk, mdl)
}

// DealerTruth returns a dealer's sold counts within a make family.
func (t *Throttled) DealerTruth(ctx context.Context, dealerID int64, mk, familyKey string) ([]model.SalesTruthRecord, error) {
	if err := t.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "taxonomy: throttle wait")
	}
	return t.inner.DealerTruth(ctx, dealerID, mk, familyKey)
}
