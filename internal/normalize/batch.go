package normalize

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/restock-cli/internal/model"
)

// defaultConcurrency limits parallel taxonomy lookups during batch
// normalization.
const defaultConcurrency = 8

// Batch resolves many inputs concurrently. Results are returned in input
// order; individual resolutions never fail the batch (each degrades to its
// own fallback). The only returned error is context cancellation.
func (n *Normalizer) Batch(ctx context.Context, inputs []model.NormalizeInput, concurrency int) ([]model.NormalizeResult, error) {
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}

	results := make([]model.NormalizeResult, len(inputs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, in := range inputs {
		i, in := i, in
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}
			results[i] = n.Resolve(gctx, in)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	zap.L().Debug("normalize: batch complete",
		zap.Int("inputs", len(inputs)),
		zap.Int("concurrency", concurrency),
	)
	return results, nil
}
