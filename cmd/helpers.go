package main

import (
	"context"
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"

	"github.com/sells-group/restock-cli/internal/config"
	"github.com/sells-group/restock-cli/internal/match"
	"github.com/sells-group/restock-cli/internal/normalize"
	"github.com/sells-group/restock-cli/internal/resilience"
	"github.com/sells-group/restock-cli/internal/taxonomy"
)

// openTaxonomy builds the configured taxonomy repository. The returned
// cleanup func is always safe to call.
func openTaxonomy(ctx context.Context, cfg *config.Config) (taxonomy.Repository, func(), error) {
	var (
		repo    taxonomy.Repository
		remote  bool
		cleanup = func() {}
	)

	switch cfg.Taxonomy.Driver {
	case "postgres":
		pg, err := taxonomy.NewPostgres(ctx, cfg.Taxonomy.DatabaseURL)
		if err != nil {
			return nil, cleanup, err
		}
		repo = pg
		remote = true
		cleanup = pg.Close
	case "sqlite":
		sl, err := taxonomy.NewSQLite(cfg.Taxonomy.SQLitePath)
		if err != nil {
			return nil, cleanup, err
		}
		if err := sl.Migrate(ctx); err != nil {
			sl.Close()
			return nil, func() {}, err
		}
		repo = sl
		cleanup = func() { sl.Close() } //nolint:errcheck
	case "fixture":
		fx, err := taxonomy.LoadFixture(cfg.Taxonomy.FixturePath)
		if err != nil {
			return nil, cleanup, err
		}
		repo = fx.Memory()
	default:
		return nil, cleanup, eris.Errorf("unknown taxonomy driver %q", cfg.Taxonomy.Driver)
	}

	if cfg.Taxonomy.RateLimit > 0 {
		repo = taxonomy.NewThrottled(repo, cfg.Taxonomy.RateLimit, cfg.Taxonomy.RateBurst)
	}
	if remote {
		retryCfg := resilience.DefaultRetryConfig()
		retryCfg.OnRetry = resilience.RetryLogger("taxonomy", "lookup")
		repo = taxonomy.NewRetrying(repo, retryCfg)
	}
	return repo, cleanup, nil
}

// newNormalizer builds the identity normalizer from config.
func newNormalizer(repo taxonomy.Repository, cfg *config.Config) *normalize.Normalizer {
	var opts []normalize.Option
	if len(cfg.Normalize.AmbiguousFamilies) > 0 {
		opts = append(opts, normalize.WithAmbiguousFamilies(cfg.Normalize.AmbiguousFamilies))
	}
	return normalize.New(repo, opts...)
}

// matchConfig maps the loaded configuration onto engine thresholds.
func matchConfig(cfg *config.Config) match.Config {
	mc := match.DefaultConfig()
	if cfg.Match.YearTolerance > 0 {
		mc.YearTolerance = cfg.Match.YearTolerance
	}
	if cfg.Match.WideYearTolerance > 0 {
		mc.WideYearTolerance = cfg.Match.WideYearTolerance
	}
	mc.LaxYearSources = cfg.Match.LaxYearSources
	mc.KMOmittedSources = cfg.Match.KMOmittedSources
	mc.FamilylessSources = cfg.Match.FamilylessSources
	if cfg.Match.Pressure.ConfidenceFloor > 0 {
		mc.Pressure.ConfidenceFloor = cfg.Match.Pressure.ConfidenceFloor
	}
	if cfg.Match.Pressure.MinPassCount > 0 {
		mc.Pressure.MinPassCount = cfg.Match.Pressure.MinPassCount
	}
	if cfg.Match.Pressure.MinDaysOnMarket > 0 {
		mc.Pressure.MinDaysOnMarket = cfg.Match.Pressure.MinDaysOnMarket
	}
	if cfg.Match.Pressure.MinPriceDrop > 0 {
		mc.Pressure.MinPriceDrop = cfg.Match.Pressure.MinPriceDrop
	}
	return mc
}

// readJSONFile unmarshals a JSON file into out.
func readJSONFile(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return eris.Wrapf(err, "read %s", path)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return eris.Wrapf(err, "unmarshal %s", path)
	}
	return nil
}

// printJSON writes v to stdout as indented JSON.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
