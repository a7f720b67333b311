package taxonomy

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/restock-cli/internal/db"
	"github.com/sells-group/restock-cli/internal/model"
)

// pool defines the minimal database pool interface used by Postgres.
type pool interface {
	db.Pool
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Ping(ctx context.Context) error
	Close()
}

// Postgres implements Repository against the shared taxonomy database.
type Postgres struct {
	pool pool
}

var _ Repository = (*Postgres)(nil)

// NewPostgres connects to the taxonomy database.
func NewPostgres(ctx context.Context, url string) (*Postgres, error) {
	p, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, eris.Wrap(err, "taxonomy: connect")
	}
	if err := p.Ping(ctx); err != nil {
		p.Close()
		return nil, eris.Wrap(err, "taxonomy: ping")
	}
	return &Postgres{pool: p}, nil
}

// Close releases the connection pool.
func (s *Postgres) Close() { s.pool.Close() }

// Seed upserts the fixture's contents into the shared taxonomy database.
// Unlike the SQLite backend it merges rather than replaces: other dealers'
// taxonomy rows are left untouched.
func (s *Postgres) Seed(ctx context.Context, fx *Fixture) error {
	modelRows := make([][]any, 0, len(fx.Models))
	for _, cm := range fx.Models {
		modelRows = append(modelRows, []any{cm.Make, cm.Canonical, cm.FamilyKey, cm.Aliases})
	}
	if _, err := db.BulkUpsert(ctx, s.pool, db.UpsertConfig{
		Table:        "taxonomy_models",
		Columns:      []string{"make", "canonical_model", "family_key", "aliases"},
		ConflictKeys: []string{"make", "canonical_model"},
	}, modelRows); err != nil {
		return eris.Wrap(err, "taxonomy: seed models")
	}

	variantRows := make([][]any, 0, len(fx.Variants))
	for _, vr := range fx.Variants {
		variantRows = append(variantRows, []any{vr.Make, vr.Model, vr.Canonical, vr.Aliases, vr.Rank})
	}
	if _, err := db.BulkUpsert(ctx, s.pool, db.UpsertConfig{
		Table:        "taxonomy_variants",
		Columns:      []string{"make", "model", "canonical_variant", "aliases", "rank"},
		ConflictKeys: []string{"make", "model", "canonical_variant"},
	}, variantRows); err != nil {
		return eris.Wrap(err, "taxonomy: seed variants")
	}

	var truthRows [][]any
	for _, st := range fx.SalesTruth {
		for _, rec := range st.Records {
			truthRows = append(truthRows, []any{st.DealerID, st.Make, st.FamilyKey, rec.Model, rec.Variant, rec.CountSold})
		}
	}
	if _, err := db.BulkUpsert(ctx, s.pool, db.UpsertConfig{
		Table:        "dealer_sales_truth",
		Columns:      []string{"dealer_id", "make", "family_key", "model", "variant", "count_sold"},
		ConflictKeys: []string{"dealer_id", "make", "family_key", "model", "variant"},
	}, truthRows); err != nil {
		return eris.Wrap(err, "taxonomy: seed sales truth")
	}

	return nil
}

// Models returns every canonical model for a make.
func (s *Postgres) Models(ctx context.Context, mk string) ([]model.CanonicalModel, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT make, canonical_model, family_key, aliases
		FROM taxonomy_models
		WHERE lower(make) = lower($1)
		ORDER BY canonical_model`, mk)
	if err != nil {
		return nil, eris.Wrap(err, "taxonomy: query models")
	}
	defer rows.Close()

	var out []model.CanonicalModel
	for rows.Next() {
		var cm model.CanonicalModel
		if err := rows.Scan(&cm.Make, &cm.Canonical, &cm.FamilyKey, &cm.Aliases); err != nil {
			return nil, eris.Wrap(err, "taxonomy: scan model")
		}
		out = append(out, cm)
	}
	return out, eris.Wrap(rows.Err(), "taxonomy: iterate models")
}

// VariantRanks returns variant rank rows for a make, optionally narrowed to
// one model.
func (s *Postgres) VariantRanks(ctx context.Context, mk, mdl string) ([]model.VariantRank, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT make, model, canonical_variant, aliases, rank
		FROM taxonomy_variants
		WHERE lower(make) = lower($1)
		  AND ($2 = '' OR lower(model) = lower($2))
		ORDER BY rank DESC`, mk, mdl)
	if err != nil {
		return nil, eris.Wrap(err, "taxonomy: query variants")
	}
	defer rows.Close()

	var out []model.VariantRank
	for rows.Next() {
		var vr model.VariantRank
		if err := rows.Scan(&vr.Make, &vr.Model, &vr.Canonical, &vr.Aliases, &vr.Rank); err != nil {
			return nil, eris.Wrap(err, "taxonomy: scan variant")
		}
		out = append(out, vr)
	}
	return out, eris.Wrap(rows.Err(), "taxonomy: iterate variants")
}

// DealerTruth returns a dealer's sold counts within a make family.
func (s *Postgres) DealerTruth(ctx context.Context, dealerID int64, mk, familyKey string) ([]model.SalesTruthRecord, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT model, variant, count_sold
		FROM dealer_sales_truth
		WHERE dealer_id = $1
		  AND lower(make) = lower($2)
		  AND lower(family_key) = lower($3)
		ORDER BY count_sold DESC`, dealerID, mk, familyKey)
	if err != nil {
		return nil, eris.Wrap(err, "taxonomy: query dealer truth")
	}
	defer rows.Close()

	var out []model.SalesTruthRecord
	for rows.Next() {
		var tr model.SalesTruthRecord
		if err := rows.Scan(&tr.Model, &tr.Variant, &tr.CountSold); err != nil {
			return nil, eris.Wrap(err, "taxonomy: scan dealer truth")
		}
		out = append(out, tr)
	}
	return out, eris.Wrap(rows.Err(), "taxonomy: iterate dealer truth")
}
