package taxonomy

import (
	"context"
	"database/sql"
	"strings"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/restock-cli/internal/model"
)

// SQLite implements Repository on a local modernc.org/sqlite database. It is
// the development backend and the target of `taxonomy load`.
type SQLite struct {
	db *sql.DB
}

var _ Repository = (*SQLite)(nil)

// NewSQLite opens a SQLite taxonomy database at the given path and configures
// WAL mode.
func NewSQLite(dsn string) (*SQLite, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "taxonomy: sqlite open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "taxonomy: sqlite exec %s", pragma)
		}
	}
	return &SQLite{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS taxonomy_models (
	make            TEXT NOT NULL,
	canonical_model TEXT NOT NULL,
	family_key      TEXT NOT NULL DEFAULT '',
	aliases         TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (make, canonical_model)
);

CREATE TABLE IF NOT EXISTS taxonomy_variants (
	make             TEXT NOT NULL,
	model            TEXT NOT NULL,
	canonical_variant TEXT NOT NULL,
	aliases          TEXT NOT NULL DEFAULT '',
	rank             INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (make, model, canonical_variant)
);

CREATE TABLE IF NOT EXISTS dealer_sales_truth (
	dealer_id  INTEGER NOT NULL,
	make       TEXT NOT NULL,
	family_key TEXT NOT NULL,
	model      TEXT NOT NULL,
	variant    TEXT NOT NULL DEFAULT '',
	count_sold INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (dealer_id, make, family_key, model, variant)
);

CREATE INDEX IF NOT EXISTS idx_models_make ON taxonomy_models(make);
CREATE INDEX IF NOT EXISTS idx_variants_make_model ON taxonomy_variants(make, model);
`

// Migrate creates the taxonomy tables if missing.
func (s *SQLite) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "taxonomy: sqlite migrate")
}

// Close closes the database.
func (s *SQLite) Close() error { return s.db.Close() }

// Seed replaces the stored taxonomy with the fixture's contents.
func (s *SQLite) Seed(ctx context.Context, fx *Fixture) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "taxonomy: sqlite begin")
	}
	defer tx.Rollback() //nolint:errcheck

	for _, tbl := range []string{"taxonomy_models", "taxonomy_variants", "dealer_sales_truth"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+tbl); err != nil {
			return eris.Wrapf(err, "taxonomy: sqlite clear %s", tbl)
		}
	}

	for _, cm := range fx.Models {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO taxonomy_models (make, canonical_model, family_key, aliases) VALUES (?, ?, ?, ?)`,
			cm.Make, cm.Canonical, cm.FamilyKey, joinAliases(cm.Aliases))
		if err != nil {
			return eris.Wrapf(err, "taxonomy: sqlite insert model %s %s", cm.Make, cm.Canonical)
		}
	}
	for _, vr := range fx.Variants {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO taxonomy_variants (make, model, canonical_variant, aliases, rank) VALUES (?, ?, ?, ?, ?)`,
			vr.Make, vr.Model, vr.Canonical, joinAliases(vr.Aliases), vr.Rank)
		if err != nil {
			return eris.Wrapf(err, "taxonomy: sqlite insert variant %s", vr.Canonical)
		}
	}
	for _, st := range fx.SalesTruth {
		for _, rec := range st.Records {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO dealer_sales_truth (dealer_id, make, family_key, model, variant, count_sold) VALUES (?, ?, ?, ?, ?, ?)`,
				st.DealerID, st.Make, st.FamilyKey, rec.Model, rec.Variant, rec.CountSold)
			if err != nil {
				return eris.Wrapf(err, "taxonomy: sqlite insert sales truth %s", rec.Model)
			}
		}
	}

	return eris.Wrap(tx.Commit(), "taxonomy: sqlite commit seed")
}

// Models returns every canonical model for a make.
func (s *SQLite) Models(ctx context.Context, mk string) ([]model.CanonicalModel, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT make, canonical_model, family_key, aliases
		FROM taxonomy_models
		WHERE lower(make) = lower(?)
		ORDER BY canonical_model`, mk)
	if err != nil {
		return nil, eris.Wrap(err, "taxonomy: sqlite query models")
	}
	defer rows.Close()

	var out []model.CanonicalModel
	for rows.Next() {
		var cm model.CanonicalModel
		var aliases string
		if err := rows.Scan(&cm.Make, &cm.Canonical, &cm.FamilyKey, &aliases); err != nil {
			return nil, eris.Wrap(err, "taxonomy: sqlite scan model")
		}
		cm.Aliases = splitAliases(aliases)
		out = append(out, cm)
	}
	return out, eris.Wrap(rows.Err(), "taxonomy: sqlite iterate models")
}

// VariantRanks returns variant rank rows for a make, optionally narrowed to
// one model.
func (s *SQLite) VariantRanks(ctx context.Context, mk, mdl string) ([]model.VariantRank, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT make, model, canonical_variant, aliases, rank
		FROM taxonomy_variants
		WHERE lower(make) = lower(?)
		  AND (? = '' OR lower(model) = lower(?))
		ORDER BY rank DESC`, mk, mdl, mdl)
	if err != nil {
		return nil, eris.Wrap(err, "taxonomy: sqlite query variants")
	}
	defer rows.Close()

	var out []model.VariantRank
	for rows.Next() {
		var vr model.VariantRank
		var aliases string
		if err := rows.Scan(&vr.Make, &vr.Model, &vr.Canonical, &aliases, &vr.Rank); err != nil {
			return nil, eris.Wrap(err, "taxonomy: sqlite scan variant")
		}
		vr.Aliases = splitAliases(aliases)
		out = append(out, vr)
	}
	return out, eris.Wrap(rows.Err(), "taxonomy: sqlite iterate variants")
}

// DealerTruth returns a dealer's sold counts within a make family.
func (s *SQLite) DealerTruth(ctx context.Context, dealerID int64, mk, familyKey string) ([]model.SalesTruthRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT model, variant, count_sold
		FROM dealer_sales_truth
		WHERE dealer_id = ?
		  AND lower(make) = lower(?)
		  AND lower(family_key) = lower(?)
		ORDER BY count_sold DESC`, dealerID, mk, familyKey)
	if err != nil {
		return nil, eris.Wrap(err, "taxonomy: sqlite query dealer truth")
	}
	defer rows.Close()

	var out []model.SalesTruthRecord
	for rows.Next() {
		var tr model.SalesTruthRecord
		if err := rows.Scan(&tr.Model, &tr.Variant, &tr.CountSold); err != nil {
			return nil, eris.Wrap(err, "taxonomy: sqlite scan dealer truth")
		}
		out = append(out, tr)
	}
	return out, eris.Wrap(rows.Err(), "taxonomy: sqlite iterate dealer truth")
}

// Aliases are stored as a pipe-joined list; none of the taxonomy sources use
// the pipe character in alias text.
func joinAliases(aliases []string) string { return strings.Join(aliases, "|") }

func splitAliases(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, "|")
}
