package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/restock-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "store: sqlite open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "store: sqlite exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS evaluation_passes (
	id              TEXT PRIMARY KEY,
	created_at      DATETIME NOT NULL DEFAULT (datetime('now')),
	fingerprints    INTEGER NOT NULL,
	rows_total      INTEGER NOT NULL,
	execution_rows  INTEGER NOT NULL,
	visibility_rows INTEGER NOT NULL,
	skipped_rows    INTEGER NOT NULL,
	evaluated_pairs INTEGER NOT NULL,
	match_count     INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS pass_matches (
	pass_id        TEXT NOT NULL REFERENCES evaluation_passes(id),
	position       INTEGER NOT NULL,
	fingerprint_id INTEGER NOT NULL,
	inventory_id   INTEGER NOT NULL,
	match_type     TEXT NOT NULL,
	tier           INTEGER NOT NULL,
	lane           TEXT NOT NULL,
	confidence     TEXT NOT NULL,
	action         TEXT NOT NULL,
	scope          TEXT NOT NULL,
	score          REAL NOT NULL,
	date_unknown   INTEGER NOT NULL DEFAULT 0,
	rule           TEXT NOT NULL,
	PRIMARY KEY (pass_id, position)
);

CREATE INDEX IF NOT EXISTS idx_passes_created_at ON evaluation_passes(created_at);
CREATE INDEX IF NOT EXISTS idx_pass_matches_fingerprint ON pass_matches(fingerprint_id);
`

// Migrate creates the snapshot tables if missing.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "store: sqlite migrate")
}

// Close closes the database.
func (s *SQLiteStore) Close() error { return s.db.Close() }

// SavePass stores a pass and its ordered matches in one transaction. The
// pass ID and timestamp are assigned here. Match position preserves the
// engine's presentation ordering.
func (s *SQLiteStore) SavePass(ctx context.Context, pass *model.EvaluationPass, matches []model.Match) error {
	pass.ID = uuid.New().String()
	pass.CreatedAt = time.Now().UTC()
	pass.MatchCount = len(matches)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "store: begin")
	}
	defer tx.Rollback() //nolint:errcheck

	_, err = tx.ExecContext(ctx, `
		INSERT INTO evaluation_passes
			(id, created_at, fingerprints, rows_total, execution_rows, visibility_rows, skipped_rows, evaluated_pairs, match_count)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		pass.ID, pass.CreatedAt, pass.Fingerprints, pass.Rows,
		pass.ExecutionRows, pass.VisibilityRows, pass.SkippedRows,
		pass.EvaluatedPairs, pass.MatchCount,
	)
	if err != nil {
		return eris.Wrap(err, "store: insert pass")
	}

	for i, m := range matches {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO pass_matches
				(pass_id, position, fingerprint_id, inventory_id, match_type, tier, lane, confidence, action, scope, score, date_unknown, rule)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			pass.ID, i, m.FingerprintID, m.InventoryID, string(m.Type), int(m.Tier),
			string(m.Lane), string(m.Confidence), string(m.Action), string(m.Scope),
			m.Score, boolToInt(m.DateUnknown), m.Rule,
		)
		if err != nil {
			return eris.Wrapf(err, "store: insert match %d", i)
		}
	}

	return eris.Wrap(tx.Commit(), "store: commit pass")
}

const passColumns = `id, created_at, fingerprints, rows_total, execution_rows, visibility_rows, skipped_rows, evaluated_pairs, match_count`

// GetPass fetches a pass by ID, or nil when absent.
func (s *SQLiteStore) GetPass(ctx context.Context, id string) (*model.EvaluationPass, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+passColumns+` FROM evaluation_passes WHERE id = ?`, id)
	return scanPass(row)
}

// LatestPass fetches the most recent pass, or nil when none exist.
func (s *SQLiteStore) LatestPass(ctx context.Context) (*model.EvaluationPass, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+passColumns+` FROM evaluation_passes ORDER BY created_at DESC, id DESC LIMIT 1`)
	return scanPass(row)
}

// ListPasses returns passes newest first.
func (s *SQLiteStore) ListPasses(ctx context.Context, limit int) ([]model.EvaluationPass, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+passColumns+` FROM evaluation_passes ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, eris.Wrap(err, "store: list passes")
	}
	defer rows.Close()

	var out []model.EvaluationPass
	for rows.Next() {
		var p model.EvaluationPass
		if err := rows.Scan(&p.ID, &p.CreatedAt, &p.Fingerprints, &p.Rows,
			&p.ExecutionRows, &p.VisibilityRows, &p.SkippedRows,
			&p.EvaluatedPairs, &p.MatchCount); err != nil {
			return nil, eris.Wrap(err, "store: scan pass")
		}
		out = append(out, p)
	}
	return out, eris.Wrap(rows.Err(), "store: iterate passes")
}

// GetMatches returns a pass's matches in stored (presentation) order.
func (s *SQLiteStore) GetMatches(ctx context.Context, passID string) ([]model.Match, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT fingerprint_id, inventory_id, match_type, tier, lane, confidence, action, scope, score, date_unknown, rule
		FROM pass_matches
		WHERE pass_id = ?
		ORDER BY position`, passID)
	if err != nil {
		return nil, eris.Wrap(err, "store: query matches")
	}
	defer rows.Close()

	var out []model.Match
	for rows.Next() {
		var m model.Match
		var matchType, lane, confidence, action, scope string
		var tier, dateUnknown int
		if err := rows.Scan(&m.FingerprintID, &m.InventoryID, &matchType, &tier,
			&lane, &confidence, &action, &scope, &m.Score, &dateUnknown, &m.Rule); err != nil {
			return nil, eris.Wrap(err, "store: scan match")
		}
		m.Type = model.MatchType(matchType)
		m.Tier = model.Tier(tier)
		m.Lane = model.Lane(lane)
		m.Confidence = model.MatchConfidence(confidence)
		m.Action = model.Action(action)
		m.Scope = model.Scope(scope)
		m.DateUnknown = dateUnknown != 0
		out = append(out, m)
	}
	return out, eris.Wrap(rows.Err(), "store: iterate matches")
}

func scanPass(row *sql.Row) (*model.EvaluationPass, error) {
	var p model.EvaluationPass
	err := row.Scan(&p.ID, &p.CreatedAt, &p.Fingerprints, &p.Rows,
		&p.ExecutionRows, &p.VisibilityRows, &p.SkippedRows,
		&p.EvaluatedPairs, &p.MatchCount)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "store: scan pass")
	}
	return &p, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
