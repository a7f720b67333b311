package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/restock-cli/internal/model"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "restock.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func testMatches() []model.Match {
	return []model.Match{
		{
			FingerprintID: 1,
			InventoryID:   10,
			Type:          model.MatchKMBounded,
			Tier:          model.Tier1,
			Lane:          model.LanePrecision,
			Confidence:    model.ConfidenceExact,
			Action:        model.ActionBuy,
			Scope:         model.ScopeExecution,
			Score:         9.5,
			Rule:          "tier1_km_bounded",
		},
		{
			FingerprintID: 1,
			InventoryID:   11,
			Type:          model.MatchSpecOnly,
			Tier:          model.Tier2,
			Lane:          model.LaneAdvisory,
			Confidence:    model.ConfidenceProbable,
			Action:        model.ActionWatch,
			Scope:         model.ScopeExecution,
			Score:         6,
			DateUnknown:   true,
			Rule:          "tier2_spec_only",
		},
	}
}

func TestSQLiteStore_SavePassRoundTrip(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	pass := &model.EvaluationPass{
		Fingerprints:   3,
		Rows:           20,
		ExecutionRows:  12,
		VisibilityRows: 5,
		SkippedRows:    3,
		EvaluatedPairs: 51,
	}
	require.NoError(t, s.SavePass(ctx, pass, testMatches()))
	require.NotEmpty(t, pass.ID)
	assert.Equal(t, 2, pass.MatchCount)

	got, err := s.GetPass(ctx, pass.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, pass.Fingerprints, got.Fingerprints)
	assert.Equal(t, pass.EvaluatedPairs, got.EvaluatedPairs)
	assert.Equal(t, 2, got.MatchCount)
}

func TestSQLiteStore_GetMatches_PreservesOrder(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	pass := &model.EvaluationPass{Fingerprints: 1, Rows: 2}
	require.NoError(t, s.SavePass(ctx, pass, testMatches()))

	matches, err := s.GetMatches(ctx, pass.ID)
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, int64(10), matches[0].InventoryID)
	assert.Equal(t, model.Tier1, matches[0].Tier)
	assert.Equal(t, model.ActionBuy, matches[0].Action)
	assert.Equal(t, int64(11), matches[1].InventoryID)
	assert.True(t, matches[1].DateUnknown)
	assert.Equal(t, "tier2_spec_only", matches[1].Rule)
}

func TestSQLiteStore_GetPass_Absent(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	got, err := s.GetPass(context.Background(), "no-such-pass")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSQLiteStore_LatestPass(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	got, err := s.LatestPass(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)

	first := &model.EvaluationPass{Fingerprints: 1}
	require.NoError(t, s.SavePass(ctx, first, nil))
	second := &model.EvaluationPass{Fingerprints: 2}
	require.NoError(t, s.SavePass(ctx, second, nil))

	got, err = s.LatestPass(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 2, got.Fingerprints)
}

func TestSQLiteStore_ListPasses(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, s.SavePass(ctx, &model.EvaluationPass{Fingerprints: i + 1}, nil))
	}

	passes, err := s.ListPasses(ctx, 2)
	require.NoError(t, err)
	require.Len(t, passes, 2)
	assert.Equal(t, 3, passes[0].Fingerprints)

	passes, err = s.ListPasses(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, passes, 3)
}
