package match

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/restock-cli/internal/model"
)

func intPtr(v int) *int { return &v }

// hiluxFingerprint is the reference full fingerprint: Toyota Hilux SR5 2022,
// 30000-60000 km.
func hiluxFingerprint() model.Fingerprint {
	return model.Fingerprint{
		ID:                10,
		DealerID:          7,
		Make:              "Toyota",
		Model:             "Hilux",
		VariantNormalised: "SR5",
		VariantFamily:     "hilux-sr",
		Year:              2022,
		MinKM:             intPtr(30000),
		MaxKM:             intPtr(60000),
		IsActive:          true,
	}
}

func hiluxRow() model.InventoryRow {
	return model.InventoryRow{
		ID:                100,
		Make:              "Toyota",
		Model:             "Hilux",
		VariantNormalised: "SR5",
		VariantFamily:     "hilux-sr",
		Year:              2022,
		KM:                intPtr(45000),
		KMConfirmed:       true,
		Status:            model.StatusListed,
		SourceName:        "manheim",
		SourceType:        model.SourceAuction,
		VisibleToDealers:  true,
		ConfidenceScore:   5,
	}
}

func execPair(fp model.Fingerprint, row model.InventoryRow, cfg Config) pair {
	return pair{fp: fp, row: row, scope: model.ScopeExecution, now: testNow, cfg: cfg}
}

func TestLadder_Tier1KMBounded(t *testing.T) {
	t.Parallel()

	m, ok := evaluatePair(execPair(hiluxFingerprint(), hiluxRow(), DefaultConfig()))
	require.True(t, ok)

	assert.Equal(t, model.Tier1, m.Tier)
	assert.Equal(t, model.LanePrecision, m.Lane)
	assert.Equal(t, model.MatchKMBounded, m.Type)
	assert.Equal(t, model.ConfidenceExact, m.Confidence)
	assert.Equal(t, "tier1_km_bounded", m.Rule)
}

func TestLadder_KMAbsentFallsThroughToSpecOnly(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.KMOmittedSources = []string{"grays"}

	row := hiluxRow()
	row.KM = nil
	row.KMConfirmed = false
	row.SourceName = "grays"

	m, ok := evaluatePair(execPair(hiluxFingerprint(), row, cfg))
	require.True(t, ok)

	assert.Equal(t, model.Tier2, m.Tier)
	assert.Equal(t, model.LaneProbable, m.Lane)
	assert.Equal(t, model.MatchSpecOnly, m.Type)
	assert.Equal(t, model.ConfidenceProbable, m.Confidence)
}

func TestLadder_KMAbsentUnknownSourceFallsToFamily(t *testing.T) {
	t.Parallel()

	// Without the km-omitted quirk the pair is not rescued by the
	// spec-only fallthrough, but Tier-2 family still applies.
	row := hiluxRow()
	row.KM = nil
	row.KMConfirmed = false

	m, ok := evaluatePair(execPair(hiluxFingerprint(), row, DefaultConfig()))
	require.True(t, ok)

	assert.Equal(t, model.Tier2, m.Tier)
	assert.Equal(t, model.MatchVariantFamily, m.Type)
}

func TestLadder_KMOutOfRangeStillTier2(t *testing.T) {
	t.Parallel()

	// Failed Tier-1 on km continues into Tier-2 evaluation independently.
	row := hiluxRow()
	row.KM = intPtr(95000)

	m, ok := evaluatePair(execPair(hiluxFingerprint(), row, DefaultConfig()))
	require.True(t, ok)

	assert.Equal(t, model.Tier2, m.Tier)
	assert.Equal(t, model.MatchVariantFamily, m.Type)
	assert.Equal(t, "tier2_variant_family", m.Rule)
}

func TestLadder_TransmissionMismatchStillTier2(t *testing.T) {
	t.Parallel()

	fp := hiluxFingerprint()
	fp.Transmission = "manual"
	row := hiluxRow()
	row.Transmission = "auto"

	m, ok := evaluatePair(execPair(fp, row, DefaultConfig()))
	require.True(t, ok)

	assert.Equal(t, model.Tier2, m.Tier)
	assert.Equal(t, model.MatchVariantFamily, m.Type)
}

func TestLadder_SpecOnlyFingerprintCapsAtTier2(t *testing.T) {
	t.Parallel()

	fp := hiluxFingerprint()
	fp.MinKM = nil
	fp.MaxKM = nil

	// Variant exactness is irrelevant: no km bounds means exactness
	// cannot be verified.
	m, ok := evaluatePair(execPair(fp, hiluxRow(), DefaultConfig()))
	require.True(t, ok)

	assert.Equal(t, model.Tier2, m.Tier)
	assert.Equal(t, model.LaneAdvisory, m.Lane)
	assert.Equal(t, model.MatchSpecOnly, m.Type)
	assert.Equal(t, model.ConfidenceProbable, m.Confidence)
}

func TestLadder_YearTolerance(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		rowYear   int
		laxSource bool
		wantMatch bool
	}{
		{"within normal tolerance", 2021, false, true},
		{"beyond normal tolerance", 2019, false, false},
		{"beyond normal, lax source grants 4", 2019, true, true},
		{"beyond even lax tolerance", 2017, true, false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := DefaultConfig()
			row := hiluxRow()
			row.Year = tt.rowYear
			if tt.laxSource {
				cfg.LaxYearSources = []string{row.SourceName}
			}

			_, ok := evaluatePair(execPair(hiluxFingerprint(), row, cfg))
			assert.Equal(t, tt.wantMatch, ok)
		})
	}
}

func TestLadder_UnknownYearNeverRejects(t *testing.T) {
	t.Parallel()

	row := hiluxRow()
	row.Year = 0

	m, ok := evaluatePair(execPair(hiluxFingerprint(), row, DefaultConfig()))
	require.True(t, ok)
	assert.Equal(t, model.Tier1, m.Tier)
}

func TestLadder_Preconditions(t *testing.T) {
	t.Parallel()

	expired := testNow.AddDate(0, 0, -1)

	tests := []struct {
		name   string
		mutate func(*model.Fingerprint, *model.InventoryRow)
	}{
		{"inactive fingerprint", func(fp *model.Fingerprint, _ *model.InventoryRow) { fp.IsActive = false }},
		{"do not buy", func(fp *model.Fingerprint, _ *model.InventoryRow) { fp.DoNotBuy = true }},
		{"expired fingerprint", func(fp *model.Fingerprint, _ *model.InventoryRow) { fp.ExpiresAt = &expired }},
		{"excluded row", func(_ *model.Fingerprint, row *model.InventoryRow) { row.ExcludedReason = "duplicate" }},
		{"sold row", func(_ *model.Fingerprint, row *model.InventoryRow) { row.Status = model.StatusSold }},
		{"withdrawn row", func(_ *model.Fingerprint, row *model.InventoryRow) { row.Status = model.StatusWithdrawn }},
		{"make mismatch", func(_ *model.Fingerprint, row *model.InventoryRow) { row.Make = "Ford" }},
		{"model mismatch", func(_ *model.Fingerprint, row *model.InventoryRow) { row.Model = "Ranger" }},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			fp := hiluxFingerprint()
			row := hiluxRow()
			tt.mutate(&fp, &row)

			_, ok := evaluatePair(execPair(fp, row, DefaultConfig()))
			assert.False(t, ok)
		})
	}
}

func TestLadder_IdentityFoldsCaseAndWhitespace(t *testing.T) {
	t.Parallel()

	fp := hiluxFingerprint()
	fp.Make = "  TOYOTA "
	fp.VariantNormalised = "sr5"

	m, ok := evaluatePair(execPair(fp, hiluxRow(), DefaultConfig()))
	require.True(t, ok)
	assert.Equal(t, model.Tier1, m.Tier)
}

func TestLadder_FamilyFallbackSource(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.FamilylessSources = []string{"pickles"}

	fp := hiluxFingerprint()
	fp.MinKM, fp.MaxKM = nil, nil
	fp.VariantNormalised = "SR5"
	fp.VariantFamily = ""

	row := hiluxRow()
	row.SourceName = "pickles"
	row.VariantNormalised = ""
	row.VariantFamily = ""

	m, ok := evaluatePair(execPair(fp, row, cfg))
	require.True(t, ok)

	assert.Equal(t, model.Tier2, m.Tier)
	assert.Equal(t, "tier2_family_fallback", m.Rule)
}

func TestLadder_NoFamilyNoFallbackNoMatch(t *testing.T) {
	t.Parallel()

	fp := hiluxFingerprint()
	fp.MinKM, fp.MaxKM = nil, nil
	fp.VariantNormalised = "SR5"
	fp.VariantFamily = ""

	row := hiluxRow()
	row.VariantNormalised = ""
	row.VariantFamily = ""

	_, ok := evaluatePair(execPair(fp, row, DefaultConfig()))
	assert.False(t, ok)
}

func TestLadder_VisibilityScopeNeverTier1(t *testing.T) {
	t.Parallel()

	p := execPair(hiluxFingerprint(), hiluxRow(), DefaultConfig())
	p.scope = model.ScopeVisibility

	m, ok := evaluatePair(p)
	require.True(t, ok)

	assert.Equal(t, model.Tier2, m.Tier)
	assert.Equal(t, model.ConfidenceProbable, m.Confidence)
}

func TestFingerprintExpiryBoundary(t *testing.T) {
	t.Parallel()

	fp := hiluxFingerprint()
	later := testNow.Add(time.Minute)
	fp.ExpiresAt = &later

	_, ok := evaluatePair(execPair(fp, hiluxRow(), DefaultConfig()))
	assert.True(t, ok)
}
