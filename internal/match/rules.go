package match

import (
	"strings"
	"time"

	"github.com/sells-group/restock-cli/internal/model"
)

// pair is one (fingerprint, inventory row) evaluation within a scope.
type pair struct {
	fp          model.Fingerprint
	row         model.InventoryRow
	scope       model.Scope
	dateUnknown bool
	now         time.Time
	cfg         Config
}

// verdict is a rule's decision about a pair.
type verdict int

const (
	// verdictSkip: the rule does not apply; continue down the ladder.
	verdictSkip verdict = iota
	// verdictReject: hard precondition failure, stop with no match.
	verdictReject
	// verdictMatch: the rule produced a match; stop.
	verdictMatch
)

// rule is one named step of the ladder. The ladder's order is the rule
// precedence: preconditions first, then Tier-1, then Tier-2. Keeping the
// precedence as data makes each rule independently testable.
type rule struct {
	name string
	eval func(p pair) (verdict, model.Match)
}

// ladder is evaluated top to bottom for every pair. A failed Tier-1 check
// does not short-circuit: the pair continues into Tier-2 evaluation on its
// own terms.
var ladder = []rule{
	{name: "fingerprint_ineligible", eval: fingerprintIneligible},
	{name: "row_unmatchable", eval: rowUnmatchable},
	{name: "identity_mismatch", eval: identityMismatch},
	{name: "year_out_of_tolerance", eval: yearOutOfTolerance},
	{name: "tier1_km_bounded", eval: tier1KMBounded},
	{name: "tier1_km_unobserved", eval: tier1KMUnobserved},
	{name: "tier2_spec_only", eval: tier2SpecOnly},
	{name: "tier2_variant_family", eval: tier2VariantFamily},
	{name: "tier2_family_fallback", eval: tier2FamilyFallback},
}

// evaluatePair runs the ladder and returns the first match produced, if any.
func evaluatePair(p pair) (model.Match, bool) {
	for _, r := range ladder {
		v, m := r.eval(p)
		switch v {
		case verdictReject:
			return model.Match{}, false
		case verdictMatch:
			m.Rule = r.name
			return m, true
		}
	}
	return model.Match{}, false
}

func fingerprintIneligible(p pair) (verdict, model.Match) {
	if !p.fp.Eligible(p.now) {
		return verdictReject, model.Match{}
	}
	return verdictSkip, model.Match{}
}

func rowUnmatchable(p pair) (verdict, model.Match) {
	if !p.row.Matchable() {
		return verdictReject, model.Match{}
	}
	return verdictSkip, model.Match{}
}

func identityMismatch(p pair) (verdict, model.Match) {
	if !p.fp.SameIdentity(p.row.Make, p.row.Model) {
		return verdictReject, model.Match{}
	}
	return verdictSkip, model.Match{}
}

// yearOutOfTolerance rejects pairs whose years differ beyond tolerance. An
// unknown year on either side is never grounds for rejection.
func yearOutOfTolerance(p pair) (verdict, model.Match) {
	if p.fp.Year == 0 || p.row.Year == 0 {
		return verdictSkip, model.Match{}
	}
	tol := p.cfg.YearTolerance
	if p.cfg.laxYearSource(p.row.SourceName) {
		tol = p.cfg.WideYearTolerance
	}
	diff := p.fp.Year - p.row.Year
	if diff < 0 {
		diff = -diff
	}
	if diff > tol {
		return verdictReject, model.Match{}
	}
	return verdictSkip, model.Match{}
}

// tier1KMBounded is the only rule that can produce a Tier-1 match: execution
// scope, a full km range on the fingerprint, exact variant text, compatible
// specs, and a confirmed km reading inside the range.
func tier1KMBounded(p pair) (verdict, model.Match) {
	if p.scope != model.ScopeExecution || p.fp.SpecOnly() {
		return verdictSkip, model.Match{}
	}
	if !variantExact(p.fp, p.row) || !specsCompatible(p.fp, p.row) {
		return verdictSkip, model.Match{}
	}
	if p.row.KM == nil || !p.row.KMConfirmed {
		return verdictSkip, model.Match{}
	}
	if *p.row.KM < *p.fp.MinKM || *p.row.KM > *p.fp.MaxKM {
		return verdictSkip, model.Match{}
	}
	return verdictMatch, newMatch(p, model.Match{
		Type:       model.MatchKMBounded,
		Tier:       model.Tier1,
		Lane:       model.LanePrecision,
		Confidence: model.ConfidenceExact,
	})
}

// tier1KMUnobserved: a Tier-1 candidate whose row has no confirmed km is not
// a Tier-1 miss when the source is known to omit km; it becomes a spec-only
// Tier-2 match so the fingerprint is not silently dropped over one
// unobservable field.
func tier1KMUnobserved(p pair) (verdict, model.Match) {
	if p.scope != model.ScopeExecution || p.fp.SpecOnly() {
		return verdictSkip, model.Match{}
	}
	if p.row.KM != nil && p.row.KMConfirmed {
		return verdictSkip, model.Match{}
	}
	if !p.cfg.kmOmittedSource(p.row.SourceName) {
		return verdictSkip, model.Match{}
	}
	if !variantExact(p.fp, p.row) || !specsCompatible(p.fp, p.row) {
		return verdictSkip, model.Match{}
	}
	return verdictMatch, newMatch(p, model.Match{
		Type:       model.MatchSpecOnly,
		Tier:       model.Tier2,
		Lane:       model.LaneProbable,
		Confidence: model.ConfidenceProbable,
	})
}

// tier2SpecOnly matches spec-only fingerprints on exact variant text and
// compatible specs. km is never checked and the result is capped at Tier-2
// because exactness cannot be verified without km bounds. Exact-variant
// spec-only matches land in the Advisory lane.
func tier2SpecOnly(p pair) (verdict, model.Match) {
	if !p.fp.SpecOnly() {
		return verdictSkip, model.Match{}
	}
	if !variantExact(p.fp, p.row) || !specsCompatible(p.fp, p.row) {
		return verdictSkip, model.Match{}
	}
	return verdictMatch, newMatch(p, model.Match{
		Type:       model.MatchSpecOnly,
		Tier:       model.Tier2,
		Lane:       model.LaneAdvisory,
		Confidence: model.ConfidenceProbable,
	})
}

// tier2VariantFamily matches on the precomputed variant-family tags. Family
// is never derived during matching; backfill owns derivation.
func tier2VariantFamily(p pair) (verdict, model.Match) {
	if p.fp.VariantFamily == "" || p.row.VariantFamily == "" {
		return verdictSkip, model.Match{}
	}
	if !strings.EqualFold(strings.TrimSpace(p.fp.VariantFamily), strings.TrimSpace(p.row.VariantFamily)) {
		return verdictSkip, model.Match{}
	}
	return verdictMatch, newMatch(p, model.Match{
		Type:       model.MatchVariantFamily,
		Tier:       model.Tier2,
		Lane:       model.LaneProbable,
		Confidence: model.ConfidenceProbable,
	})
}

// tier2FamilyFallback accepts make+model+year alone for sources known to
// frequently omit variant-family data.
func tier2FamilyFallback(p pair) (verdict, model.Match) {
	if !p.cfg.familylessSource(p.row.SourceName) {
		return verdictSkip, model.Match{}
	}
	return verdictMatch, newMatch(p, model.Match{
		Type:       model.MatchVariantFamily,
		Tier:       model.Tier2,
		Lane:       model.LaneProbable,
		Confidence: model.ConfidenceProbable,
	})
}

// newMatch fills the pair-derived fields shared by every outcome.
func newMatch(p pair, m model.Match) model.Match {
	m.FingerprintID = p.fp.ID
	m.InventoryID = p.row.ID
	m.Scope = p.scope
	m.Score = p.row.ConfidenceScore
	m.DateUnknown = p.dateUnknown
	m.Action = model.ActionWatch
	return m
}

// variantExact compares normalized variant text, ignoring case and
// surrounding whitespace.
func variantExact(fp model.Fingerprint, row model.InventoryRow) bool {
	return strings.EqualFold(
		strings.TrimSpace(fp.VariantNormalised),
		strings.TrimSpace(row.VariantNormalised),
	)
}

// specsCompatible checks engine, drivetrain and transmission: absent on
// either side passes, present on both sides must agree.
func specsCompatible(fp model.Fingerprint, row model.InventoryRow) bool {
	return fieldCompatible(fp.Engine, row.Engine) &&
		fieldCompatible(fp.Drivetrain, row.Drivetrain) &&
		fieldCompatible(fp.Transmission, row.Transmission)
}

func fieldCompatible(a, b string) bool {
	a, b = strings.TrimSpace(a), strings.TrimSpace(b)
	if a == "" || b == "" {
		return true
	}
	return strings.EqualFold(a, b)
}
