// Package normalize resolves noisy listing text into a canonical vehicle
// identity using taxonomy reference data and historical sales evidence.
package normalize

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/sells-group/restock-cli/internal/model"
	"github.com/sells-group/restock-cli/internal/taxonomy"
)

// Scoring weights for model candidate rules. Hits are additive per candidate.
const (
	scoreExactName = 60 // canonical name found in the text blob
	scoreAlias     = 45 // any alias found in the text blob
	scoreURLSlug   = 50 // slugified canonical name found in the URL

	// fallbackNoTaxonomy caps confidence when the detected make has no
	// taxonomy entries at all; fallbackUnscored when entries exist but no
	// candidate scored above zero.
	fallbackNoTaxonomy = 25
	fallbackUnscored   = 30

	// variantBonus is added to final confidence when a variant was found.
	variantBonus = 5

	// Sales-truth assist gates.
	truthConsultBelow = 80 // consult only when top candidate scored below this
	truthMinSold      = 2  // ignore single historical sales
	truthMargin       = 15 // adjusted score must beat baseline by this much
	truthBonusPerSale = 10
	truthBonusCap     = 40
)

// defaultAmbiguousFamilies lists model families known to be visually and
// textually confusable, for which sales truth is always consulted.
var defaultAmbiguousFamilies = map[string]bool{
	"prado-fortuner": true,
	"hilux-sw4":      true,
	"pajero-sport":   true,
	"everest-ranger": true,
	"mux-dmax":       true,
	"patrol-navara":  true,
}

var titleCaser = cases.Title(language.English)

// Normalizer resolves raw listing text to canonical identities against an
// injected taxonomy repository.
type Normalizer struct {
	repo              taxonomy.Repository
	ambiguousFamilies map[string]bool
}

// Option configures a Normalizer.
type Option func(*Normalizer)

// WithAmbiguousFamilies replaces the default ambiguous-family set.
func WithAmbiguousFamilies(families []string) Option {
	return func(n *Normalizer) {
		n.ambiguousFamilies = make(map[string]bool, len(families))
		for _, f := range families {
			n.ambiguousFamilies[strings.ToLower(f)] = true
		}
	}
}

// New creates a Normalizer backed by repo.
func New(repo taxonomy.Repository, opts ...Option) *Normalizer {
	n := &Normalizer{
		repo:              repo,
		ambiguousFamilies: defaultAmbiguousFamilies,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// candidate is one taxonomy model with its accumulated rule score.
type candidate struct {
	model model.CanonicalModel
	score int
}

// Resolve normalizes one listing. It never returns an error: taxonomy
// failures degrade to a low-confidence fallback and a completely
// unidentifiable make terminates with confidence 0 — a signal value, not an
// exception.
func (n *Normalizer) Resolve(ctx context.Context, in model.NormalizeInput) model.NormalizeResult {
	var explain []string

	// Step 1: make detection. Trust the raw make when present.
	mk := strings.TrimSpace(in.MakeRaw)
	if mk != "" {
		explain = append(explain, "make:raw")
	} else {
		mk = detectMake(in.URL + " " + in.Title + " " + in.BodyText)
		if mk == "" {
			return model.NormalizeResult{
				Confidence: 0,
				Explain:    append(explain, "make:none"),
			}
		}
		explain = append(explain, "make:vocab:"+slug(mk))
	}

	// Step 2: score taxonomy candidates.
	models, err := n.repo.Models(ctx, mk)
	if err != nil {
		zap.L().Warn("normalize: taxonomy models lookup failed",
			zap.String("make", mk),
			zap.Error(err),
		)
		explain = append(explain, "taxonomy:error")
		models = nil
	}

	blob := normalizeBlob(in.ModelRaw, in.VariantRaw, in.Title, in.BodyText)
	urlLower := strings.ToLower(in.URL)

	var scored []candidate
	for _, cm := range models {
		c := candidate{model: cm}
		if containsToken(blob, normalizeBlob(cm.Canonical)) {
			c.score += scoreExactName
		}
		for _, alias := range cm.Aliases {
			if containsToken(blob, normalizeBlob(alias)) {
				c.score += scoreAlias
				break
			}
		}
		if urlLower != "" && strings.Contains(urlLower, slug(cm.Canonical)) {
			c.score += scoreURLSlug
		}
		if c.score > 0 {
			scored = append(scored, c)
		}
	}

	// Step 3: fallback when taxonomy gives us nothing to work with.
	if len(scored) == 0 {
		return n.fallback(in, mk, len(models) == 0, explain)
	}

	// Descending score; ties go to the longer canonical name so a sub-model
	// is preferred over its parent line.
	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].score != scored[j].score {
			return scored[i].score > scored[j].score
		}
		if len(scored[i].model.Canonical) != len(scored[j].model.Canonical) {
			return len(scored[i].model.Canonical) > len(scored[j].model.Canonical)
		}
		return scored[i].model.Canonical < scored[j].model.Canonical
	})
	top := scored[0]
	explain = append(explain, fmt.Sprintf("model:%s:+%d", slug(top.model.Canonical), top.score))
	if len(scored) > 1 && scored[1].score == top.score {
		explain = append(explain, "model:tiebreak:longest")
	}

	// Step 5: sales-truth assist for low-confidence or ambiguous families.
	if in.DealerID != 0 && (top.score < truthConsultBelow || n.ambiguousFamilies[strings.ToLower(top.model.FamilyKey)]) {
		if override, tag := n.truthAssist(ctx, in.DealerID, mk, top, scored); override != nil {
			top = *override
			explain = append(explain, tag)
		} else if tag != "" {
			explain = append(explain, tag)
		}
	}

	// Step 4: variant extraction for the winning model.
	variant, vtag := n.extractVariant(ctx, mk, top.model.Canonical, in)
	if vtag != "" {
		explain = append(explain, vtag)
	}

	// Step 6: final confidence.
	confidence := top.score
	if variant != "" {
		confidence += variantBonus
	}
	confidence = clamp(confidence, 0, 100)

	return model.NormalizeResult{
		Make:       mk,
		Model:      top.model.Canonical,
		Variant:    variant,
		Confidence: confidence,
		FamilyKey:  top.model.FamilyKey,
		Explain:    explain,
	}
}

// fallback resolves to title-cased raw model text when taxonomy cannot
// confirm a candidate. Downstream consumers treat these results as low-trust.
func (n *Normalizer) fallback(in model.NormalizeInput, mk string, noTaxonomy bool, explain []string) model.NormalizeResult {
	limit := fallbackUnscored
	if noTaxonomy {
		limit = fallbackNoTaxonomy
		explain = append(explain, "fallback:no_taxonomy")
	} else {
		explain = append(explain, "fallback:unscored")
	}

	raw := strings.TrimSpace(in.ModelRaw)
	if raw == "" {
		return model.NormalizeResult{
			Make:       mk,
			Confidence: 0,
			Explain:    append(explain, "fallback:no_model_text"),
		}
	}

	return model.NormalizeResult{
		Make:       mk,
		Model:      titleCaser.String(strings.ToLower(raw)),
		Confidence: limit,
		Explain:    explain,
	}
}

// truthAssist consults a dealer's historical sales to break ties among
// still-valid candidates. It returns a replacement candidate only when the
// most-sold model has at least truthMinSold sales AND its adjusted score
// beats the baseline's raw score by truthMargin — a single noisy historical
// sale must never hijack identity resolution.
func (n *Normalizer) truthAssist(ctx context.Context, dealerID int64, mk string, baseline candidate, scored []candidate) (*candidate, string) {
	records, err := n.repo.DealerTruth(ctx, dealerID, mk, baseline.model.FamilyKey)
	if err != nil {
		zap.L().Warn("normalize: dealer truth lookup failed",
			zap.Int64("dealer_id", dealerID),
			zap.String("make", mk),
			zap.Error(err),
		)
		return nil, "truth:error"
	}
	if len(records) == 0 {
		return nil, ""
	}

	byModel := make(map[string]*candidate, len(scored))
	for i := range scored {
		byModel[strings.ToLower(scored[i].model.Canonical)] = &scored[i]
	}

	var best *candidate
	bestSold := 0
	for _, rec := range records {
		c, ok := byModel[strings.ToLower(rec.Model)]
		if !ok {
			// Sales truth never invents a model absent from the candidates.
			continue
		}
		if rec.CountSold > bestSold {
			best = c
			bestSold = rec.CountSold
		}
	}

	if best == nil || best.model.Canonical == baseline.model.Canonical {
		return nil, "truth:considered"
	}
	if bestSold < truthMinSold {
		return nil, "truth:considered"
	}

	bonus := truthBonusPerSale * bestSold
	if bonus > truthBonusCap {
		bonus = truthBonusCap
	}
	if best.score+bonus < baseline.score+truthMargin {
		return nil, "truth:considered"
	}

	return best, "truth:override:" + slug(best.model.Canonical)
}

// extractVariant picks the highest-ranked variant whose canonical form or
// alias appears in the combined variant/title/body text.
func (n *Normalizer) extractVariant(ctx context.Context, mk, mdl string, in model.NormalizeInput) (string, string) {
	ranks, err := n.repo.VariantRanks(ctx, mk, mdl)
	if err != nil {
		zap.L().Warn("normalize: variant ranks lookup failed",
			zap.String("make", mk),
			zap.String("model", mdl),
			zap.Error(err),
		)
		return "", "variant:error"
	}
	if len(ranks) == 0 {
		return "", ""
	}

	blob := normalizeBlob(in.VariantRaw, in.Title, in.BodyText)

	var best *model.VariantRank
	for i := range ranks {
		vr := &ranks[i]
		hit := containsToken(blob, normalizeBlob(vr.Canonical))
		if !hit {
			for _, alias := range vr.Aliases {
				if containsToken(blob, normalizeBlob(alias)) {
					hit = true
					break
				}
			}
		}
		if hit && (best == nil || vr.Rank > best.Rank) {
			best = vr
		}
	}

	if best == nil {
		return "", ""
	}
	return best.Canonical, "variant:rank:" + slug(best.Canonical)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
