package taxonomy

import (
	"context"
	"strings"

	"github.com/sells-group/restock-cli/internal/model"
)

// Memory is an in-memory Repository backed by slices. It serves tests and
// the fixture-loading path; lookups are case-insensitive on make and model.
type Memory struct {
	models   []model.CanonicalModel
	variants []model.VariantRank
	truth    map[truthKey][]model.SalesTruthRecord
}

type truthKey struct {
	dealerID  int64
	mk        string
	familyKey string
}

// NewMemory builds a Memory repository from taxonomy rows.
func NewMemory(models []model.CanonicalModel, variants []model.VariantRank) *Memory {
	return &Memory{
		models:   models,
		variants: variants,
		truth:    make(map[truthKey][]model.SalesTruthRecord),
	}
}

// SetDealerTruth registers sales-truth records for a dealer+make+family.
func (m *Memory) SetDealerTruth(dealerID int64, mk, familyKey string, records []model.SalesTruthRecord) {
	m.truth[truthKey{dealerID, strings.ToLower(mk), strings.ToLower(familyKey)}] = records
}

// Models returns every canonical model for a make.
func (m *Memory) Models(_ context.Context, mk string) ([]model.CanonicalModel, error) {
	var out []model.CanonicalModel
	for _, cm := range m.models {
		if strings.EqualFold(cm.Make, mk) {
			out = append(out, cm)
		}
	}
	return out, nil
}

// VariantRanks returns variant rank rows for a make, optionally narrowed to
// one model.
func (m *Memory) VariantRanks(_ context.Context, mk, mdl string) ([]model.VariantRank, error) {
	var out []model.VariantRank
	for _, vr := range m.variants {
		if !strings.EqualFold(vr.Make, mk) {
			continue
		}
		if mdl != "" && !strings.EqualFold(vr.Model, mdl) {
			continue
		}
		out = append(out, vr)
	}
	return out, nil
}

// DealerTruth returns a dealer's sold counts within a make family.
func (m *Memory) DealerTruth(_ context.Context, dealerID int64, mk, familyKey string) ([]model.SalesTruthRecord, error) {
	return m.truth[truthKey{dealerID, strings.ToLower(mk), strings.ToLower(familyKey)}], nil
}

var _ Repository = (*Memory)(nil)
