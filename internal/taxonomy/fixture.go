package taxonomy

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/restock-cli/internal/model"
)

// Fixture is the YAML document format accepted by `taxonomy load` and the
// in-memory repository.
type Fixture struct {
	Models     []model.CanonicalModel `yaml:"models"`
	Variants   []model.VariantRank    `yaml:"variants"`
	SalesTruth []DealerTruthFixture   `yaml:"sales_truth"`
}

// DealerTruthFixture groups sales-truth records under their dealer+make+family
// scope.
type DealerTruthFixture struct {
	DealerID  int64                    `yaml:"dealer_id"`
	Make      string                   `yaml:"make"`
	FamilyKey string                   `yaml:"family_key"`
	Records   []model.SalesTruthRecord `yaml:"records"`
}

// LoadFixture reads a YAML taxonomy fixture from the given path.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "taxonomy: read fixture")
	}

	var fx Fixture
	if err := yaml.Unmarshal(data, &fx); err != nil {
		return nil, eris.Wrap(err, "taxonomy: unmarshal fixture")
	}

	return &fx, nil
}

// Memory builds an in-memory repository from the fixture's contents.
func (fx *Fixture) Memory() *Memory {
	m := NewMemory(fx.Models, fx.Variants)
	for _, st := range fx.SalesTruth {
		m.SetDealerTruth(st.DealerID, st.Make, st.FamilyKey, st.Records)
	}
	return m
}
