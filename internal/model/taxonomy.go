package model

// CanonicalModel is one canonical model line for a make, as supplied by the
// taxonomy repository. Immutable from the matching core's perspective.
type CanonicalModel struct {
	Make      string   `json:"make" yaml:"make"`
	Canonical string   `json:"canonical_model" yaml:"canonical_model"`
	FamilyKey string   `json:"family_key" yaml:"family_key"`
	Aliases   []string `json:"aliases" yaml:"aliases"`
}

// VariantRank is a canonical variant with its tie-break rank. When several
// variant tokens appear in source text the highest rank wins.
type VariantRank struct {
	Make      string   `json:"make" yaml:"make"`
	Model     string   `json:"model" yaml:"model"`
	Canonical string   `json:"canonical_variant" yaml:"canonical_variant"`
	Aliases   []string `json:"aliases" yaml:"aliases"`
	Rank      int      `json:"rank" yaml:"rank"`
}

// SalesTruthRecord is one dealer's historical sold count for a model+variant
// within a make family. Used only to break ties between ambiguous model
// candidates; never invents a model absent from the candidate set.
type SalesTruthRecord struct {
	Model     string `json:"model" yaml:"model"`
	Variant   string `json:"variant" yaml:"variant"`
	CountSold int    `json:"count_sold" yaml:"count_sold"`
}
