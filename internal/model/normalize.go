package model

// NormalizeInput is the raw listing text handed to the identity normalizer.
// Every field is optional; the normalizer works with whatever is present.
type NormalizeInput struct {
	MakeRaw    string `json:"make_raw,omitempty"`
	ModelRaw   string `json:"model_raw,omitempty"`
	VariantRaw string `json:"variant_raw,omitempty"`
	URL        string `json:"url,omitempty"`
	Title      string `json:"title,omitempty"`
	BodyText   string `json:"body_text,omitempty"`
	DealerID   int64  `json:"dealer_id,omitempty"`
	Year       int    `json:"year,omitempty"`
	KM         *int   `json:"km,omitempty"`
}

// NormalizeResult is the canonical identity resolved from a NormalizeInput.
// Explain is an ordered trail of rule tags fired during resolution; it is a
// first-class audit output, not incidental logging.
type NormalizeResult struct {
	Make       string   `json:"make"`
	Model      string   `json:"model"`
	Variant    string   `json:"variant,omitempty"`
	Confidence int      `json:"confidence"`
	FamilyKey  string   `json:"family_key,omitempty"`
	Explain    []string `json:"explain"`
}
