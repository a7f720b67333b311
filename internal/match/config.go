package match

import "strings"

// Config holds the matching thresholds and the per-source quirk lists. All
// source-name comparisons are case-insensitive.
type Config struct {
	// YearTolerance is the normal allowed gap between fingerprint and row
	// year. WideYearTolerance applies to sources in LaxYearSources, whose
	// year data is known to be unreliable.
	YearTolerance     int      `yaml:"year_tolerance" mapstructure:"year_tolerance"`
	WideYearTolerance int      `yaml:"wide_year_tolerance" mapstructure:"wide_year_tolerance"`
	LaxYearSources    []string `yaml:"lax_year_sources" mapstructure:"lax_year_sources"`

	// KMOmittedSources frequently list lots without a confirmed km reading;
	// a Tier-1 candidate from one of them falls through to a spec-only
	// Tier-2 match instead of being dropped.
	KMOmittedSources []string `yaml:"km_omitted_sources" mapstructure:"km_omitted_sources"`

	// FamilylessSources frequently omit variant-family data; Tier-2 accepts
	// make+model+year alone for them.
	FamilylessSources []string `yaml:"familyless_sources" mapstructure:"familyless_sources"`

	Pressure PressureConfig `yaml:"pressure" mapstructure:"pressure"`
}

// DefaultConfig returns the production thresholds.
func DefaultConfig() Config {
	return Config{
		YearTolerance:     1,
		WideYearTolerance: 4,
		Pressure:          DefaultPressureConfig(),
	}
}

func (c Config) laxYearSource(source string) bool {
	return containsFold(c.LaxYearSources, source)
}

func (c Config) kmOmittedSource(source string) bool {
	return containsFold(c.KMOmittedSources, source)
}

func (c Config) familylessSource(source string) bool {
	return containsFold(c.FamilylessSources, source)
}

func containsFold(list []string, s string) bool {
	for _, item := range list {
		if strings.EqualFold(item, s) {
			return true
		}
	}
	return false
}
