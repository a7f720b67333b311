package model

import (
	"strings"
	"time"
)

// Fingerprint is a dealer's standing "find me this" specification, derived
// from a vehicle they sold. Matching reads fingerprints and never mutates
// them. ExpiresAt is set at creation time by the ingestion side (typically
// sale date + 120 days); a nil expiry never lapses.
type Fingerprint struct {
	ID                int64      `json:"id"`
	DealerID          int64      `json:"dealer_id"`
	Make              string     `json:"make"`
	Model             string     `json:"model"`
	VariantNormalised string     `json:"variant_normalised"`
	VariantFamily     string     `json:"variant_family"`
	Year              int        `json:"year"`
	MinKM             *int       `json:"min_km"`
	MaxKM             *int       `json:"max_km"`
	Engine            string     `json:"engine,omitempty"`
	Drivetrain        string     `json:"drivetrain,omitempty"`
	Transmission      string     `json:"transmission,omitempty"`
	IsActive          bool       `json:"is_active"`
	DoNotBuy          bool       `json:"do_not_buy"`
	ExpiresAt         *time.Time `json:"expires_at"`
	SharedOptIn       bool       `json:"shared_opt_in"`
	IsManual          bool       `json:"is_manual"`
}

// SpecOnly reports whether the fingerprint lacks a usable km range. Spec-only
// fingerprints never check km and cap every match at Tier-2.
func (f Fingerprint) SpecOnly() bool {
	return f.MinKM == nil || f.MaxKM == nil
}

// Eligible reports whether the fingerprint may produce matches at all:
// active, not flagged do-not-buy, and not expired as of now.
func (f Fingerprint) Eligible(now time.Time) bool {
	if !f.IsActive || f.DoNotBuy {
		return false
	}
	if f.ExpiresAt != nil && !f.ExpiresAt.After(now) {
		return false
	}
	return true
}

// SameIdentity reports whether the fingerprint's make and model equal the
// given pair, ignoring case and surrounding whitespace.
func (f Fingerprint) SameIdentity(mk, mdl string) bool {
	return strings.EqualFold(strings.TrimSpace(f.Make), strings.TrimSpace(mk)) &&
		strings.EqualFold(strings.TrimSpace(f.Model), strings.TrimSpace(mdl))
}
