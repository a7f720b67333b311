package normalize

import (
	"strings"
	"unicode"
)

// knownMakes is the fixed vocabulary scanned when a listing carries no raw
// make. Multi-word makes are listed so the specificity tie-break can prefer
// them over their shorter prefixes.
var knownMakes = []string{
	"Alfa Romeo", "Aston Martin", "Audi", "BMW", "BYD", "Chery", "Chevrolet",
	"Chrysler", "Citroen", "Cupra", "Dodge", "Fiat", "Ford", "Foton", "GWM",
	"Great Wall", "Haval", "Holden", "Honda", "Hyundai", "Isuzu", "Iveco",
	"Jaguar", "Jeep", "Kia", "LDV", "Land Rover", "Lexus", "MG", "Mahindra",
	"Mazda", "Mercedes-Benz", "Mini", "Mitsubishi", "Nissan", "Peugeot",
	"Porsche", "RAM", "Renault", "Skoda", "SsangYong", "Subaru", "Suzuki",
	"Tesla", "Toyota", "Volkswagen", "Volvo",
}

// normalizeBlob lower-cases text and collapses every non-alphanumeric run to
// a single space.
func normalizeBlob(parts ...string) string {
	var b strings.Builder
	lastSpace := true
	for _, part := range parts {
		for _, r := range strings.ToLower(part) {
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				b.WriteRune(r)
				lastSpace = false
				continue
			}
			if !lastSpace {
				b.WriteRune(' ')
				lastSpace = true
			}
		}
		if !lastSpace {
			b.WriteRune(' ')
			lastSpace = true
		}
	}
	return strings.TrimSpace(b.String())
}

// containsToken reports whether needle occurs in blob on word boundaries.
// Both sides must already be blob-normalized.
func containsToken(blob, needle string) bool {
	if needle == "" {
		return false
	}
	return strings.Contains(" "+blob+" ", " "+needle+" ")
}

// slug converts a canonical name to its URL-slug form ("Land Cruiser" ->
// "land-cruiser").
func slug(name string) string {
	return strings.ReplaceAll(normalizeBlob(name), " ", "-")
}

// detectMake scans the combined source text for a known make. The earliest
// occurrence wins; on equal position the longer (more specific) name wins.
// Returns "" when nothing matches.
func detectMake(text string) string {
	blob := normalizeBlob(text)
	best := ""
	bestPos := -1
	for _, mk := range knownMakes {
		needle := normalizeBlob(mk)
		pos := strings.Index(" "+blob+" ", " "+needle+" ")
		if pos < 0 {
			continue
		}
		if bestPos < 0 || pos < bestPos || (pos == bestPos && len(needle) > len(normalizeBlob(best))) {
			best = mk
			bestPos = pos
		}
	}
	return best
}
