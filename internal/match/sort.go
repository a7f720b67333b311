package match

import (
	"sort"
	"time"

	"github.com/sells-group/restock-cli/internal/model"
)

// sortMatches orders matches by the presentation contract: Tier-1 before
// Tier-2, then lane priority, then descending confidence score, then
// ascending auction date. Consumers rely on the best, soonest actionable
// match appearing first.
func sortMatches(matches []model.Match, auctionAt map[int64]*time.Time) {
	sort.SliceStable(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		if a.Tier != b.Tier {
			return a.Tier < b.Tier
		}
		if a.Lane.Priority() != b.Lane.Priority() {
			return a.Lane.Priority() < b.Lane.Priority()
		}
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		return auctionBefore(auctionAt[a.InventoryID], auctionAt[b.InventoryID])
	})
}

// auctionBefore orders known dates ascending; unknown dates sort last.
func auctionBefore(a, b *time.Time) bool {
	switch {
	case a == nil:
		return false
	case b == nil:
		return true
	default:
		return a.Before(*b)
	}
}
