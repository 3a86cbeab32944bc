package strangles

import (
	"time"

	"github.com/edgewalker/edgewalker/src/eventmodels"
)

// TieBreak selects among candidates sharing the identical minimal
// normalized difference. Earlier generations of this screener kept
// whichever pair happened to be iterated first, which silently depended on
// vendor ordering; the comparator makes the secondary ranking explicit.
type TieBreak string

const (
	// TieBreakLowestCost prefers the cheaper position. Default.
	TieBreakLowestCost TieBreak = "lowest_cost"

	// TieBreakEarliestExpiration prefers the pair whose earlier leg
	// expires soonest.
	TieBreakEarliestExpiration TieBreak = "earliest_expiration"

	// TieBreakFirstSeen keeps the first pair encountered in iteration
	// order, matching the historical behavior.
	TieBreakFirstSeen TieBreak = "first_seen"
)

// better reports whether candidate a should replace the incumbent b.
// A strictly smaller normalized difference always wins; exact ties fall
// through to the configured comparator, which never replaces on equality so
// that iteration order remains the final, deterministic tie-break.
func (t TieBreak) better(a, b *eventmodels.StrangleCandidate) bool {
	if a.NormalizedDifference != b.NormalizedDifference {
		return a.NormalizedDifference < b.NormalizedDifference
	}

	switch t {
	case TieBreakEarliestExpiration:
		ea := earlierExpiration(a)
		eb := earlierExpiration(b)
		return ea.Before(eb)
	case TieBreakFirstSeen:
		return false
	default:
		return a.StrangleCost < b.StrangleCost
	}
}

func earlierExpiration(c *eventmodels.StrangleCandidate) time.Time {
	if c.Put.Expiration.Before(c.Call.Expiration) {
		return c.Put.Expiration
	}

	return c.Call.Expiration
}
