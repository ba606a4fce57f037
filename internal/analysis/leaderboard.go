package analysis

import (
	"context"

	"valorant-mcp/internal/domain"
)

// Page is one fetched leaderboard page. Total carries the upstream's
// population count when it reports one, 0 when unknown.
type Page struct {
	Slots []domain.LeaderboardSlot
	Total int
}

// PageFetcher retrieves one rank-ordered leaderboard page (1-based).
type PageFetcher func(ctx context.Context, page int) (Page, error)

type LocateOptions struct {
	// Neighbors is how many slots to report on each side of the found rank.
	Neighbors int
	// MaxPages caps the scan when the upstream reports no total; hitting it
	// makes a not-found result inconclusive rather than definitive.
	MaxPages int
	// PageSize is the requested page size, used to tell when a known total
	// has been covered.
	PageSize int
}

// LocateResult reports the outcome of a leaderboard scan. Absence is an
// expected, common outcome: Found=false with a nil error.
type LocateResult struct {
	Found     bool
	Slot      domain.LeaderboardSlot
	Neighbors []domain.LeaderboardSlot
	Total     int
	Truncated bool
}

// Locate scans leaderboard pages in rank order for the target puuid. The
// scan stops at the first empty page, once a reported total has been
// covered, or at MaxPages (flagged as truncated since later pages were never
// seen). Neighbors are the k slots immediately above and below the found
// rank, clipped at the list boundaries.
func Locate(ctx context.Context, puuid string, fetch PageFetcher, opts LocateOptions) (LocateResult, error) {
	k := opts.Neighbors
	if k < 0 {
		k = 0
	}
	maxPages := opts.MaxPages
	if maxPages <= 0 {
		maxPages = 1
	}

	var prevTail []domain.LeaderboardSlot
	total := 0

	for page := 1; page <= maxPages; page++ {
		p, err := fetch(ctx, page)
		if err != nil {
			return LocateResult{}, err
		}
		if p.Total > 0 {
			total = p.Total
		}
		if len(p.Slots) == 0 {
			return LocateResult{Total: total}, nil
		}

		for i, slot := range p.Slots {
			if slot.Puuid != puuid {
				continue
			}
			above := lastK(append(append([]domain.LeaderboardSlot{}, prevTail...), p.Slots[:i]...), k)
			below, err := collectBelow(ctx, fetch, p.Slots[i+1:], page, maxPages, total, opts.PageSize, k)
			if err != nil {
				return LocateResult{}, err
			}
			return LocateResult{
				Found:     true,
				Slot:      slot,
				Neighbors: append(above, below...),
				Total:     total,
			}, nil
		}

		prevTail = lastK(append(prevTail, p.Slots...), k)
		if total > 0 && opts.PageSize > 0 && page*opts.PageSize >= total {
			return LocateResult{Total: total}, nil
		}
	}

	return LocateResult{Total: total, Truncated: true}, nil
}

// collectBelow gathers up to k slots ranked below the found one, spilling
// into subsequent pages when the hit sits near a page boundary.
func collectBelow(ctx context.Context, fetch PageFetcher, rest []domain.LeaderboardSlot, page, maxPages, total, pageSize, k int) ([]domain.LeaderboardSlot, error) {
	below := make([]domain.LeaderboardSlot, 0, k)
	for _, s := range rest {
		if len(below) == k {
			return below, nil
		}
		below = append(below, s)
	}

	for next := page + 1; len(below) < k && next <= maxPages; next++ {
		if total > 0 && pageSize > 0 && (next-1)*pageSize >= total {
			break
		}
		p, err := fetch(ctx, next)
		if err != nil {
			return nil, err
		}
		if len(p.Slots) == 0 {
			break
		}
		for _, s := range p.Slots {
			if len(below) == k {
				break
			}
			below = append(below, s)
		}
	}
	return below, nil
}

func lastK(slots []domain.LeaderboardSlot, k int) []domain.LeaderboardSlot {
	if len(slots) <= k {
		return slots
	}
	return slots[len(slots)-k:]
}
