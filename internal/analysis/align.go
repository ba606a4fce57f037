package analysis

import (
	"sort"
	"time"

	"valorant-mcp/internal/domain"
)

// Align joins each MatchRecord with at most one MmrEvent. The exact match_id
// join is authoritative; leftovers fall back to a nearest-timestamp join
// within the tolerance window, assigned greedily in increasing time-distance
// order so that each event is consumed at most once. The result is
// length-preserving: one AlignedRecord per input record, in input order, with
// a nil MMR side when nothing joined.
func Align(records []domain.MatchRecord, events []domain.MmrEvent, tolerance time.Duration) []domain.AlignedRecord {
	sorted := make([]domain.MmrEvent, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].RecordedAt.Before(sorted[j].RecordedAt)
	})

	byMatchID := make(map[string]int, len(sorted))
	for i, ev := range sorted {
		if ev.MatchID == "" {
			continue
		}
		if _, ok := byMatchID[ev.MatchID]; !ok {
			byMatchID[ev.MatchID] = i
		}
	}

	assigned := make([]int, len(records)) // index into sorted, -1 when unmatched
	consumed := make([]bool, len(sorted))
	for i := range assigned {
		assigned[i] = -1
	}

	for i, rec := range records {
		if rec.MatchID == "" {
			continue
		}
		if j, ok := byMatchID[rec.MatchID]; ok && !consumed[j] {
			assigned[i] = j
			consumed[j] = true
		}
	}

	type candidate struct {
		diff   time.Duration
		recIdx int
		evIdx  int
	}
	var candidates []candidate
	for i, rec := range records {
		if assigned[i] != -1 {
			continue
		}
		for j, ev := range sorted {
			if consumed[j] {
				continue
			}
			diff := ev.RecordedAt.Sub(rec.StartedAt)
			if diff < 0 {
				diff = -diff
			}
			if diff <= tolerance {
				candidates = append(candidates, candidate{diff: diff, recIdx: i, evIdx: j})
			}
		}
	}

	sort.SliceStable(candidates, func(a, b int) bool {
		ca, cb := candidates[a], candidates[b]
		if ca.diff != cb.diff {
			return ca.diff < cb.diff
		}
		// equidistant: an event that carries a match_id (even a foreign one)
		// outranks one that does not, then the chronologically earlier event
		ea, eb := sorted[ca.evIdx], sorted[cb.evIdx]
		aHasID, bHasID := ea.MatchID != "", eb.MatchID != ""
		if aHasID != bHasID {
			return aHasID
		}
		if !ea.RecordedAt.Equal(eb.RecordedAt) {
			return ea.RecordedAt.Before(eb.RecordedAt)
		}
		return ca.recIdx < cb.recIdx
	})

	for _, c := range candidates {
		if assigned[c.recIdx] != -1 || consumed[c.evIdx] {
			continue
		}
		assigned[c.recIdx] = c.evIdx
		consumed[c.evIdx] = true
	}

	aligned := make([]domain.AlignedRecord, len(records))
	for i, rec := range records {
		aligned[i] = domain.AlignedRecord{Match: rec}
		if assigned[i] != -1 {
			ev := sorted[assigned[i]]
			aligned[i].MMR = &ev
		}
	}
	return aligned
}
