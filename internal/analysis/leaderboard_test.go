package analysis

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"valorant-mcp/internal/domain"
)

// fakeBoard serves a fixed ranked population through the PageFetcher
// contract and counts how many pages were pulled.
type fakeBoard struct {
	slots    []domain.LeaderboardSlot
	pageSize int
	fetches  int
}

func newFakeBoard(n, pageSize int) *fakeBoard {
	slots := make([]domain.LeaderboardSlot, n)
	for i := range slots {
		slots[i] = domain.LeaderboardSlot{
			Rank:         i + 1,
			Puuid:        fmt.Sprintf("puuid-%d", i+1),
			Name:         fmt.Sprintf("player%d", i+1),
			RankedRating: 1000 - i,
		}
	}
	return &fakeBoard{slots: slots, pageSize: pageSize}
}

func (b *fakeBoard) fetch(ctx context.Context, page int) (Page, error) {
	b.fetches++
	lo := (page - 1) * b.pageSize
	if lo >= len(b.slots) {
		return Page{Total: len(b.slots)}, nil
	}
	hi := lo + b.pageSize
	if hi > len(b.slots) {
		hi = len(b.slots)
	}
	return Page{Slots: b.slots[lo:hi], Total: len(b.slots)}, nil
}

func neighborRanks(neighbors []domain.LeaderboardSlot) []int {
	ranks := make([]int, len(neighbors))
	for i, n := range neighbors {
		ranks[i] = n.Rank
	}
	return ranks
}

func TestLocateMidBoardWithNeighbors(t *testing.T) {
	board := newFakeBoard(100, 100)
	res, err := Locate(context.Background(), "puuid-50", board.fetch, LocateOptions{Neighbors: 2, MaxPages: 5, PageSize: 100})
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	if !res.Found || res.Slot.Rank != 50 {
		t.Fatalf("found=%v rank=%d, want rank 50", res.Found, res.Slot.Rank)
	}
	want := []int{48, 49, 51, 52}
	got := neighborRanks(res.Neighbors)
	if len(got) != len(want) {
		t.Fatalf("neighbors = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("neighbors = %v, want %v", got, want)
		}
	}
}

func TestLocateTopOfBoardClipsNeighbors(t *testing.T) {
	board := newFakeBoard(10, 10)
	res, err := Locate(context.Background(), "puuid-1", board.fetch, LocateOptions{Neighbors: 2, MaxPages: 2, PageSize: 10})
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	if !res.Found {
		t.Fatal("rank 1 not found")
	}
	got := neighborRanks(res.Neighbors)
	if len(got) != 2 || got[0] != 2 || got[1] != 3 {
		t.Errorf("neighbors = %v, want [2 3]: nothing exists above rank 1", got)
	}
}

func TestLocateBottomOfBoardClipsNeighbors(t *testing.T) {
	board := newFakeBoard(10, 10)
	res, err := Locate(context.Background(), "puuid-10", board.fetch, LocateOptions{Neighbors: 2, MaxPages: 2, PageSize: 10})
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	if !res.Found {
		t.Fatal("rank 10 not found")
	}
	got := neighborRanks(res.Neighbors)
	if len(got) != 2 || got[0] != 8 || got[1] != 9 {
		t.Errorf("neighbors = %v, want [8 9]: nothing exists below the last rank", got)
	}
}

func TestLocateNeighborsSpanPageBoundary(t *testing.T) {
	board := newFakeBoard(30, 10)
	// rank 11 is the first slot of page 2; the above-neighbors live on page 1
	res, err := Locate(context.Background(), "puuid-11", board.fetch, LocateOptions{Neighbors: 2, MaxPages: 5, PageSize: 10})
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	if !res.Found {
		t.Fatal("rank 11 not found")
	}
	want := []int{9, 10, 12, 13}
	got := neighborRanks(res.Neighbors)
	if len(got) != len(want) {
		t.Fatalf("neighbors = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("neighbors = %v, want %v", got, want)
		}
	}

	// rank 10 is the last slot of page 1; below-neighbors spill into page 2
	res, err = Locate(context.Background(), "puuid-10", board.fetch, LocateOptions{Neighbors: 2, MaxPages: 5, PageSize: 10})
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	want = []int{8, 9, 11, 12}
	got = neighborRanks(res.Neighbors)
	for i := range want {
		if i >= len(got) || got[i] != want[i] {
			t.Fatalf("neighbors = %v, want %v", got, want)
		}
	}
}

func TestLocateAbsentPlayerIsNotAnError(t *testing.T) {
	board := newFakeBoard(20, 10)
	res, err := Locate(context.Background(), "puuid-9999", board.fetch, LocateOptions{Neighbors: 2, MaxPages: 10, PageSize: 10})
	if err != nil {
		t.Fatalf("absence must not error, got %v", err)
	}
	if res.Found {
		t.Fatal("found an absent player")
	}
	if res.Truncated {
		t.Error("scan covered the whole board; not-found is definitive, not truncated")
	}
	if res.Total != 20 {
		t.Errorf("total = %d, want 20", res.Total)
	}
}

func TestLocateStopsAtKnownTotal(t *testing.T) {
	board := newFakeBoard(20, 10)
	_, err := Locate(context.Background(), "puuid-9999", board.fetch, LocateOptions{Neighbors: 2, MaxPages: 100, PageSize: 10})
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	if board.fetches != 2 {
		t.Errorf("fetched %d pages, want 2: the reported total covers the board", board.fetches)
	}
}

func TestLocateTruncatedAtMaxPages(t *testing.T) {
	fetch := func(ctx context.Context, page int) (Page, error) {
		// endless board that never reports a total
		slots := make([]domain.LeaderboardSlot, 10)
		for i := range slots {
			slots[i] = domain.LeaderboardSlot{Rank: (page-1)*10 + i + 1, Puuid: fmt.Sprintf("p-%d-%d", page, i)}
		}
		return Page{Slots: slots}, nil
	}

	res, err := Locate(context.Background(), "nobody", fetch, LocateOptions{Neighbors: 2, MaxPages: 3, PageSize: 10})
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	if res.Found {
		t.Fatal("found a player that does not exist")
	}
	if !res.Truncated {
		t.Error("hitting MaxPages without covering the board must flag truncation")
	}
}

func TestLocateStopsAtEmptyPage(t *testing.T) {
	board := newFakeBoard(5, 10)
	res, err := Locate(context.Background(), "puuid-9999", board.fetch, LocateOptions{Neighbors: 2, MaxPages: 10})
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	if res.Truncated {
		t.Error("an empty page ends the board; the result is definitive")
	}
}

func TestLocatePropagatesFetchErrors(t *testing.T) {
	boom := errors.New("upstream exploded")
	fetch := func(ctx context.Context, page int) (Page, error) {
		return Page{}, boom
	}
	_, err := Locate(context.Background(), "p", fetch, LocateOptions{Neighbors: 2, MaxPages: 3})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want fetch error surfaced", err)
	}
}
