package analysis

import (
	"testing"
	"time"

	"valorant-mcp/internal/domain"
)

var alignBase = time.Date(2024, 3, 1, 18, 0, 0, 0, time.UTC)

func record(matchID string, startedAt time.Time) domain.MatchRecord {
	return domain.MatchRecord{
		MatchID:   matchID,
		Map:       "Ascent",
		Agent:     "Jett",
		StartedAt: startedAt,
		Outcome:   domain.OutcomeWin,
	}
}

func event(matchID string, recordedAt time.Time, delta int) domain.MmrEvent {
	return domain.MmrEvent{
		MatchID:     matchID,
		RatingDelta: delta,
		RecordedAt:  recordedAt,
	}
}

func TestAlignExactMatchIDJoin(t *testing.T) {
	records := []domain.MatchRecord{
		record("m1", alignBase),
		record("m2", alignBase.Add(time.Hour)),
	}
	events := []domain.MmrEvent{
		// timestamps deliberately far off; the id join must win anyway
		event("m2", alignBase.Add(48*time.Hour), -12),
		event("m1", alignBase.Add(-48*time.Hour), 20),
	}

	aligned := Align(records, events, 30*time.Minute)
	if len(aligned) != 2 {
		t.Fatalf("len = %d, want 2", len(aligned))
	}
	if aligned[0].MMR == nil || aligned[0].MMR.RatingDelta != 20 {
		t.Errorf("m1 joined %+v, want delta 20", aligned[0].MMR)
	}
	if aligned[1].MMR == nil || aligned[1].MMR.RatingDelta != -12 {
		t.Errorf("m2 joined %+v, want delta -12", aligned[1].MMR)
	}
}

func TestAlignNearestTimestampWithinTolerance(t *testing.T) {
	records := []domain.MatchRecord{record("m1", alignBase)}
	events := []domain.MmrEvent{event("", alignBase.Add(5*time.Minute), 15)}

	aligned := Align(records, events, 30*time.Minute)
	if aligned[0].MMR == nil {
		t.Fatal("5m gap inside a 30m tolerance should join")
	}
	if aligned[0].MMR.RatingDelta != 15 {
		t.Errorf("delta = %d, want 15", aligned[0].MMR.RatingDelta)
	}
}

func TestAlignBeyondToleranceStaysUnjoined(t *testing.T) {
	records := []domain.MatchRecord{record("m1", alignBase)}
	events := []domain.MmrEvent{event("", alignBase.Add(40*time.Minute), 15)}

	aligned := Align(records, events, 30*time.Minute)
	if len(aligned) != 1 {
		t.Fatalf("len = %d, want 1: unjoined records are kept, not dropped", len(aligned))
	}
	if aligned[0].MMR != nil {
		t.Errorf("40m gap outside a 30m tolerance joined %+v", aligned[0].MMR)
	}
}

func TestAlignEventConsumedAtMostOnce(t *testing.T) {
	records := []domain.MatchRecord{
		record("m1", alignBase),
		record("m2", alignBase.Add(10*time.Minute)),
	}
	// one event sits between both records and is in tolerance for both
	events := []domain.MmrEvent{event("", alignBase.Add(4*time.Minute), 9)}

	aligned := Align(records, events, 30*time.Minute)
	joined := 0
	for _, a := range aligned {
		if a.MMR != nil {
			joined++
		}
	}
	if joined != 1 {
		t.Fatalf("event joined %d records, want exactly 1", joined)
	}
	// the closer record (4m away vs 6m) gets it
	if aligned[0].MMR == nil {
		t.Error("closest record should win the greedy assignment")
	}
}

func TestAlignGreedyClosestFirst(t *testing.T) {
	records := []domain.MatchRecord{
		record("m1", alignBase),
		record("m2", alignBase.Add(20*time.Minute)),
	}
	events := []domain.MmrEvent{
		event("", alignBase.Add(18*time.Minute), 7),
		event("", alignBase.Add(2*time.Minute), 3),
	}

	aligned := Align(records, events, 30*time.Minute)
	if aligned[0].MMR == nil || aligned[0].MMR.RatingDelta != 3 {
		t.Errorf("m1 joined %+v, want the 2m-away event", aligned[0].MMR)
	}
	if aligned[1].MMR == nil || aligned[1].MMR.RatingDelta != 7 {
		t.Errorf("m2 joined %+v, want the 18m-away event", aligned[1].MMR)
	}
}

func TestAlignEquidistantPrefersEventWithMatchID(t *testing.T) {
	records := []domain.MatchRecord{record("m1", alignBase)}
	events := []domain.MmrEvent{
		event("", alignBase.Add(10*time.Minute), 1),
		event("other-id", alignBase.Add(-10*time.Minute), 2),
	}

	aligned := Align(records, events, 30*time.Minute)
	if aligned[0].MMR == nil || aligned[0].MMR.RatingDelta != 2 {
		t.Errorf("joined %+v, want the id-carrying event at equal distance", aligned[0].MMR)
	}
}

func TestAlignEquidistantPrefersEarlierEvent(t *testing.T) {
	records := []domain.MatchRecord{record("m1", alignBase)}
	events := []domain.MmrEvent{
		event("", alignBase.Add(10*time.Minute), 1),
		event("", alignBase.Add(-10*time.Minute), 2),
	}

	aligned := Align(records, events, 30*time.Minute)
	if aligned[0].MMR == nil || aligned[0].MMR.RatingDelta != 2 {
		t.Errorf("joined %+v, want the chronologically earlier event", aligned[0].MMR)
	}
}

func TestAlignLengthPreservingAndOrdered(t *testing.T) {
	records := []domain.MatchRecord{
		record("m3", alignBase.Add(2*time.Hour)),
		record("m1", alignBase),
		record("m2", alignBase.Add(time.Hour)),
	}
	events := []domain.MmrEvent{event("m1", alignBase, 5)}

	aligned := Align(records, events, 30*time.Minute)
	if len(aligned) != len(records) {
		t.Fatalf("len = %d, want %d", len(aligned), len(records))
	}
	for i := range records {
		if aligned[i].Match.MatchID != records[i].MatchID {
			t.Errorf("aligned[%d] = %s, want input order preserved (%s)", i, aligned[i].Match.MatchID, records[i].MatchID)
		}
	}
}

func TestAlignEmptyInputs(t *testing.T) {
	if got := Align(nil, nil, 30*time.Minute); len(got) != 0 {
		t.Errorf("nil inputs produced %d records", len(got))
	}
	aligned := Align([]domain.MatchRecord{record("m1", alignBase)}, nil, 30*time.Minute)
	if len(aligned) != 1 || aligned[0].MMR != nil {
		t.Errorf("no events should yield one unjoined record, got %+v", aligned)
	}
}

func TestAlignDoesNotMutateEventOrder(t *testing.T) {
	events := []domain.MmrEvent{
		event("b", alignBase.Add(time.Hour), 2),
		event("a", alignBase, 1),
	}
	Align([]domain.MatchRecord{record("a", alignBase)}, events, 30*time.Minute)
	if events[0].MatchID != "b" || events[1].MatchID != "a" {
		t.Error("caller's event slice was reordered")
	}
}
