package analysis

import (
	"testing"

	"valorant-mcp/internal/domain"
)

func alignedRecord(agent, mapName string, outcome domain.Outcome, kills int, delta *int) domain.AlignedRecord {
	rec := domain.AlignedRecord{
		Match: domain.MatchRecord{
			Agent:   agent,
			Map:     mapName,
			Outcome: outcome,
			Kills:   kills,
			Deaths:  10,
			Assists: 4,
			Score:   3000,
		},
	}
	if delta != nil {
		rec.MMR = &domain.MmrEvent{RatingDelta: *delta}
	}
	return rec
}

func findBucket(t *testing.T, buckets []domain.AggregateBucket, key string) domain.AggregateBucket {
	t.Helper()
	for _, b := range buckets {
		if b.Key == key {
			return b
		}
	}
	t.Fatalf("bucket %q not found in %+v", key, buckets)
	return domain.AggregateBucket{}
}

func TestAggregateFansOutByAgentAndMap(t *testing.T) {
	plus := func(v int) *int { return &v }
	records := []domain.AlignedRecord{
		alignedRecord("Jett", "Ascent", domain.OutcomeWin, 20, plus(18)),
		alignedRecord("Jett", "Bind", domain.OutcomeLoss, 10, plus(-15)),
		alignedRecord("Sova", "Ascent", domain.OutcomeWin, 16, plus(21)),
	}

	result := Aggregate(records)

	if result.Overall.MatchCount != 3 || result.Overall.WinCount != 2 {
		t.Errorf("overall = %d matches %d wins, want 3/2", result.Overall.MatchCount, result.Overall.WinCount)
	}
	if result.Overall.NetRatingChange != 24 {
		t.Errorf("overall net = %d, want 24", result.Overall.NetRatingChange)
	}

	jett := findBucket(t, result.ByAgent, "Jett")
	if jett.MatchCount != 2 || jett.WinCount != 1 {
		t.Errorf("Jett = %d matches %d wins, want 2/1", jett.MatchCount, jett.WinCount)
	}
	if jett.WinRate == nil || *jett.WinRate != 0.5 {
		t.Errorf("Jett winRate = %v, want 0.5", jett.WinRate)
	}
	if jett.AvgKills == nil || *jett.AvgKills != 15 {
		t.Errorf("Jett avgKills = %v, want 15", jett.AvgKills)
	}
	if jett.NetRatingChange != 3 {
		t.Errorf("Jett net = %d, want 3", jett.NetRatingChange)
	}

	sova := findBucket(t, result.ByAgent, "Sova")
	if sova.MatchCount != 1 || sova.WinCount != 1 {
		t.Errorf("Sova = %d matches %d wins, want 1/1", sova.MatchCount, sova.WinCount)
	}

	ascent := findBucket(t, result.ByMap, "Ascent")
	if ascent.MatchCount != 2 || ascent.WinCount != 2 {
		t.Errorf("Ascent = %d matches %d wins, want 2/2", ascent.MatchCount, ascent.WinCount)
	}

	// every record lands in exactly one agent bucket and one map bucket
	agentTotal, mapTotal := 0, 0
	for _, b := range result.ByAgent {
		agentTotal += b.MatchCount
	}
	for _, b := range result.ByMap {
		mapTotal += b.MatchCount
	}
	if agentTotal != 3 || mapTotal != 3 {
		t.Errorf("fan-out totals agent=%d map=%d, want 3/3", agentTotal, mapTotal)
	}
}

func TestAggregateNilAveragesOnEmptyInput(t *testing.T) {
	result := Aggregate(nil)

	if result.Overall.MatchCount != 0 {
		t.Errorf("matchCount = %d, want 0", result.Overall.MatchCount)
	}
	if result.Overall.WinRate != nil || result.Overall.AvgKills != nil || result.Overall.AvgScore != nil {
		t.Error("averages over zero matches must be nil, not zero")
	}
	if len(result.ByAgent) != 0 || len(result.ByMap) != 0 {
		t.Errorf("empty input produced buckets: %d agents, %d maps", len(result.ByAgent), len(result.ByMap))
	}
}

func TestAggregateNetRatingSkipsUnjoinedRecords(t *testing.T) {
	plus := func(v int) *int { return &v }
	records := []domain.AlignedRecord{
		alignedRecord("Jett", "Ascent", domain.OutcomeWin, 20, plus(25)),
		alignedRecord("Jett", "Ascent", domain.OutcomeWin, 18, nil),
	}

	result := Aggregate(records)
	if result.Overall.NetRatingChange != 25 {
		t.Errorf("net = %d, want 25: unjoined records contribute no rating", result.Overall.NetRatingChange)
	}
	// but they still count toward matches and averages
	if result.Overall.MatchCount != 2 {
		t.Errorf("matchCount = %d, want 2", result.Overall.MatchCount)
	}
	if result.Overall.AvgKills == nil || *result.Overall.AvgKills != 19 {
		t.Errorf("avgKills = %v, want 19", result.Overall.AvgKills)
	}
}

func TestAggregateDrawIsNotAWin(t *testing.T) {
	records := []domain.AlignedRecord{
		alignedRecord("Omen", "Split", domain.OutcomeDraw, 12, nil),
	}
	result := Aggregate(records)
	if result.Overall.WinCount != 0 {
		t.Errorf("winCount = %d, want 0 for a draw", result.Overall.WinCount)
	}
	if result.Overall.WinRate == nil || *result.Overall.WinRate != 0 {
		t.Errorf("winRate = %v, want 0 (not nil: a match was played)", result.Overall.WinRate)
	}
}

func TestAggregateBucketOrdering(t *testing.T) {
	records := []domain.AlignedRecord{
		alignedRecord("Sova", "Bind", domain.OutcomeWin, 10, nil),
		alignedRecord("Breach", "Haven", domain.OutcomeWin, 10, nil),
		alignedRecord("Jett", "Ascent", domain.OutcomeWin, 10, nil),
		alignedRecord("Jett", "Ascent", domain.OutcomeLoss, 10, nil),
	}

	result := Aggregate(records)
	if result.ByAgent[0].Key != "Jett" {
		t.Errorf("first agent = %q, want Jett (highest match count)", result.ByAgent[0].Key)
	}
	// Breach and Sova tie on count; alphabetical order breaks it
	if result.ByAgent[1].Key != "Breach" || result.ByAgent[2].Key != "Sova" {
		t.Errorf("tie order = %q,%q, want Breach,Sova", result.ByAgent[1].Key, result.ByAgent[2].Key)
	}
}
