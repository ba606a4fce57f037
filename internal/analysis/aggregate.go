package analysis

import (
	"sort"

	"valorant-mcp/internal/domain"
)

const OverallKey = "overall"

// AggregateResult holds the three simultaneous views over one aligned
// timeline. Every record fans out into exactly one agent bucket, one map
// bucket, and the overall bucket.
type AggregateResult struct {
	Overall domain.AggregateBucket
	ByAgent []domain.AggregateBucket
	ByMap   []domain.AggregateBucket
}

type accumulator struct {
	count   int
	wins    int
	kills   int
	deaths  int
	assists int
	score   int
	net     int
}

func (a *accumulator) add(rec domain.AlignedRecord) {
	a.count++
	if rec.Match.Outcome == domain.OutcomeWin {
		a.wins++
	}
	a.kills += rec.Match.Kills
	a.deaths += rec.Match.Deaths
	a.assists += rec.Match.Assists
	a.score += rec.Match.Score
	// rating change only exists for records the aligner actually joined
	if rec.MMR != nil {
		a.net += rec.MMR.RatingDelta
	}
}

func (a *accumulator) bucket(key string) domain.AggregateBucket {
	b := domain.AggregateBucket{
		Key:             key,
		MatchCount:      a.count,
		WinCount:        a.wins,
		NetRatingChange: a.net,
	}
	if a.count == 0 {
		return b
	}
	b.WinRate = avg(a.wins, a.count)
	b.AvgKills = avg(a.kills, a.count)
	b.AvgDeaths = avg(a.deaths, a.count)
	b.AvgAssists = avg(a.assists, a.count)
	b.AvgScore = avg(a.score, a.count)
	return b
}

func avg(sum, count int) *float64 {
	v := float64(sum) / float64(count)
	return &v
}

// Aggregate reduces an aligned timeline into by-agent, by-map, and overall
// buckets. Bucket order is deterministic: descending match count, ties
// broken alphabetically by key.
func Aggregate(records []domain.AlignedRecord) AggregateResult {
	overall := &accumulator{}
	byAgent := make(map[string]*accumulator)
	byMap := make(map[string]*accumulator)

	for _, rec := range records {
		overall.add(rec)

		agent := rec.Match.Agent
		if agent == "" {
			agent = "Unknown"
		}
		if byAgent[agent] == nil {
			byAgent[agent] = &accumulator{}
		}
		byAgent[agent].add(rec)

		mapName := rec.Match.Map
		if mapName == "" {
			mapName = "Unknown"
		}
		if byMap[mapName] == nil {
			byMap[mapName] = &accumulator{}
		}
		byMap[mapName].add(rec)
	}

	return AggregateResult{
		Overall: overall.bucket(OverallKey),
		ByAgent: sortedBuckets(byAgent),
		ByMap:   sortedBuckets(byMap),
	}
}

func sortedBuckets(accums map[string]*accumulator) []domain.AggregateBucket {
	buckets := make([]domain.AggregateBucket, 0, len(accums))
	for key, acc := range accums {
		buckets = append(buckets, acc.bucket(key))
	}
	sort.Slice(buckets, func(i, j int) bool {
		if buckets[i].MatchCount != buckets[j].MatchCount {
			return buckets[i].MatchCount > buckets[j].MatchCount
		}
		return buckets[i].Key < buckets[j].Key
	})
	return buckets
}
