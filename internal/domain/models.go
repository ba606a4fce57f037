package domain

import (
	"time"
)

// PlayerIdentity is a resolved account: name#tag in a region, pinned to a
// stable puuid by the upstream account endpoint.
type PlayerIdentity struct {
	Puuid        string `json:"puuid"`
	Name         string `json:"name"`
	Tag          string `json:"tag"`
	Region       string `json:"region"`
	AccountLevel int    `json:"account_level"`
	Card         string `json:"card,omitempty"`
	Title        string `json:"title,omitempty"`
}

// Outcome is the player's team result for one match.
type Outcome string

const (
	OutcomeWin  Outcome = "win"
	OutcomeLoss Outcome = "loss"
	OutcomeDraw Outcome = "draw"
)

// MatchRecord is one (match, player) pair normalized out of a raw
// match-history or match-detail payload. Immutable once built; lives only
// for the duration of one tool call.
type MatchRecord struct {
	MatchID   string    `json:"match_id"`
	Map       string    `json:"map"`
	Mode      string    `json:"mode"`
	StartedAt time.Time `json:"started_at"`
	Agent     string    `json:"agent"`
	Kills     int       `json:"kills"`
	Deaths    int       `json:"deaths"`
	Assists   int       `json:"assists"`
	Score     int       `json:"score"`
	Outcome   Outcome   `json:"team_outcome"`

	// Rank tier at the time of the match, when the payload carried one.
	RankTier *int `json:"rank_tier_at_match,omitempty"`
}

// MmrEvent is one normalized rating-change entry. MatchID may be empty for
// older seasons; that absence is what drives the nearest-timestamp fallback
// in alignment.
type MmrEvent struct {
	MatchID       string    `json:"match_id,omitempty"`
	Tier          int       `json:"tier"`
	TierName      string    `json:"tier_name"`
	RankingInTier int       `json:"ranking_in_tier"`
	RatingDelta   int       `json:"rating_delta"`
	Elo           *int      `json:"elo,omitempty"`
	SeasonID      string    `json:"season_id,omitempty"`
	RecordedAt    time.Time `json:"recorded_at"`
}

// AlignedRecord joins one MatchRecord with zero-or-one MmrEvent. A match
// with no MMR join keeps a nil MMR side and still participates in
// aggregation; it is never dropped.
type AlignedRecord struct {
	Match MatchRecord `json:"match"`
	MMR   *MmrEvent   `json:"mmr,omitempty"`
}

// AggregateBucket is a grouped statistic keyed by agent, map, or "overall".
// Averages and win rate are nil, not zero, when MatchCount is zero.
type AggregateBucket struct {
	Key             string   `json:"key"`
	MatchCount      int      `json:"match_count"`
	WinCount        int      `json:"win_count"`
	WinRate         *float64 `json:"win_rate"`
	AvgKills        *float64 `json:"avg_kills"`
	AvgDeaths       *float64 `json:"avg_deaths"`
	AvgAssists      *float64 `json:"avg_assists"`
	AvgScore        *float64 `json:"avg_score"`
	NetRatingChange int      `json:"net_rating_change"`
}

// LeaderboardSlot is one ranked position in a region+season leaderboard.
type LeaderboardSlot struct {
	Rank            int    `json:"rank"`
	Puuid           string `json:"puuid,omitempty"`
	Name            string `json:"name"`
	Tag             string `json:"tag"`
	RankedRating    int    `json:"ranked_rating"`
	Wins            int    `json:"wins"`
	CompetitiveTier int    `json:"competitive_tier"`
}

// CurrentRank is the player's standing at the newest MMR event.
type CurrentRank struct {
	Tier          int    `json:"tier"`
	TierName      string `json:"tier_name"`
	RankingInTier int    `json:"ranking_in_tier"`
	Elo           *int   `json:"elo,omitempty"`
}

// AnalysisDocument is the result of the detailed competitive analysis
// composite: the aligned timeline plus the three aggregate views.
type AnalysisDocument struct {
	Player             string            `json:"player"`
	Region             string            `json:"region"`
	CompetitiveMatches []AlignedRecord   `json:"competitive_matches"`
	OverallStats       AggregateBucket   `json:"overall_stats"`
	AgentPerformance   []AggregateBucket `json:"agent_performance"`
	MapPerformance     []AggregateBucket `json:"map_performance"`
	CurrentRank        *CurrentRank      `json:"current_rank"`
	SkippedRecords     int               `json:"skipped_records,omitempty"`
}

// LeaderboardPosition is the result of the leaderboard locator composite.
// Found=false is an expected outcome, not an error.
type LeaderboardPosition struct {
	Player          string            `json:"player"`
	Region          string            `json:"region"`
	Season          string            `json:"season"`
	Found           bool              `json:"found"`
	Position        int               `json:"position,omitempty"`
	RankedRating    int               `json:"ranked_rating,omitempty"`
	Wins            int               `json:"wins,omitempty"`
	CompetitiveTier int               `json:"competitive_tier,omitempty"`
	Neighbors       []LeaderboardSlot `json:"neighbors,omitempty"`
	TotalPlayers    int               `json:"total_players,omitempty"`
	SearchTruncated bool              `json:"search_truncated,omitempty"`
}
