package analysis

import (
	"errors"
	"fmt"
	"time"

	"valorant-mcp/internal/api"
	"valorant-mcp/internal/domain"
)

// Record-level data-quality failures. The caller skips the offending record
// and keeps going; a single bad record never aborts a whole batch.
var (
	ErrPlayerNotInMatch   = errors.New("player not in match")
	ErrMalformedTimestamp = errors.New("malformed timestamp")
)

// NormalizeMatch reduces one raw match document to the record of a single
// player. The document carries all ten participants; everyone but the target
// puuid is discarded. Normalization is pure: re-invoking on the same input is
// the way to restart it.
func NormalizeMatch(m api.MatchData, puuid string) (domain.MatchRecord, error) {
	var player *api.MatchPlayer
	for i := range m.Players.AllPlayers {
		if m.Players.AllPlayers[i].Puuid == puuid {
			player = &m.Players.AllPlayers[i]
			break
		}
	}
	if player == nil {
		return domain.MatchRecord{}, fmt.Errorf("%w: match %s", ErrPlayerNotInMatch, m.Metadata.MatchID)
	}

	if m.Metadata.GameStart == nil || *m.Metadata.GameStart <= 0 {
		return domain.MatchRecord{}, fmt.Errorf("%w: match %s has no usable game_start", ErrMalformedTimestamp, m.Metadata.MatchID)
	}
	startedAt := time.Unix(*m.Metadata.GameStart, 0).UTC()

	agent := player.Character
	if agent == "" {
		agent = "Unknown"
	}

	record := domain.MatchRecord{
		MatchID:   m.Metadata.MatchID,
		Map:       m.Metadata.Map,
		Mode:      m.Metadata.Mode,
		StartedAt: startedAt,
		Agent:     agent,
		Kills:     intOrZero(player.Stats.Kills),
		Deaths:    intOrZero(player.Stats.Deaths),
		Assists:   intOrZero(player.Stats.Assists),
		Score:     intOrZero(player.Stats.Score),
		Outcome:   outcomeFor(player.Team, m.Teams.Red.RoundsWon, m.Teams.Blue.RoundsWon),
	}
	if player.Currenttier > 0 {
		tier := player.Currenttier
		record.RankTier = &tier
	}
	return record, nil
}

// NormalizeMmrEvent converts one raw MMR-history entry. The raw epoch field
// wins when present; otherwise the RFC3339 date string is parsed; anything
// else is malformed rather than guessed at.
func NormalizeMmrEvent(item api.MMRHistoryItem) (domain.MmrEvent, error) {
	var recordedAt time.Time
	switch {
	case item.DateRaw != nil && *item.DateRaw > 0:
		recordedAt = time.Unix(*item.DateRaw, 0).UTC()
	case item.Date != "":
		parsed, err := time.Parse(time.RFC3339, item.Date)
		if err != nil {
			return domain.MmrEvent{}, fmt.Errorf("%w: %q", ErrMalformedTimestamp, item.Date)
		}
		recordedAt = parsed.UTC()
	default:
		return domain.MmrEvent{}, fmt.Errorf("%w: entry has no date", ErrMalformedTimestamp)
	}

	return domain.MmrEvent{
		MatchID:       item.MatchID,
		Tier:          item.CurrentTier,
		TierName:      item.CurrentTierPatched,
		RankingInTier: item.RankingInTier,
		RatingDelta:   item.MMRChangeToLastGame,
		Elo:           item.Elo,
		SeasonID:      item.SeasonID,
		RecordedAt:    recordedAt,
	}, nil
}

func intOrZero(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}

func outcomeFor(team string, redRounds, blueRounds int) domain.Outcome {
	if redRounds == blueRounds {
		return domain.OutcomeDraw
	}
	redWon := redRounds > blueRounds
	if (team == "Red") == redWon {
		return domain.OutcomeWin
	}
	return domain.OutcomeLoss
}
