package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"valorant-mcp/internal/analysis"
	"valorant-mcp/internal/api"
	"valorant-mcp/internal/constants"
	"valorant-mcp/internal/domain"

	"github.com/rs/zerolog"
)

var ErrUnsupportedRegion = errors.New("unsupported region")

type PlayerService struct {
	upstream Upstream
	logger   zerolog.Logger
}

func NewPlayerService(upstream Upstream, logger zerolog.Logger) *PlayerService {
	return &PlayerService{upstream: upstream, logger: logger}
}

// ResolveIdentity pins name#tag to a puuid via the account endpoint. Region
// is validated up front; name and tag match case-insensitively upstream but
// are passed through as supplied. When the account payload reports the
// player's region affiliation, that wins over the caller's request since the
// upstream knows where the account actually plays.
func (s *PlayerService) ResolveIdentity(ctx context.Context, name, tag, region string) (*domain.PlayerIdentity, error) {
	if region == "" {
		region = constants.DefaultRegion
	}
	if !constants.SupportedRegions[region] {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedRegion, region)
	}

	acc, err := s.upstream.GetAccount(ctx, name, tag)
	if err != nil {
		if errors.Is(err, api.ErrNotFound) {
			s.logger.Info().Str("name", name).Str("tag", tag).Msg("player not found")
		} else {
			s.logger.Error().Err(err).Str("name", name).Str("tag", tag).Msg("failed to fetch account")
		}
		return nil, fmt.Errorf("failed to resolve %s#%s: %w", name, tag, err)
	}

	if reported := strings.ToLower(acc.Data.Region); constants.SupportedRegions[reported] {
		region = reported
	}

	return &domain.PlayerIdentity{
		Puuid:        acc.Data.Puuid,
		Name:         acc.Data.Name,
		Tag:          acc.Data.Tag,
		Region:       region,
		AccountLevel: acc.Data.AccountLevel,
		Card:         acc.Data.Card.Small,
		Title:        acc.Data.Title,
	}, nil
}

type MMRDocument struct {
	Player               string `json:"player"`
	Region               string `json:"region"`
	CurrentTier          int    `json:"current_tier"`
	CurrentTierPatched   string `json:"current_tier_patched"`
	RankingInTier        int    `json:"ranking_in_tier"`
	MMRChangeToLastGame  int    `json:"mmr_change_to_last_game"`
	Elo                  int    `json:"elo"`
	GamesNeededForRating int    `json:"games_needed_for_rating"`
	HighestRank          string `json:"highest_rank,omitempty"`
	HighestRankSeason    string `json:"highest_rank_season,omitempty"`
}

// GetMMRDetails returns the player's current competitive standing.
func (s *PlayerService) GetMMRDetails(ctx context.Context, name, tag, region string) (*MMRDocument, error) {
	identity, err := s.ResolveIdentity(ctx, name, tag, region)
	if err != nil {
		return nil, err
	}

	mmr, err := s.upstream.GetMMR(ctx, identity.Region, identity.Puuid)
	if err != nil {
		s.logger.Error().Err(err).Str("puuid", identity.Puuid).Msg("failed to fetch mmr")
		return nil, fmt.Errorf("failed to fetch mmr: %w", err)
	}

	cur := mmr.Data.CurrentData
	return &MMRDocument{
		Player:               fmt.Sprintf("%s#%s", identity.Name, identity.Tag),
		Region:               identity.Region,
		CurrentTier:          cur.CurrentTier,
		CurrentTierPatched:   cur.CurrentTierPatched,
		RankingInTier:        cur.RankingInTier,
		MMRChangeToLastGame:  cur.MMRChangeToLastGame,
		Elo:                  cur.Elo,
		GamesNeededForRating: cur.GamesNeededForRating,
		HighestRank:          mmr.Data.HighestRank.PatchedTier,
		HighestRankSeason:    mmr.Data.HighestRank.Season,
	}, nil
}

type RankProgression struct {
	RanksAchieved []string `json:"ranks_achieved"`
	CurrentRank   string   `json:"current_rank,omitempty"`
	HighestElo    *int     `json:"highest_elo,omitempty"`
	LowestElo     *int     `json:"lowest_elo,omitempty"`
}

type MMRHistoryDocument struct {
	Player          string            `json:"player"`
	Region          string            `json:"region"`
	History         []domain.MmrEvent `json:"mmr_history"`
	TotalUpdates    int               `json:"total_updates"`
	SkippedEntries  int               `json:"skipped_entries,omitempty"`
	RankProgression RankProgression   `json:"rank_progression"`
}

// GetMMRHistory returns normalized rating-change events, most recent first,
// with a small progression summary over the window. Malformed entries are
// skipped and counted, never fatal.
func (s *PlayerService) GetMMRHistory(ctx context.Context, name, tag, region string, size int) (*MMRHistoryDocument, error) {
	identity, err := s.ResolveIdentity(ctx, name, tag, region)
	if err != nil {
		return nil, err
	}
	size = clampSize(size)

	resp, err := s.upstream.GetMMRHistory(ctx, identity.Region, identity.Puuid, size)
	if err != nil {
		s.logger.Error().Err(err).Str("puuid", identity.Puuid).Msg("failed to fetch mmr history")
		return nil, fmt.Errorf("failed to fetch mmr history: %w", err)
	}

	events := make([]domain.MmrEvent, 0, len(resp.Data))
	skipped := 0
	for _, item := range resp.Data {
		ev, err := analysis.NormalizeMmrEvent(item)
		if err != nil {
			skipped++
			s.logger.Warn().Err(err).Str("match_id", item.MatchID).Msg("skipping malformed mmr entry")
			continue
		}
		events = append(events, ev)
	}

	doc := &MMRHistoryDocument{
		Player:         fmt.Sprintf("%s#%s", identity.Name, identity.Tag),
		Region:         identity.Region,
		History:        events,
		TotalUpdates:   len(events),
		SkippedEntries: skipped,
	}
	doc.RankProgression = progressionFor(events)
	return doc, nil
}

func progressionFor(events []domain.MmrEvent) RankProgression {
	prog := RankProgression{RanksAchieved: []string{}}
	seen := make(map[string]bool)
	var newest *domain.MmrEvent
	for i := range events {
		ev := &events[i]
		if ev.TierName != "" && !seen[ev.TierName] {
			seen[ev.TierName] = true
			prog.RanksAchieved = append(prog.RanksAchieved, ev.TierName)
		}
		if ev.Elo != nil {
			if prog.HighestElo == nil || *ev.Elo > *prog.HighestElo {
				prog.HighestElo = ev.Elo
			}
			if prog.LowestElo == nil || *ev.Elo < *prog.LowestElo {
				prog.LowestElo = ev.Elo
			}
		}
		if newest == nil || ev.RecordedAt.After(newest.RecordedAt) {
			newest = ev
		}
	}
	if newest != nil {
		prog.CurrentRank = newest.TierName
	}
	return prog
}

func clampSize(size int) int {
	if size <= 0 {
		return constants.DefaultMatchCount
	}
	if size > constants.MaxMatchCount {
		return constants.MaxMatchCount
	}
	return size
}
