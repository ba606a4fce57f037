package service

import (
	"context"
	"fmt"

	"valorant-mcp/internal/analysis"
	"valorant-mcp/internal/api"
	"valorant-mcp/internal/config"
	"valorant-mcp/internal/constants"
	"valorant-mcp/internal/domain"

	"github.com/rs/zerolog"
)

type LeaderboardService struct {
	upstream  Upstream
	playerSvc *PlayerService
	cfg       *config.Config
	logger    zerolog.Logger
}

func NewLeaderboardService(upstream Upstream, playerSvc *PlayerService, cfg *config.Config, logger zerolog.Logger) *LeaderboardService {
	return &LeaderboardService{upstream: upstream, playerSvc: playerSvc, cfg: cfg, logger: logger}
}

type LeaderboardDocument struct {
	Region       string                   `json:"region"`
	Season       string                   `json:"season"`
	Page         int                      `json:"page"`
	Players      []domain.LeaderboardSlot `json:"players"`
	TotalPlayers int                      `json:"total_players"`
}

// GetPage returns one leaderboard page for a region and season.
func (s *LeaderboardService) GetPage(ctx context.Context, region, season string, page int) (*LeaderboardDocument, error) {
	region, season = leaderboardScope(region, season)
	if !constants.SupportedRegions[region] {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedRegion, region)
	}
	if page <= 0 {
		page = 1
	}

	resp, err := s.upstream.GetLeaderboard(ctx, region, season, page, s.cfg.LeaderboardPageSize)
	if err != nil {
		s.logger.Error().Err(err).Str("region", region).Str("season", season).Msg("failed to fetch leaderboard")
		return nil, fmt.Errorf("failed to fetch leaderboard: %w", err)
	}

	return &LeaderboardDocument{
		Region:       region,
		Season:       season,
		Page:         page,
		Players:      toSlots(resp.Data.Players),
		TotalPlayers: resp.Data.TotalPlayers,
	}, nil
}

// FindPosition locates a player on the region+season leaderboard and reports
// the neighboring slots. Most players are below the leaderboard cutoff, so
// absence is a normal found:false result rather than an error.
func (s *LeaderboardService) FindPosition(ctx context.Context, name, tag, region, season string) (*domain.LeaderboardPosition, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	region, season = leaderboardScope(region, season)
	identity, err := s.playerSvc.ResolveIdentity(ctx, name, tag, region)
	if err != nil {
		return nil, err
	}

	fetch := func(ctx context.Context, page int) (analysis.Page, error) {
		resp, err := s.upstream.GetLeaderboard(ctx, region, season, page, s.cfg.LeaderboardPageSize)
		if err != nil {
			return analysis.Page{}, fmt.Errorf("failed to fetch leaderboard page %d: %w", page, err)
		}
		return analysis.Page{
			Slots: toSlots(resp.Data.Players),
			Total: resp.Data.TotalPlayers,
		}, nil
	}

	result, err := analysis.Locate(ctx, identity.Puuid, fetch, analysis.LocateOptions{
		Neighbors: s.cfg.LeaderboardNeighbors,
		MaxPages:  s.cfg.LeaderboardMaxPages,
		PageSize:  s.cfg.LeaderboardPageSize,
	})
	if err != nil {
		s.logger.Error().Err(err).Str("puuid", identity.Puuid).Msg("leaderboard scan failed")
		return nil, err
	}

	doc := &domain.LeaderboardPosition{
		Player:          fmt.Sprintf("%s#%s", identity.Name, identity.Tag),
		Region:          region,
		Season:          season,
		Found:           result.Found,
		TotalPlayers:    result.Total,
		SearchTruncated: result.Truncated,
	}
	if result.Found {
		doc.Position = result.Slot.Rank
		doc.RankedRating = result.Slot.RankedRating
		doc.Wins = result.Slot.Wins
		doc.CompetitiveTier = result.Slot.CompetitiveTier
		doc.Neighbors = result.Neighbors
	}

	s.logger.Info().
		Str("puuid", identity.Puuid).
		Bool("found", doc.Found).
		Bool("truncated", doc.SearchTruncated).
		Int("position", doc.Position).
		Msg("leaderboard lookup complete")
	return doc, nil
}

func leaderboardScope(region, season string) (string, string) {
	if region == "" {
		region = constants.DefaultRegion
	}
	if season == "" {
		season = constants.DefaultSeason
	}
	return region, season
}

func toSlots(players []api.LeaderboardPlayer) []domain.LeaderboardSlot {
	slots := make([]domain.LeaderboardSlot, 0, len(players))
	for _, p := range players {
		slots = append(slots, domain.LeaderboardSlot{
			Rank:            p.LeaderboardRank,
			Puuid:           p.Puuid,
			Name:            p.GameName,
			Tag:             p.TagLine,
			RankedRating:    p.RankedRating,
			Wins:            p.NumberOfWins,
			CompetitiveTier: p.CompetitiveTier,
		})
	}
	return slots
}
