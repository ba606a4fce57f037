package service

import (
	"context"
	"fmt"
	"time"

	"valorant-mcp/internal/analysis"
	"valorant-mcp/internal/api"
	"valorant-mcp/internal/domain"

	"github.com/rs/zerolog"
)

type MatchService struct {
	upstream  Upstream
	playerSvc *PlayerService
	logger    zerolog.Logger
}

func NewMatchService(upstream Upstream, playerSvc *PlayerService, logger zerolog.Logger) *MatchService {
	return &MatchService{upstream: upstream, playerSvc: playerSvc, logger: logger}
}

type MatchHistoryDocument struct {
	Player         string               `json:"player"`
	Region         string               `json:"region"`
	Matches        []domain.MatchRecord `json:"matches"`
	TotalMatches   int                  `json:"total_matches"`
	SkippedRecords int                  `json:"skipped_records,omitempty"`
}

// GetMatchHistory fetches recent matches and normalizes them down to the
// target player's records. Records that fail normalization are skipped with
// a note; the rest of the batch proceeds.
func (s *MatchService) GetMatchHistory(ctx context.Context, name, tag, region string, size int) (*MatchHistoryDocument, error) {
	identity, err := s.playerSvc.ResolveIdentity(ctx, name, tag, region)
	if err != nil {
		return nil, err
	}
	size = clampSize(size)

	resp, err := s.upstream.GetMatches(ctx, identity.Region, identity.Puuid, size, "")
	if err != nil {
		s.logger.Error().Err(err).Str("puuid", identity.Puuid).Msg("failed to fetch matches")
		return nil, fmt.Errorf("failed to fetch matches: %w", err)
	}

	records, skipped := normalizeBatch(resp.Data, identity.Puuid, s.logger)
	return &MatchHistoryDocument{
		Player:         fmt.Sprintf("%s#%s", identity.Name, identity.Tag),
		Region:         identity.Region,
		Matches:        records,
		TotalMatches:   len(records),
		SkippedRecords: skipped,
	}, nil
}

func normalizeBatch(matches []api.MatchData, puuid string, logger zerolog.Logger) ([]domain.MatchRecord, int) {
	records := make([]domain.MatchRecord, 0, len(matches))
	skipped := 0
	for _, m := range matches {
		rec, err := analysis.NormalizeMatch(m, puuid)
		if err != nil {
			skipped++
			logger.Warn().Err(err).Str("match_id", m.Metadata.MatchID).Msg("skipping match record")
			continue
		}
		records = append(records, rec)
	}
	return records, skipped
}

type MatchParticipant struct {
	Puuid   string `json:"puuid"`
	Name    string `json:"name"`
	Tag     string `json:"tag"`
	Team    string `json:"team"`
	Agent   string `json:"agent"`
	Tier    string `json:"tier,omitempty"`
	Kills   int    `json:"kills"`
	Deaths  int    `json:"deaths"`
	Assists int    `json:"assists"`
	Score   int    `json:"score"`
}

type MatchDetailsDocument struct {
	MatchID       string             `json:"match_id"`
	Map           string             `json:"map"`
	Mode          string             `json:"mode"`
	StartedAt     *time.Time         `json:"started_at,omitempty"`
	SeasonID      string             `json:"season_id,omitempty"`
	Region        string             `json:"region,omitempty"`
	RoundsPlayed  int                `json:"rounds_played"`
	TeamRedScore  int                `json:"team_red_score"`
	TeamBlueScore int                `json:"team_blue_score"`
	Players       []MatchParticipant `json:"players"`
}

// GetMatchDetails returns one match with every participant's line.
func (s *MatchService) GetMatchDetails(ctx context.Context, matchID string) (*MatchDetailsDocument, error) {
	resp, err := s.upstream.GetMatchDetail(ctx, matchID)
	if err != nil {
		s.logger.Error().Err(err).Str("match_id", matchID).Msg("failed to fetch match detail")
		return nil, fmt.Errorf("failed to fetch match %s: %w", matchID, err)
	}

	data := resp.Data
	doc := &MatchDetailsDocument{
		MatchID:       data.Metadata.MatchID,
		Map:           data.Metadata.Map,
		Mode:          data.Metadata.Mode,
		SeasonID:      data.Metadata.SeasonID,
		Region:        data.Metadata.Region,
		RoundsPlayed:  data.Metadata.RoundsPlayed,
		TeamRedScore:  data.Teams.Red.RoundsWon,
		TeamBlueScore: data.Teams.Blue.RoundsWon,
		Players:       make([]MatchParticipant, 0, len(data.Players.AllPlayers)),
	}
	if data.Metadata.GameStart != nil && *data.Metadata.GameStart > 0 {
		startedAt := time.Unix(*data.Metadata.GameStart, 0).UTC()
		doc.StartedAt = &startedAt
	}

	for _, p := range data.Players.AllPlayers {
		doc.Players = append(doc.Players, MatchParticipant{
			Puuid:   p.Puuid,
			Name:    p.Name,
			Tag:     p.Tag,
			Team:    p.Team,
			Agent:   p.Character,
			Tier:    p.CurrenttierPatched,
			Kills:   intOrZero(p.Stats.Kills),
			Deaths:  intOrZero(p.Stats.Deaths),
			Assists: intOrZero(p.Stats.Assists),
			Score:   intOrZero(p.Stats.Score),
		})
	}
	return doc, nil
}

type LifetimeDocument struct {
	Player        string              `json:"player"`
	Region        string              `json:"region"`
	TotalMatches  int                 `json:"total_matches"`
	WinRate       float64             `json:"win_rate"`
	AverageScore  float64             `json:"average_score"`
	FavoriteAgent string              `json:"favorite_agent,omitempty"`
	FavoriteMap   string              `json:"favorite_map,omitempty"`
	Matches       []api.LifetimeMatch `json:"matches"`
}

// GetLifetimeMatches is a pass-through over the lifetime stats endpoint.
func (s *MatchService) GetLifetimeMatches(ctx context.Context, name, tag, region, mode, mapName string, page, size int) (*LifetimeDocument, error) {
	identity, err := s.playerSvc.ResolveIdentity(ctx, name, tag, region)
	if err != nil {
		return nil, err
	}
	if page <= 0 {
		page = 1
	}
	if size <= 0 {
		size = 20
	}

	resp, err := s.upstream.GetLifetimeMatches(ctx, identity.Region, identity.Puuid, mode, mapName, page, size)
	if err != nil {
		s.logger.Error().Err(err).Str("puuid", identity.Puuid).Msg("failed to fetch lifetime matches")
		return nil, fmt.Errorf("failed to fetch lifetime matches: %w", err)
	}

	matches := resp.Data.Matches
	if matches == nil {
		matches = []api.LifetimeMatch{}
	}
	return &LifetimeDocument{
		Player:        fmt.Sprintf("%s#%s", identity.Name, identity.Tag),
		Region:        identity.Region,
		TotalMatches:  resp.Data.TotalMatches,
		WinRate:       resp.Data.WinRate,
		AverageScore:  resp.Data.AverageScore,
		FavoriteAgent: resp.Data.FavoriteAgent,
		FavoriteMap:   resp.Data.FavoriteMap,
		Matches:       matches,
	}, nil
}

func intOrZero(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
