package service

import (
	"context"
	"fmt"
	"strings"

	"valorant-mcp/internal/analysis"
	"valorant-mcp/internal/api"
	"valorant-mcp/internal/config"
	"valorant-mcp/internal/constants"
	"valorant-mcp/internal/domain"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

type AnalysisService struct {
	upstream  Upstream
	playerSvc *PlayerService
	cfg       *config.Config
	logger    zerolog.Logger
}

func NewAnalysisService(upstream Upstream, playerSvc *PlayerService, cfg *config.Config, logger zerolog.Logger) *AnalysisService {
	return &AnalysisService{upstream: upstream, playerSvc: playerSvc, cfg: cfg, logger: logger}
}

// DetailedCompetitiveAnalysis is the cross-endpoint composite: match history
// and MMR history are fetched concurrently (independent reads, joined before
// alignment), normalized, aligned, and reduced to per-agent, per-map, and
// overall buckets. A player with no ranked data gets an empty document, not
// an error.
func (s *AnalysisService) DetailedCompetitiveAnalysis(ctx context.Context, name, tag, region string, matchCount int) (*domain.AnalysisDocument, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	identity, err := s.playerSvc.ResolveIdentity(ctx, name, tag, region)
	if err != nil {
		return nil, err
	}
	matchCount = clampSize(matchCount)

	s.logger.Info().
		Str("puuid", identity.Puuid).
		Str("region", identity.Region).
		Int("match_count", matchCount).
		Msg("running competitive analysis")

	matches, history, err := s.fetchTimelineData(ctx, identity, matchCount)
	if err != nil {
		return nil, err
	}

	records, skippedMatches := normalizeBatch(matches.Data, identity.Puuid, s.logger)
	records = s.competitiveOnly(records)

	events := make([]domain.MmrEvent, 0, len(history.Data))
	skippedEvents := 0
	for _, item := range history.Data {
		ev, err := analysis.NormalizeMmrEvent(item)
		if err != nil {
			skippedEvents++
			s.logger.Warn().Err(err).Str("match_id", item.MatchID).Msg("skipping malformed mmr entry")
			continue
		}
		events = append(events, ev)
	}

	aligned := analysis.Align(records, events, s.cfg.AlignTolerance)
	agg := analysis.Aggregate(aligned)

	doc := &domain.AnalysisDocument{
		Player:             fmt.Sprintf("%s#%s", identity.Name, identity.Tag),
		Region:             identity.Region,
		CompetitiveMatches: aligned,
		OverallStats:       agg.Overall,
		AgentPerformance:   agg.ByAgent,
		MapPerformance:     agg.ByMap,
		CurrentRank:        currentRankFor(events),
		SkippedRecords:     skippedMatches + skippedEvents,
	}

	s.logger.Info().
		Str("puuid", identity.Puuid).
		Int("aligned", len(aligned)).
		Int("skipped", doc.SkippedRecords).
		Msg("competitive analysis complete")
	return doc, nil
}

// fetchTimelineData issues the two independent upstream reads concurrently
// and waits for both: a join point, not a pipeline.
func (s *AnalysisService) fetchTimelineData(ctx context.Context, identity *domain.PlayerIdentity, matchCount int) (*api.MatchesResponse, *api.MMRHistoryResponse, error) {
	apiCtx, cancel := context.WithTimeout(ctx, constants.ExternalAPITimeout)
	defer cancel()

	g, gCtx := errgroup.WithContext(apiCtx)
	var matches *api.MatchesResponse
	var history *api.MMRHistoryResponse

	g.Go(func() error {
		var err error
		matches, err = s.upstream.GetMatches(gCtx, identity.Region, identity.Puuid, matchCount, constants.CompetitiveMode)
		return err
	})

	g.Go(func() error {
		var err error
		history, err = s.upstream.GetMMRHistory(gCtx, identity.Region, identity.Puuid, matchCount)
		return err
	})

	if err := g.Wait(); err != nil {
		s.logger.Error().Err(err).Str("puuid", identity.Puuid).Msg("failed to fetch timeline data")
		return nil, nil, fmt.Errorf("failed to fetch timeline data: %w", err)
	}
	return matches, history, nil
}

// competitiveOnly drops records from other queues. The upstream filter
// already requests competitive matches, but the mode on each record is the
// authoritative source; a deathmatch has no team rounds and would otherwise
// read as a draw and dilute every bucket.
func (s *AnalysisService) competitiveOnly(records []domain.MatchRecord) []domain.MatchRecord {
	kept := records[:0]
	for _, rec := range records {
		if strings.EqualFold(rec.Mode, constants.CompetitiveMode) {
			kept = append(kept, rec)
			continue
		}
		s.logger.Debug().Str("match_id", rec.MatchID).Str("mode", rec.Mode).Msg("dropping non-competitive match")
	}
	return kept
}

func currentRankFor(events []domain.MmrEvent) *domain.CurrentRank {
	var newest *domain.MmrEvent
	for i := range events {
		if newest == nil || events[i].RecordedAt.After(newest.RecordedAt) {
			newest = &events[i]
		}
	}
	if newest == nil {
		return nil
	}
	return &domain.CurrentRank{
		Tier:          newest.Tier,
		TierName:      newest.TierName,
		RankingInTier: newest.RankingInTier,
		Elo:           newest.Elo,
	}
}
