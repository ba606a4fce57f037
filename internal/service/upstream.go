package service

import (
	"context"

	"valorant-mcp/internal/api"
)

// Upstream is the capability surface of the HenrikDev client that the
// services consume. It is injected rather than read from shared state so
// tests can run the full composites against fakes.
type Upstream interface {
	GetAccount(ctx context.Context, name, tag string) (*api.AccountResponse, error)
	GetMatches(ctx context.Context, region, puuid string, size int, mode string) (*api.MatchesResponse, error)
	GetMatchDetail(ctx context.Context, matchID string) (*api.MatchDetailResponse, error)
	GetMMR(ctx context.Context, region, puuid string) (*api.MMRResponse, error)
	GetMMRHistory(ctx context.Context, region, puuid string, size int) (*api.MMRHistoryResponse, error)
	GetLifetimeMatches(ctx context.Context, region, puuid, mode, mapName string, page, size int) (*api.LifetimeMatchesResponse, error)
	GetLeaderboard(ctx context.Context, region, season string, page, size int) (*api.LeaderboardResponse, error)
	GetContent(ctx context.Context) (*api.ContentResponse, error)
	GetStatus(ctx context.Context, region string) (*api.StatusResponse, error)
}
