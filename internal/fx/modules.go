package fx

import (
	"valorant-mcp/internal/api"
	"valorant-mcp/internal/config"
	"valorant-mcp/internal/logger"
	"valorant-mcp/internal/server"
	"valorant-mcp/internal/service"

	"go.uber.org/fx"
)

func ProvideUpstream(c *api.HDevClient) service.Upstream {
	return c
}

func ProvideRateLimitSource(c *api.HDevClient) server.RateLimitSource {
	return c
}

var Module = fx.Options(
	fx.Provide(logger.New),
	fx.Provide(config.Load),
	// api client
	fx.Provide(api.NewCredentialStore),
	fx.Provide(api.NewHDevClient),
	fx.Provide(ProvideUpstream),
	fx.Provide(ProvideRateLimitSource),
	// svc
	fx.Provide(service.NewPlayerService),
	fx.Provide(service.NewMatchService),
	fx.Provide(service.NewAnalysisService),
	fx.Provide(service.NewLeaderboardService),
	// server
	fx.Provide(server.NewToolServer),
)
