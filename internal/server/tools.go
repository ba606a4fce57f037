package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"valorant-mcp/internal/api"
	"valorant-mcp/internal/constants"
	"valorant-mcp/internal/service"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"
)

const serverVersion = "1.0.0"

// ToolServer owns the MCP server instance and the tool registrations. All
// tool handlers delegate to the service layer and render the result document
// as indented JSON text content.
type ToolServer struct {
	mcpServer      *mcp.Server
	creds          *api.CredentialStore
	rateLimits     RateLimitSource
	playerSvc      *service.PlayerService
	matchSvc       *service.MatchService
	analysisSvc    *service.AnalysisService
	leaderboardSvc *service.LeaderboardService
	upstream       service.Upstream
	logger         zerolog.Logger
}

// RateLimitSource exposes the upstream client's view of the shared quota.
type RateLimitSource interface {
	GetRateLimitInfo() api.RateLimitInfo
}

type SetAPIKeyArgs struct {
	APIKey string `json:"api_key" jsonschema:"HenrikDev API key (required)"`
}

type AccountArgs struct {
	Name   string `json:"name" jsonschema:"Riot ID game name (required)"`
	Tag    string `json:"tag" jsonschema:"Riot ID tag line, without # (required)"`
	Region string `json:"region,omitempty" jsonschema:"Region: na|eu|ap|kr|br|latam (default na)"`
}

type MatchHistoryArgs struct {
	Name   string `json:"name" jsonschema:"Riot ID game name (required)"`
	Tag    string `json:"tag" jsonschema:"Riot ID tag line (required)"`
	Region string `json:"region,omitempty" jsonschema:"Region: na|eu|ap|kr|br|latam (default na)"`
	Size   int    `json:"size,omitempty" jsonschema:"Number of matches, 1-20 (default 10)"`
}

type MatchDetailsArgs struct {
	MatchID string `json:"match_id" jsonschema:"Match id (required)"`
}

type MMRArgs struct {
	Name   string `json:"name" jsonschema:"Riot ID game name (required)"`
	Tag    string `json:"tag" jsonschema:"Riot ID tag line (required)"`
	Region string `json:"region,omitempty" jsonschema:"Region: na|eu|ap|kr|br|latam (default na)"`
}

type MMRHistoryArgs struct {
	Name   string `json:"name" jsonschema:"Riot ID game name (required)"`
	Tag    string `json:"tag" jsonschema:"Riot ID tag line (required)"`
	Region string `json:"region,omitempty" jsonschema:"Region: na|eu|ap|kr|br|latam (default na)"`
	Size   int    `json:"size,omitempty" jsonschema:"Number of entries, 1-20 (default 10)"`
}

type LifetimeMatchesArgs struct {
	Name   string `json:"name" jsonschema:"Riot ID game name (required)"`
	Tag    string `json:"tag" jsonschema:"Riot ID tag line (required)"`
	Region string `json:"region,omitempty" jsonschema:"Region: na|eu|ap|kr|br|latam (default na)"`
	Mode   string `json:"mode,omitempty" jsonschema:"Filter by mode, e.g. competitive"`
	Map    string `json:"map,omitempty" jsonschema:"Filter by map name"`
	Page   int    `json:"page,omitempty" jsonschema:"Page number (default 1)"`
	Size   int    `json:"size,omitempty" jsonschema:"Page size (default 20)"`
}

type LeaderboardArgs struct {
	Region string `json:"region,omitempty" jsonschema:"Region: na|eu|ap|kr|br|latam (default na)"`
	Season string `json:"season,omitempty" jsonschema:"Season short id, e.g. e8a1 (default current)"`
	Page   int    `json:"page,omitempty" jsonschema:"Page number (default 1)"`
}

type StatusArgs struct {
	Region string `json:"region,omitempty" jsonschema:"Region: na|eu|ap|kr|br|latam (default na)"`
}

type CompetitiveAnalysisArgs struct {
	Name       string `json:"name" jsonschema:"Riot ID game name (required)"`
	Tag        string `json:"tag" jsonschema:"Riot ID tag line (required)"`
	Region     string `json:"region,omitempty" jsonschema:"Region: na|eu|ap|kr|br|latam (default na)"`
	MatchCount int    `json:"match_count,omitempty" jsonschema:"Matches to analyze, 1-20 (default 10)"`
}

type LeaderboardPositionArgs struct {
	Name   string `json:"name" jsonschema:"Riot ID game name (required)"`
	Tag    string `json:"tag" jsonschema:"Riot ID tag line (required)"`
	Region string `json:"region,omitempty" jsonschema:"Region: na|eu|ap|kr|br|latam (default na)"`
	Season string `json:"season,omitempty" jsonschema:"Season short id (default current)"`
}

type ContentArgs struct{}

func NewToolServer(
	creds *api.CredentialStore,
	rateLimits RateLimitSource,
	upstream service.Upstream,
	playerSvc *service.PlayerService,
	matchSvc *service.MatchService,
	analysisSvc *service.AnalysisService,
	leaderboardSvc *service.LeaderboardService,
	logger zerolog.Logger,
) *ToolServer {
	s := &ToolServer{
		creds:          creds,
		rateLimits:     rateLimits,
		upstream:       upstream,
		playerSvc:      playerSvc,
		matchSvc:       matchSvc,
		analysisSvc:    analysisSvc,
		leaderboardSvc: leaderboardSvc,
		logger:         logger,
	}
	s.mcpServer = mcp.NewServer(
		&mcp.Implementation{
			Name:    "valorant-mcp",
			Version: serverVersion,
		},
		nil,
	)
	s.registerTools()
	return s
}

// MCP returns the underlying server for HTTP transport wiring.
func (s *ToolServer) MCP() *mcp.Server {
	return s.mcpServer
}

func (s *ToolServer) registerTools() {
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "set_api_key",
		Description: "Set the HenrikDev API key used for all upstream requests",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args SetAPIKeyArgs) (*mcp.CallToolResult, any, error) {
		key := strings.TrimSpace(args.APIKey)
		if key == "" {
			return s.toolError(fmt.Errorf("api_key is required")), nil, nil
		}
		s.creds.Set(key)
		s.logger.Info().Msg("api key updated")
		return s.toolDocument(map[string]string{"status": "api key set"}, nil)
	})

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_account_details",
		Description: "Resolve a Riot ID (name#tag) to account details including puuid",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args AccountArgs) (*mcp.CallToolResult, any, error) {
		if err := requireNameTag(args.Name, args.Tag); err != nil {
			return s.toolError(err), nil, nil
		}
		return s.toolDocument(s.playerSvc.ResolveIdentity(ctx, args.Name, args.Tag, args.Region))
	})

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_match_history",
		Description: "Recent matches for a player, normalized to their per-match stat lines",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args MatchHistoryArgs) (*mcp.CallToolResult, any, error) {
		if err := requireNameTag(args.Name, args.Tag); err != nil {
			return s.toolError(err), nil, nil
		}
		return s.toolDocument(s.matchSvc.GetMatchHistory(ctx, args.Name, args.Tag, args.Region, args.Size))
	})

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_match_details",
		Description: "Full scoreboard for one match: every participant's agent and stat line",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args MatchDetailsArgs) (*mcp.CallToolResult, any, error) {
		if args.MatchID == "" {
			return s.toolError(fmt.Errorf("match_id is required")), nil, nil
		}
		return s.toolDocument(s.matchSvc.GetMatchDetails(ctx, args.MatchID))
	})

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_mmr_details",
		Description: "Current competitive rank, rating, and highest rank for a player",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args MMRArgs) (*mcp.CallToolResult, any, error) {
		if err := requireNameTag(args.Name, args.Tag); err != nil {
			return s.toolError(err), nil, nil
		}
		return s.toolDocument(s.playerSvc.GetMMRDetails(ctx, args.Name, args.Tag, args.Region))
	})

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_mmr_history",
		Description: "Recent rating changes for a player with a rank progression summary",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args MMRHistoryArgs) (*mcp.CallToolResult, any, error) {
		if err := requireNameTag(args.Name, args.Tag); err != nil {
			return s.toolError(err), nil, nil
		}
		return s.toolDocument(s.playerSvc.GetMMRHistory(ctx, args.Name, args.Tag, args.Region, args.Size))
	})

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_lifetime_matches",
		Description: "Lifetime match list and summary stats, filterable by mode and map",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args LifetimeMatchesArgs) (*mcp.CallToolResult, any, error) {
		if err := requireNameTag(args.Name, args.Tag); err != nil {
			return s.toolError(err), nil, nil
		}
		return s.toolDocument(s.matchSvc.GetLifetimeMatches(ctx, args.Name, args.Tag, args.Region, args.Mode, args.Map, args.Page, args.Size))
	})

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_leaderboard",
		Description: "One page of the region+season competitive leaderboard",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args LeaderboardArgs) (*mcp.CallToolResult, any, error) {
		return s.toolDocument(s.leaderboardSvc.GetPage(ctx, args.Region, args.Season, args.Page))
	})

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_content",
		Description: "Game content catalog: agents, maps, and game modes",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args ContentArgs) (*mcp.CallToolResult, any, error) {
		return s.toolDocument(s.upstream.GetContent(ctx))
	})

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_status",
		Description: "Server status for a region: maintenances and incidents",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args StatusArgs) (*mcp.CallToolResult, any, error) {
		region := args.Region
		if region == "" {
			region = constants.DefaultRegion
		}
		status, err := s.upstream.GetStatus(ctx, region)
		if err != nil {
			return s.toolError(err), nil, nil
		}
		return s.toolDocument(map[string]any{
			"region":     region,
			"status":     status.Data,
			"rate_limit": s.rateLimits.GetRateLimitInfo(),
		}, nil)
	})

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_detailed_competitive_analysis",
		Description: "Cross-referenced competitive analysis: matches aligned with rating changes, aggregated by agent, map, and overall",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args CompetitiveAnalysisArgs) (*mcp.CallToolResult, any, error) {
		if err := requireNameTag(args.Name, args.Tag); err != nil {
			return s.toolError(err), nil, nil
		}
		return s.toolDocument(s.analysisSvc.DetailedCompetitiveAnalysis(ctx, args.Name, args.Tag, args.Region, args.MatchCount))
	})

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "find_leaderboard_position",
		Description: "Scan the leaderboard for a player's exact position and nearby competitors",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args LeaderboardPositionArgs) (*mcp.CallToolResult, any, error) {
		if err := requireNameTag(args.Name, args.Tag); err != nil {
			return s.toolError(err), nil, nil
		}
		return s.toolDocument(s.leaderboardSvc.FindPosition(ctx, args.Name, args.Tag, args.Region, args.Season))
	})
}

func requireNameTag(name, tag string) error {
	if name == "" || tag == "" {
		return fmt.Errorf("name and tag are required")
	}
	return nil
}

// toolDocument renders a service result as indented JSON text content.
// Service errors become IsError results so the calling model sees them as
// tool output rather than protocol failures.
func (s *ToolServer) toolDocument(doc any, err error) (*mcp.CallToolResult, any, error) {
	if err != nil {
		return s.toolError(err), nil, nil
	}
	b, merr := json.MarshalIndent(doc, "", "  ")
	if merr != nil {
		return s.toolError(fmt.Errorf("failed to encode result: %w", merr)), nil, nil
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(b)},
		},
	}, nil, nil
}

func (s *ToolServer) toolError(err error) *mcp.CallToolResult {
	msg := errorMessage(err)
	s.logger.Debug().Err(err).Msg("tool call failed")
	b, _ := json.Marshal(map[string]string{"error": msg})
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(b)},
		},
	}
}

// errorMessage keeps the upstream taxonomy readable for the calling model.
func errorMessage(err error) string {
	switch {
	case errors.Is(err, api.ErrNoAPIKey):
		return "no API key configured; call set_api_key first or set HDEV_API_KEY"
	case errors.Is(err, api.ErrUnauthorized):
		return "upstream rejected the API key; check set_api_key"
	case errors.Is(err, api.ErrNotFound):
		return fmt.Sprintf("not found: %v", err)
	case errors.Is(err, api.ErrUpstreamUnavailable):
		return fmt.Sprintf("upstream unavailable: %v", err)
	default:
		return err.Error()
	}
}
