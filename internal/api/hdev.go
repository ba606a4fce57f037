package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/valyala/fasthttp"
)

const baseURL = "https://api.henrikdev.xyz"

type HDevClient struct {
	creds       *CredentialStore
	client      *fasthttp.Client
	rateLimitMu sync.RWMutex
	rateLimit   RateLimitInfo
}

type RateLimitInfo struct {
	Bucket    string `json:"bucket"`
	Limit     int    `json:"limit"`
	Remaining int    `json:"remaining"`

	// seconds until reset
	Reset int `json:"reset"`

	UpdatedAt time.Time `json:"updated_at"`
}

func NewHDevClient(creds *CredentialStore) *HDevClient {
	return &HDevClient{
		creds: creds,
		client: &fasthttp.Client{
			MaxConnsPerHost:     100,
			ReadTimeout:         10 * time.Second,
			WriteTimeout:        10 * time.Second,
			MaxIdleConnDuration: 1 * time.Minute,
		},
		rateLimit: RateLimitInfo{
			Limit:     90,
			Remaining: 90,
			Reset:     60,
			UpdatedAt: time.Now(),
		},
	}
}

func (c *HDevClient) GetRateLimitInfo() RateLimitInfo {
	c.rateLimitMu.RLock()
	defer c.rateLimitMu.RUnlock()
	return c.rateLimit
}

func (c *HDevClient) updateRateLimit(resp *fasthttp.Response) {
	c.rateLimitMu.Lock()
	defer c.rateLimitMu.Unlock()

	if bucket := string(resp.Header.Peek("X-Ratelimit-Bucket")); bucket != "" {
		c.rateLimit.Bucket = bucket
	}
	if limit := string(resp.Header.Peek("X-Ratelimit-Limit")); limit != "" {
		if val, err := strconv.Atoi(limit); err == nil {
			c.rateLimit.Limit = val
		}
	}
	if remaining := string(resp.Header.Peek("X-Ratelimit-Remaining")); remaining != "" {
		if val, err := strconv.Atoi(remaining); err == nil {
			c.rateLimit.Remaining = val
		}
	}
	if reset := string(resp.Header.Peek("X-Ratelimit-Reset")); reset != "" {
		if val, err := strconv.Atoi(reset); err == nil {
			c.rateLimit.Reset = val
		}
	}
	c.rateLimit.UpdatedAt = time.Now()
}

func (c *HDevClient) GetAccount(ctx context.Context, name, tag string) (*AccountResponse, error) {
	u := fmt.Sprintf("%s/valorant/v1/account/%s/%s", baseURL, url.PathEscape(name), url.PathEscape(tag))
	return doRequest[AccountResponse](ctx, c, u)
}

func (c *HDevClient) GetMatches(ctx context.Context, region, puuid string, size int, mode string) (*MatchesResponse, error) {
	q := url.Values{}
	q.Set("size", strconv.Itoa(size))
	if mode != "" {
		q.Set("filter", mode)
	}
	u := fmt.Sprintf("%s/valorant/v3/by-puuid/matches/%s/%s?%s", baseURL, region, puuid, q.Encode())
	return doRequest[MatchesResponse](ctx, c, u)
}

func (c *HDevClient) GetMatchDetail(ctx context.Context, matchID string) (*MatchDetailResponse, error) {
	u := fmt.Sprintf("%s/valorant/v2/match/%s", baseURL, url.PathEscape(matchID))
	return doRequest[MatchDetailResponse](ctx, c, u)
}

func (c *HDevClient) GetMMR(ctx context.Context, region, puuid string) (*MMRResponse, error) {
	u := fmt.Sprintf("%s/valorant/v2/by-puuid/mmr/%s/%s", baseURL, region, puuid)
	return doRequest[MMRResponse](ctx, c, u)
}

func (c *HDevClient) GetMMRHistory(ctx context.Context, region, puuid string, size int) (*MMRHistoryResponse, error) {
	u := fmt.Sprintf("%s/valorant/v1/by-puuid/mmr-history/%s/%s?size=%d", baseURL, region, puuid, size)
	return doRequest[MMRHistoryResponse](ctx, c, u)
}

func (c *HDevClient) GetLifetimeMatches(ctx context.Context, region, puuid, mode, mapName string, page, size int) (*LifetimeMatchesResponse, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("size", strconv.Itoa(size))
	if mode != "" {
		q.Set("mode", mode)
	}
	if mapName != "" {
		q.Set("map", mapName)
	}
	u := fmt.Sprintf("%s/valorant/v1/by-puuid/lifetime/matches/%s/%s?%s", baseURL, region, puuid, q.Encode())
	return doRequest[LifetimeMatchesResponse](ctx, c, u)
}

func (c *HDevClient) GetLeaderboard(ctx context.Context, region, season string, page, size int) (*LeaderboardResponse, error) {
	q := url.Values{}
	q.Set("season", season)
	q.Set("page", strconv.Itoa(page))
	q.Set("size", strconv.Itoa(size))
	u := fmt.Sprintf("%s/valorant/v2/leaderboard/%s?%s", baseURL, region, q.Encode())
	return doRequest[LeaderboardResponse](ctx, c, u)
}

func (c *HDevClient) GetContent(ctx context.Context) (*ContentResponse, error) {
	u := fmt.Sprintf("%s/valorant/v1/content", baseURL)
	return doRequest[ContentResponse](ctx, c, u)
}

func (c *HDevClient) GetStatus(ctx context.Context, region string) (*StatusResponse, error) {
	u := fmt.Sprintf("%s/valorant/v1/status/%s", baseURL, region)
	return doRequest[StatusResponse](ctx, c, u)
}

func doRequest[T any](ctx context.Context, client *HDevClient, url string) (*T, error) {
	apiKey := client.creds.Get()
	if apiKey == "" {
		return nil, ErrNoAPIKey
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", apiKey)

	deadline, ok := ctx.Deadline()
	if ok {
		if err := client.client.DoDeadline(req, resp, deadline); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
		}
	} else {
		if err := client.client.Do(req, resp); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
		}
	}

	client.updateRateLimit(resp)

	switch status := resp.StatusCode(); {
	case status == fasthttp.StatusOK:
	case status == fasthttp.StatusUnauthorized, status == fasthttp.StatusForbidden:
		return nil, fmt.Errorf("%w: HTTP %d", ErrUnauthorized, status)
	case status == fasthttp.StatusNotFound:
		return nil, fmt.Errorf("%w: HTTP %d", ErrNotFound, status)
	case status >= fasthttp.StatusInternalServerError:
		return nil, fmt.Errorf("%w: HTTP %d", ErrUpstreamUnavailable, status)
	default:
		return nil, fmt.Errorf("API error: HTTP %d", status)
	}

	var result T
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &result, nil
}

type AccountResponse struct {
	Status int         `json:"status"`
	Data   AccountData `json:"data"`
}

type AccountData struct {
	Puuid        string `json:"puuid"`
	Region       string `json:"region"`
	AccountLevel int    `json:"account_level"`
	Name         string `json:"name"`
	Tag          string `json:"tag"`
	Card         struct {
		ID    string `json:"id"`
		Small string `json:"small"`
		Large string `json:"large"`
		Wide  string `json:"wide"`
	} `json:"card"`
	Title      string `json:"title"`
	LastUpdate string `json:"last_update"`
}

type MatchesResponse struct {
	Status int         `json:"status"`
	Data   []MatchData `json:"data"`
}

type MatchDetailResponse struct {
	Status int       `json:"status"`
	Data   MatchData `json:"data"`
}

// MatchData is the shared shape of the v3 match-history elements and the v2
// match-detail document: one metadata block plus every participant.
type MatchData struct {
	Metadata MatchMetadata `json:"metadata"`
	Players  struct {
		AllPlayers []MatchPlayer `json:"all_players"`
	} `json:"players"`
	Teams struct {
		Red  TeamResult `json:"red"`
		Blue TeamResult `json:"blue"`
	} `json:"teams"`
}

type MatchMetadata struct {
	MatchID string `json:"matchid"`
	Map     string `json:"map"`
	Mode    string `json:"mode"`

	// epoch seconds; pointer so an omitted field is distinguishable from 0
	GameStart        *int64 `json:"game_start"`
	GameStartPatched string `json:"game_start_patched"`
	RoundsPlayed     int    `json:"rounds_played"`
	SeasonID         string `json:"season_id"`
	Region           string `json:"region"`
	Cluster          string `json:"cluster"`
}

type MatchPlayer struct {
	Puuid              string `json:"puuid"`
	Name               string `json:"name"`
	Tag                string `json:"tag"`
	Team               string `json:"team"`
	Character          string `json:"character"`
	Currenttier        int    `json:"currenttier"`
	CurrenttierPatched string `json:"currenttier_patched"`

	// stat fields arrive as pointers: the upstream occasionally omits them
	// outright, which is not the same as a recorded zero
	Stats struct {
		Kills   *int `json:"kills"`
		Deaths  *int `json:"deaths"`
		Assists *int `json:"assists"`
		Score   *int `json:"score"`
	} `json:"stats"`
	DamageMade     int `json:"damage_made"`
	DamageReceived int `json:"damage_received"`
}

type TeamResult struct {
	HasWon    bool `json:"has_won"`
	RoundsWon int  `json:"rounds_won"`
}

type MMRResponse struct {
	Status int `json:"status"`
	Data   struct {
		Name        string `json:"name"`
		Tag         string `json:"tag"`
		CurrentData struct {
			CurrentTier          int    `json:"currenttier"`
			CurrentTierPatched   string `json:"currenttierpatched"`
			RankingInTier        int    `json:"ranking_in_tier"`
			MMRChangeToLastGame  int    `json:"mmr_change_to_last_game"`
			Elo                  int    `json:"elo"`
			GamesNeededForRating int    `json:"games_needed_for_rating"`
		} `json:"current_data"`
		HighestRank struct {
			PatchedTier string `json:"patched_tier"`
			Season      string `json:"season"`
		} `json:"highest_rank"`
	} `json:"data"`
}

type MMRHistoryResponse struct {
	Status int              `json:"status"`
	Data   []MMRHistoryItem `json:"data"`
}

type MMRHistoryItem struct {
	MatchID string `json:"match_id"`
	Map     struct {
		Name string `json:"name"`
		ID   string `json:"id"`
	} `json:"map"`
	CurrentTier         int    `json:"currenttier"`
	CurrentTierPatched  string `json:"currenttierpatched"`
	RankingInTier       int    `json:"ranking_in_tier"`
	MMRChangeToLastGame int    `json:"mmr_change_to_last_game"`
	Elo                 *int   `json:"elo"`
	SeasonID            string `json:"season_id"`
	Date                string `json:"date"`
	DateRaw             *int64 `json:"date_raw"`
}

type LifetimeMatchesResponse struct {
	Status  int           `json:"status"`
	Results ResponseStats `json:"results"`
	Data    LifetimeData  `json:"data"`
}

type LifetimeData struct {
	TotalMatches  int             `json:"total_matches"`
	WinRate       float64         `json:"win_rate"`
	AverageScore  float64         `json:"average_score"`
	FavoriteAgent string          `json:"favorite_agent"`
	FavoriteMap   string          `json:"favorite_map"`
	Matches       []LifetimeMatch `json:"matches"`
}

type LifetimeMatch struct {
	MatchID string `json:"match_id"`
	Map     string `json:"map"`
	Mode    string `json:"mode"`
	Result  string `json:"result"`
	Score   string `json:"score"`
	Date    string `json:"date"`
}

type ResponseStats struct {
	Total    int `json:"total"`
	Returned int `json:"returned"`
}

type LeaderboardResponse struct {
	Status int `json:"status"`
	Data   struct {
		TotalPlayers int                 `json:"total_players"`
		LastUpdate   int64               `json:"last_update"`
		Players      []LeaderboardPlayer `json:"players"`
	} `json:"data"`
}

type LeaderboardPlayer struct {
	Puuid           string `json:"puuid"`
	GameName        string `json:"game_name"`
	TagLine         string `json:"tag_line"`
	LeaderboardRank int    `json:"leaderboard_rank"`
	RankedRating    int    `json:"ranked_rating"`
	NumberOfWins    int    `json:"number_of_wins"`
	CompetitiveTier int    `json:"competitive_tier"`
}

type ContentResponse struct {
	Version    string        `json:"version"`
	Characters []ContentItem `json:"characters"`
	Maps       []ContentItem `json:"maps"`
	GameModes  []ContentItem `json:"gameModes"`
}

type ContentItem struct {
	Name           string            `json:"name"`
	LocalizedNames map[string]string `json:"localizedNames"`
	ID             string            `json:"id"`
	AssetName      string            `json:"assetName"`
}

type StatusResponse struct {
	Status int `json:"status"`
	Data   struct {
		Maintenances []json.RawMessage `json:"maintenances"`
		Incidents    []json.RawMessage `json:"incidents"`
	} `json:"data"`
}
