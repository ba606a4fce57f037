package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

type Config struct {
	HDevAPIKey string
	ServerPort string
	LogLevel   string

	// Tolerance window for the nearest-timestamp fallback join. The value
	// is a policy choice, not an upstream guarantee, so it stays
	// configurable.
	AlignTolerance time.Duration

	LeaderboardPageSize  int
	LeaderboardMaxPages  int
	LeaderboardNeighbors int
}

func Load(logger zerolog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg(".env file not found, using environment variables or defaults")
	}

	cfg := &Config{
		HDevAPIKey:           getEnv("HDEV_API_KEY", ""),
		ServerPort:           getEnv("SERVER_PORT", "8080"),
		LogLevel:             getEnv("LOG_LEVEL", "info"),
		AlignTolerance:       getEnvDuration("ALIGN_TOLERANCE", 30*time.Minute),
		LeaderboardPageSize:  getEnvInt("LEADERBOARD_PAGE_SIZE", 1000),
		LeaderboardMaxPages:  getEnvInt("LEADERBOARD_MAX_PAGES", 20),
		LeaderboardNeighbors: getEnvInt("LEADERBOARD_NEIGHBORS", 2),
	}

	if cfg.HDevAPIKey == "" {
		logger.Warn().Msg("HDEV_API_KEY not set, upstream calls will fail until set_api_key is used")
	}

	logger.Info().
		Str("server_port", cfg.ServerPort).
		Str("log_level", cfg.LogLevel).
		Dur("align_tolerance", cfg.AlignTolerance).
		Int("leaderboard_page_size", cfg.LeaderboardPageSize).
		Int("leaderboard_max_pages", cfg.LeaderboardMaxPages).
		Int("leaderboard_neighbors", cfg.LeaderboardNeighbors).
		Msg("configuration loaded")

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return fallback
}
