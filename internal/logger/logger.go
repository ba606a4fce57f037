package logger

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

func New() zerolog.Logger {
	// The logger is constructed before config, so the .env file has to be
	// loaded here for LOG_LEVEL to take effect. Loading again in config is a
	// no-op for already-set variables.
	_ = godotenv.Load()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	logger := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Caller().
		Logger()

	level := zerolog.InfoLevel
	if raw := os.Getenv("LOG_LEVEL"); raw != "" {
		if parsed, err := zerolog.ParseLevel(raw); err == nil {
			level = parsed
		}
	}

	return logger.Level(level)
}
