package logger

import (
	"os"
	"testing"

	"github.com/rs/zerolog"
)

func TestNewHonorsDotenvLogLevel(t *testing.T) {
	// godotenv never overrides variables already present in the environment,
	// so LOG_LEVEL has to be genuinely unset for the .env value to apply.
	if old, had := os.LookupEnv("LOG_LEVEL"); had {
		os.Unsetenv("LOG_LEVEL")
		t.Cleanup(func() { os.Setenv("LOG_LEVEL", old) })
	}

	dir := t.TempDir()
	if err := os.WriteFile(dir+"/.env", []byte("LOG_LEVEL=debug\n"), 0o644); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	t.Chdir(dir)

	logger := New()
	if logger.GetLevel() != zerolog.DebugLevel {
		t.Errorf("level = %v, want debug from .env", logger.GetLevel())
	}
	os.Unsetenv("LOG_LEVEL")
}

func TestNewEnvironmentOverridesDotenv(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(dir+"/.env", []byte("LOG_LEVEL=debug\n"), 0o644); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	t.Chdir(dir)
	t.Setenv("LOG_LEVEL", "warn")

	logger := New()
	if logger.GetLevel() != zerolog.WarnLevel {
		t.Errorf("level = %v, want warn from the environment", logger.GetLevel())
	}
}

func TestNewDefaultsToInfo(t *testing.T) {
	if old, had := os.LookupEnv("LOG_LEVEL"); had {
		os.Unsetenv("LOG_LEVEL")
		t.Cleanup(func() { os.Setenv("LOG_LEVEL", old) })
	}
	t.Chdir(t.TempDir())

	logger := New()
	if logger.GetLevel() != zerolog.InfoLevel {
		t.Errorf("level = %v, want info default", logger.GetLevel())
	}
}
