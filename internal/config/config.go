package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

type Config struct {
	DBPath     string
	ServerPort string
	LogLevel   string
	RedisURL   string

	// Upstream log archive.
	ArchiveBaseURL string
	CourtesyDelay  time.Duration
	RetryAttempts  uint64
	RetryDelay     time.Duration
	SearchLimit    int

	// Log admission policy.
	MinRatio   float64
	MinPlayers int
	MaxPlayers int

	CacheTTL time.Duration
}

func Load(logger zerolog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg(".env file not found, using environment variables or defaults")
	}

	cfg := &Config{
		DBPath:         getEnv("DB_PATH", "mixes.db"),
		ServerPort:     getEnv("SERVER_PORT", "8080"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		RedisURL:       getEnv("REDIS_URL", ""),
		ArchiveBaseURL: getEnv("ARCHIVE_BASE_URL", "https://logs.tf/api/v1/log"),
		CourtesyDelay:  getEnvDuration("COURTESY_DELAY", 3*time.Second),
		RetryAttempts:  uint64(getEnvInt("RETRY_ATTEMPTS", 3)),
		RetryDelay:     getEnvDuration("RETRY_DELAY", 5*time.Second),
		SearchLimit:    getEnvInt("SEARCH_LIMIT", 1000),
		MinRatio:       getEnvFloat("MIN_RATIO", 0.5),
		MinPlayers:     getEnvInt("MIN_PLAYERS", 12),
		MaxPlayers:     getEnvInt("MAX_PLAYERS", 18),
		CacheTTL:       getEnvDuration("CACHE_TTL", 5*time.Minute),
	}

	if cfg.MinRatio < 0 || cfg.MinRatio > 1 {
		return nil, fmt.Errorf("MIN_RATIO must be within [0,1], got %v", cfg.MinRatio)
	}
	if cfg.MinPlayers < 0 || cfg.MaxPlayers < cfg.MinPlayers {
		return nil, fmt.Errorf("invalid player window [%d,%d]", cfg.MinPlayers, cfg.MaxPlayers)
	}
	if cfg.RetryDelay <= 0 {
		return nil, fmt.Errorf("RETRY_DELAY must be positive, got %v", cfg.RetryDelay)
	}

	logger.Info().
		Str("db_path", cfg.DBPath).
		Str("server_port", cfg.ServerPort).
		Str("log_level", cfg.LogLevel).
		Str("archive_base_url", cfg.ArchiveBaseURL).
		Dur("courtesy_delay", cfg.CourtesyDelay).
		Float64("min_ratio", cfg.MinRatio).
		Int("min_players", cfg.MinPlayers).
		Int("max_players", cfg.MaxPlayers).
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
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

var Module = fx.Provide(Load)
