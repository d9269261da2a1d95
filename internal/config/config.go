package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds runtime settings for the presentation layers
type Config struct {
	Port            string
	LogLevel        string
	DefaultScheme   string
	RulesCacheTTL   time.Duration
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

// Default returns the settings used when nothing is configured
func Default() Config {
	return Config{
		Port:            "8080",
		LogLevel:        "INFO",
		DefaultScheme:   "standard",
		RulesCacheTTL:   0,
		RequestTimeout:  60 * time.Second,
		ShutdownTimeout: 30 * time.Second,
	}
}

// Load reads an optional .env file and then the process environment.
// Variables already set in the environment win over the file.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("failed to load %s: %w", file, err)
		}
	}

	cfg := Default()
	cfg.Port = getenv("PORT", cfg.Port)
	cfg.LogLevel = getenv("LOG_LEVEL", cfg.LogLevel)
	cfg.DefaultScheme = getenv("DEFAULT_SCHEME", cfg.DefaultScheme)

	var err error
	if cfg.RulesCacheTTL, err = duration("RULES_CACHE_TTL", cfg.RulesCacheTTL); err != nil {
		return Config{}, err
	}
	if cfg.RequestTimeout, err = duration("REQUEST_TIMEOUT", cfg.RequestTimeout); err != nil {
		return Config{}, err
	}
	if cfg.ShutdownTimeout, err = duration("SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func duration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid %s %q: must not be negative", key, v)
	}
	return d, nil
}
