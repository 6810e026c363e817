package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port string

	// Document store connection
	StoreURL    string
	StoreAPIKey string

	// Auth for this service's API
	ServiceAPIKey string

	// Generative-text assistant
	AnthropicAPIKey string
	AnthropicModel  string

	// Legal information system
	RISBaseURL   string
	Jurisdiction string

	// Feed polling
	FeedWindowDays int
	FeedLimit      int
	PollInterval   time.Duration

	// Pass execution
	MaxConcurrentDocs int
	PassTimeout       time.Duration
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8090"),

		StoreURL:    envOr("STORE_URL", "http://localhost:8080"),
		StoreAPIKey: os.Getenv("STORE_API_KEY"),

		ServiceAPIKey: os.Getenv("BGBLWATCH_API_KEY"),

		AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),
		AnthropicModel:  envOr("ANTHROPIC_MODEL", "claude-sonnet-4-5-20250929"),

		RISBaseURL:   envOr("RIS_BASE_URL", "https://data.bka.gv.at/ris/api"),
		Jurisdiction: envOr("JURISDICTION", "BgblAuth"),

		FeedWindowDays: envInt("FEED_WINDOW_DAYS", 14),
		FeedLimit:      envInt("FEED_LIMIT", 100),
		PollInterval:   envDuration("POLL_INTERVAL", 0), // 0 disables polling

		MaxConcurrentDocs: envInt("MAX_CONCURRENT_DOCS", 4),
		PassTimeout:       envDuration("PASS_TIMEOUT", 10*time.Minute),
	}

	if cfg.FeedWindowDays <= 0 {
		cfg.FeedWindowDays = 14
	}
	if cfg.FeedLimit <= 0 {
		cfg.FeedLimit = 100
	}
	if cfg.MaxConcurrentDocs <= 0 {
		cfg.MaxConcurrentDocs = 4
	}
	if cfg.PassTimeout <= 0 {
		cfg.PassTimeout = 10 * time.Minute
	}

	return cfg
}

func (c Config) Validate() error {
	if c.StoreAPIKey == "" {
		return fmt.Errorf("STORE_API_KEY is required")
	}
	if c.ServiceAPIKey == "" {
		return fmt.Errorf("BGBLWATCH_API_KEY is required")
	}
	if c.AnthropicAPIKey == "" {
		return fmt.Errorf("ANTHROPIC_API_KEY is required")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
