package marketapi

import (
	"fmt"
	"strings"
	"time"
)

const (
	defaultListenAddr    = ":8600"
	defaultDatabaseURL   = "sqlite:///tmp/marketapi.db"
	defaultAllowedOrigin = "http://localhost:3000"
	defaultTokenIssuer   = "gamevault-market"
	defaultTokenTTL      = 15 * time.Minute
	defaultSessionTTL    = 24 * time.Hour
)

// Config aggregates runtime settings for the marketplace API.
type Config struct {
	ListenAddr      string
	DatabaseURL     string
	AllowedOrigins  []string
	TokenSigningKey string
	TokenIssuer     string
	TokenTTL        time.Duration
	SessionTTL      time.Duration
	SeedDemoData    bool
}

// Validate ensures the configuration contains sane values.
func (cfg *Config) Validate() error {
	cfg.ListenAddr = defaultIfEmpty(cfg.ListenAddr, defaultListenAddr)
	cfg.DatabaseURL = defaultIfEmpty(cfg.DatabaseURL, defaultDatabaseURL)
	cfg.TokenIssuer = defaultIfEmpty(cfg.TokenIssuer, defaultTokenIssuer)
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = []string{defaultAllowedOrigin}
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = defaultTokenTTL
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = defaultSessionTTL
	}
	if len(cfg.TokenSigningKey) == 0 {
		return fmt.Errorf("token signing key is required")
	}
	return nil
}

// ParseAllowedOrigins splits a comma-separated origin list.
func ParseAllowedOrigins(raw string) []string {
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}

func defaultIfEmpty(value string, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
