package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	yaml "gopkg.in/yaml.v3"
)

// AppConfig is the process configuration. Values come from an optional
// YAML file (CONFIG_FILE) with environment variables taking precedence.
type AppConfig struct {
	ListenAddr string `yaml:"listen_addr"`
	WSPath     string `yaml:"ws_path"`

	// RedisURL selects the Redis session store when set; otherwise
	// sessions live in process memory only.
	RedisURL string `yaml:"redis_url"`
	// DatabaseURL enables the Postgres result archive when set.
	DatabaseURL string `yaml:"database_url"`

	// AllowedOrigins feeds the WebSocket handshake origin check.
	AllowedOrigins []string `yaml:"allowed_origins"`

	// SessionTTLRaw is the YAML-facing duration string; Load parses it
	// into SessionTTL.
	SessionTTLRaw string `yaml:"session_ttl"`
	// SessionTTL bounds how long finished sessions linger before
	// reclamation.
	SessionTTL time.Duration `yaml:"-"`
}

func defaults() *AppConfig {
	return &AppConfig{
		ListenAddr: ":8080",
		WSPath:     "/ws",
		SessionTTL: 24 * time.Hour,
	}
}

// Load builds the config from defaults, then the YAML file named by
// CONFIG_FILE (if any), then environment overrides.
func Load() (*AppConfig, error) {
	cfg := defaults()

	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}
	if v := strings.TrimSpace(cfg.SessionTTLRaw); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("invalid session_ttl %q", v)
		}
		cfg.SessionTTL = d
	}

	if v := strings.TrimSpace(os.Getenv("LISTEN_ADDR")); v != "" {
		cfg.ListenAddr = v
	}
	if v := strings.TrimSpace(os.Getenv("WS_PATH")); v != "" {
		cfg.WSPath = v
	}
	if v := strings.TrimSpace(os.Getenv("REDIS_URL")); v != "" {
		cfg.RedisURL = v
	}
	if v := strings.TrimSpace(os.Getenv("DATABASE_URL")); v != "" {
		cfg.DatabaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv("ALLOWED_ORIGINS")); v != "" {
		cfg.AllowedOrigins = cfg.AllowedOrigins[:0]
		for _, p := range strings.Split(v, ",") {
			if s := strings.TrimSpace(p); s != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, s)
			}
		}
	}
	if v := strings.TrimSpace(os.Getenv("SESSION_TTL")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("invalid SESSION_TTL %q", v)
		}
		cfg.SessionTTL = d
	}

	if !strings.HasPrefix(cfg.WSPath, "/") {
		return nil, fmt.Errorf("ws_path must start with /: %q", cfg.WSPath)
	}
	return cfg, nil
}
