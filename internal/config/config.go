package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server  ServerConfig
	Store   StoreConfig
	Editor  EditorConfig
	Logging LoggingConfig
}

type ServerConfig struct {
	Host           string
	Port           int
	RateLimitRPS   int
	RateLimitBurst int
	AllowOrigins   []string
}

// StoreConfig is the zone store server's persistence backend.
type StoreConfig struct {
	Backend  string // "file" or "sqlite"
	FilePath string
	DBPath   string
}

// EditorConfig is the zone editor's view of the remote store.
type EditorConfig struct {
	StoreURL        string
	Timeout         time.Duration
	RefreshInterval time.Duration
	Officer         string
	IDScheme        string // "sequential" or "uuid"
}

type LoggingConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host:           getEnv("SERVER_HOST", "localhost"),
			Port:           getEnvInt("SERVER_PORT", 8080),
			RateLimitRPS:   getEnvInt("RATE_LIMIT_RPS", 5),
			RateLimitBurst: getEnvInt("RATE_LIMIT_BURST", 10),
			AllowOrigins:   []string{getEnv("CORS_ALLOW_ORIGIN", "*")},
		},
		Store: StoreConfig{
			Backend:  getEnv("STORE_BACKEND", "file"),
			FilePath: getEnv("STORE_FILE", "./data/zones.json"),
			DBPath:   getEnv("DB_PATH", "./data/zones.db"),
		},
		Editor: EditorConfig{
			StoreURL:        getEnv("ZONE_STORE_URL", "http://localhost:8080"),
			Timeout:         getEnvDuration("ZONE_STORE_TIMEOUT", 15*time.Second),
			RefreshInterval: getEnvDuration("ZONE_REFRESH_INTERVAL", 30*time.Second),
			Officer:         getEnv("ZONE_OFFICER", "officer_001"),
			IDScheme:        getEnv("ZONE_ID_SCHEME", "sequential"),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}
	if c.Logging.Format != "json" && c.Logging.Format != "text" {
		return fmt.Errorf("invalid log format: %s", c.Logging.Format)
	}

	if c.Store.Backend != "file" && c.Store.Backend != "sqlite" {
		return fmt.Errorf("invalid store backend: %s", c.Store.Backend)
	}

	u, err := url.Parse(c.Editor.StoreURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid zone store url: %q", c.Editor.StoreURL)
	}
	if c.Editor.RefreshInterval < time.Second {
		return fmt.Errorf("zone refresh interval must be at least 1 second")
	}
	if c.Editor.Timeout < 0 {
		return fmt.Errorf("zone store timeout must not be negative")
	}
	if c.Editor.IDScheme != "sequential" && c.Editor.IDScheme != "uuid" {
		return fmt.Errorf("invalid id scheme: %s", c.Editor.IDScheme)
	}

	return nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return fallback
}
