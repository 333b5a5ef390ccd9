package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration loaded from environment.
type Config struct {
	Server   ServerConfig
	Event    EventConfig
	Activity ActivityConfig
	Redis    RedisConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port               string
	ReadTimeout        int
	WriteTimeout       int
	CORSAllowedOrigins string // comma-separated, or "*" for all
}

// EventConfig describes the event passes are issued for.
type EventConfig struct {
	ID         string
	RosterFile string // YAML roster; empty = built-in roster
	QRSize     int    // QR image size in pixels
}

// ActivityConfig bounds the activity log.
type ActivityConfig struct {
	Retention int // events kept in memory
	PageSize  int // events returned by the status log endpoint
}

// RedisConfig holds the optional Redis activity mirror settings. Empty Addr disables it.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Channel  string
}

// Enabled reports whether the Redis mirror is configured.
func (c RedisConfig) Enabled() bool {
	return c.Addr != ""
}

// Load reads configuration from environment, with optional .env file.
func Load() (*Config, error) {
	_ = godotenv.Load()      // .env
	_ = godotenv.Load("env") // env (no leading dot)

	cfg := &Config{
		Server: ServerConfig{
			Port:               getEnv("PORT", "8080"),
			ReadTimeout:        getEnvInt("READ_TIMEOUT_SEC", 30),
			WriteTimeout:       getEnvInt("WRITE_TIMEOUT_SEC", 30),
			CORSAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
		},
		Event: EventConfig{
			ID:         getEnv("EVENT_ID", "TECHFEST2024"),
			RosterFile: getEnv("ROSTER_FILE", ""),
			QRSize:     getEnvInt("QR_SIZE", 256),
		},
		Activity: ActivityConfig{
			Retention: getEnvInt("ACTIVITY_RETENTION", 50),
			PageSize:  getEnvInt("ACTIVITY_PAGE_SIZE", 20),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
			Channel:  getEnv("REDIS_ACTIVITY_CHANNEL", "checkin:activity"),
		},
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Activity.Retention <= 0 {
		return fmt.Errorf("ACTIVITY_RETENTION must be positive, got %d", c.Activity.Retention)
	}
	if c.Activity.PageSize <= 0 || c.Activity.PageSize > c.Activity.Retention {
		return fmt.Errorf("ACTIVITY_PAGE_SIZE must be in 1..%d, got %d", c.Activity.Retention, c.Activity.PageSize)
	}
	if c.Event.QRSize <= 0 {
		return fmt.Errorf("QR_SIZE must be positive, got %d", c.Event.QRSize)
	}
	return nil
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
