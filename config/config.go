// Package config loads and validates service configuration from the
// environment and an optional .env file using Viper.
package config

import (
	"errors"
	"strings"

	"github.com/spf13/viper"
)

// Config holds service configuration loaded from the environment.
type Config struct {
	// HTTPPort is the port the HTTP server listens on.
	HTTPPort string `mapstructure:"HTTP_PORT"`
	// DatabasePath is the SQLite file (or ":memory:").
	DatabasePath string `mapstructure:"DATABASE_PATH"`

	// CacheType is "memory" or "redis".
	CacheType     string `mapstructure:"CACHE_TYPE"`
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`

	// APIToken grants view and change permissions to bearer callers.
	APIToken string `mapstructure:"API_TOKEN"`
	// APIReadonlyToken grants view permission only.
	APIReadonlyToken string `mapstructure:"API_READONLY_TOKEN"`
	// AdminUsernames is a comma-separated list of users allowed to change
	// records when authenticating with basic auth.
	AdminUsernames string `mapstructure:"ADMIN_USERNAMES"`

	// PasswordIterations is the PBKDF2 iteration count for new hashes.
	PasswordIterations int `mapstructure:"PASSWORD_ITERATIONS"`

	SiteTitle      string `mapstructure:"SITE_TITLE"`
	SiteHeader     string `mapstructure:"SITE_HEADER"`
	SiteIndexTitle string `mapstructure:"SITE_INDEX_TITLE"`
	AdminPageSize  int    `mapstructure:"ADMIN_PAGE_SIZE"`
}

// Load reads .env (if present), then builds and validates Config from the environment via Viper.
// Env vars override .env.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig() // ignore ErrConfigFileNotFound

	v.AutomaticEnv()

	v.SetDefault("HTTP_PORT", "8080")
	v.SetDefault("DATABASE_PATH", "./recipes.db")
	v.SetDefault("CACHE_TYPE", "memory")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("API_TOKEN", "")
	v.SetDefault("API_READONLY_TOKEN", "")
	v.SetDefault("ADMIN_USERNAMES", "")
	v.SetDefault("PASSWORD_ITERATIONS", 29000)
	v.SetDefault("SITE_TITLE", "Recipes admin")
	v.SetDefault("SITE_HEADER", "Recipes administration")
	v.SetDefault("SITE_INDEX_TITLE", "Site administration")
	v.SetDefault("ADMIN_PAGE_SIZE", 10)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.HTTPPort == "" {
		return nil, errors.New("config: HTTP_PORT must be set")
	}
	if cfg.DatabasePath == "" {
		return nil, errors.New("config: DATABASE_PATH must be set")
	}
	if cfg.CacheType != "memory" && cfg.CacheType != "redis" {
		return nil, errors.New("config: CACHE_TYPE must be memory or redis")
	}
	if cfg.PasswordIterations < 1000 {
		return nil, errors.New("config: PASSWORD_ITERATIONS must be at least 1000")
	}
	if cfg.AdminPageSize < 1 {
		return nil, errors.New("config: ADMIN_PAGE_SIZE must be positive")
	}

	return &cfg, nil
}

// AdminUsernameList returns the admin usernames from the comma-separated config.
func (c *Config) AdminUsernameList() []string {
	if c == nil || c.AdminUsernames == "" {
		return nil
	}
	parts := strings.Split(c.AdminUsernames, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
