package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, "./recipes.db", cfg.DatabasePath)
	assert.Equal(t, "memory", cfg.CacheType)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, 29000, cfg.PasswordIterations)
	assert.Equal(t, "Site administration", cfg.SiteIndexTitle)
	assert.Equal(t, 10, cfg.AdminPageSize)
	assert.Empty(t, cfg.AdminUsernameList())
}

func TestLoad_EnvVarOverride(t *testing.T) {
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("CACHE_TYPE", "redis")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("PASSWORD_ITERATIONS", "50000")
	t.Setenv("ADMIN_USERNAMES", "root, alice ,,")
	t.Setenv("SITE_HEADER", "Kitchen")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.HTTPPort)
	assert.Equal(t, "redis", cfg.CacheType)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.Equal(t, 50000, cfg.PasswordIterations)
	assert.Equal(t, "Kitchen", cfg.SiteHeader)
	assert.Equal(t, []string{"root", "alice"}, cfg.AdminUsernameList())
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		wantErr string
	}{
		{"unknown cache", "CACHE_TYPE", "memcached", "CACHE_TYPE"},
		{"weak iterations", "PASSWORD_ITERATIONS", "10", "PASSWORD_ITERATIONS"},
		{"zero page size", "ADMIN_PAGE_SIZE", "0", "ADMIN_PAGE_SIZE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
