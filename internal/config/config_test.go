package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)

	cfg, err := fromViper(v)
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, 24*time.Hour, cfg.AccessTokenTTL)
	assert.Equal(t, 7*24*time.Hour, cfg.RefreshTokenTTL)
	assert.Equal(t, 10, cfg.LoginRatePerMin)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSOrigins)
	assert.Empty(t, cfg.TrustedProxies)
	assert.Equal(t, 5*time.Minute, cfg.CatalogCacheTTL)
	assert.Error(t, cfg.RequireServer())
}

func TestOverridesAndValidation(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("database_url", "postgres://localhost/athlos")
	v.Set("jwt_secret", "0123456789abcdef0123456789abcdef")
	v.Set("cors_origins", "https://a.example, https://b.example ,")
	v.Set("trusted_proxies", "10.0.0.0/8, 127.0.0.1")

	cfg, err := fromViper(v)
	require.NoError(t, err)
	assert.NoError(t, cfg.RequireServer())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.Equal(t, []string{"10.0.0.0/8", "127.0.0.1"}, cfg.TrustedProxies)

	v.Set("refresh_token_ttl", "1h")
	_, err = fromViper(v)
	assert.Error(t, err)
}
