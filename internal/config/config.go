// Package config loads settings from .env, an optional athlos.yaml and the
// environment, in that order of precedence (environment wins).
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/tteodorogustavo/athlos/pkg/utils"
)

type Config struct {
	DatabaseURL     string
	HTTPAddr        string
	JWTSecret       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	LogLevel        string
	SQLLog          bool
	LoginRatePerMin int
	CORSOrigins     []string
	// TrustedProxies may set X-Forwarded-For. Empty means the peer address
	// is the client address.
	TrustedProxies  []string
	CatalogCacheTTL time.Duration

	APIURL        string
	TelegramToken string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("http_addr", ":8080")
	v.SetDefault("access_token_ttl", "24h")
	v.SetDefault("refresh_token_ttl", "168h")
	v.SetDefault("log_level", "info")
	v.SetDefault("sql_log", false)
	v.SetDefault("login_rate_per_min", 10)
	v.SetDefault("cors_origins", "http://localhost:3000")
	v.SetDefault("trusted_proxies", "")
	v.SetDefault("catalog_cache_ttl", "5m")
	v.SetDefault("api_url", "http://localhost:8080/api")
}

// Load reads the configuration. A missing .env or config file is not an
// error.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		utils.Log.Debug("No .env file found, reading environment variables")
	}

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("athlos")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.athlos")
	v.AddConfigPath("/etc/athlos")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else {
		utils.Log.Info("Using config file: " + v.ConfigFileUsed())
	}

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		DatabaseURL:     v.GetString("database_url"),
		HTTPAddr:        v.GetString("http_addr"),
		JWTSecret:       v.GetString("jwt_secret"),
		AccessTokenTTL:  v.GetDuration("access_token_ttl"),
		RefreshTokenTTL: v.GetDuration("refresh_token_ttl"),
		LogLevel:        v.GetString("log_level"),
		SQLLog:          v.GetBool("sql_log"),
		LoginRatePerMin: v.GetInt("login_rate_per_min"),
		CatalogCacheTTL: v.GetDuration("catalog_cache_ttl"),
		APIURL:          v.GetString("api_url"),
		TelegramToken:   v.GetString("telegram_token"),
	}
	cfg.CORSOrigins = splitList(v.GetString("cors_origins"))
	cfg.TrustedProxies = splitList(v.GetString("trusted_proxies"))

	if cfg.CatalogCacheTTL <= 0 {
		return nil, fmt.Errorf("catalog cache lifetime must be positive")
	}
	if cfg.AccessTokenTTL <= 0 || cfg.RefreshTokenTTL <= 0 {
		return nil, fmt.Errorf("token lifetimes must be positive")
	}
	if cfg.RefreshTokenTTL < cfg.AccessTokenTTL {
		return nil, fmt.Errorf("refresh token lifetime %s is shorter than access lifetime %s",
			cfg.RefreshTokenTTL, cfg.AccessTokenTTL)
	}
	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// RequireServer checks the settings the API server cannot start without.
func (c *Config) RequireServer() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL not set")
	}
	if len(c.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 characters")
	}
	return nil
}
