package utils

import (
	"os"
	"strconv"
	"time"
)

type AuthConfig struct {
	AccessSecret    string
	RefreshSecret   string
	Issuer          string
	AccessDuration  time.Duration
	RefreshDuration time.Duration
}

func LoadAuthConfig() AuthConfig {
	access := os.Getenv("GAMEVAULT_JWT_ACCESS_SECRET")
	if access == "" {
		// dev default (change for demo / production)
		access = "dev-access-secret-change-me"
	}

	refresh := os.Getenv("GAMEVAULT_JWT_REFRESH_SECRET")
	if refresh == "" {
		refresh = "dev-refresh-secret-change-me"
	}

	issuer := os.Getenv("GAMEVAULT_JWT_ISSUER")
	if issuer == "" {
		issuer = "gamevault"
	}

	return AuthConfig{
		AccessSecret:    access,
		RefreshSecret:   refresh,
		Issuer:          issuer,
		AccessDuration:  15 * time.Minute,
		RefreshDuration: 7 * 24 * time.Hour,
	}
}

type RedisConfig struct {
	Host string
	Port int
}

func LoadRedisConfig() RedisConfig {
	host := os.Getenv("GAMEVAULT_REDIS_HOST")
	if host == "" {
		host = "localhost"
	}

	port := 6379
	if v := os.Getenv("GAMEVAULT_REDIS_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			port = n
		}
	}

	return RedisConfig{Host: host, Port: port}
}

type RAWGConfig struct {
	BaseURL string
	APIKey  string
}

func LoadRAWGConfig() RAWGConfig {
	base := os.Getenv("GAMEVAULT_RAWG_BASE_URL")
	if base == "" {
		base = "https://api.rawg.io/api"
	}

	return RAWGConfig{
		BaseURL: base,
		APIKey:  os.Getenv("GAMEVAULT_RAWG_API_KEY"),
	}
}
