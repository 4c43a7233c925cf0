package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	AppPort string

	MaxConcurrentUsers int
	AllowedOrigins     []string

	RateLimitWindow      time.Duration
	RateLimitMaxRequests int

	SessionTimeout  time.Duration
	CleanupInterval time.Duration

	DiscordTimeout time.Duration
}

// Load reads configuration from the environment. Window and timeout
// variables are millisecond values.
func Load() Config {

	cfg := Config{

		AppPort: envString("PORT", "8080"),

		MaxConcurrentUsers: envInt("MAX_CONCURRENT_USERS", 100),
		AllowedOrigins:     strings.Split(envString("ALLOWED_ORIGINS", "*"), ","),

		RateLimitWindow:      envMillis("RATE_LIMIT_WINDOW", 60000),
		RateLimitMaxRequests: envInt("RATE_LIMIT_MAX_REQUESTS", 100),

		SessionTimeout:  envMillis("SESSION_TIMEOUT", 1800000), // 30 minutes
		CleanupInterval: envMillis("CLEANUP_INTERVAL", 300000), // 5 minutes

		DiscordTimeout: envMillis("DISCORD_TIMEOUT", 30000),
	}

	return cfg

}

func envString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func envMillis(key string, def int) time.Duration {
	return time.Duration(envInt(key, def)) * time.Millisecond
}
