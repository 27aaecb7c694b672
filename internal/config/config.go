package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Upstream  UpstreamConfig
	RateLimit RateLimitConfig
}

type ServerConfig struct {
	Port           string
	Env            string
	LogLevel       string
	AllowedOrigins []string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
}

type UpstreamConfig struct {
	BaseURL string
}

type RateLimitConfig struct {
	LoginMaxAttempts       int
	LoginBanDuration       time.Duration
	ContactMaxAttempts     int
	ContactWindow          time.Duration
	ContactPaths           []string
	ProxyRequestsPerMinute int
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	upstreamURL := getEnv("UPSTREAM_API_URL", "")
	if upstreamURL == "" {
		return nil, fmt.Errorf("UPSTREAM_API_URL is required")
	}
	if _, err := url.ParseRequestURI(upstreamURL); err != nil {
		return nil, fmt.Errorf("UPSTREAM_API_URL is not a valid URL: %w", err)
	}

	env := getEnv("ENV", "development")

	cfg := &Config{
		Server: ServerConfig{
			Port:           getEnv("PORT", "8080"),
			Env:            env,
			LogLevel:       getEnv("LOG_LEVEL", "info"),
			AllowedOrigins: parseAllowedOrigins(env),
			ReadTimeout:    getEnvAsDuration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:   getEnvAsDuration("SERVER_WRITE_TIMEOUT", 15*time.Second),
			IdleTimeout:    getEnvAsDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
		},
		Upstream: UpstreamConfig{
			BaseURL: upstreamURL,
		},
		RateLimit: RateLimitConfig{
			LoginMaxAttempts:       getEnvAsInt("LOGIN_MAX_ATTEMPTS", 5),
			LoginBanDuration:       getEnvAsDuration("LOGIN_BAN_DURATION", 15*time.Minute),
			ContactMaxAttempts:     getEnvAsInt("CONTACT_MAX_ATTEMPTS", 3),
			ContactWindow:          getEnvAsDuration("CONTACT_WINDOW", 1*time.Hour),
			ContactPaths:           parseContactPaths(),
			ProxyRequestsPerMinute: getEnvAsInt("PROXY_REQUESTS_PER_MINUTE", 120),
		},
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultVal
}

// parseContactPaths reads the proxied route suffixes that pass through
// the contact gate. Defaults match the portfolio API's submission routes.
func parseContactPaths() []string {
	pathsStr := getEnv("CONTACT_PATHS", "contact,mail/send")
	parts := strings.Split(pathsStr, ",")
	paths := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			paths = append(paths, p)
		}
	}
	return paths
}

func parseAllowedOrigins(env string) []string {
	if env == "production" {
		originsStr := getEnv("ALLOWED_ORIGINS", "")
		if originsStr == "" {
			return []string{} // Default to no origins in production
		}
		origins := strings.Split(originsStr, ",")
		for i, origin := range origins {
			origins[i] = strings.TrimSpace(origin)
		}
		return origins
	}

	// Development: allow localhost variants the frontend runs on
	return []string{
		"http://localhost:3000",
		"http://localhost:3001",
		"http://127.0.0.1:3000",
		"http://127.0.0.1:3001",
	}
}
