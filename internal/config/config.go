package config

import (
	"log/slog"
	"os"
	"strings"
	"time"
)

// Config holds all configuration values.
type Config struct {
	// SurrealDB connection
	SurrealDBURL       string
	SurrealDBNamespace string
	SurrealDBDatabase  string
	SurrealDBUser      string
	SurrealDBPass      string
	SurrealDBAuthLevel string

	// Slack integration
	SlackToken string

	// HTTP server
	ServerPort string

	// Pipeline timeouts
	QueryTimeout    time.Duration
	DeliveryTimeout time.Duration

	// Logging
	LogFile  string
	LogLevel slog.Level
}

// Load reads configuration from environment variables.
func Load() Config {
	return Config{
		SurrealDBURL:       getEnv("SURREALDB_URL", "ws://localhost:8000/rpc"),
		SurrealDBNamespace: getEnv("SURREALDB_NAMESPACE", "slack"),
		SurrealDBDatabase:  getEnv("SURREALDB_DATABASE", "graph"),
		SurrealDBUser:      getEnv("SURREALDB_USER", "root"),
		SurrealDBPass:      getEnv("SURREALDB_PASS", "root"),
		SurrealDBAuthLevel: getEnv("SURREALDB_AUTH_LEVEL", "root"),

		// The token Slack assigned to the slash-command integration.
		// Requests carrying any other token are rejected.
		SlackToken: os.Getenv("SLACK_TOKEN"),

		ServerPort: getEnv("SLACKABOUT_PORT", "8080"),

		QueryTimeout:    parseDuration(getEnv("SLACKABOUT_QUERY_TIMEOUT", "15s"), 15*time.Second),
		DeliveryTimeout: parseDuration(getEnv("SLACKABOUT_DELIVERY_TIMEOUT", "10s"), 10*time.Second),

		LogFile:  getEnv("SLACKABOUT_LOG_FILE", "/tmp/slackabout.log"),
		LogLevel: parseLogLevel(getEnv("SLACKABOUT_LOG_LEVEL", "INFO")),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func parseDuration(s string, defaultVal time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return defaultVal
	}
	return d
}
