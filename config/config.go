package config

import (
	"log/slog"
	"os"
)

// Config holds the process configuration. It is built once at startup
// and passed by reference; nothing reads the environment after that.
type Config struct {
	Port          string
	DatabaseURL   string
	SessionSecret string
	GeminiAPIKey  string
	GeminiModel   string
}

// Defaults used when the environment is not set. They exist so the app
// runs out of the box for local development and must not be used in
// production.
const (
	defaultPort          = "3000"
	defaultDatabaseURL   = "microlearn.db"
	defaultSessionSecret = "supersecretkey"
	defaultGeminiModel   = "gemini-2.5-flash"
)

// Load builds the Config from the environment, logging a warning for
// every insecure default that ends up in use.
func Load() *Config {
	cfg := &Config{
		Port:          getEnv("PORT", defaultPort),
		DatabaseURL:   getEnv("DATABASE_URL", defaultDatabaseURL),
		SessionSecret: getEnv("SESSION_SECRET", defaultSessionSecret),
		GeminiAPIKey:  os.Getenv("GEMINI_API_KEY"),
		GeminiModel:   getEnv("GEMINI_MODEL", defaultGeminiModel),
	}

	if cfg.SessionSecret == defaultSessionSecret {
		slog.Warn("SESSION_SECRET not set, using insecure default")
	}
	if cfg.GeminiAPIKey == "" {
		slog.Warn("GEMINI_API_KEY not set, document processing will fail")
	}

	return cfg
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}
