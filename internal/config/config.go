// Package config loads process configuration from environment variables.
//
// Config is read once at startup and treated as immutable afterwards —
// components receive the values they need at construction time and never
// consult the environment themselves.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds everything the server needs from the environment.
type Config struct {
	Port   int
	DBPath string

	// JWTSecret signs session tokens. Required.
	JWTSecret string

	// GeminiAPIKey authenticates calls to the generative content API. Required
	// for the documentation, diagram, and free-form generation routes.
	GeminiAPIKey string

	// GitHubToken is the static server-held token for the GitHub read API.
	GitHubToken string

	SMTP SMTPConfig

	// CORSAllowedOrigins for the cors middleware; "*" by default.
	CORSAllowedOrigins []string
}

// SMTPConfig holds the outbound-mail credentials used for OTP delivery.
type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

// Configured reports whether mail can actually be sent.
func (c SMTPConfig) Configured() bool {
	return c.Username != "" && c.Password != ""
}

// Load reads the .env file (if present) and the process environment and
// returns a validated Config.
func Load() (*Config, error) {
	// A missing .env is fine — production sets real environment variables.
	_ = godotenv.Load()

	cfg := &Config{
		Port:         getIntEnv("PORT", 8080),
		DBPath:       getEnv("DB_PATH", "data/codescribe.db"),
		JWTSecret:    os.Getenv("JWT_SECRET"),
		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		GitHubToken:  os.Getenv("GITHUB_TOKEN"),
		SMTP: SMTPConfig{
			Host:     getEnv("SMTP_HOST", "smtp.gmail.com"),
			Port:     getEnv("SMTP_PORT", "587"),
			Username: os.Getenv("EMAIL_USER"),
			Password: os.Getenv("EMAIL_PASS"),
			From:     getEnv("EMAIL_FROM", os.Getenv("EMAIL_USER")),
		},
		CORSAllowedOrigins: []string{getEnv("CORS_ALLOWED_ORIGIN", "*")},
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("config: JWT_SECRET is required")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getIntEnv(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
