// Package config loads and validates application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strings"
)

// Config holds all configuration values for the API server.
// Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string

	// DatabasePath is the path of the SQLite database file that holds the
	// local trip cache and sync bookkeeping. Defaults to "tripfolio.db".
	DatabasePath string

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Defaults to ["http://localhost:5173"] (Vite dev server).
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string

	// GoogleClientID and GoogleClientSecret are the OAuth credentials for the
	// Google Drive integration. Both required.
	GoogleClientID     string
	GoogleClientSecret string

	// OAuthRedirectURL is the registered OAuth callback URL. Defaults to
	// "http://localhost:8080/api/auth/callback".
	OAuthRedirectURL string

	// TokenPath is the file the Google OAuth token is persisted to.
	// Defaults to "tripfolio-token.json".
	TokenPath string

	// DriveFileName is the name of the trip document in Google Drive.
	// Defaults to "tripfolio-trip.json".
	DriveFileName string
}

// Load reads configuration from environment variables and returns a Config.
// Returns an error listing any required variables that are not set.
func Load() (Config, error) {
	cfg := Config{
		Port:             getEnv("PORT", "8080"),
		DatabasePath:     getEnv("DATABASE_PATH", "tripfolio.db"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		CORSOrigins:      splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		OAuthRedirectURL: getEnv("OAUTH_REDIRECT_URL", "http://localhost:8080/api/auth/callback"),
		TokenPath:        getEnv("TOKEN_PATH", "tripfolio-token.json"),
		DriveFileName:    getEnv("DRIVE_FILE_NAME", "tripfolio-trip.json"),
	}

	var missing []string

	cfg.GoogleClientID = os.Getenv("GOOGLE_CLIENT_ID")
	if cfg.GoogleClientID == "" {
		missing = append(missing, "GOOGLE_CLIENT_ID")
	}
	cfg.GoogleClientSecret = os.Getenv("GOOGLE_CLIENT_SECRET")
	if cfg.GoogleClientSecret == "" {
		missing = append(missing, "GOOGLE_CLIENT_SECRET")
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}

	return cfg, nil
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
