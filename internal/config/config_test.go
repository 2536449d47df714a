package config_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tripfolio/tripfolio/internal/config"
)

// TestLoad_defaults verifies that optional env vars fall back to their defaults
// when only the required Google credentials are provided.
func TestLoad_defaults(t *testing.T) {
	t.Setenv("GOOGLE_CLIENT_ID", "client-id")
	t.Setenv("GOOGLE_CLIENT_SECRET", "client-secret")
	t.Setenv("PORT", "")
	t.Setenv("DATABASE_PATH", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("CORS_ORIGINS", "")
	t.Setenv("OAUTH_REDIRECT_URL", "")
	t.Setenv("TOKEN_PATH", "")
	t.Setenv("DRIVE_FILE_NAME", "")

	cfg, err := config.Load()

	require.NoError(t, err)
	require.Equal(t, "8080", cfg.Port)
	require.Equal(t, "tripfolio.db", cfg.DatabasePath)
	require.Equal(t, "info", cfg.LogLevel)
	require.Equal(t, []string{"http://localhost:5173"}, cfg.CORSOrigins)
	require.Equal(t, "http://localhost:8080/api/auth/callback", cfg.OAuthRedirectURL)
	require.Equal(t, "tripfolio-token.json", cfg.TokenPath)
	require.Equal(t, "tripfolio-trip.json", cfg.DriveFileName)
}

// TestLoad_overrides verifies that all values can be overridden via env vars.
func TestLoad_overrides(t *testing.T) {
	t.Setenv("GOOGLE_CLIENT_ID", "other-id")
	t.Setenv("GOOGLE_CLIENT_SECRET", "other-secret")
	t.Setenv("PORT", "9090")
	t.Setenv("DATABASE_PATH", "/var/lib/tripfolio/trips.db")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("CORS_ORIGINS", "https://app.example.com, https://admin.example.com")
	t.Setenv("OAUTH_REDIRECT_URL", "https://app.example.com/api/auth/callback")
	t.Setenv("TOKEN_PATH", "/var/lib/tripfolio/token.json")
	t.Setenv("DRIVE_FILE_NAME", "my-trip.json")

	cfg, err := config.Load()

	require.NoError(t, err)
	require.Equal(t, "9090", cfg.Port)
	require.Equal(t, "/var/lib/tripfolio/trips.db", cfg.DatabasePath)
	require.Equal(t, "debug", cfg.LogLevel)
	require.Equal(t, []string{"https://app.example.com", "https://admin.example.com"}, cfg.CORSOrigins)
	require.Equal(t, "https://app.example.com/api/auth/callback", cfg.OAuthRedirectURL)
	require.Equal(t, "/var/lib/tripfolio/token.json", cfg.TokenPath)
	require.Equal(t, "my-trip.json", cfg.DriveFileName)
}

// TestLoad_missingRequired verifies that an error is returned when the Google
// credentials are not set, and that the error message names both variables.
func TestLoad_missingRequired(t *testing.T) {
	t.Setenv("GOOGLE_CLIENT_ID", "")
	t.Setenv("GOOGLE_CLIENT_SECRET", "")

	_, err := config.Load()

	require.Error(t, err)
	require.ErrorContains(t, err, "GOOGLE_CLIENT_ID")
	require.ErrorContains(t, err, "GOOGLE_CLIENT_SECRET")
}
