package config

import (
	"os"
	"strconv"
	"time"
)

// Settings holds the runtime configuration for the CineTrackr backend.
type Settings struct {
	ListenAddr   string
	DatabasePath string
	FrontendURL  string
	SessionTTL   time.Duration
	LogFile      string
	OIDC         OIDCConfig
}

// OIDCConfig identifies the external OAuth/OIDC provider used for login.
type OIDCConfig struct {
	ProviderURL  string
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// Load reads settings from the environment, applying defaults suitable for
// local development. Missing OIDC values are surfaced at startup, not here.
func Load() Settings {
	return Settings{
		ListenAddr:   getenv("LISTEN_ADDR", ":8080"),
		DatabasePath: getenv("DATABASE_PATH", "data/cinetrackr.db"),
		FrontendURL:  getenv("FRONTEND_URL", "http://localhost:3000"),
		SessionTTL:   getenvDuration("SESSION_TTL", 24*time.Hour),
		LogFile:      os.Getenv("LOG_FILE"),
		OIDC: OIDCConfig{
			ProviderURL:  os.Getenv("OIDC_PROVIDER"),
			ClientID:     os.Getenv("OIDC_CLIENT_ID"),
			ClientSecret: os.Getenv("OIDC_CLIENT_SECRET"),
			RedirectURL:  getenv("OIDC_REDIRECT_URL", "http://localhost:8080/callback"),
		},
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	// Plain integers are treated as hours for convenience.
	if hours, err := strconv.Atoi(v); err == nil && hours > 0 {
		return time.Duration(hours) * time.Hour
	}
	return fallback
}
