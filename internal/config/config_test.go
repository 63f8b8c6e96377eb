package config

import (
	"testing"
	"time"

	"github.com/i474232898/weather-search/internal/weather"
	"github.com/i474232898/weather-search/internal/weather/providers"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"OPENWEATHER_API_KEY", "OPENWEATHER_BASE_URL", "OPENWEATHER_ENDPOINT", "OPENWEATHER_ICON_BASE_URL",
		"HTTP_TIMEOUT", "ICON_HTTP_TIMEOUT", "SUPERSEDE_POLICY", "STORE_DRIVER", "SQLITE_PATH",
		"REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB", "REFRESH_INTERVAL", "PORT",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.OpenWeatherBaseURL != providers.DefaultOpenWeatherBaseURL || cfg.OpenWeatherEndpoint != providers.DefaultOpenWeatherEndpoint {
		t.Fatalf("unexpected provider defaults %+v", cfg)
	}
	if cfg.HTTPTimeout != 0 {
		t.Fatalf("expected no weather timeout by default, got %s", cfg.HTTPTimeout)
	}
	if cfg.IconHTTPTimeout != 10*time.Second {
		t.Fatalf("expected 10s icon timeout, got %s", cfg.IconHTTPTimeout)
	}
	if cfg.Policy != weather.LastCompletedWins {
		t.Fatalf("expected %s, got %s", weather.LastCompletedWins, cfg.Policy)
	}
	if cfg.StoreDriver != "memory" || cfg.Port != "8080" || cfg.RefreshInterval != 0 {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPENWEATHER_API_KEY", "secret")
	t.Setenv("HTTP_TIMEOUT", "5s")
	t.Setenv("SUPERSEDE_POLICY", "last-submitted")
	t.Setenv("STORE_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", "/tmp/w.db")
	t.Setenv("REFRESH_INTERVAL", "15m")
	t.Setenv("PORT", "9090")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.OpenWeatherAPIKey != "secret" || cfg.HTTPTimeout != 5*time.Second || cfg.RefreshInterval != 15*time.Minute {
		t.Fatalf("unexpected overrides %+v", cfg)
	}
	if cfg.Policy != weather.LastSubmittedWins || cfg.StoreDriver != "sqlite" || cfg.SQLitePath != "/tmp/w.db" || cfg.Port != "9090" {
		t.Fatalf("unexpected overrides %+v", cfg)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := map[string][2]string{
		"bad duration":     {"HTTP_TIMEOUT", "soon"},
		"negative timeout": {"HTTP_TIMEOUT", "-1s"},
		"bad policy":       {"SUPERSEDE_POLICY", "first-wins"},
		"bad driver":       {"STORE_DRIVER", "postgres"},
		"bad base url":     {"OPENWEATHER_BASE_URL", "not a url"},
		"bad port":         {"PORT", "http"},
	}
	for name, kv := range tests {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(kv[0], kv[1])
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%q", kv[0], kv[1])
			}
		})
	}
}
