package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/i474232898/weather-search/internal/weather"
	"github.com/i474232898/weather-search/internal/weather/providers"
)

var validate = validator.New()

type AppConfig struct {
	OpenWeatherAPIKey   string
	OpenWeatherBaseURL  string `validate:"required,url"`
	OpenWeatherEndpoint string `validate:"required"`
	IconBaseURL         string `validate:"required,url"`

	// HTTPTimeout bounds a weather call; 0 means no timeout.
	HTTPTimeout     time.Duration `validate:"gte=0"`
	IconHTTPTimeout time.Duration `validate:"gte=0"`

	Policy weather.SupersedePolicy

	// Persistence of the last searched city.
	StoreDriver   string `validate:"oneof=memory sqlite redis"`
	SQLitePath    string `validate:"required_if=StoreDriver sqlite"`
	RedisAddr     string `validate:"required_if=StoreDriver redis"`
	RedisPassword string
	RedisDB       int `validate:"gte=0"`

	// RefreshInterval re-submits the last searched city periodically; 0 disables it.
	RefreshInterval time.Duration `validate:"gte=0"`

	Port string `validate:"required,numeric"`
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	cfg.OpenWeatherAPIKey = os.Getenv("OPENWEATHER_API_KEY")
	cfg.OpenWeatherBaseURL = getenvDefault("OPENWEATHER_BASE_URL", providers.DefaultOpenWeatherBaseURL)
	cfg.OpenWeatherEndpoint = getenvDefault("OPENWEATHER_ENDPOINT", providers.DefaultOpenWeatherEndpoint)
	cfg.IconBaseURL = getenvDefault("OPENWEATHER_ICON_BASE_URL", providers.DefaultIconBaseURL)

	var err error
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", "0"); err != nil {
		return nil, err
	}
	if cfg.IconHTTPTimeout, err = getenvDuration("ICON_HTTP_TIMEOUT", "10s"); err != nil {
		return nil, err
	}
	if cfg.RefreshInterval, err = getenvDuration("REFRESH_INTERVAL", "0"); err != nil {
		return nil, err
	}

	cfg.Policy, err = weather.ParseSupersedePolicy(os.Getenv("SUPERSEDE_POLICY"))
	if err != nil {
		return nil, fmt.Errorf("invalid SUPERSEDE_POLICY: %w", err)
	}

	cfg.StoreDriver = getenvDefault("STORE_DRIVER", "memory")
	cfg.SQLitePath = getenvDefault("SQLITE_PATH", "weather-search.db")
	cfg.RedisAddr = getenvDefault("REDIS_ADDR", "localhost:6379")
	cfg.RedisPassword = os.Getenv("REDIS_PASSWORD")
	cfg.RedisDB = getenvInt("REDIS_DB", 0)

	cfg.Port = getenvDefault("PORT", "8080")

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if cfg.OpenWeatherAPIKey == "" {
		log.Printf("INFO: OPENWEATHER_API_KEY is not set; the provider will reject lookups")
	}

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(getenvDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
