package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	httpapi "github.com/i474232898/weather-search/internal/api/http"
	"github.com/i474232898/weather-search/internal/config"
	"github.com/i474232898/weather-search/internal/metrics"
	"github.com/i474232898/weather-search/internal/scheduler"
	"github.com/i474232898/weather-search/internal/session"
	"github.com/i474232898/weather-search/internal/store"
	"github.com/i474232898/weather-search/internal/weather"
	"github.com/i474232898/weather-search/internal/weather/providers"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Persistence for the last searched city.
	kv, closeStore, err := openStore(cfg)
	if err != nil {
		log.Fatalf("failed to open %s store: %v", cfg.StoreDriver, err)
	}
	defer closeStore()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	// Weather calls carry no timeout unless one is configured.
	weatherHTTP := &http.Client{Timeout: cfg.HTTPTimeout}
	client := providers.NewOpenWeatherClient(weatherHTTP, cfg.OpenWeatherBaseURL, cfg.OpenWeatherEndpoint, cfg.OpenWeatherAPIKey)

	controller := weather.NewController(client,
		weather.WithPolicy(cfg.Policy),
		weather.WithRecorder(metrics.New(reg)),
	)

	icons := providers.NewIconFetcher(&http.Client{Timeout: cfg.IconHTTPTimeout}, cfg.IconBaseURL)
	sess := session.New(controller, kv, cfg.IconBaseURL)

	if city, err := sess.LastCity(context.Background()); err != nil {
		log.Printf("ERROR: failed to read last searched city: %v", err)
	} else if city != "" {
		log.Printf("INFO: last searched city: %s", city)
	}

	sched := scheduler.New(cfg.RefreshInterval, sess)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               "weather-search",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "weather-search",
		})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	// API routes.
	httpapi.RegisterRoutes(app, sess, icons)

	go func() {
		log.Printf("INFO: listening on :%s (policy %s, store %s)", cfg.Port, cfg.Policy, cfg.StoreDriver)
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}

	// Lookups have no timeout of their own, so do not wait on them forever.
	done := make(chan struct{})
	go func() {
		controller.Close()
		close(done)
	}()
	select {
	case <-done:
	case <-shutdownCtx.Done():
		log.Printf("shutdown: abandoning in-flight weather lookups")
	}
}

func openStore(cfg *config.AppConfig) (weather.Store, func(), error) {
	switch cfg.StoreDriver {
	case "sqlite":
		s, err := store.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return s, closer("sqlite", s), nil
	case "redis":
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := rdb.Ping(ctx).Err(); err != nil {
			rdb.Close()
			return nil, nil, fmt.Errorf("redis ping: %w", err)
		}
		s := store.NewRedisStore(rdb)
		return s, closer("redis", s), nil
	default:
		return store.NewMemoryStore(), func() {}, nil
	}
}

func closer(name string, c io.Closer) func() {
	return func() {
		if err := c.Close(); err != nil {
			log.Printf("error closing %s store: %v", name, err)
		}
	}
}
