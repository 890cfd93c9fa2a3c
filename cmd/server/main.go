// Package main is the entry point for the price table server.
// One workspace per browser session, backed by the remote price API.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"pricetable/internal/core/types"
	"pricetable/internal/domain/filter"
	"pricetable/internal/domain/pricetable"
	v1 "pricetable/internal/infrastructure/http/v1"
	"pricetable/internal/infrastructure/priceapi"
	"pricetable/internal/infrastructure/session"
	"pricetable/pkg/logger"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	// Initialize logger
	log, err := logger.New(logger.Config{
		Level:       getEnv("LOG_LEVEL", "info"),
		Development: getEnv("APP_ENV", "development") == "development",
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logger.SetDefault(log)

	log.Infow("starting pricetable server", "version", version)

	// W3C trace context on outgoing price API calls
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	// --- Price API client ---
	apiCfg := priceapi.DefaultConfig(mustEnv("PRICE_API_URL"))
	apiCfg.Timeout = getEnvDuration("PRICE_API_TIMEOUT", apiCfg.Timeout)
	if secret := getEnv("PRICE_API_TOKEN_SECRET", ""); secret != "" {
		tokenCfg := priceapi.DefaultTokenConfig(secret)
		tokenCfg.Issuer = getEnv("PRICE_API_TOKEN_ISSUER", tokenCfg.Issuer)
		tokenCfg.TTL = getEnvDuration("PRICE_API_TOKEN_TTL", tokenCfg.TTL)
		apiCfg.Token = tokenCfg
	}

	client, err := priceapi.New(apiCfg, nil)
	if err != nil {
		log.Fatalw("failed to create price API client", "error", err)
	}
	defer client.Close()

	log.Infow("price API client initialized",
		"base_url", apiCfg.BaseURL,
		"timeout", apiCfg.Timeout,
		"service_token", apiCfg.Token.Secret != "",
	)

	// --- Presentation ---
	formatter, err := types.NewFormatter(
		getEnv("DISPLAY_LOCALE", "en-US"),
		getEnv("CURRENCY_SYMBOL", "$"),
	)
	if err != nil {
		log.Fatalw("failed to create formatter", "error", err)
	}

	matcher, err := filter.NewLocalMatcher()
	if err != nil {
		log.Fatalw("failed to compile local filters", "error", err)
	}

	views := pricetable.NewViewBuilder(formatter, matcher)

	// --- Session Manager ---
	sessionCfg := session.DefaultManagerConfig()
	sessionCfg.MaxSessions = getEnvInt("SESSION_MAX", sessionCfg.MaxSessions)
	sessionCfg.IdleTimeout = getEnvDuration("SESSION_IDLE_TIMEOUT", sessionCfg.IdleTimeout)
	sessionCfg.FailurePolicy = pricetable.ParseFailurePolicy(getEnvBool("CLEAR_LOADING_ON_FAILURE", true))

	sessions := session.NewManager(sessionCfg, client, log)
	defer sessions.Close()

	log.Infow("session manager initialized",
		"locale", formatter.Locale(),
		"failure_policy", sessionCfg.FailurePolicy.String(),
	)

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Logger:   log,
		Gateway:  client,
		Sessions: sessions,
		Views:    views,
		Version:  version,
	})

	// --- HTTP Server ---
	port := getEnv("APP_PORT", "8080")
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Infow("server starting", "port", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	// Give outstanding requests 30 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func mustEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		fmt.Printf("required environment variable %s not set\n", key)
		os.Exit(1)
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var result int
		if _, err := fmt.Sscanf(value, "%d", &result); err == nil {
			return result
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
