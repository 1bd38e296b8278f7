// Package main is the entry point for the item service.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/vyrodovalexey/itemsvc/internal/config"
	"github.com/vyrodovalexey/itemsvc/internal/observability"
	"github.com/vyrodovalexey/itemsvc/internal/retry"
	"github.com/vyrodovalexey/itemsvc/internal/server"
	"github.com/vyrodovalexey/itemsvc/internal/storage/postgres"
)

// Version information (set at build time).
var (
	version   = "dev"
	buildTime = "unknown"
)

const shutdownTimeout = 15 * time.Second

func main() {
	configPath := flag.String("config", getEnvOrDefault("ITEMSVC_CONFIG_PATH", ""),
		"Path to configuration file")
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *showVersion {
		fmt.Printf("itemsvc version %s (built %s)\n", version, buildTime)
		return
	}

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "itemsvc: %v\n", err)
		os.Exit(1)
	}
}

// run wires the service in order: configuration, observability (logging,
// tracing, metrics), storage with schema bootstrap, HTTP server. It blocks
// until a termination signal arrives, then shuts everything down.
func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	obs := observability.New(&observability.Config{
		ServiceName:       cfg.Observability.ServiceName,
		ServiceVersion:    cfg.Observability.ServiceVersion,
		Environment:       cfg.Observability.Environment,
		LogLevel:          cfg.Observability.LogLevel,
		LogFormat:         cfg.Observability.LogFormat,
		LogOutput:         "stdout",
		TracingEnabled:    cfg.Observability.TracingEnabled,
		OTLPEndpoint:      cfg.Observability.OTLPEndpoint,
		TracingSampleRate: cfg.Observability.TracingSampleRate,
		TracingInsecure:   cfg.Observability.TracingInsecure,
		MetricsEnabled:    cfg.Observability.MetricsEnabled,
	})
	if err := obs.Start(ctx); err != nil {
		return err
	}
	logger := obs.Logger()
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := obs.Stop(stopCtx); err != nil {
			fmt.Fprintf(os.Stderr, "itemsvc: observability shutdown: %v\n", err)
		}
	}()

	logger.Info("starting itemsvc", observability.String("version", version))

	store, err := postgres.NewStore(ctx, &postgres.Config{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		Database: cfg.Database.Name,
		SSLMode:  cfg.Database.SSLMode,
		MaxConns: cfg.Database.MaxConns,
	}, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	// Startup sequencer: the database may still be coming up.
	if err := postgres.EnsureSchema(ctx, store.Pool(), &retry.Config{
		MaxAttempts: cfg.Startup.MaxAttempts,
		Delay:       cfg.Startup.RetryDelay,
	}, logger); err != nil {
		return err
	}

	var tracer trace.Tracer
	if provider := obs.TracingProvider(); provider != nil {
		tracer = provider.Tracer(cfg.Observability.ServiceName)
	}
	repo := postgres.NewItemRepo(store.Pool(), tracer, logger)

	srv := server.New(&server.Config{
		Address:      cfg.Server.Address,
		Port:         cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		ServiceName:  cfg.Observability.ServiceName,
	}, repo, obs.HTTPMetrics(), store, logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutdown signal received")

	stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Stop(stopCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	return <-errCh
}

// getEnvOrDefault returns the environment variable value or a default.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
