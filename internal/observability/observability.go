package observability

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/vyrodovalexey/itemsvc/internal/observability/metrics"
	"github.com/vyrodovalexey/itemsvc/internal/observability/tracing"
)

// Config holds configuration for observability.
type Config struct {
	// Service information
	ServiceName    string
	ServiceVersion string
	Environment    string

	// Logging configuration
	LogLevel  string
	LogFormat string
	LogOutput string

	// Tracing configuration
	TracingEnabled    bool
	OTLPEndpoint      string
	TracingSampleRate float64
	TracingInsecure   bool

	// Metrics configuration
	MetricsEnabled bool
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	logCfg := DefaultLogConfig()
	return &Config{
		ServiceName:       "itemsvc",
		ServiceVersion:    "1.0.0",
		Environment:       "development",
		LogLevel:          logCfg.Level,
		LogFormat:         logCfg.Format,
		LogOutput:         logCfg.Output,
		TracingEnabled:    true,
		OTLPEndpoint:      "localhost:4317",
		TracingSampleRate: 1.0,
		TracingInsecure:   true,
		MetricsEnabled:    true,
	}
}

// Observability owns the logging, tracing, and metrics components. Start
// initializes them in a fixed order; all instances are explicit, nothing
// hides behind package-level singletons.
type Observability struct {
	config          *Config
	logger          Logger
	tracingProvider *tracing.Provider
	httpMetrics     *metrics.HTTPMetrics
}

// New creates a new Observability instance.
func New(config *Config) *Observability {
	if config == nil {
		config = DefaultConfig()
	}
	return &Observability{config: config}
}

// Start initializes all observability components in order: logging, then
// tracing, then metrics.
func (o *Observability) Start(ctx context.Context) error {
	if err := o.initLogging(); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}

	o.logger.Info("initializing observability",
		String("service", o.config.ServiceName),
		String("version", o.config.ServiceVersion),
		String("environment", o.config.Environment),
	)

	if o.config.TracingEnabled {
		if err := o.initTracing(ctx); err != nil {
			return fmt.Errorf("failed to initialize tracing: %w", err)
		}
	}

	if o.config.MetricsEnabled {
		o.httpMetrics = metrics.NewHTTPMetrics()
	}

	o.logger.Info("observability initialized successfully")
	return nil
}

// Stop shuts down all observability components.
func (o *Observability) Stop(ctx context.Context) error {
	if o.logger != nil {
		o.logger.Info("stopping observability")
	}

	var errs []error

	if o.tracingProvider != nil {
		if err := o.tracingProvider.Stop(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to stop tracing provider: %w", err))
		}
	}

	if o.logger != nil {
		if err := o.logger.Sync(); err != nil {
			// Sync to stdout/stderr fails on some platforms; not actionable.
			if o.config.LogOutput != "stdout" && o.config.LogOutput != "stderr" && o.config.LogOutput != "" {
				errs = append(errs, fmt.Errorf("failed to sync logger: %w", err))
			}
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// initLogging initializes the logging component.
func (o *Observability) initLogging() error {
	logger, err := NewLogger(LogConfig{
		Level:  o.config.LogLevel,
		Format: o.config.LogFormat,
		Output: o.config.LogOutput,
	})
	if err != nil {
		return err
	}

	o.logger = logger.With(
		String("service", o.config.ServiceName),
		String("version", o.config.ServiceVersion),
		String("environment", o.config.Environment),
	)
	return nil
}

// initTracing initializes the tracing component.
func (o *Observability) initTracing(ctx context.Context) error {
	provider, err := tracing.NewProvider(&tracing.Config{
		ServiceName:    o.config.ServiceName,
		ServiceVersion: o.config.ServiceVersion,
		Environment:    o.config.Environment,
		ExporterType:   tracing.ExporterOTLPGRPC,
		Endpoint:       o.config.OTLPEndpoint,
		Insecure:       o.config.TracingInsecure,
		SampleRate:     o.config.TracingSampleRate,
	}, zapFromLogger(o.logger))
	if err != nil {
		return err
	}

	if err := provider.Start(ctx); err != nil {
		return err
	}

	o.tracingProvider = provider
	return nil
}

// Logger returns the logger.
func (o *Observability) Logger() Logger {
	return o.logger
}

// TracingProvider returns the tracing provider, nil when tracing is disabled.
func (o *Observability) TracingProvider() *tracing.Provider {
	return o.tracingProvider
}

// HTTPMetrics returns the HTTP metrics, nil when metrics are disabled.
func (o *Observability) HTTPMetrics() *metrics.HTTPMetrics {
	return o.httpMetrics
}

// zapFromLogger unwraps the underlying zap logger from a facade Logger.
func zapFromLogger(l Logger) *zap.Logger {
	if zl, ok := l.(*zapLogger); ok {
		return zl.logger
	}
	return zap.NewNop()
}
