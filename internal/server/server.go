package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vyrodovalexey/itemsvc/internal/item"
	"github.com/vyrodovalexey/itemsvc/internal/observability"
	"github.com/vyrodovalexey/itemsvc/internal/observability/metrics"
	"github.com/vyrodovalexey/itemsvc/internal/server/middleware"
)

// ginModeOnce ensures gin.SetMode is only called once to avoid race conditions.
var ginModeOnce sync.Once

// Config holds configuration for the HTTP server.
type Config struct {
	Port         int
	Address      string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	ServiceName  string
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Port:         8000,
		Address:      "",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
		ServiceName:  "itemsvc",
	}
}

// Pinger reports database liveness for the readiness endpoint.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server is the HTTP server for the item service. The middleware chain is
// assembled in a fixed order: request ID, recovery, tracing, metrics,
// request logging.
type Server struct {
	engine     *gin.Engine
	httpServer *http.Server
	config     *Config
	logger     observability.Logger

	mu      sync.Mutex
	running bool
}

// New creates the HTTP server with all routes and middleware wired.
// httpMetrics and pinger may be nil; the corresponding endpoints degrade
// gracefully.
func New(
	config *Config,
	repo item.Repository,
	httpMetrics *metrics.HTTPMetrics,
	pinger Pinger,
	logger observability.Logger,
) *Server {
	if config == nil {
		config = DefaultConfig()
	}
	if logger == nil {
		logger = observability.NopLogger()
	}

	ginModeOnce.Do(func() {
		gin.SetMode(gin.ReleaseMode)
	})

	engine := gin.New()
	engine.Use(
		middleware.RequestID(),
		middleware.Recovery(logger),
		middleware.TracingWithConfig(middleware.TracingConfig{
			ServiceName: config.ServiceName,
			SkipPaths:   []string{"/metrics", "/healthz", "/readyz"},
		}),
		middleware.Metrics(httpMetrics),
		middleware.LoggingWithConfig(middleware.LoggingConfig{
			Logger:    logger,
			SkipPaths: []string{"/metrics", "/healthz", "/readyz"},
		}),
	)

	s := &Server{
		engine: engine,
		config: config,
		logger: logger,
	}

	s.registerRoutes(repo, httpMetrics, pinger)

	return s
}

// registerRoutes wires the API, telemetry, and health endpoints.
func (s *Server) registerRoutes(repo item.Repository, httpMetrics *metrics.HTTPMetrics, pinger Pinger) {
	items := NewItemHandler(repo, s.logger)
	s.engine.POST("/items/", items.CreateItem)
	s.engine.GET("/items/:item_id", items.GetItem)

	if httpMetrics != nil {
		s.engine.GET("/metrics", gin.WrapH(httpMetrics.Handler()))
	}

	s.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	s.engine.GET("/readyz", func(c *gin.Context) {
		if pinger != nil {
			if err := pinger.Ping(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
}

// Engine returns the underlying gin engine.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return fmt.Errorf("server already running")
	}

	addr := fmt.Sprintf("%s:%d", s.config.Address, s.config.Port)
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.engine,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}
	s.running = true
	s.mu.Unlock()

	s.logger.Info("starting HTTP server",
		observability.String("address", addr),
		observability.Duration("readTimeout", s.config.ReadTimeout),
		observability.Duration("writeTimeout", s.config.WriteTimeout),
	)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running || s.httpServer == nil {
		return nil
	}
	s.running = false

	s.logger.Info("stopping HTTP server")
	return s.httpServer.Shutdown(ctx)
}
