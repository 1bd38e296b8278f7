// Package postgres implements item persistence on PostgreSQL via pgx.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vyrodovalexey/itemsvc/internal/observability"
)

// Default pool settings.
const (
	defaultMaxConns       = 10
	defaultConnectTimeout = 5 * time.Second
	defaultPingTimeout    = 3 * time.Second
)

// Config holds connection parameters for the database.
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string

	MaxConns       int32
	ConnectTimeout time.Duration
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Host:           "localhost",
		Port:           5432,
		User:           "postgres",
		Password:       "postgres",
		Database:       "items",
		SSLMode:        "disable",
		MaxConns:       defaultMaxConns,
		ConnectTimeout: defaultConnectTimeout,
	}
}

// DSN renders the config as a pgx connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// Store is the PostgreSQL driver backed by pgxpool.Pool.
type Store struct {
	pool   *pgxpool.Pool
	logger observability.Logger
}

// NewStore initializes the pgx pool from the provided config and verifies
// connectivity with a ping.
func NewStore(ctx context.Context, cfg *Config, logger observability.Logger) (*Store, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if logger == nil {
		logger = observability.NopLogger()
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("postgres: parse config: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.ConnectTimeout > 0 {
		poolCfg.ConnConfig.ConnectTimeout = cfg.ConnectTimeout
	}

	// Connections are established lazily; reachability is the startup
	// sequencer's concern, not the pool's.
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("postgres: new pool: %w", err)
	}

	logger.Info("postgres store initialized",
		observability.String("host", cfg.Host),
		observability.Int("port", cfg.Port),
		observability.String("database", cfg.Database),
	)

	return &Store{pool: pool, logger: logger}, nil
}

// Close shuts down the connection pool.
func (s *Store) Close() {
	s.pool.Close()
	s.logger.Info("postgres store closed")
}

// Pool exposes the internal pool for driver-local usage.
func (s *Store) Pool() *pgxpool.Pool {
	return s.pool
}

// Ping verifies the connection is alive.
func (s *Store) Ping(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, defaultPingTimeout)
	defer cancel()
	if err := s.pool.Ping(pingCtx); err != nil {
		return fmt.Errorf("postgres: ping: %w", err)
	}
	return nil
}
