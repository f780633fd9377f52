package db

import (
	"context"
	"fmt"
	"time"

	zerologadapter "github.com/jackc/pgx-zerolog"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/tracelog"
	"github.com/jpillora/backoff"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/mcq-platform/internal/config"
)

// DSN renders the libpq connection string for cfg.
func DSN(cfg config.Postgres) string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Database, cfg.SSLMode)
}

// NewPool creates a connection pool whose queries are traced through zerolog.
// The pool connects lazily; use WaitReady to block until Postgres answers.
func NewPool(ctx context.Context, cfg config.Postgres, logger zerolog.Logger) (*pgxpool.Pool, error) {
	pgcfg, err := pgxpool.ParseConfig(DSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("parse postgres config: %w", err)
	}

	if cfg.MaxConns > 0 {
		pgcfg.MaxConns = cfg.MaxConns
	}
	level, err := tracelog.LogLevelFromString(cfg.LogLevel)
	if err != nil {
		level = tracelog.LogLevelWarn
	}
	pgcfg.ConnConfig.Tracer = &tracelog.TraceLog{
		Logger:   zerologadapter.NewLogger(logger.With().Str("component", "pgx").Logger()),
		LogLevel: level,
	}

	pool, err := pgxpool.NewWithConfig(ctx, pgcfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return pool, nil
}

// Pinger is satisfied by *pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

// WaitReady pings p until it answers or ctx ends, backing off between attempts.
func WaitReady(ctx context.Context, p Pinger, boff *backoff.Backoff, logger zerolog.Logger) error {
	if boff == nil {
		boff = &backoff.Backoff{Min: 500 * time.Millisecond, Max: 10 * time.Second}
	}
	defer boff.Reset()

	for {
		err := p.Ping(ctx)
		if err == nil {
			return nil
		}

		dur := boff.Duration()
		logger.Warn().
			Err(err).
			Dur("retrying after", dur).
			Float64("attempt", boff.Attempt()).
			Msg("postgres not ready")

		timer := time.NewTimer(dur)
		select {
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("postgres not ready: %w", err)
		case <-timer.C:
		}
	}
}
