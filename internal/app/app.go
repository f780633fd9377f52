package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/mcq-platform/internal/auth"
	"github.com/gokatarajesh/mcq-platform/internal/auth/jwt"
	"github.com/gokatarajesh/mcq-platform/internal/config"
	"github.com/gokatarajesh/mcq-platform/internal/db"
	"github.com/gokatarajesh/mcq-platform/internal/db/repository"
	"github.com/gokatarajesh/mcq-platform/internal/logging"
	"github.com/gokatarajesh/mcq-platform/internal/mcq"
	"github.com/gokatarajesh/mcq-platform/internal/metrics"
	"github.com/gokatarajesh/mcq-platform/internal/server"
	"github.com/gokatarajesh/mcq-platform/internal/timetable"
)

// Application aggregates shared infrastructure (DB, cache, HTTP server).
type Application struct {
	cfg    *config.App
	logger zerolog.Logger

	pool  *pgxpool.Pool
	redis *redis.Client
	http  *http.Server
}

// New bootstraps logger, Postgres, Redis, the timetable and the HTTP server.
func New(ctx context.Context, cfg *config.App) (*Application, error) {
	logger := logging.New(cfg.Name, cfg.Env, cfg.LogLevel)
	logger.Info().Msg("starting application bootstrap")

	table, err := timetable.Load(cfg.Schedule.TimetablePath)
	if err != nil {
		return nil, fmt.Errorf("load timetable: %w", err)
	}
	loc, err := mcq.ParseOffset(cfg.Schedule.UTCOffset)
	if err != nil {
		return nil, fmt.Errorf("schedule offset: %w", err)
	}
	logger.Info().
		Str("timetable", cfg.Schedule.TimetablePath).
		Int("assignments", len(table.Entries())).
		Str("offset", loc.String()).
		Msg("timetable loaded")

	pool, err := db.NewPool(ctx, cfg.Postgres, logger)
	if err != nil {
		return nil, err
	}

	readyCtx, cancel := context.WithTimeout(ctx, cfg.Postgres.ReadyTimeout)
	defer cancel()
	if err := db.WaitReady(readyCtx, pool, nil, logger.With().Str("component", "postgres").Logger()); err != nil {
		pool.Close()
		return nil, err
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})

	questionRepo := repository.NewQuestionRepository(pool)
	mcqSvc := mcq.NewService(
		questionRepo,
		mcq.NewScheduleResolver(table, loc),
		mcq.NewListPager(cfg.Listing.PageSize),
		mcq.ServiceOptions{
			Cache: mcq.NewCache(redisClient, cfg.Cache.QuestionTTL),
		},
		logger,
	)
	mcqHandler := mcq.NewHTTPHandler(mcqSvc, metrics.NewHTTP(prometheus.DefaultRegisterer))

	tokens := jwt.NewManager(jwt.TokenConfig{
		Secret: []byte(cfg.Security.JWTSecret),
		Issuer: cfg.Name,
	})
	keys, err := auth.NewAPIKeyVerifier(cfg.Security.BotAPIKeyHash)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("BOT_API_KEY_HASH: %w", err)
	}
	if keys == nil {
		logger.Warn().Msg("BOT_API_KEY_HASH not configured; chat-bot key authentication disabled")
	}
	authenticate := auth.Middleware(tokens, keys, logger.With().Str("component", "auth").Logger())

	pingers := map[string]server.Pinger{
		"postgres": pool.Ping,
		"redis": func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		},
	}
	apiServer := server.NewHTTPServer(cfg, logger, pingers, mcqHandler, authenticate)

	return &Application{
		cfg:    cfg,
		logger: logger,
		pool:   pool,
		redis:  redisClient,
		http:   apiServer,
	}, nil
}

// Run starts the HTTP server and waits for termination signals.
func (a *Application) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info().Str("addr", a.cfg.HTTPAddr).Msg("http server listening")
		if err := a.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case sig := <-sigCh:
		a.logger.Info().Str("signal", sig.String()).Msg("shutdown signal received")
	case err := <-errCh:
		a.close()
		return fmt.Errorf("http server error: %w", err)
	case <-ctx.Done():
		a.logger.Warn().Msg("context canceled")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.GracefulShutdownTimeout)
	defer cancel()

	if err := a.http.Shutdown(shutdownCtx); err != nil {
		a.logger.Error().Err(err).Msg("http shutdown error")
	}

	a.close()
	a.logger.Info().Msg("shutdown complete")
	return nil
}

func (a *Application) close() {
	a.pool.Close()
	if err := a.redis.Close(); err != nil {
		a.logger.Error().Err(err).Msg("redis shutdown error")
	}
}
