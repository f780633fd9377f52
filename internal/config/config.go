package config

import (
	"context"
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

// App holds core runtime configuration shared across services.
type App struct {
	Name                    string        `env:"APP_NAME" envDefault:"mcq-platform"`
	Env                     string        `env:"APP_ENV" envDefault:"development"`
	HTTPAddr                string        `env:"HTTP_ADDR" envDefault:"0.0.0.0:8080"`
	GracefulShutdownTimeout time.Duration `env:"GRACEFUL_SHUTDOWN_SECONDS" envDefault:"20s"`
	LogLevel                string        `env:"LOG_LEVEL" envDefault:"info"`

	Postgres Postgres
	Redis    Redis
	Security Security
	Schedule Schedule
	Listing  Listing
	Cache    Cache
}

// Postgres captures connection info for the SQL database.
type Postgres struct {
	Host     string `env:"PG_HOST,notEmpty"`
	Port     int    `env:"PG_PORT" envDefault:"5432"`
	User     string `env:"PG_USER,notEmpty"`
	Password string `env:"PG_PASSWORD,notEmpty"`
	Database string `env:"PG_DATABASE,notEmpty"`
	SSLMode  string `env:"PG_SSL_MODE" envDefault:"disable"`
	MaxConns int32  `env:"PG_MAX_CONNS" envDefault:"10"`
	// LogLevel is the pgx tracelog level: trace, debug, info, warn, error or none.
	LogLevel     string        `env:"PG_LOG_LEVEL" envDefault:"warn"`
	ReadyTimeout time.Duration `env:"PG_READY_TIMEOUT" envDefault:"30s"`
}

// Redis holds cache configuration.
type Redis struct {
	Addr     string `env:"REDIS_ADDR,notEmpty"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
	PoolSize int    `env:"REDIS_POOL_SIZE" envDefault:"20"`
}

// Security stores secrets for signing and auth.
type Security struct {
	JWTSecret string `env:"JWT_SECRET,notEmpty"`
	// BotAPIKeyHash is the hex SHA-256 digest of the chat-bot key. Empty disables key auth.
	BotAPIKeyHash string `env:"BOT_API_KEY_HASH" envDefault:""`
}

// Schedule configures slot resolution.
type Schedule struct {
	// TimetablePath points at a YAML timetable; empty uses the built-in one.
	TimetablePath string `env:"TIMETABLE_PATH" envDefault:""`
	UTCOffset     string `env:"SCHEDULE_UTC_OFFSET" envDefault:"+05:30"`
}

// Listing governs /mcq-get/list paging.
type Listing struct {
	PageSize int `env:"LIST_PAGE_SIZE" envDefault:"10"`
}

// Cache governs the question lookup cache.
type Cache struct {
	QuestionTTL time.Duration `env:"QUESTION_CACHE_TTL" envDefault:"30s"`
}

// Load parses environment variables into App config.
func Load(ctx context.Context) (*App, error) {
	cfg := &App{}
	if err := env.ParseWithOptions(cfg, env.Options{RequiredIfNoDef: true}); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if cfg.Listing.PageSize <= 0 {
		return nil, fmt.Errorf("parse config: LIST_PAGE_SIZE must be positive, got %d", cfg.Listing.PageSize)
	}
	return cfg, nil
}
