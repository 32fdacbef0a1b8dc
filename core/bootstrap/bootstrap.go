// Package bootstrap initializes shared infrastructure: the logger, the
// configured session store backend, and (for Postgres) the connection pool
// and schema migrations.
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/jmoiron/sqlx"

	coreconfig "github.com/stepankuzmin/BarmaidBot/core/config"
	coredatabase "github.com/stepankuzmin/BarmaidBot/core/database"
	"github.com/stepankuzmin/BarmaidBot/core/logger"
	"github.com/stepankuzmin/BarmaidBot/core/session"
)

// Options control the bootstrap pipeline.
type Options struct {
	Config   *coreconfig.Config
	Database coredatabase.Config

	LoggerInit func(*coreconfig.Config) error
	Connect    func(coredatabase.Config) (*sqlx.DB, error)
	Migrate    func(coredatabase.Config) error
}

// Result exposes infrastructure initialized by the bootstrap pipeline.
// DB is nil unless the Postgres backend is selected.
type Result struct {
	DB    *sqlx.DB
	Store session.Store
}

// Run initializes the logger and the session store backend. For Postgres it
// also connects the pool and applies migrations before serving begins.
func Run(opts Options) (*Result, error) {
	if opts.Config == nil {
		return nil, fmt.Errorf("bootstrap: nil config provided")
	}

	loggerInit := opts.LoggerInit
	if loggerInit == nil {
		loggerInit = logger.Init
	}
	if err := loggerInit(opts.Config); err != nil {
		return nil, fmt.Errorf("bootstrap: logger init failed: %w", err)
	}

	switch opts.Config.Session.Backend {
	case coreconfig.BackendPostgres:
		connect := opts.Connect
		if connect == nil {
			connect = coredatabase.Connect
		}
		db, err := connect(opts.Database)
		if err != nil {
			return nil, fmt.Errorf("bootstrap: database initialization failed: %w", err)
		}

		migrate := opts.Migrate
		if migrate == nil {
			migrate = coredatabase.RunMigrations
		}
		if err := migrate(opts.Database); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("bootstrap: migrations failed: %w", err)
		}

		return &Result{DB: db, Store: session.NewPostgresStore(db)}, nil

	case coreconfig.BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     opts.Config.Session.RedisAddr,
			Password: opts.Config.Session.RedisPassword,
			DB:       opts.Config.Session.RedisDB,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("bootstrap: redis ping failed: %w", err)
		}
		return &Result{Store: session.NewRedisStore(client)}, nil

	case coreconfig.BackendMemory:
		return &Result{Store: session.NewMemoryStore()}, nil

	default:
		return nil, fmt.Errorf("bootstrap: unknown session backend %q", opts.Config.Session.Backend)
	}
}
