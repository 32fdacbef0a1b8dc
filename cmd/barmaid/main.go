package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"log/slog"

	tele "gopkg.in/telebot.v4"

	"github.com/stepankuzmin/BarmaidBot/core/bootstrap"
	"github.com/stepankuzmin/BarmaidBot/core/bot"
	coreconfig "github.com/stepankuzmin/BarmaidBot/core/config"
	coredatabase "github.com/stepankuzmin/BarmaidBot/core/database"
	"github.com/stepankuzmin/BarmaidBot/core/flow"
	"github.com/stepankuzmin/BarmaidBot/core/logger"
	coretelegram "github.com/stepankuzmin/BarmaidBot/core/telegram"
	"github.com/stepankuzmin/BarmaidBot/core/venues"
)

type appConfig struct {
	coreconfig.Config `yaml:",inline"`
	Database          coredatabase.Config `yaml:"database"`
}

func main() {
	if err := run(); err != nil {
		log.Fatalf("barmaid: %v", err)
	}
}

func run() error {
	// Optional .env for local development; environment wins on conflicts.
	_ = godotenv.Load()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yml"
	}

	var cfg appConfig
	if err := coreconfig.LoadInto(cfgPath, &cfg); err != nil {
		return err
	}
	if err := coreconfig.Normalize(&cfg.Config); err != nil {
		return err
	}

	infra, err := bootstrap.Run(bootstrap.Options{
		Config:   &cfg.Config,
		Database: cfg.Database,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := logger.Shutdown(); err != nil {
			log.Printf("logger shutdown error: %v", err)
		}
	}()
	if infra.DB != nil {
		defer infra.DB.Close()
	}

	searcher := venues.New(cfg.Foursquare, coretelegram.BuildHTTPClient())
	app := bot.New(flow.New(infra.Store, searcher))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	startedAt := time.Now()
	return coretelegram.Run(ctx, coretelegram.RunOptions{
		Config:      &cfg.Config,
		Middlewares: coretelegram.DefaultMiddlewares(&cfg.Config, nil),
		Routes:      app.Routes(),
		OnStart: func(ctx context.Context, _ *tele.Bot) error {
			logger.L.With("component", "app").Info("app ready",
				slog.String("event", "ready"),
				slog.Duration("startup_duration", logger.RoundMS(time.Since(startedAt))),
			)
			return nil
		},
		OnStop: func(ctx context.Context, _ *tele.Bot) error {
			logger.L.With("component", "app").Info("shutting down...",
				slog.String("event", "shutdown"),
			)
			return nil
		},
	})
}
