package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"

	"github.com/turbekoff/deskcalc/pkg/env"
)

type Config struct {
	BotToken               string        `env:"CALCBOT_TELEGRAM_TOKEN,required"`
	BotOffset              int           `env:"CALCBOT_TELEGRAM_OFFSET" env-default:"0"`
	BotTimeout             int           `env:"CALCBOT_TELEGRAM_TIMEOUT" env-default:"60"`
	SessionTTL             time.Duration `env:"CALCBOT_SESSION_TTL" env-default:"20m"`
	SessionCleanupInterval time.Duration `env:"CALCBOT_SESSION_CLEANUP_INTERVAL" env-default:"1m"`
	ShutdownTimeout        time.Duration `env:"CALCBOT_SHUTDOWN_TIMEOUT" env-default:"2m"`
	LogLevel               slog.Level    `env:"CALCBOT_LOG_LEVEL" env-default:"info"`
}

func LoadConfig(lookup env.LookupFunc) (*Config, error) {
	var cfg Config
	if err := env.ReadFrom(lookup, &cfg); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	if cfg.SessionTTL <= 0 || cfg.SessionCleanupInterval <= 0 {
		return nil, errors.New("load config: session durations must be positive")
	}
	return &cfg, nil
}

func main() {
	config, err := LoadConfig(os.LookupEnv)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: config.LogLevel,
	}))

	bot, err := LoadBot(config, logger)
	if err != nil {
		logger.Error("failed to connect telegram", "error", err)
		os.Exit(1)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info("starting telegram bot")
		if err := bot.Run(); !errors.Is(err, ErrClosed) {
			logger.Error("failed to start telegram bot", "error", err)
		}
		quit <- os.Interrupt
	}()

	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer cancel()

	logger.Info("stopping telegram bot", "timeout", config.ShutdownTimeout)
	if err := bot.Shutdown(ctx); err != nil {
		logger.Error("failed to gracefully shut down telegram bot", "error", err)
	}
	logger.Info("telegram bot stopped")
}
