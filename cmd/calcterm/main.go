// Command calcterm runs the desk calculator in a terminal.
package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/gdamore/tcell/v2"
	"github.com/pkg/errors"

	"github.com/turbekoff/deskcalc/pkg/calc"
	"github.com/turbekoff/deskcalc/pkg/env"
)

type Config struct {
	LogFile  string     `env:"CALCTERM_LOG_FILE"`
	LogLevel slog.Level `env:"CALCTERM_LOG_LEVEL" env-default:"info"`
}

// newLogger writes to the configured file; the screen owns stdout and
// stderr while the calculator runs.
func newLogger(cfg *Config) (*slog.Logger, io.Closer, error) {
	if cfg.LogFile == "" {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), io.NopCloser(nil), nil
	}
	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, errors.Wrap(err, "open log file")
	}
	handler := slog.NewTextHandler(f, &slog.HandlerOptions{Level: cfg.LogLevel})
	return slog.New(handler), f, nil
}

func run() error {
	var cfg Config
	if err := env.Read(&cfg); err != nil {
		return errors.Wrap(err, "load config")
	}

	logger, closer, err := newLogger(&cfg)
	if err != nil {
		return err
	}
	defer closer.Close()

	screen, err := tcell.NewScreen()
	if err != nil {
		return errors.Wrap(err, "create screen")
	}
	if err := screen.Init(); err != nil {
		return errors.Wrap(err, "init screen")
	}
	defer screen.Fini()

	logger.Info("calculator started")
	newUI(screen, calc.NewEngine(), logger).run()
	logger.Info("calculator stopped")
	return nil
}

func main() {
	if err := run(); err != nil {
		slog.Error("calcterm failed", "error", err)
		os.Exit(1)
	}
}
