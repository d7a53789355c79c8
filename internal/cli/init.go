// Package cli holds the start-up steps shared by the zakat subcommands.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"zakat/internal/archive"
	"zakat/internal/backend"
	"zakat/internal/config"
	"zakat/internal/log"
)

// SetupLogger builds the application logger at level, writing to w, and
// makes it the slog default.
func SetupLogger(w io.Writer, level string) (*log.Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	logger := log.New(log.Config{Level: lvl, Output: w, Component: log.ComponentApp})
	log.SetDefault(logger)
	return logger, nil
}

// LoadEnvFile loads a .env file from the working directory when present.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration from the environment and fs.
func LoadAndValidateConfig(fs *pflag.FlagSet) (*config.Config, error) {
	cfg, err := config.Load(fs)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Session is an open archive together with the backend it runs on.
type Session struct {
	Archive *archive.Service
	Backend *backend.BackendResult
	Logger  *log.Logger
}

// Open creates the configured backend and opens the archive on it.
func Open(ctx context.Context, logger *log.Logger, cfg *config.Config) (*Session, error) {
	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, err
	}
	res, err := backend.NewFactory(logger).CreateBackend(ctx, bcfg)
	if err != nil {
		return nil, err
	}

	svc, err := archive.Open(ctx, res.Store, archive.Options{
		DefaultYear: cfg.DefaultYear,
		Logger:      logger,
		Notifier:    res.Notifier,
	})
	if err != nil {
		res.Cleanup()
		return nil, fmt.Errorf("open archive: %w", err)
	}
	return &Session{Archive: svc, Backend: res, Logger: logger}, nil
}

func (s *Session) Close() error {
	return s.Backend.Cleanup()
}

// GracefulShutdown returns a context derived from parent that is cancelled on
// SIGINT or SIGTERM. cleanup runs once, before the context is cancelled.
// Cancelling parent releases the signal handler without running cleanup;
// done is closed once the handler has exited either way.
func GracefulShutdown(parent context.Context, logger *log.Logger, timeout time.Duration, cleanup func()) (context.Context, <-chan struct{}) {
	ctx, cancel := context.WithCancel(parent)
	done := make(chan struct{})

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		defer close(done)
		defer cancel()
		defer signal.Stop(sigChan)

		var sig os.Signal
		select {
		case <-ctx.Done():
			return
		case sig = <-sigChan:
		}
		logger.Info("Shutdown signal received", "signal", sig.String())

		finished := make(chan struct{})
		go func() {
			if cleanup != nil {
				cleanup()
			}
			close(finished)
		}()

		select {
		case <-finished:
			logger.Info("Shutdown complete")
		case <-time.After(timeout):
			logger.Warn("Shutdown timeout reached")
		}
	}()

	return ctx, done
}
