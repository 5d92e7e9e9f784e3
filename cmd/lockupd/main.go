// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/lockup/lib/clock"
	"github.com/bureau-foundation/lockup/lib/config"
	"github.com/bureau-foundation/lockup/lib/ledgerservice"
	"github.com/bureau-foundation/lockup/lib/process"
	"github.com/bureau-foundation/lockup/lib/service"
	"github.com/bureau-foundation/lockup/lib/sqlitepool"
	"github.com/bureau-foundation/lockup/lib/state"
	"github.com/bureau-foundation/lockup/lib/transition"
	"github.com/bureau-foundation/lockup/lib/version"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		process.Fatal(err)
	}
}

func run(args []string) error {
	var (
		configPath  string
		showVersion bool
	)

	flags := pflag.NewFlagSet("lockupd", pflag.ContinueOnError)
	flags.StringVar(&configPath, "config", "", "config file (default: $LOCKUP_CONFIG, then built-in defaults)")
	flags.BoolVar(&showVersion, "version", false, "print version information and exit")
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	if showVersion {
		fmt.Printf("lockupd %s\n", version.Info())
		return nil
	}

	cfg, err := config.Resolve(configPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger, err := newLogger(os.Stderr, cfg.Log)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return serve(ctx, cfg, clock.Real(), logger)
}

func newLogger(w io.Writer, cfg config.LogConfig) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		return nil, fmt.Errorf("log level %q: %w", cfg.Level, err)
	}
	options := &slog.HandlerOptions{Level: level}
	if cfg.Format == "text" {
		return slog.New(slog.NewTextHandler(w, options)), nil
	}
	return slog.New(slog.NewJSONHandler(w, options)), nil
}

// serve runs the daemon until ctx is cancelled.
func serve(ctx context.Context, cfg *config.Config, clk clock.Clock, logger *slog.Logger) error {
	if err := cfg.EnsurePaths(); err != nil {
		return err
	}

	lock, err := state.Lock(cfg.Paths.State)
	if err != nil {
		return err
	}
	defer lock.Release()

	store, err := state.OpenSQLite(state.SQLiteConfig{
		Path:        cfg.DatabasePath(),
		PoolSize:    cfg.Store.PoolSize,
		Synchronous: sqlitepool.Synchronous(cfg.Store.Synchronous),
		Logger:      logger,
	})
	if err != nil {
		return err
	}
	defer store.Close()

	processor, err := transition.NewProcessor(transition.Config{
		Store:       store,
		Clock:       clk,
		MaxValidity: cfg.Transition.MaxValidity,
		Logger:      logger,
	})
	if err != nil {
		return err
	}

	socketServer := service.NewSocketServer(cfg.Paths.Socket, logger)
	ledgerservice.New(store, processor, clk, logger).Register(socketServer)

	socketDone := make(chan error, 1)
	go func() {
		socketDone <- socketServer.Serve(ctx)
	}()

	logger.Info("lockupd running",
		"environment", string(cfg.Environment),
		"socket", cfg.Paths.Socket,
		"database", cfg.DatabasePath(),
		"version", version.Info(),
	)

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
		return <-socketDone
	case err := <-socketDone:
		return err
	}
}
