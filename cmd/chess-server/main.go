// FILE: cmd/chess-server/main.go
// Package main runs the chess rules server: a JSON API and a websocket
// game stream, with optional SQLite persistence.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tilechess/cmd/chess-server/cli"
	"tilechess/internal/http"
	"tilechess/internal/processor"
	"tilechess/internal/service"
	"tilechess/internal/storage"

	"github.com/rs/zerolog"
)

const (
	gracefulShutdownTimeout = time.Second * 5
	restoreTimeout          = time.Second * 30
)

func main() {
	// Database maintenance commands
	if len(os.Args) > 1 && os.Args[1] == "db" {
		if err := cli.Run(os.Args[2:], os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "CLI error: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	var (
		apiHost     = flag.String("api-host", "localhost", "API server host")
		apiPort     = flag.Int("api-port", 8080, "API server port")
		dev         = flag.Bool("dev", false, "Development mode (relaxed rate limits, console logs)")
		storagePath = flag.String("storage-path", "", "Path to SQLite database file (disables persistence if empty)")
		pidPath     = flag.String("pid", "", "Optional path to write PID file")
		pidLock     = flag.Bool("pid-lock", false, "Lock PID file to allow only one instance (requires -pid)")
		logLevel    = flag.String("log-level", "info", "Log level (debug|info|warn|error)")
		workers     = flag.Int("restore-workers", service.DefaultRestoreWorkers, "Workers used to reload stored games")
	)
	flag.Parse()

	log := newLogger(*dev, *logLevel)

	if *pidLock && *pidPath == "" {
		log.Fatal().Msg("-pid-lock flag requires the -pid flag to be set")
	}

	if *pidPath != "" {
		cleanup, err := managePIDFile(*pidPath, *pidLock)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to manage PID file")
		}
		defer cleanup()
		log.Info().Str("path", *pidPath).Bool("lock", *pidLock).Msg("PID file created")
	}

	// 1. Storage (optional)
	var store *storage.Store
	if *storagePath != "" {
		log.Info().Str("path", *storagePath).Msg("initializing persistent storage")
		var err error
		store, err = storage.NewStore(*storagePath, *dev, log)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize storage")
		}
		if err := store.InitDB(); err != nil {
			log.Fatal().Err(err).Msg("failed to initialize schema")
		}
	} else {
		log.Info().Msg("persistent storage disabled (use -storage-path to enable)")
	}

	// 2. Service, reloading stored games
	svc := service.New(store, log)
	if store != nil {
		ctx, cancel := context.WithTimeout(context.Background(), restoreTimeout)
		n, err := svc.RestoreGames(ctx, *workers)
		cancel()
		if err != nil {
			log.Warn().Err(err).Int("restored", n).Msg("some games could not be restored")
		}
	}

	// 3. Processor
	proc := processor.New(svc, log)

	// 4. HTTP surface
	app := http.NewFiberApp(proc, svc, http.Config{
		DevMode:   *dev,
		AccessLog: os.Stdout,
		Log:       log,
	})

	apiAddr := fmt.Sprintf("%s:%d", *apiHost, *apiPort)

	go func() {
		log.Info().
			Str("addr", "http://"+apiAddr).
			Str("games", "http://"+apiAddr+"/api/v1/games").
			Str("stream", "ws://"+apiAddr+"/ws/games/:gameId").
			Bool("dev", *dev).
			Str("storage", svc.GetStorageHealth()).
			Msg("chess API server starting")

		if err := app.Listen(apiAddr); err != nil {
			log.Error().Err(err).Msg("API server listen error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("server forced to shutdown")
	}

	// Releases waiters, then drains and closes storage
	if err := svc.Shutdown(gracefulShutdownTimeout); err != nil {
		log.Warn().Err(err).Msg("service shutdown error")
	}

	log.Info().Msg("server exited")
}

func newLogger(dev bool, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}

	var log zerolog.Logger
	if dev {
		log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	} else {
		log = zerolog.New(os.Stderr)
	}
	return log.Level(lvl).With().Timestamp().Logger()
}
