// Package main implements the checkers server: a RESTful API where a human
// player plays draughts against a computer opponent.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"checkers/cmd/checkers-server/cli"
	"checkers/internal/server/http"
	"checkers/internal/server/processor"
	"checkers/internal/server/service"
	"checkers/internal/server/storage"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	gracefulShutdownTimeout = time.Second * 5
)

func main() {
	// Check for CLI database commands
	if len(os.Args) > 1 && os.Args[1] == "db" {
		if err := cli.Run(os.Args[2:]); err != nil {
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
		thinkTime   = flag.Int("think-time", 350, "Computer thinking delay in milliseconds")
		chainDelay  = flag.Int("chain-delay", 300, "Delay between computer chain captures in milliseconds")
		workers     = flag.Int("workers", processor.DefaultWorkers, "Opponent queue workers")
		logLevel    = flag.String("log-level", "info", "Log level (trace, debug, info, warn, error)")
	)
	flag.Parse()

	configureLogging(*logLevel, *dev)

	// 1. Storage (optional)
	var store *storage.Store
	if *storagePath != "" {
		log.Info().Str("path", *storagePath).Msg("initializing persistent storage")
		var err error
		store, err = storage.NewStore(*storagePath, *dev)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize storage")
		}
		if err := store.InitDB(); err != nil {
			log.Fatal().Err(err).Msg("failed to initialize schema")
		}
	} else {
		log.Info().Msg("persistent storage disabled (use -storage-path to enable)")
	}

	// 2. Service owns games and storage
	svc := service.New(store)

	// 3. Processor schedules computer steps
	proc := processor.New(svc, processor.Config{
		Workers:    *workers,
		ThinkTime:  time.Duration(*thinkTime) * time.Millisecond,
		ChainDelay: time.Duration(*chainDelay) * time.Millisecond,
	})

	// 4. HTTP API
	app := http.NewFiberApp(proc, svc, *dev)
	apiAddr := fmt.Sprintf("%s:%d", *apiHost, *apiPort)

	go func() {
		log.Info().
			Str("addr", "http://"+apiAddr).
			Bool("dev", *dev).
			Int("thinkTimeMs", *thinkTime).
			Int("chainDelayMs", *chainDelay).
			Str("storage", svc.GetStorageHealth()).
			Msg("checkers API server starting")
		log.Info().Msgf("API Endpoints: http://%s/api/v1/games", apiAddr)
		log.Info().Msgf("Health: http://%s/health", apiAddr)

		if err := app.Listen(apiAddr); err != nil {
			log.Error().Err(err).Msg("API server listen error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer shutdownCancel()

	// Long-polls would otherwise hold the HTTP server until their timeout
	if err := svc.ReleaseWaiters(gracefulShutdownTimeout); err != nil {
		log.Warn().Err(err).Msg("failed to release waiting clients")
	}

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("server forced to shutdown")
	}

	if err := proc.Close(); err != nil {
		log.Warn().Err(err).Msg("processor close error")
	}

	// Service shutdown cancels pending steps and closes storage
	if err := svc.Shutdown(gracefulShutdownTimeout); err != nil {
		log.Warn().Err(err).Msg("service shutdown error")
	}

	log.Info().Msg("server exited")
}

func configureLogging(level string, dev bool) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)

	if dev {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
	if err != nil {
		log.Warn().Str("level", level).Msg("unknown log level, using info")
	}
}
