package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront/internal/config"
	httpserver "storefront/internal/http"
	"storefront/internal/http/handlers"
	applog "storefront/internal/log"
	"storefront/internal/repos"
)

func main() {
	cfg := config.Load()

	// Optional file logging
	var sinks []io.Writer
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			applog.Logger().Warn().Err(err).Str("file", cfg.LogFile).Msg("could not open log file")
		} else {
			defer f.Close()
			sinks = append(sinks, f)
		}
	}
	applog.Init(cfg.Env, cfg.LogLevel, sinks...)
	log := applog.Logger()

	db, err := repos.OpenDB(cfg.DBDriver, cfg.DBDSN, cfg.DBMaxConns)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.DBDriver).Msg("open database")
	}
	defer db.Close()

	if cfg.SeedDemo {
		if err := repos.SeedIfEmpty(context.Background(), db); err != nil {
			log.Fatal().Err(err).Msg("seed demo catalogue")
		}
	}

	app := httpserver.New(cfg, handlers.NewDeps(db, cfg))

	go func() {
		log.Info().Str("port", cfg.Port).Msg("storefront listening")
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	if err := app.ShutdownWithTimeout(5 * time.Second); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
}
