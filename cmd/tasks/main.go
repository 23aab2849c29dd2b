package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"taskmanager/internal/logger"
	"taskmanager/internal/server"
	"taskmanager/internal/service"
	db "taskmanager/repository/db"
	inmemory "taskmanager/repository/inmemory"
	"taskmanager/repository/sqlite"
)

// store is what the API needs from any backend.
type store interface {
	service.TaskRepository
	service.UserRepository
}

func main() {
	cfg, err := server.ReadConfig(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info("starting task service", slog.String("driver", cfg.Driver))

	st, closeStore := openStore(cfg, log)
	defer closeStore()

	api := server.NewTaskAPI(st, st, cfg)
	if api == nil {
		log.Error("failed to initialise API")
		closeStore()
		os.Exit(1)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- api.Start()
	}()

	select {
	case sig := <-sigChan:
		log.Info("shutting down", slog.String("signal", sig.String()))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := api.Shutdown(shutdownCtx); err != nil {
			log.Error("graceful shutdown failed", slog.Any("error", err))
		} else {
			log.Info("graceful shutdown complete")
		}

	case err := <-serverErr:
		if err != nil {
			log.Error("server error", slog.Any("error", err))
		}
	}
}

// openStore migrates and opens the configured backend. When a SQL database
// cannot be reached the service keeps running on the in-memory store.
func openStore(cfg *server.Config, log *slog.Logger) (store, func()) {
	switch cfg.Driver {
	case "postgres":
		if err := db.Migration(cfg.DBStr, cfg.MigratePath); err != nil {
			log.Warn("migrations failed, using in-memory store", slog.Any("error", err))
			return inmemory.NewStorage(), func() {}
		}
		pg, err := db.NewStorage(cfg.DBStr, log)
		if err != nil {
			log.Warn("database unavailable, using in-memory store", slog.Any("error", err))
			return inmemory.NewStorage(), func() {}
		}
		return pg, pg.Close

	case "sqlite":
		if err := sqlite.Migration(cfg.DBStr, cfg.MigratePath); err != nil {
			log.Warn("migrations failed, using in-memory store", slog.Any("error", err))
			return inmemory.NewStorage(), func() {}
		}
		lite, err := sqlite.NewStorage(cfg.DBStr, log)
		if err != nil {
			log.Warn("database unavailable, using in-memory store", slog.Any("error", err))
			return inmemory.NewStorage(), func() {}
		}
		return lite, func() { _ = lite.Close() }
	}

	log.Info("using in-memory store")
	return inmemory.NewStorage(), func() {}
}
