package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Lixing-Zhang/catalog-browser/internal/catalog"
	"github.com/Lixing-Zhang/catalog-browser/internal/config"
	"github.com/Lixing-Zhang/catalog-browser/internal/repository"
	"github.com/Lixing-Zhang/catalog-browser/internal/service"
	"github.com/Lixing-Zhang/catalog-browser/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel)
	slog.SetDefault(log)

	if err := run(cfg, log); err != nil {
		log.Error("server exited with error", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped gracefully")
}

func run(cfg *config.Config, log *slog.Logger) error {
	log.Info("starting catalog browser server",
		"port", cfg.Server.Port,
		"host", cfg.Server.Host,
		"catalog_url", cfg.Catalog.BaseURL,
		"catalog_timeout", cfg.Catalog.RequestTimeout(),
		"log_level", cfg.LogLevel,
	)

	catalogClient := catalog.NewClient(cfg.Catalog.BaseURL, cfg.Catalog.RequestTimeout(), log)
	browserService := service.NewBrowserService(repository.NewInMemorySessionRepository(), catalogClient, log)

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      newRouter(cfg, log, browserService),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "address", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return fmt.Errorf("server failed to start: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down server...", "active_sessions", browserService.ActiveSessions(context.Background()))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	return nil
}
