package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"

	"tasktracker/internal/config"
	"tasktracker/internal/server"
	"tasktracker/internal/storage"
	"tasktracker/internal/storage/postgres"
	"tasktracker/internal/storage/sqlite"
)

func main() {
	envErr := godotenv.Load()

	configFlag := flag.String("config", os.Getenv("CONFIG_PATH"), "Path to optional YAML config file")
	portFlag := flag.Int("port", 0, "HTTP listen port (overrides ADDR)")
	flag.Parse()

	cfg, err := config.Load(*configFlag)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if *portFlag != 0 {
		host, _, _ := net.SplitHostPort(cfg.Addr)
		cfg.Addr = net.JoinHostPort(host, strconv.Itoa(*portFlag))
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	if envErr != nil {
		logger.Debug("no .env file loaded", slog.String("error", envErr.Error()))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := openPool(ctx, cfg, logger)
	if err != nil {
		logger.Error("unable to open database", slog.String("error", err.Error()))
		os.Exit(1)
	}

	srv := server.New(pool, logger, cfg.StaticDir)

	httpServer := &http.Server{
		Addr:    cfg.Addr,
		Handler: srv.Engine(),
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("addr", httpServer.Addr), slog.String("backend", cfg.Backend()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
		logger.Info("signal received, starting graceful shutdown")
	case err := <-serveErr:
		if err != nil {
			logger.Error("server stopped unexpectedly", slog.String("error", err.Error()))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to shutdown server", slog.String("error", err.Error()))
	}
	if err := pool.Close(); err != nil {
		logger.Error("failed to close database", slog.String("error", err.Error()))
	}

	logger.Info("server stopped")
}

// openPool connects the backend selected by DATABASE_URL and applies its migrations.
func openPool(ctx context.Context, cfg config.Config, logger *slog.Logger) (storage.Pool, error) {
	switch cfg.Backend() {
	case "postgres":
		return postgres.Open(ctx, cfg.DatabaseURL, cfg.PoolConfig(), logger)
	default:
		return sqlite.Open(ctx, sqlite.PathFromURL(cfg.DatabaseURL), cfg.PoolConfig(), logger)
	}
}
