// Package main runs syncd, the self-hostable settings sync and auth
// server SpreadPad talks to.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/spreadpad/spreadpad/internal/logger"
	"github.com/spreadpad/spreadpad/internal/syncserver"
)

var version = "dev"

const (
	defaultAddr     = ":8080"
	defaultDBPath   = "syncd.db"
	defaultTokenTTL = 30 * 24 * time.Hour

	shutdownTimeout = 10 * time.Second
)

func main() {
	_ = godotenv.Load()

	addr := flag.String("addr", envOr("SYNCD_ADDR", defaultAddr), "Listen address")
	dbPath := flag.String("db", envOr("SYNCD_DB", defaultDBPath), "SQLite database path")
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *showVersion {
		fmt.Printf("syncd %s\n", version)
		os.Exit(0)
	}

	if err := run(*addr, *dbPath); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(addr, dbPath string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	log := logger.New(os.Stderr, logger.LevelInfo, "syncd", nil)

	secret := os.Getenv("SYNCD_JWT_SECRET")
	if secret == "" {
		secret = "insecure-dev-secret"
		log.Warn(ctx, "SYNCD_JWT_SECRET not set, using insecure development secret")
	}

	store, err := syncserver.OpenStorage(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer store.Close()

	auth := syncserver.NewAuth(secret, defaultTokenTTL)
	api := syncserver.NewServer(store, auth, log, version)

	srv := &http.Server{
		Addr:         addr,
		Handler:      api.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "syncd listening", "addr", addr, "db", dbPath)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		log.Info(ctx, "received shutdown signal", "signal", sig.String())
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Info(ctx, "syncd stopped")
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
