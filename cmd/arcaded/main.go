// arcaded serves the arcade session engine over HTTP.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/arcadeworks/arcade-go/internal/api"
	"github.com/arcadeworks/arcade-go/internal/auth"
	"github.com/arcadeworks/arcade-go/internal/config"
	"github.com/arcadeworks/arcade-go/internal/play"
	"github.com/arcadeworks/arcade-go/internal/session"
	"github.com/arcadeworks/arcade-go/internal/stats"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("arcaded_failed err=%v", err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config load failed: %w", err)
	}

	store, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("session store init failed: %w", err)
	}
	defer store.Close()

	statsStore, err := stats.New(cfg.StatsPath)
	if err != nil {
		return fmt.Errorf("stats store init failed: %w", err)
	}
	defer statsStore.Close()

	engine := play.NewEngine(store, play.WithRecorder(statsStore))

	var verifier *auth.Verifier
	if cfg.JWTSecret != "" {
		verifier = auth.NewVerifier(cfg.JWTSecret)
	}

	server := api.NewServer(engine, statsStore, verifier)

	httpServer := &http.Server{
		Addr:    cfg.Addr,
		Handler: server.Routes(),
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("arcaded_listening addr=%s store=%s auth=%t", cfg.Addr, cfg.Store, verifier != nil)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		log.Printf("arcaded_shutdown signal=%s", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(ctx)
}

func openStore(cfg config.Config) (session.Store, error) {
	switch cfg.Store {
	case config.StoreMemory:
		return session.NewMemoryStore(), nil

	case config.StoreRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("redis ping failed: %w", err)
		}

		return session.NewRedisStore(client, cfg.SessionTTL), nil

	case config.StoreSQLite:
		return session.NewSQLiteStore(cfg.SQLitePath)

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store)
	}
}
