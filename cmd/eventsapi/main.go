package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jw6ventures/eventcal/internal/apiserver"
	"github.com/jw6ventures/eventcal/internal/config"
	"github.com/jw6ventures/eventcal/internal/store"
)

func main() {
	log.Println("Starting reference events API...")
	cfg, err := config.LoadAPIServer()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to open store: %v", err)
	}
	defer st.Close()

	srv := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      apiserver.NewRouter(cfg, st),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("events api listening on %s", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Printf("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}
}

func openStore(ctx context.Context, cfg *config.APIServerConfig) (*store.Store, error) {
	if cfg.UsePostgres() {
		pool, err := pgxpool.New(ctx, cfg.DB.DSN)
		if err != nil {
			return nil, err
		}
		if err := store.ApplyMigrations(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		log.Printf("using postgres backend")
		return store.NewPostgres(pool), nil
	}

	db, err := store.OpenSQLite(ctx, cfg.SQLitePath)
	if err != nil {
		return nil, err
	}
	log.Printf("using sqlite backend at %s", cfg.SQLitePath)
	return store.NewSQLite(db), nil
}
