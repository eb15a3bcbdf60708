package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jw6ventures/eventcal/internal/config"
	"github.com/jw6ventures/eventcal/internal/events"
	httpserver "github.com/jw6ventures/eventcal/internal/http"
	"github.com/jw6ventures/eventcal/internal/refresh"
	"github.com/jw6ventures/eventcal/internal/remote"
)

func main() {
	log.Println("Starting event calendar server...")
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var opts []remote.Option
	if cfg.EventsAPI.Token != "" {
		opts = append(opts, remote.WithToken(cfg.EventsAPI.Token))
	}
	client, err := remote.New(cfg.EventsAPI.URL, cfg.EventsAPI.Timeout, opts...)
	if err != nil {
		log.Fatalf("failed to create events api client: %v", err)
	}

	store := events.NewStore(client)
	// The page still renders with the error message if the first load fails.
	loadCtx, cancelLoad := context.WithTimeout(ctx, cfg.EventsAPI.Timeout)
	if err := store.Load(loadCtx); err != nil {
		log.Printf("[WARN] initial event load failed: %v", err)
	}
	cancelLoad()

	if cfg.RefreshCron != "" {
		sched, err := refresh.New(cfg.RefreshCron, store, cfg.EventsAPI.Timeout)
		if err != nil {
			log.Fatalf("failed to schedule refresh: %v", err)
		}
		sched.Start(ctx)
		log.Printf("refreshing events on schedule %q", cfg.RefreshCron)
	}

	srv := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      httpserver.NewRouter(cfg, store),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second + cfg.EventsAPI.Timeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("server listening on %s", cfg.ListenAddr)
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
