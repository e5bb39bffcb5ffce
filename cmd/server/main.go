package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"grain/internal/app"
	"grain/internal/config"
	"grain/internal/server"
)

func main() {
	configPath := flag.String("config", "", "path to config.yaml (defaults only when empty)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()
	a, err := app.New(ctx, cfg, app.Options{OpenStore: true})
	if err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}
	defer a.Close()

	opts := []server.Option{server.WithLocations(cfg.Locations)}
	if a.Store != nil {
		log.Printf("✓ Connected to %s database", a.Store.Driver())
		opts = append(opts, server.WithStore(a.Store, cfg.Server.PersistAnalyses))
	}

	srv := server.NewServer(a.Analyzer, opts...)
	httpServer := srv.HTTPServer(cfg.Server.Addr, cfg.Server.ReadTimeout, cfg.Server.WriteTimeout)

	go func() {
		log.Printf("Starting server on %s (climate source: %s, cache: %s)",
			cfg.Server.Addr, cfg.Analysis.ClimateSource, cfg.Weather.Cache)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}
