package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	"atelier/internal/platform/config"
	"atelier/internal/platform/logger"
	"atelier/internal/stubapi"
)

// main wires the stub backend: stores (postgres when a database URL is
// configured, in-memory otherwise), the seeded catalog, and the HTTP
// server lifecycle.
func main() {
	cfg := config.StubAPIFromEnv()
	log := logger.New()

	opts := []stubapi.Option{stubapi.WithLogger(log)}

	if cfg.DatabaseURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		db, err := stubapi.OpenDB(ctx, cfg.DatabaseURL)
		cancel()
		if err != nil {
			log.Error("database connection failed", "error", err)
			os.Exit(1)
		}
		defer db.Close()

		opts = append(opts,
			stubapi.WithUserStore(stubapi.NewPostgresUserStore(db)),
			stubapi.WithBagStore(stubapi.NewPostgresBagStore(db)),
			stubapi.WithFavoriteStore(stubapi.NewPostgresFavoriteStore(db)),
			stubapi.WithProductStore(stubapi.NewPostgresProductStore(db)),
		)
		log.Info("using postgres stores")
	} else {
		log.Info("using in-memory stores")
	}

	srv := stubapi.NewServer(cfg.JWTSigningKey, opts...)

	if err := stubapi.Seed(context.Background(), srv.Products()); err != nil {
		log.Error("catalog seed failed", "error", err)
		os.Exit(1)
	}

	httpSrv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	log.Info("starting stub backend", "addr", cfg.Addr)

	go func() {
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	log.Info("shutting down server gracefully")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped")
}
