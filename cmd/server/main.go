// Course survival tracker - typed command surface for the chat layer.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/origincode/arcmugbot/internal/api"
	"github.com/origincode/arcmugbot/internal/config"
	"github.com/origincode/arcmugbot/internal/courses"
	"github.com/origincode/arcmugbot/internal/domain"
	"github.com/origincode/arcmugbot/internal/feed"
	"github.com/origincode/arcmugbot/internal/identity"
	"github.com/origincode/arcmugbot/internal/middleware"
	"github.com/origincode/arcmugbot/internal/store"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("Starting server", "port", cfg.Port, "period", cfg.Period, "dev", cfg.IsDevelopment())

	// Load the course catalog for this period. A missing or malformed
	// catalog is fatal; no partial catalog is accepted.
	catalog, err := store.LoadCatalog(cfg.CatalogPath())
	if err != nil {
		slog.Error("Failed to load course catalog", "error", err)
		os.Exit(1)
	}
	slog.Info("Course catalog loaded", "courses", len(catalog))

	// Open the record snapshot. A missing file means a fresh period.
	repo, err := store.NewSnapshot(cfg.RecordsPath())
	if err != nil {
		slog.Error("Failed to load record snapshot", "error", err)
		os.Exit(1)
	}

	// Initialize services.
	hub := feed.NewHub()
	rule := domain.Rule{Great: cfg.Rule.Great, Good: cfg.Rule.Good, Miss: cfg.Rule.Miss}
	svc := courses.New(catalog, repo, rule, hub)

	// Initialize handlers.
	handler := api.NewHandler(svc)
	feedHandler := feed.NewHandler(hub, cfg.FrontendURL, cfg.IsDevelopment())

	// Setup router.
	r := chi.NewRouter()

	// Global middleware.
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))
	corsOrigins := []string{"*"}
	if !cfg.IsDevelopment() {
		corsOrigins = []string{cfg.FrontendURL}
	}
	r.Use(middleware.CORS(corsOrigins))
	r.Use(identity.Middleware())

	handler.RegisterRoutes(r)

	// WebSocket endpoint.
	r.Get("/ws/rank", feedHandler.ServeHTTP)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0, // 0 = no timeout, the rank feed holds connections open
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Start server.
	go func() {
		slog.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal.
	<-ctx.Done()
	stop()

	slog.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server stopped successfully")
}
