package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/coder/websocket"
	"github.com/gorilla/mux"

	"github.com/inamate/inamate/lottiegen/internal/auth"
	"github.com/inamate/inamate/lottiegen/internal/config"
	"github.com/inamate/inamate/lottiegen/internal/db"
	"github.com/inamate/inamate/lottiegen/internal/db/dbgen"
	"github.com/inamate/inamate/lottiegen/internal/export"
	mw "github.com/inamate/inamate/lottiegen/internal/middleware"
	"github.com/inamate/inamate/lottiegen/internal/preview"
	"github.com/inamate/inamate/lottiegen/internal/translation"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})))

	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := db.Migrate(ctx, pool); err != nil {
		slog.Error("migrate database", "error", err)
		os.Exit(1)
	}

	queries := dbgen.New(pool)

	authService := auth.NewService(queries, cfg.JWTSecret)
	authHandler := auth.NewHandler(authService)

	translationService := translation.NewService(queries, cfg.TranslateOptions())
	translationHandler := translation.NewHandler(translationService)
	exportHandler := export.NewHandler(translationService)

	hub := preview.NewHub()
	go hub.Run(ctx)

	r := mux.NewRouter()

	// Global middleware
	r.Use(mw.Recovery)
	r.Use(mw.Logger)
	r.Use(mw.CORS(cfg.AllowedOrigins))

	// Auth routes (public)
	r.HandleFunc("/auth/register", authHandler.Register).Methods("POST")
	r.HandleFunc("/auth/token", authHandler.Token).Methods("POST")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Protected API routes
	api := r.PathPrefix("/api").Subrouter()
	api.Use(authService.AuthMiddleware)
	api.Use(mw.MaxBytes(cfg.MaxDocumentBytes))

	api.HandleFunc("/translations", translationHandler.List).Methods("GET")
	api.HandleFunc("/translations", translationHandler.Create).Methods("POST")
	api.HandleFunc("/translations/{translationId}", translationHandler.Get).Methods("GET")
	api.HandleFunc("/translations/{translationId}", translationHandler.Delete).Methods("DELETE")
	api.HandleFunc("/translations/{translationId}/frame", translationHandler.Frame).Methods("GET")
	api.HandleFunc("/translations/{translationId}/frame.png", exportHandler.FramePNG).Methods("GET")

	// WebSocket endpoint
	origins := originPatterns(cfg.AllowedOrigins)
	r.HandleFunc("/ws/translations/{translationId}", func(w http.ResponseWriter, r *http.Request) {
		handleWebSocket(w, r, hub, authService, translationService, origins)
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down server")

		// Stop playback and close every viewer before draining requests
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		srv.Shutdown(shutdownCtx)
	}()

	slog.Info("server starting", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

func handleWebSocket(w http.ResponseWriter, r *http.Request, hub *preview.Hub, authSvc *auth.Service, translations *translation.Service, origins []string) {
	translationID := mux.Vars(r)["translationId"]

	clientID, err := authSvc.Authenticate(r, true)
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	client, err := authSvc.GetClient(r.Context(), clientID)
	if err != nil {
		http.Error(w, "client not found", http.StatusUnauthorized)
		return
	}

	result, err := translations.Load(r.Context(), translationID, clientID)
	switch {
	case errors.Is(err, translation.ErrNotFound):
		http.Error(w, "translation not found", http.StatusNotFound)
		return
	case errors.Is(err, translation.ErrForbidden):
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	case err != nil:
		slog.Error("load translation", "error", err, "translation", translationID)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: origins,
	})
	if err != nil {
		slog.Error("websocket accept", "error", err)
		return
	}

	viewer := preview.NewClient(hub, conn, clientID, client.Name, translationID, result)
	if !hub.Register(viewer) {
		conn.Close(websocket.StatusGoingAway, "server shutting down")
		return
	}

	ctx := r.Context()
	go viewer.WritePump(ctx)
	viewer.ReadPump(ctx)
}

// originPatterns turns the CORS origin list into host patterns for the
// websocket origin check.
func originPatterns(allowedOrigins string) []string {
	var patterns []string
	for _, origin := range strings.Split(allowedOrigins, ",") {
		origin = strings.TrimSpace(origin)
		if origin == "" {
			continue
		}
		if _, host, ok := strings.Cut(origin, "://"); ok {
			origin = host
		}
		patterns = append(patterns, origin)
	}
	return patterns
}
