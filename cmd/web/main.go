// File: cmd/web/main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"github.com/iyunix/go-chatfront/internal/config"
	"github.com/iyunix/go-chatfront/internal/handlers"
	"github.com/iyunix/go-chatfront/internal/middleware"
	"github.com/iyunix/go-chatfront/internal/services"
	"github.com/iyunix/go-chatfront/internal/services/api"
	"github.com/iyunix/go-chatfront/internal/services/conversation"
)

func main() {
	cfg := config.Load()
	logger := services.NewLogger("web")
	defer services.SyncLogger(logger)

	// --- API client & session ---
	hostname := config.Hostname()
	client, err := api.NewClient(&api.Config{
		BaseURL: config.ResolveBaseURL(cfg.APIBaseOverride, hostname),
		Origin:  api.DefaultOrigin(hostname),
	}, logger)
	if err != nil {
		logger.Error("Invalid API configuration", "error", err)
		os.Exit(1)
	}
	// Every GET / reloads the session from the API.
	session := conversation.NewSession(client, logger)

	// --- Router Setup ---
	pageHandler := handlers.NewPageHandler(logger)
	chatHandler := handlers.NewChatHandler(pageHandler, session, logger)

	r := mux.NewRouter()
	r.Use(middleware.RecoverPanic(logger))
	r.Use(middleware.LoggingMiddleware(logger))
	handlers.RegisterRoutes(r, pageHandler, chatHandler, handlers.NewLogHandler(logger))

	srv := &http.Server{
		Addr:              ":" + cfg.WebPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("Web view starting",
		"addr", srv.Addr,
		"api_base", client.BaseURL(),
		"url", "http://localhost"+srv.Addr,
	)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server startup failed", "error", err)
			os.Exit(1)
		}
	}()

	// --- Graceful Shutdown ---
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("Shutting down web view")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", "error", err)
		return
	}
	logger.Info("Web view stopped")
}
