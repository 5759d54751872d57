// File: cmd/devserver/main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	gormlogger "gorm.io/gorm/logger"

	"github.com/iyunix/go-chatfront/internal/config"
	"github.com/iyunix/go-chatfront/internal/devserver"
	"github.com/iyunix/go-chatfront/internal/repository"
	"github.com/iyunix/go-chatfront/internal/services"
	"github.com/iyunix/go-chatfront/internal/services/ai"
)

func main() {
	cfg := config.Load()
	logger := services.NewLogger("devserver")
	defer services.SyncLogger(logger)

	db, err := repository.OpenSQLite(cfg.DBPath, gormlogger.Warn)
	if err != nil {
		logger.Error("DB Error", "path", cfg.DBPath, "error", err)
		os.Exit(1)
	}

	// --- Reply provider ---
	var primary ai.Provider
	if cfg.OpenAIAPIKey != "" {
		aiCfg := ai.DefaultConfig()
		aiCfg.APIKey = cfg.OpenAIAPIKey
		aiCfg.BaseURL = cfg.OpenAIBaseURL
		p, err := ai.NewOpenAIProvider(aiCfg)
		if err != nil {
			logger.Error("Failed to initialize AI provider", "error", err)
			os.Exit(1)
		}
		primary = p
	} else {
		logger.Warn("OPENAI_API_KEY not set; every model answers with echo")
	}

	server := devserver.New(devserver.Options{
		Repo:               repository.NewMessageRepository(db),
		Models:             cfg.Models,
		Primary:            primary,
		Logger:             logger,
		AllowedOrigins:     cfg.AllowedOrigins,
		SendLimitPerMinute: cfg.SendLimitPerMinute,
	})
	defer server.Close()

	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("Reference API starting",
		"addr", srv.Addr,
		"base_url", "http://localhost"+srv.Addr+"/api",
		"db", cfg.DBPath,
		"models", len(cfg.Models),
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

	logger.Info("Shutting down reference API")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown failed", "error", err)
		return
	}
	logger.Info("Reference API stopped")
}
