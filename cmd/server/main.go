package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"preview-gateway/internal/blobclient"
	"preview-gateway/internal/config"
	"preview-gateway/internal/dispatch"
	"preview-gateway/internal/logger"
	"preview-gateway/internal/observability"
	"preview-gateway/internal/office"
	"preview-gateway/internal/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("failed to load configuration:", err)
	}

	env := getEnv("NODE_ENV", "development")
	if _, err := logger.Init(cfg.ServiceName, env, cfg.LogLevel, cfg.LogPath); err != nil {
		log.Fatal("failed to initialize logger:", err)
	}

	shutdownOTel, err := observability.InitOTel(context.Background(), cfg.ServiceName)
	if err != nil {
		slog.Warn("failed to initialize OpenTelemetry", "error", err)
	} else {
		defer func() {
			if err := shutdownOTel(context.Background()); err != nil {
				slog.Error("error shutting down OpenTelemetry", "error", err)
			}
		}()
	}

	if env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	storageClient := blobclient.New(cfg.Storage)
	officeBridge := office.New(cfg.DocumentConverter, time.Duration(cfg.DocsTimeoutInSeconds)*time.Second, slog.Default())
	d := dispatch.New(cfg, storageClient, officeBridge)

	r := router.Setup(cfg, d)

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.ServiceIP.String(), cfg.ServicePort),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", server.Addr, "env", env)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("failed to start server:", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.ServiceTimeoutInSeconds)*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal("server forced to shutdown:", err)
	}

	slog.Info("server exited")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
