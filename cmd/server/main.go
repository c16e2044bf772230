package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"sync-status-service/internal/api"
	"sync-status-service/internal/config"
	"sync-status-service/internal/logger"
	"sync-status-service/internal/maintenance"
	"sync-status-service/internal/status"
	"sync-status-service/internal/store"
)

func main() {
	// Load Config
	cfg, err := config.LoadConfig("config.yaml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Init Logger
	if err := logger.InitLogger(cfg.Logging.Level, cfg.Logging.Format); err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Log.Info("Starting User Sync Status Service")

	// Init Signal Store
	signalStore, err := store.NewMySQLStore(cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to init signal store", zap.Error(err))
	}
	defer signalStore.Close()

	// Init Aggregator
	aggregator := status.NewAggregator(
		signalStore,
		cfg.Status.GetDelayedSyncThreshold(),
		cfg.Status.BatchWorkers,
	)

	// Init Sweeper
	sweeper := maintenance.NewSweeper(cfg.Sweeper, signalStore)
	sweeper.Start()

	// Init API
	handler := api.NewHandler(aggregator)
	router := handler.Routes()

	// Start Server
	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  cfg.Server.GetReadTimeout(),
		WriteTimeout: cfg.Server.GetWriteTimeout(),
	}

	go func() {
		logger.Log.Info("Server listening", zap.String("addr", serverAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal("Server failed", zap.Error(err))
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("Shutting down server...")
	sweeper.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Log.Error("Server shutdown failed", zap.Error(err))
	}
}
