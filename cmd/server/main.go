package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"trade-report-engine/internal/auditlog"
	"trade-report-engine/internal/engine"
	"trade-report-engine/internal/logger"
	"trade-report-engine/internal/marketdata"
	"trade-report-engine/internal/notify"
	"trade-report-engine/internal/server"
	"trade-report-engine/internal/storage"
	"trade-report-engine/internal/store"
	"trade-report-engine/internal/trace"

	"github.com/joho/godotenv"
)

func must(err error) {
	if err != nil {
		log.Fatal(err)
	}
}

func main() {
	_ = godotenv.Load()
	cfg, err := store.LoadConfig(configPath())
	must(err)
	must(logger.Init())
	must(trace.Init())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	retentionSweep(ctx, os.Getenv("REPORT_LOG_RETENTION_DAYS"))

	reports, err := storage.Open(cfg.Storage.Path)
	must(err)
	defer reports.Close()

	prices := marketdata.NewClient(marketdata.Options{
		BaseURL:   cfg.MarketData.BaseURL,
		Symbol:    cfg.MarketData.Symbol,
		Timeout:   time.Duration(cfg.MarketData.TimeoutSeconds) * time.Second,
		APIKeyEnv: cfg.MarketData.APIKeyEnv,
	})

	eng := engine.New(cfg, reports, prices, notify.NewNoopNotifier())
	srv := server.New(eng, reports)

	httpSrv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: srv.Router(cfg),
	}

	go func() {
		logger.Info(ctx, "Server started", "port", cfg.Server.Port)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err)
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	_ = httpSrv.Shutdown(shutdownCtx)
	_ = trace.Shutdown(shutdownCtx)
	_ = logger.Shutdown(shutdownCtx)
	logger.Info(ctx, "Server stopped")
}

// retentionSweep compresses stale audit files. A malformed retention value
// is reported instead of silently disabling the sweep.
func retentionSweep(ctx context.Context, v string) {
	if v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		logger.Warn(ctx, "Invalid REPORT_LOG_RETENTION_DAYS, skipping audit retention", "value", v)
		return
	}
	_ = auditlog.CompressOlder(n)
}

func configPath() string {
	if v := os.Getenv("REPORT_CONFIG"); v != "" {
		return v
	}
	return "config.yaml"
}
