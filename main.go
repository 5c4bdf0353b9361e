// Package main is the entry point for the DiabeFit companion service.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mrcode/diabefit/internal/api"
	"github.com/mrcode/diabefit/internal/config"
	"github.com/mrcode/diabefit/internal/history"
	"github.com/mrcode/diabefit/internal/nightscout"
	"github.com/mrcode/diabefit/internal/notifications"
	"github.com/mrcode/diabefit/internal/store"
	appsync "github.com/mrcode/diabefit/internal/sync"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration error", "err", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}))
	slog.SetDefault(logger)

	if err := os.MkdirAll(cfg.DataDir, 0o750); err != nil {
		slog.Error("cannot create data dir", "dir", cfg.DataDir, "err", err)
		os.Exit(1)
	}

	st, err := store.Open(cfg.SnapshotPath())
	if err != nil {
		slog.Error("cannot open state store", "err", err)
		os.Exit(1)
	}

	hist, err := history.NewFileStore(cfg.HistoryPath())
	if err != nil {
		slog.Error("cannot open history cache", "err", err)
		os.Exit(1)
	}
	defer hist.Close()

	var client *nightscout.Client
	if cfg.IsMonitorConfigured() {
		client = nightscout.NewClient(cfg.MonitorURL, cfg.APISecret, cfg.APIToken, cfg.UseToken)
		slog.Info("external monitor configured", "url", cfg.MonitorURL)
	} else {
		slog.Warn("no monitor configured, glucose must be entered manually")
	}

	notify := notifications.NewManager(cfg.ReminderHour, cfg.ReminderMinute, cfg.AlertRepeat)
	svc := appsync.New(client, st, hist, notify, cfg.PollInterval, cfg.RecomputeInterval, cfg.HistoryDays)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	svc.Start(ctx)
	defer svc.Stop()

	server := api.NewServer(st, hist, svc)
	srv := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      server.Router(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("diabefit listening", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "err", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "err", err)
	}
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
