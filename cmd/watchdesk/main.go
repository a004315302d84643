package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"

	"WatchDesk/internal/api"
	"WatchDesk/internal/cache"
	"WatchDesk/internal/collector"
	"WatchDesk/internal/config"
	"WatchDesk/internal/notifier"
	"WatchDesk/internal/pacer"
	"WatchDesk/internal/recorder"
	"WatchDesk/internal/refresh"
	"WatchDesk/internal/scheduler"
	"WatchDesk/internal/watchlist"
)

func main() {
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	if err := setupLogger(cfg.Logging.Level, cfg.Logging.File); err != nil {
		fmt.Fprintf(os.Stderr, "setup logger: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("config validation", "err", err)
		os.Exit(1)
	}
	slog.Info("WatchDesk starting", "config", cfgPath)

	source := newSource(cfg)
	slog.Info("data source", "provider", source.Name(), "interval", cfg.Interval())

	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.Database.SQLitePath), 0o755); err != nil {
			slog.Warn("create sqlite dir", "err", err)
		}
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			slog.Warn("init sqlite recorder failed, using noop", "err", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	symbolCache := cache.New()
	wl := watchlist.New(cfg.Watchlist...)
	refresher := refresh.New(source, symbolCache, pacer.New(cfg.Interval(), nil), rec, slog.Default())

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var notify notifier.Notifier = notifier.NoopNotifier{}
	var tn *notifier.TelegramNotifier
	if cfg.TelegramEnabled() {
		tn = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
		notify = tn
	} else {
		slog.Info("telegram disabled: bot_token or chat_id not set")
	}

	sched := scheduler.New(ctx, refresher, symbolCache, wl, notify, slog.Default())
	if err := sched.RegisterAll(cfg.RefreshCron()); err != nil {
		slog.Error("register cron tasks", "err", err)
		os.Exit(1)
	}
	sched.Start()
	defer sched.Stop()

	if tn != nil {
		go tn.StartPolling(ctx, sched.HandleCommand)
		slog.Info("telegram polling started")
	}

	srv := &http.Server{
		Addr: cfg.Server.Addr,
		Handler: api.NewServer(api.Deps{
			Cache:     symbolCache,
			Refresher: refresher,
			Watchlist: wl,
			Recorder:  rec,
			Source:    source.Name(),
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		slog.Info("http server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server failed", "err", err)
			cancel()
		}
	}()

	if cfg.Refresh.RunOnStart {
		slog.Info("run_on_start enabled, refreshing watchlist now")
		go sched.RunNow()
	}

	slog.Info("WatchDesk is running. Press Ctrl+C to stop.")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigCh:
		slog.Info("shutdown signal received, stopping")
	case <-ctx.Done():
	}
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("http shutdown failed", "err", err)
	}
	slog.Info("WatchDesk stopped")
}

func newSource(cfg *config.Config) collector.Source {
	ds := cfg.DataSource
	switch ds.Provider {
	case config.ProviderBackend:
		return collector.NewBackendSource(ds.BaseURL, ds.APIKey, cfg.Proxy)
	case config.ProviderMock:
		return collector.NewMockSource()
	default:
		return collector.NewFinnhubSource(ds.BaseURL, ds.APIKey, ds.NewsDays, ds.SentimentDays, cfg.Proxy)
	}
}

func setupLogger(level, filename string) error {
	if err := os.MkdirAll(filepath.Dir(filename), 0o755); err != nil {
		return err
	}

	logWriter := &lumberjack.Logger{
		Filename:   filename,
		MaxSize:    25,
		MaxBackups: 10,
		MaxAge:     14,
		Compress:   true,
	}

	var slogLevel slog.Level
	switch level {
	case "debug":
		slogLevel = slog.LevelDebug
	case "warn":
		slogLevel = slog.LevelWarn
	case "error":
		slogLevel = slog.LevelError
	default:
		slogLevel = slog.LevelInfo
	}

	h := slog.NewTextHandler(io.MultiWriter(os.Stdout, logWriter), &slog.HandlerOptions{Level: slogLevel})
	slog.SetDefault(slog.New(h))
	return nil
}
