package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alejandrodnm/traderscan/config"
	"github.com/alejandrodnm/traderscan/internal/adapters/analytics"
	"github.com/alejandrodnm/traderscan/internal/adapters/notify"
	"github.com/alejandrodnm/traderscan/internal/adapters/storage"
	"github.com/alejandrodnm/traderscan/internal/ports"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	mode := flag.String("mode", "all", "what to run: categorize|crawl|all")
	verbose := flag.Bool("verbose", false, "set log level to debug")
	logFormat := flag.String("format", "", "log format: text|json (overrides config)")
	noStore := flag.Bool("no-store", false, "skip the sqlite run history")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err, "path", *configPath)
		os.Exit(1)
	}

	if *verbose {
		cfg.Log.Level = "debug"
	}
	if *logFormat != "" {
		cfg.Log.Format = *logFormat
	}
	setupLogger(cfg.Log)

	slog.Info("traderscan starting",
		"config", *configPath,
		"mode", *mode,
		"api", cfg.API.BaseURL,
		"output", cfg.Output.Dir,
		"store", !*noStore,
	)

	client := analytics.NewClient(cfg.API.BaseURL, cfg.Timeout(), cfg.API.RequestsPerSecond)

	writer, err := storage.NewSnapshotWriter(cfg.Output.Dir)
	if err != nil {
		slog.Error("failed to open output dir", "err", err, "dir", cfg.Output.Dir)
		os.Exit(1)
	}

	var store ports.Storage
	if !*noStore {
		s, err := storage.NewSQLiteStorage(cfg.Storage.DSN)
		if err != nil {
			slog.Error("failed to open storage", "err", err, "dsn", cfg.Storage.DSN)
			os.Exit(1)
		}
		defer s.Close()
		store = s
	}

	notifier := notify.NewConsole()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	ok := true
	switch *mode {
	case "categorize":
		ok = runCategorize(ctx, cfg, client, writer, store, notifier)
	case "crawl":
		ok = runCrawl(ctx, cfg, client, writer, store, notifier)
	case "all":
		okCat := runCategorize(ctx, cfg, client, writer, store, notifier)
		okCrawl := runCrawl(ctx, cfg, client, writer, store, notifier)
		ok = okCat && okCrawl
	default:
		slog.Error("unknown mode", "mode", *mode)
		os.Exit(2)
	}

	if !ok {
		os.Exit(1)
	}
	slog.Info("traderscan finished")
}

func setupLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}
