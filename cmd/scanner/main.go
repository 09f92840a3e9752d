package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alejandrodnm/tokenscope/config"
	"github.com/alejandrodnm/tokenscope/internal/adapters/ai"
	"github.com/alejandrodnm/tokenscope/internal/adapters/notify"
	"github.com/alejandrodnm/tokenscope/internal/adapters/storage"
	"github.com/alejandrodnm/tokenscope/internal/adapters/venues"
	"github.com/alejandrodnm/tokenscope/internal/application/scanner"
	"github.com/alejandrodnm/tokenscope/internal/domain"
	"github.com/alejandrodnm/tokenscope/internal/ports"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	once := flag.Bool("once", false, "run one scan cycle and exit")
	dryRun := flag.Bool("dry-run", false, "no storage, console output only")
	verbose := flag.Bool("verbose", false, "set log level to debug")
	logFormat := flag.String("format", "", "log format: text|json (overrides config)")
	table := flag.Bool("table", false, "print full table (default: compact 1-line)")
	history := flag.Bool("history", false, "print stored opportunities from the last 7 days and exit")
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

	slog.Info("tokenscope starting",
		"config", *configPath,
		"interval", cfg.ScanInterval(),
		"venues", cfg.Venues.Enabled,
		"major", cfg.Venues.Major,
		"once", *once,
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var store *storage.SQLiteStorage
	if !*dryRun {
		store, err = storage.NewSQLiteStorage(cfg.Storage.DSN)
		if err != nil {
			slog.Error("failed to open storage", "err", err, "dsn", cfg.Storage.DSN)
			os.Exit(1)
		}
		defer store.Close()
	}

	if *history {
		if store == nil {
			slog.Error("history mode requires storage (drop -dry-run)")
			os.Exit(1)
		}
		runHistory(ctx, store)
		return
	}

	detectors, quoters, err := buildVenues(cfg)
	if err != nil {
		slog.Error("failed to build venue clients", "err", err)
		os.Exit(1)
	}

	orchestrator := scanner.NewOrchestrator(detectors, cfg.VenueTimeout())
	aggregator := scanner.NewAggregator(quoters, cfg.VenueTimeout(), cfg.Scanner.ArbProfitPct)

	var notifier ports.Notifier = notify.NewConsole(*table)
	if cfg.Telegram.Enabled {
		notifier = notify.NewFanout(
			notify.NewConsole(*table),
			notify.NewTelegram("", cfg.Telegram.BotToken, cfg.Telegram.ChatID),
		)
	}

	var analyst ports.Analyst
	if cfg.AI.Enabled {
		analyst = ai.NewGroq("", cfg.AI.APIKey, cfg.AI.Model)
	}

	scanCfg := scanner.Config{
		ScanInterval: cfg.ScanInterval(),
		Once:         *once,
		Classify: domain.ClassifyConfig{
			EarlyVenues:    canonicalNames(cfg.Venues.Early),
			MajorVenue:     canonicalName(cfg.Venues.Major),
			CriticalArbPct: cfg.Scanner.CriticalArbPct,
		},
	}

	var storagePort ports.Storage
	if store != nil {
		storagePort = store
	}

	s := scanner.New(scanCfg, orchestrator, aggregator, storagePort, notifier, analyst)

	if err := s.Run(ctx); err != nil {
		slog.Error("scanner exited with error", "err", err)
		os.Exit(1)
	}

	slog.Info("tokenscope stopped cleanly")
}

// buildVenues instancia los clients de los venues habilitados, en el orden
// de la configuración. Todos los venues participan en la agregación de
// precios; binance detecta por anuncios, el resto por catálogo de pares.
func buildVenues(cfg *config.Config) ([]scanner.Detector, []ports.Quoter, error) {
	timeout := cfg.VenueTimeout()

	var detectors []scanner.Detector
	var quoters []ports.Quoter

	for _, key := range cfg.Venues.Enabled {
		switch key {
		case "gateio":
			c := venues.NewGateIO(cfg.API.GateIOBase, timeout)
			detectors = append(detectors, scanner.NewListingDetector(c))
			quoters = append(quoters, c)
		case "mexc":
			c := venues.NewMEXC(cfg.API.MEXCBase, timeout)
			detectors = append(detectors, scanner.NewListingDetector(c))
			quoters = append(quoters, c)
		case "kucoin":
			c := venues.NewKuCoin(cfg.API.KuCoinBase, timeout)
			detectors = append(detectors, scanner.NewListingDetector(c))
			quoters = append(quoters, c)
		case "binance":
			c := venues.NewBinance(cfg.API.BinanceBase, cfg.API.BinanceCMSBase, timeout)
			detectors = append(detectors, scanner.NewAnnouncementDetector(c))
			quoters = append(quoters, c)
		default:
			return nil, nil, fmt.Errorf("unknown venue %q", key)
		}
	}

	return detectors, quoters, nil
}

// canonicalName traduce la key de configuración al nombre canónico del venue.
func canonicalName(key string) string {
	switch key {
	case "gateio":
		return venues.VenueGateIO
	case "mexc":
		return venues.VenueMEXC
	case "kucoin":
		return venues.VenueKuCoin
	case "binance":
		return venues.VenueBinance
	}
	return key
}

func canonicalNames(keys []string) []string {
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = canonicalName(k)
	}
	return names
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
