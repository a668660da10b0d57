// Package main provides the booster-sim API server: it loads card data,
// builds the pack generation index and serves generation endpoints over
// REST and WebSocket.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/ramonehamilton/booster-sim/internal/api"
	"github.com/ramonehamilton/booster-sim/internal/api/websocket"
	"github.com/ramonehamilton/booster-sim/internal/booster"
	"github.com/ramonehamilton/booster-sim/internal/config"
	"github.com/ramonehamilton/booster-sim/internal/mtgjson"
	"github.com/ramonehamilton/booster-sim/internal/storage"
	"github.com/ramonehamilton/booster-sim/internal/version"
)

var (
	port     = flag.Int("port", 0, "API server port (overrides config)")
	dataPath = flag.String("data", "", "Path to AllPrintings.json (overrides config)")
	dbPath   = flag.String("db", "", "Path to the card cache database (overrides config)")
	debug    = flag.Bool("debug", false, "Enable debug logging")
	showVer  = flag.Bool("version", false, "Print version and exit")
)

func main() {
	flag.Parse()

	if *showVer {
		fmt.Println(version.GetVersion())
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	applyFlags(cfg)

	logger := newLogger(cfg.App.DebugMode)
	slog.SetDefault(logger)

	logger.Info("booster-sim starting", "version", version.GetVersion())

	dataFile, cacheFile, err := resolvePaths(cfg)
	if err != nil {
		logger.Error("failed to resolve data paths", "error", err)
		os.Exit(1)
	}

	// Open the card cache.
	dbConfig := storage.DefaultConfig(cacheFile)
	dbConfig.AutoMigrate = true
	db, err := storage.Open(dbConfig)
	if err != nil {
		logger.Error("failed to open card cache", "path", cacheFile, "error", err)
		os.Exit(1)
	}
	store := storage.NewService(db)
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("failed to close card cache", "error", err)
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	all, err := loadData(ctx, logger, store, dataFile)
	if err != nil {
		logger.Error("failed to load card data", "error", err)
		fmt.Fprintln(os.Stderr, "No card data available. Run mtgjson-sync first.")
		os.Exit(1)
	}

	builderCfg := booster.BuilderConfig{MythicProbability: cfg.Generator.MythicProbability}
	index := booster.BuildIndex(all, builderCfg)
	logger.Info("card index built", "sets", index.Len())

	selector := booster.NewSelector(cfg.Rotation.StandardSets, cfg.Rotation.HistoricSets)
	opts := []booster.Option{
		booster.WithSelector(selector),
		booster.WithLogger(logger),
		booster.WithMaxAttempts(cfg.Generator.MaxAttempts),
		booster.WithSealedPackCount(cfg.Generator.SealedPackCount),
	}
	if cfg.Data.JumpstartPath != "" {
		decks, err := mtgjson.LoadDeckDir(cfg.Data.JumpstartPath)
		if err != nil {
			logger.Warn("jumpstart decks unavailable", "path", cfg.Data.JumpstartPath, "error", err)
		} else {
			opts = append(opts, booster.WithJumpstartDecks(booster.BuildJumpstartDecks(decks)))
			logger.Info("jumpstart decks loaded", "decks", len(decks))
		}
	}
	gen := booster.New(index, opts...)

	server := api.NewServer(apiConfig(cfg), gen, selector, logger)
	if err := server.Start(); err != nil {
		logger.Error("failed to start API server", "error", err)
		os.Exit(1)
	}
	logger.Info("API server running", "url", fmt.Sprintf("http://localhost:%d", server.Port()))

	// Hot-reload the index when the data file changes on disk.
	var watcher *mtgjson.Watcher
	if cfg.Data.WatchFile {
		watcher = mtgjson.NewWatcher(dataFile, logger, func(fresh *mtgjson.AllPrintings) {
			idx := booster.BuildIndex(fresh, builderCfg)
			gen.SwapIndex(idx)
			logger.Info("card index reloaded", "sets", idx.Len())

			if err := store.SaveData(ctx, fresh); err != nil {
				logger.Error("failed to refresh card cache", "error", err)
			}

			server.WebSocketHub().BroadcastEvent(websocket.Event{
				Type: websocket.EventIndexReloaded,
				Data: map[string]int{"sets": idx.Len()},
			})
		})
		go func() {
			if err := watcher.Start(ctx); err != nil {
				logger.Error("data watcher stopped", "error", err)
			}
		}()
	}

	// Wait for interrupt signal.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutting down")
	cancel()
	if watcher != nil {
		watcher.Stop()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}

// applyFlags overlays command-line flags onto the loaded config.
func applyFlags(cfg *config.Config) {
	if *port > 0 {
		cfg.API.Port = *port
	}
	if *dataPath != "" {
		cfg.Data.MTGJSONPath = *dataPath
	}
	if *dbPath != "" {
		cfg.Data.DatabasePath = *dbPath
	}
	if *debug {
		cfg.App.DebugMode = true
	}
}

func newLogger(debugMode bool) *slog.Logger {
	level := slog.LevelInfo
	if debugMode {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// resolvePaths fills in the default data locations under ~/.booster-sim
// when the config leaves them empty.
func resolvePaths(cfg *config.Config) (dataFile, cacheFile string, err error) {
	dataFile = cfg.Data.MTGJSONPath
	cacheFile = cfg.Data.DatabasePath
	if dataFile != "" && cacheFile != "" {
		return dataFile, cacheFile, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", "", fmt.Errorf("get home directory: %w", err)
	}
	dir := filepath.Join(home, ".booster-sim")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", fmt.Errorf("create data directory: %w", err)
	}

	if dataFile == "" {
		dataFile = filepath.Join(dir, "AllPrintings.json")
	}
	if cacheFile == "" {
		cacheFile = filepath.Join(dir, "cards.db")
	}
	return dataFile, cacheFile, nil
}

// loadData prefers the data file on disk and falls back to the SQLite
// cache when the file is missing. A freshly parsed file refreshes the
// cache so the next start can skip the slow JSON parse.
func loadData(ctx context.Context, logger *slog.Logger, store *storage.Service, dataFile string) (*mtgjson.AllPrintings, error) {
	if _, err := os.Stat(dataFile); err == nil {
		logger.Info("parsing card data", "path", dataFile)
		all, err := mtgjson.LoadFile(dataFile)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", dataFile, err)
		}
		if err := store.SaveData(ctx, all); err != nil {
			logger.Error("failed to refresh card cache", "error", err)
		}
		return all, nil
	}

	logger.Info("data file missing, loading from cache")
	all, err := store.LoadData(ctx)
	if err != nil {
		return nil, fmt.Errorf("load cache: %w", err)
	}
	if all == nil {
		return nil, fmt.Errorf("card cache is empty")
	}
	return all, nil
}

func apiConfig(cfg *config.Config) *api.Config {
	apiCfg := api.DefaultConfig()
	apiCfg.Port = cfg.API.Port

	if d, err := cfg.GetReadTimeout(); err == nil {
		apiCfg.ReadTimeout = d
	}
	if d, err := cfg.GetWriteTimeout(); err == nil {
		apiCfg.WriteTimeout = d
	}
	return apiCfg
}
