// Package main provides the mtgjson-sync tool: it downloads the
// AllPrintings data release when the cached copy is stale and refreshes
// the local card cache.
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

	"github.com/ramonehamilton/booster-sim/internal/config"
	"github.com/ramonehamilton/booster-sim/internal/mtgjson"
	"github.com/ramonehamilton/booster-sim/internal/storage"
)

var (
	dataPath = flag.String("data", "", "Path to AllPrintings.json (overrides config)")
	dbPath   = flag.String("db", "", "Path to the card cache database (overrides config)")
	force    = flag.Bool("force", false, "Download even if the cached release is current")
)

func main() {
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("sync failed", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if *dataPath != "" {
		cfg.Data.MTGJSONPath = *dataPath
	}
	if *dbPath != "" {
		cfg.Data.DatabasePath = *dbPath
	}

	dataFile, cacheFile, err := resolvePaths(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	dbConfig := storage.DefaultConfig(cacheFile)
	dbConfig.AutoMigrate = true
	db, err := storage.Open(dbConfig)
	if err != nil {
		return fmt.Errorf("open card cache: %w", err)
	}
	store := storage.NewService(db)
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("failed to close card cache", "error", err)
		}
	}()

	client := mtgjson.NewClient()

	remote, err := client.GetMeta(ctx)
	if err != nil {
		return fmt.Errorf("fetch release metadata: %w", err)
	}
	logger.Info("remote release", "version", remote.Version, "date", remote.Date)

	if !*force {
		fresh, reason := isFresh(ctx, logger, store, cfg, dataFile, remote)
		if fresh {
			logger.Info("card data is up to date", "version", remote.Version)
			return nil
		}
		logger.Info("card data is stale", "reason", reason)
	}

	logger.Info("downloading card data", "path", dataFile)
	start := time.Now()
	if err := client.DownloadAllPrintings(ctx, dataFile); err != nil {
		return fmt.Errorf("download card data: %w", err)
	}
	logger.Info("download complete", "duration", time.Since(start).Round(time.Second))

	logger.Info("parsing card data")
	all, err := mtgjson.LoadFile(dataFile)
	if err != nil {
		return fmt.Errorf("parse %s: %w", dataFile, err)
	}

	logger.Info("refreshing card cache", "sets", len(all.Data))
	if err := store.SaveData(ctx, all); err != nil {
		return fmt.Errorf("refresh card cache: %w", err)
	}

	logger.Info("sync complete", "version", all.Meta.Version)
	return nil
}

// isFresh decides whether the download can be skipped: the data file must
// exist, the cached release must match the remote one, and the cache must
// be younger than the configured sync interval.
func isFresh(ctx context.Context, logger *slog.Logger, store *storage.Service, cfg *config.Config, dataFile string, remote *mtgjson.Meta) (bool, string) {
	if _, err := os.Stat(dataFile); err != nil {
		return false, "data file missing"
	}

	cached, err := store.GetMeta(ctx)
	if err != nil {
		logger.Error("failed to read cache meta", "error", err)
		return false, "cache meta unreadable"
	}
	if cached == nil {
		return false, "cache empty"
	}
	if cached.Version != remote.Version {
		return false, fmt.Sprintf("cached %s, remote %s", cached.Version, remote.Version)
	}

	interval, err := cfg.GetSyncInterval()
	if err == nil && time.Since(cached.CachedAt) > interval {
		return false, "sync interval elapsed"
	}

	return true, ""
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
