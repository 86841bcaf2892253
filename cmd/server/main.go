// Package main is the entry point for the Meridian performance comparison
// engine. It wires the provider clients, caches, comparison pipeline, and
// HTTP server, then runs until interrupted.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/aristath/meridian/internal/cache"
	"github.com/aristath/meridian/internal/clients/crypto"
	"github.com/aristath/meridian/internal/clients/equity"
	"github.com/aristath/meridian/internal/clients/ratelimit"
	"github.com/aristath/meridian/internal/config"
	"github.com/aristath/meridian/internal/database"
	"github.com/aristath/meridian/internal/modules/benchmarks"
	benchmarkhandlers "github.com/aristath/meridian/internal/modules/benchmarks/handlers"
	"github.com/aristath/meridian/internal/modules/comparison"
	comparisonhandlers "github.com/aristath/meridian/internal/modules/comparison/handlers"
	"github.com/aristath/meridian/internal/modules/marketdata"
	marketdatahandlers "github.com/aristath/meridian/internal/modules/marketdata/handlers"
	"github.com/aristath/meridian/internal/pricestore"
	"github.com/aristath/meridian/internal/reliability"
	"github.com/aristath/meridian/internal/scheduler"
	"github.com/aristath/meridian/internal/server"
	"github.com/aristath/meridian/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fallbackLog := logger.New(logger.Config{Level: "info", Pretty: true})
		fallbackLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})
	logger.SetGlobalLogger(log)

	log.Info().Msg("Starting Meridian")

	// Disk-backed cache for raw provider series.
	cacheDB, err := database.New(database.Config{
		Path:    filepath.Join(cfg.DataDir, "cache.db"),
		Profile: database.ProfileCache,
		Name:    "cache",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open cache database")
	}
	defer cacheDB.Close()

	store, err := pricestore.NewStore(cacheDB.Conn())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize price store")
	}

	// One throttled executor per provider; the crypto provider's limit is
	// materially tighter.
	equityExec := ratelimit.NewExecutor(ratelimit.Config{MinInterval: cfg.EquityMinInterval}, log)
	defer equityExec.Close()
	cryptoExec := ratelimit.NewExecutor(ratelimit.Config{MinInterval: cfg.CryptoMinInterval}, log)
	defer cryptoExec.Close()

	equityClient := equity.NewClient(cfg.EquityAPIURL, equityExec, log)
	cryptoClient := crypto.NewClient(cfg.CryptoAPIURL, cryptoExec, log)

	market := marketdata.NewService(equityClient, cryptoClient, store, marketdata.Config{
		EquityBatchSize:  cfg.EquityBatchSize,
		EquityBatchPause: cfg.EquityBatchPause,
	}, log)

	registry := benchmarks.NewRegistry()

	results := cache.New[string, comparison.Result](10*time.Minute, 5*time.Minute)
	defer results.Stop()

	comparisonService := comparison.NewService(market, registry, results, comparison.Config{
		DateToleranceDays: cfg.DateToleranceDays,
		RiskFreeRate:      cfg.RiskFreeRate,
		DefaultNotional:   cfg.DefaultNotional,
	}, log)

	// Background jobs.
	sched := scheduler.New(log)
	if err := sched.AddJob("@hourly", pricestore.NewCleanupJob(store, log)); err != nil {
		log.Fatal().Err(err).Msg("Failed to register cleanup job")
	}

	if cfg.Backup != nil && cfg.Backup.Enabled {
		s3Client, err := reliability.NewS3Client(context.Background(), reliability.S3Config{
			Endpoint:        cfg.Backup.Endpoint,
			Region:          cfg.Backup.Region,
			Bucket:          cfg.Backup.Bucket,
			AccessKeyID:     cfg.Backup.AccessKeyID,
			SecretAccessKey: cfg.Backup.SecretAccessKey,
		}, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize backup storage")
		}

		backupService := reliability.NewBackupService(cacheDB, s3Client, cfg.DataDir, log)
		backupJob := reliability.NewBackupJob(backupService, cfg.Backup.RetentionDays, log)

		// Daily at 03:00.
		if err := sched.AddJob("0 0 3 * * *", backupJob); err != nil {
			log.Fatal().Err(err).Msg("Failed to register backup job")
		}
	}

	sched.Start()
	defer sched.Stop()

	srv := server.New(server.Config{
		Log:     log,
		Port:    cfg.Port,
		DevMode: cfg.DevMode,
		Modules: []server.Registrar{
			comparisonhandlers.NewHandler(comparisonService, log),
			benchmarkhandlers.NewHandler(registry, market, log),
			marketdatahandlers.NewHandler(market, log),
		},
		System: server.NewSystemHandlers(results, store, log),
	})

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Graceful shutdown failed")
	}

	log.Info().Msg("Meridian stopped")
}
