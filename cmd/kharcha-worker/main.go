package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"kharcha/internal/amqp"
	"kharcha/internal/backup"
	"kharcha/internal/config"
	applog "kharcha/internal/log"
	"kharcha/internal/store"
	"kharcha/internal/store/memory"
	"kharcha/internal/store/postgres"
	"kharcha/internal/store/sqlite"
	"kharcha/internal/worker"
)

func main() {
	restore := flag.Bool("restore", false, "download the latest snapshot into the store and exit")
	flag.Parse()

	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logCfg := applog.DefaultConfig()
	logCfg.Component = applog.ComponentWorker
	logger := applog.New(logCfg)
	applog.SetDefault(logger)

	logger.Info("Starting kharcha-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	st, err := openStore(cfg)
	if err != nil {
		logger.Error("Failed to initialize store", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	defer st.Close()

	transport, err := backup.NewFromEnv(context.Background())
	if err != nil {
		logger.Error("Failed to initialize Drive transport", "error", err)
		os.Exit(1)
	}

	backupWorker := worker.NewBackupWorker(st, transport, cfg.BackupFileName)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if *restore {
		count, err := backupWorker.Restore(ctx)
		if err != nil {
			logger.Error("Restore failed", "error", err, "file", cfg.BackupFileName)
			os.Exit(1)
		}
		logger.Info("Restore complete", "count", count, "file", cfg.BackupFileName)
		return
	}

	g, ctx := errgroup.WithContext(ctx)

	// AMQP consumption is optional, scheduled snapshots run regardless
	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", "error", err)
			os.Exit(1)
		}
		defer amqpClient.Close()

		g.Go(func() error {
			return amqpClient.ConsumeBackupRequests(ctx, func(msg *amqp.BackupRequestMessage) error {
				return backupWorker.HandleBackupRequest(ctx, msg)
			})
		})
	} else {
		logger.Info("AMQP disabled - running scheduled backups only")
	}

	g.Go(func() error {
		return backupWorker.RunScheduled(ctx, cfg.BackupInterval)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker failed", "error", err)
		os.Exit(1)
	}

	logger.Info("Worker shutdown complete")
}

func openStore(cfg *config.Config) (store.ExpenseStore, error) {
	switch cfg.DataBackend {
	case "sqlite":
		return sqlite.NewRepository(cfg.SQLiteDBPath)
	case "postgres":
		return postgres.NewRepository(cfg.PostgresURL)
	default:
		return memory.New(), nil
	}
}
