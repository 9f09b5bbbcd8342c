package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	taxapp "duplo-orders/application/tax"
	"duplo-orders/config"
	"duplo-orders/infrastructure/persistence/mongodb"
	"duplo-orders/infrastructure/persistence/mysql"
	"duplo-orders/infrastructure/queue"
	"duplo-orders/infrastructure/reconcile"
	"duplo-orders/infrastructure/taxgw"
	"duplo-orders/pkg/logger"

	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Printf("Worker startup failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := parseConfigPath()

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(&cfg.Log, cfg.App.Env); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	mongoClient, err := mongodb.Connect(ctx, &cfg.Mongo)
	if err != nil {
		return fmt.Errorf("failed to connect to document store: %w", err)
	}
	defer mongoClient.Disconnect(context.Background())

	transactionStore := mongodb.NewTransactionStore(mongoClient.Database(cfg.Mongo.Database))
	gateway := taxgw.NewClient(cfg.Tax.URL, cfg.Tax.Timeout, cfg.Tax.MaxAttempts)
	processor := taxapp.NewProcessor(gateway, transactionStore)

	srv := queue.NewServer(
		queue.RedisOpt(&cfg.Redis),
		queue.PolicyFromConfig(&cfg.Queue),
		cfg.Queue.Concurrency,
		processor,
	)

	// The sweep needs the order ledger; only connect to MySQL when enabled.
	if cfg.Worker.Sweep.Enabled {
		db, err := mysql.FromAppConfig(cfg).Connect()
		if err != nil {
			return fmt.Errorf("failed to connect to MySQL: %w", err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			return fmt.Errorf("failed to get underlying sql.DB: %w", err)
		}
		defer sqlDB.Close()

		sweeper, err := reconcile.NewSweeper(
			transactionStore,
			mysql.NewOrderRepository(db),
			cfg.Worker.Sweep.Interval,
			cfg.Worker.Sweep.MaxAge,
			cfg.Worker.Sweep.BatchSize,
		)
		if err != nil {
			return fmt.Errorf("failed to create reconciliation sweeper: %w", err)
		}

		go func() {
			logger.Info("Reconciliation sweeper started",
				zap.Duration("interval", cfg.Worker.Sweep.Interval),
				zap.Duration("max_age", cfg.Worker.Sweep.MaxAge),
				zap.Int("batch_size", cfg.Worker.Sweep.BatchSize),
			)
			if err := sweeper.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("Reconciliation sweeper exited", zap.Error(err))
			}
		}()
	}

	go func() {
		<-ctx.Done()
		logger.Info("Shutting down worker")
		srv.Shutdown()
	}()

	logger.Info("Tax worker started",
		zap.Int("concurrency", cfg.Queue.Concurrency),
		zap.Int("delivery_attempts", cfg.Queue.MaxAttempts),
	)
	if err := srv.Run(); err != nil {
		return fmt.Errorf("worker exited with error: %w", err)
	}

	logger.Info("Worker stopped")
	return nil
}

func parseConfigPath() string {
	var configPath string
	flag.StringVar(&configPath, "config", "", "Path to config file")
	flag.Parse()
	return configPath
}
