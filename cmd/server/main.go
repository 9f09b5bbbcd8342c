package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"duplo-orders/api"
	"duplo-orders/api/business"
	"duplo-orders/api/health"
	apiorder "duplo-orders/api/order"
	creditapp "duplo-orders/application/creditscore"
	orderapp "duplo-orders/application/order"
	transactionapp "duplo-orders/application/transaction"
	"duplo-orders/config"
	"duplo-orders/infrastructure/persistence/mongodb"
	"duplo-orders/infrastructure/persistence/mysql"
	"duplo-orders/infrastructure/queue"
	"duplo-orders/pkg/logger"

	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Printf("Server startup failed: %v\n", err)
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

	// Order ledger (MySQL)
	db, err := mysql.FromAppConfig(cfg).Connect()
	if err != nil {
		return fmt.Errorf("failed to connect to MySQL: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	defer sqlDB.Close()

	// Auto migration in development environment
	if cfg.IsDevelopment() {
		if err := mysql.AutoMigrate(db); err != nil {
			return fmt.Errorf("failed to auto migrate: %w", err)
		}
	}

	// Transaction documents (Mongo)
	mongoClient, err := mongodb.Connect(ctx, &cfg.Mongo)
	if err != nil {
		return fmt.Errorf("failed to connect to document store: %w", err)
	}
	defer mongoClient.Disconnect(context.Background())

	// Tax job queue (Redis)
	queueClient := queue.NewClient(queue.RedisOpt(&cfg.Redis), queue.PolicyFromConfig(&cfg.Queue))
	defer queueClient.Close()

	orderRepo := mysql.NewOrderRepository(db)
	transactionStore := mongodb.NewTransactionStore(mongoClient.Database(cfg.Mongo.Database))
	txManager := mysql.NewTxManager(db)

	orderService := orderapp.NewService(orderRepo, transactionStore, queueClient, txManager)
	transactionService := transactionapp.NewService(transactionStore)
	creditService := creditapp.NewService(transactionStore)

	router := api.NewRouter(
		cfg,
		health.NewController(cfg, sqlDB, mongoClient),
		apiorder.NewController(orderService, transactionService),
		business.NewController(creditService),
	)
	router.SetupRoutes()

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router.GetEngine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server started",
			zap.String("port", cfg.Server.Port),
			zap.String("env", cfg.App.Env),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server exited with error: %w", err)
	case <-ctx.Done():
	}

	logger.Info("Shutting down HTTP server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	logger.Info("Server stopped")
	return nil
}

func parseConfigPath() string {
	var configPath string
	flag.StringVar(&configPath, "config", "", "Path to config file")
	flag.Parse()
	return configPath
}
