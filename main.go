package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"AstroTradeBot/config"
	"AstroTradeBot/internal/handlers"
	"AstroTradeBot/internal/models"
	"AstroTradeBot/internal/operations/position"
	"AstroTradeBot/internal/repositories"
	"AstroTradeBot/internal/services/auth"
	"AstroTradeBot/internal/services/market"
	signalsvc "AstroTradeBot/internal/services/signal"
	"AstroTradeBot/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func main() {
	logger.Init()
	defer logger.GetLogger().Sync()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	// Setup context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Pick the snapshot backend: hosted profiles table when postgres is
	// configured, local sqlite store otherwise
	snapshots, err := setupSnapshotStore(cfg.Database, cfg.Storage)
	if err != nil {
		logger.Fatal("Failed to initialize snapshot store", zap.Error(err))
	}
	defer snapshots.Close()

	// Initialize the position engine and restore any previous session
	executor := position.NewPositionExecutor(cfg.Bot)
	snap, err := snapshots.Load(ctx)
	if err != nil {
		logger.Warn("Failed to load previous state, starting fresh", zap.Error(err))
	}
	if snap != nil {
		executor.Restore(snap)
		logger.Info("Restored previous session",
			zap.Int("trades", len(snap.Trades)),
			zap.Float64("balance", snap.Balance),
			zap.Float64("profit", snap.Profit))
	}

	// Initialize the price simulator
	simConfig := market.DefaultSimulatorConfig()
	simConfig.BasePrice = cfg.Market.BasePrice
	simulator := market.NewSimulator(simConfig)

	// Initialize the signal source; without an API key only the local
	// heuristic is used
	var provider signalsvc.Provider
	if client := signalsvc.NewGeminiClient(cfg.Gemini); client != nil {
		provider = client
	} else {
		logger.Warn("No Gemini API key configured, using fallback heuristic only")
	}
	analyzer := signalsvc.NewAnalyzer(provider)

	// Start the bot handler: market ticking always on, analysis loop on start
	handler := handlers.NewBotHandler(simulator, analyzer, executor, snapshots, cfg.Market.TickInterval)
	if err := handler.Start(ctx); err != nil {
		logger.Fatal("Failed to start market loop", zap.Error(err))
	}
	if err := handler.StartBot(ctx); err != nil {
		logger.Fatal("Failed to start bot", zap.Error(err))
	}

	logger.Info("AstroTrade running",
		zap.String("pair", cfg.Bot.Pair),
		zap.String("mode", cfg.Bot.TradingMode),
		zap.Duration("tick", cfg.Market.TickInterval))

	// Handle shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	<-c

	logger.Info("Shutting down...")
	handler.StopBot()
	cancel()
	time.Sleep(time.Second) // Give loops time to drain
	logger.Info("Shutdown complete")
}

// setupSnapshotStore wires either the cloud or the local backend behind the
// same snapshot contract.
func setupSnapshotStore(dbConfig config.DatabaseConfig, storageConfig config.StorageConfig) (repositories.SnapshotRepository, error) {
	if !dbConfig.UseCloud() {
		return repositories.NewSQLiteSnapshotRepository(storageConfig.SQLitePath)
	}

	db, err := setupDatabase(dbConfig)
	if err != nil {
		return nil, err
	}

	userRepo := repositories.NewUserRepository(db)
	authService, err := auth.NewService(userRepo)
	if err != nil {
		return nil, err
	}

	// Headless sessions run under the seeded admin identity; the snapshot
	// row is keyed by the user id
	user, err := authService.Login("admin", "123456")
	if err != nil {
		return nil, err
	}

	return repositories.NewCloudSnapshotRepository(db, user.ID)
}

func setupDatabase(dbConfig config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		dbConfig.Host,
		dbConfig.Port,
		dbConfig.User,
		dbConfig.Password,
		dbConfig.DBName)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Error),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(&models.User{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return db, nil
}
