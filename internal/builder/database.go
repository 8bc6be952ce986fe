package builder

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/futig/cbam-wizard/internal/config"
	"github.com/futig/cbam-wizard/internal/repository"
)

// setupDatabase creates a new database connection pool
func setupDatabase(ctx context.Context, cfg config.StorageConfig, logger *zap.Logger) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	// Configure pool settings from config
	poolConfig.MaxConns = int32(cfg.DBMaxConns)
	poolConfig.MinConns = int32(cfg.DBMinConns)
	poolConfig.MaxConnLifetime = cfg.DBMaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.DBMaxConnIdleTime
	poolConfig.HealthCheckPeriod = cfg.DBHealthCheckPeriod

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	// Test the connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	logger.Info("database connection pool established",
		zap.Int32("max_conns", poolConfig.MaxConns),
		zap.Int32("min_conns", poolConfig.MinConns),
		zap.Duration("max_conn_lifetime", poolConfig.MaxConnLifetime),
	)

	return pool, nil
}

// storage holds the stores selected by STORAGE_DRIVER
type storage struct {
	db       *pgxpool.Pool
	sessions sessionStore
	chats    chatStore
}

// setupStorage opens the postgres stores and runs migrations, or falls back to in-memory stores
func setupStorage(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*storage, error) {
	if cfg.StorageCfg.Driver == config.StorageDriverMemory {
		logger.Info("Using in-memory storage, wizard sessions are lost on restart")
		return &storage{
			sessions: repository.NewWizardSessionMemory(cfg.WizardCfg.SessionTTL),
			chats:    repository.NewTelegramChatMemory(cfg.TelegramCfg.ChatTTL),
		}, nil
	}

	db, err := setupDatabase(ctx, cfg.StorageCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("setup database: %w", err)
	}

	logger.Info("Running database migrations")
	if err := repository.RunMigrations(cfg.StorageCfg.DatabaseURL, logger); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("Database migrations completed successfully")

	return &storage{
		db:       db,
		sessions: repository.NewWizardSessionPostgres(db),
		chats:    repository.NewTelegramChatPostgres(db),
	}, nil
}

func (s *storage) Close() {
	if s.db != nil {
		s.db.Close()
	}
}
