// Package backend opens the KV storage selected by configuration.
package backend

import (
	"context"
	"fmt"
	"log/slog"

	"movierec/internal/config"
	"movierec/internal/domain/repositories"
	"movierec/internal/repository/memory"
	"movierec/internal/repository/postgres"
	"movierec/internal/repository/sqlite"
)

// Backend is an opened KV store and its transaction manager.
type Backend struct {
	Name string
	KV   repositories.KV
	Tx   repositories.TransactionManager

	// Reset drops all stored data. Nil for backends that cannot be reset.
	Reset func(ctx context.Context) error

	close func()
}

// Close releases connections held by the backend.
func (b *Backend) Close() {
	if b.close != nil {
		b.close()
	}
}

// Open connects to cfg.StorageBackend and ensures its schema.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Backend, error) {
	switch cfg.StorageBackend {
	case config.StorageMemory:
		logger.Warn("using in-memory storage; chats are lost on restart")
		return &Backend{
			Name: config.StorageMemory,
			KV:   memory.NewKV(),
			Tx:   memory.NewTransactionManager(),
		}, nil

	case config.StoragePostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required for the %s backend", config.StoragePostgres)
		}
		pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		tables := postgres.NewTableNames(cfg.TablePrefix)
		if err := postgres.EnsureSchema(ctx, pool, tables); err != nil {
			pool.Close()
			return nil, err
		}
		logger.Info("database connected", "backend", config.StoragePostgres, "table_prefix", cfg.TablePrefix)

		repoConfig := &postgres.RepositoryConfig{Pool: pool, Tables: tables, Logger: logger}
		return &Backend{
			Name: config.StoragePostgres,
			KV:   postgres.NewKV(repoConfig),
			Tx:   postgres.NewTransactionManager(pool, logger),
			Reset: func(ctx context.Context) error {
				if err := postgres.DropSchema(ctx, pool, tables); err != nil {
					return err
				}
				return postgres.EnsureSchema(ctx, pool, tables)
			},
			close: pool.Close,
		}, nil

	case config.StorageSQLite:
		db, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		logger.Info("database opened", "backend", config.StorageSQLite, "path", cfg.SQLitePath)
		return &Backend{
			Name:  config.StorageSQLite,
			KV:    sqlite.NewKV(db, logger),
			Tx:    sqlite.NewTransactionManager(db, logger),
			close: func() { _ = db.Close() },
		}, nil

	default:
		return nil, fmt.Errorf("unknown STORAGE_BACKEND %q", cfg.StorageBackend)
	}
}
