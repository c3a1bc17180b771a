package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/oasis-hotel/portal/internal/api/http/handlers"
	"github.com/oasis-hotel/portal/internal/config"
	"github.com/oasis-hotel/portal/internal/persistence"
	"github.com/oasis-hotel/portal/internal/storage"
)

// openedStorage is the selected session storage plus what must be probed and closed.
type openedStorage struct {
	Storage storage.Storage
	Pingers map[string]handlers.Pinger
	closers []func()
}

func (o *openedStorage) Close() {
	for i := len(o.closers) - 1; i >= 0; i-- {
		o.closers[i]()
	}
}

func openStorage(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*openedStorage, error) {
	opened := &openedStorage{Pingers: map[string]handlers.Pinger{}}

	switch cfg.Storage.Driver {
	case config.StorageMemory:
		opened.Storage = storage.NewMemory(cfg.Storage.Origin)
	case config.StorageFile:
		fs, err := storage.NewFile(cfg.Storage.FilePath, cfg.Storage.Origin)
		if err != nil {
			return nil, err
		}
		opened.Storage = fs
	case config.StorageRedis:
		r := persistence.NewRedis(ctx, cfg.Redis, logger)
		opened.closers = append(opened.closers, r.Close)
		opened.Pingers["redis"] = r
		opened.Storage = storage.NewRedis(r.Client, cfg.Storage.Origin)
	case config.StoragePostgres:
		pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		opened.closers = append(opened.closers, pg.Close)
		opened.Pingers["postgres"] = pg
		if cfg.Postgres.RunMigrations {
			if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
				opened.Close()
				return nil, fmt.Errorf("run migrations: %w", err)
			}
		}
		ps, err := storage.NewPostgres(pg.PoolHandle(), cfg.Storage.Origin)
		if err != nil {
			opened.Close()
			return nil, err
		}
		opened.Storage = ps
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}

	if cfg.Storage.SealKey != "" {
		sealed, err := storage.NewSealed(opened.Storage, cfg.Storage.SealKey)
		if err != nil {
			opened.Close()
			return nil, err
		}
		opened.Storage = sealed
	}
	logger.Info("session storage ready",
		zap.String("driver", cfg.Storage.Driver),
		zap.String("origin", cfg.Storage.Origin),
		zap.Bool("sealed", cfg.Storage.SealKey != ""))
	return opened, nil
}
