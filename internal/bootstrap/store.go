package bootstrap

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/devicecare/repair-booking/internal/config"
	"github.com/devicecare/repair-booking/internal/persistence"
	"github.com/devicecare/repair-booking/internal/repository"
)

// Store is an opened persistence backend.
type Store struct {
	Repos repository.Repositories
	// Deps lists the backend handles pinged by the readiness check.
	Deps  []persistence.Pinger
	close func(context.Context)
}

// Close releases the backend's connections.
func (s *Store) Close(ctx context.Context) {
	if s != nil && s.close != nil {
		s.close(ctx)
	}
}

// OpenStore connects to the backend selected by STORE_DRIVER and prepares
// its schema.
func OpenStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Store, error) {
	switch cfg.Store.Driver {
	case config.StorePostgres:
		pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		if cfg.Postgres.RunMigrations {
			if err := persistence.RunMigrations(ctx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, logger); err != nil {
				pg.Close()
				return nil, fmt.Errorf("run migrations: %w", err)
			}
		}
		return &Store{
			Repos: repository.NewPostgresRepositories(pg.PoolHandle()),
			Deps:  []persistence.Pinger{pg},
			close: func(context.Context) { pg.Close() },
		}, nil

	case config.StoreMongo:
		mg, err := persistence.NewMongo(ctx, cfg.Mongo, logger)
		if err != nil {
			return nil, fmt.Errorf("connect mongo: %w", err)
		}
		if err := mg.EnsureIndexes(ctx); err != nil {
			mg.Close(context.Background())
			return nil, fmt.Errorf("ensure indexes: %w", err)
		}
		return &Store{
			Repos: repository.NewMongoRepositories(mg.DB),
			Deps:  []persistence.Pinger{mg},
			close: mg.Close,
		}, nil

	case config.StoreMemory:
		logger.Warn("using in-memory store; data is lost on restart")
		return &Store{Repos: repository.NewMemoryRepositories()}, nil
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
}
