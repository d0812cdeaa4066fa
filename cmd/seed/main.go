package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.uber.org/zap"

	"github.com/devicecare/repair-booking/internal/bootstrap"
	"github.com/devicecare/repair-booking/internal/config"
	"github.com/devicecare/repair-booking/internal/observability"
	"github.com/devicecare/repair-booking/internal/persistence"
	"github.com/devicecare/repair-booking/internal/service"
)

// seed inserts the predefined technicians, and the admin account when one is
// configured, then exits. Any failure exits non-zero.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	err = run(ctx, cfg, logger)
	cancel()
	if err != nil {
		logger.Fatal("seed failed", zap.Error(err))
	}
	_ = logger.Sync()
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	store, err := bootstrap.OpenStore(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close(context.Background())

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()
	var locker service.Locker
	if redis != nil {
		locker = redis
	}

	seeder := service.NewSeedService(service.SeedDependencies{
		UserRepo:       store.Repos.Users,
		TechnicianRepo: store.Repos.Technicians,
		Locker:         locker,
		Logger:         logger,
		Location:       cfg.Booking.DefaultLocation,
		LockTTL:        cfg.Seed.LockTTL(),
		BcryptCost:     cfg.Auth.BcryptCost,
	})
	created, err := seeder.SeedTechnicians(ctx)
	if err != nil {
		return fmt.Errorf("seed technicians: %w", err)
	}
	if _, err := seeder.SeedAdmin(ctx, cfg.Seed.AdminEmail, cfg.Seed.AdminPassword); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	logger.Info("seed complete", zap.Int("created", created))
	return nil
}
