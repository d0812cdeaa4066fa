package main

import (
	"context"
	"testing"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/devicecare/repair-booking/internal/config"
)

func memoryConfig() *config.Config {
	return &config.Config{
		Store:   config.StoreConfig{Driver: config.StoreMemory},
		Auth:    config.AuthConfig{BcryptCost: bcrypt.MinCost},
		Booking: config.BookingConfig{DefaultLocation: "Lahore"},
	}
}

func TestRunSeedsMemoryStore(t *testing.T) {
	cfg := memoryConfig()
	cfg.Seed.AdminEmail = "admin@example.com"
	cfg.Seed.AdminPassword = "pw"
	if err := run(context.Background(), cfg, zap.NewNop()); err != nil {
		t.Fatalf("run: %v", err)
	}
}

func TestRunReportsFailure(t *testing.T) {
	cfg := memoryConfig()
	// the address is already taken by a seeded technician
	cfg.Seed.AdminEmail = "tech1@example.com"
	cfg.Seed.AdminPassword = "pw"
	if err := run(context.Background(), cfg, zap.NewNop()); err == nil {
		t.Fatal("expected error")
	}

	bad := memoryConfig()
	bad.Store.Driver = config.StorePostgres
	if err := run(context.Background(), bad, zap.NewNop()); err == nil {
		t.Fatal("expected store error")
	}
}
