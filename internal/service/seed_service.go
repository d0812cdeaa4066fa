package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/devicecare/repair-booking/internal/auth"
	"github.com/devicecare/repair-booking/internal/domain"
	"github.com/devicecare/repair-booking/internal/repository"
)

// seedLockKey guards technician seeding across processes.
const seedLockKey = "seed:technicians"

// Locker grants exclusive, expiring ownership of a key.
type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (release func(context.Context) error, ok bool, err error)
}

// noopLocker always grants the lock; used when no Redis is configured.
type noopLocker struct{}

func (noopLocker) Acquire(context.Context, string, time.Duration) (func(context.Context) error, bool, error) {
	return func(context.Context) error { return nil }, true, nil
}

// SeedService creates the predefined technicians.
type SeedService struct {
	users       repository.UserRepository
	technicians repository.TechnicianRepository
	locker      Locker
	logger      *zap.Logger
	location    string
	lockTTL     time.Duration
	bcryptCost  int
}

// SeedDependencies bundles collaborators.
type SeedDependencies struct {
	UserRepo       repository.UserRepository
	TechnicianRepo repository.TechnicianRepository
	Locker         Locker
	Logger         *zap.Logger
	Location       string
	LockTTL        time.Duration
	BcryptCost     int
}

// NewSeedService creates the service. A nil Locker disables cross-process locking.
func NewSeedService(deps SeedDependencies) *SeedService {
	locker := deps.Locker
	if locker == nil {
		locker = noopLocker{}
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SeedService{
		users:       deps.UserRepo,
		technicians: deps.TechnicianRepo,
		locker:      locker,
		logger:      logger,
		location:    deps.Location,
		lockTTL:     deps.LockTTL,
		bcryptCost:  deps.BcryptCost,
	}
}

var defaultTechnicianSlots = []string{"Monday 10AM", "Tuesday 2PM"}

const (
	defaultTechnicianCount = 3
	defaultTechnicianFee   = 500
	defaultSeedPassword    = "password"
)

// SeedTechnicians creates the predefined technicians unless technician
// accounts other than the predefined ones already exist or another process
// holds the seed lock. A run interrupted part way is completed by the next
// one: existing predefined accounts are reused and only missing profiles are
// created. It returns how many technician profiles were created.
func (s *SeedService) SeedTechnicians(ctx context.Context) (int, error) {
	release, ok, err := s.acquire(ctx)
	if err != nil || !ok {
		return 0, err
	}
	defer release()

	accounts := make([]*domain.User, defaultTechnicianCount)
	seen := false
	for i := range accounts {
		user, err := s.users.GetByEmail(ctx, seedTechnicianEmail(i+1))
		switch {
		case err == nil:
			accounts[i] = user
			seen = true
		case !errors.Is(err, repository.ErrNotFound):
			return 0, fmt.Errorf("look up %s: %w", seedTechnicianEmail(i+1), err)
		}
	}
	if !seen {
		existing, err := s.users.CountByRole(ctx, domain.RoleTechnician)
		if err != nil {
			return 0, fmt.Errorf("count technicians: %w", err)
		}
		if existing > 0 {
			s.logger.Info("technicians already exist", zap.Int64("count", existing))
			return 0, nil
		}
	}

	var hash string
	created := 0
	for i, user := range accounts {
		n := i + 1
		if user == nil {
			if hash == "" {
				if hash, err = auth.HashPassword(defaultSeedPassword, s.bcryptCost); err != nil {
					return created, err
				}
			}
			user = &domain.User{
				Name:         fmt.Sprintf("Technician %d", n),
				Email:        seedTechnicianEmail(n),
				PasswordHash: hash,
				Role:         domain.RoleTechnician,
			}
			if err := s.users.Create(ctx, user); err != nil {
				return created, fmt.Errorf("create %s: %w", user.Email, err)
			}
		} else if user.Role != domain.RoleTechnician {
			s.logger.Warn("predefined technician email belongs to another role; skipping",
				zap.String("email", user.Email), zap.String("role", string(user.Role)))
			continue
		}

		if _, err := s.technicians.GetByUserID(ctx, user.ID); err == nil {
			continue
		} else if !errors.Is(err, repository.ErrNotFound) {
			return created, fmt.Errorf("look up technician for %s: %w", user.Email, err)
		}
		tech := &domain.Technician{
			UserID:         user.ID,
			Location:       s.location,
			AvailableSlots: append([]string(nil), defaultTechnicianSlots...),
			ServiceFee:     defaultTechnicianFee,
		}
		if err := s.technicians.Create(ctx, tech); err != nil {
			return created, fmt.Errorf("create technician for %s: %w", user.Email, err)
		}
		created++
	}

	if created > 0 {
		s.logger.Info("predefined technicians have been added",
			zap.Int("count", created),
			zap.String("location", s.location))
	} else {
		s.logger.Info("predefined technicians already complete")
	}
	return created, nil
}

// SeedAdmin creates an admin account for email unless one already exists.
// It reports whether an account was created.
func (s *SeedService) SeedAdmin(ctx context.Context, email, password string) (bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return false, nil
	}
	existing, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		if existing.Role != domain.RoleAdmin {
			return false, fmt.Errorf("%s exists with role %s", email, existing.Role)
		}
		return false, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return false, fmt.Errorf("look up %s: %w", email, err)
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return false, err
	}
	admin := &domain.User{Name: "Administrator", Email: email, PasswordHash: hash, Role: domain.RoleAdmin}
	if err := s.users.Create(ctx, admin); err != nil {
		return false, fmt.Errorf("create admin %s: %w", email, err)
	}
	s.logger.Info("admin account created", zap.String("email", email))
	return true, nil
}

func (s *SeedService) acquire(ctx context.Context) (func(), bool, error) {
	release, ok, err := s.locker.Acquire(ctx, seedLockKey, s.lockTTL)
	if err != nil {
		return nil, false, fmt.Errorf("acquire seed lock: %w", err)
	}
	if !ok {
		s.logger.Info("seed lock held elsewhere; skipping technician seed")
		return nil, false, nil
	}
	return func() {
		if err := release(context.Background()); err != nil {
			s.logger.Warn("release seed lock", zap.Error(err))
		}
	}, true, nil
}

func seedTechnicianEmail(n int) string {
	return fmt.Sprintf("tech%d@example.com", n)
}
