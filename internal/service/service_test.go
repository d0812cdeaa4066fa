package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/devicecare/repair-booking/internal/domain"
	"github.com/devicecare/repair-booking/internal/repository"
	apperrors "github.com/devicecare/repair-booking/pkg/util"
)

// addTechnician stores a technician account and profile at location.
func addTechnician(t *testing.T, store *repository.MemoryStore, n int, location string, slots ...string) *domain.Technician {
	t.Helper()
	ctx := context.Background()
	user := &domain.User{
		Name:         fmt.Sprintf("Technician %d", n),
		Email:        fmt.Sprintf("tech%d@example.com", n),
		PasswordHash: "x",
		Role:         domain.RoleTechnician,
	}
	if err := store.Users().Create(ctx, user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	tech := &domain.Technician{UserID: user.ID, Location: location, AvailableSlots: slots, ServiceFee: 500}
	if err := store.Technicians().Create(ctx, tech); err != nil {
		t.Fatalf("create technician: %v", err)
	}
	return tech
}

func assertStatus(t *testing.T, err error, want int) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with status %d", want)
	}
	var de *apperrors.DomainError
	if !errors.As(err, &de) {
		t.Fatalf("error %v is not a DomainError", err)
	}
	if de.HTTPStatus != want {
		t.Fatalf("status = %d, want %d (%v)", de.HTTPStatus, want, err)
	}
}


var errStorage = errors.New("pq: connection refused on 10.0.0.5:5432")

// brokenTechnicians fails every listing.
type brokenTechnicians struct {
	repository.TechnicianRepository
}

func (brokenTechnicians) ListByLocation(context.Context, string, int) ([]domain.Technician, error) {
	return nil, errStorage
}

// brokenBookings wraps a working repository and fails the selected calls.
type brokenBookings struct {
	repository.BookingRepository
	failCreate, failGet, failUpdate bool
}

func (b brokenBookings) Create(ctx context.Context, booking *domain.Booking) error {
	if b.failCreate {
		return errStorage
	}
	return b.BookingRepository.Create(ctx, booking)
}

func (b brokenBookings) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	if b.failGet {
		return nil, errStorage
	}
	return b.BookingRepository.GetByID(ctx, id)
}

func (b brokenBookings) Update(ctx context.Context, booking *domain.Booking) error {
	if b.failUpdate {
		return errStorage
	}
	return b.BookingRepository.Update(ctx, booking)
}
