package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/devicecare/repair-booking/internal/domain"
)

// BookingRepository handles persistence for bookings.
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) error
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	Update(ctx context.Context, booking *domain.Booking) error
}

type bookingRepository struct {
	pool *pgxpool.Pool
}

// NewBookingRepository returns a Postgres-backed implementation.
func NewBookingRepository(pool *pgxpool.Pool) BookingRepository {
	return &bookingRepository{pool: pool}
}

func (r *bookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	const query = `
        INSERT INTO bookings (requester_id, problem, device_type, brand, model, technician_id, time_slot, status, payment_status)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        RETURNING id, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		b.RequesterID,
		b.Problem,
		b.DeviceType,
		b.Brand,
		b.Model,
		b.TechnicianID,
		b.TimeSlot,
		b.Status,
		b.PaymentStatus,
	).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	return translatePgError(err)
}

func (r *bookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	if !validUUID(id) {
		return nil, ErrNotFound
	}
	const query = `
        SELECT id, requester_id, problem, device_type, brand, model, technician_id, time_slot,
               status, payment_status, payment_ref, paid_at, created_at, updated_at
        FROM bookings WHERE id=$1`

	var b domain.Booking
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&b.ID,
		&b.RequesterID,
		&b.Problem,
		&b.DeviceType,
		&b.Brand,
		&b.Model,
		&b.TechnicianID,
		&b.TimeSlot,
		&b.Status,
		&b.PaymentStatus,
		&b.PaymentRef,
		&b.PaidAt,
		&b.CreatedAt,
		&b.UpdatedAt,
	); err != nil {
		return nil, translatePgError(err)
	}
	return &b, nil
}

func (r *bookingRepository) Update(ctx context.Context, b *domain.Booking) error {
	if !validUUID(b.ID) {
		return ErrNotFound
	}
	const query = `
        UPDATE bookings
        SET status=$1, payment_status=$2, payment_ref=$3, paid_at=$4, updated_at=NOW()
        WHERE id=$5
        RETURNING updated_at`

	err := r.pool.QueryRow(ctx, query,
		b.Status,
		b.PaymentStatus,
		b.PaymentRef,
		b.PaidAt,
		b.ID,
	).Scan(&b.UpdatedAt)
	return translatePgError(err)
}
