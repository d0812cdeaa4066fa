package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/devicecare/repair-booking/internal/domain"
)

// TechnicianRepository handles persistence for technicians.
type TechnicianRepository interface {
	Create(ctx context.Context, tech *domain.Technician) error
	GetByID(ctx context.Context, id string) (*domain.Technician, error)
	GetByUserID(ctx context.Context, userID string) (*domain.Technician, error)
	// ListByLocation returns technicians at location, oldest first.
	ListByLocation(ctx context.Context, location string, limit int) ([]domain.Technician, error)
}

type technicianRepository struct {
	pool *pgxpool.Pool
}

// NewTechnicianRepository instantiates the repository.
func NewTechnicianRepository(pool *pgxpool.Pool) TechnicianRepository {
	return &technicianRepository{pool: pool}
}

func (r *technicianRepository) Create(ctx context.Context, tech *domain.Technician) error {
	const query = `
        INSERT INTO technicians (user_id, location, available_slots, service_fee)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at`

	slots := tech.AvailableSlots
	if slots == nil {
		slots = []string{}
	}
	err := r.pool.QueryRow(ctx, query,
		tech.UserID,
		tech.Location,
		slots,
		tech.ServiceFee,
	).Scan(&tech.ID, &tech.CreatedAt)
	return translatePgError(err)
}

func (r *technicianRepository) GetByID(ctx context.Context, id string) (*domain.Technician, error) {
	const query = `
        SELECT id, user_id, location, available_slots, service_fee, created_at
        FROM technicians WHERE id=$1`

	return r.scanOne(ctx, query, id)
}

func (r *technicianRepository) GetByUserID(ctx context.Context, userID string) (*domain.Technician, error) {
	const query = `
        SELECT id, user_id, location, available_slots, service_fee, created_at
        FROM technicians WHERE user_id=$1`

	return r.scanOne(ctx, query, userID)
}

func (r *technicianRepository) scanOne(ctx context.Context, query, id string) (*domain.Technician, error) {
	if !validUUID(id) {
		return nil, ErrNotFound
	}
	var tech domain.Technician
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&tech.ID,
		&tech.UserID,
		&tech.Location,
		&tech.AvailableSlots,
		&tech.ServiceFee,
		&tech.CreatedAt,
	); err != nil {
		return nil, translatePgError(err)
	}
	return &tech, nil
}

func (r *technicianRepository) ListByLocation(ctx context.Context, location string, limit int) ([]domain.Technician, error) {
	if limit <= 0 {
		limit = 50
	}
	const query = `
        SELECT id, user_id, location, available_slots, service_fee, created_at
        FROM technicians WHERE location=$1
        ORDER BY created_at ASC, id ASC
        LIMIT $2`

	rows, err := r.pool.Query(ctx, query, location, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Technician
	for rows.Next() {
		var tech domain.Technician
		if err := rows.Scan(
			&tech.ID,
			&tech.UserID,
			&tech.Location,
			&tech.AvailableSlots,
			&tech.ServiceFee,
			&tech.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, tech)
	}
	return result, rows.Err()
}
