package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/devicecare/repair-booking/internal/domain"
)

// CatalogRepository stores problems, device types, brands and models.
type CatalogRepository interface {
	Create(ctx context.Context, item *domain.CatalogItem) error
	List(ctx context.Context, filter CatalogFilter) ([]domain.CatalogItem, error)
}

// CatalogFilter restricts a listing to one kind and, for models, one brand.
type CatalogFilter struct {
	Kind    domain.CatalogKind
	BrandID *string
}

type catalogRepository struct {
	pool *pgxpool.Pool
}

// NewCatalogRepository returns a Postgres-backed implementation.
func NewCatalogRepository(pool *pgxpool.Pool) CatalogRepository {
	return &catalogRepository{pool: pool}
}

func (r *catalogRepository) Create(ctx context.Context, item *domain.CatalogItem) error {
	if item.BrandID != nil && !validUUID(*item.BrandID) {
		return ErrNotFound
	}
	// no row comes back when brand_id names something other than a brand
	err := r.pool.QueryRow(ctx, insertCatalogItemQuery, item.Kind, item.Name, item.Image, item.BrandID).Scan(&item.ID)
	if err != nil {
		return translatePgError(err)
	}
	return nil
}

const insertCatalogItemQuery = `
        INSERT INTO catalog_items (kind, name, image, brand_id)
        SELECT $1::text, $2::text, $3::text, $4::uuid
        WHERE $4::uuid IS NULL
           OR EXISTS (SELECT 1 FROM catalog_items WHERE id = $4::uuid AND kind = 'brands')
        RETURNING id`

func (r *catalogRepository) List(ctx context.Context, filter CatalogFilter) ([]domain.CatalogItem, error) {
	query := `
        SELECT id, kind, name, image, brand_id
        FROM catalog_items WHERE kind=$1`
	args := []any{filter.Kind}
	if filter.BrandID != nil {
		if !validUUID(*filter.BrandID) {
			return []domain.CatalogItem{}, nil
		}
		args = append(args, *filter.BrandID)
		query += " AND brand_id=$2"
	}
	query += " ORDER BY name ASC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.CatalogItem{}
	for rows.Next() {
		var item domain.CatalogItem
		if err := rows.Scan(&item.ID, &item.Kind, &item.Name, &item.Image, &item.BrandID); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	return result, rows.Err()
}
