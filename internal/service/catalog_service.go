package service

import (
	"context"
	"errors"
	"strings"

	"github.com/devicecare/repair-booking/internal/domain"
	"github.com/devicecare/repair-booking/internal/repository"
	apperrors "github.com/devicecare/repair-booking/pkg/util"
)

// CatalogService manages the reference lists customers pick from.
type CatalogService struct {
	catalog repository.CatalogRepository
}

// NewCatalogService creates the service.
func NewCatalogService(catalog repository.CatalogRepository) *CatalogService {
	return &CatalogService{catalog: catalog}
}

// List returns entries of kind; brandID narrows models to one brand.
func (s *CatalogService) List(ctx context.Context, kind domain.CatalogKind, brandID string) ([]domain.CatalogItem, error) {
	if !kind.Valid() {
		return nil, apperrors.NewNotFound("catalog", map[string]any{"kind": kind})
	}
	filter := repository.CatalogFilter{Kind: kind}
	if kind == domain.CatalogModels && brandID != "" {
		filter.BrandID = &brandID
	}
	items, err := s.catalog.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return items, nil
}

// Create adds an entry. Models must reference an existing brand.
func (s *CatalogService) Create(ctx context.Context, item domain.CatalogItem) (*domain.CatalogItem, error) {
	if !item.Kind.Valid() {
		return nil, apperrors.NewNotFound("catalog", map[string]any{"kind": item.Kind})
	}
	item.Name = strings.TrimSpace(item.Name)
	if item.Name == "" {
		return nil, apperrors.NewValidationError("name required", nil)
	}
	if item.Kind == domain.CatalogProblems {
		item.Image = ""
	}
	if item.Kind != domain.CatalogModels {
		item.BrandID = nil
	} else if item.BrandID == nil || *item.BrandID == "" {
		return nil, apperrors.NewValidationError("brandId required for models", nil)
	}

	if err := s.catalog.Create(ctx, &item); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("brand", map[string]any{"brand_id": *item.BrandID})
		}
		return nil, apperrors.MapError(err)
	}
	return &item, nil
}
