package dto

import "github.com/devicecare/repair-booking/internal/domain"

// CatalogCreateRequest payload for POST /catalog/:kind.
type CatalogCreateRequest struct {
	Name    string  `json:"name"`
	Image   string  `json:"image"`
	BrandID *string `json:"brandId"`
}

// CatalogItemResponse is the JSON shape of a catalog entry.
type CatalogItemResponse struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Image   string  `json:"image,omitempty"`
	BrandID *string `json:"brandId,omitempty"`
}

// NewCatalogItemResponse maps a domain catalog item.
func NewCatalogItemResponse(item *domain.CatalogItem) CatalogItemResponse {
	return CatalogItemResponse{ID: item.ID, Name: item.Name, Image: item.Image, BrandID: item.BrandID}
}
