package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/devicecare/repair-booking/internal/api/dto"
	"github.com/devicecare/repair-booking/internal/domain"
	"github.com/devicecare/repair-booking/internal/service"
	apperrors "github.com/devicecare/repair-booking/pkg/util"
)

// CatalogHandler serves the problem, device type, brand and model lists.
type CatalogHandler struct {
	service *service.CatalogService
}

// NewCatalogHandler constructs handler.
func NewCatalogHandler(catalogService *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: catalogService}
}

// List GET /catalog/:kind.
func (h *CatalogHandler) List(c *fiber.Ctx) error {
	items, err := h.service.List(c.UserContext(), domain.CatalogKind(c.Params("kind")), c.Query("brandId"))
	if err != nil {
		return err
	}
	out := make([]dto.CatalogItemResponse, 0, len(items))
	for i := range items {
		out = append(out, dto.NewCatalogItemResponse(&items[i]))
	}
	return c.JSON(fiber.Map{"data": out})
}

// Create POST /catalog/:kind.
func (h *CatalogHandler) Create(c *fiber.Ctx) error {
	var req dto.CatalogCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	item, err := h.service.Create(c.UserContext(), domain.CatalogItem{
		Kind:    domain.CatalogKind(c.Params("kind")),
		Name:    req.Name,
		Image:   req.Image,
		BrandID: req.BrandID,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewCatalogItemResponse(item)})
}
