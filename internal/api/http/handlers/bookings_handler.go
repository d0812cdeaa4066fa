package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/devicecare/repair-booking/internal/api/dto"
	"github.com/devicecare/repair-booking/internal/auth"
	"github.com/devicecare/repair-booking/internal/service"
	apperrors "github.com/devicecare/repair-booking/pkg/util"
)

// BookingsHandler manages booking and technician endpoints.
type BookingsHandler struct {
	service *service.BookingService
}

// NewBookingsHandler constructs handler.
func NewBookingsHandler(bookingService *service.BookingService) *BookingsHandler {
	return &BookingsHandler{service: bookingService}
}

// Book POST /book.
func (h *BookingsHandler) Book(c *fiber.Ctx) error {
	var req dto.BookRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	requester := req.Requester()
	if requester == "" {
		if principal, ok := auth.PrincipalFromContext(c); ok && principal.User != nil {
			requester = principal.User.ID
		}
	}

	booking, err := h.service.Create(c.UserContext(), service.BookingRequest{
		RequesterID: requester,
		Problem:     req.Problem,
		DeviceType:  req.DeviceType,
		Brand:       req.Brand,
		Model:       req.Model,
		TimeSlot:    req.TimeSlot,
		Location:    req.Location,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"message": "Booking created successfully",
		"booking": dto.NewBookingResponse(booking),
	})
}

// GetBooking GET /bookings/:id.
func (h *BookingsHandler) GetBooking(c *fiber.Ctx) error {
	booking, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"booking": dto.NewBookingResponse(booking)})
}

// ListTechnicians GET /technicians.
func (h *BookingsHandler) ListTechnicians(c *fiber.Ctx) error {
	techs, err := h.service.ListTechnicians(c.UserContext(), c.Query("location"))
	if err != nil {
		return err
	}
	items := make([]dto.TechnicianResponse, 0, len(techs))
	for i := range techs {
		items = append(items, dto.NewTechnicianResponse(&techs[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}
