package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/devicecare/repair-booking/internal/api/dto"
	"github.com/devicecare/repair-booking/internal/service"
	apperrors "github.com/devicecare/repair-booking/pkg/util"
)

// PaymentsHandler settles bookings.
type PaymentsHandler struct {
	service *service.PaymentService
}

// NewPaymentsHandler constructs handler.
func NewPaymentsHandler(paymentService *service.PaymentService) *PaymentsHandler {
	return &PaymentsHandler{service: paymentService}
}

// Pay POST /pay.
func (h *PaymentsHandler) Pay(c *fiber.Ctx) error {
	var req dto.PayRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.BookingID == "" {
		return apperrors.NewNotFound("booking", nil)
	}

	booking, err := h.service.Pay(c.UserContext(), req.BookingID, req.PaymentRef)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message": "Payment successful",
		"booking": dto.NewBookingResponse(booking),
	})
}
