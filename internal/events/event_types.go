package events

import (
	"time"

	"github.com/devicecare/repair-booking/internal/domain"
)

// EventType enumerates supported event identifiers. Values double as AMQP routing keys.
type EventType string

const (
	EventBookingCreated EventType = "booking.created"
	EventBookingPaid    EventType = "booking.paid"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	BookingID string      `json:"booking_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// BookingCreatedPayload payload.
type BookingCreatedPayload struct {
	RequesterID   string               `json:"requester_id"`
	TechnicianID  string               `json:"technician_id"`
	Location      string               `json:"location"`
	TimeSlot      string               `json:"time_slot"`
	PaymentStatus domain.PaymentStatus `json:"payment_status"`
}

// BookingPaidPayload payload.
type BookingPaidPayload struct {
	PaymentRef     string               `json:"payment_ref,omitempty"`
	PreviousStatus domain.PaymentStatus `json:"previous_status"`
}
