package dto

import (
	"time"

	"github.com/devicecare/repair-booking/internal/domain"
)

// BookRequest payload for POST /book. UserID is an accepted alias of RequesterID.
type BookRequest struct {
	RequesterID string `json:"requesterId"`
	UserID      string `json:"userId"`
	Problem     string `json:"problem"`
	DeviceType  string `json:"deviceType"`
	Brand       string `json:"brand"`
	Model       string `json:"model"`
	TimeSlot    string `json:"timeSlot"`
	Location    string `json:"location"`
}

// Requester returns the requester id, preferring requesterId over userId.
func (r BookRequest) Requester() string {
	if r.RequesterID != "" {
		return r.RequesterID
	}
	return r.UserID
}

// PayRequest payload for POST /pay.
type PayRequest struct {
	BookingID  string `json:"bookingId"`
	PaymentRef string `json:"paymentRef"`
}

// BookingResponse is the JSON shape of a booking.
type BookingResponse struct {
	ID            string     `json:"id"`
	RequesterID   string     `json:"requesterId"`
	Problem       string     `json:"problem"`
	DeviceType    string     `json:"deviceType"`
	Brand         string     `json:"brand"`
	Model         string     `json:"model"`
	TechnicianID  string     `json:"technicianId"`
	TimeSlot      string     `json:"timeSlot"`
	Status        string     `json:"status"`
	PaymentStatus string     `json:"paymentStatus"`
	PaymentRef    *string    `json:"paymentRef,omitempty"`
	PaidAt        *time.Time `json:"paidAt,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// NewBookingResponse maps a domain booking.
func NewBookingResponse(b *domain.Booking) BookingResponse {
	return BookingResponse{
		ID:            b.ID,
		RequesterID:   b.RequesterID,
		Problem:       b.Problem,
		DeviceType:    b.DeviceType,
		Brand:         b.Brand,
		Model:         b.Model,
		TechnicianID:  b.TechnicianID,
		TimeSlot:      b.TimeSlot,
		Status:        string(b.Status),
		PaymentStatus: string(b.PaymentStatus),
		PaymentRef:    b.PaymentRef,
		PaidAt:        b.PaidAt,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}

// TechnicianResponse is the JSON shape of a technician.
type TechnicianResponse struct {
	ID             string    `json:"id"`
	UserID         string    `json:"userId"`
	Location       string    `json:"location"`
	AvailableSlots []string  `json:"availableSlots"`
	ServiceFee     float64   `json:"serviceFee"`
	CreatedAt      time.Time `json:"createdAt"`
}

// NewTechnicianResponse maps a domain technician.
func NewTechnicianResponse(t *domain.Technician) TechnicianResponse {
	slots := t.AvailableSlots
	if slots == nil {
		slots = []string{}
	}
	return TechnicianResponse{
		ID:             t.ID,
		UserID:         t.UserID,
		Location:       t.Location,
		AvailableSlots: slots,
		ServiceFee:     t.ServiceFee,
		CreatedAt:      t.CreatedAt,
	}
}
