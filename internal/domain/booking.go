package domain

import "time"

// BookingStatus is the lifecycle status of a booking. Nothing transitions it yet.
type BookingStatus string

const (
	BookingStatusPending BookingStatus = "Pending"
)

// PaymentStatus is the billing state of a booking.
type PaymentStatus string

const (
	// PaymentStatusUnpaid is only found on rows written by older deployments.
	PaymentStatusUnpaid  PaymentStatus = "Unpaid"
	PaymentStatusPending PaymentStatus = "Pending"
	PaymentStatusPaid    PaymentStatus = "Paid"
)

// Booking links a requester, a device problem, a technician and a time slot.
type Booking struct {
	ID            string
	RequesterID   string
	Problem       string
	DeviceType    string
	Brand         string
	Model         string
	TechnicianID  string
	TimeSlot      string
	Status        BookingStatus
	PaymentStatus PaymentStatus
	PaymentRef    *string
	PaidAt        *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// MarkPaid flips the payment flag. It is unconditional and safe to repeat.
func (b *Booking) MarkPaid(ref string, at time.Time) {
	b.PaymentStatus = PaymentStatusPaid
	if ref != "" {
		b.PaymentRef = &ref
	}
	b.PaidAt = &at
}
