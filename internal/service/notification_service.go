package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/devicecare/repair-booking/internal/config"
	"github.com/devicecare/repair-booking/internal/events"
)

// NotificationService tells requesters and technicians about booking changes.
// Delivery is logged only; email and webhook targets come from config.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to booking events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventBookingCreated, n.onBookingCreated)
	n.dispatcher.Subscribe(events.EventBookingPaid, n.onBookingPaid)
}

func (n *NotificationService) onBookingCreated(ctx context.Context, event events.Event) error {
	p, ok := createdPayload(event.Payload)
	if !ok {
		n.logger.Warn("booking created event without payload", zap.String("booking_id", event.BookingID))
		return nil
	}
	requester := p.RequesterID
	if requester == "" {
		requester = "anonymous"
	}
	n.logger.Info("BookingCreated",
		zap.String("booking_id", event.BookingID),
		zap.String("requester_id", requester),
		zap.String("technician_id", p.TechnicianID),
		zap.String("location", p.Location),
		zap.String("time_slot", p.TimeSlot),
		zap.String("payment_status", string(p.PaymentStatus)))

	n.email(ctx, event, "technician "+p.TechnicianID+" booked for "+p.TimeSlot+" in "+p.Location)
	// Technicians subscribe through the webhook; requesters only get email.
	n.webhook(ctx, event, p.TechnicianID)
	return nil
}

func (n *NotificationService) onBookingPaid(ctx context.Context, event events.Event) error {
	p, ok := paidPayload(event.Payload)
	if !ok {
		n.logger.Warn("booking paid event without payload", zap.String("booking_id", event.BookingID))
		return nil
	}
	n.logger.Info("BookingPaid",
		zap.String("booking_id", event.BookingID),
		zap.String("payment_ref", p.PaymentRef),
		zap.String("previous_status", string(p.PreviousStatus)))

	summary := "payment received"
	if p.PaymentRef != "" {
		summary += " (ref " + p.PaymentRef + ")"
	}
	n.email(ctx, event, summary)
	return nil
}

func (n *NotificationService) email(_ context.Context, event events.Event, summary string) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Debug("booking email queued",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("booking_id", event.BookingID),
		zap.String("event_type", string(event.Type)),
		zap.String("summary", summary))
}

func (n *NotificationService) webhook(_ context.Context, event events.Event, technicianID string) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("technician webhook queued",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("booking_id", event.BookingID),
		zap.String("technician_id", technicianID),
		zap.String("event_type", string(event.Type)))
}

func createdPayload(v interface{}) (events.BookingCreatedPayload, bool) {
	switch p := v.(type) {
	case events.BookingCreatedPayload:
		return p, true
	case *events.BookingCreatedPayload:
		if p != nil {
			return *p, true
		}
	}
	return events.BookingCreatedPayload{}, false
}

func paidPayload(v interface{}) (events.BookingPaidPayload, bool) {
	switch p := v.(type) {
	case events.BookingPaidPayload:
		return p, true
	case *events.BookingPaidPayload:
		if p != nil {
			return *p, true
		}
	}
	return events.BookingPaidPayload{}, false
}
