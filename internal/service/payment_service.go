package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/devicecare/repair-booking/internal/domain"
	"github.com/devicecare/repair-booking/internal/events"
	"github.com/devicecare/repair-booking/internal/payment"
	"github.com/devicecare/repair-booking/internal/repository"
	apperrors "github.com/devicecare/repair-booking/pkg/util"
)

// PaymentService settles bookings.
type PaymentService struct {
	bookings   repository.BookingRepository
	gateway    payment.Gateway
	dispatcher events.Dispatcher
	logger     *zap.Logger
	now        func() time.Time
}

// PaymentDependencies bundles collaborators.
type PaymentDependencies struct {
	BookingRepo repository.BookingRepository
	Gateway     payment.Gateway
	Dispatcher  events.Dispatcher
	Logger      *zap.Logger
}

// NewPaymentService creates the service. A nil gateway defaults to the stub.
func NewPaymentService(deps PaymentDependencies) *PaymentService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	gateway := deps.Gateway
	if gateway == nil {
		gateway = payment.NewStubGateway(logger)
	}
	return &PaymentService{
		bookings:   deps.BookingRepo,
		gateway:    gateway,
		dispatcher: deps.Dispatcher,
		logger:     logger,
		now:        time.Now,
	}
}

// Pay marks the booking paid once the gateway accepts paymentRef. The write
// is unconditional, so paying an already paid booking succeeds again.
func (s *PaymentService) Pay(ctx context.Context, bookingID, paymentRef string) (booking *domain.Booking, err error) {
	ctx, span := startSpan(ctx, "PaymentService.Pay")
	defer func() { endSpan(span, err) }()
	span.SetAttributes(attribute.String("booking.id", bookingID))

	booking, err = s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("booking", map[string]any{"booking_id": bookingID})
		}
		return nil, apperrors.MapError(err)
	}

	charge := payment.Charge{BookingID: booking.ID, RequesterID: booking.RequesterID, Reference: paymentRef}
	if err := s.gateway.Confirm(ctx, charge); err != nil {
		return nil, apperrors.NewPaymentFailed(err, map[string]any{"booking_id": booking.ID})
	}

	previous := booking.PaymentStatus
	booking.MarkPaid(paymentRef, s.now().UTC())
	if err := s.bookings.Update(ctx, booking); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("booking", map[string]any{"booking_id": bookingID})
		}
		return nil, apperrors.MapError(err)
	}

	if s.dispatcher != nil {
		event := events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventBookingPaid,
			BookingID: booking.ID,
			Timestamp: time.Now(),
			Payload: events.BookingPaidPayload{
				PaymentRef:     paymentRef,
				PreviousStatus: previous,
			},
		}
		if err := s.dispatcher.Publish(ctx, event); err != nil {
			s.logger.Warn("event handler failed", zap.String("booking_id", booking.ID), zap.Error(err))
		}
	}
	return booking, nil
}
