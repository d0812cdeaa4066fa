package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/devicecare/repair-booking/internal/config"
	"github.com/devicecare/repair-booking/internal/domain"
	"github.com/devicecare/repair-booking/internal/events"
	"github.com/devicecare/repair-booking/internal/repository"
	apperrors "github.com/devicecare/repair-booking/pkg/util"
)

// candidateLimit bounds how many technicians are considered per booking.
const candidateLimit = 100

// BookingService assigns technicians and records bookings.
type BookingService struct {
	bookings    repository.BookingRepository
	technicians repository.TechnicianRepository
	dispatcher  events.Dispatcher
	logger      *zap.Logger
	cfg         config.BookingConfig
}

// BookingDependencies bundles repositories.
type BookingDependencies struct {
	BookingRepo    repository.BookingRepository
	TechnicianRepo repository.TechnicianRepository
	Dispatcher     events.Dispatcher
	Logger         *zap.Logger
}

// BookingRequest describes a repair request.
type BookingRequest struct {
	RequesterID string
	Problem     string
	DeviceType  string
	Brand       string
	Model       string
	TimeSlot    string
	// Location overrides the configured default when non-empty.
	Location string
}

// NewBookingService creates the service.
func NewBookingService(cfg config.BookingConfig, deps BookingDependencies) *BookingService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BookingService{
		bookings:    deps.BookingRepo,
		technicians: deps.TechnicianRepo,
		dispatcher:  deps.Dispatcher,
		logger:      logger,
		cfg:         cfg,
	}
}

// Create picks a technician at the requested location and stores a new
// booking awaiting payment. An empty requester is stored as given.
func (s *BookingService) Create(ctx context.Context, req BookingRequest) (booking *domain.Booking, err error) {
	ctx, span := startSpan(ctx, "BookingService.Create")
	defer func() { endSpan(span, err) }()

	location := s.resolveLocation(req.Location)
	span.SetAttributes(attribute.String("booking.location", location))

	tech, err := s.selectTechnician(ctx, location, req.TimeSlot)
	if err != nil {
		return nil, err
	}

	booking = &domain.Booking{
		RequesterID:   req.RequesterID,
		Problem:       req.Problem,
		DeviceType:    req.DeviceType,
		Brand:         req.Brand,
		Model:         req.Model,
		TechnicianID:  tech.ID,
		TimeSlot:      req.TimeSlot,
		Status:        domain.BookingStatusPending,
		PaymentStatus: domain.PaymentStatusPending,
	}
	if err := s.bookings.Create(ctx, booking); err != nil {
		return nil, apperrors.MapError(err)
	}
	span.SetAttributes(attribute.String("booking.id", booking.ID), attribute.String("technician.id", tech.ID))

	s.publish(ctx, events.Event{
		Type:      events.EventBookingCreated,
		BookingID: booking.ID,
		Payload: events.BookingCreatedPayload{
			RequesterID:   booking.RequesterID,
			TechnicianID:  booking.TechnicianID,
			Location:      location,
			TimeSlot:      booking.TimeSlot,
			PaymentStatus: booking.PaymentStatus,
		},
	})
	return booking, nil
}

// Get returns a booking by id.
func (s *BookingService) Get(ctx context.Context, id string) (*domain.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("booking", map[string]any{"booking_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return booking, nil
}

// ListTechnicians returns technicians at location, or at the default location when empty.
func (s *BookingService) ListTechnicians(ctx context.Context, location string) ([]domain.Technician, error) {
	techs, err := s.technicians.ListByLocation(ctx, s.resolveLocation(location), candidateLimit)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if techs == nil {
		techs = []domain.Technician{}
	}
	return techs, nil
}

func (s *BookingService) resolveLocation(requested string) string {
	if loc := strings.TrimSpace(requested); loc != "" {
		return loc
	}
	return s.cfg.DefaultLocation
}

// selectTechnician returns the first technician at location. With slot
// matching enabled it returns the first one advertising slot instead.
func (s *BookingService) selectTechnician(ctx context.Context, location, slot string) (*domain.Technician, error) {
	limit := 1
	if s.cfg.MatchSlot {
		limit = candidateLimit
	}
	techs, err := s.technicians.ListByLocation(ctx, location, limit)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	details := map[string]any{"location": location}
	if len(techs) == 0 {
		return nil, apperrors.NewNotFound("technician", details)
	}
	if !s.cfg.MatchSlot {
		return &techs[0], nil
	}
	for i := range techs {
		if techs[i].HasSlot(slot) {
			return &techs[i], nil
		}
	}
	details["time_slot"] = slot
	return nil, apperrors.NewNotFound("technician", details)
}

func (s *BookingService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.Timestamp = time.Now()
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event handler failed",
			zap.String("event_type", string(event.Type)),
			zap.String("booking_id", event.BookingID),
			zap.Error(err))
	}
	trace.SpanFromContext(ctx).AddEvent(string(event.Type))
}
