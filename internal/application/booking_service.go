package application

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/recharge-travels/service-booking/internal/domain"
	bookingDomain "github.com/recharge-travels/service-booking/internal/domain/booking"
	"github.com/recharge-travels/service-booking/internal/domain/catalog"
	"github.com/recharge-travels/service-booking/internal/events"
	"github.com/recharge-travels/service-booking/internal/export"
)

// CreateBookingRequest holds the data needed to create a new booking.
type CreateBookingRequest struct {
	ProductID         uuid.UUID           `json:"product_id" binding:"required"`
	Party             bookingDomain.Party `json:"party" binding:"required"`
	ScheduleStart     string              `json:"schedule_start" binding:"required"`
	Nights            int                 `json:"nights"`
	Channel           string              `json:"channel" binding:"required"`
	CustomerName      string              `json:"customer_name" binding:"required"`
	CustomerEmail     string              `json:"customer_email"`
	CustomerPhone     string              `json:"customer_phone"`
	AgencyID          *uuid.UUID          `json:"agency_id"`
	EmergencyOverride bool                `json:"emergency_override"`
	Notes             string              `json:"notes"`
}

// BookingDTO is the response representation of a booking.
type BookingDTO struct {
	ID                uuid.UUID                    `json:"id"`
	Reference         string                       `json:"reference"`
	Product           bookingDomain.ProductRef     `json:"product"`
	Party             bookingDomain.Party          `json:"party"`
	Schedule          bookingDomain.Schedule       `json:"schedule"`
	Channel           string                       `json:"channel"`
	Price             bookingDomain.PriceBreakdown `json:"price"`
	CustomerName      string                       `json:"customer_name"`
	CustomerEmail     string                       `json:"customer_email,omitempty"`
	CustomerPhone     string                       `json:"customer_phone,omitempty"`
	AgencyID          *uuid.UUID                   `json:"agency_id,omitempty"`
	FulfillmentStatus string                       `json:"fulfillment_status"`
	PaymentStatus     string                       `json:"payment_status"`
	EmergencyOverride bool                         `json:"emergency_override"`
	Notes             string                       `json:"notes,omitempty"`
	History           []bookingDomain.StatusChange `json:"history,omitempty"`
	Version           int64                        `json:"version"`
	CreatedAt         time.Time                    `json:"created_at"`
	UpdatedAt         time.Time                    `json:"updated_at"`
}

// OutboxEnqueuer appends customer notifications to the outbox queue.
type OutboxEnqueuer interface {
	EnqueueMessage(ctx context.Context, recipient, channel, body string) error
}

// BookingService orchestrates the booking lifecycle: admission, pricing,
// creation and status transitions. It is the single writer of status
// fields; every mutation goes through an optimistic-locking update.
type BookingService struct {
	repo      bookingDomain.Repository
	products  catalog.Repository
	pricing   bookingDomain.PricingStrategy
	admission *bookingDomain.AdmissionValidator
	outbox    OutboxEnqueuer
	producer  *events.Producer
	loc       *time.Location
	logger    *zap.Logger
}

// NewBookingService creates a new BookingService.
func NewBookingService(
	repo bookingDomain.Repository,
	products catalog.Repository,
	pricing bookingDomain.PricingStrategy,
	admission *bookingDomain.AdmissionValidator,
	outbox OutboxEnqueuer,
	producer *events.Producer,
	loc *time.Location,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		repo:      repo,
		products:  products,
		pricing:   pricing,
		admission: admission,
		outbox:    outbox,
		producer:  producer,
		loc:       loc,
		logger:    logger,
	}
}

// CreateBooking validates, prices and persists a new booking in
// pending/unpaid. Validation and business-rule failures leave no side
// effects.
func (s *BookingService) CreateBooking(ctx context.Context, req CreateBookingRequest, actor string) (*BookingDTO, error) {
	channel, err := bookingDomain.ParseChannel(req.Channel)
	if err != nil {
		return nil, err
	}

	schedule, err := bookingDomain.ParseSchedule(req.ScheduleStart, req.Nights, time.Now(), s.loc)
	if err != nil {
		return nil, err
	}

	if err := s.admission.Accepts(schedule.Start, req.EmergencyOverride); err != nil {
		return nil, err
	}

	product, err := s.products.FindByID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}
	if !product.IsActive() {
		return nil, domain.NewValidationError("product is no longer available")
	}

	if err := req.Party.Validate(product.MaxCapacity()); err != nil {
		return nil, err
	}

	// The billable base is the product rate scaled by head count and stay
	// length; the channel formula applies on top of it.
	baseCents := product.BasePriceCents() * int64(req.Party.Size()) * int64(schedule.Duration())
	price, err := s.pricing.Quote(baseCents, channel)
	if err != nil {
		return nil, err
	}

	ref := bookingDomain.ProductRef{
		ProductID:      product.ID(),
		Name:           product.Name(),
		BasePriceCents: product.BasePriceCents(),
		MaxCapacity:    product.MaxCapacity(),
		GroupKey:       product.GroupKey(),
	}

	bk, err := bookingDomain.NewBooking(
		ref,
		req.Party,
		schedule,
		channel,
		price,
		req.CustomerName,
		req.CustomerEmail,
		req.CustomerPhone,
		req.AgencyID,
		req.EmergencyOverride,
		req.Notes,
	)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, bk); err != nil {
		return nil, fmt.Errorf("failed to save booking: %w", err)
	}

	s.enqueueConfirmation(ctx, bk)
	s.publishBookingCreated(ctx, bk)

	result := toBookingDTO(bk)
	return &result, nil
}

// SetFulfillmentStatus moves the fulfillment axis to the target status.
// Re-applying the current status succeeds without writing anything.
func (s *BookingService) SetFulfillmentStatus(ctx context.Context, bookingID uuid.UUID, to bookingDomain.FulfillmentStatus, actor string) (*BookingDTO, error) {
	bk, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	from := bk.FulfillmentStatus()
	changed, err := bk.TransitionFulfillment(to, actor)
	if err != nil {
		return nil, err
	}

	if changed {
		if err := s.persistTransition(ctx, bk); err != nil {
			return nil, err
		}
		s.publishStatusChanged(ctx, bk, string(bookingDomain.AxisFulfillment), string(from), string(to), actor)
	}

	result := toBookingDTO(bk)
	return &result, nil
}

// SetPaymentStatus moves the payment axis to the target status.
// Re-applying the current status succeeds without writing anything.
func (s *BookingService) SetPaymentStatus(ctx context.Context, bookingID uuid.UUID, to bookingDomain.PaymentStatus, actor string) (*BookingDTO, error) {
	bk, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	from := bk.PaymentStatus()
	changed, err := bk.TransitionPayment(to, actor)
	if err != nil {
		return nil, err
	}

	if changed {
		if err := s.persistTransition(ctx, bk); err != nil {
			return nil, err
		}
		s.publishStatusChanged(ctx, bk, string(bookingDomain.AxisPayment), string(from), string(to), actor)
	}

	result := toBookingDTO(bk)
	return &result, nil
}

// ApplyPaymentEvent satisfies the payment consumer contract.
func (s *BookingService) ApplyPaymentEvent(ctx context.Context, bookingID uuid.UUID, to bookingDomain.PaymentStatus, actor string) error {
	_, err := s.SetPaymentStatus(ctx, bookingID, to, actor)
	return err
}

// UpdateNotes replaces the booking's free-text notes.
func (s *BookingService) UpdateNotes(ctx context.Context, bookingID uuid.UUID, notes string) (*BookingDTO, error) {
	bk, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	bk.UpdateNotes(notes)
	if err := s.persistTransition(ctx, bk); err != nil {
		return nil, err
	}

	result := toBookingDTO(bk)
	return &result, nil
}

// GetBooking retrieves a single booking by ID.
func (s *BookingService) GetBooking(ctx context.Context, bookingID uuid.UUID) (*BookingDTO, error) {
	bk, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	result := toBookingDTO(bk)
	return &result, nil
}

// GetAgencyBookings retrieves paginated bookings for a partner agency.
func (s *BookingService) GetAgencyBookings(ctx context.Context, agencyID uuid.UUID, page, limit int) (*domain.PaginatedResult[BookingDTO], error) {
	bookings, total, err := s.repo.FindByAgencyID(ctx, agencyID, page, limit)
	if err != nil {
		return nil, err
	}

	result := domain.NewPaginatedResult(toBookingDTOs(bookings), total, page, limit)
	return &result, nil
}

// ListAllBookings returns a paginated list of all bookings (admin).
func (s *BookingService) ListAllBookings(ctx context.Context, page, limit int) (*domain.PaginatedResult[BookingDTO], error) {
	bookings, total, err := s.repo.ListAll(ctx, page, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}

	result := domain.NewPaginatedResult(toBookingDTOs(bookings), total, page, limit)
	return &result, nil
}

// ExportCSV streams every booking as a flat CSV report.
func (s *BookingService) ExportCSV(ctx context.Context, w io.Writer) error {
	bookings, err := s.repo.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to load bookings for export: %w", err)
	}
	return export.WriteBookingsCSV(w, bookings)
}

// --- Helpers ---

// persistTransition bumps the version and writes through the optimistic
// lock. A concurrent writer surfaces as a retryable conflict.
func (s *BookingService) persistTransition(ctx context.Context, bk *bookingDomain.Booking) error {
	bk.IncrementVersion()
	return s.repo.Update(ctx, bk)
}

func toBookingDTO(bk *bookingDomain.Booking) BookingDTO {
	return BookingDTO{
		ID:                bk.ID(),
		Reference:         bk.Reference(),
		Product:           bk.Product(),
		Party:             bk.Party(),
		Schedule:          bk.Schedule(),
		Channel:           string(bk.Channel()),
		Price:             bk.Price(),
		CustomerName:      bk.CustomerName(),
		CustomerEmail:     bk.CustomerEmail(),
		CustomerPhone:     bk.CustomerPhone(),
		AgencyID:          bk.AgencyID(),
		FulfillmentStatus: string(bk.FulfillmentStatus()),
		PaymentStatus:     string(bk.PaymentStatus()),
		EmergencyOverride: bk.EmergencyOverride(),
		Notes:             bk.Notes(),
		History:           bk.History(),
		Version:           bk.Version(),
		CreatedAt:         bk.CreatedAt(),
		UpdatedAt:         bk.UpdatedAt(),
	}
}

func toBookingDTOs(bookings []*bookingDomain.Booking) []BookingDTO {
	dtos := make([]BookingDTO, len(bookings))
	for i, bk := range bookings {
		dtos[i] = toBookingDTO(bk)
	}
	return dtos
}

func (s *BookingService) enqueueConfirmation(ctx context.Context, bk *bookingDomain.Booking) {
	if s.outbox == nil || bk.CustomerPhone() == "" {
		return
	}
	body := fmt.Sprintf(
		"Booking confirmed!\nReference: %s\n%s on %s\nGuests: %d\nTotal: $%.2f\nThank you for booking with Recharge Travels!",
		bk.Reference(),
		bk.Product().Name,
		bk.Schedule().Start.Format(bookingDomain.ScheduleDateLayout),
		bk.Party().Size(),
		float64(bk.Price().TotalCents)/100,
	)
	if err := s.outbox.EnqueueMessage(ctx, bk.CustomerPhone(), "whatsapp", body); err != nil {
		s.logger.Error("failed to enqueue booking confirmation",
			zap.String("reference", bk.Reference()),
			zap.Error(err),
		)
	}
}

func (s *BookingService) publishBookingCreated(ctx context.Context, bk *bookingDomain.Booking) {
	evt := events.BookingCreatedEvent{
		BookingID:  bk.ID(),
		Reference:  bk.Reference(),
		ProductID:  bk.Product().ProductID,
		GroupKey:   bk.Product().GroupKey,
		Channel:    string(bk.Channel()),
		TotalCents: bk.Price().TotalCents,
		OccurredAt: time.Now().UTC(),
	}
	s.publishEvent(ctx, events.TopicBookingEvents, events.BookingCreated, bk.ID().String(), evt)
}

func (s *BookingService) publishStatusChanged(ctx context.Context, bk *bookingDomain.Booking, axis, from, to, actor string) {
	evt := events.BookingStatusChangedEvent{
		BookingID:  bk.ID(),
		Reference:  bk.Reference(),
		Axis:       axis,
		From:       from,
		To:         to,
		Actor:      actor,
		OccurredAt: time.Now().UTC(),
	}
	s.publishEvent(ctx, events.TopicBookingEvents, events.BookingStatusChanged, bk.ID().String(), evt)
}

func (s *BookingService) publishEvent(ctx context.Context, topic, eventType, key string, data interface{}) {
	if s.producer == nil {
		return
	}
	cloudEvent, err := events.NewCloudEvent("service-booking", eventType, data)
	if err != nil {
		s.logger.Error("failed to create cloud event",
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		return
	}

	if err := s.producer.PublishEvent(ctx, topic, key, cloudEvent); err != nil {
		s.logger.Error("failed to publish event",
			zap.String("topic", topic),
			zap.String("event_type", eventType),
			zap.Error(err),
		)
	}
}
