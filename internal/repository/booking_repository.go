package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/recharge-travels/service-booking/internal/domain"
	bookingDomain "github.com/recharge-travels/service-booking/internal/domain/booking"
)

// BookingModel is the GORM model for the bookings table. The schedule start
// is stored as a plain calendar date string; rows seeded from the legacy
// system may carry unparseable values, which the reporting engine tolerates.
type BookingModel struct {
	ID                uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Reference         string          `gorm:"uniqueIndex;not null;size:20"`
	ProductID         uuid.UUID       `gorm:"type:uuid;index;not null"`
	Product           json.RawMessage `gorm:"type:jsonb;not null"`
	GroupKey          string          `gorm:"not null;size:100;index"`
	Party             json.RawMessage `gorm:"type:jsonb;not null"`
	ScheduleStart     string          `gorm:"not null;size:20;index"`
	ScheduleNights    int             `gorm:"not null;default:0"`
	Channel           string          `gorm:"not null;size:20;index"`
	Price             json.RawMessage `gorm:"type:jsonb;not null"`
	CustomerName      string          `gorm:"not null;size:200"`
	CustomerEmail     string          `gorm:"size:200"`
	CustomerPhone     string          `gorm:"size:50"`
	AgencyID          *uuid.UUID      `gorm:"type:uuid;index"`
	FulfillmentStatus string          `gorm:"not null;size:30;index"`
	PaymentStatus     string          `gorm:"not null;size:30;index"`
	EmergencyOverride bool            `gorm:"not null;default:false"`
	Notes             string          `gorm:"size:1000"`
	History           json.RawMessage `gorm:"type:jsonb"`
	Version           int64           `gorm:"not null;default:1"`
	CreatedAt         time.Time       `gorm:"not null"`
	UpdatedAt         time.Time       `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (BookingModel) TableName() string {
	return "bookings"
}

// GormBookingRepository is the GORM-based implementation of booking.Repository.
type GormBookingRepository struct {
	db *gorm.DB
}

// NewGormBookingRepository creates a new GormBookingRepository.
func NewGormBookingRepository(db *gorm.DB) *GormBookingRepository {
	return &GormBookingRepository{db: db}
}

// FindByID retrieves a booking by its unique identifier.
func (r *GormBookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*bookingDomain.Booking, error) {
	var model BookingModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("booking", id.String())
		}
		return nil, fmt.Errorf("failed to find booking by ID: %w", err)
	}
	return toDomainBooking(&model)
}

// FindByReference retrieves a booking by its human-readable reference.
func (r *GormBookingRepository) FindByReference(ctx context.Context, reference string) (*bookingDomain.Booking, error) {
	var model BookingModel
	if err := r.db.WithContext(ctx).Where("reference = ?", reference).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("booking", reference)
		}
		return nil, fmt.Errorf("failed to find booking by reference: %w", err)
	}
	return toDomainBooking(&model)
}

// FindByAgencyID retrieves bookings placed by a partner agency with pagination.
func (r *GormBookingRepository) FindByAgencyID(ctx context.Context, agencyID uuid.UUID, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&BookingModel{}).Where("agency_id = ?", agencyID).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count agency bookings: %w", err)
	}

	var models []BookingModel
	offset := (page - 1) * limit
	if err := r.db.WithContext(ctx).
		Where("agency_id = ?", agencyID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to find agency bookings: %w", err)
	}

	return toDomainBookings(models, total)
}

// ListAll retrieves all bookings with pagination (admin).
func (r *GormBookingRepository) ListAll(ctx context.Context, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&BookingModel{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	var models []BookingModel
	offset := (page - 1) * limit
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list bookings: %w", err)
	}

	return toDomainBookings(models, total)
}

// LoadAll retrieves every booking for snapshot computation and export.
func (r *GormBookingRepository) LoadAll(ctx context.Context) ([]*bookingDomain.Booking, error) {
	var models []BookingModel
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to load bookings: %w", err)
	}

	bookings, _, err := toDomainBookings(models, int64(len(models)))
	return bookings, err
}

// Save persists a new booking.
func (r *GormBookingRepository) Save(ctx context.Context, bk *bookingDomain.Booking) error {
	model, err := toBookingModel(bk)
	if err != nil {
		return fmt.Errorf("failed to convert booking to model: %w", err)
	}

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to save booking: %w", err)
	}
	return nil
}

// Update persists changes to an existing booking with optimistic locking.
// Concurrent writers race on the version column; the loser's update matches
// zero rows and surfaces as a retryable conflict.
func (r *GormBookingRepository) Update(ctx context.Context, bk *bookingDomain.Booking) error {
	model, err := toBookingModel(bk)
	if err != nil {
		return fmt.Errorf("failed to convert booking to model: %w", err)
	}

	// IncrementVersion was called before Update, so the stored row must
	// still hold the previous version.
	expectedVersion := bk.Version() - 1
	result := r.db.WithContext(ctx).
		Model(&BookingModel{}).
		Where("id = ? AND version = ?", model.ID, expectedVersion).
		Updates(map[string]interface{}{
			"fulfillment_status": model.FulfillmentStatus,
			"payment_status":     model.PaymentStatus,
			"notes":              model.Notes,
			"history":            model.History,
			"version":            model.Version,
			"updated_at":         model.UpdatedAt,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update booking: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return domain.NewConflictError("booking was modified by another transaction")
	}

	return nil
}

// --- Conversion Helpers ---

func toBookingModel(bk *bookingDomain.Booking) (*BookingModel, error) {
	productJSON, err := json.Marshal(bk.Product())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal product ref: %w", err)
	}

	partyJSON, err := json.Marshal(bk.Party())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal party: %w", err)
	}

	priceJSON, err := json.Marshal(bk.Price())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal price: %w", err)
	}

	historyJSON, err := json.Marshal(bk.History())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal history: %w", err)
	}

	return &BookingModel{
		ID:                bk.ID(),
		Reference:         bk.Reference(),
		ProductID:         bk.Product().ProductID,
		Product:           productJSON,
		GroupKey:          bk.Product().GroupKey,
		Party:             partyJSON,
		ScheduleStart:     bk.Schedule().Start.Format(bookingDomain.ScheduleDateLayout),
		ScheduleNights:    bk.Schedule().Nights,
		Channel:           string(bk.Channel()),
		Price:             priceJSON,
		CustomerName:      bk.CustomerName(),
		CustomerEmail:     bk.CustomerEmail(),
		CustomerPhone:     bk.CustomerPhone(),
		AgencyID:          bk.AgencyID(),
		FulfillmentStatus: string(bk.FulfillmentStatus()),
		PaymentStatus:     string(bk.PaymentStatus()),
		EmergencyOverride: bk.EmergencyOverride(),
		Notes:             bk.Notes(),
		History:           historyJSON,
		Version:           bk.Version(),
		CreatedAt:         bk.CreatedAt(),
		UpdatedAt:         bk.UpdatedAt(),
	}, nil
}

func toDomainBooking(m *BookingModel) (*bookingDomain.Booking, error) {
	var product bookingDomain.ProductRef
	if err := json.Unmarshal(m.Product, &product); err != nil {
		return nil, fmt.Errorf("failed to unmarshal product ref: %w", err)
	}

	var party bookingDomain.Party
	if err := json.Unmarshal(m.Party, &party); err != nil {
		return nil, fmt.Errorf("failed to unmarshal party: %w", err)
	}

	var price bookingDomain.PriceBreakdown
	if err := json.Unmarshal(m.Price, &price); err != nil {
		return nil, fmt.Errorf("failed to unmarshal price: %w", err)
	}

	var history []bookingDomain.StatusChange
	if len(m.History) > 0 {
		if err := json.Unmarshal(m.History, &history); err != nil {
			return nil, fmt.Errorf("failed to unmarshal history: %w", err)
		}
	}

	fulfillment, err := bookingDomain.ParseFulfillmentStatus(m.FulfillmentStatus)
	if err != nil {
		return nil, err
	}
	payment, err := bookingDomain.ParsePaymentStatus(m.PaymentStatus)
	if err != nil {
		return nil, err
	}

	// Legacy rows may hold an unparseable date; the aggregate carries a
	// zero start in that case and reporting excludes it from time buckets.
	start, _ := time.Parse(bookingDomain.ScheduleDateLayout, m.ScheduleStart)
	schedule := bookingDomain.Schedule{Start: start, Nights: m.ScheduleNights}

	return bookingDomain.Reconstruct(
		m.ID,
		m.Reference,
		product,
		party,
		schedule,
		bookingDomain.Channel(m.Channel),
		price,
		m.CustomerName,
		m.CustomerEmail,
		m.CustomerPhone,
		m.AgencyID,
		fulfillment,
		payment,
		m.EmergencyOverride,
		m.Notes,
		history,
		m.Version,
		m.CreatedAt,
		m.UpdatedAt,
	), nil
}

func toDomainBookings(models []BookingModel, total int64) ([]*bookingDomain.Booking, int64, error) {
	bookings := make([]*bookingDomain.Booking, len(models))
	for i, m := range models {
		bk, err := toDomainBooking(&m)
		if err != nil {
			return nil, 0, err
		}
		bookings[i] = bk
	}
	return bookings, total, nil
}
