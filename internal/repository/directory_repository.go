package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/recharge-travels/service-booking/internal/domain/report"
)

// The directory tables are sibling collections maintained by other parts
// of the back office (CRM imports, driver onboarding, agency signup).
// This service only reads them to feed the operations snapshot, and
// writes the notification outbox.

// CustomerModel is the GORM model for the customers table.
type CustomerModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"size:200"`
	Email     string    `gorm:"size:200;index"`
	Phone     string    `gorm:"size:50"`
	Country   string    `gorm:"size:100"`
	CreatedAt time.Time `gorm:"not null"`
}

func (CustomerModel) TableName() string { return "customers" }

// DriverModel is the GORM model for the drivers table.
type DriverModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"size:200"`
	Phone     string    `gorm:"size:50"`
	Vehicle   string    `gorm:"size:100"`
	Active    bool      `gorm:"not null;default:true;index"`
	CreatedAt time.Time `gorm:"not null"`
}

func (DriverModel) TableName() string { return "drivers" }

// AgencyModel is the GORM model for the partner agencies table.
type AgencyModel struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name            string    `gorm:"size:200"`
	Email           string    `gorm:"size:200;index"`
	Country         string    `gorm:"size:100"`
	PendingApproval bool      `gorm:"not null;default:true;index"`
	CreatedAt       time.Time `gorm:"not null"`
}

func (AgencyModel) TableName() string { return "agencies" }

// OutboxMessageModel is the GORM model for the notification outbox. A
// separate dispatcher drains it; this service only enqueues and counts.
type OutboxMessageModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Recipient string    `gorm:"size:200;not null"`
	ChannelID string    `gorm:"size:30;not null"` // whatsapp | email
	Body      string    `gorm:"size:2000;not null"`
	Sent      bool      `gorm:"not null;default:false;index"`
	CreatedAt time.Time `gorm:"not null"`
}

func (OutboxMessageModel) TableName() string { return "outbox_messages" }

// GormDirectoryRepository reads the sibling collections for reporting and
// writes the notification outbox.
type GormDirectoryRepository struct {
	db *gorm.DB
}

// NewGormDirectoryRepository creates a new GormDirectoryRepository.
func NewGormDirectoryRepository(db *gorm.DB) *GormDirectoryRepository {
	return &GormDirectoryRepository{db: db}
}

// LoadCustomers returns the reporting view of all customers.
func (r *GormDirectoryRepository) LoadCustomers(ctx context.Context) ([]report.CustomerRow, error) {
	var models []CustomerModel
	if err := r.db.WithContext(ctx).Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to load customers: %w", err)
	}
	rows := make([]report.CustomerRow, len(models))
	for i, m := range models {
		rows[i] = report.CustomerRow{CreatedAt: m.CreatedAt}
	}
	return rows, nil
}

// LoadDrivers returns the reporting view of all drivers.
func (r *GormDirectoryRepository) LoadDrivers(ctx context.Context) ([]report.DriverRow, error) {
	var models []DriverModel
	if err := r.db.WithContext(ctx).Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to load drivers: %w", err)
	}
	rows := make([]report.DriverRow, len(models))
	for i, m := range models {
		rows[i] = report.DriverRow{Active: m.Active}
	}
	return rows, nil
}

// LoadAgencies returns the reporting view of all partner agencies.
func (r *GormDirectoryRepository) LoadAgencies(ctx context.Context) ([]report.AgencyRow, error) {
	var models []AgencyModel
	if err := r.db.WithContext(ctx).Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to load agencies: %w", err)
	}
	rows := make([]report.AgencyRow, len(models))
	for i, m := range models {
		rows[i] = report.AgencyRow{PendingApproval: m.PendingApproval}
	}
	return rows, nil
}

// CountQueuedMessages returns the number of unsent outbox messages.
func (r *GormDirectoryRepository) CountQueuedMessages(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&OutboxMessageModel{}).
		Where("sent = ?", false).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count queued messages: %w", err)
	}
	return count, nil
}

// EnqueueMessage appends a notification to the outbox.
func (r *GormDirectoryRepository) EnqueueMessage(ctx context.Context, recipient, channel, body string) error {
	msg := OutboxMessageModel{
		ID:        uuid.New(),
		Recipient: recipient,
		ChannelID: channel,
		Body:      body,
		CreatedAt: time.Now().UTC(),
	}
	if err := r.db.WithContext(ctx).Create(&msg).Error; err != nil {
		return fmt.Errorf("failed to enqueue message: %w", err)
	}
	return nil
}
