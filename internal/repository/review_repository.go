package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/recharge-travels/service-booking/internal/domain"
	"github.com/recharge-travels/service-booking/internal/domain/report"
	"github.com/recharge-travels/service-booking/internal/domain/review"
)

// ReviewModel is the GORM model for the reviews table.
type ReviewModel struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey"`
	BookingID    uuid.UUID  `gorm:"type:uuid;index;not null"`
	CustomerName string     `gorm:"size:200"`
	Rating       int        `gorm:"not null"`
	Comment      string     `gorm:"size:2000"`
	Status       string     `gorm:"not null;size:20;index"`
	CreatedAt    time.Time  `gorm:"not null"`
	ModeratedAt  *time.Time `gorm:""`
}

// TableName returns the table name for the GORM model.
func (ReviewModel) TableName() string {
	return "reviews"
}

// GormReviewRepository is the GORM-based implementation of review.Repository.
type GormReviewRepository struct {
	db *gorm.DB
}

// NewGormReviewRepository creates a new GormReviewRepository.
func NewGormReviewRepository(db *gorm.DB) *GormReviewRepository {
	return &GormReviewRepository{db: db}
}

// FindByID retrieves a review by its unique identifier.
func (r *GormReviewRepository) FindByID(ctx context.Context, id uuid.UUID) (*review.Review, error) {
	var model ReviewModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("review", id.String())
		}
		return nil, fmt.Errorf("failed to find review by ID: %w", err)
	}
	return toDomainReview(&model), nil
}

// ListByStatus retrieves reviews in the given moderation state.
func (r *GormReviewRepository) ListByStatus(ctx context.Context, status review.ModerationStatus, page, limit int) ([]*review.Review, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&ReviewModel{}).
		Where("status = ?", string(status)).
		Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count reviews: %w", err)
	}

	var models []ReviewModel
	offset := (page - 1) * limit
	if err := r.db.WithContext(ctx).
		Where("status = ?", string(status)).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list reviews: %w", err)
	}

	reviews := make([]*review.Review, len(models))
	for i, m := range models {
		reviews[i] = toDomainReview(&m)
	}
	return reviews, total, nil
}

// LoadRows retrieves the flattened review view the reporting engine
// consumes. Only the moderation flag matters to the dashboard.
func (r *GormReviewRepository) LoadRows(ctx context.Context) ([]report.ReviewRow, error) {
	var models []ReviewModel
	if err := r.db.WithContext(ctx).Select("status").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to load reviews: %w", err)
	}
	rows := make([]report.ReviewRow, len(models))
	for i, m := range models {
		rows[i] = report.ReviewRow{PendingModeration: m.Status == string(review.StatusPending)}
	}
	return rows, nil
}

// Save persists a new review.
func (r *GormReviewRepository) Save(ctx context.Context, rv *review.Review) error {
	if err := r.db.WithContext(ctx).Create(toReviewModel(rv)).Error; err != nil {
		return fmt.Errorf("failed to save review: %w", err)
	}
	return nil
}

// Update persists moderation changes.
func (r *GormReviewRepository) Update(ctx context.Context, rv *review.Review) error {
	result := r.db.WithContext(ctx).
		Model(&ReviewModel{}).
		Where("id = ?", rv.ID()).
		Updates(map[string]interface{}{
			"status":       string(rv.Status()),
			"moderated_at": rv.ModeratedAt(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update review: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("review", rv.ID().String())
	}
	return nil
}

func toReviewModel(rv *review.Review) *ReviewModel {
	return &ReviewModel{
		ID:           rv.ID(),
		BookingID:    rv.BookingID(),
		CustomerName: rv.CustomerName(),
		Rating:       rv.Rating(),
		Comment:      rv.Comment(),
		Status:       string(rv.Status()),
		CreatedAt:    rv.CreatedAt(),
		ModeratedAt:  rv.ModeratedAt(),
	}
}

func toDomainReview(m *ReviewModel) *review.Review {
	return review.Reconstruct(
		m.ID,
		m.BookingID,
		m.CustomerName,
		m.Rating,
		m.Comment,
		review.ModerationStatus(m.Status),
		m.CreatedAt,
		m.ModeratedAt,
	)
}
