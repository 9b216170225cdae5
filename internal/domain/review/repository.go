package review

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the persistence contract for reviews.
type Repository interface {
	// FindByID retrieves a review by its unique identifier.
	FindByID(ctx context.Context, id uuid.UUID) (*Review, error)

	// ListByStatus retrieves reviews in the given moderation state.
	ListByStatus(ctx context.Context, status ModerationStatus, page, limit int) ([]*Review, int64, error)

	// Save persists a new review.
	Save(ctx context.Context, review *Review) error

	// Update persists moderation changes.
	Update(ctx context.Context, review *Review) error
}
