package review

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ModerationStatus represents the moderation state of a customer review.
type ModerationStatus string

const (
	StatusPending  ModerationStatus = "pending"
	StatusApproved ModerationStatus = "approved"
	StatusRejected ModerationStatus = "rejected"
)

// IsValid returns true if the status is recognized.
func (s ModerationStatus) IsValid() bool {
	return s == StatusPending || s == StatusApproved || s == StatusRejected
}

// Review is the aggregate root for customer reviews left against a booking.
type Review struct {
	id           uuid.UUID
	bookingID    uuid.UUID
	customerName string
	rating       int
	comment      string
	status       ModerationStatus
	createdAt    time.Time
	moderatedAt  *time.Time
}

// NewReview creates a new review awaiting moderation.
func NewReview(bookingID uuid.UUID, customerName string, rating int, comment string) (*Review, error) {
	if bookingID == uuid.Nil {
		return nil, fmt.Errorf("booking ID is required")
	}
	if rating < 1 || rating > 5 {
		return nil, fmt.Errorf("rating must be between 1 and 5, got %d", rating)
	}

	return &Review{
		id:           uuid.New(),
		bookingID:    bookingID,
		customerName: customerName,
		rating:       rating,
		comment:      comment,
		status:       StatusPending,
		createdAt:    time.Now().UTC(),
	}, nil
}

// Reconstruct rebuilds a Review from persistence.
func Reconstruct(id, bookingID uuid.UUID, customerName string, rating int, comment string, status ModerationStatus, createdAt time.Time, moderatedAt *time.Time) *Review {
	return &Review{
		id:           id,
		bookingID:    bookingID,
		customerName: customerName,
		rating:       rating,
		comment:      comment,
		status:       status,
		createdAt:    createdAt,
		moderatedAt:  moderatedAt,
	}
}

// Getters.
func (r *Review) ID() uuid.UUID            { return r.id }
func (r *Review) BookingID() uuid.UUID     { return r.bookingID }
func (r *Review) CustomerName() string     { return r.customerName }
func (r *Review) Rating() int              { return r.rating }
func (r *Review) Comment() string          { return r.comment }
func (r *Review) Status() ModerationStatus { return r.status }
func (r *Review) CreatedAt() time.Time     { return r.createdAt }
func (r *Review) ModeratedAt() *time.Time  { return r.moderatedAt }

// Approve publishes the review.
func (r *Review) Approve() error {
	return r.moderate(StatusApproved)
}

// Reject hides the review.
func (r *Review) Reject() error {
	return r.moderate(StatusRejected)
}

func (r *Review) moderate(to ModerationStatus) error {
	if r.status != StatusPending {
		return fmt.Errorf("review already moderated as %s", r.status)
	}
	now := time.Now().UTC()
	r.status = to
	r.moderatedAt = &now
	return nil
}
