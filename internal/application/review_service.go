package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/recharge-travels/service-booking/internal/domain"
	bookingDomain "github.com/recharge-travels/service-booking/internal/domain/booking"
	"github.com/recharge-travels/service-booking/internal/domain/review"
)

// SubmitReviewRequest holds the data for a new customer review.
type SubmitReviewRequest struct {
	BookingID    uuid.UUID `json:"booking_id" binding:"required"`
	CustomerName string    `json:"customer_name" binding:"required"`
	Rating       int       `json:"rating" binding:"required"`
	Comment      string    `json:"comment"`
}

// ReviewDTO is the response representation of a review.
type ReviewDTO struct {
	ID           uuid.UUID  `json:"id"`
	BookingID    uuid.UUID  `json:"booking_id"`
	CustomerName string     `json:"customer_name"`
	Rating       int        `json:"rating"`
	Comment      string     `json:"comment,omitempty"`
	Status       string     `json:"status"`
	CreatedAt    time.Time  `json:"created_at"`
	ModeratedAt  *time.Time `json:"moderated_at,omitempty"`
}

// ReviewService handles review submission and moderation.
type ReviewService struct {
	repo     review.Repository
	bookings bookingDomain.Repository
	logger   *zap.Logger
}

// NewReviewService creates a new ReviewService.
func NewReviewService(repo review.Repository, bookings bookingDomain.Repository, logger *zap.Logger) *ReviewService {
	return &ReviewService{repo: repo, bookings: bookings, logger: logger}
}

// SubmitReview records a customer review for a completed booking. It
// enters the moderation queue as pending.
func (s *ReviewService) SubmitReview(ctx context.Context, req SubmitReviewRequest) (*ReviewDTO, error) {
	bk, err := s.bookings.FindByID(ctx, req.BookingID)
	if err != nil {
		return nil, err
	}
	if bk.FulfillmentStatus() != bookingDomain.FulfillmentCompleted {
		return nil, domain.NewValidationError("reviews can only be submitted for completed bookings")
	}

	rv, err := review.NewReview(req.BookingID, req.CustomerName, req.Rating, req.Comment)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, rv); err != nil {
		return nil, fmt.Errorf("failed to save review: %w", err)
	}

	result := toReviewDTO(rv)
	return &result, nil
}

// ListReviews returns paginated reviews in the given moderation state.
func (s *ReviewService) ListReviews(ctx context.Context, status review.ModerationStatus, page, limit int) (*domain.PaginatedResult[ReviewDTO], error) {
	if !status.IsValid() {
		return nil, domain.NewValidationError(fmt.Sprintf("invalid moderation status: %s", status))
	}

	reviews, total, err := s.repo.ListByStatus(ctx, status, page, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}

	dtos := make([]ReviewDTO, len(reviews))
	for i, rv := range reviews {
		dtos[i] = toReviewDTO(rv)
	}
	result := domain.NewPaginatedResult(dtos, total, page, limit)
	return &result, nil
}

// ApproveReview publishes a pending review.
func (s *ReviewService) ApproveReview(ctx context.Context, reviewID uuid.UUID) (*ReviewDTO, error) {
	return s.moderate(ctx, reviewID, (*review.Review).Approve)
}

// RejectReview discards a pending review.
func (s *ReviewService) RejectReview(ctx context.Context, reviewID uuid.UUID) (*ReviewDTO, error) {
	return s.moderate(ctx, reviewID, (*review.Review).Reject)
}

func (s *ReviewService) moderate(ctx context.Context, reviewID uuid.UUID, action func(*review.Review) error) (*ReviewDTO, error) {
	rv, err := s.repo.FindByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}

	if err := action(rv); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, rv); err != nil {
		return nil, err
	}

	s.logger.Info("review moderated",
		zap.String("review_id", reviewID.String()),
		zap.String("status", string(rv.Status())),
	)

	result := toReviewDTO(rv)
	return &result, nil
}

func toReviewDTO(rv *review.Review) ReviewDTO {
	return ReviewDTO{
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
