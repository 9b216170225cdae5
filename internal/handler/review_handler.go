package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/recharge-travels/service-booking/internal/application"
	"github.com/recharge-travels/service-booking/internal/auth"
	"github.com/recharge-travels/service-booking/internal/domain/review"
	"github.com/recharge-travels/service-booking/internal/middleware"
	"github.com/recharge-travels/service-booking/internal/response"
)

// ReviewHandler handles review submission and moderation endpoints.
type ReviewHandler struct {
	service *application.ReviewService
}

// NewReviewHandler creates a new ReviewHandler.
func NewReviewHandler(service *application.ReviewService) *ReviewHandler {
	return &ReviewHandler{service: service}
}

// RegisterRoutes registers review routes. Submission requires any
// authenticated caller; moderation is admin-only.
func (h *ReviewHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	reviews := r.Group("/api/v1/reviews")
	reviews.Use(middleware.Auth(jwtManager))
	{
		reviews.POST("", h.SubmitReview)
	}

	moderation := r.Group("/api/v1/admin/reviews")
	moderation.Use(middleware.Auth(jwtManager), middleware.RequireRole(auth.RoleAdmin))
	{
		moderation.GET("", h.ListReviews)
		moderation.POST("/:id/approve", h.ApproveReview)
		moderation.POST("/:id/reject", h.RejectReview)
	}
}

// SubmitReview handles POST /api/v1/reviews.
func (h *ReviewHandler) SubmitReview(c *gin.Context) {
	var req application.SubmitReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.SubmitReview(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// ListReviews handles GET /api/v1/admin/reviews.
func (h *ReviewHandler) ListReviews(c *gin.Context) {
	status := review.ModerationStatus(c.DefaultQuery("status", string(review.StatusPending)))
	page, limit := parsePagination(c)

	result, err := h.service.ListReviews(c.Request.Context(), status, page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, result.Items, result.Total, result.Page, result.Limit)
}

// ApproveReview handles POST /api/v1/admin/reviews/:id/approve.
func (h *ReviewHandler) ApproveReview(c *gin.Context) {
	h.moderate(c, h.service.ApproveReview)
}

// RejectReview handles POST /api/v1/admin/reviews/:id/reject.
func (h *ReviewHandler) RejectReview(c *gin.Context) {
	h.moderate(c, h.service.RejectReview)
}

func (h *ReviewHandler) moderate(c *gin.Context, action func(ctx context.Context, reviewID uuid.UUID) (*application.ReviewDTO, error)) {
	reviewID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid review ID")
		return
	}

	result, err := action(c.Request.Context(), reviewID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}
