package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/recharge-travels/service-booking/internal/application"
	"github.com/recharge-travels/service-booking/internal/auth"
	"github.com/recharge-travels/service-booking/internal/domain"
	bookingDomain "github.com/recharge-travels/service-booking/internal/domain/booking"
	"github.com/recharge-travels/service-booking/internal/middleware"
	"github.com/recharge-travels/service-booking/internal/response"
)

// BookingHandler handles HTTP requests for booking operations.
type BookingHandler struct {
	service *application.BookingService
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(service *application.BookingService) *BookingHandler {
	return &BookingHandler{service: service}
}

// RegisterRoutes registers all booking routes on the given router group.
func (h *BookingHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	authMW := middleware.Auth(jwtManager)

	bookings := r.Group("/api/v1/bookings")
	bookings.Use(authMW)
	{
		bookings.POST("", h.CreateBooking)
		bookings.GET("", middleware.RequireRole(auth.RoleAgency), h.ListAgencyBookings)
		bookings.GET("/:id", h.GetBooking)
		bookings.POST("/:id/confirm", middleware.RequireRole(auth.RoleAdmin), h.ConfirmBooking)
		bookings.POST("/:id/complete", middleware.RequireRole(auth.RoleAdmin), h.CompleteBooking)
		bookings.POST("/:id/cancel", h.CancelBooking)
		bookings.PATCH("/:id/payment", middleware.RequireRole(auth.RoleAdmin), h.SetPaymentStatus)
		bookings.PATCH("/:id/notes", middleware.RequireRole(auth.RoleAdmin), h.UpdateNotes)
	}
}

// CreateBooking handles POST /api/v1/bookings.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)
	if claims == nil {
		response.Error(c, domain.NewUnauthorizedError("authentication required"))
		return
	}

	var req application.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	// Agency callers always book on their own account; the token wins
	// over whatever the body claims.
	if claims.Role == auth.RoleAgency {
		req.AgencyID = claims.AgencyID
		req.Channel = string(bookingDomain.ChannelPartner)
	}

	result, err := h.service.CreateBooking(c.Request.Context(), req, claims.UserID.String())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// ListAgencyBookings handles GET /api/v1/bookings for agency callers.
func (h *BookingHandler) ListAgencyBookings(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)
	if claims == nil || claims.AgencyID == nil {
		response.BadRequest(c, "token carries no agency scope")
		return
	}

	page, limit := parsePagination(c)
	result, err := h.service.GetAgencyBookings(c.Request.Context(), *claims.AgencyID, page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, result.Items, result.Total, result.Page, result.Limit)
}

// GetBooking handles GET /api/v1/bookings/:id.
func (h *BookingHandler) GetBooking(c *gin.Context) {
	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid booking ID")
		return
	}

	result, err := h.service.GetBooking(c.Request.Context(), bookingID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// ConfirmBooking handles POST /api/v1/bookings/:id/confirm.
func (h *BookingHandler) ConfirmBooking(c *gin.Context) {
	h.transitionFulfillment(c, bookingDomain.FulfillmentConfirmed)
}

// CompleteBooking handles POST /api/v1/bookings/:id/complete.
func (h *BookingHandler) CompleteBooking(c *gin.Context) {
	h.transitionFulfillment(c, bookingDomain.FulfillmentCompleted)
}

// CancelBooking handles POST /api/v1/bookings/:id/cancel.
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	h.transitionFulfillment(c, bookingDomain.FulfillmentCancelled)
}

func (h *BookingHandler) transitionFulfillment(c *gin.Context, to bookingDomain.FulfillmentStatus) {
	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid booking ID")
		return
	}

	claims := middleware.ClaimsFrom(c)
	actor := "system"
	if claims != nil {
		actor = claims.UserID.String()
	}

	result, err := h.service.SetFulfillmentStatus(c.Request.Context(), bookingID, to, actor)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// SetPaymentStatus handles PATCH /api/v1/bookings/:id/payment.
func (h *BookingHandler) SetPaymentStatus(c *gin.Context) {
	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid booking ID")
		return
	}

	var body struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	to, err := bookingDomain.ParsePaymentStatus(body.Status)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	claims := middleware.ClaimsFrom(c)
	actor := "system"
	if claims != nil {
		actor = claims.UserID.String()
	}

	result, err := h.service.SetPaymentStatus(c.Request.Context(), bookingID, to, actor)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// UpdateNotes handles PATCH /api/v1/bookings/:id/notes.
func (h *BookingHandler) UpdateNotes(c *gin.Context) {
	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid booking ID")
		return
	}

	var body struct {
		Notes string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.UpdateNotes(c.Request.Context(), bookingID, body.Notes)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// parsePagination extracts page and limit query parameters with defaults.
func parsePagination(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	return page, limit
}
