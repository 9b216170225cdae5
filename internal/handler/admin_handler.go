package handler

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/recharge-travels/service-booking/internal/application"
	"github.com/recharge-travels/service-booking/internal/auth"
	"github.com/recharge-travels/service-booking/internal/middleware"
	"github.com/recharge-travels/service-booking/internal/response"
)

// AdminHandler handles the operations dashboard and booking management
// endpoints. All routes require the admin role.
type AdminHandler struct {
	bookings *application.BookingService
	reports  *application.ReportService
	loc      *time.Location
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(bookings *application.BookingService, reports *application.ReportService, loc *time.Location) *AdminHandler {
	return &AdminHandler{bookings: bookings, reports: reports, loc: loc}
}

// RegisterRoutes registers admin routes.
func (h *AdminHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	admin := r.Group("/api/v1/admin")
	admin.Use(middleware.Auth(jwtManager), middleware.RequireRole(auth.RoleAdmin))
	{
		admin.GET("/bookings", h.ListBookings)
		admin.GET("/bookings/export", h.ExportBookings)
		admin.GET("/dashboard", h.Dashboard)
		admin.GET("/stats", h.Stats)
	}
}

// ListBookings handles GET /api/v1/admin/bookings.
func (h *AdminHandler) ListBookings(c *gin.Context) {
	page, limit := parsePagination(c)

	result, err := h.bookings.ListAllBookings(c.Request.Context(), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, result.Items, result.Total, result.Page, result.Limit)
}

// ExportBookings handles GET /api/v1/admin/bookings/export. Streams the
// full booking set as CSV.
func (h *AdminHandler) ExportBookings(c *gin.Context) {
	filename := fmt.Sprintf("bookings-%s.csv", time.Now().In(h.loc).Format("2006-01-02"))
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if err := h.bookings.ExportCSV(c.Request.Context(), c.Writer); err != nil {
		// Headers may already be out; abort the stream instead of
		// writing a JSON error into the CSV body.
		c.Abort()
		return
	}
}

// Dashboard handles GET /api/v1/admin/dashboard. Serves the cached
// snapshot the scheduler keeps warm.
func (h *AdminHandler) Dashboard(c *gin.Context) {
	snapshot, err := h.reports.GetDashboard(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, snapshot)
}

// Stats handles GET /api/v1/admin/stats. Recomputes a snapshot on
// demand; an as_of date query pins the reference instant.
func (h *AdminHandler) Stats(c *gin.Context) {
	asOf := time.Now()
	if raw := c.Query("as_of"); raw != "" {
		parsed, err := time.ParseInLocation("2006-01-02", raw, h.loc)
		if err != nil {
			response.BadRequest(c, "as_of must be formatted as YYYY-MM-DD")
			return
		}
		// End of the requested day so its bookings are included.
		asOf = parsed.AddDate(0, 0, 1).Add(-time.Second)
	}

	snapshot, err := h.reports.ComputeSnapshot(c.Request.Context(), asOf)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, snapshot)
}
