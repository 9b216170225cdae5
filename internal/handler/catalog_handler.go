package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/recharge-travels/service-booking/internal/application"
	"github.com/recharge-travels/service-booking/internal/auth"
	"github.com/recharge-travels/service-booking/internal/middleware"
	"github.com/recharge-travels/service-booking/internal/response"
)

// CatalogHandler handles HTTP requests for the bookable product catalog.
type CatalogHandler struct {
	service *application.CatalogService
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(service *application.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: service}
}

// RegisterRoutes registers catalog routes. Browsing is public; catalog
// management requires the admin role.
func (h *CatalogHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	products := r.Group("/api/v1/products")
	{
		products.GET("", h.ListProducts)
		products.GET("/:id", h.GetProduct)
	}

	manage := r.Group("/api/v1/admin/products")
	manage.Use(middleware.Auth(jwtManager), middleware.RequireRole(auth.RoleAdmin))
	{
		manage.POST("", h.CreateProduct)
		manage.PATCH("/:id/rate", h.UpdateRate)
		manage.POST("/:id/archive", h.ArchiveProduct)
	}
}

// ListProducts handles GET /api/v1/products.
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	page, limit := parsePagination(c)

	result, err := h.service.ListProducts(c.Request.Context(), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, result.Items, result.Total, result.Page, result.Limit)
}

// GetProduct handles GET /api/v1/products/:id.
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid product ID")
		return
	}

	result, err := h.service.GetProduct(c.Request.Context(), productID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// CreateProduct handles POST /api/v1/admin/products.
func (h *CatalogHandler) CreateProduct(c *gin.Context) {
	var req application.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.CreateProduct(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// UpdateRate handles PATCH /api/v1/admin/products/:id/rate.
func (h *CatalogHandler) UpdateRate(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid product ID")
		return
	}

	var body struct {
		BasePriceCents int64 `json:"base_price_cents" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.UpdateRate(c.Request.Context(), productID, body.BasePriceCents)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// ArchiveProduct handles POST /api/v1/admin/products/:id/archive.
func (h *CatalogHandler) ArchiveProduct(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid product ID")
		return
	}

	if err := h.service.ArchiveProduct(c.Request.Context(), productID); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
