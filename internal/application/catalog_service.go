package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/recharge-travels/service-booking/internal/domain"
	"github.com/recharge-travels/service-booking/internal/domain/catalog"
)

// CreateProductRequest holds the data needed to add a catalog entry.
type CreateProductRequest struct {
	Name           string `json:"name" binding:"required"`
	Kind           string `json:"kind" binding:"required"`
	GroupKey       string `json:"group_key" binding:"required"`
	BasePriceCents int64  `json:"base_price_cents" binding:"required"`
	MaxCapacity    int    `json:"max_capacity" binding:"required"`
	Description    string `json:"description"`
}

// ProductDTO is the response representation of a catalog product.
type ProductDTO struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Kind           string    `json:"kind"`
	GroupKey       string    `json:"group_key"`
	BasePriceCents int64     `json:"base_price_cents"`
	MaxCapacity    int       `json:"max_capacity"`
	Description    string    `json:"description,omitempty"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// CatalogService manages the bookable product catalog.
type CatalogService struct {
	repo   catalog.Repository
	logger *zap.Logger
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(repo catalog.Repository, logger *zap.Logger) *CatalogService {
	return &CatalogService{repo: repo, logger: logger}
}

// CreateProduct adds a new bookable product to the catalog.
func (s *CatalogService) CreateProduct(ctx context.Context, req CreateProductRequest) (*ProductDTO, error) {
	kind := catalog.ProductKind(req.Kind)
	product, err := catalog.NewProduct(req.Name, kind, req.GroupKey, req.BasePriceCents, req.MaxCapacity, req.Description)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to save product: %w", err)
	}

	s.logger.Info("product created",
		zap.String("product_id", product.ID().String()),
		zap.String("group_key", product.GroupKey()),
	)

	result := toProductDTO(product)
	return &result, nil
}

// GetProduct retrieves a single product by ID.
func (s *CatalogService) GetProduct(ctx context.Context, productID uuid.UUID) (*ProductDTO, error) {
	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	result := toProductDTO(product)
	return &result, nil
}

// ListProducts returns a paginated list of active products.
func (s *CatalogService) ListProducts(ctx context.Context, page, limit int) (*domain.PaginatedResult[ProductDTO], error) {
	products, total, err := s.repo.ListActive(ctx, page, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	dtos := make([]ProductDTO, len(products))
	for i, p := range products {
		dtos[i] = toProductDTO(p)
	}
	result := domain.NewPaginatedResult(dtos, total, page, limit)
	return &result, nil
}

// UpdateRate changes a product's base rate. Bookings priced under the
// old rate keep their frozen breakdown.
func (s *CatalogService) UpdateRate(ctx context.Context, productID uuid.UUID, basePriceCents int64) (*ProductDTO, error) {
	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	if err := product.UpdateRate(basePriceCents); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, product); err != nil {
		return nil, err
	}

	result := toProductDTO(product)
	return &result, nil
}

// ArchiveProduct retires a product from sale without deleting it.
func (s *CatalogService) ArchiveProduct(ctx context.Context, productID uuid.UUID) error {
	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		return err
	}

	product.Archive()
	if err := s.repo.Update(ctx, product); err != nil {
		return err
	}

	s.logger.Info("product archived", zap.String("product_id", productID.String()))
	return nil
}

func toProductDTO(p *catalog.Product) ProductDTO {
	return ProductDTO{
		ID:             p.ID(),
		Name:           p.Name(),
		Kind:           string(p.Kind()),
		GroupKey:       p.GroupKey(),
		BasePriceCents: p.BasePriceCents(),
		MaxCapacity:    p.MaxCapacity(),
		Description:    p.Description(),
		Status:         string(p.Status()),
		CreatedAt:      p.CreatedAt(),
		UpdatedAt:      p.UpdatedAt(),
	}
}
