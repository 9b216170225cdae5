package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/recharge-travels/service-booking/internal/domain"
	"github.com/recharge-travels/service-booking/internal/domain/catalog"
)

// ProductModel is the GORM model for the products table.
type ProductModel struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name           string    `gorm:"not null;size:200"`
	Kind           string    `gorm:"not null;size:30;index"`
	GroupKey       string    `gorm:"not null;size:100;index"`
	BasePriceCents int64     `gorm:"not null"`
	MaxCapacity    int       `gorm:"not null"`
	Description    string    `gorm:"size:2000"`
	Status         string    `gorm:"not null;size:20;index"`
	Version        int64     `gorm:"not null;default:1"`
	CreatedAt      time.Time `gorm:"not null"`
	UpdatedAt      time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (ProductModel) TableName() string {
	return "products"
}

// GormProductRepository is the GORM-based implementation of catalog.Repository.
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository.
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByID retrieves a product by its unique identifier.
func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	var model ProductModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("product", id.String())
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}
	return toDomainProduct(&model), nil
}

// ListActive retrieves active products with pagination.
func (r *GormProductRepository) ListActive(ctx context.Context, page, limit int) ([]*catalog.Product, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&ProductModel{}).
		Where("status = ?", string(catalog.ProductActive)).
		Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	var models []ProductModel
	offset := (page - 1) * limit
	if err := r.db.WithContext(ctx).
		Where("status = ?", string(catalog.ProductActive)).
		Order("name ASC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}

	products := make([]*catalog.Product, len(models))
	for i, m := range models {
		products[i] = toDomainProduct(&m)
	}
	return products, total, nil
}

// Save persists a new product.
func (r *GormProductRepository) Save(ctx context.Context, p *catalog.Product) error {
	if err := r.db.WithContext(ctx).Create(toProductModel(p)).Error; err != nil {
		return fmt.Errorf("failed to save product: %w", err)
	}
	return nil
}

// Update persists changes to an existing product.
func (r *GormProductRepository) Update(ctx context.Context, p *catalog.Product) error {
	result := r.db.WithContext(ctx).
		Model(&ProductModel{}).
		Where("id = ? AND version = ?", p.ID(), p.Version()-1).
		Updates(map[string]interface{}{
			"name":             p.Name(),
			"group_key":        p.GroupKey(),
			"base_price_cents": p.BasePriceCents(),
			"max_capacity":     p.MaxCapacity(),
			"description":      p.Description(),
			"status":           string(p.Status()),
			"version":          p.Version(),
			"updated_at":       p.UpdatedAt(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update product: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewConflictError("product was modified by another transaction")
	}
	return nil
}

func toProductModel(p *catalog.Product) *ProductModel {
	return &ProductModel{
		ID:             p.ID(),
		Name:           p.Name(),
		Kind:           string(p.Kind()),
		GroupKey:       p.GroupKey(),
		BasePriceCents: p.BasePriceCents(),
		MaxCapacity:    p.MaxCapacity(),
		Description:    p.Description(),
		Status:         string(p.Status()),
		Version:        p.Version(),
		CreatedAt:      p.CreatedAt(),
		UpdatedAt:      p.UpdatedAt(),
	}
}

func toDomainProduct(m *ProductModel) *catalog.Product {
	return catalog.Reconstruct(
		m.ID,
		m.Name,
		catalog.ProductKind(m.Kind),
		m.GroupKey,
		m.BasePriceCents,
		m.MaxCapacity,
		m.Description,
		catalog.ProductStatus(m.Status),
		m.Version,
		m.CreatedAt,
		m.UpdatedAt,
	)
}
