package catalog

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the persistence contract for catalog products.
type Repository interface {
	// FindByID retrieves a product by its unique identifier.
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// ListActive retrieves active products with pagination.
	ListActive(ctx context.Context, page, limit int) ([]*Product, int64, error)

	// Save persists a new product.
	Save(ctx context.Context, product *Product) error

	// Update persists changes to an existing product.
	Update(ctx context.Context, product *Product) error
}
