package booking

import "github.com/google/uuid"

// ProductRef is the booking's denormalized view of the purchased product.
// The catalog itself is opaque to the booking core; only the rate, the
// capacity and the reporting group key are consulted.
type ProductRef struct {
	ProductID      uuid.UUID `json:"product_id"`
	Name           string    `json:"name"`
	BasePriceCents int64     `json:"base_price_cents"`
	MaxCapacity    int       `json:"max_capacity"`
	GroupKey       string    `json:"group_key"`
}
