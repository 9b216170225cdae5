package catalog

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ProductKind distinguishes the bookable product families.
type ProductKind string

const (
	KindHotelRoom ProductKind = "hotel_room"
	KindTour      ProductKind = "tour"
	KindVehicle   ProductKind = "vehicle"
)

// IsValid returns true if the kind is a recognized product family.
func (k ProductKind) IsValid() bool {
	return k == KindHotelRoom || k == KindTour || k == KindVehicle
}

// ProductStatus represents the listing state of a product.
type ProductStatus string

const (
	ProductActive   ProductStatus = "active"
	ProductArchived ProductStatus = "archived"
)

// Product is the aggregate root for a bookable catalog item. The booking
// core consults only the base price, capacity and group key; everything
// else is listing content.
type Product struct {
	id             uuid.UUID
	name           string
	kind           ProductKind
	groupKey       string
	basePriceCents int64
	maxCapacity    int
	description    string
	status         ProductStatus
	version        int64
	createdAt      time.Time
	updatedAt      time.Time
}

// NewProduct creates a new active product with validated fields.
func NewProduct(name string, kind ProductKind, groupKey string, basePriceCents int64, maxCapacity int, description string) (*Product, error) {
	if name == "" {
		return nil, fmt.Errorf("product name is required")
	}
	if !kind.IsValid() {
		return nil, fmt.Errorf("invalid product kind: %s", kind)
	}
	if groupKey == "" {
		return nil, fmt.Errorf("product group key is required")
	}
	if basePriceCents <= 0 {
		return nil, fmt.Errorf("base price must be positive")
	}
	if maxCapacity <= 0 {
		return nil, fmt.Errorf("max capacity must be positive")
	}

	now := time.Now().UTC()
	return &Product{
		id:             uuid.New(),
		name:           name,
		kind:           kind,
		groupKey:       groupKey,
		basePriceCents: basePriceCents,
		maxCapacity:    maxCapacity,
		description:    description,
		status:         ProductActive,
		version:        1,
		createdAt:      now,
		updatedAt:      now,
	}, nil
}

// Reconstruct rebuilds a Product from persistence data (no validation).
func Reconstruct(
	id uuid.UUID,
	name string,
	kind ProductKind,
	groupKey string,
	basePriceCents int64,
	maxCapacity int,
	description string,
	status ProductStatus,
	version int64,
	createdAt, updatedAt time.Time,
) *Product {
	return &Product{
		id:             id,
		name:           name,
		kind:           kind,
		groupKey:       groupKey,
		basePriceCents: basePriceCents,
		maxCapacity:    maxCapacity,
		description:    description,
		status:         status,
		version:        version,
		createdAt:      createdAt,
		updatedAt:      updatedAt,
	}
}

// --- Getters ---

func (p *Product) ID() uuid.UUID         { return p.id }
func (p *Product) Name() string          { return p.name }
func (p *Product) Kind() ProductKind     { return p.kind }
func (p *Product) GroupKey() string      { return p.groupKey }
func (p *Product) BasePriceCents() int64 { return p.basePriceCents }
func (p *Product) MaxCapacity() int      { return p.maxCapacity }
func (p *Product) Description() string   { return p.description }
func (p *Product) Status() ProductStatus { return p.status }
func (p *Product) Version() int64        { return p.version }
func (p *Product) CreatedAt() time.Time  { return p.createdAt }
func (p *Product) UpdatedAt() time.Time  { return p.updatedAt }

// --- Behavior ---

// IsActive returns true if the product can still be booked.
func (p *Product) IsActive() bool {
	return p.status == ProductActive
}

// UpdateRate replaces the base price for future bookings. Existing price
// snapshots are unaffected.
func (p *Product) UpdateRate(basePriceCents int64) error {
	if basePriceCents <= 0 {
		return fmt.Errorf("base price must be positive")
	}
	p.basePriceCents = basePriceCents
	p.version++
	p.updatedAt = time.Now().UTC()
	return nil
}

// Archive removes the product from sale without deleting it.
func (p *Product) Archive() {
	p.status = ProductArchived
	p.version++
	p.updatedAt = time.Now().UTC()
}
