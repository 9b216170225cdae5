package booking

// PriceBreakdown is the immutable price snapshot taken at booking creation.
// All amounts are integer cents (USD). Re-pricing after creation is not
// supported; an amendment produces a fresh snapshot on a new booking.
type PriceBreakdown struct {
	BaseCents     int64 `json:"base_cents"`
	TaxCents      int64 `json:"tax_cents"`
	FeeCents      int64 `json:"fee_cents"`
	DiscountCents int64 `json:"discount_cents"`
	TotalCents    int64 `json:"total_cents"`
}

// Consistent reports whether the snapshot satisfies
// total = base - discount + taxes + fees with a non-negative total.
func (p PriceBreakdown) Consistent() bool {
	return p.TotalCents == p.BaseCents-p.DiscountCents+p.TaxCents+p.FeeCents &&
		p.TotalCents >= 0
}
