package booking

import (
	"math"

	"github.com/recharge-travels/service-booking/internal/domain"
)

// PricingStrategy defines the interface for computing a price snapshot.
type PricingStrategy interface {
	// Quote returns the full price breakdown for the given base amount
	// and sales channel. Pure and deterministic, no I/O.
	Quote(baseCents int64, channel Channel) (PriceBreakdown, error)
}

// StandardPricingStrategy implements the business pricing rules.
//
// Direct channel:  total = base + base*taxRate + flat service fee
// Partner channel: total = base - base*commissionRate
//
// Derived amounts are rounded to whole cents exactly once, at the point the
// component is computed, so rounding error never compounds into the total.
type StandardPricingStrategy struct {
	taxRate         float64
	serviceFeeCents int64
	commissionRate  float64
}

// NewStandardPricingStrategy creates a pricing strategy from the configured
// business constants.
func NewStandardPricingStrategy(taxRate float64, serviceFeeCents int64, commissionRate float64) *StandardPricingStrategy {
	return &StandardPricingStrategy{
		taxRate:         taxRate,
		serviceFeeCents: serviceFeeCents,
		commissionRate:  commissionRate,
	}
}

// Quote computes the price breakdown for the base amount on the given channel.
func (s *StandardPricingStrategy) Quote(baseCents int64, channel Channel) (PriceBreakdown, error) {
	if baseCents <= 0 {
		return PriceBreakdown{}, domain.NewInvalidBasePriceError(baseCents)
	}

	switch channel {
	case ChannelDirect:
		taxCents := roundCents(float64(baseCents) * s.taxRate)
		return PriceBreakdown{
			BaseCents:  baseCents,
			TaxCents:   taxCents,
			FeeCents:   s.serviceFeeCents,
			TotalCents: baseCents + taxCents + s.serviceFeeCents,
		}, nil

	case ChannelPartner:
		discountCents := roundCents(float64(baseCents) * s.commissionRate)
		return PriceBreakdown{
			BaseCents:     baseCents,
			DiscountCents: discountCents,
			TotalCents:    baseCents - discountCents,
		}, nil

	default:
		return PriceBreakdown{}, domain.NewUnsupportedChannelError(string(channel))
	}
}

func roundCents(v float64) int64 {
	return int64(math.Round(v))
}
