package booking

import "github.com/recharge-travels/service-booking/internal/domain"

// Party describes who is travelling on a booking. Rooms applies to hotel
// products and vehicle counts for transfers; zero means not applicable.
type Party struct {
	Adults   int `json:"adults"`
	Children int `json:"children"`
	Rooms    int `json:"rooms,omitempty"`
}

// Size returns the total head count.
func (p Party) Size() int {
	return p.Adults + p.Children
}

// Validate checks party composition against the product's capacity.
func (p Party) Validate(maxCapacity int) error {
	if p.Adults < 1 {
		return domain.NewValidationError("party must include at least one adult")
	}
	if p.Children < 0 {
		return domain.NewValidationError("children count cannot be negative")
	}
	if p.Rooms < 0 {
		return domain.NewValidationError("room count cannot be negative")
	}
	if maxCapacity > 0 && p.Size() > maxCapacity {
		return domain.NewCapacityExceededError(p.Size(), maxCapacity)
	}
	return nil
}
