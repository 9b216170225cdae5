package booking

import "fmt"

// PaymentStatus represents the financial settlement state of a booking,
// independent of fulfillment.
type PaymentStatus string

const (
	PaymentUnpaid  PaymentStatus = "unpaid"
	PaymentPartial PaymentStatus = "partial"
	PaymentPaid    PaymentStatus = "paid"
	PaymentFailed  PaymentStatus = "failed"
)

// paymentTransitions defines the state machine for the payment axis.
// Any live state can fail; recovering from failed means starting a new
// payment attempt, modeled as failed -> unpaid.
var paymentTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentUnpaid:  {PaymentPartial, PaymentPaid, PaymentFailed},
	PaymentPartial: {PaymentPaid, PaymentFailed},
	PaymentPaid:    {PaymentFailed},
	PaymentFailed:  {PaymentUnpaid},
}

// IsValid returns true if the status is a recognized payment status.
func (s PaymentStatus) IsValid() bool {
	_, exists := paymentTransitions[s]
	return exists
}

// CanTransitionTo returns true if the edge from this status to the target
// is in the transition table.
func (s PaymentStatus) CanTransitionTo(target PaymentStatus) bool {
	allowed, exists := paymentTransitions[s]
	if !exists {
		return false
	}
	for _, t := range allowed {
		if t == target {
			return true
		}
	}
	return false
}

// String returns the string representation of the status.
func (s PaymentStatus) String() string {
	return string(s)
}

// ParsePaymentStatus converts a string to a PaymentStatus, returning an
// error if invalid.
func ParsePaymentStatus(s string) (PaymentStatus, error) {
	status := PaymentStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid payment status: %s", s)
	}
	return status, nil
}
