package booking

import "fmt"

// FulfillmentStatus represents the operational state of a booking,
// independent of payment.
type FulfillmentStatus string

const (
	FulfillmentPending   FulfillmentStatus = "pending"
	FulfillmentConfirmed FulfillmentStatus = "confirmed"
	FulfillmentCancelled FulfillmentStatus = "cancelled"
	FulfillmentCompleted FulfillmentStatus = "completed"
)

// fulfillmentTransitions defines the state machine for the fulfillment axis.
// Every screen goes through this table; there are no per-screen rules.
var fulfillmentTransitions = map[FulfillmentStatus][]FulfillmentStatus{
	FulfillmentPending:   {FulfillmentConfirmed, FulfillmentCancelled},
	FulfillmentConfirmed: {FulfillmentCompleted, FulfillmentCancelled},
	FulfillmentCancelled: {},
	FulfillmentCompleted: {},
}

// IsValid returns true if the status is a recognized fulfillment status.
func (s FulfillmentStatus) IsValid() bool {
	_, exists := fulfillmentTransitions[s]
	return exists
}

// CanTransitionTo returns true if the edge from this status to the target
// is in the transition table.
func (s FulfillmentStatus) CanTransitionTo(target FulfillmentStatus) bool {
	allowed, exists := fulfillmentTransitions[s]
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

// IsTerminal returns true if no further transitions are possible.
func (s FulfillmentStatus) IsTerminal() bool {
	allowed, exists := fulfillmentTransitions[s]
	if !exists {
		return true
	}
	return len(allowed) == 0
}

// String returns the string representation of the status.
func (s FulfillmentStatus) String() string {
	return string(s)
}

// ParseFulfillmentStatus converts a string to a FulfillmentStatus,
// returning an error if invalid.
func ParseFulfillmentStatus(s string) (FulfillmentStatus, error) {
	status := FulfillmentStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid fulfillment status: %s", s)
	}
	return status, nil
}
