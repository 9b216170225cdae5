package booking

import "time"

// StatusAxis identifies which of the two status axes a change applied to.
type StatusAxis string

const (
	AxisFulfillment StatusAxis = "fulfillment"
	AxisPayment     StatusAxis = "payment"
)

// StatusChange is one audit entry recorded on every successful transition.
type StatusChange struct {
	Axis  StatusAxis `json:"axis"`
	From  string     `json:"from"`
	To    string     `json:"to"`
	At    time.Time  `json:"at"`
	Actor string     `json:"actor"`
}
