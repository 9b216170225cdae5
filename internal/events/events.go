package events

import (
	"time"

	"github.com/google/uuid"
)

// Kafka topics.
const (
	TopicBookingEvents = "booking.events"
	TopicPaymentEvents = "payment.events"
)

// Event types carried in the CloudEvent envelope.
const (
	BookingCreated           = "booking.created"
	BookingStatusChanged     = "booking.status_changed"
	PaymentCaptured          = "payment.captured"
	PaymentPartiallyCaptured = "payment.partially_captured"
	PaymentFailed            = "payment.failed"
)

// BookingCreatedEvent is published when a new booking is persisted.
type BookingCreatedEvent struct {
	BookingID  uuid.UUID `json:"booking_id"`
	Reference  string    `json:"reference"`
	ProductID  uuid.UUID `json:"product_id"`
	GroupKey   string    `json:"group_key"`
	Channel    string    `json:"channel"`
	TotalCents int64     `json:"total_cents"`
	OccurredAt time.Time `json:"occurred_at"`
}

// BookingStatusChangedEvent is published on every successful status
// transition on either axis.
type BookingStatusChangedEvent struct {
	BookingID  uuid.UUID `json:"booking_id"`
	Reference  string    `json:"reference"`
	Axis       string    `json:"axis"`
	From       string    `json:"from"`
	To         string    `json:"to"`
	Actor      string    `json:"actor"`
	OccurredAt time.Time `json:"occurred_at"`
}

// PaymentEvent is consumed from the payment service's topic.
type PaymentEvent struct {
	PaymentID   uuid.UUID `json:"payment_id"`
	BookingID   uuid.UUID `json:"booking_id"`
	AmountCents int64     `json:"amount_cents"`
	Currency    string    `json:"currency"`
	OccurredAt  time.Time `json:"occurred_at"`
}
