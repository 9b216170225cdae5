//go:build integration

package main_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bookingEvents "github.com/recharge-travels/service-booking/internal/events"
)

// TestPaymentCaptured_MarksBookingPaid verifies that when a payment
// captured event is published to payment.events, the booking service
// picks it up, marks the booking paid, and emits a status-changed event.
func TestPaymentCaptured_MarksBookingPaid(t *testing.T) {
	infra := setupContainers(t)
	defer infra.Cleanup()

	stack := setupBookingStack(t, infra.DB, infra.KafkaBrokers)
	defer stack.CleanupProducer()
	defer func() { _ = stack.Consumer.Close() }()

	bookingID := uuid.New()
	seedConfirmedBooking(t, infra.DB, bookingID, 12700)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = stack.Consumer.Start(ctx) }()
	time.Sleep(3 * time.Second) // Wait for consumer group join.

	evt := bookingEvents.PaymentEvent{
		PaymentID:   uuid.New(),
		BookingID:   bookingID,
		AmountCents: 12700,
		Currency:    "USD",
		OccurredAt:  time.Now().UTC(),
	}
	publishTestEvent(t, infra.KafkaBrokers, bookingEvents.TopicPaymentEvents,
		"service-payment", bookingEvents.PaymentCaptured, bookingID.String(), evt)

	model := waitForPaymentStatus(t, infra.DB, bookingID, "paid", 15*time.Second)
	assert.Equal(t, "confirmed", model.FulfillmentStatus)
	assert.Equal(t, int64(3), model.Version, "optimistic lock version should advance")

	ce := consumeOneEvent(t, infra.KafkaBrokers, bookingEvents.TopicBookingEvents,
		bookingEvents.BookingStatusChanged, 15*time.Second)

	var changed bookingEvents.BookingStatusChangedEvent
	require.NoError(t, ce.ParseData(&changed))
	assert.Equal(t, bookingID, changed.BookingID)
	assert.Equal(t, "payment", changed.Axis)
	assert.Equal(t, "unpaid", changed.From)
	assert.Equal(t, "paid", changed.To)
	assert.Equal(t, "service-payment", changed.Actor)
}

// TestPaymentCaptured_Idempotent verifies that a duplicate payment event
// is absorbed without an error or an extra audit entry.
func TestPaymentCaptured_Idempotent(t *testing.T) {
	infra := setupContainers(t)
	defer infra.Cleanup()

	stack := setupBookingStack(t, infra.DB, infra.KafkaBrokers)
	defer stack.CleanupProducer()
	defer func() { _ = stack.Consumer.Close() }()

	bookingID := uuid.New()
	seedConfirmedBooking(t, infra.DB, bookingID, 12700)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = stack.Consumer.Start(ctx) }()
	time.Sleep(3 * time.Second)

	evt := bookingEvents.PaymentEvent{
		PaymentID:   uuid.New(),
		BookingID:   bookingID,
		AmountCents: 12700,
		Currency:    "USD",
		OccurredAt:  time.Now().UTC(),
	}
	publishTestEvent(t, infra.KafkaBrokers, bookingEvents.TopicPaymentEvents,
		"service-payment", bookingEvents.PaymentCaptured, bookingID.String(), evt)
	publishTestEvent(t, infra.KafkaBrokers, bookingEvents.TopicPaymentEvents,
		"service-payment", bookingEvents.PaymentCaptured, bookingID.String(), evt)

	model := waitForPaymentStatus(t, infra.DB, bookingID, "paid", 15*time.Second)

	// The duplicate must not bump the version a second time.
	time.Sleep(3 * time.Second)
	require.NoError(t, infra.DB.Where("id = ?", bookingID).First(&model).Error)
	assert.Equal(t, int64(3), model.Version)
	assert.Equal(t, "paid", model.PaymentStatus)
}
