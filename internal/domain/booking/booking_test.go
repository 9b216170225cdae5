package booking_test

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recharge-travels/service-booking/internal/domain"
	"github.com/recharge-travels/service-booking/internal/domain/booking"
)

func newTestBooking(t *testing.T) *booking.Booking {
	t.Helper()

	pricing := newStandardPricing()
	price, err := pricing.Quote(10000, booking.ChannelDirect)
	require.NoError(t, err)

	bk, err := booking.NewBooking(
		booking.ProductRef{
			ProductID:      uuid.New(),
			Name:           "Sigiriya Rock Fortress Tour",
			BasePriceCents: 5000,
			MaxCapacity:    10,
			GroupKey:       "Sigiriya",
		},
		booking.Party{Adults: 2},
		booking.Schedule{Start: time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)},
		booking.ChannelDirect,
		price,
		"Amara Silva",
		"amara@example.com",
		"+94771234001",
		nil,
		false,
		"",
	)
	require.NoError(t, err)
	return bk
}

func TestNewBooking_StartsPendingUnpaid(t *testing.T) {
	bk := newTestBooking(t)

	assert.Equal(t, booking.FulfillmentPending, bk.FulfillmentStatus())
	assert.Equal(t, booking.PaymentUnpaid, bk.PaymentStatus())
	assert.Equal(t, int64(1), bk.Version())
	assert.True(t, strings.HasPrefix(bk.Reference(), "RT-"))
	assert.Len(t, bk.Reference(), 9)
	assert.Empty(t, bk.History())
}

func TestNewBooking_PartnerRequiresAgency(t *testing.T) {
	pricing := newStandardPricing()
	price, err := pricing.Quote(10000, booking.ChannelPartner)
	require.NoError(t, err)

	_, err = booking.NewBooking(
		booking.ProductRef{ProductID: uuid.New(), Name: "Tour", BasePriceCents: 5000, MaxCapacity: 10, GroupKey: "Kandy"},
		booking.Party{Adults: 2},
		booking.Schedule{Start: time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)},
		booking.ChannelPartner,
		price,
		"Island Hopper Travel", "", "", nil, false, "",
	)
	require.Error(t, err)
	assert.Equal(t, domain.CodeValidation, domain.CodeOf(err))
}

func TestNewBooking_RejectsOverCapacityParty(t *testing.T) {
	pricing := newStandardPricing()
	price, err := pricing.Quote(10000, booking.ChannelDirect)
	require.NoError(t, err)

	_, err = booking.NewBooking(
		booking.ProductRef{ProductID: uuid.New(), Name: "Tour", BasePriceCents: 5000, MaxCapacity: 4, GroupKey: "Ella"},
		booking.Party{Adults: 3, Children: 2},
		booking.Schedule{Start: time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)},
		booking.ChannelDirect,
		price,
		"Amara Silva", "", "", nil, false, "",
	)
	require.Error(t, err)
	assert.Equal(t, domain.CodeCapacityExceeded, domain.CodeOf(err))
}

func TestTransitionFulfillment_HappyPath(t *testing.T) {
	bk := newTestBooking(t)

	changed, err := bk.TransitionFulfillment(booking.FulfillmentConfirmed, "admin")
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, booking.FulfillmentConfirmed, bk.FulfillmentStatus())

	changed, err = bk.TransitionPayment(booking.PaymentPaid, "service-payment")
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = bk.TransitionFulfillment(booking.FulfillmentCompleted, "admin")
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, booking.FulfillmentCompleted, bk.FulfillmentStatus())

	require.Len(t, bk.History(), 3)
	assert.Equal(t, booking.AxisFulfillment, bk.History()[0].Axis)
	assert.Equal(t, "admin", bk.History()[0].Actor)
}

func TestTransitionFulfillment_IdempotentReapply(t *testing.T) {
	bk := newTestBooking(t)

	changed, err := bk.TransitionFulfillment(booking.FulfillmentConfirmed, "admin")
	require.NoError(t, err)
	require.True(t, changed)

	// Same target again: success, no write, no history entry.
	changed, err = bk.TransitionFulfillment(booking.FulfillmentConfirmed, "admin")
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Len(t, bk.History(), 1)
}

func TestTransitionFulfillment_RejectsSkippingConfirmation(t *testing.T) {
	bk := newTestBooking(t)

	_, err := bk.TransitionFulfillment(booking.FulfillmentCompleted, "admin")
	require.Error(t, err)
	assert.Equal(t, domain.CodeIllegalTransition, domain.CodeOf(err))
	assert.Equal(t, booking.FulfillmentPending, bk.FulfillmentStatus())
}

func TestTransitionFulfillment_CompletionRequiresFullPayment(t *testing.T) {
	bk := newTestBooking(t)

	_, err := bk.TransitionFulfillment(booking.FulfillmentConfirmed, "admin")
	require.NoError(t, err)

	// Unpaid: refused.
	_, err = bk.TransitionFulfillment(booking.FulfillmentCompleted, "admin")
	require.Error(t, err)
	assert.Equal(t, domain.CodePaymentIncomplete, domain.CodeOf(err))

	// Partially paid: still refused.
	_, err = bk.TransitionPayment(booking.PaymentPartial, "service-payment")
	require.NoError(t, err)
	_, err = bk.TransitionFulfillment(booking.FulfillmentCompleted, "admin")
	require.Error(t, err)
	assert.Equal(t, domain.CodePaymentIncomplete, domain.CodeOf(err))

	// Paid: allowed.
	_, err = bk.TransitionPayment(booking.PaymentPaid, "service-payment")
	require.NoError(t, err)
	changed, err := bk.TransitionFulfillment(booking.FulfillmentCompleted, "admin")
	require.NoError(t, err)
	assert.True(t, changed)
}

func TestTransitionFulfillment_TerminalStatesAreFrozen(t *testing.T) {
	bk := newTestBooking(t)

	_, err := bk.TransitionFulfillment(booking.FulfillmentCancelled, "customer")
	require.NoError(t, err)

	for _, target := range []booking.FulfillmentStatus{
		booking.FulfillmentPending,
		booking.FulfillmentConfirmed,
		booking.FulfillmentCompleted,
	} {
		_, err := bk.TransitionFulfillment(target, "admin")
		require.Error(t, err)
		assert.Equal(t, domain.CodeIllegalTransition, domain.CodeOf(err))
	}
}

func TestTransitionPayment_Paths(t *testing.T) {
	tests := []struct {
		name    string
		path    []booking.PaymentStatus
		wantErr bool
	}{
		{"unpaid to paid directly", []booking.PaymentStatus{booking.PaymentPaid}, false},
		{"via partial", []booking.PaymentStatus{booking.PaymentPartial, booking.PaymentPaid}, false},
		{"failure then retry", []booking.PaymentStatus{booking.PaymentFailed, booking.PaymentUnpaid, booking.PaymentPaid}, false},
		{"refund after capture", []booking.PaymentStatus{booking.PaymentPaid, booking.PaymentFailed}, false},
		{"paid back to partial", []booking.PaymentStatus{booking.PaymentPaid, booking.PaymentPartial}, true},
		{"partial back to unpaid", []booking.PaymentStatus{booking.PaymentPartial, booking.PaymentUnpaid}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bk := newTestBooking(t)
			var lastErr error
			for _, target := range tt.path {
				_, lastErr = bk.TransitionPayment(target, "service-payment")
				if lastErr != nil {
					break
				}
			}
			if tt.wantErr {
				require.Error(t, lastErr)
				assert.Equal(t, domain.CodeIllegalTransition, domain.CodeOf(lastErr))
			} else {
				assert.NoError(t, lastErr)
			}
		})
	}
}

func TestCancellationIsIndependentOfPayment(t *testing.T) {
	bk := newTestBooking(t)

	_, err := bk.TransitionPayment(booking.PaymentPaid, "service-payment")
	require.NoError(t, err)

	// A paid booking can still be cancelled; the refund is a later
	// payment-axis transition, not a precondition.
	changed, err := bk.TransitionFulfillment(booking.FulfillmentCancelled, "admin")
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, booking.PaymentPaid, bk.PaymentStatus())
}
