package booking

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"

	"github.com/recharge-travels/service-booking/internal/domain"
)

const referenceChars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// Booking is the aggregate root for the booking domain. It is created once
// in pending/unpaid and mutated thereafter only through the status
// transition methods and note edits. Cancellation is a status, never a
// physical delete.
type Booking struct {
	id        uuid.UUID
	reference string

	product  ProductRef
	party    Party
	schedule Schedule
	channel  Channel
	price    PriceBreakdown

	customerName  string
	customerEmail string
	customerPhone string
	agencyID      *uuid.UUID

	fulfillmentStatus FulfillmentStatus
	paymentStatus     PaymentStatus

	emergencyOverride bool
	notes             string
	history           []StatusChange

	version   int64
	createdAt time.Time
	updatedAt time.Time
}

// generateReference creates a booking reference in the format "RT-XXXXXX".
func generateReference() (string, error) {
	result := make([]byte, 6)
	for i := range result {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(referenceChars))))
		if err != nil {
			return "", fmt.Errorf("failed to generate booking reference: %w", err)
		}
		result[i] = referenceChars[n.Int64()]
	}
	return "RT-" + string(result), nil
}

// NewBooking creates a new Booking aggregate in pending/unpaid. The price
// snapshot must already be computed; it is immutable from here on.
func NewBooking(
	product ProductRef,
	party Party,
	schedule Schedule,
	channel Channel,
	price PriceBreakdown,
	customerName, customerEmail, customerPhone string,
	agencyID *uuid.UUID,
	emergencyOverride bool,
	notes string,
) (*Booking, error) {
	if product.ProductID == uuid.Nil {
		return nil, domain.NewValidationError("product reference is required")
	}
	if !channel.IsValid() {
		return nil, domain.NewUnsupportedChannelError(string(channel))
	}
	if err := party.Validate(product.MaxCapacity); err != nil {
		return nil, err
	}
	if schedule.Start.IsZero() {
		return nil, domain.NewInvalidScheduleError("")
	}
	if !price.Consistent() {
		return nil, domain.NewValidationError("price snapshot does not balance")
	}
	if customerName == "" {
		return nil, domain.NewValidationError("customer name is required")
	}
	if channel == ChannelPartner && agencyID == nil {
		return nil, domain.NewValidationError("partner bookings require an agency")
	}

	reference, err := generateReference()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &Booking{
		id:                uuid.New(),
		reference:         reference,
		product:           product,
		party:             party,
		schedule:          schedule,
		channel:           channel,
		price:             price,
		customerName:      customerName,
		customerEmail:     customerEmail,
		customerPhone:     customerPhone,
		agencyID:          agencyID,
		fulfillmentStatus: FulfillmentPending,
		paymentStatus:     PaymentUnpaid,
		emergencyOverride: emergencyOverride,
		notes:             notes,
		version:           1,
		createdAt:         now,
		updatedAt:         now,
	}, nil
}

// Reconstruct rebuilds a Booking from persistence data (no validation).
func Reconstruct(
	id uuid.UUID,
	reference string,
	product ProductRef,
	party Party,
	schedule Schedule,
	channel Channel,
	price PriceBreakdown,
	customerName, customerEmail, customerPhone string,
	agencyID *uuid.UUID,
	fulfillmentStatus FulfillmentStatus,
	paymentStatus PaymentStatus,
	emergencyOverride bool,
	notes string,
	history []StatusChange,
	version int64,
	createdAt, updatedAt time.Time,
) *Booking {
	return &Booking{
		id:                id,
		reference:         reference,
		product:           product,
		party:             party,
		schedule:          schedule,
		channel:           channel,
		price:             price,
		customerName:      customerName,
		customerEmail:     customerEmail,
		customerPhone:     customerPhone,
		agencyID:          agencyID,
		fulfillmentStatus: fulfillmentStatus,
		paymentStatus:     paymentStatus,
		emergencyOverride: emergencyOverride,
		notes:             notes,
		history:           history,
		version:           version,
		createdAt:         createdAt,
		updatedAt:         updatedAt,
	}
}

// --- Getters ---

// ID returns the booking's unique identifier.
func (b *Booking) ID() uuid.UUID { return b.id }

// Reference returns the human-readable booking reference.
func (b *Booking) Reference() string { return b.reference }

// Product returns the denormalized product reference.
func (b *Booking) Product() ProductRef { return b.product }

// Party returns the party composition.
func (b *Booking) Party() Party { return b.party }

// Schedule returns the service schedule.
func (b *Booking) Schedule() Schedule { return b.schedule }

// Channel returns the sales channel.
func (b *Booking) Channel() Channel { return b.channel }

// Price returns the immutable price snapshot.
func (b *Booking) Price() PriceBreakdown { return b.price }

// CustomerName returns the lead traveller's name.
func (b *Booking) CustomerName() string { return b.customerName }

// CustomerEmail returns the lead traveller's email.
func (b *Booking) CustomerEmail() string { return b.customerEmail }

// CustomerPhone returns the lead traveller's phone number.
func (b *Booking) CustomerPhone() string { return b.customerPhone }

// AgencyID returns the reseller agency for partner bookings, or nil.
func (b *Booking) AgencyID() *uuid.UUID { return b.agencyID }

// FulfillmentStatus returns the current fulfillment status.
func (b *Booking) FulfillmentStatus() FulfillmentStatus { return b.fulfillmentStatus }

// PaymentStatus returns the current payment status.
func (b *Booking) PaymentStatus() PaymentStatus { return b.paymentStatus }

// EmergencyOverride reports whether the booking was admitted inside the
// minimum lead window. The flag is permanent for audit and reporting.
func (b *Booking) EmergencyOverride() bool { return b.emergencyOverride }

// Notes returns the free-text notes.
func (b *Booking) Notes() string { return b.notes }

// History returns the audit trail of status changes.
func (b *Booking) History() []StatusChange { return b.history }

// Version returns the entity version for optimistic locking.
func (b *Booking) Version() int64 { return b.version }

// CreatedAt returns the creation timestamp.
func (b *Booking) CreatedAt() time.Time { return b.createdAt }

// UpdatedAt returns the last-updated timestamp.
func (b *Booking) UpdatedAt() time.Time { return b.updatedAt }

// --- Behavior ---

// TransitionFulfillment moves the fulfillment axis to the target status.
// Re-applying the current status is a no-op, reported via the changed flag.
// Completing requires payment to have settled first.
func (b *Booking) TransitionFulfillment(to FulfillmentStatus, actor string) (bool, error) {
	if !to.IsValid() {
		return false, domain.NewValidationError(fmt.Sprintf("invalid fulfillment status: %s", to))
	}
	if to == b.fulfillmentStatus {
		return false, nil
	}
	if !b.fulfillmentStatus.CanTransitionTo(to) {
		return false, domain.NewIllegalTransitionError(string(b.fulfillmentStatus), string(to))
	}
	if to == FulfillmentCompleted && b.paymentStatus != PaymentPaid {
		return false, domain.NewPaymentIncompleteError(string(b.paymentStatus))
	}

	b.appendHistory(AxisFulfillment, string(b.fulfillmentStatus), string(to), actor)
	b.fulfillmentStatus = to
	return true, nil
}

// TransitionPayment moves the payment axis to the target status.
// Re-applying the current status is a no-op, reported via the changed flag.
func (b *Booking) TransitionPayment(to PaymentStatus, actor string) (bool, error) {
	if !to.IsValid() {
		return false, domain.NewValidationError(fmt.Sprintf("invalid payment status: %s", to))
	}
	if to == b.paymentStatus {
		return false, nil
	}
	if !b.paymentStatus.CanTransitionTo(to) {
		return false, domain.NewIllegalTransitionError(string(b.paymentStatus), string(to))
	}

	b.appendHistory(AxisPayment, string(b.paymentStatus), string(to), actor)
	b.paymentStatus = to
	return true, nil
}

// UpdateNotes replaces the free-text notes. Notes carry no invariants.
func (b *Booking) UpdateNotes(notes string) {
	b.notes = notes
	b.updatedAt = time.Now().UTC()
}

// IncrementVersion bumps the version for optimistic locking.
func (b *Booking) IncrementVersion() {
	b.version++
	b.updatedAt = time.Now().UTC()
}

func (b *Booking) appendHistory(axis StatusAxis, from, to, actor string) {
	now := time.Now().UTC()
	b.history = append(b.history, StatusChange{
		Axis:  axis,
		From:  from,
		To:    to,
		At:    now,
		Actor: actor,
	})
	b.updatedAt = now
}
