package events

import (
	"context"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	bookingDomain "github.com/recharge-travels/service-booking/internal/domain/booking"
)

// paymentServiceActor is recorded in the audit history for transitions
// driven by payment events rather than an admin user.
const paymentServiceActor = "service-payment"

// PaymentApplier advances the payment status axis on a booking.
type PaymentApplier interface {
	ApplyPaymentEvent(ctx context.Context, bookingID uuid.UUID, to bookingDomain.PaymentStatus, actor string) error
}

// PaymentEventConsumer listens to payment events and advances the
// payment status axis on the affected booking.
type PaymentEventConsumer struct {
	consumer *Consumer
	applier  PaymentApplier
	logger   *zap.Logger
}

// NewPaymentEventConsumer creates a new PaymentEventConsumer.
func NewPaymentEventConsumer(
	brokers []string,
	groupID string,
	applier PaymentApplier,
	logger *zap.Logger,
) *PaymentEventConsumer {
	consumer := NewConsumer(brokers, groupID, TopicPaymentEvents, logger)
	return &PaymentEventConsumer{
		consumer: consumer,
		applier:  applier,
		logger:   logger,
	}
}

// Start begins consuming payment events. Blocks until the context is cancelled.
func (c *PaymentEventConsumer) Start(ctx context.Context) error {
	return c.consumer.Consume(ctx, c.handleMessage)
}

// Close closes the underlying Kafka consumer.
func (c *PaymentEventConsumer) Close() error {
	return c.consumer.Close()
}

func (c *PaymentEventConsumer) handleMessage(ctx context.Context, msg kafkago.Message) error {
	cloudEvent, err := ParseCloudEvent(msg.Value)
	if err != nil {
		c.logger.Error("failed to parse cloud event from payment topic",
			zap.Error(err),
			zap.String("raw", string(msg.Value)),
		)
		return nil // Don't retry malformed messages
	}

	var target bookingDomain.PaymentStatus
	switch cloudEvent.Type {
	case PaymentCaptured:
		target = bookingDomain.PaymentPaid
	case PaymentPartiallyCaptured:
		target = bookingDomain.PaymentPartial
	case PaymentFailed:
		target = bookingDomain.PaymentFailed
	default:
		c.logger.Debug("ignoring unhandled payment event type",
			zap.String("type", cloudEvent.Type),
		)
		return nil
	}

	var evt PaymentEvent
	if err := cloudEvent.ParseData(&evt); err != nil {
		c.logger.Error("failed to parse payment event data", zap.Error(err))
		return nil // Don't retry malformed data
	}

	c.logger.Info("processing payment event",
		zap.String("booking_id", evt.BookingID.String()),
		zap.String("type", cloudEvent.Type),
	)

	if err := c.applier.ApplyPaymentEvent(ctx, evt.BookingID, target, paymentServiceActor); err != nil {
		c.logger.Error("failed to apply payment status from event",
			zap.String("booking_id", evt.BookingID.String()),
			zap.String("target", string(target)),
			zap.Error(err),
		)
		return err
	}
	return nil
}
