package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/recharge-travels/service-booking/internal/domain/booking"
)

var csvHeader = []string{
	"reference",
	"product",
	"group_key",
	"channel",
	"fulfillment_status",
	"payment_status",
	"schedule_start",
	"nights",
	"adults",
	"children",
	"rooms",
	"base_cents",
	"tax_cents",
	"fee_cents",
	"discount_cents",
	"total_cents",
	"emergency_override",
	"created_at",
}

// WriteBookingsCSV streams the booking set as a flat CSV, one row per
// booking. Monetary values stay in integer cents to keep the file
// re-importable without float drift.
func WriteBookingsCSV(w io.Writer, bookings []*booking.Booking) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, bk := range bookings {
		start := ""
		if !bk.Schedule().Start.IsZero() {
			start = bk.Schedule().Start.Format(booking.ScheduleDateLayout)
		}
		row := []string{
			bk.Reference(),
			bk.Product().Name,
			bk.Product().GroupKey,
			string(bk.Channel()),
			string(bk.FulfillmentStatus()),
			string(bk.PaymentStatus()),
			start,
			strconv.Itoa(bk.Schedule().Nights),
			strconv.Itoa(bk.Party().Adults),
			strconv.Itoa(bk.Party().Children),
			strconv.Itoa(bk.Party().Rooms),
			strconv.FormatInt(bk.Price().BaseCents, 10),
			strconv.FormatInt(bk.Price().TaxCents, 10),
			strconv.FormatInt(bk.Price().FeeCents, 10),
			strconv.FormatInt(bk.Price().DiscountCents, 10),
			strconv.FormatInt(bk.Price().TotalCents, 10),
			strconv.FormatBool(bk.EmergencyOverride()),
			bk.CreatedAt().UTC().Format(time.RFC3339),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
