package report_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recharge-travels/service-booking/internal/domain/report"
)

// All tests use a fixed reference instant in the reporting time zone so
// the today/month boundaries are deterministic.
var colombo = func() *time.Location {
	loc, err := time.LoadLocation("Asia/Colombo")
	if err != nil {
		panic(err)
	}
	return loc
}()

func asOfMarch15() time.Time {
	return time.Date(2026, 3, 15, 14, 30, 0, 0, colombo)
}

func paidRow(groupKey, date string, totalCents int64) report.BookingRow {
	return report.BookingRow{
		Reference:         "RT-TEST01",
		Channel:           "direct",
		FulfillmentStatus: "confirmed",
		PaymentStatus:     "paid",
		GroupKey:          groupKey,
		TotalCents:        totalCents,
		ScheduleStart:     date,
		CreatedAt:         time.Date(2026, 3, 1, 10, 0, 0, 0, colombo),
	}
}

func TestComputeSnapshot_TotalsAndBuckets(t *testing.T) {
	in := report.Input{
		Bookings: []report.BookingRow{
			// Scheduled today, fully paid: realized in both buckets.
			paidRow("Kandy", "2026-03-15", 10000),
			// Scheduled today, partial: pending revenue only.
			{
				FulfillmentStatus: "confirmed", PaymentStatus: "partial",
				GroupKey: "Kandy", TotalCents: 5000, ScheduleStart: "2026-03-15",
			},
			// Earlier this month, paid partner booking.
			{
				Channel: "partner", FulfillmentStatus: "completed", PaymentStatus: "paid",
				GroupKey: "Galle", TotalCents: 8000, ScheduleStart: "2026-03-02",
			},
			// Scheduled tomorrow: outside today, outside month (after asOf).
			paidRow("Ella", "2026-03-16", 7000),
			// Last month: totals only.
			paidRow("Kandy", "2026-02-20", 9000),
			// Cancelled and unpaid: counted, no revenue anywhere.
			{
				FulfillmentStatus: "cancelled", PaymentStatus: "unpaid",
				GroupKey: "Mirissa", TotalCents: 4000, ScheduleStart: "2026-03-15",
				EmergencyOverride: true,
			},
		},
	}

	snap := report.ComputeSnapshot(asOfMarch15(), colombo, in)

	assert.Equal(t, int64(6), snap.Totals.Bookings)
	assert.Equal(t, int64(10000+8000+7000+9000), snap.Totals.RealizedRevenueCents)
	assert.Equal(t, int64(5000), snap.Totals.PendingRevenueCents)
	assert.Equal(t, int64(1), snap.Totals.EmergencyOverrides)
	assert.Equal(t, int64(4), snap.Totals.ByFulfillment["confirmed"])
	assert.Equal(t, int64(1), snap.Totals.ByFulfillment["completed"])
	assert.Equal(t, int64(1), snap.Totals.ByFulfillment["cancelled"])
	assert.Equal(t, int64(1), snap.Totals.ByPayment["partial"])
	assert.Equal(t, int64(1), snap.Totals.ByPayment["unpaid"])

	// Today: the two March 15 revenue rows plus the cancelled one.
	assert.Equal(t, int64(3), snap.Today.Bookings)
	assert.Equal(t, int64(10000), snap.Today.RealizedRevenueCents)
	assert.Equal(t, int64(5000), snap.Today.PendingRevenueCents)

	// Month: March 1 through asOf. The March 16 row is excluded.
	assert.Equal(t, int64(4), snap.Month.Bookings)
	assert.Equal(t, int64(10000+8000), snap.Month.RealizedRevenueCents)
	assert.Equal(t, int64(5000), snap.Month.PendingRevenueCents)
}

func TestComputeSnapshot_MalformedScheduleDates(t *testing.T) {
	in := report.Input{
		Bookings: []report.BookingRow{
			paidRow("Kandy", "2026-03-15", 10000),
			// Legacy rows: missing and unparseable dates.
			paidRow("Kandy", "", 3000),
			paidRow("Kandy", "15/03/2026", 2000),
			paidRow("Kandy", "not-a-date", 1000),
		},
	}

	snap := report.ComputeSnapshot(asOfMarch15(), colombo, in)

	// Every row counts in the totals.
	assert.Equal(t, int64(4), snap.Totals.Bookings)
	assert.Equal(t, int64(16000), snap.Totals.RealizedRevenueCents)

	// Only the parseable row lands in time buckets.
	assert.Equal(t, int64(1), snap.Today.Bookings)
	assert.Equal(t, int64(10000), snap.Today.RealizedRevenueCents)
	assert.Equal(t, int64(1), snap.Month.Bookings)

	// Malformed rows still contribute to the all-time group ranking.
	require.Len(t, snap.TopGroups, 1)
	assert.Equal(t, int64(4), snap.TopGroups[0].Count)
	assert.Equal(t, int64(16000), snap.TopGroups[0].RevenueCents)
}

func TestComputeSnapshot_TodayBoundaries(t *testing.T) {
	// asOf mid-afternoon; the today bucket must span the full calendar day.
	in := report.Input{
		Bookings: []report.BookingRow{
			paidRow("Kandy", "2026-03-14", 1000), // yesterday
			paidRow("Kandy", "2026-03-15", 2000), // today
			paidRow("Kandy", "2026-03-16", 4000), // tomorrow
		},
	}

	snap := report.ComputeSnapshot(asOfMarch15(), colombo, in)

	assert.Equal(t, int64(1), snap.Today.Bookings)
	assert.Equal(t, int64(2000), snap.Today.RealizedRevenueCents)
}

func TestComputeSnapshot_TopGroupsRankingAndFilter(t *testing.T) {
	in := report.Input{
		Bookings: []report.BookingRow{
			paidRow("Kandy", "2026-03-10", 10000),
			paidRow("Kandy", "2026-03-11", 10000),
			paidRow("Galle", "2026-03-10", 30000),
			paidRow("Ella", "2026-03-10", 5000),
			paidRow("Mirissa", "2026-03-10", 5000),
			paidRow("Sigiriya", "2026-03-10", 4000),
			paidRow("Colombo", "2026-03-10", 3000),
			// Pending booking: excluded from the ranking entirely.
			{FulfillmentStatus: "pending", PaymentStatus: "paid", GroupKey: "Anuradhapura", TotalCents: 99000, ScheduleStart: "2026-03-10"},
			// Paid but cancelled: excluded.
			{FulfillmentStatus: "cancelled", PaymentStatus: "paid", GroupKey: "Jaffna", TotalCents: 99000, ScheduleStart: "2026-03-10"},
			// Confirmed but only partially paid: excluded.
			{FulfillmentStatus: "confirmed", PaymentStatus: "partial", GroupKey: "Trincomalee", TotalCents: 99000, ScheduleStart: "2026-03-10"},
		},
	}

	snap := report.ComputeSnapshot(asOfMarch15(), colombo, in)

	require.Len(t, snap.TopGroups, 5)
	assert.Equal(t, "Galle", snap.TopGroups[0].GroupKey)
	assert.Equal(t, "Kandy", snap.TopGroups[1].GroupKey)
	assert.Equal(t, int64(2), snap.TopGroups[1].Count)
	// Ella and Mirissa tie on revenue and count; key ascending breaks it.
	assert.Equal(t, "Ella", snap.TopGroups[2].GroupKey)
	assert.Equal(t, "Mirissa", snap.TopGroups[3].GroupKey)
	assert.Equal(t, "Sigiriya", snap.TopGroups[4].GroupKey)
}

func TestComputeSnapshot_GroupGrowth(t *testing.T) {
	in := report.Input{
		Bookings: []report.BookingRow{
			// Kandy: 9000 prior month, 12000 this month -> +33.3%.
			paidRow("Kandy", "2026-02-20", 9000),
			paidRow("Kandy", "2026-03-10", 12000),
			// Galle: prior month only -> negative growth to zero.
			paidRow("Galle", "2026-02-10", 5000),
			// Ella: no prior revenue -> flagged New, not a percentage.
			paidRow("Ella", "2026-03-05", 4000),
		},
	}

	snap := report.ComputeSnapshot(asOfMarch15(), colombo, in)

	byKey := make(map[string]report.GroupStat)
	for _, g := range snap.TopGroups {
		byKey[g.GroupKey] = g
	}

	kandy := byKey["Kandy"]
	assert.InDelta(t, 33.33, kandy.GrowthPct, 0.01)
	assert.False(t, kandy.New)

	galle := byKey["Galle"]
	assert.InDelta(t, -100.0, galle.GrowthPct, 0.001)
	assert.False(t, galle.New)

	ella := byKey["Ella"]
	assert.True(t, ella.New)
	assert.Zero(t, ella.GrowthPct)
}

func TestComputeSnapshot_DirectoryTotals(t *testing.T) {
	in := report.Input{
		Customers: []report.CustomerRow{
			{CreatedAt: time.Date(2026, 3, 2, 0, 0, 0, 0, colombo)},
			{CreatedAt: time.Date(2026, 1, 10, 0, 0, 0, 0, colombo)},
			{}, // legacy row without a creation date
		},
		Drivers: []report.DriverRow{
			{Active: true}, {Active: true}, {Active: false},
		},
		Agencies: []report.AgencyRow{
			{PendingApproval: true}, {PendingApproval: false},
		},
		Reviews: []report.ReviewRow{
			{PendingModeration: true}, {PendingModeration: false}, {PendingModeration: false},
		},
		QueuedMessages: 7,
	}

	snap := report.ComputeSnapshot(asOfMarch15(), colombo, in)

	assert.Equal(t, int64(3), snap.Directory.Customers)
	assert.Equal(t, int64(1), snap.Directory.NewCustomers)
	assert.Equal(t, int64(3), snap.Directory.Drivers)
	assert.Equal(t, int64(2), snap.Directory.ActiveDrivers)
	assert.Equal(t, int64(2), snap.Directory.Agencies)
	assert.Equal(t, int64(1), snap.Directory.PendingAgencies)
	assert.Equal(t, int64(3), snap.Directory.Reviews)
	assert.Equal(t, int64(1), snap.Directory.PendingReviews)
	assert.Equal(t, int64(7), snap.Directory.QueuedMessages)
}

func TestComputeSnapshot_EmptyInput(t *testing.T) {
	snap := report.ComputeSnapshot(asOfMarch15(), colombo, report.Input{})

	assert.Zero(t, snap.Totals.Bookings)
	assert.Zero(t, snap.Totals.RealizedRevenueCents)
	assert.Empty(t, snap.TopGroups)
	assert.NotNil(t, snap.Totals.ByFulfillment)
	assert.Equal(t, asOfMarch15(), snap.AsOf)
}

func TestComputeSnapshot_NilLocationDefaultsToUTC(t *testing.T) {
	asOf := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	in := report.Input{Bookings: []report.BookingRow{paidRow("Kandy", "2026-03-15", 1000)}}

	snap := report.ComputeSnapshot(asOf, nil, in)
	assert.Equal(t, int64(1), snap.Today.Bookings)
}
