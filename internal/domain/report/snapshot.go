package report

import "time"

// BookingRow is the engine's flattened, read-only view of one booking
// record. Legacy rows seeded from older systems may carry missing or
// malformed schedule dates; the engine tolerates both.
type BookingRow struct {
	Reference         string
	Channel           string
	FulfillmentStatus string
	PaymentStatus     string
	GroupKey          string
	TotalCents        int64
	ScheduleStart     string // calendar date, "2006-01-02"
	CreatedAt         time.Time
	EmergencyOverride bool
}

// CustomerRow is the view of one customer record.
type CustomerRow struct {
	CreatedAt time.Time
}

// DriverRow is the view of one driver record.
type DriverRow struct {
	Active bool
}

// AgencyRow is the view of one partner agency record.
type AgencyRow struct {
	PendingApproval bool
}

// ReviewRow is the view of one review record.
type ReviewRow struct {
	PendingModeration bool
}

// Input carries the in-memory record sets a snapshot is computed over.
// The scan is read-only and eventually consistent; no transaction spans it.
type Input struct {
	Bookings       []BookingRow
	Customers      []CustomerRow
	Drivers        []DriverRow
	Agencies       []AgencyRow
	Reviews        []ReviewRow
	QueuedMessages int64
}

// Totals are unconditional counts and sums over the full booking set.
// Realized revenue counts paid bookings only; partially-paid amounts are
// reported separately as pending, never mixed into realized revenue.
type Totals struct {
	Bookings             int64            `json:"bookings"`
	ByFulfillment        map[string]int64 `json:"by_fulfillment"`
	ByPayment            map[string]int64 `json:"by_payment"`
	RealizedRevenueCents int64            `json:"realized_revenue_cents"`
	PendingRevenueCents  int64            `json:"pending_revenue_cents"`
	EmergencyOverrides   int64            `json:"emergency_overrides"`
}

// Bucket is a time-restricted subtotal.
type Bucket struct {
	Bookings             int64 `json:"bookings"`
	RealizedRevenueCents int64 `json:"realized_revenue_cents"`
	PendingRevenueCents  int64 `json:"pending_revenue_cents"`
}

// GroupStat is one entry of the ranked destination breakdown.
type GroupStat struct {
	GroupKey     string  `json:"group_key"`
	Count        int64   `json:"count"`
	RevenueCents int64   `json:"revenue_cents"`
	// GrowthPct compares this month's revenue to the prior month's for the
	// same group. Zero when both periods are zero.
	GrowthPct float64 `json:"growth_pct"`
	// New is set when the group had no prior-period revenue but has
	// current-period revenue, where a percentage would be undefined.
	New bool `json:"new,omitempty"`
}

// DirectoryTotals are counts over the sibling collections shown on the
// operations dashboard.
type DirectoryTotals struct {
	Customers       int64 `json:"customers"`
	NewCustomers    int64 `json:"new_customers"`
	Drivers         int64 `json:"drivers"`
	ActiveDrivers   int64 `json:"active_drivers"`
	Agencies        int64 `json:"agencies"`
	PendingAgencies int64 `json:"pending_agencies"`
	Reviews         int64 `json:"reviews"`
	PendingReviews  int64 `json:"pending_reviews"`
	QueuedMessages  int64 `json:"queued_messages"`
}

// Snapshot is the derived reporting view. It has no identity of its own
// and may be discarded and recomputed at any time.
type Snapshot struct {
	GeneratedAt time.Time       `json:"generated_at"`
	AsOf        time.Time       `json:"as_of"`
	Totals      Totals          `json:"totals"`
	Today       Bucket          `json:"today"`
	Month       Bucket          `json:"month"`
	TopGroups   []GroupStat     `json:"top_groups"`
	Directory   DirectoryTotals `json:"directory"`
}
