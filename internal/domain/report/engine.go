package report

import (
	"sort"
	"time"
)

const scheduleDateLayout = "2006-01-02"

// topGroupLimit caps the ranked destination breakdown.
const topGroupLimit = 5

// ComputeSnapshot rolls the given record sets into a reporting snapshot.
// Pure function: no retained state, no I/O, safe to call concurrently with
// writers and to re-run after failure. All time bucketing happens in the
// single reference location to avoid boundary ambiguity across clients.
//
// "Today" is [midnight(asOf), midnight(asOf)+24h); "this month" is
// [firstOfMonth(asOf), asOf]. Booking buckets key on the scheduled service
// date; the new-customer metric keys on record creation. Rows whose
// schedule date is missing or malformed still count in the unconditional
// totals but are excluded from every time-bucketed metric.
func ComputeSnapshot(asOf time.Time, loc *time.Location, in Input) Snapshot {
	if loc == nil {
		loc = time.UTC
	}
	asOf = asOf.In(loc)

	midnight := time.Date(asOf.Year(), asOf.Month(), asOf.Day(), 0, 0, 0, 0, loc)
	tomorrow := midnight.AddDate(0, 0, 1)
	firstOfMonth := time.Date(asOf.Year(), asOf.Month(), 1, 0, 0, 0, 0, loc)
	firstOfPriorMonth := firstOfMonth.AddDate(0, -1, 0)

	snap := Snapshot{
		GeneratedAt: time.Now().UTC(),
		AsOf:        asOf,
		Totals: Totals{
			ByFulfillment: make(map[string]int64),
			ByPayment:     make(map[string]int64),
		},
	}

	groups := make(map[string]*groupAgg)

	for _, row := range in.Bookings {
		snap.Totals.Bookings++
		snap.Totals.ByFulfillment[row.FulfillmentStatus]++
		snap.Totals.ByPayment[row.PaymentStatus]++
		if row.EmergencyOverride {
			snap.Totals.EmergencyOverrides++
		}

		realized, pending := revenueOf(row)
		snap.Totals.RealizedRevenueCents += realized
		snap.Totals.PendingRevenueCents += pending

		start, ok := parseScheduleDate(row.ScheduleStart, loc)
		if ok {
			if !start.Before(midnight) && start.Before(tomorrow) {
				snap.Today.Bookings++
				snap.Today.RealizedRevenueCents += realized
				snap.Today.PendingRevenueCents += pending
			}
			if !start.Before(firstOfMonth) && !start.After(asOf) {
				snap.Month.Bookings++
				snap.Month.RealizedRevenueCents += realized
				snap.Month.PendingRevenueCents += pending
			}
		}

		// Ranked breakdown counts confirmed-or-completed, paid records only.
		if rankable(row) {
			g := groups[row.GroupKey]
			if g == nil {
				g = &groupAgg{}
				groups[row.GroupKey] = g
			}
			g.count++
			g.revenue += row.TotalCents
			if ok {
				switch {
				case !start.Before(firstOfMonth) && !start.After(asOf):
					g.monthRevenue += row.TotalCents
				case !start.Before(firstOfPriorMonth) && start.Before(firstOfMonth):
					g.priorRevenue += row.TotalCents
				}
			}
		}
	}

	snap.TopGroups = rankGroups(groups)
	snap.Directory = directoryTotals(in, firstOfMonth)
	return snap
}

// revenueOf splits a row's amount into realized and pending revenue.
// Paid counts as realized; partial payments are tracked as whole-amount
// pending because paid-so-far amounts are not recorded per booking.
func revenueOf(row BookingRow) (realized, pending int64) {
	switch row.PaymentStatus {
	case "paid":
		return row.TotalCents, 0
	case "partial":
		return 0, row.TotalCents
	default:
		return 0, 0
	}
}

func rankable(row BookingRow) bool {
	if row.PaymentStatus != "paid" {
		return false
	}
	return row.FulfillmentStatus == "confirmed" || row.FulfillmentStatus == "completed"
}

func parseScheduleDate(raw string, loc *time.Location) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(scheduleDateLayout, raw, loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

type groupAgg struct {
	count        int64
	revenue      int64
	monthRevenue int64
	priorRevenue int64
}

func rankGroups(groups map[string]*groupAgg) []GroupStat {
	stats := make([]GroupStat, 0, len(groups))
	for key, g := range groups {
		stat := GroupStat{
			GroupKey:     key,
			Count:        g.count,
			RevenueCents: g.revenue,
		}
		switch {
		case g.priorRevenue > 0:
			stat.GrowthPct = (float64(g.monthRevenue) - float64(g.priorRevenue)) / float64(g.priorRevenue) * 100
		case g.monthRevenue > 0:
			stat.New = true
		}
		stats = append(stats, stat)
	}

	// Revenue descending, then count descending, then key ascending so the
	// ranking is deterministic.
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].RevenueCents != stats[j].RevenueCents {
			return stats[i].RevenueCents > stats[j].RevenueCents
		}
		if stats[i].Count != stats[j].Count {
			return stats[i].Count > stats[j].Count
		}
		return stats[i].GroupKey < stats[j].GroupKey
	})

	if len(stats) > topGroupLimit {
		stats = stats[:topGroupLimit]
	}
	return stats
}

func directoryTotals(in Input, firstOfMonth time.Time) DirectoryTotals {
	d := DirectoryTotals{
		Customers:      int64(len(in.Customers)),
		Drivers:        int64(len(in.Drivers)),
		Agencies:       int64(len(in.Agencies)),
		Reviews:        int64(len(in.Reviews)),
		QueuedMessages: in.QueuedMessages,
	}
	for _, c := range in.Customers {
		if !c.CreatedAt.IsZero() && !c.CreatedAt.Before(firstOfMonth) {
			d.NewCustomers++
		}
	}
	for _, dr := range in.Drivers {
		if dr.Active {
			d.ActiveDrivers++
		}
	}
	for _, a := range in.Agencies {
		if a.PendingApproval {
			d.PendingAgencies++
		}
	}
	for _, r := range in.Reviews {
		if r.PendingModeration {
			d.PendingReviews++
		}
	}
	return d
}
