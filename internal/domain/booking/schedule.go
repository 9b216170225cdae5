package booking

import (
	"time"

	"github.com/recharge-travels/service-booking/internal/domain"
)

// ScheduleDateLayout is the wire format for service dates.
const ScheduleDateLayout = "2006-01-02"

// Schedule holds the service date of a booking and, for multi-day
// products, the stay length in nights.
type Schedule struct {
	Start  time.Time `json:"start"`
	Nights int       `json:"nights,omitempty"`
}

// End returns the last service day, or the start date for single-day bookings.
func (s Schedule) End() time.Time {
	if s.Nights <= 0 {
		return s.Start
	}
	return s.Start.AddDate(0, 0, s.Nights)
}

// Duration returns the billable unit count: nights for stays, 1 otherwise.
func (s Schedule) Duration() int {
	if s.Nights <= 0 {
		return 1
	}
	return s.Nights
}

// ParseSchedule builds a Schedule from a calendar date string. The date must
// parse and must not lie before the given reference instant's calendar day.
func ParseSchedule(start string, nights int, now time.Time, loc *time.Location) (Schedule, error) {
	t, err := time.ParseInLocation(ScheduleDateLayout, start, loc)
	if err != nil {
		return Schedule{}, domain.NewInvalidScheduleError(start)
	}
	if nights < 0 {
		return Schedule{}, domain.NewValidationError("nights cannot be negative")
	}

	today := time.Date(now.In(loc).Year(), now.In(loc).Month(), now.In(loc).Day(), 0, 0, 0, 0, loc)
	if t.Before(today) {
		return Schedule{}, domain.NewInvalidScheduleError(start)
	}
	return Schedule{Start: t, Nights: nights}, nil
}
