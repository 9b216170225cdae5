package booking

import (
	"time"

	"github.com/recharge-travels/service-booking/internal/domain"
)

// AdmissionValidator gates whether a booking request may be accepted based
// on the lead time before the scheduled service date. The emergency
// override relaxes only this timing rule; capacity and pricing checks are
// unaffected by it.
type AdmissionValidator struct {
	minLeadHours int
	now          func() time.Time
}

// NewAdmissionValidator creates a validator with the configured minimum
// lead time. The clock defaults to time.Now and is injectable for tests.
func NewAdmissionValidator(minLeadHours int, now func() time.Time) *AdmissionValidator {
	if now == nil {
		now = time.Now
	}
	return &AdmissionValidator{minLeadHours: minLeadHours, now: now}
}

// MinLeadHours returns the configured minimum lead time in hours.
func (v *AdmissionValidator) MinLeadHours() int {
	return v.minLeadHours
}

// Accepts checks the lead-time rule for the given service start. A start
// exactly at now + minLeadHours is accepted; the boundary is inclusive.
// Returns an AdmissionWindowViolation error on rejection.
func (v *AdmissionValidator) Accepts(start time.Time, emergencyOverride bool) error {
	leadHours := start.Sub(v.now()).Hours()
	if leadHours < float64(v.minLeadHours) && !emergencyOverride {
		return domain.NewAdmissionWindowError(leadHours, v.minLeadHours)
	}
	return nil
}
