package application

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	bookingDomain "github.com/recharge-travels/service-booking/internal/domain/booking"
	"github.com/recharge-travels/service-booking/internal/domain/report"
)

// DirectoryLoader loads the sibling collections the dashboard counts.
type DirectoryLoader interface {
	LoadCustomers(ctx context.Context) ([]report.CustomerRow, error)
	LoadDrivers(ctx context.Context) ([]report.DriverRow, error)
	LoadAgencies(ctx context.Context) ([]report.AgencyRow, error)
	CountQueuedMessages(ctx context.Context) (int64, error)
}

// ReviewLoader loads the flattened review view for the dashboard.
type ReviewLoader interface {
	LoadRows(ctx context.Context) ([]report.ReviewRow, error)
}

// ReportService computes operations snapshots over the full record set
// and keeps the most recent one cached for the dashboard. Snapshots are
// derived data; a stale or missing cache is never an error condition,
// just a reason to recompute.
type ReportService struct {
	bookings bookingDomain.Repository
	dir      DirectoryLoader
	reviews  ReviewLoader
	loc      *time.Location
	logger   *zap.Logger

	mu     sync.RWMutex
	latest *report.Snapshot
}

// NewReportService creates a new ReportService.
func NewReportService(
	bookings bookingDomain.Repository,
	dir DirectoryLoader,
	reviews ReviewLoader,
	loc *time.Location,
	logger *zap.Logger,
) *ReportService {
	return &ReportService{
		bookings: bookings,
		dir:      dir,
		reviews:  reviews,
		loc:      loc,
		logger:   logger,
	}
}

// ComputeSnapshot scans the full record set and derives a snapshot for
// the given reference instant. The scan runs without a transaction.
func (s *ReportService) ComputeSnapshot(ctx context.Context, asOf time.Time) (*report.Snapshot, error) {
	in, err := s.loadInput(ctx)
	if err != nil {
		return nil, err
	}
	snapshot := report.ComputeSnapshot(asOf, s.loc, in)
	return &snapshot, nil
}

// RefreshSnapshot recomputes the cached snapshot at the current time.
// The scheduler calls this periodically.
func (s *ReportService) RefreshSnapshot(ctx context.Context) error {
	snapshot, err := s.ComputeSnapshot(ctx, time.Now())
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.latest = snapshot
	s.mu.Unlock()

	s.logger.Info("refreshed operations snapshot",
		zap.Int64("bookings", snapshot.Totals.Bookings),
		zap.Int64("realized_revenue_cents", snapshot.Totals.RealizedRevenueCents),
	)
	return nil
}

// GetDashboard returns the cached snapshot, computing one on first use.
func (s *ReportService) GetDashboard(ctx context.Context) (*report.Snapshot, error) {
	s.mu.RLock()
	latest := s.latest
	s.mu.RUnlock()

	if latest != nil {
		return latest, nil
	}

	if err := s.RefreshSnapshot(ctx); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest, nil
}

func (s *ReportService) loadInput(ctx context.Context) (report.Input, error) {
	bookings, err := s.bookings.LoadAll(ctx)
	if err != nil {
		return report.Input{}, fmt.Errorf("failed to load bookings: %w", err)
	}

	customers, err := s.dir.LoadCustomers(ctx)
	if err != nil {
		return report.Input{}, fmt.Errorf("failed to load customers: %w", err)
	}

	drivers, err := s.dir.LoadDrivers(ctx)
	if err != nil {
		return report.Input{}, fmt.Errorf("failed to load drivers: %w", err)
	}

	agencies, err := s.dir.LoadAgencies(ctx)
	if err != nil {
		return report.Input{}, fmt.Errorf("failed to load agencies: %w", err)
	}

	reviews, err := s.reviews.LoadRows(ctx)
	if err != nil {
		return report.Input{}, fmt.Errorf("failed to load reviews: %w", err)
	}

	queued, err := s.dir.CountQueuedMessages(ctx)
	if err != nil {
		return report.Input{}, fmt.Errorf("failed to count queued messages: %w", err)
	}

	return report.Input{
		Bookings:       toBookingRows(bookings),
		Customers:      customers,
		Drivers:        drivers,
		Agencies:       agencies,
		Reviews:        reviews,
		QueuedMessages: queued,
	}, nil
}

func toBookingRows(bookings []*bookingDomain.Booking) []report.BookingRow {
	rows := make([]report.BookingRow, len(bookings))
	for i, bk := range bookings {
		start := ""
		if !bk.Schedule().Start.IsZero() {
			start = bk.Schedule().Start.Format(bookingDomain.ScheduleDateLayout)
		}
		rows[i] = report.BookingRow{
			Reference:         bk.Reference(),
			Channel:           string(bk.Channel()),
			FulfillmentStatus: string(bk.FulfillmentStatus()),
			PaymentStatus:     string(bk.PaymentStatus()),
			GroupKey:          bk.Product().GroupKey,
			TotalCents:        bk.Price().TotalCents,
			ScheduleStart:     start,
			CreatedAt:         bk.CreatedAt(),
			EmergencyOverride: bk.EmergencyOverride(),
		}
	}
	return rows
}
