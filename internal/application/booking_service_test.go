package application_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/recharge-travels/service-booking/internal/application"
	"github.com/recharge-travels/service-booking/internal/domain"
	"github.com/recharge-travels/service-booking/internal/domain/booking"
	"github.com/recharge-travels/service-booking/internal/domain/catalog"
)

// fakeBookingRepo is an in-memory booking.Repository.
type fakeBookingRepo struct {
	byID    map[uuid.UUID]*booking.Booking
	saves   int
	updates int
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{byID: make(map[uuid.UUID]*booking.Booking)}
}

func (r *fakeBookingRepo) FindByID(_ context.Context, id uuid.UUID) (*booking.Booking, error) {
	bk, ok := r.byID[id]
	if !ok {
		return nil, domain.NewNotFoundError("booking", id.String())
	}
	return bk, nil
}

func (r *fakeBookingRepo) FindByReference(_ context.Context, reference string) (*booking.Booking, error) {
	for _, bk := range r.byID {
		if bk.Reference() == reference {
			return bk, nil
		}
	}
	return nil, domain.NewNotFoundError("booking", reference)
}

func (r *fakeBookingRepo) FindByAgencyID(_ context.Context, agencyID uuid.UUID, _, _ int) ([]*booking.Booking, int64, error) {
	var out []*booking.Booking
	for _, bk := range r.byID {
		if bk.AgencyID() != nil && *bk.AgencyID() == agencyID {
			out = append(out, bk)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeBookingRepo) ListAll(_ context.Context, _, _ int) ([]*booking.Booking, int64, error) {
	all, _ := r.LoadAll(context.Background())
	return all, int64(len(all)), nil
}

func (r *fakeBookingRepo) LoadAll(_ context.Context) ([]*booking.Booking, error) {
	out := make([]*booking.Booking, 0, len(r.byID))
	for _, bk := range r.byID {
		out = append(out, bk)
	}
	return out, nil
}

func (r *fakeBookingRepo) Save(_ context.Context, bk *booking.Booking) error {
	r.byID[bk.ID()] = bk
	r.saves++
	return nil
}

func (r *fakeBookingRepo) Update(_ context.Context, bk *booking.Booking) error {
	if _, ok := r.byID[bk.ID()]; !ok {
		return domain.NewNotFoundError("booking", bk.ID().String())
	}
	r.byID[bk.ID()] = bk
	r.updates++
	return nil
}

// fakeProductRepo is an in-memory catalog.Repository.
type fakeProductRepo struct {
	byID map[uuid.UUID]*catalog.Product
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{byID: make(map[uuid.UUID]*catalog.Product)}
}

func (r *fakeProductRepo) FindByID(_ context.Context, id uuid.UUID) (*catalog.Product, error) {
	p, ok := r.byID[id]
	if !ok {
		return nil, domain.NewNotFoundError("product", id.String())
	}
	return p, nil
}

func (r *fakeProductRepo) ListActive(_ context.Context, _, _ int) ([]*catalog.Product, int64, error) {
	var out []*catalog.Product
	for _, p := range r.byID {
		if p.IsActive() {
			out = append(out, p)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeProductRepo) Save(_ context.Context, p *catalog.Product) error {
	r.byID[p.ID()] = p
	return nil
}

func (r *fakeProductRepo) Update(_ context.Context, p *catalog.Product) error {
	r.byID[p.ID()] = p
	return nil
}

// fakeOutbox records enqueued notifications.
type fakeOutbox struct {
	messages []string
}

func (o *fakeOutbox) EnqueueMessage(_ context.Context, recipient, channel, body string) error {
	o.messages = append(o.messages, recipient+"|"+channel)
	return nil
}

type serviceFixture struct {
	service  *application.BookingService
	bookings *fakeBookingRepo
	products *fakeProductRepo
	outbox   *fakeOutbox
	product  *catalog.Product
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()

	bookings := newFakeBookingRepo()
	products := newFakeProductRepo()
	outbox := &fakeOutbox{}

	product, err := catalog.NewProduct(
		"Sigiriya Rock Fortress Tour", catalog.KindTour, "Sigiriya", 5000, 10,
		"Sunrise climb with licensed guide",
	)
	require.NoError(t, err)
	require.NoError(t, products.Save(context.Background(), product))

	pricing := booking.NewStandardPricingStrategy(0.12, 1500, 0.15)
	admission := booking.NewAdmissionValidator(48, time.Now)

	// Nil producer: event publishing is skipped in unit tests.
	service := application.NewBookingService(
		bookings, products, pricing, admission,
		outbox, nil, time.UTC, zap.NewNop(),
	)

	return &serviceFixture{
		service: service, bookings: bookings, products: products,
		outbox: outbox, product: product,
	}
}

func (f *serviceFixture) createRequest() application.CreateBookingRequest {
	return application.CreateBookingRequest{
		ProductID:     f.product.ID(),
		Party:         booking.Party{Adults: 2},
		ScheduleStart: time.Now().AddDate(0, 0, 7).Format(booking.ScheduleDateLayout),
		Channel:       "direct",
		CustomerName:  "Amara Silva",
		CustomerPhone: "+94771234001",
	}
}

func TestCreateBooking_PricesAndPersists(t *testing.T) {
	f := newServiceFixture(t)

	dto, err := f.service.CreateBooking(context.Background(), f.createRequest(), "customer-1")
	require.NoError(t, err)

	// Base = rate 5000 * 2 heads * 1 day; direct channel adds 12% tax
	// and the flat fee.
	assert.Equal(t, int64(10000), dto.Price.BaseCents)
	assert.Equal(t, int64(1200), dto.Price.TaxCents)
	assert.Equal(t, int64(1500), dto.Price.FeeCents)
	assert.Equal(t, int64(12700), dto.Price.TotalCents)

	assert.Equal(t, "pending", dto.FulfillmentStatus)
	assert.Equal(t, "unpaid", dto.PaymentStatus)
	assert.Equal(t, 1, f.bookings.saves)

	// A confirmation lands in the notification outbox.
	require.Len(t, f.outbox.messages, 1)
	assert.Equal(t, "+94771234001|whatsapp", f.outbox.messages[0])
}

func TestCreateBooking_MultiNightStayScalesBase(t *testing.T) {
	f := newServiceFixture(t)

	req := f.createRequest()
	req.Nights = 3
	dto, err := f.service.CreateBooking(context.Background(), req, "customer-1")
	require.NoError(t, err)

	// 5000 * 2 heads * 3 nights
	assert.Equal(t, int64(30000), dto.Price.BaseCents)
}

func TestCreateBooking_RejectsShortNoticeWithoutOverride(t *testing.T) {
	f := newServiceFixture(t)

	req := f.createRequest()
	req.ScheduleStart = time.Now().AddDate(0, 0, 1).Format(booking.ScheduleDateLayout)

	_, err := f.service.CreateBooking(context.Background(), req, "customer-1")
	require.Error(t, err)
	assert.Equal(t, domain.CodeAdmissionWindow, domain.CodeOf(err))
	assert.Zero(t, f.bookings.saves, "rejected booking must not persist")
	assert.Empty(t, f.outbox.messages)

	req.EmergencyOverride = true
	dto, err := f.service.CreateBooking(context.Background(), req, "customer-1")
	require.NoError(t, err)
	assert.True(t, dto.EmergencyOverride)
}

func TestCreateBooking_RejectsArchivedProduct(t *testing.T) {
	f := newServiceFixture(t)

	f.product.Archive()
	require.NoError(t, f.products.Update(context.Background(), f.product))

	_, err := f.service.CreateBooking(context.Background(), f.createRequest(), "customer-1")
	require.Error(t, err)
	assert.Equal(t, domain.CodeValidation, domain.CodeOf(err))
}

func TestSetFulfillmentStatus_PersistsAndBumpsVersion(t *testing.T) {
	f := newServiceFixture(t)

	dto, err := f.service.CreateBooking(context.Background(), f.createRequest(), "customer-1")
	require.NoError(t, err)

	updated, err := f.service.SetFulfillmentStatus(context.Background(), dto.ID, booking.FulfillmentConfirmed, "admin-1")
	require.NoError(t, err)
	assert.Equal(t, "confirmed", updated.FulfillmentStatus)
	assert.Equal(t, int64(2), updated.Version)
	assert.Equal(t, 1, f.bookings.updates)
}

func TestSetFulfillmentStatus_NoOpSkipsPersistence(t *testing.T) {
	f := newServiceFixture(t)

	dto, err := f.service.CreateBooking(context.Background(), f.createRequest(), "customer-1")
	require.NoError(t, err)

	_, err = f.service.SetFulfillmentStatus(context.Background(), dto.ID, booking.FulfillmentConfirmed, "admin-1")
	require.NoError(t, err)

	// Re-applying the same status succeeds without another write.
	updated, err := f.service.SetFulfillmentStatus(context.Background(), dto.ID, booking.FulfillmentConfirmed, "admin-1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), updated.Version)
	assert.Equal(t, 1, f.bookings.updates)
}

func TestApplyPaymentEvent_AdvancesPaymentAxis(t *testing.T) {
	f := newServiceFixture(t)

	dto, err := f.service.CreateBooking(context.Background(), f.createRequest(), "customer-1")
	require.NoError(t, err)

	require.NoError(t, f.service.ApplyPaymentEvent(context.Background(), dto.ID, booking.PaymentPaid, "service-payment"))

	got, err := f.service.GetBooking(context.Background(), dto.ID)
	require.NoError(t, err)
	assert.Equal(t, "paid", got.PaymentStatus)

	// Duplicate delivery is absorbed.
	require.NoError(t, f.service.ApplyPaymentEvent(context.Background(), dto.ID, booking.PaymentPaid, "service-payment"))
	got, err = f.service.GetBooking(context.Background(), dto.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.Version)
}

func TestGetAgencyBookings_ScopedToAgency(t *testing.T) {
	f := newServiceFixture(t)

	agencyID := uuid.New()
	req := f.createRequest()
	req.Channel = "partner"
	req.AgencyID = &agencyID
	_, err := f.service.CreateBooking(context.Background(), req, "agency-1")
	require.NoError(t, err)

	_, err = f.service.CreateBooking(context.Background(), f.createRequest(), "customer-1")
	require.NoError(t, err)

	result, err := f.service.GetAgencyBookings(context.Background(), agencyID, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.Total)
	require.Len(t, result.Items, 1)
	assert.Equal(t, "partner", result.Items[0].Channel)
}
