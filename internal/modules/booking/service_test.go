package booking

import (
	"context"
	"testing"
	"time"

	"bookable/internal/domain"
	"bookable/internal/pkg/clock"
	"bookable/internal/repository"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockListings struct{ mock.Mock }

func (m *mockListings) GetByID(ctx context.Context, id int64) (*domain.Listing, error) {
	args := m.Called(ctx, id)
	if l, ok := args.Get(0).(*domain.Listing); ok {
		return l, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockBookings struct{ mock.Mock }

func (m *mockBookings) Create(ctx context.Context, b *domain.Booking) error {
	return m.Called(ctx, b).Error(0)
}

func (m *mockBookings) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if b, ok := args.Get(0).(*domain.Booking); ok {
		return b, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockBookings) ListActive(ctx context.Context, listingID int64, from, to time.Time) ([]domain.Booking, error) {
	args := m.Called(ctx, listingID, from, to)
	if bs, ok := args.Get(0).([]domain.Booking); ok {
		return bs, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockBookings) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error {
	return m.Called(ctx, id, status).Error(0)
}

func (m *mockBookings) CancelWithReason(ctx context.Context, id int64, reason string, at time.Time) error {
	return m.Called(ctx, id, reason, at).Error(0)
}

func (m *mockBookings) ListByCustomer(ctx context.Context, customerID int64, limit, offset int) ([]repository.CustomerBookingDetails, error) {
	args := m.Called(ctx, customerID, limit, offset)
	if ds, ok := args.Get(0).([]repository.CustomerBookingDetails); ok {
		return ds, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockBookings) ListByProvider(ctx context.Context, providerID int64) ([]domain.Booking, error) {
	args := m.Called(ctx, providerID)
	if bs, ok := args.Get(0).([]domain.Booking); ok {
		return bs, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockBookings) ListElapsedConfirmed(ctx context.Context, before time.Time) ([]domain.Booking, error) {
	args := m.Called(ctx, before)
	if bs, ok := args.Get(0).([]domain.Booking); ok {
		return bs, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockPeriods struct{ mock.Mock }

func (m *mockPeriods) ListByListing(ctx context.Context, listingID int64) ([]domain.AvailabilityPeriod, error) {
	args := m.Called(ctx, listingID)
	if ps, ok := args.Get(0).([]domain.AvailabilityPeriod); ok {
		return ps, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockNotifier struct{ mock.Mock }

func (m *mockNotifier) NotifyBookingCreated(ctx context.Context, b *domain.Booking) error {
	return m.Called(ctx, b).Error(0)
}

func (m *mockNotifier) NotifyStatusChanged(ctx context.Context, b *domain.Booking, oldStatus, newStatus domain.BookingStatus) error {
	return m.Called(ctx, b, oldStatus, newStatus).Error(0)
}

var testNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

type serviceFixture struct {
	listings *mockListings
	bookings *mockBookings
	periods  *mockPeriods
	notifs   *mockNotifier
	svc      *Service
}

func newFixture() *serviceFixture {
	f := &serviceFixture{
		listings: new(mockListings),
		bookings: new(mockBookings),
		periods:  new(mockPeriods),
		notifs:   new(mockNotifier),
	}
	f.svc = NewService(f.listings, f.bookings, f.periods, f.notifs, clock.Fixed{T: testNow})
	f.notifs.On("NotifyBookingCreated", mock.Anything, mock.Anything).Return(nil).Maybe()
	f.notifs.On("NotifyStatusChanged", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	return f
}

func barberListing() *domain.Listing {
	return &domain.Listing{
		ID:              1,
		ProviderID:      10,
		Kind:            domain.ListingService,
		SlotDurationMin: 30,
		SlotPrice:       25,
		ServiceOptions: []domain.ServiceOption{
			{ID: 1, ListingID: 1, Name: "Extended", DurationMin: 60, Price: 45},
		},
		OperatingHours: domain.OperatingHours{
			"monday": {Open: "09:00", Close: "12:00"},
		},
		Currency:       "USD",
		Timezone:       "UTC",
		BookingEnabled: true,
	}
}

func cabinListing() *domain.Listing {
	return &domain.Listing{
		ID:             2,
		ProviderID:     10,
		Kind:           domain.ListingRental,
		RatePerUnit:    50,
		RateUnit:       domain.RateDaily,
		Currency:       "USD",
		Timezone:       "UTC",
		BookingEnabled: true,
	}
}

func openJune(listingID int64) []domain.AvailabilityPeriod {
	return []domain.AvailabilityPeriod{{
		ID: 1, ListingID: listingID,
		StartDate: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC),
		Status:    domain.PeriodAvailable,
		CreatedAt: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
	}}
}

func customerRef(id int64) CustomerRef {
	return CustomerRef{UserID: &id}
}

func TestProposeBooking_Pending(t *testing.T) {
	f := newFixture()
	start := time.Date(2024, 6, 3, 10, 0, 0, 0, time.UTC)
	f.listings.On("GetByID", mock.Anything, int64(1)).Return(barberListing(), nil)
	f.periods.On("ListByListing", mock.Anything, int64(1)).Return([]domain.AvailabilityPeriod{}, nil)
	// The index is built from bookings overlapping the candidate interval.
	f.bookings.On("ListActive", mock.Anything, int64(1), start, start.Add(30*time.Minute)).Return([]domain.Booking{}, nil)
	f.bookings.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		args.Get(1).(*domain.Booking).ID = 42
	}).Return(nil)

	b, err := f.svc.ProposeBooking(context.Background(), ProposeBookingRequest{
		ListingID: 1,
		StartTime: start,
		Customer:  customerRef(7),
	})

	require.NoError(t, err)
	assert.Equal(t, int64(42), b.ID)
	assert.Equal(t, domain.BookingPending, b.Status)
	assert.Equal(t, start, b.StartTime)
	assert.Equal(t, start.Add(30*time.Minute), b.EndTime)
	assert.Equal(t, 25.0, b.TotalPrice)
	assert.Equal(t, int64(10), b.ProviderID)
	assert.Empty(t, b.GuestRef)
	f.bookings.AssertExpectations(t)
}

func TestProposeBooking_AutoConfirm(t *testing.T) {
	f := newFixture()
	listing := barberListing()
	listing.AutoConfirm = true
	f.listings.On("GetByID", mock.Anything, int64(1)).Return(listing, nil)
	f.periods.On("ListByListing", mock.Anything, int64(1)).Return([]domain.AvailabilityPeriod{}, nil)
	f.bookings.On("ListActive", mock.Anything, int64(1), mock.Anything, mock.Anything).Return([]domain.Booking{}, nil)
	f.bookings.On("Create", mock.Anything, mock.Anything).Return(nil)

	b, err := f.svc.ProposeBooking(context.Background(), ProposeBookingRequest{
		ListingID: 1,
		StartTime: time.Date(2024, 6, 3, 10, 0, 0, 0, time.UTC),
		Customer:  customerRef(7),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.BookingConfirmed, b.Status)
}

func TestProposeBooking_GuestGetsReference(t *testing.T) {
	f := newFixture()
	f.listings.On("GetByID", mock.Anything, int64(1)).Return(barberListing(), nil)
	f.periods.On("ListByListing", mock.Anything, int64(1)).Return([]domain.AvailabilityPeriod{}, nil)
	f.bookings.On("ListActive", mock.Anything, int64(1), mock.Anything, mock.Anything).Return([]domain.Booking{}, nil)
	f.bookings.On("Create", mock.Anything, mock.Anything).Return(nil)

	b, err := f.svc.ProposeBooking(context.Background(), ProposeBookingRequest{
		ListingID: 1,
		StartTime: time.Date(2024, 6, 3, 10, 0, 0, 0, time.UTC),
		Customer:  CustomerRef{GuestName: "Walk-in"},
	})
	require.NoError(t, err)
	assert.Nil(t, b.CustomerID)
	assert.NotEmpty(t, b.GuestRef)
	assert.Equal(t, "Walk-in", b.GuestName)
}

func TestProposeBooking_OptionDuration(t *testing.T) {
	f := newFixture()
	f.listings.On("GetByID", mock.Anything, int64(1)).Return(barberListing(), nil)
	f.periods.On("ListByListing", mock.Anything, int64(1)).Return([]domain.AvailabilityPeriod{}, nil)
	f.bookings.On("ListActive", mock.Anything, int64(1), mock.Anything, mock.Anything).Return([]domain.Booking{}, nil)
	f.bookings.On("Create", mock.Anything, mock.Anything).Return(nil)

	start := time.Date(2024, 6, 3, 10, 0, 0, 0, time.UTC)
	b, err := f.svc.ProposeBooking(context.Background(), ProposeBookingRequest{
		ListingID:     1,
		StartTime:     start,
		ServiceOption: "Extended",
		Customer:      customerRef(7),
	})
	require.NoError(t, err)
	assert.Equal(t, start.Add(time.Hour), b.EndTime)
	assert.Equal(t, 45.0, b.TotalPrice)
	assert.Equal(t, "Extended", b.ServiceOption)
}

func TestProposeBooking_UnknownOption(t *testing.T) {
	f := newFixture()
	f.listings.On("GetByID", mock.Anything, int64(1)).Return(barberListing(), nil)

	_, err := f.svc.ProposeBooking(context.Background(), ProposeBookingRequest{
		ListingID:     1,
		StartTime:     time.Date(2024, 6, 3, 10, 0, 0, 0, time.UTC),
		ServiceOption: "Deluxe",
		Customer:      customerRef(7),
	})
	assert.ErrorIs(t, err, ErrValidation)
	f.bookings.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestProposeBooking_PastStart(t *testing.T) {
	f := newFixture()
	f.listings.On("GetByID", mock.Anything, int64(1)).Return(barberListing(), nil)

	_, err := f.svc.ProposeBooking(context.Background(), ProposeBookingRequest{
		ListingID: 1,
		StartTime: testNow.Add(-time.Hour),
		Customer:  customerRef(7),
	})
	assert.ErrorIs(t, err, ErrInvalidInterval)
}

func TestProposeBooking_Conflict(t *testing.T) {
	f := newFixture()
	start := time.Date(2024, 6, 3, 10, 0, 0, 0, time.UTC)
	f.listings.On("GetByID", mock.Anything, int64(1)).Return(barberListing(), nil)
	f.periods.On("ListByListing", mock.Anything, int64(1)).Return([]domain.AvailabilityPeriod{}, nil)
	f.bookings.On("ListActive", mock.Anything, int64(1), mock.Anything, mock.Anything).Return([]domain.Booking{
		{ID: 5, ListingID: 1, StartTime: start, EndTime: start.Add(30 * time.Minute), Status: domain.BookingConfirmed},
	}, nil)

	_, err := f.svc.ProposeBooking(context.Background(), ProposeBookingRequest{
		ListingID: 1,
		StartTime: start.Add(15 * time.Minute),
		Customer:  customerRef(7),
	})
	assert.ErrorIs(t, err, ErrConflict)
	f.bookings.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestProposeBooking_RentalKindRejected(t *testing.T) {
	f := newFixture()
	f.listings.On("GetByID", mock.Anything, int64(2)).Return(cabinListing(), nil)

	_, err := f.svc.ProposeBooking(context.Background(), ProposeBookingRequest{
		ListingID: 2,
		StartTime: time.Date(2024, 6, 3, 10, 0, 0, 0, time.UTC),
		Customer:  customerRef(7),
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestProposeBooking_BookingDisabled(t *testing.T) {
	f := newFixture()
	listing := barberListing()
	listing.BookingEnabled = false
	f.listings.On("GetByID", mock.Anything, int64(1)).Return(listing, nil)

	_, err := f.svc.ProposeBooking(context.Background(), ProposeBookingRequest{
		ListingID: 1,
		StartTime: time.Date(2024, 6, 3, 10, 0, 0, 0, time.UTC),
		Customer:  customerRef(7),
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

// A concurrent writer winning the exclusion constraint between the in-process
// check and the insert surfaces as a plain conflict.
func TestProposeBooking_ConstraintRace(t *testing.T) {
	f := newFixture()
	f.listings.On("GetByID", mock.Anything, int64(1)).Return(barberListing(), nil)
	f.periods.On("ListByListing", mock.Anything, int64(1)).Return([]domain.AvailabilityPeriod{}, nil)
	f.bookings.On("ListActive", mock.Anything, int64(1), mock.Anything, mock.Anything).Return([]domain.Booking{}, nil)
	f.bookings.On("Create", mock.Anything, mock.Anything).Return(&pgconn.PgError{
		Code:           "23P01",
		ConstraintName: "idx_no_overbooking",
	})

	_, err := f.svc.ProposeBooking(context.Background(), ProposeBookingRequest{
		ListingID: 1,
		StartTime: time.Date(2024, 6, 3, 10, 0, 0, 0, time.UTC),
		Customer:  customerRef(7),
	})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestProposeRangeBooking_PricesWholeRange(t *testing.T) {
	f := newFixture()
	f.listings.On("GetByID", mock.Anything, int64(2)).Return(cabinListing(), nil)
	f.periods.On("ListByListing", mock.Anything, int64(2)).Return(openJune(2), nil)
	f.bookings.On("ListActive", mock.Anything, int64(2), mock.Anything, mock.Anything).Return([]domain.Booking{}, nil)
	f.bookings.On("Create", mock.Anything, mock.Anything).Return(nil)

	b, err := f.svc.ProposeRangeBooking(context.Background(), ProposeRangeBookingRequest{
		ListingID: 2,
		StartDate: "2024-06-10",
		EndDate:   "2024-06-12",
		Customer:  customerRef(7),
	})
	require.NoError(t, err)
	// Three days at 50/day.
	assert.Equal(t, 150.0, b.TotalPrice)
	assert.Equal(t, time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC), b.StartTime)
	// Inclusive end date June 12 is stored as a half-open end of June 13.
	assert.Equal(t, time.Date(2024, 6, 13, 0, 0, 0, 0, time.UTC), b.EndTime)
}

func TestProposeRangeBooking_ConflictReportsDay(t *testing.T) {
	f := newFixture()
	f.listings.On("GetByID", mock.Anything, int64(2)).Return(cabinListing(), nil)
	f.periods.On("ListByListing", mock.Anything, int64(2)).Return(openJune(2), nil)
	f.bookings.On("ListActive", mock.Anything, int64(2), mock.Anything, mock.Anything).Return([]domain.Booking{
		{
			ID: 3, ListingID: 2,
			StartTime: time.Date(2024, 6, 11, 0, 0, 0, 0, time.UTC),
			EndTime:   time.Date(2024, 6, 12, 0, 0, 0, 0, time.UTC),
			Status:    domain.BookingConfirmed,
		},
	}, nil)

	_, err := f.svc.ProposeRangeBooking(context.Background(), ProposeRangeBookingRequest{
		ListingID: 2,
		StartDate: "2024-06-10",
		EndDate:   "2024-06-12",
		Customer:  customerRef(7),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConflict)

	var rc *RangeConflictError
	require.ErrorAs(t, err, &rc)
	assert.Equal(t, time.Date(2024, 6, 11, 0, 0, 0, 0, time.UTC), rc.Day)
	f.bookings.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestProposeRangeBooking_PastStart(t *testing.T) {
	f := newFixture()
	f.listings.On("GetByID", mock.Anything, int64(2)).Return(cabinListing(), nil)

	_, err := f.svc.ProposeRangeBooking(context.Background(), ProposeRangeBookingRequest{
		ListingID: 2,
		StartDate: "2024-05-30",
		EndDate:   "2024-06-02",
		Customer:  customerRef(7),
	})
	assert.ErrorIs(t, err, ErrInvalidInterval)
}

func TestProposeRangeBooking_BadDates(t *testing.T) {
	f := newFixture()
	f.listings.On("GetByID", mock.Anything, int64(2)).Return(cabinListing(), nil)

	_, err := f.svc.ProposeRangeBooking(context.Background(), ProposeRangeBookingRequest{
		ListingID: 2,
		StartDate: "June 10",
		EndDate:   "2024-06-12",
		Customer:  customerRef(7),
	})
	assert.ErrorIs(t, err, ErrInvalidInterval)

	_, err = f.svc.ProposeRangeBooking(context.Background(), ProposeRangeBookingRequest{
		ListingID: 2,
		StartDate: "2024-06-12",
		EndDate:   "2024-06-10",
		Customer:  customerRef(7),
	})
	assert.ErrorIs(t, err, ErrInvalidInterval)
}

func TestProposeRecurringBooking_AllCommitted(t *testing.T) {
	f := newFixture()
	f.listings.On("GetByID", mock.Anything, int64(1)).Return(barberListing(), nil)
	f.periods.On("ListByListing", mock.Anything, int64(1)).Return([]domain.AvailabilityPeriod{}, nil)
	f.bookings.On("ListActive", mock.Anything, int64(1), mock.Anything, mock.Anything).Return([]domain.Booking{}, nil)
	f.bookings.On("Create", mock.Anything, mock.Anything).Return(nil)

	start := time.Date(2024, 6, 3, 10, 0, 0, 0, time.UTC)
	res, err := f.svc.ProposeRecurringBooking(context.Background(), ProposeBookingRequest{
		ListingID: 1,
		StartTime: start,
		Customer:  customerRef(7),
		Recurrence: &RecurrenceRequest{
			Frequency:      "weekly",
			MaxOccurrences: 3,
		},
	})
	require.NoError(t, err)
	require.Len(t, res.Created, 3)
	assert.Nil(t, res.FailedAt)
	assert.NotEmpty(t, res.GroupID)
	for i, b := range res.Created {
		assert.Equal(t, start.AddDate(0, 0, 7*i), b.StartTime)
		assert.Equal(t, res.GroupID, b.RecurrenceGroupID)
	}
}

func TestProposeRecurringBooking_PartialSuccess(t *testing.T) {
	f := newFixture()
	start := time.Date(2024, 6, 3, 10, 0, 0, 0, time.UTC)
	blockedStart := start.AddDate(0, 0, 14)

	f.listings.On("GetByID", mock.Anything, int64(1)).Return(barberListing(), nil)
	f.periods.On("ListByListing", mock.Anything, int64(1)).Return([]domain.AvailabilityPeriod{}, nil)
	// The third week is already taken by someone else.
	f.bookings.On("ListActive", mock.Anything, int64(1), mock.Anything, mock.Anything).Return([]domain.Booking{
		{ID: 99, ListingID: 1, StartTime: blockedStart, EndTime: blockedStart.Add(30 * time.Minute), Status: domain.BookingConfirmed},
	}, nil)
	f.bookings.On("Create", mock.Anything, mock.Anything).Return(nil).Twice()

	res, err := f.svc.ProposeRecurringBooking(context.Background(), ProposeBookingRequest{
		ListingID: 1,
		StartTime: start,
		Customer:  customerRef(7),
		Recurrence: &RecurrenceRequest{
			Frequency:      "weekly",
			MaxOccurrences: 4,
		},
	})
	require.NoError(t, err)
	assert.Len(t, res.Created, 2)
	require.NotNil(t, res.FailedAt)
	assert.Equal(t, blockedStart, *res.FailedAt)
	f.bookings.AssertExpectations(t)
}

func TestProposeRecurringBooking_UnboundedRejected(t *testing.T) {
	f := newFixture()
	f.listings.On("GetByID", mock.Anything, int64(1)).Return(barberListing(), nil)

	_, err := f.svc.ProposeRecurringBooking(context.Background(), ProposeBookingRequest{
		ListingID:  1,
		StartTime:  time.Date(2024, 6, 3, 10, 0, 0, 0, time.UTC),
		Customer:   customerRef(7),
		Recurrence: &RecurrenceRequest{Frequency: "weekly"},
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func pendingBooking() *domain.Booking {
	custID := int64(7)
	return &domain.Booking{
		ID:         42,
		ListingID:  1,
		ProviderID: 10,
		CustomerID: &custID,
		StartTime:  time.Date(2024, 6, 3, 10, 0, 0, 0, time.UTC),
		EndTime:    time.Date(2024, 6, 3, 10, 30, 0, 0, time.UTC),
		Status:     domain.BookingPending,
	}
}

func TestCancelBooking_ByCustomer(t *testing.T) {
	f := newFixture()
	b := pendingBooking()
	cancelled := *b
	cancelled.Status = domain.BookingCancelled

	f.bookings.On("GetByID", mock.Anything, int64(42)).Return(b, nil).Once()
	f.bookings.On("CancelWithReason", mock.Anything, int64(42), "plans changed", testNow.UTC()).Return(nil)
	f.bookings.On("GetByID", mock.Anything, int64(42)).Return(&cancelled, nil).Once()

	got, err := f.svc.CancelBooking(context.Background(), 42, Actor{UserID: 7, Role: domain.RoleCustomer}, "plans changed")
	require.NoError(t, err)
	assert.Equal(t, domain.BookingCancelled, got.Status)
	f.bookings.AssertExpectations(t)
}

func TestCancelBooking_StrangerForbidden(t *testing.T) {
	f := newFixture()
	f.bookings.On("GetByID", mock.Anything, int64(42)).Return(pendingBooking(), nil)

	_, err := f.svc.CancelBooking(context.Background(), 42, Actor{UserID: 8, Role: domain.RoleCustomer}, "")
	assert.ErrorIs(t, err, ErrForbidden)
	f.bookings.AssertNotCalled(t, "CancelWithReason", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestConfirmBooking_ProviderOnly(t *testing.T) {
	f := newFixture()
	b := pendingBooking()
	confirmed := *b
	confirmed.Status = domain.BookingConfirmed

	f.bookings.On("GetByID", mock.Anything, int64(42)).Return(b, nil).Once()
	f.bookings.On("UpdateStatus", mock.Anything, int64(42), domain.BookingConfirmed).Return(nil)
	f.bookings.On("GetByID", mock.Anything, int64(42)).Return(&confirmed, nil).Once()

	got, err := f.svc.ConfirmBooking(context.Background(), 42, Actor{UserID: 10, Role: domain.RoleProvider})
	require.NoError(t, err)
	assert.Equal(t, domain.BookingConfirmed, got.Status)
}

func TestConfirmBooking_CustomerForbidden(t *testing.T) {
	f := newFixture()
	f.bookings.On("GetByID", mock.Anything, int64(42)).Return(pendingBooking(), nil)

	_, err := f.svc.ConfirmBooking(context.Background(), 42, Actor{UserID: 7, Role: domain.RoleCustomer})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestCompleteBooking_BeforeEndRejected(t *testing.T) {
	f := newFixture()
	b := pendingBooking()
	b.Status = domain.BookingConfirmed
	b.StartTime = testNow.Add(time.Hour)
	b.EndTime = testNow.Add(2 * time.Hour)
	f.bookings.On("GetByID", mock.Anything, int64(42)).Return(b, nil)

	_, err := f.svc.CompleteBooking(context.Background(), 42, Actor{UserID: 10, Role: domain.RoleProvider})
	assert.ErrorIs(t, err, ErrInvalidTransition)
	f.bookings.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestCompleteBooking_AfterEnd(t *testing.T) {
	f := newFixture()
	b := pendingBooking()
	b.Status = domain.BookingConfirmed
	b.StartTime = testNow.Add(-2 * time.Hour)
	b.EndTime = testNow.Add(-time.Hour)
	done := *b
	done.Status = domain.BookingCompleted

	f.bookings.On("GetByID", mock.Anything, int64(42)).Return(b, nil).Once()
	f.bookings.On("UpdateStatus", mock.Anything, int64(42), domain.BookingCompleted).Return(nil)
	f.bookings.On("GetByID", mock.Anything, int64(42)).Return(&done, nil).Once()

	got, err := f.svc.CompleteBooking(context.Background(), 42, Actor{UserID: 10, Role: domain.RoleProvider})
	require.NoError(t, err)
	assert.Equal(t, domain.BookingCompleted, got.Status)
}

func TestMarkNoShow_FromPendingRejected(t *testing.T) {
	f := newFixture()
	f.bookings.On("GetByID", mock.Anything, int64(42)).Return(pendingBooking(), nil)

	_, err := f.svc.MarkNoShow(context.Background(), 42, Actor{UserID: 10, Role: domain.RoleProvider})
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestCancelBooking_TerminalRejected(t *testing.T) {
	f := newFixture()
	b := pendingBooking()
	b.Status = domain.BookingCompleted
	f.bookings.On("GetByID", mock.Anything, int64(42)).Return(b, nil)

	_, err := f.svc.CancelBooking(context.Background(), 42, Actor{UserID: 7, Role: domain.RoleCustomer}, "")
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestCompleteElapsed(t *testing.T) {
	f := newFixture()
	one := *pendingBooking()
	one.Status = domain.BookingConfirmed
	two := one
	two.ID = 43

	f.bookings.On("ListElapsedConfirmed", mock.Anything, testNow).Return([]domain.Booking{one, two}, nil)
	f.bookings.On("UpdateStatus", mock.Anything, int64(42), domain.BookingCompleted).Return(nil)
	f.bookings.On("UpdateStatus", mock.Anything, int64(43), domain.BookingCompleted).Return(nil)

	n, err := f.svc.CompleteElapsed(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	f.bookings.AssertExpectations(t)
}

func TestComputeAvailableSlots_RentalRejected(t *testing.T) {
	f := newFixture()
	f.listings.On("GetByID", mock.Anything, int64(2)).Return(cabinListing(), nil)

	_, err := f.svc.ComputeAvailableSlots(context.Background(), 2, "2024-06-03", "")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestComputeAvailableSlots_HappyPath(t *testing.T) {
	f := newFixture()
	day := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	f.listings.On("GetByID", mock.Anything, int64(1)).Return(barberListing(), nil)
	f.periods.On("ListByListing", mock.Anything, int64(1)).Return([]domain.AvailabilityPeriod{}, nil)
	// Bookings are loaded for the queried day only.
	f.bookings.On("ListActive", mock.Anything, int64(1), day, day.AddDate(0, 0, 1)).Return([]domain.Booking{}, nil)

	slots, err := f.svc.ComputeAvailableSlots(context.Background(), 1, "2024-06-03", "")
	require.NoError(t, err)
	assert.Len(t, slots, 6)
	f.bookings.AssertExpectations(t)
}

func TestComputeAvailableSlots_BadDate(t *testing.T) {
	f := newFixture()
	f.listings.On("GetByID", mock.Anything, int64(1)).Return(barberListing(), nil)

	_, err := f.svc.ComputeAvailableSlots(context.Background(), 1, "06/03/2024", "")
	assert.ErrorIs(t, err, ErrInvalidInterval)
}

// The queried date is a calendar day in the listing's timezone, not the
// caller's: Monday in New York is still Monday even though its midnight is
// Sunday evening UTC.
func TestComputeAvailableSlots_ListingTimezone(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skip("tzdata unavailable")
	}

	f := newFixture()
	listing := barberListing()
	listing.Timezone = "America/New_York"
	f.listings.On("GetByID", mock.Anything, int64(1)).Return(listing, nil)
	f.periods.On("ListByListing", mock.Anything, int64(1)).Return([]domain.AvailabilityPeriod{}, nil)
	f.bookings.On("ListActive", mock.Anything, int64(1), mock.Anything, mock.Anything).Return([]domain.Booking{}, nil)

	slots, err := f.svc.ComputeAvailableSlots(context.Background(), 1, "2024-06-03", "")
	require.NoError(t, err)
	require.Len(t, slots, 6)
	assert.Equal(t, "09:00", slots[0].Start.In(loc).Format("15:04"))
	assert.Equal(t, "2024-06-03", slots[0].Start.In(loc).Format("2006-01-02"))
}
