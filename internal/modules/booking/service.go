package booking

import (
	"context"
	"errors"
	"time"

	"bookable/internal/domain"
	"bookable/internal/pkg/clock"
	"bookable/internal/repository"
	"bookable/internal/schedule"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Service is the scheduling orchestrator. It is stateless: every decision is
// a function of the listing, its availability periods, its non-cancelled
// bookings and the injected clock. The storage layer's exclusion constraint
// is the actual no-double-booking guarantee; the in-process check is the
// fast path that produces friendly rejections.
type Service struct {
	listings ListingReader
	bookings BookingRepository
	periods  AvailabilityPeriodReader
	notifs   NotificationSender
	clock    clock.Clock
}

func NewService(
	listings ListingReader,
	bookings BookingRepository,
	periods AvailabilityPeriodReader,
	notifs NotificationSender,
	clk clock.Clock,
) *Service {
	return &Service{
		listings: listings,
		bookings: bookings,
		periods:  periods,
		notifs:   notifs,
		clock:    clk,
	}
}

func (s *Service) getBookableListing(ctx context.Context, id int64) (*domain.Listing, error) {
	l, err := s.listings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !l.BookingEnabled {
		return nil, ErrNotFound
	}
	return l, nil
}

// buildIndex snapshots the listing's declared periods and the bookings
// overlapping [from, to). Periods are few per listing and loaded whole; the
// booking set is scoped to the window under decision.
func (s *Service) buildIndex(ctx context.Context, listing *domain.Listing, from, to time.Time) (*schedule.Index, error) {
	periods, err := s.periods.ListByListing(ctx, listing.ID)
	if err != nil {
		return nil, err
	}
	bookings, err := s.bookings.ListActive(ctx, listing.ID, from, to)
	if err != nil {
		return nil, err
	}
	return schedule.NewIndex(listing, periods, bookings), nil
}

// ComputeAvailableSlots returns the ordered slot sequence for one calendar
// day of a duration-based listing. The date ("2006-01-02") is resolved in the
// listing's timezone; parsing it anywhere else would shift the day for
// listings west of UTC.
func (s *Service) ComputeAvailableSlots(ctx context.Context, listingID int64, date string, optionName string) ([]schedule.Slot, error) {
	listing, err := s.getBookableListing(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if !listing.Kind.IsDurationBased() {
		return nil, ErrValidation
	}
	var opt *domain.ServiceOption
	if optionName != "" {
		if opt = listing.Option(optionName); opt == nil {
			return nil, ErrValidation
		}
	}

	loc := listing.Location()
	parsed, err := time.ParseInLocation("2006-01-02", date, loc)
	if err != nil {
		return nil, ErrInvalidInterval
	}
	day := schedule.DateOnly(parsed, loc)

	idx, err := s.buildIndex(ctx, listing, day, day.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}
	return schedule.GenerateSlots(listing, idx, day, opt, s.clock.Now()), nil
}

// ProposeBooking validates and commits one timed booking for a
// duration-based listing.
func (s *Service) ProposeBooking(ctx context.Context, req ProposeBookingRequest) (*domain.Booking, error) {
	listing, err := s.getBookableListing(ctx, req.ListingID)
	if err != nil {
		return nil, err
	}
	if !listing.Kind.IsDurationBased() {
		return nil, ErrValidation
	}

	iv, opt, err := s.resolveInterval(listing, req)
	if err != nil {
		return nil, err
	}
	price := schedule.SlotPrice(listing, opt)
	b, _, err := s.commitOne(ctx, listing, iv, price, opt, req.Customer, "")
	return b, err
}

// ProposeRecurringBooking expands the template by the recurrence pattern and
// commits occurrences one at a time, in chronological order. On the first
// conflicting occurrence it stops and reports partial success; earlier
// occurrences stay committed.
func (s *Service) ProposeRecurringBooking(ctx context.Context, req ProposeBookingRequest) (*RecurringResult, error) {
	if req.Recurrence == nil {
		return nil, ErrValidation
	}
	listing, err := s.getBookableListing(ctx, req.ListingID)
	if err != nil {
		return nil, err
	}
	if !listing.Kind.IsDurationBased() {
		return nil, ErrValidation
	}

	template, opt, err := s.resolveInterval(listing, req)
	if err != nil {
		return nil, err
	}
	candidates, err := schedule.Expand(template, schedule.Pattern{
		Frequency:      schedule.Frequency(req.Recurrence.Frequency),
		Until:          req.Recurrence.Until,
		MaxOccurrences: req.Recurrence.MaxOccurrences,
	})
	if err != nil {
		return nil, ErrValidation
	}

	price := schedule.SlotPrice(listing, opt)
	result := &RecurringResult{GroupID: uuid.NewString()}
	for _, iv := range candidates {
		b, reason, err := s.commitOne(ctx, listing, iv, price, opt, req.Customer, result.GroupID)
		if err != nil {
			if errors.Is(err, ErrConflict) {
				failed := iv.Start
				result.FailedAt = &failed
				result.Reason = reason
				return result, nil
			}
			return nil, err
		}
		result.Created = append(result.Created, *b)
	}
	return result, nil
}

// ProposeRangeBooking validates and commits a whole-day rental range.
func (s *Service) ProposeRangeBooking(ctx context.Context, req ProposeRangeBookingRequest) (*domain.Booking, error) {
	listing, err := s.getBookableListing(ctx, req.ListingID)
	if err != nil {
		return nil, err
	}
	if listing.Kind != domain.ListingRental {
		return nil, ErrValidation
	}

	loc := listing.Location()
	startDate, err := time.ParseInLocation("2006-01-02", req.StartDate, loc)
	if err != nil {
		return nil, ErrInvalidInterval
	}
	endDate, err := time.ParseInLocation("2006-01-02", req.EndDate, loc)
	if err != nil {
		return nil, ErrInvalidInterval
	}

	today := schedule.DateOnly(s.clock.Now(), loc)
	if startDate.Before(today) {
		return nil, ErrInvalidInterval
	}

	r := schedule.DateRange{Start: schedule.DateOnly(startDate, loc), End: schedule.DateOnly(endDate, loc)}
	win := r.Interval()
	idx, err := s.buildIndex(ctx, listing, win.Start, win.End)
	if err != nil {
		return nil, err
	}
	days, conflict, err := schedule.ValidateRange(listing, idx, startDate, endDate)
	if err != nil {
		return nil, ErrInvalidInterval
	}
	if conflict != nil {
		return nil, &RangeConflictError{Day: conflict.Day, Reason: conflict.Reason}
	}

	price := schedule.RentalPrice(listing.RatePerUnit, listing.RateUnit, days)
	b := s.newBooking(listing, r.Interval(), price, nil, req.Customer, "")
	if err := s.bookings.Create(ctx, b); err != nil {
		return nil, translateCreateErr(err)
	}
	s.notifyCreated(ctx, b)
	return b, nil
}

// resolveInterval derives the candidate interval from the request, applying
// the service option's duration when the request carries no explicit end.
func (s *Service) resolveInterval(listing *domain.Listing, req ProposeBookingRequest) (schedule.Interval, *domain.ServiceOption, error) {
	var opt *domain.ServiceOption
	if req.ServiceOption != "" {
		if opt = listing.Option(req.ServiceOption); opt == nil {
			return schedule.Interval{}, nil, ErrValidation
		}
	}

	end := req.EndTime
	if end.IsZero() {
		durationMin := listing.SlotDurationMin
		if opt != nil {
			durationMin = opt.DurationMin
		}
		if durationMin <= 0 {
			return schedule.Interval{}, nil, ErrInvalidInterval
		}
		end = req.StartTime.Add(time.Duration(durationMin) * time.Minute)
	}

	iv := schedule.NewInterval(req.StartTime, end)
	if !iv.IsValid() {
		return schedule.Interval{}, nil, ErrInvalidInterval
	}
	if iv.Start.Before(s.clock.Now()) {
		return schedule.Interval{}, nil, ErrInvalidInterval
	}
	return iv, opt, nil
}

// commitOne runs the check-then-create sequence for a single occurrence. The
// in-process check is advisory; if a concurrent writer wins the storage
// constraint race, the insert error is translated back into ErrConflict.
func (s *Service) commitOne(
	ctx context.Context,
	listing *domain.Listing,
	iv schedule.Interval,
	price float64,
	opt *domain.ServiceOption,
	customer CustomerRef,
	groupID string,
) (*domain.Booking, schedule.Reason, error) {
	idx, err := s.buildIndex(ctx, listing, iv.Start, iv.End)
	if err != nil {
		return nil, schedule.ReasonNone, err
	}
	if reason := idx.Check(iv); reason != schedule.ReasonNone {
		return nil, reason, ErrConflict
	}

	b := s.newBooking(listing, iv, price, opt, customer, groupID)
	if err := s.bookings.Create(ctx, b); err != nil {
		return nil, schedule.ReasonBooked, translateCreateErr(err)
	}
	s.notifyCreated(ctx, b)
	return b, schedule.ReasonNone, nil
}

func (s *Service) newBooking(
	listing *domain.Listing,
	iv schedule.Interval,
	price float64,
	opt *domain.ServiceOption,
	customer CustomerRef,
	groupID string,
) *domain.Booking {
	status := domain.BookingPending
	if listing.AutoConfirm {
		status = domain.BookingConfirmed
	}
	b := &domain.Booking{
		ListingID:         listing.ID,
		ProviderID:        listing.ProviderID,
		CustomerID:        customer.UserID,
		StartTime:         iv.Start,
		EndTime:           iv.End,
		TotalPrice:        price,
		Currency:          listing.Currency,
		RecurrenceGroupID: groupID,
		Status:            status,
	}
	if opt != nil {
		b.ServiceOption = opt.Name
	}
	if customer.UserID == nil {
		b.GuestRef = uuid.NewString()
		b.GuestName = customer.GuestName
	}
	return b
}

// CancelBooking applies the cancel transition for either party. The freed
// interval becomes bookable immediately: cancelled bookings are excluded
// when availability indexes are built.
func (s *Service) CancelBooking(ctx context.Context, bookingID int64, actor Actor, reason string) (*domain.Booking, error) {
	b, err := s.getOwnedBooking(ctx, bookingID, actor)
	if err != nil {
		return nil, err
	}
	if err := s.checkTransition(b.Status, domain.BookingCancelled, actor.Role); err != nil {
		return nil, err
	}
	if err := s.bookings.CancelWithReason(ctx, bookingID, reason, s.clock.Now().UTC()); err != nil {
		return nil, err
	}
	return s.reloadAndNotify(ctx, bookingID, b.Status)
}

// ConfirmBooking is the provider accepting a pending booking.
func (s *Service) ConfirmBooking(ctx context.Context, bookingID int64, actor Actor) (*domain.Booking, error) {
	return s.transitionBooking(ctx, bookingID, actor, domain.BookingConfirmed)
}

// CompleteBooking marks a confirmed booking completed once its end time has
// passed.
func (s *Service) CompleteBooking(ctx context.Context, bookingID int64, actor Actor) (*domain.Booking, error) {
	b, err := s.getOwnedBooking(ctx, bookingID, actor)
	if err != nil {
		return nil, err
	}
	if err := s.checkTransition(b.Status, domain.BookingCompleted, actor.Role); err != nil {
		return nil, err
	}
	if b.EndTime.After(s.clock.Now()) {
		return nil, ErrInvalidTransition
	}
	if err := s.bookings.UpdateStatus(ctx, bookingID, domain.BookingCompleted); err != nil {
		return nil, err
	}
	return s.reloadAndNotify(ctx, bookingID, b.Status)
}

// MarkNoShow records that the customer did not appear.
func (s *Service) MarkNoShow(ctx context.Context, bookingID int64, actor Actor) (*domain.Booking, error) {
	return s.transitionBooking(ctx, bookingID, actor, domain.BookingNoShow)
}

func (s *Service) transitionBooking(ctx context.Context, bookingID int64, actor Actor, to domain.BookingStatus) (*domain.Booking, error) {
	b, err := s.getOwnedBooking(ctx, bookingID, actor)
	if err != nil {
		return nil, err
	}
	if err := s.checkTransition(b.Status, to, actor.Role); err != nil {
		return nil, err
	}
	if err := s.bookings.UpdateStatus(ctx, bookingID, to); err != nil {
		return nil, err
	}
	return s.reloadAndNotify(ctx, bookingID, b.Status)
}

// CompleteElapsed transitions every confirmed booking whose end time has
// passed, for a periodic sweep. Returns how many bookings were completed.
func (s *Service) CompleteElapsed(ctx context.Context) (int, error) {
	elapsed, err := s.bookings.ListElapsedConfirmed(ctx, s.clock.Now())
	if err != nil {
		return 0, err
	}
	n := 0
	for _, b := range elapsed {
		if err := s.bookings.UpdateStatus(ctx, b.ID, domain.BookingCompleted); err != nil {
			return n, err
		}
		if s.notifs != nil {
			_ = s.notifs.NotifyStatusChanged(ctx, &b, domain.BookingConfirmed, domain.BookingCompleted)
		}
		n++
	}
	return n, nil
}

func (s *Service) ListCustomerBookings(ctx context.Context, customerID int64, limit, offset int) ([]repository.CustomerBookingDetails, error) {
	return s.bookings.ListByCustomer(ctx, customerID, limit, offset)
}

func (s *Service) ListProviderBookings(ctx context.Context, providerID int64) ([]domain.Booking, error) {
	return s.bookings.ListByProvider(ctx, providerID)
}

func (s *Service) GetByID(ctx context.Context, bookingID int64) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return b, nil
}

func (s *Service) getOwnedBooking(ctx context.Context, bookingID int64, actor Actor) (*domain.Booking, error) {
	b, err := s.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	switch actor.Role {
	case domain.RoleProvider:
		if b.ProviderID != actor.UserID {
			return nil, ErrForbidden
		}
	case domain.RoleCustomer:
		if b.CustomerID == nil || *b.CustomerID != actor.UserID {
			return nil, ErrForbidden
		}
	default:
		return nil, ErrForbidden
	}
	return b, nil
}

func (s *Service) checkTransition(from, to domain.BookingStatus, role domain.Role) error {
	switch err := schedule.Transition(from, to, role); {
	case errors.Is(err, schedule.ErrInvalidTransition):
		return ErrInvalidTransition
	case errors.Is(err, schedule.ErrActorNotAllowed):
		return ErrForbidden
	default:
		return err
	}
}

func (s *Service) reloadAndNotify(ctx context.Context, bookingID int64, oldStatus domain.BookingStatus) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if s.notifs != nil {
		_ = s.notifs.NotifyStatusChanged(ctx, b, oldStatus, b.Status)
	}
	return b, nil
}

func (s *Service) notifyCreated(ctx context.Context, b *domain.Booking) {
	if s.notifs != nil {
		_ = s.notifs.NotifyBookingCreated(ctx, b)
	}
}

// translateCreateErr maps the storage constraint race (a concurrent writer
// committed an overlapping booking between our check and our insert) to
// ErrConflict so the customer sees "already booked", not an infrastructure
// failure. 23P01 is exclusion_violation, 23505 unique_violation.
func translateCreateErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if (pgErr.Code == "23P01" || pgErr.Code == "23505") && pgErr.ConstraintName == "idx_no_overbooking" {
			return ErrConflict
		}
	}
	return err
}
