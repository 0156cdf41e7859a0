package schedule

import (
	"time"

	"bookable/internal/domain"
)

// Reason explains why a candidate interval or slot is not bookable.
type Reason string

const (
	ReasonNone    Reason = ""
	ReasonPast    Reason = "past"
	ReasonBlocked Reason = "blocked"
	ReasonBooked  Reason = "booked"
)

// DayStatus is the resolved availability of one calendar day.
type DayStatus string

const (
	DayAvailable DayStatus = "available"
	DayBlocked   DayStatus = "blocked"
	DayUnset     DayStatus = "unset"
)

// Index answers "is this interval free?" for one listing, from an in-memory
// snapshot of its availability periods and non-cancelled bookings. It holds
// no clock and performs no I/O; the caller loads the snapshot and decides
// what "now" means.
type Index struct {
	listing  *domain.Listing
	loc      *time.Location
	periods  []domain.AvailabilityPeriod
	bookings []domain.Booking
}

func NewIndex(listing *domain.Listing, periods []domain.AvailabilityPeriod, bookings []domain.Booking) *Index {
	active := make([]domain.Booking, 0, len(bookings))
	for _, b := range bookings {
		if b.Status == domain.BookingCancelled {
			continue
		}
		active = append(active, b)
	}
	return &Index{
		listing:  listing,
		loc:      listing.Location(),
		periods:  periods,
		bookings: active,
	}
}

// ResolveDay finds the availability declared for one calendar day. After the
// supersede rule at the storage layer at most one period covers a day, but
// if duplicates do slip in, the newest declaration wins.
func (x *Index) ResolveDay(day time.Time) DayStatus {
	day = DateOnly(day, x.loc)
	var winner *domain.AvailabilityPeriod
	for i := range x.periods {
		p := &x.periods[i]
		start := DateOnly(p.StartDate, x.loc)
		end := DateOnly(p.EndDate, x.loc)
		if day.Before(start) || day.After(end) {
			continue
		}
		if winner == nil || p.CreatedAt.After(winner.CreatedAt) ||
			(p.CreatedAt.Equal(winner.CreatedAt) && p.ID > winner.ID) {
			winner = p
		}
	}
	if winner == nil {
		return DayUnset
	}
	if winner.Status == domain.PeriodBlocked {
		return DayBlocked
	}
	return DayAvailable
}

// dayOpen applies the default for undeclared days: rentals are closed unless
// the provider explicitly opened the day, every other kind is open unless
// explicitly blocked.
func (x *Index) dayOpen(day time.Time) bool {
	switch x.ResolveDay(day) {
	case DayBlocked:
		return false
	case DayAvailable:
		return true
	default:
		return x.listing.Kind != domain.ListingRental
	}
}

// Check classifies a candidate interval: ReasonNone when bookable,
// ReasonBlocked when any touched day is not open, ReasonBooked when an
// existing booking overlaps. Blocked days fail before booking overlap is
// even considered.
func (x *Index) Check(iv Interval) Reason {
	if !iv.IsValid() {
		return ReasonBlocked
	}
	for _, day := range iv.DaysTouched(x.loc) {
		if !x.dayOpen(day) {
			return ReasonBlocked
		}
	}
	for _, b := range x.bookings {
		if iv.Overlaps(Interval{Start: b.StartTime, End: b.EndTime}) {
			return ReasonBooked
		}
	}
	return ReasonNone
}

// IsFree reports whether the candidate interval can be booked.
func (x *Index) IsFree(iv Interval) bool {
	return x.Check(iv) == ReasonNone
}

// CheckDay classifies one whole calendar day at day granularity, the unit
// rentals are validated in. A booking conflicts if its interval overlaps any
// part of the day.
func (x *Index) CheckDay(day time.Time) Reason {
	day = DateOnly(day, x.loc)
	if !x.dayOpen(day) {
		return ReasonBlocked
	}
	dayIv := Interval{Start: day, End: day.AddDate(0, 0, 1)}
	for _, b := range x.bookings {
		if dayIv.Overlaps(Interval{Start: b.StartTime, End: b.EndTime}) {
			return ReasonBooked
		}
	}
	return ReasonNone
}

// Location exposes the listing timezone the index resolves days in.
func (x *Index) Location() *time.Location {
	return x.loc
}
