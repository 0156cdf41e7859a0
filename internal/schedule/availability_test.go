package schedule

import (
	"testing"
	"time"

	"bookable/internal/domain"

	"github.com/stretchr/testify/assert"
)

func serviceListing() *domain.Listing {
	return &domain.Listing{
		ID:              1,
		Kind:            domain.ListingService,
		SlotDurationMin: 30,
		Timezone:        "UTC",
		BookingEnabled:  true,
	}
}

func rentalListing() *domain.Listing {
	return &domain.Listing{
		ID:             2,
		Kind:           domain.ListingRental,
		RatePerUnit:    50,
		RateUnit:       domain.RateDaily,
		Timezone:       "UTC",
		BookingEnabled: true,
	}
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func period(id int64, start, end time.Time, status domain.PeriodStatus, createdAt time.Time) domain.AvailabilityPeriod {
	return domain.AvailabilityPeriod{
		ID:        id,
		ListingID: 1,
		StartDate: start,
		EndDate:   end,
		Status:    status,
		CreatedAt: createdAt,
	}
}

func TestIndex_DefaultsByKind(t *testing.T) {
	// Services with no declared periods are open by default.
	idx := NewIndex(serviceListing(), nil, nil)
	assert.Equal(t, ReasonNone, idx.Check(Interval{
		Start: day(2024, 6, 3).Add(10 * time.Hour),
		End:   day(2024, 6, 3).Add(11 * time.Hour),
	}))

	// Rentals are closed unless the provider explicitly opened the day.
	ridx := NewIndex(rentalListing(), nil, nil)
	assert.Equal(t, ReasonBlocked, ridx.CheckDay(day(2024, 6, 3)))

	open := []domain.AvailabilityPeriod{
		period(1, day(2024, 6, 1), day(2024, 6, 30), domain.PeriodAvailable, day(2024, 5, 1)),
	}
	ridx = NewIndex(rentalListing(), open, nil)
	assert.Equal(t, ReasonNone, ridx.CheckDay(day(2024, 6, 3)))
}

func TestIndex_BlockedDayFailsFast(t *testing.T) {
	periods := []domain.AvailabilityPeriod{
		period(1, day(2024, 6, 4), day(2024, 6, 4), domain.PeriodBlocked, day(2024, 5, 1)),
	}
	idx := NewIndex(serviceListing(), periods, nil)

	// Any touched blocked day rejects the whole interval.
	spanning := Interval{
		Start: day(2024, 6, 3).Add(23 * time.Hour),
		End:   day(2024, 6, 4).Add(1 * time.Hour),
	}
	assert.Equal(t, ReasonBlocked, idx.Check(spanning))
	assert.False(t, idx.IsFree(spanning))

	sameDayOnly := Interval{
		Start: day(2024, 6, 3).Add(10 * time.Hour),
		End:   day(2024, 6, 3).Add(11 * time.Hour),
	}
	assert.True(t, idx.IsFree(sameDayOnly))
}

func TestIndex_NewestDeclarationWins(t *testing.T) {
	periods := []domain.AvailabilityPeriod{
		period(1, day(2024, 6, 1), day(2024, 6, 10), domain.PeriodBlocked, day(2024, 5, 1)),
		period(2, day(2024, 6, 1), day(2024, 6, 10), domain.PeriodAvailable, day(2024, 5, 2)),
	}
	idx := NewIndex(serviceListing(), periods, nil)
	assert.Equal(t, DayAvailable, idx.ResolveDay(day(2024, 6, 5)))
}

func TestIndex_BookingOverlap(t *testing.T) {
	bookings := []domain.Booking{
		{
			ID:        1,
			ListingID: 1,
			StartTime: day(2024, 6, 3).Add(10 * time.Hour),
			EndTime:   day(2024, 6, 3).Add(10*time.Hour + 30*time.Minute),
			Status:    domain.BookingConfirmed,
		},
	}
	idx := NewIndex(serviceListing(), nil, bookings)

	taken := Interval{
		Start: day(2024, 6, 3).Add(10 * time.Hour),
		End:   day(2024, 6, 3).Add(10*time.Hour + 30*time.Minute),
	}
	assert.Equal(t, ReasonBooked, idx.Check(taken))

	adjacent := Interval{
		Start: day(2024, 6, 3).Add(10*time.Hour + 30*time.Minute),
		End:   day(2024, 6, 3).Add(11 * time.Hour),
	}
	assert.True(t, idx.IsFree(adjacent))
}

func TestIndex_CancelledBookingsExcluded(t *testing.T) {
	bookings := []domain.Booking{
		{
			ID:        1,
			ListingID: 1,
			StartTime: day(2024, 6, 3).Add(10 * time.Hour),
			EndTime:   day(2024, 6, 3).Add(11 * time.Hour),
			Status:    domain.BookingCancelled,
		},
	}
	idx := NewIndex(serviceListing(), nil, bookings)
	assert.True(t, idx.IsFree(Interval{
		Start: day(2024, 6, 3).Add(10 * time.Hour),
		End:   day(2024, 6, 3).Add(11 * time.Hour),
	}))
}

func TestIndex_ZeroDurationRejected(t *testing.T) {
	idx := NewIndex(serviceListing(), nil, nil)
	at := day(2024, 6, 3).Add(10 * time.Hour)
	assert.False(t, idx.IsFree(Interval{Start: at, End: at}))
	assert.False(t, idx.IsFree(Interval{Start: at, End: at.Add(-time.Minute)}))
}

func TestIndex_ResolveDayIdempotent(t *testing.T) {
	periods := []domain.AvailabilityPeriod{
		period(1, day(2024, 6, 1), day(2024, 6, 10), domain.PeriodBlocked, day(2024, 5, 1)),
		period(2, day(2024, 6, 11), day(2024, 6, 20), domain.PeriodAvailable, day(2024, 5, 2)),
	}
	idx := NewIndex(serviceListing(), periods, nil)
	for d := day(2024, 6, 1); !d.After(day(2024, 6, 25)); d = d.AddDate(0, 0, 1) {
		assert.Equal(t, idx.ResolveDay(d), idx.ResolveDay(d), "day %s", d)
	}
}

// Accepting intervals one at a time never produces an overlapping pair.
func TestIndex_NoDoubleBookingProperty(t *testing.T) {
	listing := serviceListing()
	base := day(2024, 6, 3)

	var accepted []domain.Booking
	candidates := []Interval{
		{Start: base.Add(9 * time.Hour), End: base.Add(10 * time.Hour)},
		{Start: base.Add(9*time.Hour + 30*time.Minute), End: base.Add(10*time.Hour + 30*time.Minute)},
		{Start: base.Add(10 * time.Hour), End: base.Add(11 * time.Hour)},
		{Start: base.Add(10*time.Hour + 30*time.Minute), End: base.Add(11 * time.Hour)},
		{Start: base.Add(11 * time.Hour), End: base.Add(12 * time.Hour)},
		{Start: base.Add(8 * time.Hour), End: base.Add(12 * time.Hour)},
	}
	for i, iv := range candidates {
		idx := NewIndex(listing, nil, accepted)
		if idx.IsFree(iv) {
			accepted = append(accepted, domain.Booking{
				ID:        int64(i + 1),
				ListingID: listing.ID,
				StartTime: iv.Start,
				EndTime:   iv.End,
				Status:    domain.BookingConfirmed,
			})
		}
	}

	for i := range accepted {
		for j := i + 1; j < len(accepted); j++ {
			a := Interval{Start: accepted[i].StartTime, End: accepted[i].EndTime}
			b := Interval{Start: accepted[j].StartTime, End: accepted[j].EndTime}
			assert.False(t, a.Overlaps(b), "bookings %d and %d overlap", accepted[i].ID, accepted[j].ID)
		}
	}
}
