package schedule

import (
	"errors"
	"time"

	"bookable/internal/domain"
)

// ErrInvalidRange means endDate precedes startDate.
var ErrInvalidRange = errors.New("end date before start date")

// RangeConflict names the first day that makes a rental range unbookable.
type RangeConflict struct {
	Day    time.Time
	Reason Reason
}

// ValidateRange checks an inclusive [startDate, endDate] whole-day range for
// a rental listing. On success it returns the day count; otherwise the first
// conflicting day. It never suggests partial ranges.
func ValidateRange(listing *domain.Listing, idx *Index, startDate, endDate time.Time) (int, *RangeConflict, error) {
	loc := listing.Location()
	r := DateRange{Start: DateOnly(startDate, loc), End: DateOnly(endDate, loc)}
	if r.End.Before(r.Start) {
		return 0, nil, ErrInvalidRange
	}
	for d := r.Start; !d.After(r.End); d = d.AddDate(0, 0, 1) {
		if reason := idx.CheckDay(d); reason != ReasonNone {
			return 0, &RangeConflict{Day: d, Reason: reason}, nil
		}
	}
	return r.Days(), nil, nil
}
