package schedule

import (
	"time"

	"bookable/internal/domain"
)

// Slot is a computed candidate window for a duration-based listing. Slots are
// produced fresh on every query and never persisted.
type Slot struct {
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Available bool      `json:"available"`
	Reason    Reason    `json:"reason,omitempty"`
	Price     float64   `json:"price"`
	Option    string    `json:"option,omitempty"`
}

// GenerateSlots produces the ordered slot sequence for one listing on one
// calendar day. The day's operating window comes from the listing's weekly
// hours; the slot duration and price come from the service option when one is
// given, otherwise from the listing itself. A listing with no window for that
// weekday yields an empty result, not an error.
//
// Slots starting before now carry ReasonPast even if they would also collide
// with a booking; the remaining slots are classified by idx.Check.
func GenerateSlots(listing *domain.Listing, idx *Index, day time.Time, opt *domain.ServiceOption, now time.Time) []Slot {
	loc := listing.Location()
	day = DateOnly(day, loc)

	open, close, ok := operatingWindow(listing, day, loc)
	if !ok {
		return []Slot{}
	}

	durationMin := listing.SlotDurationMin
	optName := ""
	if opt != nil {
		durationMin = opt.DurationMin
		optName = opt.Name
	}
	if durationMin <= 0 {
		return []Slot{}
	}
	step := time.Duration(durationMin) * time.Minute
	price := SlotPrice(listing, opt)

	slots := make([]Slot, 0, 16)
	for t := open; !t.Add(step).After(close); t = t.Add(step) {
		iv := Interval{Start: t, End: t.Add(step)}
		reason := ReasonNone
		if t.Before(now) {
			reason = ReasonPast
		} else {
			reason = idx.Check(iv)
		}
		slots = append(slots, Slot{
			Start:     iv.Start,
			End:       iv.End,
			Available: reason == ReasonNone,
			Reason:    reason,
			Price:     price,
			Option:    optName,
		})
	}
	return slots
}

func operatingWindow(listing *domain.Listing, day time.Time, loc *time.Location) (time.Time, time.Time, bool) {
	if len(listing.OperatingHours) == 0 {
		return time.Time{}, time.Time{}, false
	}
	hours, ok := listing.OperatingHours[weekdayKey(day.Weekday())]
	if !ok || hours.Open == "" || hours.Close == "" {
		return time.Time{}, time.Time{}, false
	}
	openT, err := time.Parse("15:04", hours.Open)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	closeT, err := time.Parse("15:04", hours.Close)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	open := time.Date(day.Year(), day.Month(), day.Day(), openT.Hour(), openT.Minute(), 0, 0, loc)
	close := time.Date(day.Year(), day.Month(), day.Day(), closeT.Hour(), closeT.Minute(), 0, 0, loc)
	if !close.After(open) {
		return time.Time{}, time.Time{}, false
	}
	return open, close, true
}

func weekdayKey(w time.Weekday) string {
	switch w {
	case time.Monday:
		return "monday"
	case time.Tuesday:
		return "tuesday"
	case time.Wednesday:
		return "wednesday"
	case time.Thursday:
		return "thursday"
	case time.Friday:
		return "friday"
	case time.Saturday:
		return "saturday"
	default:
		return "sunday"
	}
}
