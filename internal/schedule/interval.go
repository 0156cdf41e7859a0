package schedule

import "time"

// Interval is a half-open time interval [Start, End) at minute precision.
type Interval struct {
	Start time.Time
	End   time.Time
}

func NewInterval(start, end time.Time) Interval {
	return Interval{Start: start, End: end}
}

func (i Interval) Duration() time.Duration {
	return i.End.Sub(i.Start)
}

// IsValid reports whether the interval has positive duration.
func (i Interval) IsValid() bool {
	return i.End.After(i.Start)
}

// Overlaps reports whether the two half-open intervals share any instant.
func (i Interval) Overlaps(o Interval) bool {
	return i.Start.Before(o.End) && o.Start.Before(i.End)
}

// Contains reports whether o lies entirely within i.
func (i Interval) Contains(o Interval) bool {
	return !o.Start.Before(i.Start) && !o.End.After(i.End)
}

// Adjacent reports whether one interval ends exactly where the other starts.
func (i Interval) Adjacent(o Interval) bool {
	return i.End.Equal(o.Start) || o.End.Equal(i.Start)
}

// Merge returns the union of two intervals. Only meaningful when the
// intervals overlap or are adjacent; the caller checks that first.
func (i Interval) Merge(o Interval) Interval {
	out := i
	if o.Start.Before(out.Start) {
		out.Start = o.Start
	}
	if o.End.After(out.End) {
		out.End = o.End
	}
	return out
}

// DateOnly truncates t to midnight of its calendar day in loc.
func DateOnly(t time.Time, loc *time.Location) time.Time {
	lt := t.In(loc)
	return time.Date(lt.Year(), lt.Month(), lt.Day(), 0, 0, 0, 0, loc)
}

// DaysTouched returns midnight (in loc) of every calendar day the half-open
// interval intersects, in chronological order. The interval's end instant
// itself touches no day: [Mon 00:00, Tue 00:00) is Monday only.
func (i Interval) DaysTouched(loc *time.Location) []time.Time {
	if !i.IsValid() {
		return nil
	}
	first := DateOnly(i.Start, loc)
	last := DateOnly(i.End.Add(-time.Nanosecond), loc)
	days := make([]time.Time, 0, 4)
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// DateRange is an inclusive whole-day range [Start, End], both at midnight in
// the listing's timezone.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Days counts the calendar days in the inclusive range. Counting is done by
// date arithmetic, not by dividing elapsed hours, so DST transitions inside
// the range cannot shift the result.
func (r DateRange) Days() int {
	n := 0
	for d := r.Start; !d.After(r.End); d = d.AddDate(0, 0, 1) {
		n++
	}
	return n
}

// Interval converts the inclusive day range into the equivalent half-open
// interval [Start 00:00, End+1d 00:00).
func (r DateRange) Interval() Interval {
	return Interval{Start: r.Start, End: r.End.AddDate(0, 0, 1)}
}
