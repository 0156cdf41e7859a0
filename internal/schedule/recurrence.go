package schedule

import (
	"errors"
	"time"
)

type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
)

// Pattern bounds a recurrence expansion. Until is inclusive: the last
// candidate may start on, but not after, it. MaxOccurrences of zero means
// unbounded by count. At least one bound must be set.
type Pattern struct {
	Frequency      Frequency
	Until          time.Time
	MaxOccurrences int
}

var (
	ErrUnknownFrequency = errors.New("unknown recurrence frequency")
	ErrUnboundedPattern = errors.New("recurrence pattern needs an until date or occurrence count")
)

// hardOccurrenceCap keeps a malformed pattern from expanding without end,
// regardless of the declared bounds.
const hardOccurrenceCap = 366

// Expand enumerates candidate occurrences of the template interval,
// preserving time-of-day and duration. The template itself is the first
// candidate. Expansion stops at whichever declared bound is hit first.
//
// The planner only enumerates; it never consults availability. The caller
// validates and commits occurrences one at a time, in order, because each
// committed occurrence changes what the next one must be checked against.
func Expand(template Interval, p Pattern) ([]Interval, error) {
	switch p.Frequency {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly:
	default:
		return nil, ErrUnknownFrequency
	}
	if p.Until.IsZero() && p.MaxOccurrences <= 0 {
		return nil, ErrUnboundedPattern
	}

	duration := template.Duration()
	out := make([]Interval, 0, 8)
	for n := 0; n < hardOccurrenceCap; n++ {
		start := occurrenceStart(template.Start, p.Frequency, n)
		if !p.Until.IsZero() && start.After(p.Until) {
			break
		}
		if p.MaxOccurrences > 0 && len(out) >= p.MaxOccurrences {
			break
		}
		out = append(out, Interval{Start: start, End: start.Add(duration)})
	}
	return out, nil
}

// occurrenceStart advances from the template start rather than the previous
// occurrence, so monthly steps do not accumulate end-of-month drift.
func occurrenceStart(base time.Time, f Frequency, n int) time.Time {
	switch f {
	case FrequencyDaily:
		return base.AddDate(0, 0, n)
	case FrequencyWeekly:
		return base.AddDate(0, 0, 7*n)
	default:
		return base.AddDate(0, n, 0)
	}
}
