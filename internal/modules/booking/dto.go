package booking

import (
	"time"

	"bookable/internal/domain"
	"bookable/internal/schedule"
)

// Actor identifies who triggers a lifecycle transition.
type Actor struct {
	UserID int64
	Role   domain.Role
}

// CustomerRef is either a registered user (ID set) or a guest (name only; a
// guest reference is generated at proposal time).
type CustomerRef struct {
	UserID    *int64 `json:"user_id,omitempty"`
	GuestName string `json:"guest_name,omitempty"`
}

type ProposeBookingRequest struct {
	ListingID     int64       `json:"listing_id" binding:"required"`
	StartTime     time.Time   `json:"start_time" binding:"required"`
	EndTime       time.Time   `json:"end_time"`
	ServiceOption string      `json:"service_option,omitempty"`
	Customer      CustomerRef `json:"customer"`

	Recurrence *RecurrenceRequest `json:"recurrence,omitempty"`
}

type RecurrenceRequest struct {
	Frequency      string    `json:"frequency" binding:"required"`
	Until          time.Time `json:"until"`
	MaxOccurrences int       `json:"max_occurrences"`
}

type ProposeRangeBookingRequest struct {
	ListingID int64       `json:"listing_id" binding:"required"`
	StartDate string      `json:"start_date" binding:"required"` // 2006-01-02
	EndDate   string      `json:"end_date" binding:"required"`
	Customer  CustomerRef `json:"customer"`
}

type CancelBookingRequest struct {
	Reason string `json:"reason"`
}

// RecurringResult reports a possibly partial recurring proposal: occurrences
// are committed in chronological order and committed ones are never rolled
// back when a later one conflicts.
type RecurringResult struct {
	GroupID  string           `json:"group_id"`
	Created  []domain.Booking `json:"created"`
	FailedAt *time.Time       `json:"failed_at,omitempty"`
	Reason   schedule.Reason  `json:"reason,omitempty"`
}
