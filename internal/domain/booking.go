package domain

import "time"

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCompleted BookingStatus = "completed"
	BookingCancelled BookingStatus = "cancelled"
	BookingNoShow    BookingStatus = "no_show"
)

// IsTerminal reports whether no further transition may leave the status.
func (s BookingStatus) IsTerminal() bool {
	switch s {
	case BookingCompleted, BookingCancelled, BookingNoShow:
		return true
	}
	return false
}

type Booking struct {
	ID         int64 `json:"id"`
	ListingID  int64 `json:"listing_id" validate:"required"`
	ProviderID int64 `json:"provider_id" validate:"required"`

	// Exactly one of CustomerID (registered user) or GuestRef (generated
	// reference) identifies the customer.
	CustomerID *int64 `json:"customer_id,omitempty"`
	GuestRef   string `json:"guest_ref,omitempty"`
	GuestName  string `json:"guest_name,omitempty"`

	StartTime time.Time `json:"start_time" validate:"required"`
	EndTime   time.Time `json:"end_time" validate:"required"`

	TotalPrice float64 `json:"total_price" validate:"gte=0"`
	Currency   string  `json:"currency"`

	ServiceOption     string `json:"service_option,omitempty"`
	RecurrenceGroupID string `json:"recurrence_group_id,omitempty"`

	Status             BookingStatus `json:"status"`
	CancellationReason string        `json:"cancellation_reason,omitempty"`

	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`
}
