package domain

import "time"

type ListingKind string

const (
	ListingService      ListingKind = "service"
	ListingExperience   ListingKind = "experience"
	ListingRental       ListingKind = "rental"
	ListingSubscription ListingKind = "subscription"
	ListingProject      ListingKind = "project"
)

// IsDurationBased reports whether the listing is booked by time-of-day slots
// rather than whole-day ranges.
func (k ListingKind) IsDurationBased() bool {
	return k != ListingRental
}

type RateUnit string

const (
	RateHourly  RateUnit = "hourly"
	RateDaily   RateUnit = "daily"
	RateWeekly  RateUnit = "weekly"
	RateMonthly RateUnit = "monthly"
)

// DayHours is one weekday's operating window, times as "15:04" strings.
// An empty open or close means the listing does not operate that day.
type DayHours struct {
	Open  string `json:"open"`
	Close string `json:"close"`
}

// OperatingHours maps lowercase weekday names ("monday".."sunday") to windows.
type OperatingHours map[string]DayHours

type ServiceOption struct {
	ID          int64   `json:"id"`
	ListingID   int64   `json:"listing_id"`
	Name        string  `json:"name" validate:"required"`
	DurationMin int     `json:"duration_min" validate:"required,gt=0"`
	Price       float64 `json:"price" validate:"required,gte=0"`
}

type Listing struct {
	ID         int64       `json:"id"`
	ProviderID int64       `json:"provider_id" validate:"required"`
	Title      string      `json:"title" validate:"required"`
	Kind       ListingKind `json:"kind" validate:"required"`

	// Duration-based kinds only.
	SlotDurationMin int             `json:"slot_duration_min,omitempty"`
	OperatingHours  OperatingHours  `json:"operating_hours,omitempty"`
	ServiceOptions  []ServiceOption `json:"service_options,omitempty"`
	SlotPrice       float64         `json:"slot_price,omitempty"`

	// Rentals only.
	RatePerUnit float64  `json:"rate_per_unit,omitempty"`
	RateUnit    RateUnit `json:"rate_unit,omitempty"`

	Currency       string `json:"currency"`
	Timezone       string `json:"timezone"`
	AutoConfirm    bool   `json:"auto_confirm"`
	BookingEnabled bool   `json:"booking_enabled"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Location resolves the listing's declared timezone, falling back to UTC when
// the name is empty or unknown.
func (l *Listing) Location() *time.Location {
	if l.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(l.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Option returns the named service option, or nil if the listing has none by
// that name.
func (l *Listing) Option(name string) *ServiceOption {
	for i := range l.ServiceOptions {
		if l.ServiceOptions[i].Name == name {
			return &l.ServiceOptions[i]
		}
	}
	return nil
}
