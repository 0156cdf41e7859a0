package domain

import "time"

type PeriodStatus string

const (
	PeriodAvailable PeriodStatus = "available"
	PeriodBlocked   PeriodStatus = "blocked"
)

// AvailabilityPeriod is a provider-declared whole-day date range over a
// listing. StartDate and EndDate are inclusive, stored at midnight in the
// listing's timezone. Per listing, at most one stored period covers any given
// day: inserting a new period supersedes every stored period whose range
// intersects it (see repository.AvailabilityPeriodRepository.Replace).
type AvailabilityPeriod struct {
	ID        int64        `json:"id"`
	ListingID int64        `json:"listing_id" validate:"required"`
	StartDate time.Time    `json:"start_date" validate:"required"`
	EndDate   time.Time    `json:"end_date" validate:"required"`
	Status    PeriodStatus `json:"status" validate:"required"`
	Reason    string       `json:"reason,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
}
