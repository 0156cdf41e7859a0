package schedule

import (
	"math"

	"bookable/internal/domain"
)

// RentalPrice computes the total for a rental of the given whole-day count
// under the listing's active rate unit. Partial weeks and months round up:
// the provider is never paid for less than a full unit.
func RentalPrice(rate float64, unit domain.RateUnit, days int) float64 {
	if days <= 0 {
		return 0
	}
	var total float64
	switch unit {
	case domain.RateHourly:
		total = rate * float64(days) * 24
	case domain.RateWeekly:
		total = rate * math.Ceil(float64(days)/7)
	case domain.RateMonthly:
		total = rate * math.Ceil(float64(days)/30)
	default:
		total = rate * float64(days)
	}
	return round2(total)
}

// SlotPrice returns the fixed price of one slot: the service option's listed
// price when an option is chosen, else the listing's base slot price. The
// computed duration never changes a fixed price.
func SlotPrice(listing *domain.Listing, opt *domain.ServiceOption) float64 {
	if opt != nil {
		return round2(opt.Price)
	}
	return round2(listing.SlotPrice)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
