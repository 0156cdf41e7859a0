package catalog

import (
	"context"

	"bookable/internal/domain"
	"bookable/internal/repository"
)

type ListingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Listing, error)
	List(ctx context.Context, f repository.ListingFilter) ([]domain.Listing, error)
}

type AvailabilityPeriodRepository interface {
	ListByListing(ctx context.Context, listingID int64) ([]domain.AvailabilityPeriod, error)
	Replace(ctx context.Context, p *domain.AvailabilityPeriod) ([]domain.AvailabilityPeriod, error)
}
