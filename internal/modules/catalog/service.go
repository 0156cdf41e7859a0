package catalog

import (
	"context"
	"errors"
	"time"

	"bookable/internal/domain"
	"bookable/internal/repository"
	"bookable/internal/schedule"

	"gorm.io/gorm"
)

type Service struct {
	listings ListingRepository
	periods  AvailabilityPeriodRepository
}

func NewService(listings ListingRepository, periods AvailabilityPeriodRepository) *Service {
	return &Service{listings: listings, periods: periods}
}

func (s *Service) GetListing(ctx context.Context, id int64) (*domain.Listing, error) {
	l, err := s.listings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return l, nil
}

func (s *Service) ListListings(ctx context.Context, q ListListingsQuery) ([]domain.Listing, error) {
	return s.listings.List(ctx, repository.ListingFilter{
		Kind:       q.Kind,
		ProviderID: q.ProviderID,
		Limit:      q.Limit,
		Offset:     q.Offset,
	})
}

func (s *Service) ListPeriods(ctx context.Context, listingID int64) ([]domain.AvailabilityPeriod, error) {
	if _, err := s.GetListing(ctx, listingID); err != nil {
		return nil, err
	}
	return s.periods.ListByListing(ctx, listingID)
}

// ReplacePeriod stores a provider's availability declaration. The newest
// declaration wins over the whole overlapping region: every stored period
// whose range intersects the new one is removed, never partially spliced.
func (s *Service) ReplacePeriod(ctx context.Context, listingID, providerID int64, req ReplacePeriodRequest) ([]domain.AvailabilityPeriod, error) {
	listing, err := s.GetListing(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if listing.ProviderID != providerID {
		return nil, ErrForbidden
	}

	status := domain.PeriodStatus(req.Status)
	if status != domain.PeriodAvailable && status != domain.PeriodBlocked {
		return nil, ErrValidation
	}

	loc := listing.Location()
	start, err := time.ParseInLocation("2006-01-02", req.StartDate, loc)
	if err != nil {
		return nil, ErrValidation
	}
	end, err := time.ParseInLocation("2006-01-02", req.EndDate, loc)
	if err != nil {
		return nil, ErrValidation
	}
	if end.Before(start) {
		return nil, ErrValidation
	}

	p := &domain.AvailabilityPeriod{
		ListingID: listingID,
		StartDate: schedule.DateOnly(start, loc),
		EndDate:   schedule.DateOnly(end, loc),
		Status:    status,
		Reason:    req.Reason,
	}
	return s.periods.Replace(ctx, p)
}
