package booking

import (
	"context"
	"time"

	"bookable/internal/domain"
	"bookable/internal/repository"
)

// ListingReader supplies the immutable listing snapshot a scheduling
// operation works against.
type ListingReader interface {
	GetByID(ctx context.Context, id int64) (*domain.Listing, error)
}

type BookingRepository interface {
	Create(ctx context.Context, b *domain.Booking) error
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	ListActive(ctx context.Context, listingID int64, from, to time.Time) ([]domain.Booking, error)
	UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error
	CancelWithReason(ctx context.Context, id int64, reason string, at time.Time) error
	ListByCustomer(ctx context.Context, customerID int64, limit, offset int) ([]repository.CustomerBookingDetails, error)
	ListByProvider(ctx context.Context, providerID int64) ([]domain.Booking, error)
	ListElapsedConfirmed(ctx context.Context, before time.Time) ([]domain.Booking, error)
}

type AvailabilityPeriodReader interface {
	ListByListing(ctx context.Context, listingID int64) ([]domain.AvailabilityPeriod, error)
}

// NotificationSender is fire-and-forget: a send failure never rolls back the
// booking decision it follows.
type NotificationSender interface {
	NotifyBookingCreated(ctx context.Context, b *domain.Booking) error
	NotifyStatusChanged(ctx context.Context, b *domain.Booking, oldStatus, newStatus domain.BookingStatus) error
}
