package repository

import (
	"context"
	"time"

	"bookable/internal/domain"

	"gorm.io/gorm"
)

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

type bookingModel struct {
	ID                 int64      `gorm:"column:id;primaryKey"`
	ListingID          int64      `gorm:"column:listing_id;index"`
	ProviderID         int64      `gorm:"column:provider_id;index"`
	CustomerID         *int64     `gorm:"column:customer_id"`
	GuestRef           *string    `gorm:"column:guest_ref"`
	GuestName          *string    `gorm:"column:guest_name"`
	StartTime          time.Time  `gorm:"column:start_time"`
	EndTime            time.Time  `gorm:"column:end_time"`
	TotalPrice         float64    `gorm:"column:total_price"`
	Currency           string     `gorm:"column:currency"`
	ServiceOption      *string    `gorm:"column:service_option"`
	RecurrenceGroupID  *string    `gorm:"column:recurrence_group_id"`
	Status             string     `gorm:"column:status"`
	CancellationReason *string    `gorm:"column:cancellation_reason"`
	CreatedAt          time.Time  `gorm:"column:created_at"`
	UpdatedAt          time.Time  `gorm:"column:updated_at"`
	CancelledAt        *time.Time `gorm:"column:cancelled_at"`
}

func (bookingModel) TableName() string { return "bookings" }

func strOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func strOrNil(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func toDomainBooking(m bookingModel) *domain.Booking {
	return &domain.Booking{
		ID:                 m.ID,
		ListingID:          m.ListingID,
		ProviderID:         m.ProviderID,
		CustomerID:         m.CustomerID,
		GuestRef:           strOrEmpty(m.GuestRef),
		GuestName:          strOrEmpty(m.GuestName),
		StartTime:          m.StartTime,
		EndTime:            m.EndTime,
		TotalPrice:         m.TotalPrice,
		Currency:           m.Currency,
		ServiceOption:      strOrEmpty(m.ServiceOption),
		RecurrenceGroupID:  strOrEmpty(m.RecurrenceGroupID),
		Status:             domain.BookingStatus(m.Status),
		CancellationReason: strOrEmpty(m.CancellationReason),
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
		CancelledAt:        m.CancelledAt,
	}
}

func toBookingModel(b *domain.Booking) bookingModel {
	return bookingModel{
		ID:                 b.ID,
		ListingID:          b.ListingID,
		ProviderID:         b.ProviderID,
		CustomerID:         b.CustomerID,
		GuestRef:           strOrNil(b.GuestRef),
		GuestName:          strOrNil(b.GuestName),
		StartTime:          b.StartTime,
		EndTime:            b.EndTime,
		TotalPrice:         b.TotalPrice,
		Currency:           b.Currency,
		ServiceOption:      strOrNil(b.ServiceOption),
		RecurrenceGroupID:  strOrNil(b.RecurrenceGroupID),
		Status:             string(b.Status),
		CancellationReason: strOrNil(b.CancellationReason),
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
		CancelledAt:        b.CancelledAt,
	}
}

// Create inserts the booking. Storage-level errors, including loss of the
// no-overlap exclusion constraint to a concurrent writer, are returned raw;
// the booking service inspects them.
func (r *BookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	m := toBookingModel(b)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	*b = *toDomainBooking(m)
	return nil
}

func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	var m bookingModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, err
	}
	return toDomainBooking(m), nil
}

// ListActive returns the listing's non-cancelled bookings, optionally limited
// to those overlapping [from, to). Zero bounds mean no window filter.
func (r *BookingRepository) ListActive(ctx context.Context, listingID int64, from, to time.Time) ([]domain.Booking, error) {
	q := r.db.WithContext(ctx).
		Where("listing_id = ?", listingID).
		Where("status <> ?", string(domain.BookingCancelled))
	if !from.IsZero() && !to.IsZero() {
		q = q.Where("start_time < ? AND end_time > ?", to, from)
	}

	var models []bookingModel
	if err := q.Order("start_time").Find(&models).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Booking, 0, len(models))
	for _, m := range models {
		out = append(out, *toDomainBooking(m))
	}
	return out, nil
}

func (r *BookingRepository) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error {
	return r.db.WithContext(ctx).Model(&bookingModel{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":     string(status),
			"updated_at": time.Now().UTC(),
		}).Error
}

// CancelWithReason marks the booking cancelled and records why and when.
func (r *BookingRepository) CancelWithReason(ctx context.Context, id int64, reason string, at time.Time) error {
	return r.db.WithContext(ctx).Model(&bookingModel{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":              string(domain.BookingCancelled),
			"cancellation_reason": reason,
			"cancelled_at":        at,
			"updated_at":          at,
		}).Error
}

// CustomerBookingDetails is a booking row joined with its listing, for the
// customer's "my bookings" view.
type CustomerBookingDetails struct {
	ID           int64     `json:"id"`
	Status       string    `json:"status"`
	StartTime    time.Time `json:"start_time"`
	EndTime      time.Time `json:"end_time"`
	TotalPrice   float64   `json:"total_price"`
	Currency     string    `json:"currency"`
	ListingID    int64     `json:"listing_id"`
	ListingTitle string    `json:"listing_title"`
	ListingKind  string    `json:"listing_kind"`
}

func (r *BookingRepository) ListByCustomer(ctx context.Context, customerID int64, limit, offset int) ([]CustomerBookingDetails, error) {
	if limit <= 0 {
		limit = 50
	}
	q := `
SELECT b.id, b.status, b.start_time, b.end_time, b.total_price, b.currency,
       l.id AS listing_id, l.title AS listing_title, l.kind AS listing_kind
FROM bookings b
JOIN listings l ON l.id = b.listing_id
WHERE b.customer_id = ?
ORDER BY b.start_time DESC
LIMIT ? OFFSET ?
`
	var rows []CustomerBookingDetails
	if err := r.db.WithContext(ctx).Raw(q, customerID, limit, offset).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *BookingRepository) ListByProvider(ctx context.Context, providerID int64) ([]domain.Booking, error) {
	var models []bookingModel
	err := r.db.WithContext(ctx).
		Where("provider_id = ?", providerID).
		Order("start_time DESC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	out := make([]domain.Booking, 0, len(models))
	for _, m := range models {
		out = append(out, *toDomainBooking(m))
	}
	return out, nil
}

// ListElapsedConfirmed returns confirmed bookings whose end time has passed,
// for the completion sweep.
func (r *BookingRepository) ListElapsedConfirmed(ctx context.Context, before time.Time) ([]domain.Booking, error) {
	var models []bookingModel
	err := r.db.WithContext(ctx).
		Where("status = ?", string(domain.BookingConfirmed)).
		Where("end_time <= ?", before).
		Order("end_time").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	out := make([]domain.Booking, 0, len(models))
	for _, m := range models {
		out = append(out, *toDomainBooking(m))
	}
	return out, nil
}
