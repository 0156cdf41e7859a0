package repository

import (
	"context"
	"time"

	"bookable/internal/domain"

	"gorm.io/gorm"
)

type AvailabilityPeriodRepository struct {
	db *gorm.DB
}

func NewAvailabilityPeriodRepository(db *gorm.DB) *AvailabilityPeriodRepository {
	return &AvailabilityPeriodRepository{db: db}
}

type availabilityPeriodModel struct {
	ID        int64     `gorm:"column:id;primaryKey"`
	ListingID int64     `gorm:"column:listing_id;index"`
	StartDate time.Time `gorm:"column:start_date"`
	EndDate   time.Time `gorm:"column:end_date"`
	Status    string    `gorm:"column:status"`
	Reason    *string   `gorm:"column:reason"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (availabilityPeriodModel) TableName() string { return "availability_periods" }

func toDomainPeriod(m availabilityPeriodModel) domain.AvailabilityPeriod {
	return domain.AvailabilityPeriod{
		ID:        m.ID,
		ListingID: m.ListingID,
		StartDate: m.StartDate,
		EndDate:   m.EndDate,
		Status:    domain.PeriodStatus(m.Status),
		Reason:    strOrEmpty(m.Reason),
		CreatedAt: m.CreatedAt,
	}
}

func (r *AvailabilityPeriodRepository) ListByListing(ctx context.Context, listingID int64) ([]domain.AvailabilityPeriod, error) {
	var models []availabilityPeriodModel
	err := r.db.WithContext(ctx).
		Where("listing_id = ?", listingID).
		Order("start_date").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	out := make([]domain.AvailabilityPeriod, 0, len(models))
	for _, m := range models {
		out = append(out, toDomainPeriod(m))
	}
	return out, nil
}

// Replace stores a new period and removes every existing period of the same
// listing whose date range intersects it. The newest declaration always wins
// over the whole overlapping region; there is no partial splice. Delete and
// insert run in one transaction so concurrent provider edits cannot leave two
// periods covering the same day.
func (r *AvailabilityPeriodRepository) Replace(ctx context.Context, p *domain.AvailabilityPeriod) ([]domain.AvailabilityPeriod, error) {
	m := availabilityPeriodModel{
		ListingID: p.ListingID,
		StartDate: p.StartDate,
		EndDate:   p.EndDate,
		Status:    string(p.Status),
		Reason:    strOrNil(p.Reason),
		CreatedAt: p.CreatedAt,
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.
			Where("listing_id = ?", p.ListingID).
			Where("start_date <= ? AND end_date >= ?", p.EndDate, p.StartDate).
			Delete(&availabilityPeriodModel{}).Error
		if err != nil {
			return err
		}
		return tx.Create(&m).Error
	})
	if err != nil {
		return nil, err
	}

	p.ID = m.ID
	p.CreatedAt = m.CreatedAt
	return r.ListByListing(ctx, p.ListingID)
}
