package repository

import (
	"context"
	"encoding/json"
	"time"

	"bookable/internal/domain"

	"gorm.io/gorm"
)

type ListingRepository struct {
	db *gorm.DB
}

func NewListingRepository(db *gorm.DB) *ListingRepository {
	return &ListingRepository{db: db}
}

type listingModel struct {
	ID              int64     `gorm:"column:id;primaryKey"`
	ProviderID      int64     `gorm:"column:provider_id;index"`
	Title           string    `gorm:"column:title"`
	Kind            string    `gorm:"column:kind"`
	SlotDurationMin int       `gorm:"column:slot_duration_min"`
	OperatingHours  []byte    `gorm:"column:operating_hours;type:text"`
	SlotPrice       float64   `gorm:"column:slot_price"`
	RatePerUnit     float64   `gorm:"column:rate_per_unit"`
	RateUnit        string    `gorm:"column:rate_unit"`
	Currency        string    `gorm:"column:currency"`
	Timezone        string    `gorm:"column:timezone"`
	AutoConfirm     bool      `gorm:"column:auto_confirm"`
	BookingEnabled  bool      `gorm:"column:booking_enabled"`
	CreatedAt       time.Time `gorm:"column:created_at"`
	UpdatedAt       time.Time `gorm:"column:updated_at"`
}

func (listingModel) TableName() string { return "listings" }

type serviceOptionModel struct {
	ID          int64   `gorm:"column:id;primaryKey"`
	ListingID   int64   `gorm:"column:listing_id;index"`
	Name        string  `gorm:"column:name"`
	DurationMin int     `gorm:"column:duration_min"`
	Price       float64 `gorm:"column:price"`
}

func (serviceOptionModel) TableName() string { return "service_options" }

func toDomainListing(m listingModel, opts []serviceOptionModel) (*domain.Listing, error) {
	var hours domain.OperatingHours
	if len(m.OperatingHours) > 0 {
		if err := json.Unmarshal(m.OperatingHours, &hours); err != nil {
			return nil, err
		}
	}

	l := &domain.Listing{
		ID:              m.ID,
		ProviderID:      m.ProviderID,
		Title:           m.Title,
		Kind:            domain.ListingKind(m.Kind),
		SlotDurationMin: m.SlotDurationMin,
		OperatingHours:  hours,
		SlotPrice:       m.SlotPrice,
		RatePerUnit:     m.RatePerUnit,
		RateUnit:        domain.RateUnit(m.RateUnit),
		Currency:        m.Currency,
		Timezone:        m.Timezone,
		AutoConfirm:     m.AutoConfirm,
		BookingEnabled:  m.BookingEnabled,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
	for _, o := range opts {
		l.ServiceOptions = append(l.ServiceOptions, domain.ServiceOption{
			ID:          o.ID,
			ListingID:   o.ListingID,
			Name:        o.Name,
			DurationMin: o.DurationMin,
			Price:       o.Price,
		})
	}
	return l, nil
}

func toListingModel(l *domain.Listing) (listingModel, error) {
	var hours []byte
	if len(l.OperatingHours) > 0 {
		var err error
		hours, err = json.Marshal(l.OperatingHours)
		if err != nil {
			return listingModel{}, err
		}
	}
	return listingModel{
		ID:              l.ID,
		ProviderID:      l.ProviderID,
		Title:           l.Title,
		Kind:            string(l.Kind),
		SlotDurationMin: l.SlotDurationMin,
		OperatingHours:  hours,
		SlotPrice:       l.SlotPrice,
		RatePerUnit:     l.RatePerUnit,
		RateUnit:        string(l.RateUnit),
		Currency:        l.Currency,
		Timezone:        l.Timezone,
		AutoConfirm:     l.AutoConfirm,
		BookingEnabled:  l.BookingEnabled,
		CreatedAt:       l.CreatedAt,
		UpdatedAt:       l.UpdatedAt,
	}, nil
}

func (r *ListingRepository) Create(ctx context.Context, l *domain.Listing) error {
	m, err := toListingModel(l)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	l.ID = m.ID
	for i := range l.ServiceOptions {
		om := serviceOptionModel{
			ListingID:   m.ID,
			Name:        l.ServiceOptions[i].Name,
			DurationMin: l.ServiceOptions[i].DurationMin,
			Price:       l.ServiceOptions[i].Price,
		}
		if err := r.db.WithContext(ctx).Create(&om).Error; err != nil {
			return err
		}
		l.ServiceOptions[i].ID = om.ID
		l.ServiceOptions[i].ListingID = m.ID
	}
	return nil
}

func (r *ListingRepository) GetByID(ctx context.Context, id int64) (*domain.Listing, error) {
	var m listingModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, err
	}
	var opts []serviceOptionModel
	if err := r.db.WithContext(ctx).Where("listing_id = ?", id).Order("id").Find(&opts).Error; err != nil {
		return nil, err
	}
	return toDomainListing(m, opts)
}

type ListingFilter struct {
	Kind       string
	ProviderID int64
	Limit      int
	Offset     int
}

func (r *ListingRepository) List(ctx context.Context, f ListingFilter) ([]domain.Listing, error) {
	q := r.db.WithContext(ctx).Model(&listingModel{})
	if f.Kind != "" {
		q = q.Where("kind = ?", f.Kind)
	}
	if f.ProviderID != 0 {
		q = q.Where("provider_id = ?", f.ProviderID)
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	if f.Offset > 0 {
		q = q.Offset(f.Offset)
	}

	var models []listingModel
	if err := q.Order("id").Find(&models).Error; err != nil {
		return nil, err
	}

	out := make([]domain.Listing, 0, len(models))
	for _, m := range models {
		var opts []serviceOptionModel
		if err := r.db.WithContext(ctx).Where("listing_id = ?", m.ID).Order("id").Find(&opts).Error; err != nil {
			return nil, err
		}
		l, err := toDomainListing(m, opts)
		if err != nil {
			return nil, err
		}
		out = append(out, *l)
	}
	return out, nil
}
