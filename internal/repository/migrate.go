package repository

import (
	"strings"

	"gorm.io/gorm"
)

// AutoMigrate creates the storage schema. On PostgreSQL it also installs the
// exclusion constraint that makes "at most one committed booking per listing
// interval" a storage guarantee rather than an application-level check; the
// booking service translates a loss of that constraint into a conflict
// rejection. SQLite (local dev, tests) has no range exclusion, so there the
// application-level check is the only guard.
func AutoMigrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&listingModel{},
		&serviceOptionModel{},
		&bookingModel{},
		&availabilityPeriodModel{},
	)
	if err != nil {
		return err
	}

	if db.Dialector.Name() == "postgres" {
		if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS btree_gist`).Error; err != nil {
			return err
		}
		err := db.Exec(`
ALTER TABLE bookings
  ADD CONSTRAINT idx_no_overbooking
  EXCLUDE USING gist (
    listing_id WITH =,
    tstzrange(start_time, end_time, '[)') WITH &&
  )
  WHERE (status <> 'cancelled')
`).Error
		if err != nil && !isDuplicateConstraint(err) {
			return err
		}
	}
	return nil
}

func isDuplicateConstraint(err error) bool {
	return err != nil && strings.Contains(err.Error(), "already exists")
}
