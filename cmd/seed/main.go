package main

import (
	"context"
	"log"
	"time"

	"bookable/internal/database"
	"bookable/internal/domain"
	"bookable/internal/repository"
)

// Seeds a local SQLite database with listings of every kind plus some
// availability periods and bookings, for poking at the API by hand.
func main() {
	db, err := database.Connect("bookable.db")
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running AutoMigrate...")
	if err := repository.AutoMigrate(db); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	log.Println("Cleaning old data...")
	db.Exec("DELETE FROM bookings")
	db.Exec("DELETE FROM availability_periods")
	db.Exec("DELETE FROM service_options")
	db.Exec("DELETE FROM listings")

	ctx := context.Background()
	listings := repository.NewListingRepository(db)
	periods := repository.NewAvailabilityPeriodRepository(db)
	bookings := repository.NewBookingRepository(db)

	weekdays := domain.OperatingHours{
		"monday":    {Open: "09:00", Close: "18:00"},
		"tuesday":   {Open: "09:00", Close: "18:00"},
		"wednesday": {Open: "09:00", Close: "18:00"},
		"thursday":  {Open: "09:00", Close: "18:00"},
		"friday":    {Open: "09:00", Close: "18:00"},
	}

	log.Println("Creating listings...")

	haircut := &domain.Listing{
		ProviderID:      1,
		Title:           "Downtown Barbershop",
		Kind:            domain.ListingService,
		SlotDurationMin: 30,
		SlotPrice:       25,
		OperatingHours:  weekdays,
		ServiceOptions: []domain.ServiceOption{
			{Name: "Cut", DurationMin: 30, Price: 25},
			{Name: "Cut & Beard", DurationMin: 45, Price: 40},
			{Name: "Full Styling", DurationMin: 60, Price: 65},
		},
		Currency:       "USD",
		Timezone:       "America/New_York",
		AutoConfirm:    false,
		BookingEnabled: true,
	}
	mustCreateListing(ctx, listings, haircut)

	kayakTour := &domain.Listing{
		ProviderID:      2,
		Title:           "Sunset Kayak Tour",
		Kind:            domain.ListingExperience,
		SlotDurationMin: 120,
		SlotPrice:       80,
		OperatingHours: domain.OperatingHours{
			"saturday": {Open: "10:00", Close: "20:00"},
			"sunday":   {Open: "10:00", Close: "20:00"},
		},
		Currency:       "USD",
		Timezone:       "America/Los_Angeles",
		AutoConfirm:    true,
		BookingEnabled: true,
	}
	mustCreateListing(ctx, listings, kayakTour)

	cabin := &domain.Listing{
		ProviderID:     2,
		Title:          "Lakeside Cabin",
		Kind:           domain.ListingRental,
		RatePerUnit:    120,
		RateUnit:       domain.RateDaily,
		Currency:       "USD",
		Timezone:       "America/Chicago",
		AutoConfirm:    false,
		BookingEnabled: true,
	}
	mustCreateListing(ctx, listings, cabin)

	coworking := &domain.Listing{
		ProviderID:      3,
		Title:           "Coworking Desk Subscription",
		Kind:            domain.ListingSubscription,
		SlotDurationMin: 480,
		SlotPrice:       35,
		OperatingHours:  weekdays,
		Currency:        "EUR",
		Timezone:        "Europe/Berlin",
		AutoConfirm:     true,
		BookingEnabled:  true,
	}
	mustCreateListing(ctx, listings, coworking)

	log.Println("Declaring availability...")
	loc := cabin.Location()
	today := time.Now().In(loc)
	monthStart := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, loc)

	// Rentals default to closed: the cabin opens the next 60 days with a
	// maintenance week in the middle. Declarations supersede whole intersecting
	// periods, so the open stretches around the blocked week are separate.
	cabinPeriods := []domain.AvailabilityPeriod{
		{
			ListingID: cabin.ID,
			StartDate: monthStart,
			EndDate:   monthStart.AddDate(0, 0, 19),
			Status:    domain.PeriodAvailable,
		},
		{
			ListingID: cabin.ID,
			StartDate: monthStart.AddDate(0, 0, 20),
			EndDate:   monthStart.AddDate(0, 0, 26),
			Status:    domain.PeriodBlocked,
			Reason:    "maintenance",
		},
		{
			ListingID: cabin.ID,
			StartDate: monthStart.AddDate(0, 0, 27),
			EndDate:   monthStart.AddDate(0, 0, 59),
			Status:    domain.PeriodAvailable,
		},
	}
	for i := range cabinPeriods {
		if _, err := periods.Replace(ctx, &cabinPeriods[i]); err != nil {
			log.Fatal(err)
		}
	}

	log.Println("Creating a confirmed booking...")
	customerID := int64(10)
	nyLoc := haircut.Location()
	nextMonday := nextWeekday(time.Now().In(nyLoc), time.Monday)
	start := time.Date(nextMonday.Year(), nextMonday.Month(), nextMonday.Day(), 10, 0, 0, 0, nyLoc)
	b := &domain.Booking{
		ListingID:  haircut.ID,
		ProviderID: haircut.ProviderID,
		CustomerID: &customerID,
		StartTime:  start,
		EndTime:    start.Add(30 * time.Minute),
		TotalPrice: 25,
		Currency:   "USD",
		Status:     domain.BookingConfirmed,
	}
	if err := bookings.Create(ctx, b); err != nil {
		log.Fatal(err)
	}

	log.Println("Seed complete.")
}

func mustCreateListing(ctx context.Context, repo *repository.ListingRepository, l *domain.Listing) {
	if err := repo.Create(ctx, l); err != nil {
		log.Fatalf("create listing %q: %v", l.Title, err)
	}
	log.Printf("  listing %d: %s (%s)", l.ID, l.Title, l.Kind)
}

func nextWeekday(from time.Time, wd time.Weekday) time.Time {
	days := (int(wd) - int(from.Weekday()) + 7) % 7
	if days == 0 {
		days = 7
	}
	return from.AddDate(0, 0, days)
}
