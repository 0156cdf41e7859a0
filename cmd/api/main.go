package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"bookable/internal/config"
	"bookable/internal/database"
	"bookable/internal/middleware"
	"bookable/internal/modules/booking"
	"bookable/internal/modules/catalog"
	"bookable/internal/modules/notification"
	"bookable/internal/pkg/clock"
	jwtsvc "bookable/internal/pkg/jwt"
	"bookable/internal/repository"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	if err := repository.AutoMigrate(db); err != nil {
		log.Fatal(err)
	}

	listingRepo := repository.NewListingRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	periodRepo := repository.NewAvailabilityPeriodRepository(db)

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL)

	hub := notification.NewHub()
	defer hub.Close()
	notifier := notification.NewService(hub)
	notificationHandler := notification.NewHandler(hub)

	catalogService := catalog.NewService(listingRepo, periodRepo)
	catalogHandler := catalog.NewHandler(catalogService)

	bookingService := booking.NewService(listingRepo, bookingRepo, periodRepo, notifier, clock.System{})
	bookingHandler := booking.NewHandler(bookingService)

	r := gin.Default()
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorLogger())

	v1 := r.Group("/api/v1")
	{
		// Public: browsing listings, their declared periods, and slot
		// availability needs no account. Proposing a booking identifies the
		// actor when a token is present and books as a guest otherwise.
		public := v1.Group("/")
		public.Use(middleware.OptionalAuth(j))
		{
			catalogHandler.RegisterRoutes(public)
			bookingHandler.RegisterPublicRoutes(public)
		}

		// Lifecycle transitions and booking lists need a known actor.
		protected := v1.Group("/")
		protected.Use(middleware.Auth(j))
		{
			bookingHandler.RegisterProtectedRoutes(protected)
			catalogHandler.RegisterProviderRoutes(protected)
			notificationHandler.RegisterRoutes(protected)
		}
	}

	if err := r.Run(cfg.HTTPAddr); err != nil {
		log.Fatal(err)
	}
}
