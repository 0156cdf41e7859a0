package notification

import (
	"context"
	"log"
	"time"

	"bookable/internal/domain"
)

// Event is one booking notification pushed over the hub.
type Event struct {
	Type      string    `json:"type"`
	BookingID int64     `json:"booking_id"`
	ListingID int64     `json:"listing_id"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	OldStatus string    `json:"old_status,omitempty"`
	NewStatus string    `json:"new_status"`
}

// Service pushes booking events to the provider and, when registered, the
// customer. It satisfies the booking module's NotificationSender; delivery
// is best-effort and failures are only logged, never returned to the
// scheduling decision that triggered them.
type Service struct {
	hub *Hub
}

func NewService(hub *Hub) *Service {
	return &Service{hub: hub}
}

func (s *Service) NotifyBookingCreated(ctx context.Context, b *domain.Booking) error {
	s.push(b, Event{
		Type:      "booking.created",
		BookingID: b.ID,
		ListingID: b.ListingID,
		StartTime: b.StartTime,
		EndTime:   b.EndTime,
		NewStatus: string(b.Status),
	})
	return nil
}

func (s *Service) NotifyStatusChanged(ctx context.Context, b *domain.Booking, oldStatus, newStatus domain.BookingStatus) error {
	s.push(b, Event{
		Type:      "booking.status_changed",
		BookingID: b.ID,
		ListingID: b.ListingID,
		StartTime: b.StartTime,
		EndTime:   b.EndTime,
		OldStatus: string(oldStatus),
		NewStatus: string(newStatus),
	})
	return nil
}

func (s *Service) push(b *domain.Booking, ev Event) {
	if !s.hub.SendToUser(b.ProviderID, ev) {
		log.Printf("notification_skipped recipient=provider user_id=%d booking_id=%d type=%s", b.ProviderID, ev.BookingID, ev.Type)
	}
	if b.CustomerID != nil {
		if !s.hub.SendToUser(*b.CustomerID, ev) {
			log.Printf("notification_skipped recipient=customer user_id=%d booking_id=%d type=%s", *b.CustomerID, ev.BookingID, ev.Type)
		}
	}
}
