package schedule

import (
	"errors"

	"bookable/internal/domain"
)

var (
	// ErrInvalidTransition means the requested status change is not an edge
	// of the lifecycle graph, including any attempt to leave a terminal state.
	ErrInvalidTransition = errors.New("invalid booking status transition")
	// ErrActorNotAllowed means the transition exists but the acting role may
	// not trigger it.
	ErrActorNotAllowed = errors.New("actor may not perform this transition")
)

type transition struct {
	from domain.BookingStatus
	to   domain.BookingStatus
}

// lifecycle lists every permitted transition and who may trigger it.
// Cancelling frees the booked interval immediately: cancelled bookings are
// excluded when the availability index is built. A booking's interval is
// never edited in place; a time change is cancel-and-rebook.
var lifecycle = map[transition][]domain.Role{
	{domain.BookingPending, domain.BookingConfirmed}:   {domain.RoleProvider},
	{domain.BookingPending, domain.BookingCancelled}:   {domain.RoleProvider, domain.RoleCustomer},
	{domain.BookingConfirmed, domain.BookingCancelled}: {domain.RoleProvider, domain.RoleCustomer},
	{domain.BookingConfirmed, domain.BookingCompleted}: {domain.RoleProvider},
	{domain.BookingConfirmed, domain.BookingNoShow}:    {domain.RoleProvider},
}

// CanTransition reports whether the status change is a lifecycle edge,
// regardless of actor.
func CanTransition(from, to domain.BookingStatus) bool {
	_, ok := lifecycle[transition{from, to}]
	return ok
}

// Transition validates a status change requested by the given actor role.
func Transition(from, to domain.BookingStatus, actor domain.Role) error {
	roles, ok := lifecycle[transition{from, to}]
	if !ok {
		return ErrInvalidTransition
	}
	for _, r := range roles {
		if r == actor {
			return nil
		}
	}
	return ErrActorNotAllowed
}
