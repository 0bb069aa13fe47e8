// Package policy centralizes authorization decisions as pure
// predicates over (actor, resource) pairs.  Keeping every ownership
// and role rule here prevents the rules from drifting apart between
// the event and reservation paths.
package policy

import (
	"github.com/Mohamedaitzaouit/systeme-de-gestion-des-reservations/internal/model"
)

// CanCreateEvents reports whether the actor may create events.
// Clients cannot; organizers and admins can.
func CanCreateEvents(actor model.Actor) bool {
	return actor.Role == model.RoleOrganizer || actor.Role == model.RoleAdmin
}

// IsOwnerOrAdmin reports whether the actor is the event's organizer or
// an admin.  This is the gate for every mutating event operation.
func IsOwnerOrAdmin(event model.Event, actor model.Actor) bool {
	return actor.Role == model.RoleAdmin || event.OrganizerID == actor.ID
}

// CanMutateReservation reports whether the actor may confirm or cancel
// the reservation.  Only the booking user may; there is deliberately
// no admin override on reservation state.
func CanMutateReservation(res model.Reservation, actor model.Actor) bool {
	return res.UserID == actor.ID
}

// CanViewReservation reports whether the actor may read the
// reservation: the booking user or an admin.
func CanViewReservation(res model.Reservation, actor model.Actor) bool {
	return actor.Role == model.RoleAdmin || res.UserID == actor.ID
}

// IsAdmin reports whether the actor holds the ADMIN role.
func IsAdmin(actor model.Actor) bool {
	return actor.Role == model.RoleAdmin
}
