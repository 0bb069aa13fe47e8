package service

import (
	"context"

	"github.com/Mohamedaitzaouit/systeme-de-gestion-des-reservations/internal/model"
)

// The store interfaces below are the persistence contract the core
// consumes.  The MySQL repositories implement them; tests substitute
// an in-memory fake.  Lookup methods return the repository sentinels
// (repository.ErrEventNotFound etc.) when the record is missing, and
// CreateUser returns repository.ErrEmailExists on a duplicate email.

// EventStore persists events.
type EventStore interface {
	// GetEvent returns the event with the given id.
	GetEvent(ctx context.Context, id uint64) (model.Event, error)
	// SaveEvent inserts the event when its ID is zero (populating the
	// generated id) and updates it otherwise.
	SaveEvent(ctx context.Context, e *model.Event) error
	// DeleteEvent removes the event row.
	DeleteEvent(ctx context.Context, id uint64) error
	// ListEvents returns all events, newest first.
	ListEvents(ctx context.Context) ([]model.Event, error)
	// ListEventsByOrganizer returns the events owned by a user.
	ListEventsByOrganizer(ctx context.Context, organizerID uint64) ([]model.Event, error)
	// ListEventsByStatus returns the events in a given lifecycle state.
	ListEventsByStatus(ctx context.Context, status model.EventStatus) ([]model.Event, error)
}

// ReservationStore persists reservations and answers the aggregate
// queries the booking engine relies on.
type ReservationStore interface {
	// GetReservation returns the reservation with the given id.
	GetReservation(ctx context.Context, id uint64) (model.Reservation, error)
	// GetReservationByCode returns the reservation with the given code.
	GetReservationByCode(ctx context.Context, code string) (model.Reservation, error)
	// SaveReservation inserts when ID is zero, updates otherwise.
	SaveReservation(ctx context.Context, r *model.Reservation) error
	// SumActiveSeats returns the total seats of non-cancelled
	// reservations on the event.  This is the live sum backing the
	// capacity invariant; cancelling a reservation frees capacity
	// simply by dropping out of this sum.
	SumActiveSeats(ctx context.Context, eventID uint64) (int, error)
	// CountByEvent returns the number of reservations of any status
	// referencing the event.
	CountByEvent(ctx context.Context, eventID uint64) (int, error)
	// CodeExists reports whether a reservation with the code exists.
	CodeExists(ctx context.Context, code string) (bool, error)
	// ListReservationsByEvent returns the reservations on an event.
	ListReservationsByEvent(ctx context.Context, eventID uint64) ([]model.Reservation, error)
	// ListReservationsByUser returns a user's reservations.
	ListReservationsByUser(ctx context.Context, userID uint64) ([]model.Reservation, error)
	// ListReservations returns every reservation (admin views).
	ListReservations(ctx context.Context) ([]model.Reservation, error)
}

// UserStore persists user accounts.
type UserStore interface {
	// GetUser returns the user with the given id.
	GetUser(ctx context.Context, id uint64) (model.User, error)
	// GetUserByEmail returns the user with the given (lowercased)
	// email address.
	GetUserByEmail(ctx context.Context, email string) (model.User, error)
	// CreateUser inserts a new user, populating the generated id.
	CreateUser(ctx context.Context, u *model.User) error
	// UpdateUser persists changes to an existing user.
	UpdateUser(ctx context.Context, u *model.User) error
	// ListUsers returns all users.
	ListUsers(ctx context.Context) ([]model.User, error)
	// ListUsersByRole returns the users holding a role.
	ListUsersByRole(ctx context.Context, role model.Role) ([]model.User, error)
}
