package model

import "time"

// ReservationStatus is the lifecycle state of a reservation.
type ReservationStatus string

// Reservation lifecycle states.  A reservation starts PENDING, may be
// CONFIRMED by its booking user, and may be CANCELLED from either
// state (subject to the cancellation window).  CANCELLED is terminal.
const (
	ReservationPending   ReservationStatus = "PENDING"
	ReservationConfirmed ReservationStatus = "CONFIRMED"
	ReservationCancelled ReservationStatus = "CANCELLED"
)

// reservationTransitions is the closed transition table for
// ReservationStatus.
var reservationTransitions = map[ReservationStatus][]ReservationStatus{
	ReservationPending:   {ReservationConfirmed, ReservationCancelled},
	ReservationConfirmed: {ReservationCancelled},
	ReservationCancelled: {},
}

// CanTransitionTo reports whether moving from s to next is a legal
// transition.
func (s ReservationStatus) CanTransitionTo(next ReservationStatus) bool {
	for _, t := range reservationTransitions[s] {
		if t == next {
			return true
		}
	}
	return false
}

// Seat count bounds enforced on every reservation.
const (
	MinSeatsPerReservation = 1
	MaxSeatsPerReservation = 10
)

// CancellationWindow is how long before an event's start a reservation
// may still be cancelled.  Inside the window cancellation is refused.
const CancellationWindow = 48 * time.Hour

// Reservation records a user's booking of seats against one event, as
// stored in the `reservations` table.
//
// Fields:
//  ID          – primary key identifier.
//  UserID      – user who booked.
//  EventID     – event being reserved.
//  Seats       – number of seats, 1..10 inclusive.
//  AmountCents – total price in cents, frozen at creation time as
//                Seats × the event's price at that instant.
//  Status      – PENDING, CONFIRMED or CANCELLED.
//  Code        – unique human-readable code (EVT-xxxxx).
//  Comment     – optional free-text comment from the booker.
//  ReservedAt  – creation timestamp.
//  UpdatedAt   – last status change timestamp.
type Reservation struct {
	ID          uint64            // reservations.id
	UserID      uint64            // reservations.user_id
	EventID     uint64            // reservations.event_id
	Seats       int               // reservations.seats
	AmountCents int64             // reservations.amount_cents
	Status      ReservationStatus // reservations.status
	Code        string            // reservations.code
	Comment     string            // reservations.comment
	ReservedAt  time.Time         // reservations.reserved_at
	UpdatedAt   time.Time         // reservations.updated_at
}

// Active reports whether the reservation counts toward capacity and
// revenue, i.e. it is not cancelled.
func (r Reservation) Active() bool {
	return r.Status != ReservationCancelled
}
