// Package queue defines the message payloads exchanged over the
// broker and the background consumer that processes them.
package queue

// ReservationConfirmedEvent is published when a customer confirms a
// reservation.  It carries enough context for downstream consumers to
// log, notify or feed analytics without touching the primary database.
type ReservationConfirmedEvent struct {
	ReservationID uint64 `json:"reservation_id"`
	Code          string `json:"code"`
	UserID        uint64 `json:"user_id"`
	EventID       uint64 `json:"event_id"`
	EventTitle    string `json:"event_title"`
	Venue         string `json:"venue"`
	City          string `json:"city"`
	StartsAt      string `json:"starts_at"`
	Seats         int    `json:"seats"`
	AmountCents   int64  `json:"amount_cents"`
	ConfirmedAt   string `json:"confirmed_at"`
}
