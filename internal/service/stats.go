package service

import (
	"context"
	"fmt"

	"github.com/Mohamedaitzaouit/systeme-de-gestion-des-reservations/internal/model"
)

// OrganizerStats aggregates the events and bookings of one organizer.
// Revenue counts non-cancelled reservations only.
type OrganizerStats struct {
	TotalEvents       int   `json:"total_events"`
	PublishedEvents   int   `json:"published_events"`
	DraftEvents       int   `json:"draft_events"`
	CancelledEvents   int   `json:"cancelled_events"`
	FinishedEvents    int   `json:"finished_events"`
	TotalReservations int   `json:"total_reservations"`
	RevenueCents      int64 `json:"revenue_cents"`
}

// GlobalStats is the admin-wide reservation breakdown.
type GlobalStats struct {
	TotalReservations     int   `json:"total_reservations"`
	ConfirmedReservations int   `json:"confirmed_reservations"`
	PendingReservations   int   `json:"pending_reservations"`
	CancelledReservations int   `json:"cancelled_reservations"`
	RevenueCents          int64 `json:"revenue_cents"`
}

// UserStats summarizes one customer's booking activity.  Spending
// counts confirmed reservations only.
type UserStats struct {
	TotalReservations int   `json:"total_reservations"`
	EventsAttended    int   `json:"events_attended"`
	SpentCents        int64 `json:"spent_cents"`
}

// StatsService computes the reporting aggregates.  Cancelled
// reservations never contribute to revenue or occupancy, so cancelling
// and rebooking the same seats leaves the totals unchanged.
type StatsService struct {
	events       EventStore
	reservations ReservationStore
}

// NewStatsService constructs a StatsService.
func NewStatsService(events EventStore, reservations ReservationStore) *StatsService {
	return &StatsService{events: events, reservations: reservations}
}

// Organizer computes the stats of one organizer's events.
func (s *StatsService) Organizer(ctx context.Context, organizerID uint64) (OrganizerStats, error) {
	events, err := s.events.ListEventsByOrganizer(ctx, organizerID)
	if err != nil {
		return OrganizerStats{}, fmt.Errorf("list events: %w", err)
	}
	var st OrganizerStats
	st.TotalEvents = len(events)
	for _, e := range events {
		switch e.Status {
		case model.EventPublished:
			st.PublishedEvents++
		case model.EventDraft:
			st.DraftEvents++
		case model.EventCancelled:
			st.CancelledEvents++
		case model.EventFinished:
			st.FinishedEvents++
		}
		rs, err := s.reservations.ListReservationsByEvent(ctx, e.ID)
		if err != nil {
			return OrganizerStats{}, fmt.Errorf("list reservations: %w", err)
		}
		for _, r := range rs {
			st.TotalReservations++
			if r.Active() {
				st.RevenueCents += r.AmountCents
			}
		}
	}
	return st, nil
}

// Global computes the platform-wide reservation breakdown.
func (s *StatsService) Global(ctx context.Context) (GlobalStats, error) {
	rs, err := s.reservations.ListReservations(ctx)
	if err != nil {
		return GlobalStats{}, fmt.Errorf("list reservations: %w", err)
	}
	var st GlobalStats
	st.TotalReservations = len(rs)
	for _, r := range rs {
		switch r.Status {
		case model.ReservationConfirmed:
			st.ConfirmedReservations++
			st.RevenueCents += r.AmountCents
		case model.ReservationPending:
			st.PendingReservations++
			st.RevenueCents += r.AmountCents
		case model.ReservationCancelled:
			st.CancelledReservations++
		}
	}
	return st, nil
}

// User computes one customer's booking summary.
func (s *StatsService) User(ctx context.Context, userID uint64) (UserStats, error) {
	rs, err := s.reservations.ListReservationsByUser(ctx, userID)
	if err != nil {
		return UserStats{}, fmt.Errorf("list reservations: %w", err)
	}
	var st UserStats
	st.TotalReservations = len(rs)
	events := make(map[uint64]struct{})
	for _, r := range rs {
		if r.Status == model.ReservationConfirmed {
			st.SpentCents += r.AmountCents
			events[r.EventID] = struct{}{}
		}
	}
	st.EventsAttended = len(events)
	return st, nil
}
