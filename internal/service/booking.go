package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Mohamedaitzaouit/systeme-de-gestion-des-reservations/internal/codegen"
	"github.com/Mohamedaitzaouit/systeme-de-gestion-des-reservations/internal/model"
	"github.com/Mohamedaitzaouit/systeme-de-gestion-des-reservations/internal/policy"
	"github.com/Mohamedaitzaouit/systeme-de-gestion-des-reservations/internal/repository"
)

// maxCodeAttempts bounds the unique-code retry loop.  With 90000
// possible codes hitting the cap means the space is all but exhausted.
const maxCodeAttempts = 25

// BookingService is the reservation engine.  All capacity-changing
// writes on one event are serialized through a per-event mutex so the
// read-check-write window of CreateReservation cannot interleave and
// oversell the event.
type BookingService struct {
	events       EventStore
	reservations ReservationStore

	mu    sync.Mutex
	locks map[uint64]*sync.Mutex
}

// NewBookingService constructs a BookingService.
func NewBookingService(events EventStore, reservations ReservationStore) *BookingService {
	return &BookingService{
		events:       events,
		reservations: reservations,
		locks:        make(map[uint64]*sync.Mutex),
	}
}

// eventLock returns the mutex guarding writes on one event, creating
// it on first use.  Locks are never evicted; the map grows with the
// number of distinct events booked in this process, which is fine for
// the catalogue sizes involved.
func (s *BookingService) eventLock(eventID uint64) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[eventID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[eventID] = l
	}
	return l
}

// Create books seats on an event for the actor.  The reservation is
// created PENDING with a fresh unique code and the amount frozen at
// the event price of the moment.
func (s *BookingService) Create(ctx context.Context, eventID uint64, seats int, comment string, actor model.Actor) (model.Reservation, error) {
	if seats < model.MinSeatsPerReservation || seats > model.MaxSeatsPerReservation {
		return model.Reservation{}, BadRequest(fmt.Sprintf("seat count must be between %d and %d", model.MinSeatsPerReservation, model.MaxSeatsPerReservation))
	}

	e, err := s.events.GetEvent(ctx, eventID)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return model.Reservation{}, NotFound("event not found")
		}
		return model.Reservation{}, fmt.Errorf("get event: %w", err)
	}
	now := time.Now().UTC()
	if e.Status != model.EventPublished {
		return model.Reservation{}, BadRequest("this event is not available for booking")
	}
	if !e.StartsAt.After(now) {
		return model.Reservation{}, BadRequest("this event has already started")
	}

	// The lock is taken only once the event is known to exist, so the
	// lock map cannot be grown by requests for bogus ids.
	l := s.eventLock(eventID)
	l.Lock()
	defer l.Unlock()

	reserved, err := s.reservations.SumActiveSeats(ctx, eventID)
	if err != nil {
		return model.Reservation{}, fmt.Errorf("sum active seats: %w", err)
	}
	available := e.CapacityMax - reserved
	if seats > available {
		return model.Reservation{}, BadRequest(fmt.Sprintf("not enough seats available: %d remaining", available))
	}

	code, err := s.freshCode(ctx)
	if err != nil {
		return model.Reservation{}, err
	}

	r := model.Reservation{
		UserID:      actor.ID,
		EventID:     eventID,
		Seats:       seats,
		AmountCents: int64(seats) * e.PriceCents,
		Status:      model.ReservationPending,
		Code:        code,
		Comment:     comment,
		ReservedAt:  now,
		UpdatedAt:   now,
	}
	if err := s.reservations.SaveReservation(ctx, &r); err != nil {
		return model.Reservation{}, fmt.Errorf("save reservation: %w", err)
	}
	return r, nil
}

// freshCode draws random reservation codes until one is unused.
func (s *BookingService) freshCode(ctx context.Context) (string, error) {
	for i := 0; i < maxCodeAttempts; i++ {
		code, err := codegen.NewCode()
		if err != nil {
			return "", fmt.Errorf("generate code: %w", err)
		}
		exists, err := s.reservations.CodeExists(ctx, code)
		if err != nil {
			return "", fmt.Errorf("check code: %w", err)
		}
		if !exists {
			return code, nil
		}
	}
	return "", Conflict("could not allocate a reservation code")
}

// Confirm moves a PENDING reservation to CONFIRMED.  Only the booking
// user may confirm; there is no admin override on reservations.
func (s *BookingService) Confirm(ctx context.Context, id uint64, actor model.Actor) (model.Reservation, error) {
	r, err := s.load(ctx, id)
	if err != nil {
		return model.Reservation{}, err
	}
	if !policy.CanMutateReservation(r, actor) {
		return model.Reservation{}, Forbidden("only the booking user can confirm this reservation")
	}
	if r.Status != model.ReservationPending {
		return model.Reservation{}, BadRequest("only a pending reservation can be confirmed")
	}

	l := s.eventLock(r.EventID)
	l.Lock()
	defer l.Unlock()

	r.Status = model.ReservationConfirmed
	r.UpdatedAt = time.Now().UTC()
	if err := s.reservations.SaveReservation(ctx, &r); err != nil {
		return model.Reservation{}, fmt.Errorf("save reservation: %w", err)
	}
	return r, nil
}

// Cancel moves a reservation to CANCELLED, releasing its seats.  The
// booking user can cancel until 48 hours before the event start.
func (s *BookingService) Cancel(ctx context.Context, id uint64, actor model.Actor) (model.Reservation, error) {
	r, err := s.load(ctx, id)
	if err != nil {
		return model.Reservation{}, err
	}
	if !policy.CanMutateReservation(r, actor) {
		return model.Reservation{}, Forbidden("only the booking user can cancel this reservation")
	}
	if r.Status == model.ReservationCancelled {
		return model.Reservation{}, BadRequest("this reservation is already cancelled")
	}
	e, err := s.events.GetEvent(ctx, r.EventID)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return model.Reservation{}, NotFound("event not found")
		}
		return model.Reservation{}, fmt.Errorf("get event: %w", err)
	}
	if time.Now().UTC().After(e.StartsAt.Add(-model.CancellationWindow)) {
		return model.Reservation{}, BadRequest("the cancellation window has closed")
	}

	l := s.eventLock(r.EventID)
	l.Lock()
	defer l.Unlock()

	r.Status = model.ReservationCancelled
	r.UpdatedAt = time.Now().UTC()
	if err := s.reservations.SaveReservation(ctx, &r); err != nil {
		return model.Reservation{}, fmt.Errorf("save reservation: %w", err)
	}
	return r, nil
}

// Get returns a reservation visible to the actor: its owner or an
// admin.
func (s *BookingService) Get(ctx context.Context, id uint64, actor model.Actor) (model.Reservation, error) {
	r, err := s.load(ctx, id)
	if err != nil {
		return model.Reservation{}, err
	}
	if !policy.CanViewReservation(r, actor) {
		return model.Reservation{}, Forbidden("you are not allowed to view this reservation")
	}
	return r, nil
}

// FindByCode looks a reservation up by its public code, with the same
// visibility rule as Get.
func (s *BookingService) FindByCode(ctx context.Context, code string, actor model.Actor) (model.Reservation, error) {
	r, err := s.reservations.GetReservationByCode(ctx, code)
	if err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			return model.Reservation{}, NotFound("reservation not found")
		}
		return model.Reservation{}, fmt.Errorf("get reservation: %w", err)
	}
	if !policy.CanViewReservation(r, actor) {
		return model.Reservation{}, Forbidden("you are not allowed to view this reservation")
	}
	return r, nil
}

// ReservationSummary is the customer-facing recap of one reservation,
// joined with the event it books.
type ReservationSummary struct {
	Code        string    `json:"code"`
	EventTitle  string    `json:"event_title"`
	Venue       string    `json:"venue"`
	City        string    `json:"city"`
	StartsAt    time.Time `json:"starts_at"`
	Seats       int       `json:"seats"`
	AmountCents int64     `json:"amount_cents"`
	Status      string    `json:"status"`
}

// Summary looks a reservation up by code and joins in the booked
// event, with the same visibility rule as Get.
func (s *BookingService) Summary(ctx context.Context, code string, actor model.Actor) (ReservationSummary, error) {
	r, err := s.FindByCode(ctx, code, actor)
	if err != nil {
		return ReservationSummary{}, err
	}
	e, err := s.events.GetEvent(ctx, r.EventID)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return ReservationSummary{}, NotFound("event not found")
		}
		return ReservationSummary{}, fmt.Errorf("get event: %w", err)
	}
	return ReservationSummary{
		Code:        r.Code,
		EventTitle:  e.Title,
		Venue:       e.Venue,
		City:        e.City,
		StartsAt:    e.StartsAt,
		Seats:       r.Seats,
		AmountCents: r.AmountCents,
		Status:      string(r.Status),
	}, nil
}

// ListByUser returns the actor's own reservations, or any user's when
// the actor is an admin.
func (s *BookingService) ListByUser(ctx context.Context, userID uint64, actor model.Actor) ([]model.Reservation, error) {
	if userID != actor.ID && !policy.IsAdmin(actor) {
		return nil, Forbidden("you are not allowed to view these reservations")
	}
	return s.reservations.ListReservationsByUser(ctx, userID)
}

// ListByEvent returns the reservations on an event for its organizer
// or an admin.
func (s *BookingService) ListByEvent(ctx context.Context, eventID uint64, actor model.Actor) ([]model.Reservation, error) {
	e, err := s.events.GetEvent(ctx, eventID)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return nil, NotFound("event not found")
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if !policy.IsOwnerOrAdmin(e, actor) {
		return nil, Forbidden("you are not allowed to view these reservations")
	}
	return s.reservations.ListReservationsByEvent(ctx, eventID)
}

// ListAll returns every reservation on the platform.  Admin only.
func (s *BookingService) ListAll(ctx context.Context, actor model.Actor) ([]model.Reservation, error) {
	if !policy.IsAdmin(actor) {
		return nil, Forbidden("you are not allowed to view these reservations")
	}
	return s.reservations.ListReservations(ctx)
}

func (s *BookingService) load(ctx context.Context, id uint64) (model.Reservation, error) {
	r, err := s.reservations.GetReservation(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			return model.Reservation{}, NotFound("reservation not found")
		}
		return model.Reservation{}, fmt.Errorf("get reservation: %w", err)
	}
	return r, nil
}
