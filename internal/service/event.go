package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Mohamedaitzaouit/systeme-de-gestion-des-reservations/internal/model"
	"github.com/Mohamedaitzaouit/systeme-de-gestion-des-reservations/internal/policy"
	"github.com/Mohamedaitzaouit/systeme-de-gestion-des-reservations/internal/repository"
)

// EventInput carries the mutable fields of an event for create and
// update operations.  Status, organizer and timestamps are never
// caller-controlled.
type EventInput struct {
	Title       string
	Description string
	Category    model.EventCategory
	StartsAt    time.Time
	EndsAt      time.Time
	Venue       string
	City        string
	CapacityMax int
	PriceCents  int64
}

// EventSearch holds the optional filters of a public event search.
// Zero values mean "no constraint"; MaxPriceCents uses a negative
// value for "unbounded" so that a zero maximum remains expressible.
type EventSearch struct {
	Category      model.EventCategory
	City          string
	Keyword       string
	MinPriceCents int64
	MaxPriceCents int64
}

// EventService is the event lifecycle manager.  It owns the DRAFT →
// PUBLISHED → CANCELLED/FINISHED state machine and every read query
// over events.
type EventService struct {
	events       EventStore
	reservations ReservationStore
}

// NewEventService constructs an EventService.
func NewEventService(events EventStore, reservations ReservationStore) *EventService {
	return &EventService{events: events, reservations: reservations}
}

func validateEventInput(in EventInput) error {
	if strings.TrimSpace(in.Title) == "" {
		return BadRequest("title is required")
	}
	if in.EndsAt.Before(in.StartsAt) {
		return BadRequest("end time must not be before start time")
	}
	if in.CapacityMax <= 0 {
		return BadRequest("capacity must be positive")
	}
	if in.PriceCents < 0 {
		return BadRequest("price must not be negative")
	}
	return nil
}

// Create creates a new DRAFT event owned by the actor.  Clients may
// not create events.
func (s *EventService) Create(ctx context.Context, in EventInput, actor model.Actor) (model.Event, error) {
	if !policy.CanCreateEvents(actor) {
		return model.Event{}, Forbidden("only organizers and admins can create events")
	}
	if err := validateEventInput(in); err != nil {
		return model.Event{}, err
	}
	now := time.Now().UTC()
	e := model.Event{
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Category:    in.Category,
		StartsAt:    in.StartsAt.UTC(),
		EndsAt:      in.EndsAt.UTC(),
		Venue:       in.Venue,
		City:        in.City,
		CapacityMax: in.CapacityMax,
		PriceCents:  in.PriceCents,
		OrganizerID: actor.ID,
		Status:      model.EventDraft,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.events.SaveEvent(ctx, &e); err != nil {
		return model.Event{}, fmt.Errorf("save event: %w", err)
	}
	return e, nil
}

// Update overwrites the mutable fields of an event.  A FINISHED event
// is immutable; only the organizer or an admin may update.
func (s *EventService) Update(ctx context.Context, id uint64, in EventInput, actor model.Actor) (model.Event, error) {
	e, err := s.load(ctx, id)
	if err != nil {
		return model.Event{}, err
	}
	if e.Status == model.EventFinished {
		return model.Event{}, BadRequest("a finished event cannot be modified")
	}
	if !policy.IsOwnerOrAdmin(e, actor) {
		return model.Event{}, Forbidden("you are not allowed to modify this event")
	}
	if err := validateEventInput(in); err != nil {
		return model.Event{}, err
	}
	e.Title = strings.TrimSpace(in.Title)
	e.Description = in.Description
	e.Category = in.Category
	e.StartsAt = in.StartsAt.UTC()
	e.EndsAt = in.EndsAt.UTC()
	e.Venue = in.Venue
	e.City = in.City
	e.CapacityMax = in.CapacityMax
	e.PriceCents = in.PriceCents
	e.UpdatedAt = time.Now().UTC()
	if err := s.events.SaveEvent(ctx, &e); err != nil {
		return model.Event{}, fmt.Errorf("save event: %w", err)
	}
	return e, nil
}

// Publish transitions a DRAFT event to PUBLISHED.
func (s *EventService) Publish(ctx context.Context, id uint64, actor model.Actor) (model.Event, error) {
	e, err := s.load(ctx, id)
	if err != nil {
		return model.Event{}, err
	}
	if !policy.IsOwnerOrAdmin(e, actor) {
		return model.Event{}, Forbidden("you are not allowed to publish this event")
	}
	if !e.Status.CanTransitionTo(model.EventPublished) {
		return model.Event{}, BadRequest("only a draft event can be published")
	}
	e.Status = model.EventPublished
	e.UpdatedAt = time.Now().UTC()
	if err := s.events.SaveEvent(ctx, &e); err != nil {
		return model.Event{}, fmt.Errorf("save event: %w", err)
	}
	return e, nil
}

// Cancel transitions an event to CANCELLED.  The transition has no
// guard on the current status beyond existence and ownership, except
// that FINISHED is terminal and immutable.  Cancelling an already
// cancelled event is a no-op.
func (s *EventService) Cancel(ctx context.Context, id uint64, actor model.Actor) (model.Event, error) {
	e, err := s.load(ctx, id)
	if err != nil {
		return model.Event{}, err
	}
	if !policy.IsOwnerOrAdmin(e, actor) {
		return model.Event{}, Forbidden("you are not allowed to cancel this event")
	}
	if e.Status == model.EventFinished {
		return model.Event{}, BadRequest("a finished event cannot be cancelled")
	}
	if e.Status == model.EventCancelled {
		return e, nil
	}
	e.Status = model.EventCancelled
	e.UpdatedAt = time.Now().UTC()
	if err := s.events.SaveEvent(ctx, &e); err != nil {
		return model.Event{}, fmt.Errorf("save event: %w", err)
	}
	return e, nil
}

// Delete removes an event that has no reservations attached,
// regardless of their status.
func (s *EventService) Delete(ctx context.Context, id uint64, actor model.Actor) error {
	e, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if !policy.IsOwnerOrAdmin(e, actor) {
		return Forbidden("you are not allowed to delete this event")
	}
	n, err := s.reservations.CountByEvent(ctx, id)
	if err != nil {
		return fmt.Errorf("count reservations: %w", err)
	}
	if n > 0 {
		return BadRequest("an event with reservations cannot be deleted")
	}
	if err := s.events.DeleteEvent(ctx, id); err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	return nil
}

// Get returns a single event by id.
func (s *EventService) Get(ctx context.Context, id uint64) (model.Event, error) {
	return s.load(ctx, id)
}

// List returns all events.
func (s *EventService) List(ctx context.Context) ([]model.Event, error) {
	return s.events.ListEvents(ctx)
}

// ListByOrganizer returns the events owned by a user.
func (s *EventService) ListByOrganizer(ctx context.Context, organizerID uint64) ([]model.Event, error) {
	return s.events.ListEventsByOrganizer(ctx, organizerID)
}

// ListAvailable returns the events currently open for booking:
// PUBLISHED and not yet started.
func (s *EventService) ListAvailable(ctx context.Context) ([]model.Event, error) {
	published, err := s.events.ListEventsByStatus(ctx, model.EventPublished)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	out := make([]model.Event, 0, len(published))
	for _, e := range published {
		if e.StartsAt.After(now) {
			out = append(out, e)
		}
	}
	return out, nil
}

// Search filters the available events by category, city, keyword and
// price bounds.
func (s *EventService) Search(ctx context.Context, q EventSearch) ([]model.Event, error) {
	available, err := s.ListAvailable(ctx)
	if err != nil {
		return nil, err
	}
	city := strings.ToLower(strings.TrimSpace(q.City))
	keyword := strings.ToLower(strings.TrimSpace(q.Keyword))
	out := make([]model.Event, 0, len(available))
	for _, e := range available {
		if q.Category != "" && e.Category != q.Category {
			continue
		}
		if city != "" && !strings.Contains(strings.ToLower(e.City), city) {
			continue
		}
		if keyword != "" && !strings.Contains(strings.ToLower(e.Title), keyword) {
			continue
		}
		if e.PriceCents < q.MinPriceCents {
			continue
		}
		if q.MaxPriceCents >= 0 && e.PriceCents > q.MaxPriceCents {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

// Popular returns up to limit available events ordered by how many
// reservations they carry, most first.
func (s *EventService) Popular(ctx context.Context, limit int) ([]model.Event, error) {
	available, err := s.ListAvailable(ctx)
	if err != nil {
		return nil, err
	}
	counts := make(map[uint64]int, len(available))
	for _, e := range available {
		n, err := s.reservations.CountByEvent(ctx, e.ID)
		if err != nil {
			return nil, fmt.Errorf("count reservations: %w", err)
		}
		counts[e.ID] = n
	}
	sort.SliceStable(available, func(i, j int) bool {
		return counts[available[i].ID] > counts[available[j].ID]
	})
	if limit > 0 && len(available) > limit {
		available = available[:limit]
	}
	return available, nil
}

// AvailableSeats returns how many seats remain bookable on the event:
// capacity minus the live sum of non-cancelled reservation seats.
func (s *EventService) AvailableSeats(ctx context.Context, id uint64) (int, error) {
	e, err := s.load(ctx, id)
	if err != nil {
		return 0, err
	}
	reserved, err := s.reservations.SumActiveSeats(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("sum active seats: %w", err)
	}
	return e.CapacityMax - reserved, nil
}

// FinishElapsed marks every PUBLISHED event whose end time has passed
// as FINISHED and returns how many events were transitioned.  It is
// driven by a periodic job outside the request path; no request-time
// operation moves an event into FINISHED.
func (s *EventService) FinishElapsed(ctx context.Context, now time.Time) (int, error) {
	published, err := s.events.ListEventsByStatus(ctx, model.EventPublished)
	if err != nil {
		return 0, err
	}
	finished := 0
	for _, e := range published {
		if e.EndsAt.After(now) {
			continue
		}
		e.Status = model.EventFinished
		e.UpdatedAt = now.UTC()
		if err := s.events.SaveEvent(ctx, &e); err != nil {
			return finished, fmt.Errorf("save event: %w", err)
		}
		finished++
	}
	return finished, nil
}

// load fetches an event, mapping the store sentinel to a NotFound
// domain error.
func (s *EventService) load(ctx context.Context, id uint64) (model.Event, error) {
	e, err := s.events.GetEvent(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return model.Event{}, NotFound("event not found")
		}
		return model.Event{}, fmt.Errorf("get event: %w", err)
	}
	return e, nil
}
