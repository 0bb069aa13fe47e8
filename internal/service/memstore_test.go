package service

import (
	"context"
	"sync"

	"github.com/Mohamedaitzaouit/systeme-de-gestion-des-reservations/internal/model"
	"github.com/Mohamedaitzaouit/systeme-de-gestion-des-reservations/internal/repository"
)

// memStore is an in-memory implementation of the store interfaces used
// by the service tests.  All methods are safe for concurrent use.
type memStore struct {
	mu           sync.Mutex
	nextEventID  uint64
	nextResID    uint64
	nextUserID   uint64
	events       map[uint64]model.Event
	reservations map[uint64]model.Reservation
	users        map[uint64]model.User
}

func newMemStore() *memStore {
	return &memStore{
		events:       make(map[uint64]model.Event),
		reservations: make(map[uint64]model.Reservation),
		users:        make(map[uint64]model.User),
	}
}

func (m *memStore) GetEvent(_ context.Context, id uint64) (model.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.events[id]
	if !ok {
		return model.Event{}, repository.ErrEventNotFound
	}
	return e, nil
}

func (m *memStore) SaveEvent(_ context.Context, e *model.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e.ID == 0 {
		m.nextEventID++
		e.ID = m.nextEventID
	}
	m.events[e.ID] = *e
	return nil
}

func (m *memStore) DeleteEvent(_ context.Context, id uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.events[id]; !ok {
		return repository.ErrEventNotFound
	}
	delete(m.events, id)
	return nil
}

func (m *memStore) ListEvents(_ context.Context) ([]model.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Event, 0, len(m.events))
	for _, e := range m.events {
		out = append(out, e)
	}
	return out, nil
}

func (m *memStore) ListEventsByOrganizer(_ context.Context, organizerID uint64) ([]model.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Event
	for _, e := range m.events {
		if e.OrganizerID == organizerID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *memStore) ListEventsByStatus(_ context.Context, status model.EventStatus) ([]model.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Event
	for _, e := range m.events {
		if e.Status == status {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *memStore) GetReservation(_ context.Context, id uint64) (model.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.reservations[id]
	if !ok {
		return model.Reservation{}, repository.ErrReservationNotFound
	}
	return r, nil
}

func (m *memStore) GetReservationByCode(_ context.Context, code string) (model.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.reservations {
		if r.Code == code {
			return r, nil
		}
	}
	return model.Reservation{}, repository.ErrReservationNotFound
}

func (m *memStore) SaveReservation(_ context.Context, r *model.Reservation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r.ID == 0 {
		m.nextResID++
		r.ID = m.nextResID
	}
	m.reservations[r.ID] = *r
	return nil
}

func (m *memStore) SumActiveSeats(_ context.Context, eventID uint64) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sum := 0
	for _, r := range m.reservations {
		if r.EventID == eventID && r.Active() {
			sum += r.Seats
		}
	}
	return sum, nil
}

func (m *memStore) CountByEvent(_ context.Context, eventID uint64) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, r := range m.reservations {
		if r.EventID == eventID {
			n++
		}
	}
	return n, nil
}

func (m *memStore) CodeExists(_ context.Context, code string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.reservations {
		if r.Code == code {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) ListReservationsByEvent(_ context.Context, eventID uint64) ([]model.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Reservation
	for _, r := range m.reservations {
		if r.EventID == eventID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memStore) ListReservationsByUser(_ context.Context, userID uint64) ([]model.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Reservation
	for _, r := range m.reservations {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memStore) ListReservations(_ context.Context) ([]model.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Reservation, 0, len(m.reservations))
	for _, r := range m.reservations {
		out = append(out, r)
	}
	return out, nil
}

func (m *memStore) GetUser(_ context.Context, id uint64) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return model.User{}, repository.ErrUserNotFound
	}
	return u, nil
}

func (m *memStore) GetUserByEmail(_ context.Context, email string) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return model.User{}, repository.ErrUserNotFound
}

func (m *memStore) CreateUser(_ context.Context, u *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return repository.ErrEmailExists
		}
	}
	m.nextUserID++
	u.ID = m.nextUserID
	m.users[u.ID] = *u
	return nil
}

func (m *memStore) UpdateUser(_ context.Context, u *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[u.ID]; !ok {
		return repository.ErrUserNotFound
	}
	for id, existing := range m.users {
		if id != u.ID && existing.Email == u.Email {
			return repository.ErrEmailExists
		}
	}
	m.users[u.ID] = *u
	return nil
}

func (m *memStore) ListUsers(_ context.Context) ([]model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, u)
	}
	return out, nil
}

func (m *memStore) ListUsersByRole(_ context.Context, role model.Role) ([]model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.User
	for _, u := range m.users {
		if u.Role == role {
			out = append(out, u)
		}
	}
	return out, nil
}
