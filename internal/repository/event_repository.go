package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Mohamedaitzaouit/systeme-de-gestion-des-reservations/internal/model"
)

// EventRepo persists events in the 'events' table.
type EventRepo struct{ DB *sql.DB }

func NewEventRepo(db *sql.DB) *EventRepo { return &EventRepo{DB: db} }

const eventCols = "id,title,description,category,starts_at,ends_at,venue,city,capacity_max,price_cents,organizer_id,status,created_at,updated_at"

func scanEvent(row interface{ Scan(...any) error }) (model.Event, error) {
	var e model.Event
	var category, status string
	err := row.Scan(&e.ID, &e.Title, &e.Description, &category, &e.StartsAt, &e.EndsAt,
		&e.Venue, &e.City, &e.CapacityMax, &e.PriceCents, &e.OrganizerID, &status,
		&e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return model.Event{}, err
	}
	e.Category = model.EventCategory(category)
	e.Status = model.EventStatus(status)
	return e, nil
}

// GetEvent fetches one event by id.
func (r *EventRepo) GetEvent(ctx context.Context, id uint64) (model.Event, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+eventCols+" FROM events WHERE id=? LIMIT 1", id)
	e, err := scanEvent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Event{}, ErrEventNotFound
	}
	return e, err
}

// SaveEvent inserts the event when its ID is zero, otherwise updates
// the existing row.
func (r *EventRepo) SaveEvent(ctx context.Context, e *model.Event) error {
	if e.ID == 0 {
		res, err := r.DB.ExecContext(ctx,
			"INSERT INTO events (title, description, category, starts_at, ends_at, venue, city, capacity_max, price_cents, organizer_id, status, created_at, updated_at) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)",
			e.Title, e.Description, string(e.Category), e.StartsAt, e.EndsAt, e.Venue, e.City,
			e.CapacityMax, e.PriceCents, e.OrganizerID, string(e.Status), e.CreatedAt, e.UpdatedAt)
		if err != nil {
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		e.ID = uint64(id)
		return nil
	}
	res, err := r.DB.ExecContext(ctx,
		"UPDATE events SET title=?, description=?, category=?, starts_at=?, ends_at=?, venue=?, city=?, capacity_max=?, price_cents=?, status=?, updated_at=? WHERE id=?",
		e.Title, e.Description, string(e.Category), e.StartsAt, e.EndsAt, e.Venue, e.City,
		e.CapacityMax, e.PriceCents, string(e.Status), e.UpdatedAt, e.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		var one int
		if err := r.DB.QueryRowContext(ctx, "SELECT 1 FROM events WHERE id=? LIMIT 1", e.ID).Scan(&one); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrEventNotFound
			}
			return err
		}
	}
	return nil
}

// DeleteEvent removes an event row.
func (r *EventRepo) DeleteEvent(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM events WHERE id=?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrEventNotFound
	}
	return nil
}

// ListEvents returns every event, soonest first.
func (r *EventRepo) ListEvents(ctx context.Context) ([]model.Event, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+eventCols+" FROM events ORDER BY starts_at ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectEvents(rows)
}

// ListEventsByOrganizer returns the events owned by one user.
func (r *EventRepo) ListEventsByOrganizer(ctx context.Context, organizerID uint64) ([]model.Event, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+eventCols+" FROM events WHERE organizer_id=? ORDER BY starts_at ASC", organizerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectEvents(rows)
}

// ListEventsByStatus returns the events in one lifecycle status.
func (r *EventRepo) ListEventsByStatus(ctx context.Context, status model.EventStatus) ([]model.Event, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+eventCols+" FROM events WHERE status=? ORDER BY starts_at ASC", string(status))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectEvents(rows)
}

func collectEvents(rows *sql.Rows) ([]model.Event, error) {
	var out []model.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
