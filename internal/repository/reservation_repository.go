package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Mohamedaitzaouit/systeme-de-gestion-des-reservations/internal/model"
)

// ReservationRepo persists bookings in the 'reservations' table.
type ReservationRepo struct{ DB *sql.DB }

func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{DB: db} }

const reservationCols = "id,user_id,event_id,seats,amount_cents,status,code,comment,reserved_at,updated_at"

func scanReservation(row interface{ Scan(...any) error }) (model.Reservation, error) {
	var res model.Reservation
	var status string
	err := row.Scan(&res.ID, &res.UserID, &res.EventID, &res.Seats, &res.AmountCents,
		&status, &res.Code, &res.Comment, &res.ReservedAt, &res.UpdatedAt)
	if err != nil {
		return model.Reservation{}, err
	}
	res.Status = model.ReservationStatus(status)
	return res, nil
}

// GetReservation fetches one reservation by id.
func (r *ReservationRepo) GetReservation(ctx context.Context, id uint64) (model.Reservation, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+reservationCols+" FROM reservations WHERE id=? LIMIT 1", id)
	res, err := scanReservation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Reservation{}, ErrReservationNotFound
	}
	return res, err
}

// GetReservationByCode fetches one reservation by its public code.
func (r *ReservationRepo) GetReservationByCode(ctx context.Context, code string) (model.Reservation, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+reservationCols+" FROM reservations WHERE code=? LIMIT 1", code)
	res, err := scanReservation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Reservation{}, ErrReservationNotFound
	}
	return res, err
}

// SaveReservation inserts the reservation when its ID is zero,
// otherwise updates the existing row.
func (r *ReservationRepo) SaveReservation(ctx context.Context, res *model.Reservation) error {
	if res.ID == 0 {
		out, err := r.DB.ExecContext(ctx,
			"INSERT INTO reservations (user_id, event_id, seats, amount_cents, status, code, comment, reserved_at, updated_at) VALUES (?,?,?,?,?,?,?,?,?)",
			res.UserID, res.EventID, res.Seats, res.AmountCents, string(res.Status),
			res.Code, res.Comment, res.ReservedAt, res.UpdatedAt)
		if err != nil {
			return err
		}
		id, err := out.LastInsertId()
		if err != nil {
			return err
		}
		res.ID = uint64(id)
		return nil
	}
	out, err := r.DB.ExecContext(ctx,
		"UPDATE reservations SET seats=?, amount_cents=?, status=?, comment=?, updated_at=? WHERE id=?",
		res.Seats, res.AmountCents, string(res.Status), res.Comment, res.UpdatedAt, res.ID)
	if err != nil {
		return err
	}
	n, err := out.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		var one int
		if err := r.DB.QueryRowContext(ctx, "SELECT 1 FROM reservations WHERE id=? LIMIT 1", res.ID).Scan(&one); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrReservationNotFound
			}
			return err
		}
	}
	return nil
}

// SumActiveSeats returns the total of seat counts held by non-cancelled
// reservations on the event.  This is the quantity the capacity check
// compares against.
func (r *ReservationRepo) SumActiveSeats(ctx context.Context, eventID uint64) (int, error) {
	var sum int
	err := r.DB.QueryRowContext(ctx,
		"SELECT COALESCE(SUM(seats),0) FROM reservations WHERE event_id=? AND status<>?",
		eventID, string(model.ReservationCancelled)).Scan(&sum)
	return sum, err
}

// CountByEvent returns how many reservation rows reference the event,
// regardless of status.
func (r *ReservationRepo) CountByEvent(ctx context.Context, eventID uint64) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM reservations WHERE event_id=?", eventID).Scan(&n)
	return n, err
}

// CodeExists reports whether a reservation already holds the code.
func (r *ReservationRepo) CodeExists(ctx context.Context, code string) (bool, error) {
	var one int
	err := r.DB.QueryRowContext(ctx,
		"SELECT 1 FROM reservations WHERE code=? LIMIT 1", code).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ListReservationsByEvent returns the reservations on one event,
// newest first.
func (r *ReservationRepo) ListReservationsByEvent(ctx context.Context, eventID uint64) ([]model.Reservation, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+reservationCols+" FROM reservations WHERE event_id=? ORDER BY reserved_at DESC", eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectReservations(rows)
}

// ListReservationsByUser returns one user's reservations, newest first.
func (r *ReservationRepo) ListReservationsByUser(ctx context.Context, userID uint64) ([]model.Reservation, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+reservationCols+" FROM reservations WHERE user_id=? ORDER BY reserved_at DESC", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectReservations(rows)
}

// ListReservations returns every reservation, newest first.
func (r *ReservationRepo) ListReservations(ctx context.Context) ([]model.Reservation, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+reservationCols+" FROM reservations ORDER BY reserved_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectReservations(rows)
}

func collectReservations(rows *sql.Rows) ([]model.Reservation, error) {
	var out []model.Reservation
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, rows.Err()
}
