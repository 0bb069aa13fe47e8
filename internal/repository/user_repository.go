package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/Mohamedaitzaouit/systeme-de-gestion-des-reservations/internal/model"
)

// UserRepo persists accounts in the 'users' table.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userCols = "id,first_name,last_name,email,password_hash,role,phone,is_active,registered_at"

func scanUser(row interface{ Scan(...any) error }) (model.User, error) {
	var u model.User
	var role string
	err := row.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.PasswordHash, &role, &u.Phone, &u.IsActive, &u.RegisteredAt)
	if err != nil {
		return model.User{}, err
	}
	u.Role = model.Role(role)
	return u, nil
}

// CreateUser inserts the account and fills in its generated ID.
func (r *UserRepo) CreateUser(ctx context.Context, u *model.User) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (first_name, last_name, email, password_hash, role, phone, is_active, registered_at) VALUES (?,?,?,?,?,?,?,?)",
		u.FirstName, u.LastName, u.Email, u.PasswordHash, string(u.Role), u.Phone, u.IsActive, u.RegisteredAt)
	if err != nil {
		// MySQL duplicate-key violation on the unique email index.
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrEmailExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	u.ID = uint64(id)
	return nil
}

// GetUser fetches an account by id.
func (r *UserRepo) GetUser(ctx context.Context, id uint64) (model.User, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+userCols+" FROM users WHERE id=? LIMIT 1", id)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrUserNotFound
	}
	return u, err
}

// GetUserByEmail fetches an account by normalized email.
func (r *UserRepo) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+userCols+" FROM users WHERE email=? LIMIT 1", email)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrUserNotFound
	}
	return u, err
}

// UpdateUser overwrites the mutable columns of an account.
func (r *UserRepo) UpdateUser(ctx context.Context, u *model.User) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET first_name=?, last_name=?, email=?, password_hash=?, role=?, phone=?, is_active=? WHERE id=?",
		u.FirstName, u.LastName, u.Email, u.PasswordHash, string(u.Role), u.Phone, u.IsActive, u.ID)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrEmailExists
		}
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// Either the row is gone or nothing changed; re-check existence.
		var one int
		if err := r.DB.QueryRowContext(ctx, "SELECT 1 FROM users WHERE id=? LIMIT 1", u.ID).Scan(&one); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrUserNotFound
			}
			return err
		}
	}
	return nil
}

// ListUsers returns every account ordered by registration time.
func (r *UserRepo) ListUsers(ctx context.Context) ([]model.User, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+userCols+" FROM users ORDER BY registered_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectUsers(rows)
}

// ListUsersByRole returns the accounts holding one role.
func (r *UserRepo) ListUsersByRole(ctx context.Context, role model.Role) ([]model.User, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+userCols+" FROM users WHERE role=? ORDER BY registered_at DESC", string(role))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectUsers(rows)
}

func collectUsers(rows *sql.Rows) ([]model.User, error) {
	var out []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}
