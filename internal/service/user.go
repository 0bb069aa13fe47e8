package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Mohamedaitzaouit/systeme-de-gestion-des-reservations/internal/model"
	"github.com/Mohamedaitzaouit/systeme-de-gestion-des-reservations/internal/repository"
	"github.com/Mohamedaitzaouit/systeme-de-gestion-des-reservations/internal/utils"
)

// bcryptCost is the work factor applied to all stored password hashes.
const bcryptCost = 12

// RegisterInput is the payload of a self-service account creation.
type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	Phone     string
	Role      model.Role
}

// UserService manages accounts: registration, authentication and
// profile maintenance.
type UserService struct {
	users UserStore
}

// NewUserService constructs a UserService.
func NewUserService(users UserStore) *UserService {
	return &UserService{users: users}
}

// Register creates an active account with a hashed password.  Only
// CLIENT and ORGANIZER accounts can be self-registered; admins are
// promoted by another admin.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (model.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || !strings.Contains(email, "@") {
		return model.User{}, BadRequest("a valid email is required")
	}
	if len(in.Password) < 8 {
		return model.User{}, BadRequest("password must be at least 8 characters")
	}
	if strings.TrimSpace(in.FirstName) == "" || strings.TrimSpace(in.LastName) == "" {
		return model.User{}, BadRequest("first and last name are required")
	}
	role := in.Role
	if role == "" {
		role = model.RoleClient
	}
	if role == model.RoleAdmin || !role.Valid() {
		return model.User{}, BadRequest("invalid role")
	}
	hash, err := utils.HashPassword(in.Password, bcryptCost)
	if err != nil {
		return model.User{}, fmt.Errorf("hash password: %w", err)
	}
	u := model.User{
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		Phone:        strings.TrimSpace(in.Phone),
		IsActive:     true,
		RegisteredAt: time.Now().UTC(),
	}
	if err := s.users.CreateUser(ctx, &u); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return model.User{}, Conflict("an account with this email already exists")
		}
		return model.User{}, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

// Authenticate checks an email/password pair against the stored hash.
// Deactivated accounts cannot sign in.  Every failure path returns
// ErrInvalidCredentials so callers cannot probe which emails exist.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	u, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return model.User{}, ErrInvalidCredentials
		}
		return model.User{}, fmt.Errorf("get user: %w", err)
	}
	if !u.IsActive || !utils.VerifyPassword(u.PasswordHash, password) {
		return model.User{}, ErrInvalidCredentials
	}
	return u, nil
}

// Get returns a single account by id.
func (s *UserService) Get(ctx context.Context, id uint64) (model.User, error) {
	u, err := s.users.GetUser(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return model.User{}, NotFound("user not found")
		}
		return model.User{}, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// UpdateProfile lets a user change their own name and phone number.
func (s *UserService) UpdateProfile(ctx context.Context, id uint64, firstName, lastName, phone string) (model.User, error) {
	u, err := s.Get(ctx, id)
	if err != nil {
		return model.User{}, err
	}
	if strings.TrimSpace(firstName) == "" || strings.TrimSpace(lastName) == "" {
		return model.User{}, BadRequest("first and last name are required")
	}
	u.FirstName = strings.TrimSpace(firstName)
	u.LastName = strings.TrimSpace(lastName)
	u.Phone = strings.TrimSpace(phone)
	if err := s.users.UpdateUser(ctx, &u); err != nil {
		return model.User{}, fmt.Errorf("update user: %w", err)
	}
	return u, nil
}

// ChangePassword replaces the stored hash after verifying the current
// password.
func (s *UserService) ChangePassword(ctx context.Context, id uint64, current, next string) error {
	u, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if !utils.VerifyPassword(u.PasswordHash, current) {
		return BadRequest("current password is incorrect")
	}
	if len(next) < 8 {
		return BadRequest("password must be at least 8 characters")
	}
	hash, err := utils.HashPassword(next, bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	u.PasswordHash = hash
	if err := s.users.UpdateUser(ctx, &u); err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

// SetActive activates or deactivates an account.  Admin only.
func (s *UserService) SetActive(ctx context.Context, id uint64, active bool, actor model.Actor) (model.User, error) {
	if actor.Role != model.RoleAdmin {
		return model.User{}, Forbidden("only admins can change account status")
	}
	u, err := s.Get(ctx, id)
	if err != nil {
		return model.User{}, err
	}
	u.IsActive = active
	if err := s.users.UpdateUser(ctx, &u); err != nil {
		return model.User{}, fmt.Errorf("update user: %w", err)
	}
	return u, nil
}

// ChangeRole changes an account's role.  Admin only.
func (s *UserService) ChangeRole(ctx context.Context, id uint64, role model.Role, actor model.Actor) (model.User, error) {
	if actor.Role != model.RoleAdmin {
		return model.User{}, Forbidden("only admins can change roles")
	}
	if !role.Valid() {
		return model.User{}, BadRequest("invalid role")
	}
	u, err := s.Get(ctx, id)
	if err != nil {
		return model.User{}, err
	}
	u.Role = role
	if err := s.users.UpdateUser(ctx, &u); err != nil {
		return model.User{}, fmt.Errorf("update user: %w", err)
	}
	return u, nil
}

// List returns every account.  Admin only.
func (s *UserService) List(ctx context.Context, actor model.Actor) ([]model.User, error) {
	if actor.Role != model.RoleAdmin {
		return nil, Forbidden("only admins can list users")
	}
	return s.users.ListUsers(ctx)
}

// ListByRole returns the accounts holding one role.  Admin only.
func (s *UserService) ListByRole(ctx context.Context, role model.Role, actor model.Actor) ([]model.User, error) {
	if actor.Role != model.RoleAdmin {
		return nil, Forbidden("only admins can list users")
	}
	return s.users.ListUsersByRole(ctx, role)
}
