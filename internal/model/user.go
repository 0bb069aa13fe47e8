package model

import (
	"strings"
	"time"
)

// Role classifies what a user account is allowed to do.  Roles are
// stored as strings in the `users` table and embedded in JWT claims.
type Role string

// Valid roles.  ADMIN oversees everything, ORGANIZER owns events,
// CLIENT books reservations.
const (
	RoleAdmin     Role = "ADMIN"
	RoleOrganizer Role = "ORGANIZER"
	RoleClient    Role = "CLIENT"
)

// ParseRole normalizes a raw role string.  Anything that is not a
// known role becomes RoleClient, mirroring the registration default.
func ParseRole(s string) Role {
	switch r := Role(strings.ToUpper(strings.TrimSpace(s))); r {
	case RoleAdmin, RoleOrganizer, RoleClient:
		return r
	default:
		return RoleClient
	}
}

// Valid reports whether the role is one of the three known values.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleOrganizer || r == RoleClient
}

// User represents an application user record as stored in the
// `users` table.
//
// Fields:
//  ID           – primary key identifier of the user.
//  FirstName    – given name.
//  LastName     – family name.
//  Email        – unique email address (stored lowercase).
//  PasswordHash – bcrypt hashed password.
//  Role         – ADMIN, ORGANIZER or CLIENT.
//  Phone        – optional phone number.
//  IsActive     – whether the account is active; deactivation is a
//                 flag flip, never a delete.
//  RegisteredAt – timestamp of registration.
type User struct {
	ID           uint64    // users.id
	FirstName    string    // users.first_name
	LastName     string    // users.last_name
	Email        string    // users.email
	PasswordHash string    // users.password_hash
	Role         Role      // users.role
	Phone        string    // users.phone
	IsActive     bool      // users.is_active
	RegisteredAt time.Time // users.registered_at
}

// FullName returns "FirstName LastName" for display purposes.
func (u User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// Actor is the identity under which a core operation runs.  It is the
// projection of a User that services need for authorization: an id and
// a role.  Handlers build it from JWT claims; the core never reaches
// into request state itself.
type Actor struct {
	ID   uint64
	Role Role
}

// Actor converts a full user record into an actor identity.
func (u User) Actor() Actor {
	return Actor{ID: u.ID, Role: u.Role}
}

// RefreshToken models an entry in the `refresh_tokens` table.  Only
// the SHA-256 hash of the token value is stored.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – owner of the token.
//  TokenHash – SHA-256 hex digest of the token value.
//  ExpiresAt – expiration timestamp of the token.
//  RevokedAt – when the token was revoked (nil if still active).
//  CreatedAt – timestamp of creation.
type RefreshToken struct {
	ID        uint64     // refresh_tokens.id
	UserID    uint64     // refresh_tokens.user_id
	TokenHash string     // refresh_tokens.token_hash
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt time.Time  // refresh_tokens.created_at
}
