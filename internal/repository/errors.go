// Package repository implements the persistent store for users,
// events and reservations on MySQL.  This file defines sentinel
// errors shared across repositories.  These values let higher layers
// such as services distinguish between failure scenarios without
// inspecting driver errors.
package repository

import "errors"

// ErrEventNotFound indicates that no event exists with the given id.
var ErrEventNotFound = errors.New("event not found")

// ErrReservationNotFound indicates that no reservation exists with the
// given id or code.
var ErrReservationNotFound = errors.New("reservation not found")

// ErrUserNotFound indicates that no user exists with the given id or
// email.
var ErrUserNotFound = errors.New("user not found")

// ErrEmailExists is returned when registration collides with an
// existing email address.  Email addresses are unique.
var ErrEmailExists = errors.New("email already exists")
