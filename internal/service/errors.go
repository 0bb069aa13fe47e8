// Package service implements the booking core: the event lifecycle
// manager, the booking engine and the reporting queries.  Services
// operate on the domain model through store interfaces, take an
// explicit actor identity on every call and report failures as typed
// domain errors so that the HTTP layer can translate them without
// string matching.
package service

import "errors"

// Kind classifies a domain failure.  Every error the core returns is
// either one of these kinds or a wrapped store error.
type Kind int

// Failure kinds, mirroring the error taxonomy of the booking core.
const (
	// KindNotFound: the referenced event, reservation or user does
	// not exist.
	KindNotFound Kind = iota + 1
	// KindForbidden: the actor lacks the role or ownership the
	// operation requires.
	KindForbidden
	// KindBadRequest: a business rule was violated; the message
	// carries the human-readable reason.
	KindBadRequest
	// KindConflict: a uniqueness violation (duplicate email,
	// exhausted reservation-code retries).
	KindConflict
)

// Error is a typed domain failure with a caller-facing message.
type Error struct {
	Kind Kind
	Msg  string
}

// Error implements the error interface.
func (e *Error) Error() string { return e.Msg }

// NotFound builds a KindNotFound error.
func NotFound(msg string) error { return &Error{Kind: KindNotFound, Msg: msg} }

// Forbidden builds a KindForbidden error.
func Forbidden(msg string) error { return &Error{Kind: KindForbidden, Msg: msg} }

// BadRequest builds a KindBadRequest error.
func BadRequest(msg string) error { return &Error{Kind: KindBadRequest, Msg: msg} }

// Conflict builds a KindConflict error.
func Conflict(msg string) error { return &Error{Kind: KindConflict, Msg: msg} }

// KindOf extracts the failure kind from err, or 0 when err is not a
// domain error.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return 0
}

// ErrInvalidCredentials is returned by Authenticate when the email is
// unknown, the account is inactive, or the password does not match.
// The three cases are deliberately indistinguishable to the caller.
var ErrInvalidCredentials = errors.New("invalid credentials")
