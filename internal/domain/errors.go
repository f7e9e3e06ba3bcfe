package domain

import "errors"

// Sentinel errors. Services and stores wrap them with fmt.Errorf("...: %w")
// and the HTTP layer maps them to status codes with errors.Is.
var (
	// ErrNotFound: unknown account id, username or email, or an empty roster.
	ErrNotFound = errors.New("not found")
	// ErrConflict: username or email already taken, or an OTP consumed by a concurrent reset.
	ErrConflict = errors.New("conflict")
	// ErrBadRequest: input failed validation or tried to change an immutable field.
	ErrBadRequest = errors.New("bad request")

	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
)
