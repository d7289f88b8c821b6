package user

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrWrongPassword      = errors.New("wrong password")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
	ErrInvalidEmail       = errors.New("invalid email address")

	// ErrConflict reports a database constraint violation that slipped
	// past the service-level pre-checks, such as two registrations
	// racing on the same email.
	ErrConflict = errors.New("constraint violated")
)
