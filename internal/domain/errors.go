package domain

import "errors"

var (
	// ErrInvalidInput marks a submission with missing or empty required fields.
	ErrInvalidInput = errors.New("invalid input")

	// ErrConflict marks an account creation that collides on mobile or email.
	ErrConflict = errors.New("account already exists")

	// ErrNotFound marks a lookup that matched no record.
	ErrNotFound = errors.New("record not found")

	// ErrInvalidCredential marks a login with a wrong password.
	ErrInvalidCredential = errors.New("invalid credential")
)
