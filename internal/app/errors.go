package app

import "errors"

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrEmailExists       = errors.New("email already registered")
	ErrInvalidCredential = errors.New("invalid email or password")
	ErrPostNotFound      = errors.New("post not found")
	ErrUserNotFound      = errors.New("user not found")
)

// FieldErrors reports which input fields failed validation. It is returned
// before any store mutation happens.
type FieldErrors map[string]string

func (e FieldErrors) Error() string { return "validation failed" }
