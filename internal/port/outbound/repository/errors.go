package repository

import "errors"

var (
	// ErrNotFound is returned when a requested entity is not found.
	ErrNotFound = errors.New("entity not found")

	// ErrUsernameConflict is returned when a write violates username uniqueness.
	ErrUsernameConflict = errors.New("username already exists")

	// ErrEmailConflict is returned when a write violates email uniqueness.
	ErrEmailConflict = errors.New("email already exists")

	// ErrPasswordMismatch is returned by RotatePassword when the current password is wrong.
	ErrPasswordMismatch = errors.New("password mismatch")
)
