package social

import "errors"

var (
	// ErrInvalidEmail is returned when an email fails format validation
	ErrInvalidEmail = errors.New("invalid email address")

	// ErrUserNotFound is returned when the referenced user does not exist
	ErrUserNotFound = errors.New("user not found")
)
