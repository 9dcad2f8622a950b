package user

import (
	ierr "github.com/taktakmenu/platform/internal/errors"
)

func NewNotFoundError(id string) error {
	return ierr.NewError("user not found").
		WithHint("User not found").
		WithReportableDetails(map[string]any{"user_id": id}).
		Mark(ierr.ErrNotFound)
}

func NewEmailTakenError(email string) error {
	return ierr.NewError("user email already in use").
		WithHint("User with this email already exists").
		WithReportableDetails(map[string]any{"email": email}).
		Mark(ierr.ErrAlreadyExists)
}
