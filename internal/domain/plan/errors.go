package plan

import (
	ierr "github.com/taktakmenu/platform/internal/errors"
)

func NewNotFoundError(id string) error {
	return ierr.NewError("plan not found").
		WithHintf("Plan with ID %s was not found", id).
		WithReportableDetails(map[string]any{
			"plan_id": id,
		}).
		Mark(ierr.ErrNotFound)
}

func NewNameTakenError(name string) error {
	return ierr.NewError("plan name already exists").
		WithHint("A plan with this name already exists").
		WithReportableDetails(map[string]any{
			"name": name,
		}).
		Mark(ierr.ErrAlreadyExists)
}
