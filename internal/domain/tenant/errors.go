package tenant

import (
	ierr "github.com/taktakmenu/platform/internal/errors"
)

func NewTenantNotFoundError(id string) error {
	return ierr.NewError("tenant not found").
		WithHintf("Tenant %s was not found", id).
		WithTenant(id).
		Mark(ierr.ErrNotFound)
}

func NewSubdomainNotFoundError(subdomain string) error {
	return ierr.NewError("tenant not found").
		WithHintf("No tenant is registered for subdomain %s", subdomain).
		WithReportableDetails(map[string]any{"subdomain": subdomain}).
		Mark(ierr.ErrNotFound)
}

func NewSubdomainTakenError(subdomain string) error {
	return ierr.NewError("subdomain already in use").
		WithHint("Subdomain already exists").
		WithReportableDetails(map[string]any{"subdomain": subdomain}).
		Mark(ierr.ErrAlreadyExists)
}

func NewEmailTakenError(email string) error {
	return ierr.NewError("tenant email already in use").
		WithHint("Email already exists").
		WithReportableDetails(map[string]any{"email": email}).
		Mark(ierr.ErrAlreadyExists)
}
