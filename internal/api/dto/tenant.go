package dto

import (
	"context"
	"strings"
	"time"

	"github.com/taktakmenu/platform/internal/domain/tenant"
	"github.com/taktakmenu/platform/internal/types"
	"github.com/taktakmenu/platform/internal/validator"
)

// CreateTenantRequest provisions a tenant together with its administrator
// and first subscription
type CreateTenantRequest struct {
	Email     string `json:"email" validate:"required,email,max=255"`
	FullName  string `json:"full_name" validate:"required,max=255"`
	Password  string `json:"password" validate:"required,min=6"`
	Subdomain string `json:"subdomain" validate:"required,max=63,subdomain"`
	Phone     string `json:"phone,omitempty" validate:"omitempty,max=50"`
	PlanID    string `json:"plan_id" validate:"required"`
}

// Normalize lower-cases the identifying fields before validation and lookups
func (r *CreateTenantRequest) Normalize() {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Subdomain = strings.TrimSpace(r.Subdomain)
	r.FullName = strings.TrimSpace(r.FullName)
}

func (r *CreateTenantRequest) Validate() error {
	return validator.ValidateRequest(r)
}

// ToTenant builds the tenant row. The tenant name is its subdomain.
func (r *CreateTenantRequest) ToTenant(ctx context.Context) *tenant.Tenant {
	now := time.Now().UTC()
	return &tenant.Tenant{
		ID:                types.GenerateUUIDWithPrefix(types.IDPrefixTenant),
		Name:              r.Subdomain,
		Subdomain:         r.Subdomain,
		Email:             r.Email,
		Phone:             r.Phone,
		ShowInfoToClients: true,
		CreatedBy:         types.GetUserID(ctx),
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

// UpdateTenantProfileRequest carries the fields a tenant administrator may edit
type UpdateTenantProfileRequest struct {
	Name              *string `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	LogoURL           *string `json:"logo_url,omitempty" validate:"omitempty,url"`
	Description       *string `json:"description,omitempty"`
	Address           *string `json:"address,omitempty"`
	Phone             *string `json:"phone,omitempty" validate:"omitempty,max=50"`
	OpeningHours      *string `json:"opening_hours,omitempty"`
	ThemeColor        *string `json:"theme_color,omitempty" validate:"omitempty,max=20"`
	ShowInfoToClients *bool   `json:"show_info_to_clients,omitempty"`
}

func (r *UpdateTenantProfileRequest) Validate() error {
	return validator.ValidateRequest(r)
}

func (r *UpdateTenantProfileRequest) Apply(t *tenant.Tenant) {
	if r.Name != nil {
		t.Name = strings.TrimSpace(*r.Name)
	}
	if r.LogoURL != nil {
		t.LogoURL = *r.LogoURL
	}
	if r.Description != nil {
		t.Description = *r.Description
	}
	if r.Address != nil {
		t.Address = *r.Address
	}
	if r.Phone != nil {
		t.Phone = *r.Phone
	}
	if r.OpeningHours != nil {
		t.OpeningHours = *r.OpeningHours
	}
	if r.ThemeColor != nil {
		t.ThemeColor = *r.ThemeColor
	}
	if r.ShowInfoToClients != nil {
		t.ShowInfoToClients = *r.ShowInfoToClients
	}
	t.UpdatedAt = time.Now().UTC()
}

// UpdateTenantRequest is the platform operator variant that may also move the
// tenant to another subdomain or contact email
type UpdateTenantRequest struct {
	UpdateTenantProfileRequest
	Subdomain *string `json:"subdomain,omitempty" validate:"omitempty,max=63,subdomain"`
	Email     *string `json:"email,omitempty" validate:"omitempty,email,max=255"`
}

func (r *UpdateTenantRequest) Validate() error {
	return validator.ValidateRequest(r)
}

type TenantResponse struct {
	*tenant.Tenant
	AdminUserID  string                `json:"admin_user_id,omitempty"`
	Subscription *SubscriptionResponse `json:"subscription,omitempty"`
}

func NewTenantResponse(t *tenant.Tenant) *TenantResponse {
	return &TenantResponse{Tenant: t}
}

// ListTenantsResponse represents the response for listing tenants
type ListTenantsResponse = types.ListResponse[*TenantResponse]

// PublicTenantProfileResponse is what menu visitors see. Contact details are
// only included when the tenant opted in.
type PublicTenantProfileResponse struct {
	Name         string `json:"name"`
	Subdomain    string `json:"subdomain"`
	LogoURL      string `json:"logo_url,omitempty"`
	Description  string `json:"description,omitempty"`
	ThemeColor   string `json:"theme_color,omitempty"`
	Address      string `json:"address,omitempty"`
	Phone        string `json:"phone,omitempty"`
	OpeningHours string `json:"opening_hours,omitempty"`
}

func NewPublicTenantProfileResponse(t *tenant.Tenant) *PublicTenantProfileResponse {
	resp := &PublicTenantProfileResponse{
		Name:        t.Name,
		Subdomain:   t.Subdomain,
		LogoURL:     t.LogoURL,
		Description: t.Description,
		ThemeColor:  t.ThemeColor,
	}
	if t.ShowInfoToClients {
		resp.Address = t.Address
		resp.Phone = t.Phone
		resp.OpeningHours = t.OpeningHours
	}
	return resp
}
