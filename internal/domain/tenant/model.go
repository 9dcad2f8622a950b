package tenant

import (
	"time"
)

// Tenant is a customer organisation, one restaurant or brand, addressed by subdomain
type Tenant struct {
	ID                string    `db:"id" json:"id"`
	Name              string    `db:"name" json:"name"`
	Subdomain         string    `db:"subdomain" json:"subdomain"`
	Email             string    `db:"email" json:"email"`
	LogoURL           string    `db:"logo_url" json:"logo_url"`
	Description       string    `db:"description" json:"description"`
	Address           string    `db:"address" json:"address"`
	Phone             string    `db:"phone" json:"phone"`
	OpeningHours      string    `db:"opening_hours" json:"opening_hours"`
	ThemeColor        string    `db:"theme_color" json:"theme_color"`
	ShowInfoToClients bool      `db:"show_info_to_clients" json:"show_info_to_clients"`
	CreatedBy         string    `db:"created_by" json:"created_by"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time `db:"updated_at" json:"updated_at"`
}
