package postgres

import (
	"context"
	"strings"

	"github.com/taktakmenu/platform/internal/domain/tenant"
	ierr "github.com/taktakmenu/platform/internal/errors"
	"github.com/taktakmenu/platform/internal/logger"
	"github.com/taktakmenu/platform/internal/postgres"
	"github.com/taktakmenu/platform/internal/types"
)

const tenantColumns = `id, name, subdomain, email, logo_url, description, address, phone,
	opening_hours, theme_color, show_info_to_clients, created_by, created_at, updated_at`

type tenantRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewTenantRepository(db *postgres.DB, logger *logger.Logger) tenant.Repository {
	return &tenantRepository{db: db, logger: logger}
}

func (r *tenantRepository) Create(ctx context.Context, t *tenant.Tenant) error {
	r.logger.Debugw("creating tenant", "tenant_id", t.ID, "subdomain", t.Subdomain)

	query := `INSERT INTO tenants (` + tenantColumns + `) VALUES (
		:id, :name, :subdomain, :email, :logo_url, :description, :address, :phone,
		:opening_hours, :theme_color, :show_info_to_clients, :created_by, :created_at, :updated_at)`

	if _, err := r.db.GetQuerier(ctx).NamedExecContext(ctx, query, t); err != nil {
		if constraint, ok := constraintOf(err); ok {
			return tenantUniqueError(err, constraint, t)
		}
		return databaseError(err, "failed to create tenant")
	}
	return nil
}

func (r *tenantRepository) GetByID(ctx context.Context, id string) (*tenant.Tenant, error) {
	var t tenant.Tenant
	err := r.db.GetQuerier(ctx).GetContext(ctx, &t, `SELECT `+tenantColumns+` FROM tenants WHERE id = $1`, id)
	if err != nil {
		if postgres.IsNoRows(err) {
			return nil, tenant.NewTenantNotFoundError(id)
		}
		return nil, databaseError(err, "failed to get tenant")
	}
	return &t, nil
}

func (r *tenantRepository) GetBySubdomain(ctx context.Context, subdomain string) (*tenant.Tenant, error) {
	var t tenant.Tenant
	err := r.db.GetQuerier(ctx).GetContext(ctx, &t,
		`SELECT `+tenantColumns+` FROM tenants WHERE subdomain = $1`, subdomain)
	if err != nil {
		if postgres.IsNoRows(err) {
			return nil, tenant.NewSubdomainNotFoundError(subdomain)
		}
		return nil, databaseError(err, "failed to get tenant by subdomain")
	}
	return &t, nil
}

func (r *tenantRepository) GetByEmail(ctx context.Context, email string) (*tenant.Tenant, error) {
	var t tenant.Tenant
	err := r.db.GetQuerier(ctx).GetContext(ctx, &t,
		`SELECT `+tenantColumns+` FROM tenants WHERE email = $1`, email)
	if err != nil {
		if postgres.IsNoRows(err) {
			return nil, ierr.NewError("tenant not found").
				WithHint("No tenant is registered with this email").
				Mark(ierr.ErrNotFound)
		}
		return nil, databaseError(err, "failed to get tenant by email")
	}
	return &t, nil
}

func (r *tenantRepository) List(ctx context.Context, filter *types.TenantFilter) ([]*tenant.Tenant, error) {
	query, args := tenantWhere(`SELECT `+tenantColumns+` FROM tenants`, filter)
	query += orderClause(filter.GetSort(), filter.GetOrder())
	if !filter.IsUnlimited() {
		query += " LIMIT " + itoa(filter.GetLimit()) + " OFFSET " + itoa(filter.GetOffset())
	}

	var tenants []*tenant.Tenant
	if err := r.db.GetQuerier(ctx).SelectContext(ctx, &tenants, query, args...); err != nil {
		return nil, databaseError(err, "failed to list tenants")
	}
	return tenants, nil
}

func (r *tenantRepository) Count(ctx context.Context, filter *types.TenantFilter) (int, error) {
	query, args := tenantWhere(`SELECT COUNT(*) FROM tenants`, filter)

	var count int
	if err := r.db.GetQuerier(ctx).GetContext(ctx, &count, query, args...); err != nil {
		return 0, databaseError(err, "failed to count tenants")
	}
	return count, nil
}

func (r *tenantRepository) Update(ctx context.Context, t *tenant.Tenant) error {
	query := `UPDATE tenants SET
		name = :name,
		subdomain = :subdomain,
		email = :email,
		logo_url = :logo_url,
		description = :description,
		address = :address,
		phone = :phone,
		opening_hours = :opening_hours,
		theme_color = :theme_color,
		show_info_to_clients = :show_info_to_clients,
		updated_at = :updated_at
	WHERE id = :id`

	result, err := r.db.GetQuerier(ctx).NamedExecContext(ctx, query, t)
	if err != nil {
		if constraint, ok := constraintOf(err); ok {
			return tenantUniqueError(err, constraint, t)
		}
		return databaseError(err, "failed to update tenant")
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return tenant.NewTenantNotFoundError(t.ID)
	}
	return nil
}

// Delete removes the tenant. Users and subscriptions go with it through
// ON DELETE CASCADE.
func (r *tenantRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.GetQuerier(ctx).ExecContext(ctx, `DELETE FROM tenants WHERE id = $1`, id)
	if err != nil {
		return databaseError(err, "failed to delete tenant")
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return tenant.NewTenantNotFoundError(id)
	}
	return nil
}

func tenantWhere(base string, filter *types.TenantFilter) (string, []interface{}) {
	if filter == nil || filter.Subdomain == "" {
		return base, nil
	}
	return base + ` WHERE subdomain = $1`, []interface{}{strings.ToLower(filter.Subdomain)}
}

func tenantUniqueError(err error, constraint string, t *tenant.Tenant) error {
	switch constraint {
	case "tenants_subdomain_key":
		return tenant.NewSubdomainTakenError(t.Subdomain)
	case "tenants_email_key":
		return tenant.NewEmailTakenError(t.Email)
	default:
		return ierr.WithError(err).
			WithHint("Tenant already exists").
			WithReportableDetails(map[string]any{"name": t.Name}).
			Mark(ierr.ErrAlreadyExists)
	}
}
