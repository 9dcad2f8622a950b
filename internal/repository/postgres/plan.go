package postgres

import (
	"context"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/taktakmenu/platform/internal/cache"
	domainPlan "github.com/taktakmenu/platform/internal/domain/plan"
	ierr "github.com/taktakmenu/platform/internal/errors"
	"github.com/taktakmenu/platform/internal/logger"
	"github.com/taktakmenu/platform/internal/postgres"
	"github.com/taktakmenu/platform/internal/types"
)

const planColumns = `id, name, description, price, currency, billing_period_unit,
	billing_period_value, features, is_popular, is_archived, created_at, updated_at`

type planRepository struct {
	db     *postgres.DB
	logger *logger.Logger
	cache  cache.Cache
}

// planRow is the storage shape of a plan
type planRow struct {
	ID                 string          `db:"id"`
	Name               string          `db:"name"`
	Description        string          `db:"description"`
	Price              decimal.Decimal `db:"price"`
	Currency           string          `db:"currency"`
	BillingPeriodUnit  string          `db:"billing_period_unit"`
	BillingPeriodValue int             `db:"billing_period_value"`
	Features           pq.StringArray  `db:"features"`
	IsPopular          bool            `db:"is_popular"`
	IsArchived         bool            `db:"is_archived"`
	CreatedAt          time.Time       `db:"created_at"`
	UpdatedAt          time.Time       `db:"updated_at"`
}

func newPlanRow(p *domainPlan.Plan) *planRow {
	features := p.Features
	if features == nil {
		features = []string{}
	}
	return &planRow{
		ID:                 p.ID,
		Name:               p.Name,
		Description:        p.Description,
		Price:              p.Price,
		Currency:           p.Currency,
		BillingPeriodUnit:  string(p.BillingPeriodUnit),
		BillingPeriodValue: p.BillingPeriodValue,
		Features:           pq.StringArray(features),
		IsPopular:          p.IsPopular,
		IsArchived:         p.IsArchived,
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,
	}
}

func (r *planRow) toDomain() *domainPlan.Plan {
	return &domainPlan.Plan{
		ID:                 r.ID,
		Name:               r.Name,
		Description:        r.Description,
		Price:              r.Price,
		Currency:           r.Currency,
		BillingPeriodUnit:  types.BillingPeriodUnit(r.BillingPeriodUnit),
		BillingPeriodValue: r.BillingPeriodValue,
		Features:           []string(r.Features),
		IsPopular:          r.IsPopular,
		IsArchived:         r.IsArchived,
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          r.UpdatedAt,
	}
}

func NewPlanRepository(db *postgres.DB, logger *logger.Logger, cache cache.Cache) domainPlan.Repository {
	return &planRepository{db: db, logger: logger, cache: cache}
}

func (r *planRepository) Create(ctx context.Context, p *domainPlan.Plan) error {
	r.logger.Debugw("creating plan", "plan_id", p.ID, "name", p.Name)

	query := `INSERT INTO plans (` + planColumns + `) VALUES (
		:id, :name, :description, :price, :currency, :billing_period_unit,
		:billing_period_value, :features, :is_popular, :is_archived, :created_at, :updated_at)`

	if _, err := r.db.GetQuerier(ctx).NamedExecContext(ctx, query, newPlanRow(p)); err != nil {
		if _, ok := constraintOf(err); ok {
			return ierr.WithError(err).
				WithHint("A plan with this name already exists").
				WithReportableDetails(map[string]any{"name": p.Name}).
				Mark(ierr.ErrAlreadyExists)
		}
		return databaseError(err, "failed to create plan")
	}
	return nil
}

func (r *planRepository) Get(ctx context.Context, id string) (*domainPlan.Plan, error) {
	if p := r.getCache(ctx, id); p != nil {
		return p, nil
	}

	var row planRow
	err := r.db.GetQuerier(ctx).GetContext(ctx, &row, `SELECT `+planColumns+` FROM plans WHERE id = $1`, id)
	if err != nil {
		if postgres.IsNoRows(err) {
			return nil, domainPlan.NewNotFoundError(id)
		}
		return nil, databaseError(err, "failed to get plan")
	}

	p := row.toDomain()
	r.setCache(ctx, p)
	return p, nil
}

func (r *planRepository) GetByName(ctx context.Context, name string) (*domainPlan.Plan, error) {
	var row planRow
	err := r.db.GetQuerier(ctx).GetContext(ctx, &row, `SELECT `+planColumns+` FROM plans WHERE name = $1`, name)
	if err != nil {
		if postgres.IsNoRows(err) {
			return nil, ierr.NewError("plan not found").
				WithHintf("Plan %s was not found", name).
				Mark(ierr.ErrNotFound)
		}
		return nil, databaseError(err, "failed to get plan by name")
	}
	return row.toDomain(), nil
}

func (r *planRepository) List(ctx context.Context, filter *types.PlanFilter) ([]*domainPlan.Plan, error) {
	query, args := planWhere(`SELECT `+planColumns+` FROM plans`, filter)
	query += orderClause(filter.GetSort(), filter.GetOrder())
	if !filter.IsUnlimited() {
		query += " LIMIT " + itoa(filter.GetLimit()) + " OFFSET " + itoa(filter.GetOffset())
	}

	var rows []planRow
	if err := r.db.GetQuerier(ctx).SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, databaseError(err, "failed to list plans")
	}
	return planRowsToDomain(rows), nil
}

func (r *planRepository) Count(ctx context.Context, filter *types.PlanFilter) (int, error) {
	query, args := planWhere(`SELECT COUNT(*) FROM plans`, filter)

	var count int
	if err := r.db.GetQuerier(ctx).GetContext(ctx, &count, query, args...); err != nil {
		return 0, databaseError(err, "failed to count plans")
	}
	return count, nil
}

func (r *planRepository) ListPublic(ctx context.Context, includeArchived bool) ([]*domainPlan.Plan, error) {
	query := `SELECT ` + planColumns + ` FROM plans`
	if !includeArchived {
		query += ` WHERE is_archived = FALSE`
	}
	query += ` ORDER BY price ASC, created_at ASC`

	var rows []planRow
	if err := r.db.GetQuerier(ctx).SelectContext(ctx, &rows, query); err != nil {
		return nil, databaseError(err, "failed to list public plans")
	}
	return planRowsToDomain(rows), nil
}

func (r *planRepository) Update(ctx context.Context, p *domainPlan.Plan) error {
	query := `UPDATE plans SET
		name = :name,
		description = :description,
		price = :price,
		currency = :currency,
		billing_period_unit = :billing_period_unit,
		billing_period_value = :billing_period_value,
		features = :features,
		is_popular = :is_popular,
		is_archived = :is_archived,
		updated_at = :updated_at
	WHERE id = :id`

	result, err := r.db.GetQuerier(ctx).NamedExecContext(ctx, query, newPlanRow(p))
	if err != nil {
		if _, ok := constraintOf(err); ok {
			return domainPlan.NewNameTakenError(p.Name)
		}
		return databaseError(err, "failed to update plan")
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return domainPlan.NewNotFoundError(p.ID)
	}

	r.deleteCache(ctx, p.ID)
	return nil
}

func (r *planRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.GetQuerier(ctx).ExecContext(ctx, `DELETE FROM plans WHERE id = $1`, id)
	if err != nil {
		if postgres.IsForeignKeyViolation(err) {
			return ierr.WithError(err).
				WithHint("Cannot delete a plan that has subscriptions").
				WithReportableDetails(map[string]any{"plan_id": id}).
				Mark(ierr.ErrConflict)
		}
		return databaseError(err, "failed to delete plan")
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return domainPlan.NewNotFoundError(id)
	}

	r.deleteCache(ctx, id)
	return nil
}

func planWhere(base string, filter *types.PlanFilter) (string, []interface{}) {
	if filter == nil || filter.IsArchived == nil {
		return base, nil
	}
	return base + ` WHERE is_archived = $1`, []interface{}{*filter.IsArchived}
}

func planRowsToDomain(rows []planRow) []*domainPlan.Plan {
	plans := make([]*domainPlan.Plan, len(rows))
	for i := range rows {
		plans[i] = rows[i].toDomain()
	}
	return plans
}

func (r *planRepository) getCache(ctx context.Context, id string) *domainPlan.Plan {
	span := cache.StartCacheSpan(ctx, "plan", "get", map[string]interface{}{"plan_id": id})
	value, found := r.cache.Get(ctx, cache.PlanKey(id))
	cache.FinishSpan(span, found)
	if !found {
		return nil
	}
	if p, ok := value.(*domainPlan.Plan); ok {
		// callers may mutate what they get back
		copied := *p
		copied.Features = append([]string(nil), p.Features...)
		return &copied
	}
	return nil
}

func (r *planRepository) setCache(ctx context.Context, p *domainPlan.Plan) {
	copied := *p
	copied.Features = append([]string(nil), p.Features...)
	r.cache.Set(ctx, cache.PlanKey(p.ID), &copied, 0)
}

func (r *planRepository) deleteCache(ctx context.Context, id string) {
	r.cache.Delete(ctx, cache.PlanKey(id))
}
