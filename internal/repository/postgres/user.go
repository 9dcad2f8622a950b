package postgres

import (
	"context"
	"strings"

	"github.com/taktakmenu/platform/internal/domain/user"
	ierr "github.com/taktakmenu/platform/internal/errors"
	"github.com/taktakmenu/platform/internal/logger"
	"github.com/taktakmenu/platform/internal/postgres"
)

const userColumns = `id, email, full_name, password_hash, role, is_active, tenant_id,
	created_by, created_at, updated_at`

type userRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewUserRepository(db *postgres.DB, logger *logger.Logger) user.Repository {
	return &userRepository{db: db, logger: logger}
}

func (r *userRepository) Create(ctx context.Context, u *user.User) error {
	query := `INSERT INTO users (` + userColumns + `) VALUES (
		:id, :email, :full_name, :password_hash, :role, :is_active, :tenant_id,
		:created_by, :created_at, :updated_at)`

	if _, err := r.db.GetQuerier(ctx).NamedExecContext(ctx, query, u); err != nil {
		if _, ok := constraintOf(err); ok {
			return user.NewEmailTakenError(u.Email)
		}
		if postgres.IsForeignKeyViolation(err) {
			return ierr.WithError(err).
				WithHint("The tenant for this user does not exist").
				Mark(ierr.ErrNotFound)
		}
		return databaseError(err, "failed to create user")
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*user.User, error) {
	var u user.User
	err := r.db.GetQuerier(ctx).GetContext(ctx, &u, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	if err != nil {
		if postgres.IsNoRows(err) {
			return nil, user.NewNotFoundError(id)
		}
		return nil, databaseError(err, "failed to get user")
	}
	return &u, nil
}

// GetByEmail is used by login and by the uniqueness check before creation.
// Emails are compared lower-cased.
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	var u user.User
	err := r.db.GetQuerier(ctx).GetContext(ctx, &u,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, strings.ToLower(email))
	if err != nil {
		if postgres.IsNoRows(err) {
			return nil, ierr.NewError("user not found").
				WithHint("User not found").
				Mark(ierr.ErrNotFound)
		}
		return nil, databaseError(err, "failed to get user by email")
	}
	return &u, nil
}

func (r *userRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetQuerier(ctx).GetContext(ctx, &count, `SELECT COUNT(*) FROM users`); err != nil {
		return 0, databaseError(err, "failed to count users")
	}
	return count, nil
}
