package postgres

import (
	"database/sql"

	"github.com/cockroachdb/errors"
	"github.com/lib/pq"
)

// Postgres error codes the repositories react to
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// UniqueViolation returns the violated constraint when err is a unique violation
func UniqueViolation(err error) (string, bool) {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == pgUniqueViolation {
		return pqErr.Constraint, true
	}
	return "", false
}

// IsForeignKeyViolation reports whether err is a foreign key violation
func IsForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pgForeignKeyViolation
}

// IsNoRows reports whether err means the query matched nothing
func IsNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
