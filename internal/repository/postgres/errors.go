package postgres

import (
	"strconv"

	ierr "github.com/taktakmenu/platform/internal/errors"
	"github.com/taktakmenu/platform/internal/postgres"
)

// databaseError wraps a storage failure that has no more specific meaning
func databaseError(err error, op string) error {
	return ierr.WithError(err).
		WithMessage(op).
		WithHint("A database error occurred, please try again").
		Mark(ierr.ErrDatabase)
}

// orderClause builds an ORDER BY for a column already checked against the
// entity's sortable list
func orderClause(sort, order string) string {
	if order != "asc" {
		order = "desc"
	}
	return " ORDER BY " + sort + " " + order
}

// constraintOf returns the violated unique constraint, if any
func constraintOf(err error) (string, bool) {
	return postgres.UniqueViolation(err)
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
