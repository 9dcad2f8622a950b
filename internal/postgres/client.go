package postgres

import (
	"context"
)

// IClient is the part of the database handle services depend on
type IClient interface {
	// WithTx runs fn inside a transaction. Calls nest through savepoints.
	WithTx(ctx context.Context, fn func(context.Context) error) error
}

var _ IClient = (*DB)(nil)
