package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	ierr "github.com/taktakmenu/platform/internal/errors"
	"github.com/taktakmenu/platform/internal/types"
)

// Tx is a transaction carried in the request context. Nested WithTx calls
// share it and open numbered savepoints.
type Tx struct {
	*sqlx.Tx
	ID    string
	depth int
}

// GetTx retrieves a transaction from the context if it exists
func GetTx(ctx context.Context) (*Tx, bool) {
	tx, ok := ctx.Value(types.CtxDBTransaction).(*Tx)
	return tx, ok
}

func (tx *Tx) savepoint() string {
	return fmt.Sprintf("sp_%d", tx.depth)
}

// exec runs a savepoint statement and turns a failure into a database error
func (tx *Tx) exec(ctx context.Context, stmt string) error {
	if _, err := tx.ExecContext(ctx, stmt); err != nil {
		return ierr.WithError(err).
			WithMessage(stmt).
			Mark(ierr.ErrDatabase)
	}
	return nil
}

// BeginTx starts a transaction, or opens a savepoint when ctx already carries one
func (db *DB) BeginTx(ctx context.Context) (context.Context, *Tx, error) {
	if tx, ok := GetTx(ctx); ok {
		tx.depth++
		db.logger.Debugw("opening savepoint", "tx_id", tx.ID, "savepoint", tx.savepoint())
		if err := tx.exec(ctx, "SAVEPOINT "+tx.savepoint()); err != nil {
			tx.depth--
			return ctx, nil, err
		}
		return ctx, tx, nil
	}

	sqlxTx, err := db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return ctx, nil, ierr.WithError(err).
			WithMessage("begin transaction").
			Mark(ierr.ErrDatabase)
	}

	tx := &Tx{Tx: sqlxTx, ID: types.GenerateUUID()}
	db.logger.Debugw("transaction started",
		"tx_id", tx.ID,
		"tenant_id", types.GetTenantID(ctx),
		"request_id", types.GetRequestID(ctx),
	)
	return context.WithValue(ctx, types.CtxDBTransaction, tx), tx, nil
}

// CommitTx commits the innermost level: a savepoint is released, the outer
// transaction is committed
func (db *DB) CommitTx(ctx context.Context) error {
	return db.finish(ctx, true)
}

// RollbackTx undoes the innermost level only
func (db *DB) RollbackTx(ctx context.Context) error {
	return db.finish(ctx, false)
}

func (db *DB) finish(ctx context.Context, commit bool) error {
	tx, ok := GetTx(ctx)
	if !ok {
		return ierr.NewError("no transaction in context").Mark(ierr.ErrSystem)
	}

	if tx.depth > 0 {
		stmt := "ROLLBACK TO SAVEPOINT " + tx.savepoint()
		if commit {
			stmt = "RELEASE SAVEPOINT " + tx.savepoint()
		}
		db.logger.Debugw("closing savepoint", "tx_id", tx.ID, "statement", stmt)
		// the level is closed even when the statement fails
		tx.depth--
		return tx.exec(ctx, stmt)
	}

	var err error
	if commit {
		err = tx.Commit()
	} else {
		err = tx.Rollback()
	}
	db.logger.Debugw("transaction finished", "tx_id", tx.ID, "committed", commit, "error", err)
	if err != nil {
		return ierr.WithError(err).
			WithMessage(fmt.Sprintf("finish transaction %s", tx.ID)).
			Mark(ierr.ErrDatabase)
	}
	return nil
}

// WithTx executes fn within a transaction. The error returned by fn is passed
// through untouched so callers can keep inspecting its markers.
func (db *DB) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	ctx, tx, err := db.BeginTx(ctx)
	if err != nil {
		return err
	}

	defer func() {
		if r := recover(); r != nil {
			db.logger.Errorw("panic in transaction", "tx_id", tx.ID, "panic", r)
			_ = db.RollbackTx(ctx)
			panic(r)
		}
	}()

	if err := fn(ctx); err != nil {
		if rbErr := db.RollbackTx(ctx); rbErr != nil {
			db.logger.Errorw("failed to roll back transaction",
				"tx_id", tx.ID,
				"error", rbErr,
				"original_error", err,
			)
		}
		return err
	}

	return db.CommitTx(ctx)
}
